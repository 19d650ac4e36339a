package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/dispatch"
	"github.com/ekainfr/vtauto/internal/rpc"
)

func newActionCmd() *cobra.Command {
	var session string
	var ref string
	var value string
	var option string
	var state string
	var direction string
	var amount int

	cmd := &cobra.Command{
		Use:   "action <verb>",
		Short: "Perform a UI action against a detected element (click, fill, toggle, ...)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verb := dispatch.Verb(args[0])
			if ref == "" {
				return fmt.Errorf("--ref is required")
			}
			p := dispatch.ActionParams{
				ElementRef: ref, Verb: verb, Value: value, Option: option,
				State: state, Direction: direction, Amount: amount,
			}
			return dial().Call(rpc.MethodAction, struct {
				Session string
				Action  dispatch.ActionParams
			}{session, p}, nil)
		},
	}
	sessionFlag(cmd, &session)
	cmd.Flags().StringVar(&ref, "ref", "", "Element reference, e.g. @ebtn1a2b")
	cmd.Flags().StringVar(&value, "value", "", "Value for fill")
	cmd.Flags().StringVar(&option, "option", "", "Option text for select")
	cmd.Flags().StringVar(&state, "state", "", "Target state for toggle: checked|unchecked")
	cmd.Flags().StringVar(&direction, "direction", "down", "Scroll direction: up|down")
	cmd.Flags().IntVar(&amount, "amount", 1, "Scroll amount")
	return cmd
}
