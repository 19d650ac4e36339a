package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/dispatch"
	"github.com/ekainfr/vtauto/internal/rpc"
	"github.com/ekainfr/vtauto/internal/vom"
)

func newFindCmd() *cobra.Command {
	var session string
	var role string
	var name string
	var text string
	var focusedOnly bool

	cmd := &cobra.Command{
		Use:   "find",
		Short: "List detected UI elements matching filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []vom.Element
			err := dial().Call(rpc.MethodFind, struct {
				Session string
				Filters dispatch.FindFilters
			}{session, dispatch.FindFilters{Role: role, NameSubstring: name, TextSubstring: text, FocusedOnly: focusedOnly}}, &result)
			if err != nil {
				return err
			}
			for _, el := range result {
				focused := ""
				if el.Focused {
					focused = " focused"
				}
				fmt.Printf("%-10s %-8s %3d,%-3d %q%s\n", el.Ref, el.Role, el.Rect.Row, el.Rect.Col, el.Text, focused)
			}
			return nil
		},
	}
	sessionFlag(cmd, &session)
	cmd.Flags().StringVar(&role, "role", "", "Filter by role (e.g. Button, Input, Checkbox)")
	cmd.Flags().StringVar(&name, "name", "", "Filter by substring match on element text")
	cmd.Flags().StringVar(&text, "text", "", "Filter by substring match on element text")
	cmd.Flags().BoolVar(&focusedOnly, "focused", false, "Only show the currently focused element")
	return cmd
}
