package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/dispatch"
	"github.com/ekainfr/vtauto/internal/rpc"
)

func newSnapshotCmd() *cobra.Command {
	var session string
	var withElements bool
	var stripANSI bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print a session's current screen state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result dispatch.SnapshotResult
			err := dial().Call(rpc.MethodSnapshot, struct {
				Session string
				Params  dispatch.SnapshotParams
			}{session, dispatch.SnapshotParams{IncludeElements: withElements, StripANSI: stripANSI, IncludeCursor: true}}, &result)
			if err != nil {
				return err
			}
			if asJSON {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			fmt.Print(result.Screen)
			if len(result.Screen) == 0 || result.Screen[len(result.Screen)-1] != '\n' {
				fmt.Println()
			}
			return nil
		},
	}
	sessionFlag(cmd, &session)
	cmd.Flags().BoolVar(&withElements, "elements", false, "Include detected UI elements")
	cmd.Flags().BoolVar(&stripANSI, "plain", false, "Strip ANSI styling from the screen text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full snapshot as JSON")
	return cmd
}
