package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/rpc"
)

func newResizeCmd() *cobra.Command {
	var session string
	var cols, rows int
	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Resize a session's PTY",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct{ Cols, Rows int }
			err := dial().Call(rpc.MethodResize, struct {
				Session    string
				Cols, Rows int
			}{session, cols, rows}, &result)
			if err != nil {
				return err
			}
			fmt.Printf("%dx%d\n", result.Cols, result.Rows)
			return nil
		},
	}
	sessionFlag(cmd, &session)
	cmd.Flags().IntVar(&cols, "cols", 80, "New width")
	cmd.Flags().IntVar(&rows, "rows", 24, "New height")
	return cmd
}
