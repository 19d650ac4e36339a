package main

import (
	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/rpc"
)

func newKillCmd() *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "kill",
		Short: "Terminate a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dial().Call(rpc.MethodKill, struct{ Session string }{session}, nil)
		},
	}
	sessionFlag(cmd, &session)
	return cmd
}
