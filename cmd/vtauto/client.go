package main

import (
	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/rpc"
	"github.com/ekainfr/vtauto/internal/socketdir"
)

// dial connects to the daemon's control socket.
func dial() *rpc.Client {
	return rpc.Dial(socketdir.Path())
}

// sessionFlag registers the common --session flag (empty string resolves
// to the active session on the daemon side).
func sessionFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVar(dst, "session", "", "Session id or unique prefix (default: active session)")
}
