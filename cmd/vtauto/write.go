package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/dispatch"
	"github.com/ekainfr/vtauto/internal/rpc"
)

func newWriteCmd() *cobra.Command {
	var session string
	var key string
	var text string
	var newline bool

	cmd := &cobra.Command{
		Use:     "write",
		Aliases: []string{"send"},
		Short:   "Write text or a named key to a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := dispatch.WriteInput{Key: key}
			if key == "" {
				payload := text
				if len(args) > 0 {
					payload = strings.Join(args, " ")
				}
				if newline {
					payload += "\r"
				}
				in.Raw = []byte(payload)
			}
			return dial().Call(rpc.MethodWrite, struct {
				Session string
				Input   dispatch.WriteInput
			}{session, in}, nil)
		},
	}
	sessionFlag(cmd, &session)
	cmd.Flags().StringVar(&key, "key", "", "Named key to send, per the key-name grammar (e.g. Ctrl+C, Enter, Tab)")
	cmd.Flags().StringVar(&text, "text", "", "Literal text to send")
	cmd.Flags().BoolVar(&newline, "newline", false, "Append a carriage return after --text/positional args")
	return cmd
}
