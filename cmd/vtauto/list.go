package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/rpc"
	"github.com/ekainfr/vtauto/internal/session"
	s "github.com/ekainfr/vtauto/internal/termstyle"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List running sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Sessions []session.Info
				Active   string
			}
			if err := dial().Call(rpc.MethodList, nil, &result); err != nil {
				return err
			}
			if len(result.Sessions) == 0 {
				fmt.Println("No running sessions.")
				return nil
			}
			for _, info := range result.Sessions {
				printSessionLine(info, info.ID == result.Active)
			}
			return nil
		},
	}
	return cmd
}

func printSessionLine(info session.Info, active bool) {
	dot := s.GreenDot()
	if !info.Running {
		dot = s.RedDot()
	}
	marker := ""
	if active {
		marker = s.Bold("*")
	}
	short := info.ID
	if len(short) > 8 {
		short = short[:8]
	}
	cmdLine := info.Command
	for _, a := range info.Args {
		cmdLine += " " + a
	}
	fmt.Printf("%s %s%-8s %s %s %s\n", dot, marker, short, s.Dim(cmdLine), s.Dim(fmt.Sprintf("%dx%d", info.Cols, info.Rows)), s.Dim(time.Since(info.CreatedAt).Round(time.Second).String()))
}
