package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/dispatch"
	"github.com/ekainfr/vtauto/internal/rpc"
	s "github.com/ekainfr/vtauto/internal/termstyle"
)

func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Report daemon process health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result dispatch.HealthResult
			if err := dial().Call(rpc.MethodHealth, nil, &result); err != nil {
				return err
			}
			dot := s.GreenDot()
			if result.Status != "ok" {
				dot = s.YellowDot()
			}
			fmt.Printf("%s %s pid=%d uptime=%.0fs sessions=%d\n", dot, result.Status, result.PID, result.UptimeSeconds, result.SessionCount)
			for _, d := range result.Degraded {
				fmt.Printf("  %s %s\n", s.RedX(), d)
			}
			return nil
		},
	}
	return cmd
}
