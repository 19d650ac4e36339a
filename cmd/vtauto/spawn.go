package main

import (
	"fmt"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/dispatch"
	"github.com/ekainfr/vtauto/internal/rpc"
)

func newSpawnCmd() *cobra.Command {
	var shellCmd string
	var cols, rows int
	var cwd string
	var env []string

	cmd := &cobra.Command{
		Use:   "spawn [flags] -- command [args...]",
		Short: "Start a new PTY session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var command string
			var cmdArgs []string
			switch {
			case shellCmd != "":
				parts, err := shlex.Split(shellCmd)
				if err != nil {
					return fmt.Errorf("parse --cmd: %w", err)
				}
				if len(parts) == 0 {
					return fmt.Errorf("--cmd must not be empty")
				}
				command, cmdArgs = parts[0], parts[1:]
			case len(args) > 0:
				command, cmdArgs = args[0], args[1:]
			default:
				return fmt.Errorf("a command is required (either --cmd or positional args after --)")
			}

			envMap, err := parseEnvFlags(env)
			if err != nil {
				return err
			}

			var result dispatch.SpawnResult
			err = dial().Call(rpc.MethodSpawn, dispatch.SpawnParams{
				Command: command, Args: cmdArgs, Cols: cols, Rows: rows, Cwd: cwd, Env: envMap,
			}, &result)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", result.SessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shellCmd, "cmd", "", "Command line to spawn, shell-word-split (alternative to positional args)")
	cmd.Flags().IntVar(&cols, "cols", 80, "Terminal width")
	cmd.Flags().IntVar(&rows, "rows", 24, "Terminal height")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Working directory for the child process")
	cmd.Flags().StringArrayVar(&env, "env", nil, "Environment variable key=value (repeatable)")

	return cmd
}

func parseEnvFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		for i := 0; i < len(p); i++ {
			if p[i] == '=' {
				out[p[:i]] = p[i+1:]
				goto next
			}
		}
		return nil, fmt.Errorf("invalid --env %q (expected key=value)", p)
	next:
	}
	return out, nil
}
