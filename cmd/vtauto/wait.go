package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/rpc"
	"github.com/ekainfr/vtauto/internal/wait"
)

func newWaitCmd() *cobra.Command {
	var session string
	var kind string
	var pattern string
	var ref string
	var value string
	var timeout time.Duration
	var stableK int
	var stableT time.Duration

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Block until a condition holds against a session's live state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cond := wait.Condition{
				Kind: wait.Kind(kind), Pattern: pattern, Ref: ref, Value: value,
				K: stableK, T: stableT,
			}
			var result wait.Result
			err := dial().Call(rpc.MethodWait, struct {
				Session   string
				Condition wait.Condition
				TimeoutMs int64
			}{session, cond, timeout.Milliseconds()}, &result)
			if err != nil {
				return err
			}
			if result.Outcome != wait.OutcomeMatched {
				data, _ := json.MarshalIndent(result, "", "  ")
				fmt.Println(string(data))
				return fmt.Errorf("wait did not match: %s", result.Outcome)
			}
			fmt.Printf("matched after %dms\n", result.ElapsedMs)
			return nil
		},
	}
	sessionFlag(cmd, &session)
	cmd.Flags().StringVar(&kind, "kind", string(wait.TextPresent), "Condition kind: TextPresent|TextAbsent|ElementExists|ElementFocused|ElementGone|InputHasValue|Stable")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Pattern for text-present/text-absent (literal, /regex/, or glob)")
	cmd.Flags().StringVar(&ref, "ref", "", "Element reference for element-* / input-has-value conditions")
	cmd.Flags().StringVar(&value, "value", "", "Expected value for input-has-value")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Maximum time to wait")
	cmd.Flags().IntVar(&stableK, "stable-k", int(wait.DefaultStableK), "Consecutive identical samples required for stable")
	cmd.Flags().DurationVar(&stableT, "stable-t", wait.DefaultStableT, "Minimum span the samples must cover for stable")
	return cmd
}
