package wait

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ekainfr/vtauto/internal/session"
)

const (
	pollStart    = 25 * time.Millisecond
	pollCeiling  = 200 * time.Millisecond
)

// Run polls cond against s until it holds, s ends, ctx is cancelled, or
// timeout elapses. It never holds the session's lock across a sleep —
// every iteration re-enters through Session's own locking methods, so
// state can evolve and external kills can proceed concurrently.
func Run(ctx context.Context, s *session.Session, cond Condition, timeout time.Duration) Result {
	start := time.Now()
	deadline := start.Add(timeout)
	interval := pollStart

	var stableSamples []uint64
	var stableStart time.Time

	for {
		if !s.Running() {
			return gone(s, start)
		}
		if s.Cancelled() {
			return cancelled(s, start)
		}
		select {
		case <-ctx.Done():
			return Result{Outcome: OutcomeCancelled, ElapsedMs: ms(start), Screen: s.RenderedText()}
		default:
		}

		if cond.Kind == Stable {
			h := s.StabilityHash()
			if len(stableSamples) == 0 || stableSamples[len(stableSamples)-1] != h {
				stableSamples = []uint64{h}
				stableStart = time.Now()
			} else {
				stableSamples = append(stableSamples, h)
			}
			k := cond.K
			if k <= 0 {
				k = DefaultStableK
			}
			t := cond.T
			if t <= 0 {
				t = DefaultStableT
			}
			if len(stableSamples) >= k && time.Since(stableStart) >= t {
				return Result{Outcome: OutcomeMatched, ElapsedMs: ms(start), Screen: s.RenderedText()}
			}
		} else if ok, matched := evalOnce(s, cond); ok {
			return Result{Outcome: OutcomeMatched, Matched: matched, ElapsedMs: ms(start), Screen: s.RenderedText()}
		}

		now := time.Now()
		if !now.Before(deadline) {
			return timedOut(s, cond, start)
		}
		remaining := deadline.Sub(now)
		sleep := interval
		if sleep > remaining {
			sleep = remaining
		}

		select {
		case <-ctx.Done():
			return Result{Outcome: OutcomeCancelled, ElapsedMs: ms(start), Screen: s.RenderedText()}
		case <-s.Done():
		case <-s.WaitChan():
		case <-time.After(sleep):
		}

		interval *= 2
		if interval > pollCeiling {
			interval = pollCeiling
		}
	}
}

func evalOnce(s *session.Session, cond Condition) (bool, string) {
	switch cond.Kind {
	case TextPresent:
		return matchPattern(s.RenderedText(), cond.Pattern)
	case TextAbsent:
		ok, _ := matchPattern(s.RenderedText(), cond.Pattern)
		return !ok, ""
	case ElementExists:
		for _, el := range s.Elements() {
			if el.Ref == cond.Ref {
				return true, el.Ref
			}
		}
		return false, ""
	case ElementFocused:
		for _, el := range s.Elements() {
			if el.Ref == cond.Ref {
				return el.Focused, el.Ref
			}
		}
		return false, ""
	case ElementGone:
		for _, el := range s.Elements() {
			if el.Ref == cond.Ref {
				return false, ""
			}
		}
		return true, cond.Ref
	case InputHasValue:
		for _, el := range s.Elements() {
			if el.Ref == cond.Ref {
				return el.HasValue && el.Value == cond.Value, el.Value
			}
		}
		return false, ""
	}
	return false, ""
}

func ms(start time.Time) int64 { return time.Since(start).Milliseconds() }

func gone(s *session.Session, start time.Time) Result {
	return Result{Outcome: OutcomeSessionGone, ElapsedMs: ms(start), Screen: s.RenderedText()}
}

func cancelled(s *session.Session, start time.Time) Result {
	return Result{Outcome: OutcomeCancelled, ElapsedMs: ms(start), Screen: s.RenderedText()}
}

func timedOut(s *session.Session, cond Condition, start time.Time) Result {
	screen := s.RenderedText()
	tail := lastNonEmptyLine(screen)
	diag := fmt.Sprintf("condition %s(%s) not met after %dms; last screen line: %q", cond.Kind, describeCond(cond), ms(start), tail)
	return Result{Outcome: OutcomeTimedOut, ElapsedMs: ms(start), Diagnostic: diag, Screen: screen}
}

func describeCond(cond Condition) string {
	switch cond.Kind {
	case TextPresent, TextAbsent:
		return cond.Pattern
	case Stable:
		return fmt.Sprintf("K=%d,T=%s", cond.K, cond.T)
	default:
		return cond.Ref
	}
}

func lastNonEmptyLine(screen string) string {
	lines := strings.Split(screen, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}
