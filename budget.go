package shadowprobe

import (
	"log/slog"
	"strconv"
)

// RateBudget tracks one session's rate-limit accounting, folded from the
// x-rate-limit-* headers after every completed GET. Overshot counts
// requests issued while the quota was exhausted; it is a monitoring
// signal only and never blocks admission.
type RateBudget struct {
	Limit     int
	Remaining int
	ResetAt   int64
	Overshot  int
}

// newRateBudget returns the budget in its pre-first-response state.
func newRateBudget() RateBudget {
	return RateBudget{Limit: -1, Remaining: 180, ResetAt: -1, Overshot: -1}
}

// Update folds one response's rate-limit headers into the budget.
// Absent headers leave the corresponding field unchanged. A reset is
// detected when remaining increases; the overshoot counter is cleared
// only for authenticated sessions that previously overshot.
func (b *RateBudget) Update(headers map[string]string, username string) {
	last := b.Remaining

	if v, ok := headers["x-rate-limit-limit"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			b.Limit = n
		}
	}
	if v, ok := headers["x-rate-limit-remaining"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			b.Remaining = max(n, 0)
		}
	}
	if v, ok := headers["x-rate-limit-reset"]; ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			b.ResetAt = n
		}
	}

	if last < b.Remaining && b.Overshot > 0 && username != "" {
		slog.Info("rate limit reset detected", slog.String("user", username), slog.Int("overshot", b.Overshot))
		b.Overshot = 0
	}

	if b.Remaining == 0 {
		slog.Warn("rate limit exhausted", slog.String("user", displayName(username)))
		b.Overshot++
	}
}

// displayName labels guest sessions in logs.
func displayName(username string) string {
	if username == "" {
		return "guest"
	}
	return username
}
