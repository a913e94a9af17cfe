package shadowprobe

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
)

// Selector picks one session for an inbound request. The default is
// literal uniform-random choice with no affinity, no load awareness,
// and no exclusion of locked sessions; the interface exists so a
// health-aware policy can be substituted without touching the pool.
type Selector interface {
	Pick(sessions []*Session) *Session
}

type randomSelector struct{}

func (randomSelector) Pick(sessions []*Session) *Session {
	return sessions[rand.IntN(len(sessions))]
}

// Pool is a fixed-size collection of independently-authenticated guest
// sessions, populated once at warm-up. No dynamic resize, no
// health-based removal.
type Pool struct {
	sessions []*Session
	sel      Selector
}

// WarmUp constructs the configured number of guest sessions and logs
// them in concurrently. Logins are independent: one failure never
// blocks the others, the failed session simply starts credential-less
// and renews on first use.
func WarmUp(ctx context.Context, cfg Config) (*Pool, error) {
	cfg.defaults()

	sessions := make([]*Session, cfg.PoolSize)
	for i := range sessions {
		s, err := NewSession(cfg)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
		sessions[i] = s
	}

	var wg sync.WaitGroup
	for i, s := range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.LoginGuest(ctx); err != nil {
				slog.Warn("initial guest login failed", slog.Int("session", i), slog.Any("error", err))
			}
		}()
	}
	wg.Wait()

	slog.Info("guest sessions created", slog.Int("count", len(sessions)))
	return &Pool{sessions: sessions, sel: cfg.selector()}, nil
}

// Pick selects a session for one request. The request sticks to it for
// its whole lifetime.
func (p *Pool) Pick() *Session {
	return p.sel.Pick(p.sessions)
}

// Sessions exposes the pool's members, primarily for inspection.
func (p *Pool) Sessions() []*Session {
	return p.sessions
}
