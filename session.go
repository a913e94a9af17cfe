package shadowprobe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

// Session owns one guest credential, one rate budget, and one transport
// connection. Get carries the full error-driven renewal and retry
// policy; Post does not, mirroring the observed upstream access
// pattern. The mutex guards credential and budget mutation: concurrent
// borrowers of the same session may interleave calls, and a renewal
// triggered by one races calls in flight from another. The design
// accepts that: in-flight requests keep the headers they were built
// with, later calls observe the replaced state.
type Session struct {
	broker       *Broker
	newTransport func() (transport, error)
	renewAfter   time.Duration

	mu       sync.Mutex
	tp       transport
	cred     *Credential
	budget   RateBudget
	username string // empty marks a guest session, the only kind built here
	locked   bool
}

// NewSession constructs an un-logged-in guest session. The caller runs
// LoginGuest (the pool does this during warm-up); a session whose
// initial login failed renews itself on first use.
func NewSession(cfg Config) (*Session, error) {
	cfg.defaults()

	tp, err := cfg.newTransport()
	if err != nil {
		return nil, fmt.Errorf("session transport: %w", err)
	}
	return &Session{
		broker:       &Broker{AuthKey: cfg.AuthKey},
		newTransport: cfg.newTransport,
		renewAfter:   cfg.CredentialTTL,
		tp:           tp,
		budget:       newRateBudget(),
	}, nil
}

// LoginGuest acquires a fresh guest credential over a brand-new
// transport, replacing credential, transport, and headers wholesale.
// When acquisition yields no token the previous token is carried over
// together with its renewal schedule, so an overdue credential stays
// overdue and the next call attempts activation again.
func (s *Session) LoginGuest(ctx context.Context) error {
	tp, err := s.newTransport()
	if err != nil {
		return fmt.Errorf("renew transport: %w", err)
	}
	token, err := s.broker.Acquire(tp)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cred := &Credential{GuestToken: token}
	if token == "" {
		if s.cred != nil {
			cred.GuestToken = s.cred.GuestToken
			cred.renewAt = s.cred.renewAt
		}
	} else {
		cred.renewAt = time.Now().Add(s.renewAfter)
	}
	cred.CSRF = tp.cookieValue(twitterBase, "ct0")

	if old := s.tp; old != nil {
		if c, ok := old.(io.Closer); ok {
			_ = c.Close()
		}
	}
	s.tp = tp
	s.cred = cred

	slog.Debug("guest credential renewed", slog.Bool("fresh_token", token != ""))
	return nil
}

// maybeRenew performs the scheduled pre-call renewal for guest sessions
// whose credential is missing or past its hourly renewal hint.
func (s *Session) maybeRenew(ctx context.Context) error {
	s.mu.Lock()
	guest := s.username == ""
	cred := s.cred
	s.mu.Unlock()

	if !guest {
		return nil
	}
	if cred == nil || cred.due(time.Now()) {
		return s.LoginGuest(ctx)
	}
	return nil
}

// requestState snapshots the transport and headers for one call,
// refreshing the anti-forgery token from the cookie jar.
func (s *Session) requestState() (transport, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var token string
	if s.cred != nil {
		token = s.cred.GuestToken
	}
	csrf := s.tp.cookieValue(twitterBase, "ct0")
	if s.cred != nil && csrf != "" {
		s.cred.CSRF = csrf
	}
	return s.tp, guestHeaders(s.broker.AuthKey, token, csrf)
}

// Get issues one GET through this session and applies the upstream
// error policy, in order: budget update from headers; forced renewal on
// a low guest budget or error codes 88/239; identical retry on code 353
// while retries remain; advisory locked flag on code 326. A locked
// session stays in rotation.
func (s *Session) Get(ctx context.Context, rawURL string, retries int) ([]byte, error) {
	if err := s.maybeRenew(ctx); err != nil {
		return nil, err
	}

	tp, hdrs := s.requestState()
	body, respHdrs, status, err := tp.do("GET", rawURL, hdrs, nil)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	slog.Debug("upstream GET", slog.Int("status", status), slog.String("url", rawURL))

	s.mu.Lock()
	s.budget.Update(respHdrs, s.username)
	remaining := s.budget.Remaining
	guest := s.username == ""
	s.mu.Unlock()

	if (guest && remaining < 10) || hasErrorCode(body, codeRateLimited) || hasErrorCode(body, codeBadGuestToken) {
		if err := s.LoginGuest(ctx); err != nil {
			slog.Warn("forced credential renewal failed", slog.Any("error", err))
		}
	}
	if retries > 0 && hasErrorCode(body, codeBadCSRF) {
		return s.Get(ctx, rawURL, retries-1)
	}
	if hasErrorCode(body, codeLocked) {
		s.mu.Lock()
		s.locked = true
		s.mu.Unlock()
		slog.Warn("session locked by upstream", slog.String("user", displayName(s.username)))
	}
	return body, nil
}

// Post issues one POST with the parameters encoded on the query string,
// the convention the GraphQL endpoints use. No post-call policy runs
// here; only the scheduled pre-call renewal applies.
func (s *Session) Post(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	if err := s.maybeRenew(ctx); err != nil {
		return nil, err
	}

	tp, hdrs := s.requestState()
	full := rawURL
	if len(params) > 0 {
		full += "?" + params.Encode()
	}
	body, _, status, err := tp.do("POST", full, hdrs, nil)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", rawURL, err)
	}
	slog.Debug("upstream POST", slog.Int("status", status), slog.String("url", rawURL))
	return body, nil
}

// Budget returns a snapshot of the session's rate budget.
func (s *Session) Budget() RateBudget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget
}

// Locked reports whether upstream flagged this session's identity as
// locked. The flag is advisory; the pool never evicts on it.
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Guest reports whether this session is unauthenticated.
func (s *Session) Guest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username == ""
}

// credential returns the active credential, for tests.
func (s *Session) credential() *Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred
}
