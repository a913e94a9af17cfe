package shadowprobe

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
)

// Credential is one guest identity: the guest token plus the
// anti-forgery token mirrored from the transport's cookie jar. A
// credential is replaced wholesale on renewal, never mutated in place.
// The platform gives no expiry for guest tokens; renewAt is a derived
// hint (an hour after issuance).
type Credential struct {
	GuestToken string
	CSRF       string
	renewAt    time.Time
}

// due reports whether the credential should be proactively renewed. A
// credential that never held a token carries no schedule; the
// per-response error policy picks those up instead.
func (c *Credential) due(now time.Time) bool {
	return !c.renewAt.IsZero() && now.After(c.renewAt)
}

// Broker acquires guest tokens from the activation endpoint using the
// static, publicly-known application auth key.
type Broker struct {
	AuthKey string
}

// Acquire requests a guest token. A response without a token is a soft
// failure: it is logged and one more identical activation request is
// issued, whose token (possibly still empty) is returned. Callers fall
// back to their previous token on an empty result.
func (b *Broker) Acquire(tp transport) (string, error) {
	hdrs := activateHeaders(b.AuthKey)

	body, _, status, err := tp.do("POST", guestActivateURL, hdrs, nil)
	if err != nil {
		return "", fmt.Errorf("guest activation: %w", err)
	}
	token := parseGuestToken(body)
	if token != "" {
		return token, nil
	}

	slog.Debug("guest activation returned no token",
		slog.Int("status", status),
		slog.String("body", truncateBytes(body, 200)))

	body, _, _, err = tp.do("POST", guestActivateURL, hdrs, nil)
	if err != nil {
		return "", fmt.Errorf("guest activation retry: %w", err)
	}
	return parseGuestToken(body), nil
}

func parseGuestToken(body []byte) string {
	var resp struct {
		GuestToken string `json:"guest_token"`
	}
	if sonic.Unmarshal(body, &resp) != nil {
		return ""
	}
	return resp.GuestToken
}
