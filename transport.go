package shadowprobe

import (
	"io"

	stealth "github.com/anatolykoptev/go-stealth"
)

// transport is the outbound HTTP capability one session owns. Renewal
// replaces the whole transport, so implementations carry per-connection
// state (cookie jar, TLS session) and nothing else.
type transport interface {
	do(method, url string, headers map[string]string, body io.Reader) ([]byte, map[string]string, int, error)
	cookieValue(url, name string) string
}

// stealthTransport adapts a browser-fingerprint client to the transport
// interface.
type stealthTransport struct {
	bc *stealth.BrowserClient
}

func newStealthTransport() (transport, error) {
	bc, err := stealth.NewClient(stealth.WithHeaderOrder(probeHeaderOrder))
	if err != nil {
		return nil, err
	}
	return &stealthTransport{bc: bc}, nil
}

func (t *stealthTransport) do(method, url string, headers map[string]string, body io.Reader) ([]byte, map[string]string, int, error) {
	return t.bc.DoWithHeaderOrder(method, url, headers, body, probeHeaderOrder)
}

func (t *stealthTransport) cookieValue(url, name string) string {
	return t.bc.GetCookieValue(url, name)
}
