package shadowprobe

import (
	"io"
	"strings"
	"sync"
)

// fakeResponse is one canned upstream reply.
type fakeResponse struct {
	status  int
	headers map[string]string
	body    string
	err     error
}

func okJSON(body string) fakeResponse {
	return fakeResponse{status: 200, body: body}
}

// fakeUpstream stands in for the platform. Every transport the factory
// hands out routes through respond, so renewal-created transports share
// the same scripted behavior and call log.
type fakeUpstream struct {
	mu         sync.Mutex
	respond    func(method, url string) fakeResponse
	calls      []string
	transports int
	closed     int
	cookies    map[string]string
}

func newFakeUpstream(respond func(method, url string) fakeResponse) *fakeUpstream {
	return &fakeUpstream{respond: respond, cookies: map[string]string{}}
}

func (fu *fakeUpstream) factory() (transport, error) {
	fu.mu.Lock()
	fu.transports++
	fu.mu.Unlock()
	return &fakeTransport{fu: fu}, nil
}

func (fu *fakeUpstream) config() Config {
	return Config{newTransport: fu.factory}
}

// count returns how many recorded calls contain substr.
func (fu *fakeUpstream) count(substr string) int {
	fu.mu.Lock()
	defer fu.mu.Unlock()
	n := 0
	for _, c := range fu.calls {
		if strings.Contains(c, substr) {
			n++
		}
	}
	return n
}

func (fu *fakeUpstream) setRespond(respond func(method, url string) fakeResponse) {
	fu.mu.Lock()
	fu.respond = respond
	fu.mu.Unlock()
}

type fakeTransport struct {
	fu *fakeUpstream
}

func (t *fakeTransport) do(method, rawURL string, headers map[string]string, body io.Reader) ([]byte, map[string]string, int, error) {
	t.fu.mu.Lock()
	t.fu.calls = append(t.fu.calls, method+" "+rawURL)
	respond := t.fu.respond
	t.fu.mu.Unlock()

	if respond == nil {
		return []byte("{}"), map[string]string{}, 200, nil
	}
	r := respond(method, rawURL)
	if r.err != nil {
		return nil, nil, 0, r.err
	}
	if r.status == 0 {
		r.status = 200
	}
	if r.headers == nil {
		r.headers = map[string]string{}
	}
	return []byte(r.body), r.headers, r.status, nil
}

func (t *fakeTransport) cookieValue(url, name string) string {
	t.fu.mu.Lock()
	defer t.fu.mu.Unlock()
	return t.fu.cookies[name]
}

func (t *fakeTransport) Close() error {
	t.fu.mu.Lock()
	t.fu.closed++
	t.fu.mu.Unlock()
	return nil
}

// activateOK scripts a successful guest activation for any other route's
// responder to delegate to.
func activateOK(token string) fakeResponse {
	return okJSON(`{"guest_token":"` + token + `"}`)
}
