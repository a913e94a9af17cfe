package shadowprobe

import (
	"errors"

	"github.com/bytedance/sonic"
)

// Upstream error codes that get dedicated handling.
const (
	codeNotFound      = 50  // account does not exist
	codeSuspended     = 63  // account suspended
	codeRateLimited   = 88  // rate limit exceeded
	codeBadGuestToken = 239 // bad or expired guest token
	codeLocked        = 326 // account administratively locked
	codeBadCSRF       = 353 // missing or invalid csrf token
)

// ErrUnexpectedAPI marks a profile lookup that failed with an error code
// outside the anticipated set. Fatal for the probe; must surface as a
// server error, never be masked.
var ErrUnexpectedAPI = errors.New("unexpected upstream API error")

// apiError is one element of the "errors" array the platform embeds in
// otherwise-successful responses.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// parseAPIErrors extracts the "errors" array from a response body.
// Returns nil for invalid JSON or an absent array.
func parseAPIErrors(body []byte) []apiError {
	var resp struct {
		Errors []apiError `json:"errors"`
	}
	if sonic.Unmarshal(body, &resp) != nil {
		return nil
	}
	return resp.Errors
}

// hasErrorCode reports whether the body carries an error with the given code.
func hasErrorCode(body []byte, code int) bool {
	for _, e := range parseAPIErrors(body) {
		if e.Code == code {
			return true
		}
	}
	return false
}

// hasAnyError reports whether the body carries a non-empty errors array.
func hasAnyError(body []byte) bool {
	return len(parseAPIErrors(body)) > 0
}

// hasErrorOutside reports whether the body carries an error with a code
// not in the allowed set.
func hasErrorOutside(body []byte, allowed ...int) bool {
	for _, e := range parseAPIErrors(body) {
		ok := false
		for _, a := range allowed {
			if e.Code == a {
				ok = true
				break
			}
		}
		if !ok {
			return true
		}
	}
	return false
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
