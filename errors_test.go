package shadowprobe

import "testing"

func TestHasErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		code     int
		expected bool
	}{
		{"no errors key", `{"data":{}}`, 88, false},
		{"empty errors", `{"errors":[]}`, 88, false},
		{"matching code", `{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`, 88, true},
		{"other code", `{"errors":[{"code":50}]}`, 88, false},
		{"second element matches", `{"errors":[{"code":50},{"code":326}]}`, 326, true},
		{"invalid json", `{invalid`, 88, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasErrorCode([]byte(tt.body), tt.code); got != tt.expected {
				t.Fatalf("hasErrorCode(%s, %d) = %v, want %v", tt.body, tt.code, got, tt.expected)
			}
		})
	}
}

func TestHasAnyError(t *testing.T) {
	if hasAnyError([]byte(`{"errors":[]}`)) {
		t.Fatal("empty errors array should not count")
	}
	if hasAnyError([]byte(`{"data":{}}`)) {
		t.Fatal("absent errors array should not count")
	}
	if !hasAnyError([]byte(`{"errors":[{"code":131}]}`)) {
		t.Fatal("expected non-empty errors array to count")
	}
}

func TestHasErrorOutside(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{"no errors", `{"screen_name":"foo"}`, false},
		{"only allowed", `{"errors":[{"code":50},{"code":63}]}`, false},
		{"one outside", `{"errors":[{"code":50},{"code":99}]}`, true},
		{"all outside", `{"errors":[{"code":131}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasErrorOutside([]byte(tt.body), codeNotFound, codeSuspended); got != tt.expected {
				t.Fatalf("hasErrorOutside(%s) = %v, want %v", tt.body, got, tt.expected)
			}
		})
	}
}
