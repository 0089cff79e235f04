package logger

import "testing"

func TestSanitizeValue(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  interface{}
		want interface{}
	}{
		{name: "api_key", key: "api_key", val: "sk-live", want: "[REDACTED]"},
		{name: "authorization", key: "authorization", val: "Bearer x", want: "[REDACTED]"},
		{name: "plain", key: "reason", val: "llm_unavailable", want: "llm_unavailable"},
		{name: "jwt_like", key: "detail", val: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig", want: "[REDACTED]"},
		{name: "empty_key", key: "", val: "x", want: "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeValue(tc.key, tc.val); got != tc.want {
				t.Fatalf("sanitizeValue(%q)=%v, want %v", tc.key, got, tc.want)
			}
		})
	}
}

func TestHashValueIsStable(t *testing.T) {
	a := hashValue("2f1c6c1e-5a43-4a42-8f0b-9b7c1f1d1a11")
	b := hashValue("2f1c6c1e-5a43-4a42-8f0b-9b7c1f1d1a11")
	if a != b {
		t.Fatalf("hash not stable: %q vs %q", a, b)
	}
	if len(a) != len("hash:")+12 {
		t.Fatalf("unexpected hash length: %q", a)
	}
	if hashValue("") != "" {
		t.Fatalf("empty value should hash to empty string")
	}
}
