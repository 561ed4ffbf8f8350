package parse

import "testing"

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "1.23s call tests/test_app.py::test_thing", "1.23s call tests/test_app.py::test_thing"},
		{"color codes removed", "\x1b[32mPASSED\x1b[0m tests/test_app.py", "PASSED tests/test_app.py"},
		{"bold bright sequence", "\x1b[1;97m== warnings summary ==\x1b[0m", "== warnings summary =="},
		{"two-char escape", "\x1bMreverse index", "reverse index"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripANSI(tt.in)
			if got != tt.want {
				t.Errorf("StripANSI(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := StripANSI(got); again != got {
				t.Errorf("StripANSI not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestStripLogPrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"github actions prefix",
			"test\t2024-05-01T12:34:56.7891011Z ===== warnings summary =====",
			"===== warnings summary =====",
		},
		{
			"timestamp without fraction",
			"2024-05-01T12:34:56Z hello",
			"hello",
		},
		{
			"no timestamp unchanged",
			"collected 120 items",
			"collected 120 items",
		},
		{
			"timestamp only",
			"build\t2024-05-01T12:34:56Z ",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripLogPrefix(tt.in); got != tt.want {
				t.Errorf("StripLogPrefix(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripLogPrefixAll(t *testing.T) {
	in := []string{
		"job\t2024-05-01T00:00:00Z first",
		"plain line",
	}
	got := StripLogPrefixAll(in)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0] != "first" || got[1] != "plain line" {
		t.Errorf("StripLogPrefixAll(%v) = %v", in, got)
	}
	if in[0] != "job\t2024-05-01T00:00:00Z first" {
		t.Errorf("input slice was mutated: %v", in)
	}
}
