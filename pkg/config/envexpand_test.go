package config

import "testing"

func TestExpandEnv(t *testing.T) {
	t.Setenv("SF_SET", "value")
	t.Setenv("SF_EMPTY", "")

	tests := []struct {
		in, want string
	}{
		{"${SF_SET}", "value"},
		{"${SF_UNSET}", ""},
		{"${SF_UNSET:-fallback}", "fallback"},
		{"${SF_EMPTY:-fallback}", "fallback"},
		{"a/${SF_SET}/b", "a/value/b"},
		{"$SF_SET", "$SF_SET"},
		{"no vars", "no vars"},
	}
	for _, tt := range tests {
		if got := ExpandEnv(tt.in); got != tt.want {
			t.Errorf("ExpandEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
