package config

import (
	"testing"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_CFG_SET", "value")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "host: ${TEST_CFG_SET}", "host: value"},
		{"set variable ignores default", "host: ${TEST_CFG_SET:fallback}", "host: value"},
		{"unset with default", "host: ${TEST_CFG_UNSET:fallback}", "host: fallback"},
		{"unset with empty default", "pass: ${TEST_CFG_UNSET:}", "pass: "},
		{"unset without default kept", "key: ${TEST_CFG_UNSET}", "key: ${TEST_CFG_UNSET}"},
		{"no placeholder", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnv(tt.in); got != tt.want {
				t.Errorf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
