package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		hasError bool
	}{
		{"0", 0, false},
		{"0d", 0, false},
		{"30s", 30 * time.Second, false},
		{"15m", 15 * time.Minute, false},
		{"2h", 2 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{" 3 h ", 3 * time.Hour, false},
		{"1w", 0, true},
		{"soon", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		val, err := ParseDuration(tc.input)
		if tc.hasError {
			assert.Error(t, err, "Expected error for input: %q", tc.input)
		} else {
			assert.NoError(t, err, "Unexpected error for input: %q", tc.input)
			assert.Equal(t, tc.expected, val, "Mismatch for input: %q", tc.input)
		}
	}
}
