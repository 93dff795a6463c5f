package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"trace":   logrus.TraceLevel,
		"DEBUG":   logrus.DebugLevel,
		"info":    logrus.InfoLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"":        logrus.InfoLevel,
		"bogus":   logrus.InfoLevel,
	}
	for input, expected := range tests {
		assert.Equal(t, expected, ParseLevel(input), "level %q", input)
	}
}

func TestInit_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photovault.log")
	Init("debug", FileOptions{Path: path, MaxSizeMB: 1})
	defer Init("info", FileOptions{})

	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	Log.WithField("component", "test").Info("hello from the test")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the test")
	assert.Contains(t, string(data), `"component":"test"`)
}
