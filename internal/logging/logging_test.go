package logging

import (
	log "log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, Level("debug"))
	assert.Equal(t, log.LevelWarn, Level(" WARN "))
	assert.Equal(t, log.LevelInfo, Level("verbose"))
}

func TestSetup(t *testing.T) {
	prev := log.Default()
	defer log.SetDefault(prev)

	var b strings.Builder
	Setup("warn", &b)

	log.Info("hidden")
	log.Warn("Failed to open", "path", "x")

	out := b.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Failed to open")
	assert.Contains(t, out, "path=x")
}

func TestIsTerminal(t *testing.T) {
	var b strings.Builder
	assert.False(t, isTerminal(&b))

	f, err := os.Create(filepath.Join(t.TempDir(), "log"))
	if assert.NoError(t, err) {
		defer f.Close()
		assert.False(t, isTerminal(f), "regular file")
	}
}

func TestNoColorOffTerminal(t *testing.T) {
	prev := log.Default()
	defer log.SetDefault(prev)

	var b strings.Builder
	Setup("info", &b)
	log.Error("Failed to run", "err", "boom")
	assert.NotContains(t, b.String(), "\x1b[")
}
