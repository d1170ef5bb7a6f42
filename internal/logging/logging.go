// Package logging installs the process-wide slog handler.
package logging

import (
	"io"
	log "log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

var levels = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Level maps a name to a level, unknown names are info.
func Level(name string) log.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l
	}
	return log.LevelInfo
}

// Setup makes a tint handler writing to w the default logger. Colour is
// used only on terminals.
func Setup(level string, w io.Writer) *log.Logger {
	logger := log.New(tint.NewHandler(w, &tint.Options{
		Level:      Level(level),
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	}))
	log.SetDefault(logger)
	return logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
