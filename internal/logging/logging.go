// Package logging builds the run logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a text or JSON logger writing to w at level. Every record carries
// the run_id attribute so that lines of one run can be correlated.
func New(w io.Writer, level, format string) (*slog.Logger, string, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, "", err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch strings.ToLower(format) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, "", fmt.Errorf("unknown log format %q", format)
	}
	runID := uuid.NewString()
	return slog.New(h).With("run_id", runID), runID, nil
}
