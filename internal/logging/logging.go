package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/conorfennell/flashquiz/internal/config"
)

// Setup installs the default slog logger. When toFile is set, records go to
// cfg.File (created or appended to); otherwise they go to w. The returned
// close function releases the log file and is safe to call when none was
// opened.
func Setup(cfg config.Log, toFile bool, w io.Writer) (func() error, error) {
	closeFn := func() error { return nil }

	if toFile && cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closeFn, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		w = f
		closeFn = f.Close
	} else if toFile {
		w = io.Discard
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(handler))
	return closeFn, nil
}
