package shadowprobe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// SetupLogging wires slog per the configured sinks: the main log at
// Info (to LogFile or stderr) and, when DebugFile is set, a second
// handler capturing Debug there. Returned closer flushes the files.
func SetupLogging(cfg Config) (func(), error) {
	var files []*os.File
	closer := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	mainOut := os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closer, fmt.Errorf("open log file: %w", err)
		}
		files = append(files, f)
		mainOut = f
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(mainOut, &slog.HandlerOptions{Level: slog.LevelInfo}),
	}

	if cfg.DebugFile != "" {
		f, err := os.OpenFile(cfg.DebugFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			closer()
			return func() {}, fmt.Errorf("open debug file: %w", err)
		}
		files = append(files, f)
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if len(handlers) == 1 {
		slog.SetDefault(slog.New(handlers[0]))
	} else {
		slog.SetDefault(slog.New(fanoutHandler(handlers)))
	}
	return closer, nil
}

// fanoutHandler duplicates records to every sink; each sink keeps its
// own level filter.
type fanoutHandler []slog.Handler

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, s := range h {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, s := range h {
		out[i] = s.WithAttrs(attrs)
	}
	return out
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, s := range h {
		out[i] = s.WithGroup(name)
	}
	return out
}
