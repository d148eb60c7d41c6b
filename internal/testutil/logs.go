package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// LogCapture records messages logged through the default slog logger.
type LogCapture struct {
	mu       sync.Mutex
	messages []string
}

// CaptureLogs installs a debug-level capturing default logger and restores
// the previous one when the test ends.
func CaptureLogs(t testing.TB) *LogCapture {
	t.Helper()

	c := &LogCapture{}
	prev := slog.Default()
	slog.SetDefault(slog.New(captureHandler{c: c}))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return c
}

// Count returns how many records carried msg.
func (c *LogCapture) Count(msg string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, m := range c.messages {
		if m == msg {
			n++
		}
	}
	return n
}

type captureHandler struct {
	c *LogCapture
}

func (h captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.c.mu.Lock()
	h.c.messages = append(h.c.messages, r.Message)
	h.c.mu.Unlock()
	return nil
}

func (h captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h captureHandler) WithGroup(string) slog.Handler      { return h }
