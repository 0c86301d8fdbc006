// Package testutil holds logging helpers and WeatherAPI.com fixtures shared by tests.
package testutil

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger captures structured log output for assertions
type TestLogger struct {
	buffer *syncBuffer
	Logger *zerolog.Logger
}

// syncBuffer lets loggers on background goroutines write while tests read
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewTestLogger creates a debug-level logger that captures output
func NewTestLogger() *TestLogger {
	buffer := &syncBuffer{}
	logger := zerolog.New(buffer).Level(zerolog.DebugLevel).With().Timestamp().Logger()

	return &TestLogger{
		buffer: buffer,
		Logger: &logger,
	}
}

// NewSilentTestLogger creates a logger that discards all output
func NewSilentTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard).With().Timestamp().Logger()
	return &logger
}

// Output returns the captured log output
func (tl *TestLogger) Output() string {
	return tl.buffer.String()
}

// AssertLogContains asserts that the log buffer contains the specified string
func (tl *TestLogger) AssertLogContains(t *testing.T, message string) {
	t.Helper()
	if !strings.Contains(tl.Output(), message) {
		t.Errorf("Expected log to contain '%s', but got: %s", message, tl.Output())
	}
}

// AssertLogLevel asserts that a log entry with the specified level exists
func (tl *TestLogger) AssertLogLevel(t *testing.T, level string) {
	t.Helper()
	levelStr := `"level":"` + level + `"`
	if !strings.Contains(tl.Output(), levelStr) {
		t.Errorf("Expected log to contain level '%s', but got: %s", level, tl.Output())
	}
}
