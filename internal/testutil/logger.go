package testutil

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/wifikeys/internal/logging"
)

// TestLogger captures log output for validation in tests.
//
// Example usage:
//
//	tl := NewTestLogger(t, true)
//	backend := wifi.NewWindowsBackend(wifi.Options{Logger: tl.Logger()})
//	tl.AssertContains(t, "netsh")
//	tl.AssertNotContains(t, "s3cr3t!")
type TestLogger struct {
	mu     sync.Mutex
	buffer bytes.Buffer
	logger *logging.Logger
}

// NewTestLogger creates a TestLogger without colour codes.
func NewTestLogger(t *testing.T, debug bool) *TestLogger {
	t.Helper()

	tl := &TestLogger{}
	tl.logger = logging.NewWithWriter(lockedWriter{tl}, debug, true)
	return tl
}

type lockedWriter struct{ tl *TestLogger }

func (w lockedWriter) Write(p []byte) (int, error) {
	w.tl.mu.Lock()
	defer w.tl.mu.Unlock()
	return w.tl.buffer.Write(p)
}

// Logger returns the logger that writes into the capture buffer.
func (l *TestLogger) Logger() *logging.Logger {
	return l.logger
}

// GetOutput returns the captured log output as a string.
func (l *TestLogger) GetOutput() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buffer.String()
}

// Clear clears the captured log output.
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buffer.Reset()
}

// AssertContains asserts that the log output contains the specified substring.
func (l *TestLogger) AssertContains(t *testing.T, substr string) {
	t.Helper()
	assert.Contains(t, l.GetOutput(), substr, "Expected log output to contain %q", substr)
}

// AssertNotContains asserts that the log output does NOT contain the specified substring.
//
// This is particularly useful for verifying that secrets are redacted.
func (l *TestLogger) AssertNotContains(t *testing.T, substr string) {
	t.Helper()
	assert.NotContains(t, l.GetOutput(), substr, "Expected log output to NOT contain %q", substr)
}

// Lines returns the non-empty log lines.
func (l *TestLogger) Lines() []string {
	output := l.GetOutput()
	result := make([]string, 0)
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
