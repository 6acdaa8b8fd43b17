package domain_test

import (
	"strings"
	"sync"
)

// MockWriter implements io.Writer and allows
// inspecting session-output from other routines.
// Use #NewMockWriter to create new instance.
type MockWriter struct {
	lock    *sync.RWMutex
	content strings.Builder
}

// NewMockWriter creates new instance of MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		lock: &sync.RWMutex{},
	}
}

func (w *MockWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.content.Write(p)
}

// Content returns everything written so far.
func (w *MockWriter) Content() string {
	w.lock.RLock()
	defer w.lock.RUnlock()

	return w.content.String()
}

// Lines returns non-empty output lines.
func (w *MockWriter) Lines() []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(w.Content(), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
