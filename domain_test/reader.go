package domain_test

import (
	"io"
	"strings"
	"sync"
)

// MockReader implements io.Reader to feed a scripted
// teller-session, one operator-entry per line.
// Use #NewMockReader to create new instance.
type MockReader struct {
	lock *sync.Mutex
	data []byte
}

// NewMockReader creates new instance of MockReader.
func NewMockReader(entries ...string) *MockReader {
	return &MockReader{
		lock: &sync.Mutex{},
		data: []byte(strings.Join(entries, "\n") + "\n"),
	}
}

func (r *MockReader) Read(p []byte) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}
