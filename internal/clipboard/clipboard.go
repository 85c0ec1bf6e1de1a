// Package clipboard moves linear math text between the field and the
// outside world.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// System is the operating system clipboard.
type System struct{}

// ReadText returns the clipboard text.
func (System) ReadText() (string, error) {
	return clipboard.ReadAll()
}

// WriteText replaces the clipboard text.
func (System) WriteText(s string) error {
	return clipboard.WriteAll(s)
}

// Available reports whether a system clipboard utility can be used.
func Available() bool {
	return !clipboard.Unsupported
}

// Memory is a process-local clipboard, used when no system clipboard is
// available and in tests.
type Memory struct {
	mu   sync.Mutex
	text string
}

// ReadText returns the stored text.
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// WriteText stores s.
func (m *Memory) WriteText(s string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = s
	return nil
}

// Default returns the system clipboard when available, otherwise a new
// Memory clipboard.
func Default() Clipboard {
	if Available() {
		return System{}
	}
	return &Memory{}
}
