//go:build windows

// Package stderr provides a no-op capture on Windows, whose audio backend does not write
// to the console.
package stderr

import "os"

// Capture is a no-op on Windows.
type Capture struct {
	lines chan string
}

// Start returns a capture that never receives lines.
func Start() (*Capture, error) {
	return &Capture{lines: make(chan string)}, nil
}

// Lines is never written to. It is closed by Stop.
func (c *Capture) Lines() <-chan string { return c.lines }

// WriteOriginal writes to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop closes Lines. It is safe to call more than once.
func (c *Capture) Stop() {
	select {
	case <-c.lines:
	default:
		close(c.lines)
	}
}
