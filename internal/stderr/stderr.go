//go:build !windows

// Package stderr captures output that C audio libraries (ALSA, faad2) write straight to
// file descriptor 2, so it cannot tear a full-screen terminal UI.
package stderr

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

const bufferedLines = 100

// Capture redirects fd 2 into a pipe until Stop.
type Capture struct {
	lines chan string
	orig  int
	r, w  *os.File
	done  chan struct{}
}

// Start redirects stderr. The program can carry on without capture when it fails.
func Start() (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		_ = r.Close()
		_ = w.Close()
		return nil, err
	}
	if err := unix.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		_ = unix.Close(orig)
		_ = r.Close()
		_ = w.Close()
		return nil, err
	}

	c := &Capture{
		lines: make(chan string, bufferedLines),
		orig:  orig,
		r:     r,
		w:     w,
		done:  make(chan struct{}),
	}
	go c.read()
	return c, nil
}

func (c *Capture) read() {
	defer close(c.done)
	defer close(c.lines)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case c.lines <- line:
		default:
			// full, drop
		}
	}
}

// Lines receives captured lines. It is closed by Stop.
func (c *Capture) Lines() <-chan string { return c.lines }

// WriteOriginal writes to the terminal's stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores stderr. It is safe to call more than once.
func (c *Capture) Stop() {
	if c.orig < 0 {
		return
	}
	_ = unix.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = unix.Close(c.orig)
	c.orig = -1

	// fd 2 no longer refers to the pipe, so closing w ends the reader.
	_ = c.w.Close()
	<-c.done
	_ = c.r.Close()
}
