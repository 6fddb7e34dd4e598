//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package terminal

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Unix puts a tty into character-at-a-time mode with echo off. Output
// processing stays on so "\n" still returns the carriage.
type Unix struct {
	mu          sync.Mutex
	fd          int
	noInterrupt bool
	ansi        bool
	saved       *unix.Termios
}

var _ Terminal = (*Unix)(nil)

func newUnix(fd int, noInterrupt bool) (*Unix, bool) {
	return &Unix{fd: fd, noInterrupt: noInterrupt}, true
}

func (t *Unix) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saved != nil {
		return nil
	}

	old, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("failed to read terminal settings: %w", err)
	}

	raw := *old
	raw.Iflag &^= unix.ICRNL | unix.INLCR
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if t.noInterrupt {
		raw.Cc[unix.VINTR] = posixVDisable
	}
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw); err != nil {
		return fmt.Errorf("failed to set terminal settings: %w", err)
	}
	t.saved = old
	return nil
}

func (t *Unix) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saved == nil {
		return nil
	}
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, t.saved); err != nil {
		return fmt.Errorf("failed to restore terminal settings: %w", err)
	}
	t.saved = nil
	return nil
}

func (t *Unix) size() (int, int) {
	w, h, err := term.GetSize(t.fd)
	if err != nil {
		return 0, 0
	}
	return w, h
}

func (t *Unix) Width() int {
	if w, _ := t.size(); w > 0 {
		return w
	}
	return DefaultWidth
}

func (t *Unix) Height() int {
	if _, h := t.size(); h > 0 {
		return h
	}
	return DefaultHeight
}

func (t *Unix) Supported() bool     { return true }
func (t *Unix) AnsiSupported() bool { return t.ansi }
func (t *Unix) HasWeirdWrap() bool  { return true }

func (t *Unix) EchoEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saved == nil
}
