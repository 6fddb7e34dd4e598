//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package terminal

// Unix is not available on this platform.
type Unix struct {
	ansi bool
}

func (t *Unix) Init() error         { return nil }
func (t *Unix) Restore() error      { return nil }
func (t *Unix) Width() int          { return DefaultWidth }
func (t *Unix) Height() int         { return DefaultHeight }
func (t *Unix) Supported() bool     { return false }
func (t *Unix) AnsiSupported() bool { return t.ansi }
func (t *Unix) HasWeirdWrap() bool  { return false }
func (t *Unix) EchoEnabled() bool   { return true }

func newUnix(int, bool) (*Unix, bool) {
	return nil, false
}
