// Package terminal describes what the output device can do and switches a
// tty in and out of character-at-a-time mode.
package terminal

const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Terminal is the set of capabilities the line editor consults.
type Terminal interface {
	// Init prepares the device for raw key input. Restore undoes it.
	Init() error
	Restore() error

	Width() int
	Height() int

	// Supported is false for devices that can only be read a line at a time.
	Supported() bool
	AnsiSupported() bool
	// HasWeirdWrap reports whether the cursor stays in the last column after
	// it is filled instead of wrapping.
	HasWeirdWrap() bool
	EchoEnabled() bool
}

// Caps is a Terminal with fixed answers. Init and Restore do nothing.
type Caps struct {
	Cols      int
	Rows      int
	Raw       bool
	Ansi      bool
	WeirdWrap bool
	Echo      bool
}

var _ Terminal = Caps{}

func (c Caps) Init() error    { return nil }
func (c Caps) Restore() error { return nil }

func (c Caps) Width() int {
	if c.Cols < 1 {
		return DefaultWidth
	}
	return c.Cols
}

func (c Caps) Height() int {
	if c.Rows < 1 {
		return DefaultHeight
	}
	return c.Rows
}

func (c Caps) Supported() bool     { return c.Raw }
func (c Caps) AnsiSupported() bool { return c.Ansi }
func (c Caps) HasWeirdWrap() bool  { return c.WeirdWrap }
func (c Caps) EchoEnabled() bool   { return c.Echo }

// Unsupported is used for dumb terminals, pipes and files. Lines are read
// whole and echoed by the device itself.
type Unsupported struct{}

var _ Terminal = Unsupported{}

func (Unsupported) Init() error         { return nil }
func (Unsupported) Restore() error      { return nil }
func (Unsupported) Width() int          { return DefaultWidth }
func (Unsupported) Height() int         { return DefaultHeight }
func (Unsupported) Supported() bool     { return false }
func (Unsupported) AnsiSupported() bool { return false }
func (Unsupported) HasWeirdWrap() bool  { return false }
func (Unsupported) EchoEnabled() bool   { return true }
