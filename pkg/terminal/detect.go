package terminal

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type Options struct {
	// NoInterrupt undefines the interrupt character while the terminal is
	// raw, so ^C reaches the editor as a key.
	NoInterrupt bool
	// Env overrides os.Getenv, for tests.
	Env    func(string) string
	Logger *zap.Logger
}

func NewOptions() Options {
	return Options{
		Env:    os.Getenv,
		Logger: zap.NewNop(),
	}
}

// Detect picks the Terminal for in. Anything that is not a tty, or a tty with
// TERM=dumb, gets Unsupported.
func Detect(in io.Reader, options Options) Terminal {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	getenv := options.Env
	if getenv == nil {
		getenv = os.Getenv
	}

	termName := getenv("TERM")
	if termName == "dumb" {
		logger.Debug("TERM=dumb; using unsupported terminal")
		return Unsupported{}
	}

	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		logger.Debug("input is not a terminal; using unsupported terminal")
		return Unsupported{}
	}

	t, ok := newUnix(int(f.Fd()), options.NoInterrupt)
	if !ok {
		logger.Debug("raw mode not available on this platform; using unsupported terminal")
		return Unsupported{}
	}
	t.ansi = ansiCapable(termName)
	logger.Debug("created unix terminal", zap.String("term", termName), zap.Bool("ansi", t.ansi))
	return t
}

// ansiCapable treats any named terminal, or one with a color profile, as
// understanding cursor movement sequences.
func ansiCapable(termName string) bool {
	if termName != "" {
		return true
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}
