package styles

import (
	"os"

	"github.com/muesli/termenv"
)

var (
	stdout = termenv.NewOutput(os.Stdout)

	ERROR = func(s string) string {
		return stdout.String(s).
			Foreground(stdout.Color("9")).
			String()
	}
	// PROMPT styles the "bishline>" part of the prompt
	PROMPT = func(s string) string {
		return stdout.String(s).
			Foreground(stdout.Color("12")).
			Bold().
			String()
	}
	// MODE styles the editing mode tag shown before the prompt, e.g. "[vi]"
	MODE = func(s string) string {
		return stdout.String(s).
			Foreground(stdout.Color("11")).
			String()
	}
	HINT = func(s string) string {
		return stdout.String(s).
			Foreground(stdout.Color("244")).
			String()
	}
	// HISTORY_INDEX styles the entry numbers in :history listings
	HISTORY_INDEX = func(s string) string {
		return stdout.String(s).
			Foreground(stdout.Color("10")).
			String()
	}
)

// Enabled reports whether stdout gets colours at all.
func Enabled() bool {
	return stdout.Profile != termenv.Ascii
}
