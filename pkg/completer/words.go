package completer

import (
	"strings"

	"github.com/samber/lo"
	"mvdan.cc/sh/v3/syntax"
)

// SplitWords breaks line into shell words as typed, quotes included. Lines
// that do not parse fall back to splitting on blanks.
func SplitWords(line string) []string {
	file, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		return strings.Fields(line)
	}

	var words []string
	syntax.Walk(file, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok {
			return true
		}
		for _, w := range call.Args {
			start, end := int(w.Pos().Offset()), int(w.End().Offset())
			if start >= 0 && end <= len(line) && start < end {
				words = append(words, line[start:end])
			}
		}
		return false
	})
	return words
}

// LastArg completes the word under the cursor from the final words of
// earlier lines, newest first.
type LastArg struct {
	lines func() []string
}

// NewLastArg takes a function returning past lines oldest first, so it can
// read straight from a history.
func NewLastArg(lines func() []string) *LastArg {
	return &LastArg{lines: lines}
}

func (l *LastArg) Complete(buffer string, cursor int) ([]string, int) {
	start := wordStart(buffer, cursor)
	if cursor > len(buffer) {
		cursor = len(buffer)
	}
	prefix := buffer[start:cursor]

	lines := l.lines()
	var candidates []string
	for i := len(lines) - 1; i >= 0; i-- {
		words := SplitWords(lines[i])
		if len(words) < 2 {
			continue
		}
		last := words[len(words)-1]
		if strings.HasPrefix(last, prefix) {
			candidates = append(candidates, last)
		}
	}
	candidates = lo.Uniq(candidates)
	if len(candidates) == 0 {
		return nil, -1
	}
	return candidates, start
}
