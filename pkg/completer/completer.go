// Package completer provides candidate generators for tab completion.
package completer

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Completer returns candidates for the buffer and the buffer position that the
// candidates replace from, or -1 when it has nothing to offer.
type Completer interface {
	Complete(buffer string, cursor int) ([]string, int)
}

// Func adapts a plain function to Completer.
type Func func(buffer string, cursor int) ([]string, int)

func (f Func) Complete(buffer string, cursor int) ([]string, int) {
	return f(buffer, cursor)
}

// Null never completes anything.
type Null struct{}

func (Null) Complete(string, int) ([]string, int) {
	return nil, -1
}

// Strings completes the whole buffer against a fixed word list.
type Strings struct {
	words []string
}

func NewStrings(words ...string) *Strings {
	s := &Strings{}
	s.Add(words...)
	return s
}

// Add merges words into the list, keeping it sorted and unique.
func (s *Strings) Add(words ...string) {
	s.words = lo.Uniq(append(s.words, words...))
	sort.Strings(s.words)
}

func (s *Strings) Words() []string {
	return s.words
}

func (s *Strings) Complete(buffer string, _ int) ([]string, int) {
	candidates := lo.Filter(s.words, func(w string, _ int) bool {
		return strings.HasPrefix(w, buffer)
	})
	if len(candidates) == 0 {
		return nil, -1
	}
	if len(candidates) == 1 {
		candidates[0] += " "
	}
	return candidates, 0
}

// Aggregate asks every completer and keeps the candidates of those that
// replace from the furthest position.
type Aggregate struct {
	completers []Completer
}

func NewAggregate(completers ...Completer) *Aggregate {
	return &Aggregate{completers: completers}
}

func (a *Aggregate) Complete(buffer string, cursor int) ([]string, int) {
	if len(a.completers) == 0 {
		return nil, -1
	}

	type result struct {
		candidates []string
		pos        int
	}
	results := lo.Map(a.completers, func(c Completer, _ int) result {
		candidates, pos := c.Complete(buffer, cursor)
		return result{candidates: candidates, pos: pos}
	})

	best := lo.MaxBy(results, func(r, other result) bool {
		return r.pos > other.pos
	})
	if best.pos < 0 {
		return nil, -1
	}

	var candidates []string
	for _, r := range results {
		if r.pos == best.pos {
			candidates = append(candidates, r.candidates...)
		}
	}
	return lo.Uniq(candidates), best.pos
}

// wordStart returns the index where the blank-separated word ending at cursor
// begins.
func wordStart(buffer string, cursor int) int {
	if cursor > len(buffer) {
		cursor = len(buffer)
	}
	return strings.LastIndexAny(buffer[:cursor], " \t") + 1
}
