package completer

import (
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// Fuzzy completes the word under the cursor by fuzzy-matching it against a
// word list. Candidates come back best match first.
type Fuzzy struct {
	words []string
	// Limit caps the number of candidates; zero means no cap.
	Limit int
}

func NewFuzzy(words ...string) *Fuzzy {
	return &Fuzzy{words: lo.Uniq(words)}
}

func (f *Fuzzy) Complete(buffer string, cursor int) ([]string, int) {
	start := wordStart(buffer, cursor)
	if cursor > len(buffer) {
		cursor = len(buffer)
	}
	pattern := buffer[start:cursor]
	if pattern == "" {
		return nil, -1
	}

	matches := fuzzy.Find(pattern, f.words)
	if len(matches) == 0 {
		return nil, -1
	}
	if f.Limit > 0 && len(matches) > f.Limit {
		matches = matches[:f.Limit]
	}
	return lo.Map(matches, func(m fuzzy.Match, _ int) string {
		return m.Str
	}), start
}
