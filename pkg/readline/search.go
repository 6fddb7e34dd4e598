package readline

import (
	"fmt"

	"github.com/robottwo/bishline/pkg/history"
	"github.com/robottwo/bishline/pkg/keymap"
)

// searchFrom looks for the search term in history starting at start: the
// newest match before it when searching backwards, the oldest match at or
// after it when searching forwards.
func (r *Reader) searchFrom(start int) int {
	term := string(r.searchTerm)
	if r.searchForward {
		return history.SearchForwards(r.history, term, start, false)
	}
	return history.SearchBackwards(r.history, term, start, false)
}

// startSearch enters incremental search. Text already on the line becomes
// the initial search term.
func (r *Reader) startSearch(forward bool) {
	r.searchTerm = r.buf.Runes()
	r.searchForward = forward
	r.state = stateSearch
	r.searchOrigin = r.buf.Copy()
	r.originalPrompt = r.prompt

	if len(r.searchTerm) == 0 {
		r.searchIndex = -1
		r.printSearchStatus("", "", false)
		return
	}
	r.searchIndex = r.searchFrom(r.history.Index())
	if r.searchIndex == -1 {
		r.beep()
		r.printSearchStatus(string(r.searchTerm), r.buf.String(), true)
		return
	}
	r.printSearchStatus(string(r.searchTerm), r.history.Get(r.searchIndex), false)
}

// searchKey handles one operation while incremental search is active. It
// reports true when the search has ended and op still has to run as a
// normal operation.
func (r *Reader) searchKey(op keymap.Operation, seq []byte) bool {
	failed := false
	research := func(start int) {
		idx := r.searchFrom(start)
		if idx == -1 {
			failed = true
			return
		}
		r.searchIndex = idx
	}

	switch op {
	case keymap.Abort:
		r.state = stateNormal
		r.searchIndex = -1
		r.resetPromptLine(r.originalPrompt, r.searchOrigin.String(), r.searchOrigin.cursor)
		return false

	case keymap.ReverseSearchHistory, keymap.HistorySearchBackward:
		r.searchForward = false
		if len(r.searchTerm) == 0 {
			r.searchTerm = []rune(r.previousSearchTerm)
		}
		if r.searchIndex == -1 {
			research(r.history.Index())
		} else {
			research(r.searchIndex)
		}

	case keymap.ForwardSearchHistory, keymap.HistorySearchForward:
		r.searchForward = true
		if len(r.searchTerm) == 0 {
			r.searchTerm = []rune(r.previousSearchTerm)
		}
		if r.searchIndex == -1 {
			research(r.history.Index())
		} else {
			research(r.searchIndex + 1)
		}

	case keymap.BackwardDeleteChar:
		if len(r.searchTerm) > 0 {
			r.searchTerm = r.searchTerm[:len(r.searchTerm)-1]
			r.searchIndex = -1
			research(r.history.Index())
		}

	case keymap.SelfInsert:
		r.searchTerm = append(r.searchTerm, []rune(string(r.completeRune(seq)))...)
		r.searchIndex = -1
		research(r.history.Index())

	default:
		r.endSearch()
		return true
	}

	switch {
	case len(r.searchTerm) == 0:
		r.searchIndex = -1
		r.printSearchStatus("", "", false)
	case r.searchIndex == -1:
		r.beep()
		r.printSearchStatus(string(r.searchTerm), r.buf.String(), true)
	default:
		if failed {
			r.beep()
		}
		r.printSearchStatus(string(r.searchTerm), r.history.Get(r.searchIndex), failed)
	}
	return false
}

// endSearch leaves incremental search on the current match with the cursor
// at the matched text.
func (r *Reader) endSearch() {
	cursorDest := r.buf.cursor
	if r.searchIndex != -1 {
		r.history.MoveTo(r.searchIndex)
		r.originalLine = r.history.Current()
		if i := indexRunes([]rune(r.history.Current()), r.searchTerm); i >= 0 {
			cursorDest = i
		}
	}
	if len(r.searchTerm) > 0 {
		r.previousSearchTerm = string(r.searchTerm)
	}
	r.state = stateNormal
	r.restoreLine(r.originalPrompt, cursorDest)
}

// printSearchStatus shows the search prompt with match on the line and the
// cursor on the matched text.
func (r *Reader) printSearchStatus(term, match string, failed bool) {
	label := "reverse-i-search"
	if r.searchForward {
		label = "i-search"
	}
	if failed {
		label = "failed " + label
	}
	prompt := fmt.Sprintf("(%s)`%s': ", label, term)

	cursorDest := -1
	if i := indexRunes([]rune(match), []rune(term)); match != "" && i >= 0 {
		cursorDest = i
	}
	r.resetPromptLine(prompt, match, cursorDest)
}

// restoreLine puts prompt back in front of the current buffer.
func (r *Reader) restoreLine(prompt string, cursorDest int) {
	r.resetPromptLine(prompt, r.buf.String(), cursorDest)
}
