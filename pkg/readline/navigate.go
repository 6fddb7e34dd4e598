package readline

import (
	"github.com/robottwo/bishline/pkg/completer"
)

// lastArgState tracks consecutive yank-last-arg presses so each one swaps
// the previous insertion for the last word of an older line.
type lastArgState struct {
	active bool
	// index is the history entry the current insertion came from
	index int
	// start and end bound the inserted word in the buffer
	start int
	end   int
}

func (r *Reader) atHistoryEnd() bool {
	return r.history.Index() >= r.history.First()+r.history.Len()
}

// showHistoryEntry puts the entry under the history cursor on the line. The
// line being typed is shown again once the cursor moves past the newest
// entry.
func (r *Reader) showHistoryEntry() {
	line := r.history.Current()
	if r.atHistoryEnd() {
		line = r.pendingLine
	}
	r.setBuffer(line)
	r.originalLine = line
}

func (r *Reader) moveHistoryOnce(next bool) bool {
	if !next && r.atHistoryEnd() {
		r.pendingLine = r.buf.String()
	}
	var ok bool
	if next {
		ok = r.history.Next()
	} else {
		ok = r.history.Previous()
	}
	if !ok {
		return false
	}
	r.showHistoryEntry()
	return true
}

func (r *Reader) moveHistory(next bool, count int) bool {
	ok := true
	for ; ok && count > 0; count-- {
		ok = r.moveHistoryOnce(next)
	}
	return ok
}

func (r *Reader) beginningOfHistory() bool {
	if r.atHistoryEnd() {
		r.pendingLine = r.buf.String()
	}
	if !r.history.MoveToFirst() {
		return false
	}
	r.showHistoryEntry()
	return true
}

func (r *Reader) endOfHistory() bool {
	if !r.history.MoveToLast() {
		return false
	}
	r.showHistoryEntry()
	return true
}

// fetchHistory shows entry n, or the oldest entry when n is zero, with the
// cursor at the start of the line.
func (r *Reader) fetchHistory(n int) bool {
	if r.history.IsEmpty() {
		return false
	}
	if n <= 0 {
		n = r.history.First()
	}
	if r.atHistoryEnd() {
		r.pendingLine = r.buf.String()
	}
	if !r.history.MoveTo(n) {
		return false
	}
	r.showHistoryEntry()
	return r.setCursorPosition(0)
}

// lastWordOf returns the final shell word of history entry index.
func (r *Reader) lastWordOf(index int) (string, bool) {
	if index < r.history.First() || index >= r.history.First()+r.history.Len() {
		return "", false
	}
	words := completer.SplitWords(r.history.Get(index))
	if len(words) == 0 {
		return "", false
	}
	return words[len(words)-1], true
}

// yankLastArg inserts the last word of the newest line. Pressed again, it
// replaces that word with the last word of the line before.
func (r *Reader) yankLastArg() bool {
	index := r.history.First() + r.history.Len() - 1
	repeat := r.lastArg.active
	if repeat {
		index = r.lastArg.index - 1
	}

	for ; index >= r.history.First(); index-- {
		word, ok := r.lastWordOf(index)
		if !ok {
			continue
		}
		runes := []rune(word)
		if repeat {
			r.replaceRunes(r.lastArg.start, r.lastArg.end, runes)
		} else {
			r.putString(word)
		}
		r.lastArg = lastArgState{
			active: true,
			index:  index,
			start:  r.buf.cursor - len(runes),
			end:    r.buf.cursor,
		}
		return true
	}
	return false
}

// yankNthArg inserts word n of the newest line, counting the command as
// word zero.
func (r *Reader) yankNthArg(n int) bool {
	if r.history.IsEmpty() {
		return false
	}
	words := completer.SplitWords(r.history.Get(r.history.First() + r.history.Len() - 1))
	if n < 0 || n >= len(words) {
		return false
	}
	r.putString(words[n])
	return true
}
