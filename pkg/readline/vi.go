package readline

import (
	"strings"
	"unicode"

	"github.com/robottwo/bishline/pkg/keymap"
)

func (r *Reader) viRubout(count int) bool {
	ok := true
	for i := 0; ok && i < count; i++ {
		ok = r.backspace()
	}
	return ok
}

func (r *Reader) viDelete(count int) bool {
	ok := true
	for i := 0; ok && i < count; i++ {
		ok = r.deleteCurrentCharacter()
	}
	return ok
}

// viChangeCase flips the case of count runes and steps over them.
func (r *Reader) viChangeCase(count int) bool {
	for i := 0; i < count; i++ {
		if r.buf.cursor >= r.buf.Len() {
			return false
		}
		r.buf.setAt(r.buf.cursor, switchCase(r.buf.at(r.buf.cursor)))
		r.drawBuffer(1)
		r.moveCursor(1)
	}
	return true
}

// viChangeChar overwrites count runes with c and leaves the cursor on the
// last one. ESC, ^C and end of input cancel it quietly.
func (r *Reader) viChangeChar(count int, c rune, ok bool) bool {
	if !ok || c == esc || c == 3 {
		return true
	}
	for i := 0; i < count; i++ {
		if r.buf.cursor >= r.buf.Len() {
			return false
		}
		r.buf.setAt(r.buf.cursor, c)
		r.drawBuffer(1)
		if i < count-1 {
			r.moveCursor(1)
		}
	}
	return true
}

func (r *Reader) viPreviousWord(count int) bool {
	if r.buf.cursor == 0 {
		return false
	}
	pos := r.buf.cursor - 1
	for i := 0; pos > 0 && i < count; i++ {
		for pos > 0 && isWhitespace(r.buf.at(pos)) {
			pos--
		}
		for pos > 0 && !isDelimiter(r.buf.at(pos-1)) {
			pos--
		}
		if pos > 0 && i < count-1 {
			pos--
		}
	}
	r.setCursorPosition(pos)
	return true
}

func (r *Reader) viNextWord(count int) bool {
	pos := r.buf.cursor
	end := r.buf.Len()
	for i := 0; pos < end && i < count; i++ {
		for pos < end && !isDelimiter(r.buf.at(pos)) {
			pos++
		}
		// "cw" keeps the blanks after the last word
		if i < count-1 || r.state != stateViChangeTo {
			for pos < end && isDelimiter(r.buf.at(pos)) {
				pos++
			}
		}
	}
	r.setCursorPosition(pos)
	return true
}

func (r *Reader) viEndWord(count int) bool {
	pos := r.buf.cursor
	end := r.buf.Len()
	for i := 0; pos < end && i < count; i++ {
		if pos < end-1 && !isDelimiter(r.buf.at(pos)) && isDelimiter(r.buf.at(pos+1)) {
			pos++
		}
		for pos < end && isDelimiter(r.buf.at(pos)) {
			pos++
		}
		for pos < end-1 && !isDelimiter(r.buf.at(pos+1)) {
			pos++
		}
	}
	r.setCursorPosition(pos)
	return true
}

// viFirstPrint moves to the first non-blank rune of the line.
func (r *Reader) viFirstPrint() bool {
	pos := 0
	for pos < r.buf.Len() && isWhitespace(r.buf.at(pos)) {
		pos++
	}
	return r.setCursorPosition(pos)
}

// viDeleteTo removes the runes between the two positions, in either order.
// The removed text goes to the vi yank buffer.
func (r *Reader) viDeleteTo(start, end int) bool {
	if start == end {
		return true
	}
	if end < start {
		start, end = end, start
	}
	r.setCursorPosition(start)
	removed := r.buf.remove(start, end)
	r.yankBuffer = string(removed)
	r.drawBuffer(r.cols(removed))

	// a delete in movement mode may not leave the cursor past the end
	if r.state == stateViDeleteTo && start > 0 && start == r.buf.Len() {
		r.moveCursor(-1)
	}
	return true
}

// viYankTo copies the runes between the two positions and returns the
// cursor to where the yank started.
func (r *Reader) viYankTo(start, end int) bool {
	cursorPos := start
	if end < start {
		start, end = end, start
	}
	if start == end {
		r.yankBuffer = ""
		return true
	}
	r.yankBuffer = string(r.buf.slice(start, end))
	if cursorPos != r.buf.cursor {
		r.moveCursor(cursorPos - r.buf.cursor)
	}
	return true
}

// viPut pastes the yank buffer count times after the cursor.
func (r *Reader) viPut(count int) bool {
	if r.yankBuffer == "" {
		return true
	}
	if r.buf.cursor < r.buf.Len() {
		r.moveCursor(1)
	}
	for i := 0; i < count; i++ {
		r.putString(r.yankBuffer)
	}
	r.moveCursor(-1)
	return true
}

// viCharSearch implements f, F, t and T along with the ; and , repeats.
func (r *Reader) viCharSearch(count int, invoke, ch rune) bool {
	searchChar := ch
	if invoke == ';' || invoke == ',' {
		if r.charSearchChar == 0 {
			return false
		}
		// , reverses the direction of the original search
		if r.charSearchLastInvokeChar == ';' || r.charSearchLastInvokeChar == ',' {
			if r.charSearchLastInvokeChar != invoke {
				r.charSearchFirstInvokeChar = switchCase(r.charSearchFirstInvokeChar)
			}
		} else if invoke == ',' {
			r.charSearchFirstInvokeChar = switchCase(r.charSearchFirstInvokeChar)
		}
		searchChar = r.charSearchChar
	} else {
		r.charSearchChar = searchChar
		r.charSearchFirstInvokeChar = invoke
	}
	r.charSearchLastInvokeChar = invoke

	forward := unicode.IsLower(r.charSearchFirstInvokeChar)
	stopBefore := unicode.ToLower(r.charSearchFirstInvokeChar) == 't'

	ok := false
	if forward {
		for ; count > 0; count-- {
			for pos := r.buf.cursor + 1; pos < r.buf.Len(); pos++ {
				if r.buf.at(pos) == searchChar {
					r.setCursorPosition(pos)
					ok = true
					break
				}
			}
		}
		if ok {
			if stopBefore {
				r.moveCursor(-1)
			}
			// operators include the rune that was found
			if r.inViMoveOperationState() {
				r.moveCursor(1)
			}
		}
		return ok
	}

	for ; count > 0; count-- {
		for pos := r.buf.cursor - 1; pos >= 0; pos-- {
			if r.buf.at(pos) == searchChar {
				r.setCursorPosition(pos)
				ok = true
				break
			}
		}
	}
	if ok && stopBefore {
		r.moveCursor(1)
	}
	return ok
}

func bracketType(rn rune) int {
	switch rn {
	case '[':
		return 1
	case ']':
		return -1
	case '{':
		return 2
	case '}':
		return -2
	case '(':
		return 3
	case ')':
		return -3
	}
	return 0
}

// viMatch jumps to the bracket matching the one under the cursor.
func (r *Reader) viMatch() bool {
	pos := r.buf.cursor
	if pos == r.buf.Len() {
		return false
	}
	typ := bracketType(r.buf.at(pos))
	if typ == 0 {
		return false
	}
	move := 1
	if typ < 0 {
		move = -1
	}

	for depth := 1; depth > 0; {
		pos += move
		if pos < 0 || pos >= r.buf.Len() {
			return false
		}
		switch bracketType(r.buf.at(pos)) {
		case typ:
			depth++
		case -typ:
			depth--
		}
	}
	if move > 0 && r.inViMoveOperationState() {
		pos++
	}
	return r.setCursorPosition(pos)
}

func (r *Reader) showHistoryLine(line string) {
	r.setCursorPosition(0)
	r.killLine()
	r.putString(line)
	r.setCursorPosition(0)
}

// findHistory scans history for an entry containing term, starting next to
// from and moving in the given direction.
func (r *Reader) findHistory(term string, from int, forward bool) int {
	first, end := r.history.First(), r.history.First()+r.history.Len()
	if forward {
		for i := max(from+1, first); i < end; i++ {
			if strings.Contains(r.history.Get(i), term) {
				return i
			}
		}
		return -1
	}
	for i := min(from-1, end-1); i >= first; i-- {
		if strings.Contains(r.history.Get(i), term) {
			return i
		}
	}
	return -1
}

// viSearch reads a search term after / or ? on the edit line and shows the
// matching history entry. n and N step to further matches, p and P go the
// other way. The key that ends browsing is returned so it can be replayed.
func (r *Reader) viSearch(searchChar rune) (rune, bool) {
	forward := searchChar == '/'
	origin := r.buf.Copy()

	r.setCursorPosition(0)
	r.killLine()
	r.buf.truncate(0)
	r.putString(string(searchChar))
	r.flush()

	aborted, complete, eof := false, false, false
	for !aborted && !complete {
		ch, ok := r.readRune()
		if !ok {
			eof = true
			break
		}
		switch ch {
		case esc:
			aborted = true
		case backspace, 0x7f:
			r.backspace()
			if r.buf.cursor == 0 {
				aborted = true
			}
		case '\n', '\r':
			complete = true
		default:
			r.putString(string(ch))
		}
		r.flush()
	}

	if eof || aborted {
		r.showHistoryLine(origin.String())
		r.setCursorPosition(origin.cursor)
		return 0, false
	}

	term := string(r.buf.content[1:])
	r.viSearchTerm = term
	r.viSearchForward = forward

	start := r.history.First() + r.history.Len()
	if forward {
		start = r.history.First() - 1
	}
	idx := r.findHistory(term, start, forward)
	if idx == -1 {
		r.showHistoryLine(origin.String())
		return 0, false
	}
	r.history.MoveTo(idx)
	r.showHistoryLine(r.history.Get(idx))
	r.flush()

	for {
		ch, ok := r.readRune()
		if !ok {
			return 0, false
		}
		dir := forward
		switch ch {
		case 'p', 'P':
			dir = !forward
			fallthrough
		case 'n', 'N':
			if next := r.findHistory(term, idx, dir); next != -1 {
				idx = next
				r.history.MoveTo(idx)
				r.showHistoryLine(r.history.Get(idx))
			}
		default:
			return ch, true
		}
		r.flush()
	}
}

// runViSearch runs viSearch and replays the key that ended it.
func (r *Reader) runViSearch(searchChar rune) {
	if ch, ok := r.viSearch(searchChar); ok {
		r.pushBack([]byte(string(ch))...)
	}
}

// viSearchAgain repeats the last / or ? search from the current history
// entry, in the same direction or reversed.
func (r *Reader) viSearchAgain(same bool) bool {
	if r.viSearchTerm == "" {
		return false
	}
	forward := r.viSearchForward
	if !same {
		forward = !forward
	}
	idx := r.findHistory(r.viSearchTerm, r.history.Index(), forward)
	if idx == -1 {
		return false
	}
	r.history.MoveTo(idx)
	r.showHistoryLine(r.history.Get(idx))
	return true
}

// viYankArg inserts the last word of the previous line after the cursor
// and enters insert mode.
func (r *Reader) viYankArg() bool {
	word, ok := r.lastWordOf(r.history.First() + r.history.Len() - 1)
	if !ok {
		return false
	}
	if r.buf.cursor < r.buf.Len() {
		r.moveCursor(1)
	}
	r.putString(" " + word)
	_ = r.keys.SetKeyMap(keymap.ViInsert)
	return true
}
