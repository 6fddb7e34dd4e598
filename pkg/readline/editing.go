package readline

import (
	"fmt"
	"os"
	"os/user"
	"strings"
	"unicode"

	"github.com/robottwo/bishline/pkg/keymap"
)

// previousWord moves to the start of the word before the cursor.
func (r *Reader) previousWord() bool {
	start := r.buf.cursor
	for isDelimiter(r.buf.Current()) && r.moveCursor(-1) != 0 {
	}
	for r.buf.cursor > 0 && !isDelimiter(r.buf.Current()) && r.moveCursor(-1) != 0 {
	}
	return r.buf.cursor != start
}

// nextWord moves past the end of the word under or after the cursor.
func (r *Reader) nextWord() bool {
	start := r.buf.cursor
	for r.buf.cursor < r.buf.Len() && isDelimiter(r.buf.NextChar()) && r.moveCursor(1) != 0 {
	}
	for r.buf.cursor < r.buf.Len() && !isDelimiter(r.buf.NextChar()) && r.moveCursor(1) != 0 {
	}
	return r.buf.cursor != start
}

func (r *Reader) deletePreviousWord() bool {
	start := r.buf.cursor
	for r.buf.cursor > 0 && isDelimiter(r.buf.Current()) && r.backspace() {
	}
	for r.buf.cursor > 0 && !isDelimiter(r.buf.Current()) && r.backspace() {
	}
	return r.buf.cursor != start
}

func (r *Reader) deleteNextWord() bool {
	n := r.buf.Len()
	for r.buf.cursor < r.buf.Len() && isDelimiter(r.buf.NextChar()) && r.deleteCurrentCharacter() {
	}
	for r.buf.cursor < r.buf.Len() && !isDelimiter(r.buf.NextChar()) && r.deleteCurrentCharacter() {
	}
	return r.buf.Len() != n
}

// mapWord rewrites the next word in place with fn, which gets the offset of
// each rune inside the word, and leaves the cursor after it.
func (r *Reader) mapWord(fn func(i int, rn rune) rune) bool {
	start := r.buf.cursor
	i := start
	for i < r.buf.Len() && isDelimiter(r.buf.at(i)) {
		i++
	}
	if i == r.buf.Len() {
		return false
	}
	first := i
	for i < r.buf.Len() && !isDelimiter(r.buf.at(i)) {
		r.buf.setAt(i, fn(i-first, r.buf.at(i)))
		i++
	}
	r.drawBuffer(0)
	r.moveCursor(i - start)
	return true
}

func (r *Reader) capitalizeWord() bool {
	return r.mapWord(func(i int, rn rune) rune {
		if i == 0 {
			return unicode.ToUpper(rn)
		}
		return unicode.ToLower(rn)
	})
}

func (r *Reader) upCaseWord() bool {
	return r.mapWord(func(_ int, rn rune) rune { return unicode.ToUpper(rn) })
}

func (r *Reader) downCaseWord() bool {
	return r.mapWord(func(_ int, rn rune) rune { return unicode.ToLower(rn) })
}

// transposeChars drags the rune before the cursor forward over the rune under
// it, count times.
func (r *Reader) transposeChars(count int) bool {
	for ; count > 0; count-- {
		if r.buf.cursor == 0 || r.buf.cursor == r.buf.Len() {
			return false
		}
		first, second := r.buf.cursor-1, r.buf.cursor
		tmp := r.buf.at(first)
		r.buf.setAt(first, r.buf.at(second))
		r.buf.setAt(second, tmp)

		r.moveInternal(-1)
		r.drawBuffer(0)
		r.moveInternal(2)
	}
	return true
}

// transposeWords swaps the word before the cursor with the word before that
// and leaves the cursor after both. At the end of the line the last two
// words are swapped.
func (r *Reader) transposeWords() bool {
	v := r.buf.content
	if len(v) == 0 {
		return false
	}

	w2Start := r.buf.cursor
	for w2Start < len(v) && isWhitespace(v[w2Start]) {
		w2Start++
	}
	var w2End int
	if w2Start < len(v) {
		w2End = w2Start
		for w2End < len(v) && !isWhitespace(v[w2End]) {
			w2End++
		}
	} else {
		w2End = len(v)
		for w2End > 0 && isWhitespace(v[w2End-1]) {
			w2End--
		}
		if w2End == 0 {
			return false
		}
		w2Start = w2End
		for w2Start > 0 && !isWhitespace(v[w2Start-1]) {
			w2Start--
		}
	}

	w1End := w2Start
	for w1End > 0 && isWhitespace(v[w1End-1]) {
		w1End--
	}
	if w1End == 0 {
		return false
	}
	w1Start := w1End
	for w1Start > 0 && !isWhitespace(v[w1Start-1]) {
		w1Start--
	}

	var swapped []rune
	swapped = append(swapped, v[:w1Start]...)
	swapped = append(swapped, v[w2Start:w2End]...)
	swapped = append(swapped, v[w1End:w2Start]...)
	swapped = append(swapped, v[w1Start:w1End]...)
	swapped = append(swapped, v[w2End:]...)

	r.setBuffer(string(swapped))
	return r.setCursorPosition(w2End)
}

func isBlank(rn rune) bool {
	return rn == ' ' || rn == '\t'
}

// deleteHorizontalSpace removes the blanks on both sides of the cursor.
func (r *Reader) deleteHorizontalSpace() bool {
	start, end := r.buf.cursor, r.buf.cursor
	for start > 0 && isBlank(r.buf.at(start-1)) {
		start--
	}
	for end < r.buf.Len() && isBlank(r.buf.at(end)) {
		end++
	}
	if start == end {
		return false
	}
	r.setCursorPosition(end)
	return r.backspaceN(end-start) > 0
}

// unixWordRubout deletes count whitespace-separated words before the cursor.
func (r *Reader) unixWordRubout(count int) bool {
	for ; count > 0; count-- {
		if r.buf.cursor == 0 {
			return false
		}
		for r.buf.cursor > 0 && isWhitespace(r.buf.Current()) {
			r.backspace()
		}
		for r.buf.cursor > 0 && !isWhitespace(r.buf.Current()) {
			r.backspace()
		}
	}
	return true
}

// unixFilenameRubout is unixWordRubout with '/' also ending a word.
func (r *Reader) unixFilenameRubout() bool {
	if r.buf.cursor == 0 {
		return false
	}
	stop := func(rn rune) bool { return isWhitespace(rn) || rn == '/' }
	for r.buf.cursor > 0 && stop(r.buf.Current()) {
		r.backspace()
	}
	for r.buf.cursor > 0 && !stop(r.buf.Current()) {
		r.backspace()
	}
	return true
}

// killRegion records the text between mark and cursor as a kill, removing it
// from the line when remove is set.
func (r *Reader) killRegion(remove bool) bool {
	if r.mark < 0 {
		return false
	}
	start := min(r.mark, r.buf.Len())
	end := r.buf.cursor
	direction := killDirectionBackward
	if start > end {
		start, end = end, start
		direction = killDirectionForward
	}
	if start == end {
		return false
	}
	r.recordKill(r.buf.slice(start, end), direction)
	if !remove {
		return true
	}
	r.setCursorPosition(end)
	r.backspaceN(end - start)
	r.mark = start
	return true
}

// copyWord records the word before (or after) the cursor without deleting it.
func (r *Reader) copyWord(forward bool) bool {
	c := r.buf.cursor
	if forward {
		i := c
		for i < r.buf.Len() && isDelimiter(r.buf.at(i)) {
			i++
		}
		for i < r.buf.Len() && !isDelimiter(r.buf.at(i)) {
			i++
		}
		if i == c {
			return false
		}
		r.recordKill(r.buf.slice(c, i), killDirectionForward)
		return true
	}

	i := c
	for i > 0 && isDelimiter(r.buf.at(i-1)) {
		i--
	}
	for i > 0 && !isDelimiter(r.buf.at(i-1)) {
		i--
	}
	if i == c {
		return false
	}
	r.recordKill(r.buf.slice(i, c), killDirectionBackward)
	return true
}

func (r *Reader) exchangePointAndMark() bool {
	if r.mark < 0 {
		return false
	}
	pos := min(r.mark, r.buf.Len())
	r.mark = r.buf.cursor
	return r.setCursorPosition(pos)
}

// characterSearch moves onto the count-th occurrence of ch after (or before)
// the cursor.
func (r *Reader) characterSearch(ch rune, count int, forward bool) bool {
	pos := r.buf.cursor
	for ; count > 0; count-- {
		i := pos
		if forward {
			for i++; i < r.buf.Len() && r.buf.at(i) != ch; i++ {
			}
			if i >= r.buf.Len() {
				return false
			}
		} else {
			for i--; i >= 0 && r.buf.at(i) != ch; i-- {
			}
			if i < 0 {
				return false
			}
		}
		pos = i
	}
	return r.setCursorPosition(pos)
}

// tildeExpand replaces a leading ~ or ~user in the word at the cursor with
// the home directory.
func (r *Reader) tildeExpand() bool {
	start, end := r.buf.cursor, r.buf.cursor
	for start > 0 && !isWhitespace(r.buf.at(start-1)) {
		start--
	}
	for end < r.buf.Len() && !isWhitespace(r.buf.at(end)) {
		end++
	}
	word := string(r.buf.slice(start, end))
	if !strings.HasPrefix(word, "~") {
		return false
	}

	name, rest := word[1:], ""
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name, rest = name[:i], name[i:]
	}
	var home string
	if name == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return false
		}
		home = dir
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			return false
		}
		home = u.HomeDir
	}
	r.replaceRunes(start, end, []rune(home+rest))
	return true
}

// keySeqName renders raw key bytes the way inputrc spells them.
func keySeqName(seq string) string {
	var sb strings.Builder
	for i := 0; i < len(seq); i++ {
		c := seq[i]
		switch {
		case c == esc:
			sb.WriteString(`\e`)
		case c == 0x7f:
			sb.WriteString(`\C-?`)
		case c < 0x20:
			sb.WriteString(`\C-`)
			sb.WriteByte(c + 0x60)
		case c == '"' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c >= 0x80:
			fmt.Fprintf(&sb, `\%03o`, c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// walkBindings visits every bound sequence under km. Each table is entered
// once so shared tables are not listed twice.
func walkBindings(km *keymap.KeyMap, prefix string, seen map[*keymap.KeyMap]bool, visit func(seq string, b keymap.Binding)) {
	if seen[km] {
		return
	}
	seen[km] = true
	for c := 0; c < keymap.Size; c++ {
		b := km.Slot(byte(c))
		seq := prefix + string([]byte{byte(c)})
		switch b.Kind {
		case keymap.Unbound:
		case keymap.TableBinding:
			walkBindings(b.Table, seq, seen, visit)
		default:
			visit(seq, b)
		}
	}
}

func (r *Reader) dumpBindings(want func(b keymap.Binding) bool, format func(seq string, b keymap.Binding) string) {
	var lines []string
	walkBindings(r.keys.Current(), "", map[*keymap.KeyMap]bool{}, func(seq string, b keymap.Binding) {
		if want(b) {
			lines = append(lines, format(seq, b))
		}
	})
	r.println()
	for _, line := range lines {
		r.println(line)
	}
	r.drawLine()
}

func (r *Reader) dumpFunctions() {
	r.dumpBindings(
		func(b keymap.Binding) bool { return b.Kind == keymap.OpBinding && b.Op != keymap.SelfInsert },
		func(seq string, b keymap.Binding) string { return fmt.Sprintf("\"%s\": %s", keySeqName(seq), b.Op) },
	)
}

func (r *Reader) dumpMacros() {
	r.dumpBindings(
		func(b keymap.Binding) bool { return b.Kind == keymap.MacroBinding },
		func(seq string, b keymap.Binding) string {
			return fmt.Sprintf("\"%s\" outputs \"%s\"", keySeqName(seq), keySeqName(b.Macro))
		},
	)
}

// dumpVariables lists the known variables the inputrc has set.
func (r *Reader) dumpVariables() {
	names := []string{
		"bell-style", "blink-matching-paren", "comment-begin", "completion-query-items",
		"disable-completion", "editing-mode", "keymap", "page-completions",
	}
	r.println()
	for _, name := range names {
		if v, ok := r.keys.Variable(name); ok {
			r.println(fmt.Sprintf("set %s %s", name, v))
		}
	}
	r.drawLine()
}
