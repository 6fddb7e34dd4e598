package readline

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/ansi"
	"github.com/robottwo/bishline/pkg/terminal"
)

// NullMask passed to ReadLineMask echoes nothing at all.
const NullMask rune = 0

const (
	esc       = 0x1b
	backspace = '\b'
	bell      = '\a'
)

func (r *Reader) print(s string) {
	_, _ = r.out.WriteString(s)
}

func (r *Reader) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Reader) println(s ...string) {
	for _, part := range s {
		r.print(part)
	}
	r.print("\n")
}

func (r *Reader) flush() {
	_ = r.out.Flush()
}

func (r *Reader) printAnsi(seq string) {
	r.print("\x1b[" + seq)
}

func (r *Reader) width() int {
	if w := r.term.Width(); w > 0 {
		return w
	}
	return terminal.DefaultWidth
}

func (r *Reader) height() int {
	if h := r.term.Height(); h > 0 {
		return h
	}
	return terminal.DefaultHeight
}

func (r *Reader) hasAnsi() bool {
	return r.term.AnsiSupported()
}

// lastLine returns the text after the final newline of s.
func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func (r *Reader) setPrompt(prompt string) {
	r.prompt = prompt
	r.promptWidth = ansi.PrintableRuneWidth(lastLine(prompt))
}

// runeCols is the number of cells rn occupies once drawn. Tabs are expanded
// and other control characters are shown in caret notation.
func runeCols(rn rune) int {
	switch {
	case rn == '\t':
		return tabWidth
	case rn < 0x20 || rn == 0x7f:
		return 2
	}
	return runewidth.RuneWidth(rn)
}

func displayRune(rn rune) string {
	switch {
	case rn == '\t':
		return strings.Repeat(" ", tabWidth)
	case rn < 0x20 || rn == 0x7f:
		return "^" + string(rn^0x40)
	}
	return string(rn)
}

func (r *Reader) echoCols(rn rune) int {
	if r.masked {
		if r.mask == NullMask {
			return 0
		}
		return runeCols(r.mask)
	}
	return runeCols(rn)
}

func (r *Reader) echo(rn rune) string {
	if r.masked {
		if r.mask == NullMask {
			return ""
		}
		return displayRune(r.mask)
	}
	return displayRune(rn)
}

func (r *Reader) cols(runes []rune) int {
	n := 0
	for _, rn := range runes {
		n += r.echoCols(rn)
	}
	return n
}

func (r *Reader) echoString(runes []rune) string {
	var sb strings.Builder
	for _, rn := range runes {
		sb.WriteString(r.echo(rn))
	}
	return sb.String()
}

// cursorCol is the screen column of the cursor counted from the start of the
// prompt's last line, without wrapping.
func (r *Reader) cursorCol() int {
	return r.promptWidth + r.cols(r.buf.content[:r.buf.cursor])
}

// drawBuffer reprints everything from the cursor onward, blanks clear
// stale cells after it and puts the cursor back.
func (r *Reader) drawBuffer(clear int) {
	width := r.width()
	if r.buf.cursor != r.buf.Len() || clear > 0 {
		pos := r.cursorCol()
		printed := 0
		for _, rn := range r.buf.content[r.buf.cursor:] {
			r.print(r.echo(rn))
			n := r.echoCols(rn)
			printed += n
			if r.term.HasWeirdWrap() && n > 0 && (pos+printed)%width == 0 {
				// step onto the next row the way bash does
				r.print(" \r")
			}
		}
		r.clearAhead(clear, printed)
		r.back(printed)
	}

	if r.term.HasWeirdWrap() {
		pos := r.cursorCol()
		if pos > 0 && pos%width == 0 && r.buf.cursor == r.buf.Len() && clear == 0 {
			r.print(" \r")
		}
	}
}

// clearAhead blanks num cells starting delta cells after the cursor.
func (r *Reader) clearAhead(num, delta int) {
	if num <= 0 {
		return
	}
	if r.hasAnsi() {
		width := r.width()
		screenCol := r.cursorCol() + delta
		r.printAnsi("K")

		curCol := screenCol % width
		endCol := (screenCol + num - 1) % width
		lines := num / width
		if endCol < curCol {
			lines++
		}
		for i := 0; i < lines; i++ {
			r.printAnsi("B")
			r.printAnsi("2K")
		}
		for i := 0; i < lines; i++ {
			r.printAnsi("A")
		}
		return
	}
	r.print(strings.Repeat(" ", num))
	r.back(num)
}

// back moves the screen cursor num cells left, from cursorCol()+num to
// cursorCol().
func (r *Reader) back(num int) {
	if num <= 0 {
		return
	}
	if r.hasAnsi() {
		width := r.width()
		cursor := r.cursorCol()
		realCol := (cursor + num) % width
		newCol := cursor % width
		moveUp := num / width
		if realCol < newCol {
			moveUp++
		}
		if moveUp > 0 {
			r.printAnsi(fmt.Sprintf("%dA", moveUp))
		}
		r.printAnsi(fmt.Sprintf("%dG", newCol+1))
		return
	}
	r.print(strings.Repeat(string(rune(backspace)), num))
}

// moveCursor moves the cursor by num runes, clamped to the buffer, and
// returns how far it actually went.
func (r *Reader) moveCursor(num int) int {
	where := num
	if r.buf.cursor == 0 && where <= 0 {
		return 0
	}
	if r.buf.cursor == r.buf.Len() && where >= 0 {
		return 0
	}
	if r.buf.cursor+where < 0 {
		where = -r.buf.cursor
	} else if r.buf.cursor+where > r.buf.Len() {
		where = r.buf.Len() - r.buf.cursor
	}
	r.moveInternal(where)
	return where
}

func (r *Reader) moveInternal(where int) {
	old := r.buf.cursor
	r.buf.cursor += where

	if where < 0 {
		r.back(r.cols(r.buf.content[r.buf.cursor:old]))
		return
	}
	moved := r.buf.content[old:r.buf.cursor]
	if r.hasAnsi() {
		width := r.width()
		cursor := r.cursorCol()
		oldLine := (cursor - r.cols(moved)) / width
		newLine := cursor / width
		if newLine > oldLine {
			r.printAnsi(fmt.Sprintf("%dB", newLine-oldLine))
		}
		r.printAnsi(fmt.Sprintf("%dG", cursor%width+1))
		return
	}
	r.print(r.echoString(moved))
}

func (r *Reader) setCursorPosition(pos int) bool {
	if pos == r.buf.cursor {
		return true
	}
	return r.moveCursor(pos-r.buf.cursor) != 0
}

func (r *Reader) moveToEnd() bool {
	return r.moveCursor(r.buf.Len()-r.buf.cursor) > 0
}

// putString inserts s at the cursor and redraws the tail of the line.
func (r *Reader) putString(s string) {
	r.buf.Write(s)
	r.print(r.echoString([]rune(s)))
	r.drawBuffer(0)
}

// backspaceN deletes up to num runes before the cursor and returns how many
// went.
func (r *Reader) backspaceN(num int) int {
	if r.buf.cursor == 0 {
		return 0
	}
	width := r.width()
	lines := r.cursorCol() / width
	count := -r.moveCursor(-num)
	removed := r.buf.remove(r.buf.cursor, r.buf.cursor+count)
	if r.cursorCol()/width != lines && r.hasAnsi() {
		r.printAnsi("K")
	}
	r.drawBuffer(r.cols(removed))
	return count
}

func (r *Reader) backspace() bool {
	return r.backspaceN(1) == 1
}

// backspaceAll deletes everything before the cursor.
func (r *Reader) backspaceAll() bool {
	return r.backspaceN(r.buf.cursor) != 0
}

// deleteCurrentCharacter removes the rune under the cursor.
func (r *Reader) deleteCurrentCharacter() bool {
	if r.buf.Len() == 0 || r.buf.cursor == r.buf.Len() {
		return false
	}
	removed := r.buf.remove(r.buf.cursor, r.buf.cursor+1)
	r.drawBuffer(r.cols(removed))
	return true
}

// killLine erases from the cursor to the end of the line. It reports false
// when there was nothing to erase.
func (r *Reader) killLine() bool {
	cp := r.buf.cursor
	n := r.buf.Len()
	if cp >= n {
		return false
	}
	r.clearAhead(r.cols(r.buf.content[cp:]), 0)
	r.buf.remove(cp, n)
	return true
}

// setBuffer replaces the line with s, redrawing only what differs.
func (r *Reader) setBuffer(s string) {
	target := []rune(s)
	if string(target) == r.buf.String() {
		return
	}
	same := 0
	for same < len(target) && same < r.buf.Len() && target[same] == r.buf.at(same) {
		same++
	}

	diff := r.buf.cursor - same
	if diff < 0 {
		r.moveToEnd()
		diff = r.buf.Len() - same
	}
	r.backspaceN(diff)
	r.killLine()
	r.buf.truncate(same)
	r.putString(string(target[same:]))
}

// drawLine prints the prompt and buffer on the current row and puts the
// cursor where it belongs.
func (r *Reader) drawLine() {
	r.print(lastLine(r.prompt))
	r.print(r.echoString(r.buf.content))
	if r.buf.cursor != r.buf.Len() {
		r.back(r.cols(r.buf.content[r.buf.cursor:]))
	}
	r.drawBuffer(0)
}

func (r *Reader) redrawLine() {
	r.print("\r")
	if r.hasAnsi() {
		r.printAnsi("2K")
	}
	r.drawLine()
}

// clearScreen wipes the screen and redraws the prompt at the top. It needs
// ANSI support.
func (r *Reader) clearScreen() bool {
	if !r.hasAnsi() {
		return false
	}
	r.printAnsi("2J")
	r.printAnsi("1;1H")
	if i := strings.LastIndexByte(r.prompt, '\n'); i >= 0 {
		r.print(r.prompt[:i+1])
	}
	r.redrawLine()
	return true
}

func (r *Reader) beep() {
	if r.options.BellEnabled {
		r.print(string(rune(bell)))
	}
}

// resetPromptLine erases the prompt and buffer from the screen and draws
// prompt and buffer in their place.
func (r *Reader) resetPromptLine(prompt, buffer string, cursorDest int) {
	r.moveToEnd()

	// stand-in cells so the old prompt is erased along with the buffer
	old := []rune(strings.Repeat(" ", r.promptWidth))
	r.buf.content = append(r.buf.content, old...)
	r.buf.cursor += len(old)
	r.setPrompt("")
	r.backspaceAll()

	r.setPrompt(prompt)
	r.redrawLine()
	r.setBuffer(buffer)

	if cursorDest < 0 {
		cursorDest = len([]rune(buffer))
	}
	r.setCursorPosition(cursorDest)
	r.flush()
}

// clearEcho undoes what a terminal that echoes input has just drawn for c.
func (r *Reader) clearEcho(c byte) {
	if !r.term.Supported() || !r.term.EchoEnabled() {
		return
	}
	num := runeCols(rune(c))
	if c >= 0x80 {
		num = 1
	}
	r.back(num)
	r.drawBuffer(num)
}
