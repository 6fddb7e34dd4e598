package readline

// CursorBuffer is the line being edited together with the cursor position.
// The cursor is a rune offset and always lies in [0, Len()].
type CursorBuffer struct {
	content    []rune
	cursor     int
	overtyping bool
}

func (b *CursorBuffer) Len() int {
	return len(b.content)
}

func (b *CursorBuffer) Cursor() int {
	return b.cursor
}

func (b *CursorBuffer) String() string {
	return string(b.content)
}

// Runes returns a copy of the buffer contents.
func (b *CursorBuffer) Runes() []rune {
	return cloneRunes(b.content)
}

func (b *CursorBuffer) Overtyping() bool {
	return b.overtyping
}

func (b *CursorBuffer) SetOvertyping(on bool) {
	b.overtyping = on
}

// Current returns the rune before the cursor, or 0 at the start of the line.
func (b *CursorBuffer) Current() rune {
	if b.cursor <= 0 {
		return 0
	}
	return b.content[b.cursor-1]
}

// NextChar returns the rune under the cursor, or 0 at the end of the line.
func (b *CursorBuffer) NextChar() rune {
	if b.cursor >= len(b.content) {
		return 0
	}
	return b.content[b.cursor]
}

// Write inserts s at the cursor and moves the cursor past it. In overtype
// mode as many runes as were written are then removed after the cursor.
func (b *CursorBuffer) Write(s string) {
	runes := []rune(s)
	b.content = cloneConcatRunes(b.content[:b.cursor], append(cloneRunes(runes), b.content[b.cursor:]...))
	b.cursor += len(runes)

	if b.overtyping && b.cursor < len(b.content) {
		end := min(b.cursor+len(runes), len(b.content))
		b.content = cloneConcatRunes(b.content[:b.cursor], b.content[end:])
	}
}

// Clear empties the buffer. It reports whether there was anything to remove.
func (b *CursorBuffer) Clear() bool {
	if len(b.content) == 0 {
		return false
	}
	b.content = nil
	b.cursor = 0
	return true
}

func (b *CursorBuffer) Copy() *CursorBuffer {
	return &CursorBuffer{
		content:    cloneRunes(b.content),
		cursor:     b.cursor,
		overtyping: b.overtyping,
	}
}

func (b *CursorBuffer) at(i int) rune {
	return b.content[i]
}

func (b *CursorBuffer) setAt(i int, r rune) {
	b.content[i] = r
}

func (b *CursorBuffer) slice(start, end int) []rune {
	start = clamp(start, 0, len(b.content))
	end = clamp(end, start, len(b.content))
	return b.content[start:end]
}

// remove deletes [start, end) without touching the cursor.
func (b *CursorBuffer) remove(start, end int) []rune {
	start = clamp(start, 0, len(b.content))
	end = clamp(end, start, len(b.content))
	removed := cloneRunes(b.content[start:end])
	b.content = cloneConcatRunes(b.content[:start], b.content[end:])
	return removed
}

// truncate drops everything from n onward.
func (b *CursorBuffer) truncate(n int) {
	if n < len(b.content) {
		b.content = b.content[:n]
	}
	b.cursor = min(b.cursor, len(b.content))
}

func (b *CursorBuffer) setCursor(pos int) {
	b.cursor = clamp(pos, 0, len(b.content))
}
