package readline

const (
	killRingMax = 30
)

// killDirection is the side of the cursor a kill removed text from.
type killDirection int

const (
	killDirectionUnknown killDirection = iota
	killDirectionForward
	killDirectionBackward
)

// KillRing holds recently killed text for yank and yank-pop.
type KillRing struct {
	// ring[0] is the most recent kill
	ring [][]rune
	// index is the entry yank-pop last inserted
	index int
	// lastDirection lets consecutive kills grow one entry, bash style
	lastDirection killDirection
	lastWasKill   bool
	// yankActive is set while the last operation was a yank or yank-pop
	yankActive bool
	// yankStart and yankEnd bound the last yanked text in the buffer
	yankStart int
	yankEnd   int
}

// bufferEditor is the part of the Reader the ring edits through.
type bufferEditor interface {
	// insertRunes inserts at the cursor and redraws
	insertRunes(runes []rune)
	cursorPosition() int
	// replaceRunes swaps [start, end) for with and leaves the cursor after it
	replaceRunes(start, end int, with []rune)
}

// RecordKill stores killed text. A kill in the same direction as the one
// right before it grows that entry instead of starting a new one.
func (kr *KillRing) RecordKill(killed []rune, direction killDirection) {
	if len(killed) > 0 {
		cleaned := cloneRunes(killed)

		if kr.lastWasKill && direction == kr.lastDirection && len(kr.ring) > 0 {
			if direction == killDirectionForward {
				kr.ring[0] = append(kr.ring[0], cleaned...)
			} else {
				kr.ring[0] = append(cleaned, kr.ring[0]...)
			}
		} else {
			kr.ring = append([][]rune{cleaned}, kr.ring...)
			if len(kr.ring) > killRingMax {
				kr.ring = kr.ring[:killRingMax]
			}
			kr.index = 0
		}
		kr.lastWasKill = true
	} else {
		kr.lastWasKill = false
	}

	kr.lastDirection = direction
	kr.yankActive = false
}

// Head returns the most recent kill.
func (kr *KillRing) Head() string {
	if len(kr.ring) == 0 {
		return ""
	}
	return string(kr.ring[0])
}

func (kr *KillRing) Len() int {
	return len(kr.ring)
}

// Yank inserts the most recent kill at the cursor. It reports false when the
// ring is empty.
func (kr *KillRing) Yank(editor bufferEditor) bool {
	if len(kr.ring) == 0 {
		return false
	}

	killed := cloneRunes(kr.ring[0])
	editor.insertRunes(killed)
	kr.yankStart = editor.cursorPosition() - len(killed)
	kr.yankEnd = editor.cursorPosition()
	kr.index = 0
	kr.yankActive = true
	kr.lastWasKill = false
	return true
}

// YankPop replaces the text of the previous yank with the next older entry.
// It only works straight after a yank or another yank-pop.
func (kr *KillRing) YankPop(editor bufferEditor) bool {
	if !kr.yankActive || len(kr.ring) == 0 {
		return false
	}
	if len(kr.ring) == 1 {
		return true
	}

	kr.index = (kr.index + 1) % len(kr.ring)
	replacement := cloneRunes(kr.ring[kr.index])
	editor.replaceRunes(kr.yankStart, kr.yankEnd, replacement)

	kr.yankEnd = kr.yankStart + len(replacement)
	kr.yankActive = true
	kr.lastWasKill = false
	return true
}

// endSequence is called for every operation that is neither a kill nor a
// yank, so the next kill starts a fresh entry.
func (kr *KillRing) endSequence(wasKill, wasYank bool) {
	if !wasKill {
		kr.lastWasKill = false
	}
	if !wasYank {
		kr.yankActive = false
	}
}

func (r *Reader) insertRunes(runes []rune) {
	r.putString(string(runes))
}

func (r *Reader) cursorPosition() int {
	return r.buf.cursor
}

func (r *Reader) replaceRunes(start, end int, with []rune) {
	start = clamp(start, 0, r.buf.Len())
	end = clamp(end, start, r.buf.Len())
	r.setCursorPosition(end)
	r.backspaceN(end - start)
	r.putString(string(with))
}

func (r *Reader) recordKill(killed []rune, direction killDirection) {
	r.killRing.RecordKill(killed, direction)
}
