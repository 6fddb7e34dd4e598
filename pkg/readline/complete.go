package readline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
)

const moreMarker = "--More--"

// CompletionHandler applies the candidates found for the word at pos (a
// rune offset into the line) and reports whether anything happened.
type CompletionHandler interface {
	Complete(r *Reader, candidates []string, pos int) bool
}

// CandidateListHandler fills in a lone candidate, extends the word to the
// longest prefix shared by several and lists them.
type CandidateListHandler struct {
	// PrintSpaceAfterFullCompletion adds a blank after a lone candidate
	// completed at the end of the line.
	PrintSpaceAfterFullCompletion bool
}

func NewCandidateListHandler() *CandidateListHandler {
	return &CandidateListHandler{PrintSpaceAfterFullCompletion: true}
}

func (h *CandidateListHandler) Complete(r *Reader, candidates []string, pos int) bool {
	buf := r.buf
	if len(candidates) == 1 {
		value := candidates[0]
		if buf.cursor == buf.Len() && h.PrintSpaceAfterFullCompletion && !strings.HasSuffix(value, " ") {
			value += " "
		}
		if value == buf.String() {
			return false
		}
		replaceWord(r, value, pos)
		return true
	}

	if prefix := commonPrefix(candidates); utf8.RuneCountInString(prefix) > buf.cursor-pos {
		replaceWord(r, prefix, pos)
	}
	r.printCandidates(candidates)
	r.drawLine()
	return true
}

// replaceWord swaps the text between pos and the cursor for value.
func replaceWord(r *Reader, value string, pos int) {
	for r.buf.cursor > pos && r.backspace() {
	}
	r.putString(value)
	r.setCursorPosition(pos + utf8.RuneCountInString(value))
}

func commonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	prefix := []rune(candidates[0])
	for _, c := range candidates[1:] {
		runes := []rune(c)
		n := 0
		for n < len(prefix) && n < len(runes) && prefix[n] == runes[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return string(prefix)
}

// menuState tracks menu-complete cycling through one candidate list.
type menuState struct {
	active     bool
	candidates []string
	index      int
	// start and end bound the candidate currently in the buffer
	start int
	end   int
}

// completions asks each completer in turn and returns the first answer. pos
// is a rune offset into the line.
func (r *Reader) completions() ([]string, int) {
	line := r.buf.String()
	cursor := len(string(r.buf.content[:r.buf.cursor]))
	for _, c := range r.options.Completers {
		candidates, pos := c.Complete(line, cursor)
		if pos != -1 {
			pos = clamp(pos, 0, len(line))
			return candidates, utf8.RuneCountInString(line[:pos])
		}
	}
	return nil, -1
}

func (r *Reader) complete() bool {
	if len(r.options.Completers) == 0 {
		return false
	}
	candidates, pos := r.completions()
	if len(candidates) == 0 {
		return false
	}
	return r.handler.Complete(r, candidates, pos)
}

func (r *Reader) printCompletionCandidates() {
	if len(r.options.Completers) == 0 {
		return
	}
	candidates, _ := r.completions()
	r.printCandidates(candidates)
	r.drawLine()
}

// printCandidates lists candidates below the line, asking first when there
// are more than the autoprint threshold.
func (r *Reader) printCandidates(candidates []string) {
	distinct := lo.Uniq(candidates)
	if len(distinct) > r.options.AutoprintThreshold {
		r.println()
		r.print(fmt.Sprintf("Display all %s possibilities? (y or n)", humanize.Comma(int64(len(distinct)))))
		r.flush()
	ask:
		for {
			c, ok := r.readRune()
			if !ok {
				return
			}
			switch c {
			case 'y', 'Y', ' ':
				break ask
			case 'n', 'N', 0x7f:
				r.println()
				return
			default:
				r.beep()
				r.flush()
			}
		}
	}
	r.println()
	r.printColumns(distinct)
}

// printColumns lays items out in as many columns as fit the terminal. With
// pagination on it stops at each screenful: enter shows one more line, q
// stops and any other key shows the next page.
func (r *Reader) printColumns(items []string) {
	if len(items) == 0 {
		return
	}
	width, height := r.width(), r.height()

	maxWidth := 0
	for _, item := range items {
		maxWidth = max(maxWidth, ansi.PrintableRuneWidth(item))
	}
	maxWidth = min(maxWidth+3, width)

	showLines := -1
	if r.options.Pagination {
		showLines = height - 1
	}

	var line strings.Builder
	realLength := 0
	for _, item := range items {
		if realLength > 0 && realLength+maxWidth > width {
			r.println(strings.TrimRight(line.String(), " "))
			line.Reset()
			realLength = 0

			showLines--
			if showLines == 0 {
				r.print(moreMarker)
				r.flush()
				c, _ := r.readRune()
				switch c {
				case '\r', '\n':
					showLines = 1
				case 'q':
				default:
					showLines = height - 1
				}
				r.print("\r" + strings.Repeat(" ", len(moreMarker)) + "\r")
				if c == 'q' {
					return
				}
			}
		}

		if ansi.PrintableRuneWidth(item) > maxWidth-1 {
			item = truncate.StringWithTail(item, uint(maxWidth-1), "~")
		}
		line.WriteString(item)
		line.WriteString(strings.Repeat(" ", max(0, maxWidth-ansi.PrintableRuneWidth(item))))
		realLength += maxWidth
	}
	if line.Len() > 0 {
		r.println(strings.TrimRight(line.String(), " "))
	}
}

// menuComplete replaces the word being completed with the next (or
// previous) candidate, cycling while the key is pressed again.
func (r *Reader) menuComplete(forward bool) bool {
	if !r.menu.active {
		candidates, pos := r.completions()
		if len(candidates) == 0 {
			return false
		}
		r.menu = menuState{
			active:     true,
			candidates: lo.Uniq(candidates),
			index:      -1,
			start:      pos,
			end:        r.buf.cursor,
		}
	}

	n := len(r.menu.candidates)
	switch {
	case forward:
		r.menu.index = (r.menu.index + 1) % n
	case r.menu.index <= 0:
		r.menu.index = n - 1
	default:
		r.menu.index--
	}

	candidate := []rune(r.menu.candidates[r.menu.index])
	r.replaceRunes(r.menu.start, r.menu.end, candidate)
	r.menu.end = r.menu.start + len(candidate)
	return true
}

// insertCompletions replaces the word being completed with every candidate.
func (r *Reader) insertCompletions() bool {
	candidates, pos := r.completions()
	if len(candidates) == 0 {
		return false
	}
	r.replaceRunes(pos, r.buf.cursor, []rune(strings.Join(lo.Uniq(candidates), " ")))
	return true
}
