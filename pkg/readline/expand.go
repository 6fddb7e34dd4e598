package readline

import (
	"strconv"
	"strings"

	"github.com/robottwo/bishline/pkg/completer"
	"github.com/robottwo/bishline/pkg/history"
)

// expandEvents applies history designators to an accepted line:
//
//	!!        the previous line
//	!n        the entry with index n
//	!-n       the n-th line back
//	!prefix   the newest line starting with prefix
//	!?text?   the newest line containing text
//	!$        the last word of the previous line
//	!#        the line typed so far
//	^old^new  the previous line with old replaced by new
//
// A backslash before ! (or before a leading ^) suppresses expansion.
func (r *Reader) expandEvents(str string) (string, error) {
	h := r.history
	newest := h.First() + h.Len() - 1
	previous := func(designator string) (string, error) {
		if h.IsEmpty() {
			return "", &EventNotFoundError{Designator: designator}
		}
		return h.Get(newest), nil
	}

	var sb strings.Builder
	for i := 0; i < len(str); i++ {
		c := str[i]
		switch c {
		case '\\':
			if i+1 < len(str) {
				if next := str[i+1]; next == '!' || (next == '^' && i == 0) {
					c = next
					i++
				}
			}
			sb.WriteByte(c)

		case '!':
			if i+1 >= len(str) {
				sb.WriteByte(c)
				break
			}
			i++
			c = str[i]
			switch {
			case c == '!':
				rep, err := previous("!!")
				if err != nil {
					return "", err
				}
				sb.WriteString(rep)

			case c == '#':
				sb.WriteString(sb.String())

			case c == '$':
				line, err := previous("!$")
				if err != nil {
					return "", err
				}
				words := completer.SplitWords(line)
				if len(words) > 0 {
					sb.WriteString(words[len(words)-1])
				}

			case c == '?':
				end := strings.IndexByte(str[i+1:], '?')
				if end < 0 {
					end = len(str)
				} else {
					end += i + 1
				}
				term := str[i+1 : end]
				i = end
				idx := history.SearchBackwards(h, term, newest+1, false)
				if idx < 0 {
					return "", &EventNotFoundError{Designator: "!?" + term}
				}
				sb.WriteString(h.Get(idx))

			case c == ' ' || c == '\t' || c == '=' || c == '(':
				sb.WriteByte('!')
				sb.WriteByte(c)

			case c == '-' || (c >= '0' && c <= '9'):
				neg := c == '-'
				if neg {
					i++
				}
				start := i
				for i < len(str) && str[i] >= '0' && str[i] <= '9' {
					i++
				}
				digits := str[start:i]
				i--
				designator := "!" + digits
				if neg {
					designator = "!-" + digits
				}
				n, err := strconv.Atoi(digits)
				if err != nil {
					return "", &EventNotFoundError{Designator: designator}
				}
				idx := n
				if neg {
					idx = newest + 1 - n
				}
				if n == 0 && neg || idx < h.First() || idx > newest {
					return "", &EventNotFoundError{Designator: designator}
				}
				sb.WriteString(h.Get(idx))

			default:
				end := i
				for end < len(str) && !isWhitespace(rune(str[end])) {
					end++
				}
				prefix := str[i:end]
				i = end - 1
				idx := history.SearchBackwards(h, prefix, newest+1, true)
				if idx < 0 {
					return "", &EventNotFoundError{Designator: "!" + prefix}
				}
				sb.WriteString(h.Get(idx))
			}

		case '^':
			if i == 0 {
				mid := strings.IndexByte(str[1:], '^')
				if mid > 0 {
					mid++
					end := strings.IndexByte(str[mid+1:], '^')
					if end < 0 {
						end = len(str)
					} else {
						end += mid + 1
					}
					line, err := previous("^" + str[1:mid] + "^")
					if err != nil {
						return "", err
					}
					sb.WriteString(strings.ReplaceAll(line, str[1:mid], str[mid+1:end]))
					i = end
					break
				}
			}
			sb.WriteByte(c)

		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), nil
}
