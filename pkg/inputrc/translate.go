package inputrc

import (
	"strings"
	"unicode/utf8"
)

// TranslateQuoted turns a quoted inputrc key sequence or macro, quotes
// included, into the raw bytes it stands for.
func TranslateQuoted(quoted string) string {
	if len(quoted) < 2 {
		return ""
	}
	str := quoted[1 : len(quoted)-1]

	var sb strings.Builder
	for i := 0; i < len(str); i++ {
		c := str[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}

		rest := str[i:]
		ctrl := strings.HasPrefix(rest, `\C-`) || strings.HasPrefix(rest, `\M-\C-`)
		meta := strings.HasPrefix(rest, `\M-`) || strings.HasPrefix(rest, `\C-\M-`)
		switch {
		case ctrl && meta:
			i += 6
		case ctrl || meta:
			i += 3
		default:
			i++
		}
		if i >= len(str) {
			break
		}
		c = str[i]

		if meta {
			sb.WriteByte(0x1b)
		}
		if ctrl {
			sb.WriteByte(controlOf(c))
			continue
		}
		if meta {
			sb.WriteByte(c)
			continue
		}

		switch c {
		case 'a':
			sb.WriteByte(0x07)
		case 'b':
			sb.WriteByte(0x08)
		case 'd':
			sb.WriteByte(0x7f)
		case 'e':
			sb.WriteByte(0x1b)
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte(0x0b)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v, n := parseDigits(str[i:], 8, 3)
			sb.WriteByte(byte(v))
			i += n - 1
		case 'x':
			v, n := parseDigits(str[i+1:], 16, 2)
			sb.WriteByte(byte(v))
			i += n
		case 'u':
			v, n := parseDigits(str[i+1:], 16, 4)
			var buf [utf8.UTFMax]byte
			sb.Write(buf[:utf8.EncodeRune(buf[:], rune(v))])
			i += n
		default:
			// \\, \", \' and anything unknown stand for themselves.
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// controlOf maps a character to its control code. "?" is DEL.
func controlOf(c byte) byte {
	if c == '?' {
		return 0x7f
	}
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return c & 0x1f
}

// parseDigits reads up to limit digits of the given base from the start of s.
func parseDigits(s string, base, limit int) (int, int) {
	v, n := 0, 0
	for n < limit && n < len(s) {
		d := digitValue(s[n])
		if d < 0 || d >= base {
			break
		}
		v = v*base + d
		n++
	}
	return v, n
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// keySequenceFromName converts a readline key name such as "Control-u" or
// "Meta-Rubout" into its byte sequence.
func keySequenceFromName(name string) string {
	keyName := name
	if idx := strings.LastIndex(name, "-"); idx > 0 && idx < len(name)-1 {
		keyName = name[idx+1:]
	}
	key := keyFromName(keyName)

	lower := strings.ToLower(name)
	var sb strings.Builder
	if strings.Contains(lower, "meta-") || strings.Contains(lower, "m-") {
		sb.WriteByte(0x1b)
	}
	if strings.Contains(lower, "control-") || strings.Contains(lower, "c-") || strings.Contains(lower, "ctrl-") {
		key = controlOf(key)
	}
	sb.WriteByte(key)
	return sb.String()
}

func keyFromName(name string) byte {
	switch strings.ToLower(name) {
	case "del", "rubout":
		return 0x7f
	case "esc", "escape":
		return 0x1b
	case "lfd", "newline":
		return '\n'
	case "ret", "return":
		return '\r'
	case "spc", "space":
		return ' '
	case "tab":
		return '\t'
	}
	return name[0]
}
