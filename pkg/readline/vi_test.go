package readline

import (
	"strings"
	"testing"

	"github.com/robottwo/bishline/pkg/keymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readVi(t *testing.T, input string, history ...string) string {
	t.Helper()
	r, _ := newTestReader(t, strings.NewReader(input), WithKeyMap(keymap.ViInsert))
	for _, h := range history {
		r.History().Add(h)
	}
	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	return line
}

func TestVi_Commands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"delete word", "hello world\x1b0dw\r", "world"},
		{"delete line", "abc\x1bdd\r", ""},
		{"change word keeps blank", "hello world\x1b0cwbye\r", "bye world"},
		{"counted delete", "abcdef\x1b03x\r", "def"},
		{"counted operator", "one two three\x1b0d2w\r", "three"},
		{"delete till", "a-b-c\x1b0dt-\r", "-b-c"},
		{"delete to match", "x(a)y\x1b0ld%\r", "xy"},
		{"yank and put", "abc\x1b0ylp\r", "aabc"},
		{"change case", "abc\x1b0~~\r", "ABc"},
		{"replace char", "abc\x1b0rX\r", "Xbc"},
		{"append at end", "abc\x1b0Ad\r", "abcd"},
		{"insert at start", "bc\x1bIa\r", "abc"},
		{"rubout", "abc\x1bX\r", "ac"},
		{"end word", "foo bar\x1b0eaX\r", "fooX bar"},
		{"previous word", "foo bar\x1bbiX\r", "foo Xbar"},
		{"find repeat", "a.b.c.d\x1b0f.;;\x0b\r", "a.b.c"},
		{"find reverse", "a.b.c.d\x1b0f.f.,\x0b\r", "a"},
		{"first non-blank", "   ab\x1b0^iX\r", "   Xab"},
		{"column", "abcdef\x1b3|\x0b\r", "ab"},
		{"substitute", "abc\x1b0sX\r", "Xbc"},
		{"operator cancelled", "abc\x1b0dix\r", "bc"},
		{"yank line", "abc\x1byy$p\r", "abcabc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readVi(t, tt.input))
		})
	}
}

func TestVi_YankBuffer(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("one two\x1b0dw\r"), WithKeyMap(keymap.ViInsert))
	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "two", line)
	assert.Equal(t, "one ", r.yankBuffer)
}

func TestVi_StartsEachLineInInsertMode(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("ab\x1b"), WithKeyMap(keymap.ViInsert))

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "ab", line)
	assert.Equal(t, keymap.ViMove, r.KeyMap())

	r.reset()
	assert.Equal(t, keymap.ViInsert, r.KeyMap())
}

func TestVi_Search(t *testing.T) {
	history := []string{"git status", "ls", "git log"}

	assert.Equal(t, "git log", readVi(t, "\x1b?git\r\r", history...))
	assert.Equal(t, "git status", readVi(t, "\x1b?git\rn\r", history...))
	assert.Equal(t, "git status", readVi(t, "\x1b/git\r\r", history...))
	assert.Equal(t, "git log", readVi(t, "\x1b/git\rn\r", history...))
	assert.Equal(t, "git log", readVi(t, "\x1b?git\rnp\r", history...), "p reverses n")
	assert.Equal(t, "typed", readVi(t, "typed\x1b/nomatch\r\r", history...))
	assert.Equal(t, "typed", readVi(t, "typed\x1b/abc\x1b\r", history...), "ESC abandons the search")
}

func TestVi_FetchHistory(t *testing.T) {
	history := []string{"first", "second", "third"}

	assert.Equal(t, "first", readVi(t, "\x1bG\r", history...))
	assert.Equal(t, "second", readVi(t, "\x1b1G\r", history...))
	assert.Equal(t, "second", readVi(t, "\x1bkk\r", history...))
}

func TestVi_HistoryMovesCursorToStart(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("\x1b-\x0f\r"), WithKeyMap(keymap.ViInsert))
	r.History().Add("hello")
	cursor := -1
	viMove, ok := r.Keys().Lookup(keymap.ViMove)
	require.True(t, ok)
	viMove.Bind("\x0f", keymap.Callback(func() { cursor = r.buf.Cursor() }))

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "hello", line)
	assert.Equal(t, 0, cursor)
}

func TestVi_YankArg(t *testing.T) {
	assert.Equal(t, "vi b.txt", readVi(t, "vi\x1b_\r", "cp a.txt b.txt"))
}

func TestVi_EOFMaybe(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("\x04"), WithKeyMap(keymap.ViInsert))
	_, err := r.ReadLine("> ")
	assert.Error(t, err)

	assert.Equal(t, "abc", readVi(t, "abc\x04"))
}

func TestVi_SwitchToEmacs(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("ab\x1b\x05\x01X\r"), WithKeyMap(keymap.ViInsert))
	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "Xab", line)
	assert.Equal(t, keymap.Emacs, r.KeyMap())
}
