package readline

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/robottwo/bishline/pkg/keymap"
	"github.com/robottwo/bishline/pkg/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// pausedSource delivers input in chunks. Between chunks it reports that no
// input is pending, which is how a pause in typing looks to the editor.
type pausedSource struct {
	chunks []string
}

func (p *pausedSource) Read(b []byte) (int, error) {
	for len(p.chunks) > 0 && p.chunks[0] == "" {
		p.chunks = p.chunks[1:]
	}
	if len(p.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.chunks[0])
	p.chunks[0] = p.chunks[0][n:]
	return n, nil
}

func (p *pausedSource) Ready() bool {
	return len(p.chunks) > 0 && p.chunks[0] != ""
}

var rawTerminal = terminal.Caps{Cols: 80, Rows: 24, Raw: true}

func newTestReader(t *testing.T, in io.Reader, opts ...Option) (*Reader, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	opts = append([]Option{
		WithTerminal(rawTerminal),
		WithEscapeTimeout(5 * time.Millisecond),
		WithBellEnabled(false),
	}, opts...)
	r, err := New(in, out, opts...)
	require.NoError(t, err)
	return r, out
}

func readOne(t *testing.T, input string, opts ...Option) (string, error) {
	t.Helper()
	r, _ := newTestReader(t, strings.NewReader(input), opts...)
	return r.ReadLine("> ")
}

func TestNew_RequiresOutput(t *testing.T) {
	_, err := New(strings.NewReader(""), nil)
	assert.ErrorIs(t, err, ErrNoTerminal)
}

func TestNew_UnknownKeyMap(t *testing.T) {
	_, err := New(strings.NewReader(""), &bytes.Buffer{}, WithKeyMap("nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, keymap.ErrUnknownKeyMap)
}

func TestReadLine_PlainLine(t *testing.T) {
	r, out := newTestReader(t, strings.NewReader("hello\r"))
	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "hello", line)
	assert.True(t, strings.HasPrefix(out.String(), "> hello"))
	assert.Equal(t, "hello", r.History().Get(0))
}

func TestReadLine_EOF(t *testing.T) {
	line, err := readOne(t, "")
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, line)

	line, err = readOne(t, "partial")
	require.NoError(t, err, "EOF with text accepts the line")
	assert.Equal(t, "partial", line)

	line, err = readOne(t, "ab\x04")
	require.NoError(t, err)
	assert.Equal(t, "ab", line, "^D inside a line deletes forward and fails quietly at the end")

	_, err = readOne(t, "\x04")
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLine_Interrupt(t *testing.T) {
	_, err := readOne(t, "abc\x03", WithHandleUserInterrupt(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInterrupted)

	var interrupt *InterruptError
	require.True(t, errors.As(err, &interrupt))
	assert.Equal(t, "abc", interrupt.Partial)

	line, err := readOne(t, "abc\x03\r")
	require.NoError(t, err, "^C is ignored unless interrupts are handled")
	assert.Equal(t, "abc", line)
}

func TestReadLine_Mask(t *testing.T) {
	r, out := newTestReader(t, strings.NewReader("secret\r"))
	line, err := r.ReadLineMask("pw: ", '*')
	require.NoError(t, err)
	assert.Equal(t, "secret", line)
	assert.Contains(t, out.String(), "******")
	assert.NotContains(t, out.String(), "secret")
	assert.True(t, r.History().IsEmpty(), "masked lines stay out of history")

	r, out = newTestReader(t, strings.NewReader("secret\r"))
	line, err = r.ReadLineMask("pw: ", NullMask)
	require.NoError(t, err)
	assert.Equal(t, "secret", line)
	assert.NotContains(t, out.String(), "*")
	assert.NotContains(t, out.String(), "secret")
}

func TestReadLine_Simple(t *testing.T) {
	out := &bytes.Buffer{}
	r, err := New(strings.NewReader("one\r\ntwo\nthree"), out, WithTerminal(terminal.Unsupported{}))
	require.NoError(t, err)

	for _, want := range []string{"one", "two", "three"} {
		line, err := r.ReadLine("$ ")
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err = r.ReadLine("$ ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "$ $ $ $ ", out.String())
}

func TestResolver_ExactMatchConsumesNothingMore(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("\x01xyz"))
	r.reset()

	op, seq, ok := r.readBinding()
	require.True(t, ok)
	assert.Equal(t, keymap.BeginningOfLine, op)
	assert.Equal(t, []byte{0x01}, seq)
	assert.Equal(t, int('x'), r.nextByte(), "the next byte is still unread")
}

func TestResolver_EscapeTimeout(t *testing.T) {
	// a lone ESC followed by a pause leaves insert mode
	r, _ := newTestReader(t, &pausedSource{chunks: []string{"abc\x1b", "x\r"}}, WithKeyMap(keymap.ViInsert))
	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "ab", line)

	// the same byte followed at once by [A is the up arrow
	r, _ = newTestReader(t, &pausedSource{chunks: []string{"\x1b[A", "\r"}}, WithKeyMap(keymap.ViInsert))
	r.History().Add("previous")
	line, err = r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "previous", line)
}

func TestResolver_ShrinksUnboundSequence(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("\x1bz"), WithKeyMap(keymap.ViInsert))
	r.reset()

	op, _, ok := r.readBinding()
	require.True(t, ok)
	assert.Equal(t, keymap.ViMovementMode, op)
	assert.Equal(t, int('z'), r.nextByte(), "the unmatched byte is pushed back")
}

func TestResolver_PendingPrefixAtEndOfInput(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("\x1b"), WithKeyMap(keymap.ViInsert))
	r.reset()

	op, seq, ok := r.readBinding()
	require.True(t, ok, "a trailing ESC still leaves insert mode")
	assert.Equal(t, keymap.ViMovementMode, op)
	assert.Equal(t, []byte{0x1b}, seq)

	_, _, ok = r.readBinding()
	assert.False(t, ok, "end of input follows")

	// emacs binds nothing to a lone ESC
	r, _ = newTestReader(t, strings.NewReader("\x1b"))
	r.reset()
	_, _, ok = r.readBinding()
	assert.False(t, ok)
}

func TestRepeatCount_IsCapped(t *testing.T) {
	line, err := readOne(t, strings.Repeat("\x1b9", 20)+"a\r")
	require.NoError(t, err)
	assert.Equal(t, maxRepeatCount, len(line))

	line, err = readOne(t, "abc\x1b"+strings.Repeat("9", 20)+"hx\r", WithKeyMap(keymap.ViInsert))
	require.NoError(t, err)
	assert.Equal(t, "bc", line, "a huge count in vi still moves and edits")
}

func TestResolver_MacroAndLowercase(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("\x18q\x1bB\x0f\r"))
	r.Bind("\x18q", keymap.Macro("hi there"))
	cursor := -1
	r.Bind("\x0f", keymap.Callback(func() { cursor = r.buf.Cursor() }))

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "hi there", line)
	assert.Equal(t, 3, cursor, "M-B is read as M-b")
}

func TestResolver_Callback(t *testing.T) {
	called := 0
	r, _ := newTestReader(t, strings.NewReader("a\x0fb\r"))
	r.Bind("\x0f", keymap.Callback(func() { called++ }))

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "ab", line)
	assert.Equal(t, 1, called)
}

func TestResolver_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := readOne(t, "a\r", WithLogger(zap.New(core)))
	require.NoError(t, err)

	entries := logs.FilterMessage("resolved key sequence").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "self-insert", entries[0].ContextMap()["operation"])
	assert.Equal(t, "accept-line", entries[1].ContextMap()["operation"])
}

func TestEmacs_Editing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"backward char insert", "abc\x02\x02X\r", "aXbc"},
		{"beginning and end", "bc\x01a\x05d\r", "abcd"},
		{"backspace", "abx\x7fc\r", "abc"},
		{"kill line", "hello world\x01\x06\x06\x06\x06\x06\x0b\r", "hello"},
		{"unix word rubout and yank", "hello world\x17\x01\x19\r", "worldhello "},
		{"unix line discard", "abc\x15xyz\r", "xyz"},
		{"yank pop", "one\x15two\x15\x19\x1by\r", "one"},
		{"transpose chars", "ab\x02\x14\r", "ba"},
		{"transpose words", "one two\x1bt\r", "two one"},
		{"capitalize word", "hello world\x01\x1bc\r", "Hello world"},
		{"upcase word", "hello world\x01\x1bu\r", "HELLO world"},
		{"downcase word", "HELLO\x01\x1bl\r", "hello"},
		{"backward word", "foo bar\x1bbX\r", "foo Xbar"},
		{"forward word", "foo bar\x01\x1bfX\r", "fooX bar"},
		{"kill word", "foo bar\x01\x1bd\r", " bar"},
		{"backward kill word", "foo bar\x1b\x7f\r", "foo "},
		{"delete horizontal space", "a    b\x02\x02\x1b\\\r", "ab"},
		{"digit argument", "\x1b3x\r", "xxx"},
		{"tab insert", "a\x1b\tb\r", "a\tb"},
		{"quoted insert", "a\x16\x01b\r", "a\x01b"},
		{"overwrite", "abc\x01\x1b[2~XY\r", "XYc"},
		{"character search", "a-b-c\x01\x1d-X\r", "aX-b-c"},
		{"mark exchange", "ab\x00cd\x18\x18X\r", "abXcd"},
		{"kill region", "ab\x00cd\x17\r", "ab"},
		{"insert comment", "ls\x1b#", "#ls"},
		{"keyboard macro", "\x18(ab\x18)\x18e\r", "abab"},
		{"abort keeps buffer", "abc\x07\r", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestReader(t, strings.NewReader(tt.input))
			if tt.name == "overwrite" {
				r.Bind("\x1b[2~", keymap.Op(keymap.OverwriteMode))
			}
			if tt.name == "kill region" {
				r.Bind("\x17", keymap.Op(keymap.KillRegion))
			}
			line, err := r.ReadLine("> ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, line)
		})
	}
}

func TestEmacs_HistoryNavigation(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("draft\x10\x10\x0e\r"))
	r.History().Add("first")
	r.History().Add("second")

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	r, _ = newTestReader(t, strings.NewReader("draft\x10\x0e\r"))
	r.History().Add("first")
	line, err = r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "draft", line, "coming back past the newest entry restores the typed line")

	r, _ = newTestReader(t, strings.NewReader("\x1b<\x1b>\r"))
	r.History().Add("first")
	r.History().Add("second")
	r.History().Add("third")
	line, err = r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "third", line)
}

func TestEmacs_RevertLine(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("\x10XX\x1br\r"))
	r.History().Add("entry")

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "entry", line)
}

func TestEmacs_YankLastArg(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("vi \x1b.\x1b.\r"))
	r.History().Add("cp a.txt 'b c.txt'")
	r.History().Add("ls -l docs")

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "vi 'b c.txt'", line, "a second press walks one line further back")

	r, _ = newTestReader(t, strings.NewReader("\x1b2\x1b\x19\r"))
	r.History().Add("tar czf out.tgz dir")
	line, err = r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "out.tgz", line)
}

func TestIncrementalSearch(t *testing.T) {
	r, out := newTestReader(t, strings.NewReader("\x12foo\x12\x12\r"))
	r.History().Add("foo")
	r.History().Add("foobar")

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "foo", line)
	assert.Contains(t, out.String(), "(reverse-i-search)`foo': ")
	assert.Contains(t, out.String(), "foobar")
	assert.Contains(t, out.String(), "(failed reverse-i-search)`foo': ")
	assert.Equal(t, "foo", r.previousSearchTerm)
}

func TestIncrementalSearch_AbortRestoresLine(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("ba\x12\x07\x05r\r"))
	r.History().Add("ban")

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "bar", line)
}

func TestIncrementalSearch_OtherKeyEndsSearch(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("\x12make\x05 test\r"))
	r.History().Add("make build")
	r.History().Add("go vet")

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "make build test", line)
	assert.Equal(t, "> ", r.Prompt(), "the original prompt is back")
}

func TestIncrementalSearch_ReusesPreviousTerm(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("\x12git\r\x12\x12\r"))
	r.History().Add("git add")
	r.History().Add("git commit")
	r.History().Add("ls")

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "git commit", line)

	line, err = r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "git commit", line, "an empty term reuses the previous one")
}

func TestAccept_ExpandsEvents(t *testing.T) {
	r, out := newTestReader(t, strings.NewReader("!!\r"))
	r.History().Add("echo hi")

	line, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "echo hi", line)
	assert.Contains(t, out.String(), "echo hi\n")

	r, _ = newTestReader(t, strings.NewReader("!nope\r"))
	r.History().Add("echo hi")
	line, err = r.ReadLine("> ")
	var notFound *EventNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "!nope", notFound.Designator)
	assert.Equal(t, "!nope", line)
	assert.Equal(t, 1, r.History().Len(), "a failed expansion is not recorded")

	line, err = readOne(t, "!!\r", WithExpandEvents(false))
	require.NoError(t, err)
	assert.Equal(t, "!!", line)
}

func TestAccept_HistoryDisabled(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader("ls\r"), WithHistoryEnabled(false))
	_, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.True(t, r.History().IsEmpty())
}

func TestBell(t *testing.T) {
	r, out := newTestReader(t, strings.NewReader("\x02\r"), WithBellEnabled(true))
	_, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\a", "moving left at column 0 beeps")
}

func TestSetBuffer_RoundTrip(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader(""))
	r.reset()

	for _, s := range []string{"hello", "help", "", "héllo wörld", "h"} {
		r.setBuffer(s)
		assert.Equal(t, s, r.buf.String())
		assert.Equal(t, r.buf.Len(), r.buf.Cursor())
	}
}

func TestCursorInvariant(t *testing.T) {
	keys := []byte("ab \x01\x02\x05\x06\x08\x0b\x14\x15\x17\x19\x7f\x1bb\x1bf\x1bd\x1bc\x1bt\x1by")
	rng := rand.New(rand.NewSource(1))

	for round := 0; round < 50; round++ {
		input := make([]byte, 200)
		for i := range input {
			input[i] = keys[rng.Intn(len(keys))]
		}

		r, _ := newTestReader(t, bytes.NewReader(input))
		r.reset()
		for {
			op, seq, ok := r.readBinding()
			if !ok {
				break
			}
			_, done, _ := r.dispatch(op, seq)
			require.GreaterOrEqual(t, r.buf.Cursor(), 0)
			require.LessOrEqual(t, r.buf.Cursor(), r.buf.Len(), "after %s", op)
			if done {
				break
			}
		}
	}
}

func TestKeyMapAccessors(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader(""))
	assert.Equal(t, keymap.Emacs, r.KeyMap())

	require.NoError(t, r.SetKeyMap(keymap.ViMove))
	assert.Equal(t, keymap.ViMove, r.KeyMap())
	assert.ErrorIs(t, r.SetKeyMap("missing"), keymap.ErrUnknownKeyMap)
}
