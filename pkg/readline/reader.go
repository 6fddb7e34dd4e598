// Package readline is an interactive line editor with emacs and vi key
// bindings, history search, completion and a redraw driver that keeps the
// terminal in step with an edit buffer.
package readline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/robottwo/bishline/pkg/completer"
	"github.com/robottwo/bishline/pkg/history"
	"github.com/robottwo/bishline/pkg/input"
	"github.com/robottwo/bishline/pkg/inputrc"
	"github.com/robottwo/bishline/pkg/keymap"
	"github.com/robottwo/bishline/pkg/terminal"
	"go.uber.org/zap"
)

type state int

const (
	stateNormal state = iota
	stateSearch
	stateViYankTo
	stateViDeleteTo
	stateViChangeTo
)

// Reader reads edited lines from a terminal. One ReadLine runs at a time.
type Reader struct {
	mu sync.Mutex

	options  Options
	logger   *zap.Logger
	in       *input.Reader
	out      *bufio.Writer
	term     terminal.Terminal
	keys     *keymap.Set
	history  history.History
	handler  CompletionHandler
	killRing KillRing

	buf         *CursorBuffer
	prompt      string
	promptWidth int
	masked      bool
	mask        rune

	state       state
	repeatCount int
	pushback    []byte
	skipLF      bool
	lastOp      keymap.Operation
	mark        int
	yankBuffer  string

	// line as it was when editing started, for revert-line
	originalLine string
	// what was typed before history navigation began
	pendingLine string

	recording bool
	macro     []byte

	// incremental search
	originalPrompt     string
	searchOrigin       *CursorBuffer
	searchTerm         []rune
	previousSearchTerm string
	searchIndex        int
	searchForward      bool

	// vi / and ? search
	viSearchTerm    string
	viSearchForward bool

	// f F t T ; ,
	charSearchChar            rune
	charSearchFirstInvokeChar rune
	charSearchLastInvokeChar  rune

	lastArg lastArgState
	menu    menuState
}

// New builds a Reader over in and out. The terminal is detected from in
// unless WithTerminal is given.
func New(in io.Reader, out io.Writer, opts ...Option) (*Reader, error) {
	if out == nil {
		return nil, ErrNoTerminal
	}
	options := NewOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	r := &Reader{
		options:     options,
		logger:      options.Logger,
		in:          input.NewReader(in),
		out:         bufio.NewWriter(out),
		term:        options.Terminal,
		keys:        keymap.NewSet(),
		history:     options.History,
		handler:     options.CompletionHandler,
		buf:         &CursorBuffer{},
		searchIndex: -1,
		mark:        -1,
	}
	if r.term == nil {
		termOpts := terminal.NewOptions()
		termOpts.NoInterrupt = options.HandleUserInterrupt
		termOpts.Logger = options.Logger
		r.term = terminal.Detect(in, termOpts)
	}
	if r.history == nil {
		r.history = history.NewMemory()
	}
	if r.handler == nil {
		r.handler = NewCandidateListHandler()
	}

	r.loadInputrc()
	if options.KeyMap != "" {
		if err := r.keys.SetKeyMap(options.KeyMap); err != nil {
			return nil, fmt.Errorf("failed to select keymap %q: %w", options.KeyMap, err)
		}
	}
	return r, nil
}

// loadInputrc applies the configured inputrc to a fresh keymap set and picks
// up the variables the reader honours.
func (r *Reader) loadInputrc() {
	r.keys.Reset()
	if r.options.InputrcPath != "" {
		rcOpts := inputrc.NewOptions()
		rcOpts.AppName = r.options.AppName
		rcOpts.Logger = r.logger
		_, err := inputrc.ParseFile(r.options.InputrcPath, r.keys, rcOpts)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to load inputrc", zap.String("path", r.options.InputrcPath), zap.Error(err))
		}
	}

	if v, ok := r.keys.Variable("bell-style"); ok {
		r.options.BellEnabled = !strings.EqualFold(v, "none")
	}
	if v, ok := r.keys.Variable("comment-begin"); ok && v != "" {
		r.options.CommentBegin = v
	}
	if v, ok := r.keys.Variable("completion-query-items"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			r.options.AutoprintThreshold = n
		}
	}
	if v, ok := r.keys.Variable("page-completions"); ok {
		r.options.Pagination = strings.EqualFold(v, "on")
	}
}

// ReadLine prints prompt and returns the line the user accepts. It returns
// io.EOF when input ends on an empty line.
func (r *Reader) ReadLine(prompt string) (string, error) {
	return r.readLine(prompt, false, 0)
}

// ReadLineMask is ReadLine with every typed rune echoed as mask. NullMask
// echoes nothing. Masked lines are never added to history.
func (r *Reader) ReadLineMask(prompt string, mask rune) (string, error) {
	return r.readLine(prompt, true, mask)
}

func (r *Reader) readLine(prompt string, masked bool, mask rune) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.masked, r.mask = masked, mask
	defer func() { r.masked = false }()

	r.setPrompt(prompt)
	r.print(prompt)
	r.flush()

	if !r.term.Supported() {
		return r.readLineSimple()
	}
	if err := r.term.Init(); err != nil {
		r.logger.Warn("failed to initialise terminal, reading plain lines", zap.Error(err))
		return r.readLineSimple()
	}
	defer func() {
		if err := r.term.Restore(); err != nil {
			r.logger.Warn("failed to restore terminal", zap.Error(err))
		}
	}()

	r.reset()
	for {
		op, seq, ok := r.readBinding()
		if !ok {
			if err := r.in.Err(); err != nil {
				r.logger.Debug("input failed, treating as end of input", zap.Error(err))
			}
			if r.state == stateSearch {
				r.state = stateNormal
				r.restoreLine(r.originalPrompt, -1)
			}
			if r.buf.Len() == 0 {
				r.flush()
				return "", io.EOF
			}
			line, _, err := r.accept()
			return line, err
		}

		line, done, err := r.dispatch(op, seq)
		r.flush()
		if done {
			return line, err
		}
	}
}

func (r *Reader) reset() {
	r.buf.Clear()
	r.buf.SetOvertyping(false)
	r.state = stateNormal
	r.repeatCount = 0
	r.lastOp = -1
	r.mark = -1
	r.searchTerm = nil
	r.searchIndex = -1
	r.originalLine = ""
	r.pendingLine = ""
	r.lastArg = lastArgState{}
	r.menu = menuState{}
	r.killRing.lastWasKill = false
	r.killRing.yankActive = false
	if r.keys.IsVi() {
		// every line starts in insert mode
		_ = r.keys.SetKeyMap(keymap.ViInsert)
	}
}

// nextByte pops the pushback stack or reads from the input.
func (r *Reader) nextByte() int {
	if n := len(r.pushback); n > 0 {
		c := r.pushback[n-1]
		r.pushback = r.pushback[:n-1]
		return int(c)
	}
	r.flush()
	c := r.in.Read(0)
	if c >= 0 {
		r.clearEcho(byte(c))
	}
	return c
}

func (r *Reader) pushBack(seq ...byte) {
	for i := len(seq) - 1; i >= 0; i-- {
		r.pushback = append(r.pushback, seq[i])
	}
}

// completeRune reads continuation bytes until seq holds a whole UTF-8 rune.
func (r *Reader) completeRune(seq []byte) []byte {
	for len(seq) > 0 && len(seq) < utf8.UTFMax && seq[0] >= utf8.RuneSelf && !utf8.FullRune(seq) {
		c := r.nextByte()
		if c < 0 {
			break
		}
		seq = append(seq, byte(c))
		if r.recording {
			r.macro = append(r.macro, byte(c))
		}
	}
	return seq
}

// readRune reads one character outside of key resolution, for operations
// that take an argument. It reports false at end of input.
func (r *Reader) readRune() (rune, bool) {
	c := r.nextByte()
	if c < 0 {
		return 0, false
	}
	if r.recording {
		r.macro = append(r.macro, byte(c))
	}
	seq := r.completeRune([]byte{byte(c)})
	ch, _ := utf8.DecodeRune(seq)
	return ch, true
}

// readBinding resolves input bytes to an operation. Macros are pushed back
// and callbacks run in place; neither ends the resolution. It reports false
// at end of input.
func (r *Reader) readBinding() (keymap.Operation, []byte, bool) {
	var sb []byte
	for {
		c := r.nextByte()
		if c < 0 {
			// a prefix left pending at end of input resolves like one
			// followed by silence; EOF is reported on the next call
			o, ok := r.pendingAnotherKey(sb)
			if !ok {
				return 0, nil, false
			}
			trigger := append([]byte(nil), sb...)
			sb = sb[:0]
			switch o.Kind {
			case keymap.MacroBinding:
				r.pushBack([]byte(o.Macro)...)
				continue
			case keymap.CallbackBinding:
				o.Callback()
				continue
			}
			if ce := r.logger.Check(zap.DebugLevel, "resolved key sequence at end of input"); ce != nil {
				ce.Write(zap.ByteString("keys", trigger), zap.Stringer("operation", o.Op))
			}
			return o.Op, trigger, true
		}
		sb = append(sb, byte(c))
		if r.recording {
			r.macro = append(r.macro, byte(c))
		}

		km := r.keys.Current()
		o := km.Bound(string(sb))
		if o.Is(keymap.DoLowercaseVersion) {
			sb[len(sb)-1] = toLowerByte(sb[len(sb)-1])
			o = km.Bound(string(sb))
		}

		trigger := sb
		if o.Kind == keymap.TableBinding {
			if c != esc || len(r.pushback) > 0 || !r.in.NonBlockingEnabled() ||
				r.options.EscapeTimeout <= 0 || r.in.Peek(r.options.EscapeTimeout) != input.NoData {
				continue
			}
			o = o.Table.AnotherKey()
			if !o.IsBound() || o.Kind == keymap.TableBinding {
				continue
			}
			trigger = append([]byte(nil), sb...)
			sb = sb[:0]
		}

		for !o.IsBound() && len(sb) > 0 {
			last := sb[len(sb)-1]
			sb = sb[:len(sb)-1]
			if prefix := km.Bound(string(sb)); prefix.Kind == keymap.TableBinding {
				o = prefix.Table.AnotherKey()
				if o.IsBound() {
					r.pushback = append(r.pushback, last)
				}
			}
			trigger = sb
		}
		if !o.IsBound() {
			sb = sb[:0]
			continue
		}

		switch o.Kind {
		case keymap.MacroBinding:
			r.pushBack([]byte(o.Macro)...)
			sb = sb[:0]
			continue
		case keymap.CallbackBinding:
			o.Callback()
			sb = sb[:0]
			continue
		}

		if ce := r.logger.Check(zap.DebugLevel, "resolved key sequence"); ce != nil {
			ce.Write(zap.ByteString("keys", trigger), zap.Stringer("operation", o.Op))
		}
		return o.Op, append([]byte(nil), trigger...), true
	}
}

// pendingAnotherKey returns the AnotherKey binding of the table that sb
// leads to, when there is one.
func (r *Reader) pendingAnotherKey(sb []byte) (keymap.Binding, bool) {
	if len(sb) == 0 {
		return keymap.Binding{}, false
	}
	o := r.keys.Current().Bound(string(sb))
	if o.Kind != keymap.TableBinding {
		return keymap.Binding{}, false
	}
	o = o.Table.AnotherKey()
	if !o.IsBound() || o.Kind == keymap.TableBinding {
		return keymap.Binding{}, false
	}
	return o, true
}

func toLowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// readLineSimple reads a plain line for terminals without raw mode. A CR
// ends the line and the LF right after it is skipped.
func (r *Reader) readLineSimple() (string, error) {
	var line []byte
	if r.skipLF {
		r.skipLF = false
		c := r.nextByte()
		switch c {
		case input.EOF, '\r':
			return string(line), nil
		case '\n':
		default:
			line = append(line, byte(c))
		}
	}

	for {
		c := r.nextByte()
		switch {
		case c == input.EOF && len(line) == 0:
			return "", io.EOF
		case c == input.EOF, c == '\n':
			return string(line), nil
		case c == '\r':
			r.skipLF = true
			return string(line), nil
		default:
			line = append(line, byte(c))
		}
	}
}

// accept finishes the line: the cursor goes to the end, a newline is
// printed, events are expanded and the line is added to history.
func (r *Reader) accept() (string, bool, error) {
	r.moveToEnd()
	r.println()
	r.flush()

	str := r.buf.String()
	historyLine := str
	if r.options.ExpandEvents {
		expanded, err := r.expandEvents(str)
		if err != nil {
			r.history.MoveToEnd()
			r.buf.Clear()
			r.flush()
			return str, true, err
		}
		if expanded != str {
			r.println(expanded)
		}
		str = expanded
		historyLine = strings.ReplaceAll(str, `\!`, `\\!`)
	}

	if str != "" && !r.masked && r.options.HistoryEnabled {
		r.history.Add(historyLine)
	}
	r.history.MoveToEnd()
	r.buf.Clear()
	r.flush()
	return str, true, nil
}

// Keys returns the keymap set, for binding keys in tables other than the
// active one.
func (r *Reader) Keys() *keymap.Set {
	return r.keys
}

// KeyMap returns the name of the active key table.
func (r *Reader) KeyMap() string {
	return r.keys.Current().Name()
}

// SetKeyMap activates the named table. Names are those of keymap.Set,
// e.g. "emacs" or "vi-insert".
func (r *Reader) SetKeyMap(name string) error {
	return r.keys.SetKeyMap(name)
}

// Bind binds seq in the active key table.
func (r *Reader) Bind(seq string, b keymap.Binding) {
	r.keys.Bind(seq, b)
}

func (r *Reader) History() history.History {
	return r.history
}

// SetHistory replaces the history. It must not be called while ReadLine is
// running.
func (r *Reader) SetHistory(h history.History) {
	r.history = h
}

// CursorBuffer exposes the line being edited, e.g. to callbacks.
func (r *Reader) CursorBuffer() *CursorBuffer {
	return r.buf
}

// AddCompleter appends c after the completers given at construction.
func (r *Reader) AddCompleter(c completer.Completer) {
	r.options.Completers = append(r.options.Completers, c)
}

func (r *Reader) Completers() []completer.Completer {
	return r.options.Completers
}

func (r *Reader) Terminal() terminal.Terminal {
	return r.term
}

func (r *Reader) Prompt() string {
	return r.prompt
}

// SetPrompt changes the prompt used by the next redraw.
func (r *Reader) SetPrompt(prompt string) {
	r.setPrompt(prompt)
}

// PutString inserts s at the cursor and redraws.
func (r *Reader) PutString(s string) {
	r.putString(s)
	r.flush()
}

func (r *Reader) Println(s string) {
	r.println(s)
	r.flush()
}

func (r *Reader) Beep() {
	r.beep()
	r.flush()
}

func (r *Reader) RedrawLine() {
	r.redrawLine()
	r.flush()
}

func (r *Reader) ClearScreen() bool {
	ok := r.clearScreen()
	r.flush()
	return ok
}

// PrintColumns lists items in columns sized to the terminal.
func (r *Reader) PrintColumns(items []string) {
	r.printColumns(items)
	r.flush()
}
