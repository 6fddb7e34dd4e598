// Package inputrc reads readline-style key binding files into a keymap.Set.
package inputrc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robottwo/bishline/pkg/keymap"
	"go.uber.org/zap"
)

var (
	ErrMissingQuote   = errors.New("missing closing quote")
	ErrElseWithoutIf  = errors.New("$else found without matching $if")
	ErrEndifWithoutIf = errors.New("$endif found without matching $if")
	ErrEmptyKey       = errors.New("empty key sequence")
)

// Warning describes a line that could not be applied. Parsing carries on
// after a warning.
type Warning struct {
	Line int
	Text string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("line %d: %v: %q", w.Line, w.Err, w.Text)
}

func (w Warning) Unwrap() error {
	return w.Err
}

type Options struct {
	// AppName is matched case-insensitively by "$if <name>".
	AppName string
	// Term is matched by "$if term=...". Defaults to $TERM.
	Term   string
	Logger *zap.Logger
}

func NewOptions() Options {
	return Options{
		Term:   os.Getenv("TERM"),
		Logger: zap.NewNop(),
	}
}

type parser struct {
	set     *keymap.Set
	options Options
	logger  *zap.Logger

	parsing  bool
	ifsStack []bool
}

// ParseFile opens path and applies it to set.
func ParseFile(path string, set *keymap.Set, options Options) ([]Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inputrc %s: %w", path, err)
	}
	defer f.Close()

	warnings, err := Parse(f, set, options)
	if err == nil && options.Logger != nil {
		options.Logger.Debug("loaded inputrc", zap.String("path", path), zap.Int("warnings", len(warnings)))
	}
	return warnings, err
}

// Parse applies every line of r to set. Malformed lines become warnings; the
// returned error is only set when r itself fails.
func Parse(r io.Reader, set *keymap.Set, options Options) ([]Warning, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &parser{
		set:     set,
		options: options,
		logger:  logger,
		parsing: true,
	}

	var warnings []Warning
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if err := p.parseLine(text); err != nil {
			w := Warning{Line: lineNo, Text: text, Err: err}
			logger.Warn("unable to parse inputrc line", zap.Int("line", lineNo), zap.Error(err))
			warnings = append(warnings, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return warnings, fmt.Errorf("failed to read inputrc: %w", err)
	}
	return warnings, nil
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// skipBlanks returns the index of the first non-blank byte at or after i.
func skipBlanks(line string, i int) int {
	for i < len(line) && isBlank(line[i]) {
		i++
	}
	return i
}

// word returns the run of non-blank bytes starting at i and the index after it.
func word(line string, i int) (string, int) {
	s := i
	for i < len(line) && !isBlank(line[i]) {
		i++
	}
	return line[s:i], i
}

func (p *parser) parseLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return nil
	}
	if line[0] == '$' {
		return p.directive(line)
	}
	if !p.parsing {
		return nil
	}

	i := 0
	if line[0] == '"' {
		esc := false
		for i = 1; ; i++ {
			if i >= len(line) {
				return ErrMissingQuote
			}
			if esc {
				esc = false
			} else if line[i] == '\\' {
				esc = true
			} else if line[i] == '"' {
				break
			}
		}
	}
	for i < len(line) && line[i] != ':' && !isBlank(line[i]) {
		i++
	}
	keySeq := line[:i]
	if i+1 < len(line) && line[i] == ':' && line[i+1] == '=' {
		i++
	}
	i++

	if strings.EqualFold(keySeq, "set") {
		i = skipBlanks(line, i)
		name, next := word(line, i)
		value, _ := word(line, skipBlanks(line, next))
		p.set.SetVariable(name, value)
		return nil
	}

	if i > len(line) {
		i = len(line)
	}
	i = skipBlanks(line, i)
	start := i
	if i < len(line) && (line[i] == '\'' || line[i] == '"') {
		delim := line[i]
		esc := false
		for i++; i < len(line); i++ {
			if esc {
				esc = false
			} else if line[i] == '\\' {
				esc = true
			} else if line[i] == delim {
				break
			}
		}
	}
	for i < len(line) && !isBlank(line[i]) {
		i++
	}
	value := line[start:i]

	if keySeq == "" {
		return ErrEmptyKey
	}
	var seq string
	if keySeq[0] == '"' {
		seq = TranslateQuoted(keySeq)
	} else {
		seq = keySequenceFromName(keySeq)
	}
	if seq == "" {
		return ErrEmptyKey
	}

	if value != "" && (value[0] == '\'' || value[0] == '"') {
		p.set.Bind(seq, keymap.Macro(TranslateQuoted(value)))
		return nil
	}
	op, err := keymap.ParseOperation(value)
	if err != nil {
		p.logger.Info("unable to bind key for unsupported operation", zap.String("operation", value))
		return nil
	}
	p.set.Bind(seq, keymap.Op(op))
	return nil
}

func (p *parser) directive(line string) error {
	i := skipBlanks(line, 1)
	cmd, i := word(line, i)
	args, _ := word(line, skipBlanks(line, i))

	switch strings.ToLower(cmd) {
	case "if":
		p.ifsStack = append(p.ifsStack, p.parsing)
		if !p.parsing {
			return nil
		}
		p.parsing = p.evalCondition(args)
	case "else":
		if len(p.ifsStack) == 0 {
			return ErrElseWithoutIf
		}
		invert := true
		for _, b := range p.ifsStack {
			if !b {
				invert = false
				break
			}
		}
		if invert {
			p.parsing = !p.parsing
		}
	case "endif":
		if len(p.ifsStack) == 0 {
			return ErrEndifWithoutIf
		}
		p.parsing = p.ifsStack[len(p.ifsStack)-1]
		p.ifsStack = p.ifsStack[:len(p.ifsStack)-1]
	case "include":
		p.logger.Debug("ignoring inputrc include", zap.String("file", args))
	default:
		p.logger.Debug("ignoring unknown inputrc directive", zap.String("directive", cmd))
	}
	return nil
}

func (p *parser) evalCondition(args string) bool {
	lower := strings.ToLower(args)
	switch {
	case strings.HasPrefix(lower, "term="):
		want := args[len("term="):]
		term := p.options.Term
		if term == "" {
			return false
		}
		if strings.EqualFold(term, want) {
			return true
		}
		base, _, _ := strings.Cut(term, "-")
		return strings.EqualFold(base, want)
	case strings.HasPrefix(lower, "mode="):
		switch lower {
		case "mode=vi":
			return p.set.IsVi()
		case "mode=emacs":
			return !p.set.IsVi()
		default:
			return false
		}
	default:
		return strings.EqualFold(args, p.options.AppName)
	}
}
