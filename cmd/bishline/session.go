package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/robottwo/bishline/internal/config"
	"github.com/robottwo/bishline/internal/core"
	"github.com/robottwo/bishline/internal/history"
	"github.com/robottwo/bishline/internal/styles"
	"github.com/robottwo/bishline/pkg/completer"
	linehistory "github.com/robottwo/bishline/pkg/history"
	"github.com/robottwo/bishline/pkg/keymap"
	"github.com/robottwo/bishline/pkg/readline"
	"go.uber.org/zap"
)

const defaultHistoryListing = 20

type metaCommand struct {
	name  string
	usage string
	help  string
	run   func(s *session, args []string) (quit bool)
}

var metaCommands []metaCommand

func init() {
	metaCommands = []metaCommand{
		{":history", ":history [n]", "list the last n lines (default 20)", (*session).cmdHistory},
		{":set", ":set [key [value]]", "show or change a setting and save it", (*session).cmdSet},
		{":mode", ":mode [emacs|vi]", "show or switch the editing mode", (*session).cmdMode},
		{":clear", ":clear", "clear the screen", (*session).cmdClear},
		{":help", ":help", "list these commands", (*session).cmdHelp},
		{":quit", ":quit", "leave bishline", func(*session, []string) bool { return true }},
	}
}

// session is one run of the demo REPL.
type session struct {
	reader       *readline.Reader
	store        *history.Store
	settings     config.Settings
	settingsPath string
	out          io.Writer
	logger       *zap.Logger
}

func newSession(reader *readline.Reader, store *history.Store, settings config.Settings, settingsPath string, out io.Writer, logger *zap.Logger) *session {
	return &session{
		reader:       reader,
		store:        store,
		settings:     settings,
		settingsPath: settingsPath,
		out:          out,
		logger:       logger,
	}
}

// readerOptions turns settings into reader options.
func readerOptions(settings config.Settings, words []string, logger *zap.Logger) []readline.Option {
	h := linehistory.NewMemory()
	if settings.HistorySize > 0 {
		h.SetMaxSize(settings.HistorySize)
	}
	h.SetIgnoreDuplicates(settings.HistoryIgnoreDups)

	names := make([]string, 0, len(metaCommands))
	for _, c := range metaCommands {
		names = append(names, c.name)
	}
	completers := completer.NewAggregate(
		completer.NewStrings(names...),
		completer.NewLastArg(func() []string { return historyLines(h) }),
		completer.NewFuzzy(words...),
	)

	opts := []readline.Option{
		readline.WithLogger(logger),
		readline.WithAppName("bishline"),
		readline.WithHistory(h),
		readline.WithCompleter(completers),
		readline.WithEscapeTimeout(settings.EscapeTimeout()),
		readline.WithBellEnabled(settings.Bell),
		readline.WithExpandEvents(settings.ExpandEvents),
		readline.WithPagination(settings.Pagination),
		readline.WithAutoprintThreshold(settings.AutoprintThreshold),
		readline.WithHandleUserInterrupt(true),
		readline.WithKeyMap(keyMapFor(settings.EditingMode)),
	}
	inputrc := settings.Inputrc
	if inputrc == "" {
		inputrc = core.InputrcFile()
	}
	return append(opts, readline.WithInputrc(inputrc))
}

func keyMapFor(mode string) string {
	if mode == "vi" {
		return keymap.ViInsert
	}
	return keymap.Emacs
}

func historyLines(h linehistory.History) []string {
	entries := h.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Value
	}
	return lines
}

func (s *session) prompt() string {
	mode := "emacs"
	if s.reader.Keys().IsVi() {
		mode = "vi"
	}
	return styles.MODE("["+mode+"]") + " " + styles.PROMPT("bishline>") + " "
}

func (s *session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// run reads lines until end of input or :quit.
func (s *session) run() error {
	for {
		line, err := s.reader.ReadLine(s.prompt())

		var notFound *readline.EventNotFoundError
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, readline.ErrInterrupted):
			continue
		case errors.As(err, &notFound):
			s.printf("%s\n", styles.ERROR(notFound.Error()))
			continue
		case err != nil:
			return err
		}

		if s.handle(line) {
			return nil
		}
	}
}

// handle runs one accepted line and reports whether the session should end.
func (s *session) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	s.record(line)

	if !strings.HasPrefix(line, ":") {
		s.printf("%s\n", line)
		return false
	}

	fields := strings.Fields(line)
	for _, c := range metaCommands {
		if c.name == fields[0] {
			return c.run(s, fields[1:])
		}
	}
	s.printf("%s\n", styles.ERROR("unknown command "+fields[0]+", try :help"))
	return false
}

func (s *session) record(line string) {
	if s.store == nil {
		return
	}
	if _, err := s.store.Record(line); err != nil {
		s.logger.Warn("failed to record history", zap.Error(err))
	}
}

func (s *session) cmdHistory(args []string) bool {
	limit := defaultHistoryListing
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			s.printf("%s\n", styles.ERROR("usage: :history [n]"))
			return false
		}
		limit = n
	}

	if s.store != nil {
		entries, err := s.store.Recent(limit)
		if err != nil {
			s.printf("%s\n", styles.ERROR(err.Error()))
			return false
		}
		for i, e := range entries {
			s.printf("%s  %-14s %s\n", styles.HISTORY_INDEX(fmt.Sprintf("%5d", i+1)), humanize.Time(e.CreatedAt), e.Line)
		}
		return false
	}

	entries := s.reader.History().Entries()
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	for _, e := range entries {
		s.printf("%s  %s\n", styles.HISTORY_INDEX(fmt.Sprintf("%5d", e.Index)), e.Value)
	}
	return false
}

func (s *session) cmdSet(args []string) bool {
	switch len(args) {
	case 0:
		for _, key := range config.Keys() {
			value, _ := s.settings.Get(key)
			s.printf("%-22s %s\n", key, value)
		}
		return false
	case 1:
		value, err := s.settings.Get(args[0])
		if err != nil {
			s.printf("%s\n", styles.ERROR(err.Error()))
			return false
		}
		s.printf("%s\n", value)
		return false
	}

	key, value := args[0], strings.Join(args[1:], " ")
	if err := s.settings.Set(key, value); err != nil {
		s.printf("%s\n", styles.ERROR(err.Error()))
		return false
	}
	if key == "editing_mode" {
		s.switchMode(s.settings.EditingMode)
	}
	if err := config.Save(s.settingsPath, s.settings); err != nil {
		s.printf("%s\n", styles.ERROR(err.Error()))
		return false
	}
	s.printf("%s\n", styles.HINT("saved to "+s.settingsPath+", other changes apply on restart"))
	return false
}

func (s *session) switchMode(mode string) {
	if err := s.reader.SetKeyMap(keyMapFor(mode)); err != nil {
		s.logger.Warn("failed to switch keymap", zap.String("mode", mode), zap.Error(err))
	}
}

func (s *session) cmdMode(args []string) bool {
	if len(args) == 0 {
		s.printf("%s\n", s.reader.KeyMap())
		return false
	}
	if args[0] != "emacs" && args[0] != "vi" {
		s.printf("%s\n", styles.ERROR("usage: :mode [emacs|vi]"))
		return false
	}
	s.switchMode(args[0])
	return false
}

func (s *session) cmdClear([]string) bool {
	s.reader.ClearScreen()
	return false
}

func (s *session) cmdHelp([]string) bool {
	for _, c := range metaCommands {
		s.printf("  %-22s %s\n", c.usage, c.help)
	}
	return false
}
