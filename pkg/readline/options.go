package readline

import (
	"time"

	"github.com/robottwo/bishline/pkg/completer"
	"github.com/robottwo/bishline/pkg/history"
	"github.com/robottwo/bishline/pkg/terminal"
	"go.uber.org/zap"
)

const (
	DefaultEscapeTimeout      = 100 * time.Millisecond
	DefaultAutoprintThreshold = 100
	DefaultCommentBegin       = "#"

	parenBlinkTimeout = 500 * time.Millisecond
	tabWidth          = 4
)

// Options configures a Reader. Start from NewOptions and adjust with the
// With* functions.
type Options struct {
	Terminal          terminal.Terminal
	History           history.History
	Completers        []completer.Completer
	CompletionHandler CompletionHandler
	Logger            *zap.Logger

	// AppName is matched by "$if <name>" in the inputrc.
	AppName string
	// InputrcPath is parsed by New and by re-read-init-file. A missing file
	// is not an error.
	InputrcPath string
	// KeyMap, when set, is activated after the inputrc has been applied.
	KeyMap string

	// EscapeTimeout is how long a lone ESC waits for the rest of a sequence.
	// Zero disables the wait and every ESC prefix blocks for more input.
	EscapeTimeout time.Duration

	BellEnabled    bool
	HistoryEnabled bool
	// ExpandEvents turns on "!!"-style history expansion of accepted lines.
	ExpandEvents bool

	// Pagination shows "--More--" once candidate listings fill the screen.
	Pagination bool
	// AutoprintThreshold is the candidate count above which the user is
	// asked before they are listed.
	AutoprintThreshold int

	// HandleUserInterrupt makes ^C end ReadLine with an *InterruptError.
	HandleUserInterrupt bool

	CommentBegin string
}

type Option func(*Options)

func NewOptions() Options {
	return Options{
		Logger:             zap.NewNop(),
		EscapeTimeout:      DefaultEscapeTimeout,
		BellEnabled:        true,
		HistoryEnabled:     true,
		ExpandEvents:       true,
		AutoprintThreshold: DefaultAutoprintThreshold,
		CommentBegin:       DefaultCommentBegin,
	}
}

func WithTerminal(t terminal.Terminal) Option {
	return func(o *Options) { o.Terminal = t }
}

func WithHistory(h history.History) Option {
	return func(o *Options) { o.History = h }
}

// WithCompleter appends c to the completers consulted by complete.
func WithCompleter(c completer.Completer) Option {
	return func(o *Options) { o.Completers = append(o.Completers, c) }
}

func WithCompletionHandler(h CompletionHandler) Option {
	return func(o *Options) { o.CompletionHandler = h }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func WithAppName(name string) Option {
	return func(o *Options) { o.AppName = name }
}

func WithInputrc(path string) Option {
	return func(o *Options) { o.InputrcPath = path }
}

func WithKeyMap(name string) Option {
	return func(o *Options) { o.KeyMap = name }
}

func WithEscapeTimeout(d time.Duration) Option {
	return func(o *Options) { o.EscapeTimeout = d }
}

func WithBellEnabled(on bool) Option {
	return func(o *Options) { o.BellEnabled = on }
}

func WithHistoryEnabled(on bool) Option {
	return func(o *Options) { o.HistoryEnabled = on }
}

func WithExpandEvents(on bool) Option {
	return func(o *Options) { o.ExpandEvents = on }
}

func WithPagination(on bool) Option {
	return func(o *Options) { o.Pagination = on }
}

func WithAutoprintThreshold(n int) Option {
	return func(o *Options) { o.AutoprintThreshold = n }
}

func WithHandleUserInterrupt(on bool) Option {
	return func(o *Options) { o.HandleUserInterrupt = on }
}

func WithCommentBegin(s string) Option {
	return func(o *Options) { o.CommentBegin = s }
}
