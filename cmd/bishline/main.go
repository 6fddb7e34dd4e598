package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robottwo/bishline/internal/config"
	"github.com/robottwo/bishline/internal/core"
	"github.com/robottwo/bishline/internal/history"
	"github.com/robottwo/bishline/internal/styles"
	"github.com/robottwo/bishline/pkg/completer"
	"github.com/robottwo/bishline/pkg/readline"
	"go.uber.org/zap"
)

var BUILD_VERSION = "dev"

var configFile = flag.String("config", "", "use a custom settings file instead of ~/.config/bishline/config.yaml")
var inputrcFile = flag.String("inputrc", "", "read key bindings from this file instead of $INPUTRC or ~/.inputrc")
var viMode = flag.Bool("vi", false, "start in vi editing mode")
var noHistory = flag.Bool("no-history", false, "do not load or save persistent history")

var helpFlag bool
var versionFlag bool

func init() {
	flag.BoolVar(&helpFlag, "h", false, "display help information")
	flag.BoolVar(&helpFlag, "help", false, "display help information")

	flag.BoolVar(&versionFlag, "v", false, "display build version")
	flag.BoolVar(&versionFlag, "version", false, "display build version")

	if err := zap.RegisterSink("zstd", newCompressedSink); err != nil {
		panic(fmt.Sprintf("failed to register zstd sink: %v", err))
	}
}

// main runs the demo REPL: every accepted line is echoed back, lines
// starting with ':' are meta commands.
func main() {
	flag.Parse()

	if versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}
	if helpFlag {
		printUsage()
		return
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	settingsPath := *configFile
	if settingsPath == "" {
		settingsPath = core.ConfigFile()
	}
	settings, err := loadSettings(settingsPath)
	if err != nil {
		// a broken settings file should not keep the editor from starting
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
	}
	if *viMode {
		settings.EditingMode = "vi"
	}
	if *inputrcFile != "" {
		settings.Inputrc = *inputrcFile
	}

	logger, err := initializeLogger(settings)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	logger.Info("-------- new bishline session --------", zap.Strings("args", os.Args))

	var store *history.Store
	if !*noHistory {
		store, err = history.Open(core.HistoryFile())
		if err != nil {
			logger.Warn("persistent history unavailable", zap.Error(err))
			store = nil
		} else {
			defer func() {
				if err := store.Close(); err != nil {
					logger.Warn("failed to close history", zap.Error(err))
				}
			}()
		}
	}

	words := loadCompletionWords(settings.CompletionWords, logger)
	reader, err := readline.New(os.Stdin, os.Stdout, readerOptions(settings, words, logger)...)
	if err != nil {
		return err
	}
	if store != nil {
		n, err := store.LoadInto(reader.History(), settings.HistorySize)
		if err != nil {
			logger.Warn("failed to load history", zap.Error(err))
		}
		logger.Debug("history loaded", zap.Int("entries", n), zap.String("session", store.SessionID()))
	}

	return newSession(reader, store, settings, settingsPath, os.Stdout, logger).run()
}

// loadSettings reads the settings file and applies BISHLINE_* overrides.
// Whatever could be read is returned alongside the error.
func loadSettings(path string) (config.Settings, error) {
	settings, err := config.Load(path)
	envErr := settings.ApplyEnv(os.LookupEnv)
	return settings, errors.Join(err, envErr)
}

func initializeLogger(settings config.Settings) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(settings.LogLevel)
	if err != nil {
		return nil, err
	}
	if BUILD_VERSION == "dev" {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	if archive, err := archiveLog(core.LogFile(), maxLogSize, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to archive log: %v\n", err)
	} else if archive != "" {
		if err := core.RotateLogFiles(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to rotate logs: %v\n", err)
		}
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = level
	loggerConfig.OutputPaths = []string{
		"zstd://" + core.LogFile(),
	}
	loggerConfig.ErrorOutputPaths = []string{"stderr"}
	return loggerConfig.Build()
}

// loadCompletionWords reads the YAML word lists under each directory.
func loadCompletionWords(dirs []string, logger *zap.Logger) []string {
	var words []string
	for _, dir := range dirs {
		loaded, err := completer.LoadWords(os.DirFS(dir))
		if err != nil {
			logger.Warn("failed to load completion words", zap.String("dir", dir), zap.Error(err))
			continue
		}
		words = append(words, loaded...)
	}
	return words
}

func printUsage() {
	fmt.Println(styles.PROMPT("Usage:") + " bishline [flags]")
	fmt.Println("\nAn interactive line editor with emacs and vi key bindings.")
	fmt.Println()
	fmt.Println(styles.PROMPT("Options:"))

	// aliases share a usage string and are printed together
	printed := make(map[string]bool)
	flag.VisitAll(func(f *flag.Flag) {
		if printed[f.Name] {
			return
		}
		aliases := []string{f.Name}
		flag.VisitAll(func(p *flag.Flag) {
			if p.Name != f.Name && p.Usage == f.Usage {
				aliases = append(aliases, p.Name)
				printed[p.Name] = true
			}
		})
		printed[f.Name] = true

		var shortFlags, longFlags []string
		for _, name := range aliases {
			if len(name) == 1 {
				shortFlags = append(shortFlags, "-"+name)
			} else {
				longFlags = append(longFlags, "-"+name)
			}
		}
		flagStr := strings.Join(append(shortFlags, longFlags...), ", ")
		if argName, _ := flag.UnquoteUsage(f); argName != "" {
			flagStr += " <" + argName + ">"
		}
		_, usage := flag.UnquoteUsage(f)
		fmt.Printf("  %-28s %s\n", flagStr, usage)
	})

	fmt.Println()
	fmt.Println(styles.PROMPT("Commands:"))
	for _, c := range metaCommands {
		fmt.Printf("  %-28s %s\n", c.usage, c.help)
	}
}
