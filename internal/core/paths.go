package core

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	appName     = "bishline"
	maxLogFiles = 10
)

// Paths holds the locations bishline reads and writes. They are resolved
// once, on first use.
type Paths struct {
	HomeDir     string
	DataDir     string
	ConfigDir   string
	LogFile     string
	HistoryFile string
	ConfigFile  string
	InputrcFile string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths != nil {
		return
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	defaultPaths = newPaths(homeDir, os.Getenv("XDG_CONFIG_HOME"), os.Getenv("INPUTRC"))

	if err := os.MkdirAll(defaultPaths.DataDir, 0755); err != nil {
		panic(err)
	}
}

func newPaths(homeDir, configHome, inputrc string) *Paths {
	dataDir := filepath.Join(homeDir, ".local", "share", appName)
	if configHome == "" {
		configHome = filepath.Join(homeDir, ".config")
	}
	configDir := filepath.Join(configHome, appName)
	if inputrc == "" {
		inputrc = filepath.Join(homeDir, ".inputrc")
	}
	return &Paths{
		HomeDir:     homeDir,
		DataDir:     dataDir,
		ConfigDir:   configDir,
		LogFile:     filepath.Join(dataDir, appName+".zst"),
		HistoryFile: filepath.Join(dataDir, "history.db"),
		ConfigFile:  filepath.Join(configDir, "config.yaml"),
		InputrcFile: inputrc,
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func HistoryFile() string {
	ensureDefaultPaths()
	return defaultPaths.HistoryFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

// InputrcFile is $INPUTRC when set, otherwise ~/.inputrc.
func InputrcFile() string {
	ensureDefaultPaths()
	return defaultPaths.InputrcFile
}

type logFileInfo struct {
	path    string
	modTime time.Time
}

// isLogFile matches bishline.zst and bishline.<anything>.zst.
func isLogFile(name string) bool {
	return strings.HasPrefix(name, appName+".") && strings.HasSuffix(name, ".zst")
}

func logFiles() ([]logFileInfo, error) {
	entries, err := os.ReadDir(defaultPaths.DataDir)
	if err != nil {
		return nil, err
	}
	entries = lo.Filter(entries, func(entry fs.DirEntry, _ int) bool {
		return !entry.IsDir() && isLogFile(entry.Name())
	})
	return lo.FilterMap(entries, func(entry fs.DirEntry, _ int) (logFileInfo, bool) {
		info, err := entry.Info()
		if err != nil {
			return logFileInfo{}, false
		}
		return logFileInfo{
			path:    filepath.Join(defaultPaths.DataDir, entry.Name()),
			modTime: info.ModTime(),
		}, true
	}), nil
}

func CleanLogFiles() error {
	ensureDefaultPaths()

	files, err := logFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f.path); err != nil {
			return err
		}
	}
	return nil
}

// RotateLogFiles removes all but the 10 most recently modified log files.
// It runs whenever a new log sink is opened.
func RotateLogFiles() error {
	ensureDefaultPaths()

	files, err := logFiles()
	if err != nil {
		return err
	}
	if len(files) <= maxLogFiles {
		return nil
	}

	// newest first
	slices.SortFunc(files, func(a, b logFileInfo) int {
		return b.modTime.Compare(a.modTime)
	})
	for _, f := range files[maxLogFiles:] {
		if err := os.Remove(f.path); err != nil {
			return err
		}
	}
	return nil
}
