package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts the environment variables that override the file, e.g.
// BISHLINE_EDITING_MODE=vi.
const EnvPrefix = "BISHLINE_"

var ErrUnknownSetting = errors.New("unknown setting")

// Settings is the content of config.yaml.
type Settings struct {
	EditingMode        string   `yaml:"editing_mode"`
	EscapeTimeoutMs    int      `yaml:"escape_timeout_ms"`
	Bell               bool     `yaml:"bell"`
	HistorySize        int      `yaml:"history_size"`
	HistoryIgnoreDups  bool     `yaml:"history_ignore_dups"`
	ExpandEvents       bool     `yaml:"expand_events"`
	Pagination         bool     `yaml:"pagination"`
	AutoprintThreshold int      `yaml:"autoprint_threshold"`
	Inputrc            string   `yaml:"inputrc,omitempty"`
	LogLevel           string   `yaml:"log_level"`
	CompletionWords    []string `yaml:"completion_words,omitempty"`
}

func Default() Settings {
	return Settings{
		EditingMode:        "emacs",
		EscapeTimeoutMs:    100,
		Bell:               true,
		HistorySize:        500,
		HistoryIgnoreDups:  true,
		ExpandEvents:       true,
		AutoprintThreshold: 100,
		LogLevel:           "info",
	}
}

func (s Settings) EscapeTimeout() time.Duration {
	return time.Duration(s.EscapeTimeoutMs) * time.Millisecond
}

// setting reads and writes one field by its YAML key.
type setting struct {
	get func(s *Settings) string
	set func(s *Settings, value string) error
}

func boolSetting(field func(s *Settings) *bool) setting {
	return setting{
		get: func(s *Settings) string { return strconv.FormatBool(*field(s)) },
		set: func(s *Settings, value string) error {
			b, err := parseBool(value)
			if err != nil {
				return err
			}
			*field(s) = b
			return nil
		},
	}
}

func intSetting(field func(s *Settings) *int) setting {
	return setting{
		get: func(s *Settings) string { return strconv.Itoa(*field(s)) },
		set: func(s *Settings, value string) error {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("%q is not a number", value)
			}
			if n < 0 {
				return fmt.Errorf("%d must not be negative", n)
			}
			*field(s) = n
			return nil
		},
	}
}

var settings = map[string]setting{
	"editing_mode": {
		get: func(s *Settings) string { return s.EditingMode },
		set: func(s *Settings, value string) error {
			value = strings.ToLower(strings.TrimSpace(value))
			if value != "emacs" && value != "vi" {
				return fmt.Errorf("editing mode must be emacs or vi, not %q", value)
			}
			s.EditingMode = value
			return nil
		},
	},
	"escape_timeout_ms":   intSetting(func(s *Settings) *int { return &s.EscapeTimeoutMs }),
	"bell":                boolSetting(func(s *Settings) *bool { return &s.Bell }),
	"history_size":        intSetting(func(s *Settings) *int { return &s.HistorySize }),
	"history_ignore_dups": boolSetting(func(s *Settings) *bool { return &s.HistoryIgnoreDups }),
	"expand_events":       boolSetting(func(s *Settings) *bool { return &s.ExpandEvents }),
	"pagination":          boolSetting(func(s *Settings) *bool { return &s.Pagination }),
	"autoprint_threshold": intSetting(func(s *Settings) *int { return &s.AutoprintThreshold }),
	"inputrc": {
		get: func(s *Settings) string { return s.Inputrc },
		set: func(s *Settings, value string) error {
			s.Inputrc = strings.TrimSpace(value)
			return nil
		},
	},
	"log_level": {
		get: func(s *Settings) string { return s.LogLevel },
		set: func(s *Settings, value string) error {
			if _, err := zapcore.ParseLevel(value); err != nil {
				return err
			}
			s.LogLevel = strings.ToLower(value)
			return nil
		},
	},
	"completion_words": {
		get: func(s *Settings) string { return strings.Join(s.CompletionWords, ",") },
		set: func(s *Settings, value string) error {
			s.CompletionWords = nil
			for _, dir := range strings.Split(value, ",") {
				if dir = strings.TrimSpace(dir); dir != "" {
					s.CompletionWords = append(s.CompletionWords, dir)
				}
			}
			return nil
		},
	},
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", value)
}

// Keys lists the setting names in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Settings) Get(key string) (string, error) {
	st, ok := settings[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return st.get(s), nil
}

// Set validates value and stores it under key.
func (s *Settings) Set(key, value string) error {
	st, ok := settings[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	if err := st.set(s, value); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

// ApplyEnv overrides settings from BISHLINE_* variables. Invalid values
// are collected and returned while the valid ones still apply.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	for _, key := range Keys() {
		value, ok := lookup(EnvPrefix + strings.ToUpper(key))
		if !ok {
			continue
		}
		if err := s.Set(key, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load reads the settings file at path on top of the defaults. A missing
// file is not an error.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, key := range []string{"editing_mode", "log_level"} {
		if err := s.Set(key, settings[key].get(&s)); err != nil {
			return Default(), fmt.Errorf("%s: %w", path, err)
		}
	}
	return s, nil
}

// Save writes s to path. Concurrent writers are serialised through a lock
// file and readers never see a partially written file.
func Save(path string, s Settings) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	lock, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	defer func() {
		_ = unlockFile(lock)
		_ = lock.Close()
	}()
	if err := lockFile(lock); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "config.*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	// persist the rename
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	success = true
	return nil
}
