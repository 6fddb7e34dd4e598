package completer

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// WordEntry is one completion value with an optional description.
type WordEntry struct {
	Value       string `yaml:"value"`
	Description string `yaml:"description"`
}

// WordList is the YAML layout of a completion word file.
type WordList struct {
	Words    []string               `yaml:"words"`
	Commands map[string][]WordEntry `yaml:"commands"`
}

// Flatten returns the plain words, every command name, and each
// "command value" pair.
func (wl WordList) Flatten() []string {
	words := append([]string(nil), wl.Words...)
	for command, entries := range wl.Commands {
		words = append(words, command)
		for _, e := range entries {
			if e.Value != "" {
				words = append(words, command+" "+e.Value)
			}
		}
	}
	return words
}

// Loader reads word lists from the YAML files of a filesystem.
type Loader struct {
	fs fs.FS
}

func NewLoader(filesystem fs.FS) *Loader {
	return &Loader{fs: filesystem}
}

func isYAML(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

// LoadAll merges every YAML file into one sorted, de-duplicated word list.
func (l *Loader) LoadAll() ([]string, error) {
	var words []string

	err := fs.WalkDir(l.fs, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}

		list, err := l.LoadFile(path)
		if err != nil {
			return err
		}
		words = append(words, list.Flatten()...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load words: %w", err)
	}

	words = lo.Uniq(words)
	sort.Strings(words)
	return words, nil
}

// LoadFile parses a single YAML file.
func (l *Loader) LoadFile(path string) (WordList, error) {
	var list WordList
	data, err := fs.ReadFile(l.fs, path)
	if err != nil {
		return list, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &list); err != nil {
		return list, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return list, nil
}

// ListFiles returns the YAML files the loader would read.
func (l *Loader) ListFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(l.fs, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isYAML(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// LoadWords is shorthand for NewLoader(filesystem).LoadAll().
func LoadWords(filesystem fs.FS) ([]string, error) {
	return NewLoader(filesystem).LoadAll()
}
