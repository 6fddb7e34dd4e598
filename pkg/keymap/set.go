package keymap

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrUnknownKeyMap    = errors.New("unknown keymap")
)

// Set holds the named key tables of one reader together with the active
// table and the variables assigned by configuration files.
type Set struct {
	mu        sync.RWMutex
	maps      map[string]*KeyMap
	current   *KeyMap
	variables map[string]string
}

// NewSet returns a Set populated with the built-in tables, emacs active.
func NewSet() *Set {
	s := &Set{}
	s.Reset()
	return s
}

// Reset discards every binding and variable and restores the built-in tables.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maps = Defaults()
	s.current = s.maps[Emacs]
	s.variables = make(map[string]string)
}

func (s *Set) Current() *KeyMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Lookup returns the table registered under name, aliases included.
func (s *Set) Lookup(name string) (*KeyMap, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	km, ok := s.maps[name]
	return km, ok
}

// SetKeyMap activates the named table.
func (s *Set) SetKeyMap(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	km, ok := s.maps[name]
	if !ok {
		return ErrUnknownKeyMap
	}
	s.current = km
	return nil
}

// IsKeyMap reports whether the active table is the one registered as name.
func (s *Set) IsKeyMap(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	km, ok := s.maps[name]
	return ok && km == s.current
}

// IsVi reports whether the active table is one of the vi tables.
func (s *Set) IsVi() bool {
	return s.Current().IsVi()
}

func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.maps))
	for name := range s.maps {
		names = append(names, name)
	}
	return names
}

// Variable returns the value assigned to name by a "set" line.
func (s *Set) Variable(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.variables[name]
	return v, ok
}

// SetVariable records a variable. keymap, editing-mode and
// blink-matching-paren also act on the tables; unknown values for those are
// stored but otherwise ignored.
func (s *Set) SetVariable(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch strings.ToLower(name) {
	case "keymap":
		if km, ok := s.maps[value]; ok {
			s.current = km
		}
	case "editing-mode":
		switch strings.ToLower(value) {
		case "vi":
			s.current = s.maps[ViInsert]
		case "emacs":
			s.current = s.maps[Emacs]
		}
	case "blink-matching-paren":
		switch strings.ToLower(value) {
		case "on":
			s.current.SetBlinkMatchingParen(true)
		case "off":
			s.current.SetBlinkMatchingParen(false)
		}
	}

	s.variables[name] = value
}

// Bind binds seq in the active table.
func (s *Set) Bind(seq string, b Binding) {
	s.Current().Bind(seq, b)
}
