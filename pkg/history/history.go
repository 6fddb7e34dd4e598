// Package history keeps the lines a reader has accepted and the cursor used
// to walk through them.
package history

import "strings"

// Entry is a history line together with its absolute index.
type Entry struct {
	Index int
	Value string
}

// History is an ordered log of accepted lines with a navigation cursor.
// Indexes passed to Get, Set, Remove and MoveTo are absolute: they keep
// growing when old entries are evicted.
type History interface {
	Len() int
	IsEmpty() bool
	// Index is the absolute position of the navigation cursor. It equals
	// First()+Len() when the cursor is past the newest entry.
	Index() int
	// First is the absolute index of the oldest retained entry.
	First() int
	Clear()

	Get(index int) string
	Set(index int, line string)
	Add(line string)
	Remove(index int) string
	RemoveFirst() string
	RemoveLast() string
	// Replace swaps the newest entry for line and returns the old value.
	Replace(line string) string
	Entries() []Entry

	// Current returns the entry under the cursor, or "" past the end.
	Current() string
	Previous() bool
	Next() bool
	MoveToFirst() bool
	MoveToLast() bool
	MoveTo(index int) bool
	MoveToEnd()
}

func matches(value, term string, startsWith bool) bool {
	if startsWith {
		return strings.HasPrefix(value, term)
	}
	return strings.Contains(value, term)
}

// SearchBackwards returns the absolute index of the newest entry before start
// containing term (or starting with it), or -1.
func SearchBackwards(h History, term string, start int, startsWith bool) int {
	first := h.First()
	if last := first + h.Len(); start > last {
		start = last
	}
	for i := start - 1; i >= first; i-- {
		if matches(h.Get(i), term, startsWith) {
			return i
		}
	}
	return -1
}

// SearchForwards returns the absolute index of the oldest entry at or after
// start containing term (or starting with it), or -1.
func SearchForwards(h History, term string, start int, startsWith bool) int {
	first := h.First()
	if start < first {
		start = first
	}
	for i := start; i < first+h.Len(); i++ {
		if matches(h.Get(i), term, startsWith) {
			return i
		}
	}
	return -1
}
