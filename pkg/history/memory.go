package history

import (
	"fmt"
	"strings"
)

const DefaultMaxSize = 500

var _ History = (*Memory)(nil)

// Memory is an in-process History bounded to MaxSize entries.
type Memory struct {
	items []string

	maxSize          int
	ignoreDuplicates bool
	autoTrim         bool

	// offset is the absolute index of items[0].
	offset int
	// index is relative to items.
	index int
}

func NewMemory() *Memory {
	return &Memory{
		maxSize:          DefaultMaxSize,
		ignoreDuplicates: true,
	}
}

func (m *Memory) MaxSize() int {
	return m.maxSize
}

// SetMaxSize changes the bound, evicting the oldest entries if needed.
func (m *Memory) SetMaxSize(size int) {
	if size < 1 {
		size = 1
	}
	m.maxSize = size
	m.evict()
	if m.index > len(m.items) {
		m.index = len(m.items)
	}
}

func (m *Memory) IgnoreDuplicates() bool {
	return m.ignoreDuplicates
}

// SetIgnoreDuplicates drops an Add whose line equals the newest entry.
func (m *Memory) SetIgnoreDuplicates(flag bool) {
	m.ignoreDuplicates = flag
}

func (m *Memory) AutoTrim() bool {
	return m.autoTrim
}

// SetAutoTrim trims surrounding whitespace from lines before they are added.
func (m *Memory) SetAutoTrim(flag bool) {
	m.autoTrim = flag
}

func (m *Memory) Len() int {
	return len(m.items)
}

func (m *Memory) IsEmpty() bool {
	return len(m.items) == 0
}

func (m *Memory) Index() int {
	return m.offset + m.index
}

func (m *Memory) First() int {
	return m.offset
}

func (m *Memory) Clear() {
	m.items = nil
	m.offset = 0
	m.index = 0
}

func (m *Memory) relative(index int) (int, bool) {
	i := index - m.offset
	return i, i >= 0 && i < len(m.items)
}

func (m *Memory) Get(index int) string {
	i, ok := m.relative(index)
	if !ok {
		return ""
	}
	return m.items[i]
}

func (m *Memory) Set(index int, line string) {
	if i, ok := m.relative(index); ok {
		m.items[i] = line
	}
}

// Add appends line and moves the cursor past it.
func (m *Memory) Add(line string) {
	if m.autoTrim {
		line = strings.TrimSpace(line)
	}
	if m.ignoreDuplicates && len(m.items) > 0 && m.items[len(m.items)-1] == line {
		m.index = len(m.items)
		return
	}
	m.items = append(m.items, line)
	m.evict()
	m.index = len(m.items)
}

func (m *Memory) evict() {
	for len(m.items) > m.maxSize {
		m.items = m.items[1:]
		m.offset++
		if m.index > 0 {
			m.index--
		}
	}
}

func (m *Memory) Remove(index int) string {
	i, ok := m.relative(index)
	if !ok {
		return ""
	}
	removed := m.items[i]
	m.items = append(m.items[:i], m.items[i+1:]...)
	// the cursor stays on the entry it was on
	if i < m.index {
		m.index--
	}
	if m.index > len(m.items) {
		m.index = len(m.items)
	}
	return removed
}

func (m *Memory) RemoveFirst() string {
	if len(m.items) == 0 {
		return ""
	}
	removed := m.items[0]
	m.items = m.items[1:]
	m.offset++
	if m.index > 0 {
		m.index--
	}
	return removed
}

func (m *Memory) RemoveLast() string {
	if len(m.items) == 0 {
		return ""
	}
	removed := m.items[len(m.items)-1]
	m.items = m.items[:len(m.items)-1]
	if m.index > len(m.items) {
		m.index = len(m.items)
	}
	return removed
}

func (m *Memory) Replace(line string) string {
	removed := m.RemoveLast()
	m.Add(line)
	return removed
}

func (m *Memory) Entries() []Entry {
	entries := make([]Entry, len(m.items))
	for i, item := range m.items {
		entries[i] = Entry{Index: m.offset + i, Value: item}
	}
	return entries
}

func (m *Memory) Current() string {
	if m.index >= len(m.items) {
		return ""
	}
	return m.items[m.index]
}

func (m *Memory) Previous() bool {
	if m.index <= 0 {
		return false
	}
	m.index--
	return true
}

func (m *Memory) Next() bool {
	if m.index >= len(m.items) {
		return false
	}
	m.index++
	return true
}

func (m *Memory) MoveToFirst() bool {
	if len(m.items) > 0 && m.index != 0 {
		m.index = 0
		return true
	}
	return false
}

func (m *Memory) MoveToLast() bool {
	last := len(m.items) - 1
	if last >= 0 && last != m.index {
		m.index = last
		return true
	}
	return false
}

// MoveTo positions the cursor on the absolute index.
func (m *Memory) MoveTo(index int) bool {
	i, ok := m.relative(index)
	if !ok {
		return false
	}
	m.index = i
	return true
}

func (m *Memory) MoveToEnd() {
	m.index = len(m.items)
}

func (m *Memory) String() string {
	var sb strings.Builder
	for _, e := range m.Entries() {
		fmt.Fprintf(&sb, "%d: %s\n", e.Index, e.Value)
	}
	return sb.String()
}
