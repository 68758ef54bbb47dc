// Package history implements the session navigation stack consumed by the
// controllers through nav.HistoryService, plus a file-backed store that
// keeps the stack and the last landing coordinate between runs.
package history

import (
	"sync"

	"github.com/san-kum/gesturenav/internal/geom"
)

// Stack is an in-memory navigation history. The zero value is ready to use.
type Stack struct {
	mu      sync.Mutex
	entries []string
	limit   int
}

func NewStack(limit int) *Stack { return &Stack{limit: limit} }

func (s *Stack) Push(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, label)
	if s.limit > 0 && len(s.entries) > s.limit {
		s.entries = append([]string(nil), s.entries[len(s.entries)-s.limit:]...)
	}
}

func (s *Stack) Pop() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return "", false
	}
	l := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return l, true
}

func (s *Stack) Peek() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return "", false
	}
	return s.entries[len(s.entries)-1], true
}

func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy, oldest first.
func (s *Stack) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.entries...)
}

// Landing is where the glyph was when a navigation left a page; the next
// page uses it to reseed its control point.
type Landing struct {
	From  string    `msgpack:"from" json:"from"`
	Point geom.Vec2 `msgpack:"point" json:"point"`
}
