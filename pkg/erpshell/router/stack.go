package router

import "maps"

// Entry is a single back-stack record: a previously visited route and the
// arguments it was shown with. Entries carry no identity beyond their position.
type Entry struct {
	Route string
	Args  map[string]string
}

func (e Entry) clone() Entry {
	return Entry{Route: e.Route, Args: cloneArgs(e.Args)}
}

func cloneArgs(args map[string]string) map[string]string {
	if len(args) == 0 {
		return nil
	}
	return maps.Clone(args)
}

// Stack is the LIFO history used for back navigation.
// It is not safe for concurrent use; Holder guards it.
type Stack struct {
	entries []Entry
}

// NewStack creates a new empty navigation stack.
func NewStack() *Stack {
	return &Stack{
		entries: make([]Entry, 0),
	}
}

// Push adds an entry to the top of the stack.
func (s *Stack) Push(route string, args map[string]string) {
	s.entries = append(s.entries, Entry{
		Route: route,
		Args:  cloneArgs(args),
	})
}

// Pop removes and returns the top entry.
// The boolean is false if the stack is empty.
func (s *Stack) Pop() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	entry := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = Entry{}
	s.entries = s.entries[:len(s.entries)-1]
	return entry, true
}

// Peek returns the top entry without removing it.
func (s *Stack) Peek() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1].clone(), true
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of entries in the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// LastIndex returns the position of the most recent entry for route, or -1.
func (s *Stack) LastIndex(route string) int {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Route == route {
			return i
		}
	}
	return -1
}

// Truncate keeps the first n entries and drops the rest.
func (s *Stack) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(s.entries) {
		return
	}
	clear(s.entries[n:])
	s.entries = s.entries[:n]
}

// Entries returns a copy of the stack, bottom first.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.clone()
	}
	return out
}

// Clear removes all entries from the stack.
func (s *Stack) Clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
}
