package router

// Entry is a screen on the back stack with the params it was shown with.
type Entry struct {
	Route  Route
	Params Params
}

// Stack is the navigation history.
type Stack struct {
	entries []Entry
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{entries: make([]Entry, 0)}
}

// Push adds an entry on top.
func (s *Stack) Push(route Route, params Params) {
	s.entries = append(s.entries, Entry{Route: route, Params: params})
}

// Pop removes and returns the top entry, or nil when empty.
func (s *Stack) Pop() *Entry {
	if len(s.entries) == 0 {
		return nil
	}
	e := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return &e
}

// Peek returns the top entry without removing it, or nil when empty.
func (s *Stack) Peek() *Entry {
	if len(s.entries) == 0 {
		return nil
	}
	return &s.entries[len(s.entries)-1]
}

// IsEmpty reports whether Back would leave the router.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of screens Back can return to.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Clear drops every entry.
func (s *Stack) Clear() {
	s.entries = s.entries[:0]
}
