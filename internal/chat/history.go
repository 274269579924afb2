// Package chat keeps per-user chat history for the AI expense entry
// surface. History lives in memory for the lifetime of the process,
// matching the session semantics of a logged-in browser session; it is
// intentionally not persisted.
package chat

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of entries kept per user; the oldest
// entry is evicted first once the cap is reached.
const DefaultCapacity = 50

// Role identifies who produced a chat entry.
type Role string

const (
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

// ExpenseRef describes an expense created by a submission, for display
// alongside the system response.
type ExpenseRef struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Category     string `json:"category,omitempty"`
	CategoryIcon string `json:"category_icon,omitempty"`
	Group        string `json:"group,omitempty"`
}

// Entry is one message in the chat log.
type Entry struct {
	Role      Role         `json:"role"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Expenses  []ExpenseRef `json:"expenses,omitempty"`
	IsError   bool         `json:"is_error,omitempty"`
}

// history is a capacity-bounded append-only log. Eviction is
// oldest-first. Not safe for concurrent use; Store holds the lock.
type history struct {
	capacity int
	entries  []Entry
}

func (h *history) append(e Entry) {
	h.entries = append(h.entries, e)
	if len(h.entries) > h.capacity {
		// Drop the oldest entries; copy so the backing array does not
		// pin evicted entries.
		kept := make([]Entry, h.capacity)
		copy(kept, h.entries[len(h.entries)-h.capacity:])
		h.entries = kept
	}
}

// Store holds a bounded history per user.
type Store struct {
	mu       sync.Mutex
	capacity int
	byUser   map[string]*history
}

// NewStore creates a Store with the given per-user capacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		byUser:   make(map[string]*history),
	}
}

// Append adds an entry to the user's history, evicting the oldest
// entry when the capacity is exceeded.
func (s *Store) Append(userID string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.byUser[userID]
	if !ok {
		h = &history{capacity: s.capacity}
		s.byUser[userID] = h
	}
	h.append(e)
}

// Entries returns a copy of the user's history, oldest first.
func (s *Store) Entries(userID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.byUser[userID]
	if !ok {
		return []Entry{}
	}
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear removes the user's history.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
}
