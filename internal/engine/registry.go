package engine

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionActive is returned when a student tries to start a new attempt
// while another one is still in progress.
var ErrSessionActive = errors.New("another attempt is already in progress")

// Registry tracks at most one live session per student. Completed sessions
// stay registered (for result/review access) until replaced or removed;
// expelled and abandoned sessions are dropped immediately.
type Registry struct {
	mu     sync.RWMutex
	byUser map[int]*Session
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[int]*Session)}
}

// Get returns the student's current session, if any.
func (r *Registry) Get(userID int) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byUser[userID]
	return s, ok
}

// Put registers a session for its owner. An ACTIVE existing session blocks
// the replacement; a finished one (result/review) is silently superseded,
// which is how retakes start over.
func (r *Registry) Put(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byUser[s.UserID()]; ok && existing.State() == StateActive {
		return ErrSessionActive
	}
	r.byUser[s.UserID()] = s
	return nil
}

// Remove drops the student's session if it is still the given one. The
// session ID check keeps a stale goroutine from removing a newer attempt.
func (r *Registry) Remove(userID int, sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byUser[userID]; ok && existing.ID() == sessionID {
		delete(r.byUser, userID)
	}
}
