package respond

import (
	"sync"

	"github.com/katsuo-ito/slotsync/internal/logger"
	"github.com/katsuo-ito/slotsync/pkg/schedule"
)

// Registry hands out one Session per event page. Sessions do not share
// state with each other; each page owns its state tree exclusively.
type Registry struct {
	log    logger.Logger
	client schedule.Client

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewRegistry creates a session registry backed by the given client.
func NewRegistry(log logger.Logger, client schedule.Client) *Registry {
	return &Registry{
		log:      log,
		client:   client,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for a public ID, creating it on first use.
func (r *Registry) Get(publicID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[publicID]; ok {
		return session
	}
	session := NewSession(r.log, r.client, publicID)
	if !r.closed {
		r.sessions[publicID] = session
	}
	return session
}

// Drop closes and removes the session for a public ID, if present.
func (r *Registry) Drop(publicID string) {
	r.mu.Lock()
	session := r.sessions[publicID]
	delete(r.sessions, publicID)
	r.mu.Unlock()
	if session != nil {
		session.Close()
	}
}

// CloseAll closes every session. The registry hands out only detached
// sessions afterwards.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.closed = true
	r.mu.Unlock()
	for _, session := range sessions {
		session.Close()
	}
}
