// Package server bridges WebSocket connections to the survey state machine.
package server

import (
	"log/slog"
	"sync"

	"github.com/pollagents/pollagents/internal/domain"
)

// Registry tracks the live session behind each connection. Entries are
// inserted on connect and removed on disconnect; it exists for
// observability only and never mutates a session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*domain.AgentSession
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*domain.AgentSession),
	}
}

// Add registers a session under its identifier.
func (r *Registry) Add(session *domain.AgentSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.SessionID] = session
	slog.Info("Session registered", "session_id", session.SessionID)
}

// Remove evicts a session. Safe to call for an already-removed entry.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; ok {
		delete(r.sessions, sessionID)
		slog.Info("Session unregistered", "session_id", sessionID)
	}
}

// Get returns the session for an identifier, or nil. The caller must
// treat the result as read-only; the serving goroutine owns it.
func (r *Registry) Get(sessionID string) *domain.AgentSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[sessionID]
}

// Count reports the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
