package domain

import (
	"time"
)

// AgentSession holds the conversation state for one live connection.
// It is exclusively owned by the goroutine serving that connection and
// is never persisted or shared; the session registry keeps a reference
// for introspection only and never mutates it.
type AgentSession struct {
	SessionID            string
	State                ConversationState
	Email                string
	VerificationCode     string
	CodeIssuedAt         time.Time
	VerificationAttempts int
	QuestionSet          *QuestionSet
	Answers              map[int]bool
	CreatedAt            time.Time
}

// NewAgentSession creates a fresh session in the welcome state.
func NewAgentSession(sessionID string) *AgentSession {
	return &AgentSession{
		SessionID: sessionID,
		State:     StateWelcome,
		Answers:   make(map[int]bool),
		CreatedAt: time.Now(),
	}
}

// ClearVerification drops the pending code, its issue time, and the
// attempt counter. Called on expiry, lockout, and delivery failure.
func (s *AgentSession) ClearVerification() {
	s.VerificationCode = ""
	s.CodeIssuedAt = time.Time{}
	s.VerificationAttempts = 0
}

// CodeExpired reports whether the pending verification code has passed
// its expiry window at the given instant.
func (s *AgentSession) CodeExpired(now time.Time, expiry time.Duration) bool {
	if s.CodeIssuedAt.IsZero() {
		return false
	}
	return now.After(s.CodeIssuedAt.Add(expiry))
}
