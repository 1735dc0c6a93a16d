// Package store provides survey persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/pollagents/pollagents/internal/domain"
)

// Repository defines the storage contract for question sets and
// completed responses. Two interchangeable backends implement it: a
// SQLite database and a flat JSON file store. The backend is selected
// once at startup; the core never branches on the concrete type.
type Repository interface {
	// GetActiveQuestionSet returns the most recently created active
	// question set, or nil if none exists.
	GetActiveQuestionSet(ctx context.Context) (*domain.QuestionSet, error)

	// GetQuestionSet returns a question set by ID, or nil if absent.
	GetQuestionSet(ctx context.Context, id string) (*domain.QuestionSet, error)

	// CreateQuestionSet stores a new question set.
	CreateQuestionSet(ctx context.Context, qs *domain.QuestionSet) error

	// ListQuestionSets returns all question sets, newest first.
	ListQuestionSets(ctx context.Context) ([]*domain.QuestionSet, error)

	// SaveResponse stores a completed response. Implementations echo a
	// human-readable record to the operational log as a side effect.
	SaveResponse(ctx context.Context, r *domain.AgentResponse) error

	// GetResponsesByEmail returns all responses submitted by an agent.
	GetResponsesByEmail(ctx context.Context, email string) ([]*domain.AgentResponse, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
