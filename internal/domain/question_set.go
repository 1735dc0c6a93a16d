// Package domain contains core domain types for the Poll Agents server.
package domain

import (
	"fmt"
	"time"
)

// QuestionCount is the fixed number of questions in every survey.
const QuestionCount = 3

// QuestionSet is a fixed three-question survey offered to agents.
// Instances are immutable once constructed.
type QuestionSet struct {
	ID        string
	Name      string
	Questions [QuestionCount]string
	CreatedAt time.Time
	Active    bool
}

// NewQuestionSet validates and builds a QuestionSet. It fails unless
// exactly three non-empty questions are supplied.
func NewQuestionSet(id, name string, questions []string, createdAt time.Time, active bool) (*QuestionSet, error) {
	if id == "" {
		return nil, fmt.Errorf("question set id cannot be empty")
	}
	if len(questions) != QuestionCount {
		return nil, fmt.Errorf("question set must have exactly %d questions, got %d", QuestionCount, len(questions))
	}
	qs := &QuestionSet{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt,
		Active:    active,
	}
	for i, q := range questions {
		if q == "" {
			return nil, fmt.Errorf("question %d cannot be empty", i+1)
		}
		qs.Questions[i] = q
	}
	return qs, nil
}
