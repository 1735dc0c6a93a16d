package domain

import (
	"fmt"
	"time"
)

// AgentResponse is a completed three-answer survey response. It is
// written to storage exactly once and never updated.
type AgentResponse struct {
	ID            string
	QuestionSetID string
	AgentEmail    string
	Answers       [QuestionCount]bool
	CompletedAt   time.Time
}

// NewAgentResponse validates and builds an AgentResponse. Answers must
// align one-to-one, in order, with the owning QuestionSet's questions.
func NewAgentResponse(id, questionSetID, agentEmail string, answers []bool, completedAt time.Time) (*AgentResponse, error) {
	if id == "" {
		return nil, fmt.Errorf("response id cannot be empty")
	}
	if questionSetID == "" {
		return nil, fmt.Errorf("response question set id cannot be empty")
	}
	if agentEmail == "" {
		return nil, fmt.Errorf("response agent email cannot be empty")
	}
	if len(answers) != QuestionCount {
		return nil, fmt.Errorf("response must have exactly %d answers, got %d", QuestionCount, len(answers))
	}
	r := &AgentResponse{
		ID:            id,
		QuestionSetID: questionSetID,
		AgentEmail:    agentEmail,
		CompletedAt:   completedAt,
	}
	copy(r.Answers[:], answers)
	return r, nil
}
