package store

import (
	"log/slog"
	"strings"

	"github.com/pollagents/pollagents/internal/domain"
)

// logResponseRecorded echoes a human-readable record of a saved
// response to the operational log. Both backends call it after a
// successful write.
func logResponseRecorded(r *domain.AgentResponse) {
	answers := make([]string, domain.QuestionCount)
	for i, a := range r.Answers {
		if a {
			answers[i] = "Yes"
		} else {
			answers[i] = "No"
		}
	}
	slog.Info("New agent response recorded",
		"email", r.AgentEmail,
		"question_set_id", r.QuestionSetID,
		"answers", strings.Join(answers, ", "),
		"completed_at", r.CompletedAt.Format("2006-01-02 15:04:05"))
}
