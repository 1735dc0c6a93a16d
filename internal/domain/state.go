package domain

// ConversationState identifies where a session is in the survey flow.
// Transitions are strictly linear except for the verification resets
// (expiry and lockout), which return the session to StateAwaitingEmail.
type ConversationState int

const (
	StateWelcome ConversationState = iota
	StateAwaitingEmail
	StateAwaitingVerification
	StateAskingQuestion1
	StateAskingQuestion2
	StateAskingQuestion3
	StateCompleted
	// StateDisconnected marks a session torn down by the orchestrator.
	// The state machine itself never enters it.
	StateDisconnected
)

// String returns the state name for logging.
func (s ConversationState) String() string {
	switch s {
	case StateWelcome:
		return "welcome"
	case StateAwaitingEmail:
		return "awaiting_email"
	case StateAwaitingVerification:
		return "awaiting_verification"
	case StateAskingQuestion1:
		return "asking_question_1"
	case StateAskingQuestion2:
		return "asking_question_2"
	case StateAskingQuestion3:
		return "asking_question_3"
	case StateCompleted:
		return "completed"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
