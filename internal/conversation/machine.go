// Package conversation implements the per-session survey state machine.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pollagents/pollagents/internal/domain"
	"github.com/pollagents/pollagents/internal/verify"
)

// maxVerificationAttempts is the cumulative wrong-code limit before the
// session is forced back to email entry.
const maxVerificationAttempts = 3

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	yesNoPattern = regexp.MustCompile(`(?i)^[yn]$`)
)

// Mailer delivers verification codes. Implementations convert every
// transport failure into an error return; nothing panics across the
// boundary.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// ResponseStore is the slice of the storage contract the machine needs.
type ResponseStore interface {
	SaveResponse(ctx context.Context, r *domain.AgentResponse) error
}

// Options tunes verification behavior. The zero value uses defaults.
type Options struct {
	CodeLength int
	CodeExpiry time.Duration
	Now        func() time.Time
}

// Machine drives one session through the survey flow. It is the only
// writer of the bound session; the serving goroutine calls it one
// message at a time, so no locking is involved.
type Machine struct {
	session    *domain.AgentSession
	mailer     Mailer
	store      ResponseStore
	codeLength int
	codeExpiry time.Duration
	now        func() time.Time
}

// New binds a state machine to a session and its collaborators.
func New(session *domain.AgentSession, mailer Mailer, store ResponseStore, opts Options) *Machine {
	if opts.CodeLength <= 0 {
		opts.CodeLength = 6
	}
	if opts.CodeExpiry <= 0 {
		opts.CodeExpiry = 300 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Machine{
		session:    session,
		mailer:     mailer,
		store:      store,
		codeLength: opts.CodeLength,
		codeExpiry: opts.CodeExpiry,
		now:        opts.Now,
	}
}

// Welcome transitions the session out of the welcome state and returns
// the introductory banner. Called exactly once, after the question set
// is bound and before the first read.
func (m *Machine) Welcome() string {
	m.session.State = domain.StateAwaitingEmail
	return welcomeMessage
}

// Advance consumes one line of input and returns the next prompt. An
// empty prompt with a nil error means the session just completed and
// the caller should render the summary. A non-nil error means the
// final save failed; the session has not completed.
func (m *Machine) Advance(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)

	switch m.session.State {
	case domain.StateAwaitingEmail:
		return m.handleEmail(ctx, input), nil
	case domain.StateAwaitingVerification:
		return m.handleVerification(input), nil
	case domain.StateAskingQuestion1:
		return m.handleAnswer(input, 0), nil
	case domain.StateAskingQuestion2:
		return m.handleAnswer(input, 1), nil
	case domain.StateAskingQuestion3:
		return m.handleFinalAnswer(ctx, input)
	case domain.StateWelcome, domain.StateCompleted, domain.StateDisconnected:
		return msgSessionError, nil
	default:
		return msgSessionError, nil
	}
}

// Summary renders the completed session's answers.
func (m *Machine) Summary() string {
	return renderSummary(m.session.QuestionSet, m.session.Answers)
}

func (m *Machine) handleEmail(ctx context.Context, email string) string {
	if !emailPattern.MatchString(email) {
		return msgInvalidEmail
	}

	code, err := verify.GenerateCode(m.codeLength)
	if err != nil {
		slog.Error("Failed to generate verification code", "session_id", m.session.SessionID, "error", err)
		return msgDeliveryFailed(email)
	}

	if err := m.mailer.SendVerificationCode(ctx, email, code); err != nil {
		// Delivery failure keeps the session in email entry; advancing
		// would leave the agent waiting on a code that never arrived.
		slog.Warn("Verification email delivery failed", "session_id", m.session.SessionID, "error", err)
		m.session.ClearVerification()
		return msgDeliveryFailed(email)
	}

	m.session.Email = email
	m.session.VerificationCode = code
	m.session.CodeIssuedAt = m.now()
	m.session.VerificationAttempts = 0
	m.session.State = domain.StateAwaitingVerification
	return msgCodeSent(email)
}

func (m *Machine) handleVerification(code string) string {
	s := m.session

	// Expiry wins over equality: an expired code is rejected even when
	// it matches.
	if s.CodeExpired(m.now(), m.codeExpiry) {
		s.State = domain.StateAwaitingEmail
		s.ClearVerification()
		return msgCodeExpired
	}

	if code == s.VerificationCode {
		s.State = domain.StateAskingQuestion1
		return msgVerified(s.QuestionSet.Questions[0])
	}

	s.VerificationAttempts++
	if s.VerificationAttempts >= maxVerificationAttempts {
		s.State = domain.StateAwaitingEmail
		s.ClearVerification()
		return msgLockedOut
	}
	return msgWrongCode(maxVerificationAttempts - s.VerificationAttempts)
}

func (m *Machine) handleAnswer(answer string, index int) string {
	s := m.session
	if !yesNoPattern.MatchString(answer) {
		return msgInvalidAnswer(s.QuestionSet.Questions[index])
	}

	s.Answers[index] = strings.EqualFold(answer, "y")
	next := index + 1
	if next == 1 {
		s.State = domain.StateAskingQuestion2
	} else {
		s.State = domain.StateAskingQuestion3
	}
	return msgAnswerRecorded(next, s.QuestionSet.Questions[next])
}

func (m *Machine) handleFinalAnswer(ctx context.Context, answer string) (string, error) {
	s := m.session
	lastIndex := domain.QuestionCount - 1
	if !yesNoPattern.MatchString(answer) {
		return msgInvalidAnswer(s.QuestionSet.Questions[lastIndex]), nil
	}

	s.Answers[lastIndex] = strings.EqualFold(answer, "y")

	answers := make([]bool, domain.QuestionCount)
	for i := range answers {
		answers[i] = s.Answers[i]
	}
	response, err := domain.NewAgentResponse(uuid.NewString(), s.QuestionSet.ID, s.Email, answers, m.now())
	if err != nil {
		return "", fmt.Errorf("build response: %w", err)
	}

	// Completion is gated on the durable write: a storage failure must
	// surface to the agent instead of silently losing the response.
	if err := m.store.SaveResponse(ctx, response); err != nil {
		return "", fmt.Errorf("save response: %w", err)
	}

	s.State = domain.StateCompleted
	return "", nil
}
