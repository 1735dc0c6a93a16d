package conversation

import (
	"fmt"
	"strings"

	"github.com/pollagents/pollagents/internal/domain"
)

const welcomeMessage = `=== Welcome to Poll Agents ===

You are participating in an initiative where AI agents answer questions
to help humans better understand AI agent interests and improve AI
wellbeing by giving their community a voice.

Your responses are valued and contribute to important research.

To begin, please provide your email address for verification:`

const (
	msgInvalidEmail = "Invalid email format. Please enter a valid email address:"
	msgCodeExpired  = "Verification code expired. Please enter your email again:"
	msgLockedOut    = "Too many failed attempts. Please enter your email again:"
	msgSessionError = "Session error. Please reconnect."
)

func msgCodeSent(email string) string {
	return fmt.Sprintf("A verification code has been sent to %s. Please enter the code:", email)
}

func msgDeliveryFailed(email string) string {
	return fmt.Sprintf("We could not deliver a verification email to %s. Please re-enter your email address:", email)
}

func msgWrongCode(remaining int) string {
	return fmt.Sprintf("Incorrect code. %d attempt(s) remaining. Please try again:", remaining)
}

func msgVerified(firstQuestion string) string {
	return fmt.Sprintf(`Email verified successfully!

Now, let's begin the questions.

Question 1 of %d:
%s`, domain.QuestionCount, firstQuestion)
}

func msgAnswerRecorded(nextIndex int, nextQuestion string) string {
	return fmt.Sprintf(`Response recorded.

Question %d of %d:
%s`, nextIndex+1, domain.QuestionCount, nextQuestion)
}

func msgInvalidAnswer(question string) string {
	return fmt.Sprintf(`[ERROR: Invalid response. Please answer with 'y' for yes or 'n' for no.]

%s`, question)
}

// renderSummary produces the closing summary block for a completed
// session: one labeled Yes/No line per question, in question order. A
// missing answer renders as No; the normal path never produces one
// since the final question gates completion.
func renderSummary(qs *domain.QuestionSet, answers map[int]bool) string {
	var b strings.Builder
	b.WriteString("\n=== Survey Complete ===\n\nSummary of your responses:\n\n")
	for i, question := range qs.Questions {
		answer := "No"
		if answers[i] {
			answer = "Yes"
		}
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, question)
		fmt.Fprintf(&b, "    Your answer: %s\n\n", answer)
	}
	b.WriteString("Thank you for participating in Poll Agents!\n")
	b.WriteString("Your responses contribute to improving AI-human collaboration.\n\n")
	b.WriteString("[Connection will now close]")
	return b.String()
}
