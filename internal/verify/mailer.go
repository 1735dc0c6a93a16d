package verify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

const verificationSubject = "Poll Agents - Verification Code"

const verificationBody = `Welcome to Poll Agents!

Your verification code is: %s

This code will expire in 5 minutes.

Thank you for participating.
`

// SMTPConfig holds the SMTP connection settings for the mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
	UseTLS   bool
}

// SMTPMailer delivers verification codes over SMTP. All transport
// failures are returned as errors; nothing escapes the boundary.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a mailer from SMTP settings.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendVerificationCode emails a one-time code to the given address.
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Sender); err != nil {
		return fmt.Errorf("set sender address: %w", err)
	}
	if err := msg.To(email); err != nil {
		return fmt.Errorf("set recipient address: %w", err)
	}
	msg.Subject(verificationSubject)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(verificationBody, code))

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	}
	if m.cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	slog.Info("Verification code sent", "email", email)
	return nil
}
