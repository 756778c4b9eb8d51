// Package mailer delivers password-reset codes over SMTP.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"expensely/internal/config"
)

// Mailer sends one-time codes through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New creates a Mailer from the application configuration.
func New(cfg *config.Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
	}
}

// SendResetCode emails a one-time reset code to the given address.
// Delivery is fire-and-forget from the caller's perspective: it either
// succeeds or fails, there is no retry here.
func (m *Mailer) SendResetCode(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Reset Password Code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your password reset code is %s. It expires in 10 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	return nil
}
