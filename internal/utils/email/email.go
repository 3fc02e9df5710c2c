package email

import (
	"fmt"
	"net/smtp"

	"github.com/finbook/finance-service/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Sender) send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, subject)
	return nil
}

// SendRegistrationConfirmation sends the activation link issued at signup.
func (s *Sender) SendRegistrationConfirmation(to, url, firstName string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Thank you for registering. Please confirm your account within 24 hours\n"+
			"by opening the link below:\n\n%s\n"+
			"\nBest regards,\nFinbook",
		firstName, url,
	)
	return s.send(to, "Confirm your registration", body)
}

// SendPasswordReset sends the time-boxed password-reset link.
func (s *Sender) SendPasswordReset(to, url, firstName string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"A password reset was requested for your account. The link below is\n"+
			"valid for one hour:\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.\n"+
			"\nBest regards,\nFinbook",
		firstName, url,
	)
	return s.send(to, "Password reset", body)
}

// SendAccountDeletionConfirmation confirms that the account has been removed.
func (s *Sender) SendAccountDeletionConfirmation(to, firstName string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your account and all associated data have been deleted.\n"+
			"\nBest regards,\nFinbook",
		firstName,
	)
	return s.send(to, "Account deleted", body)
}
