package notifier

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"

	"usersvc/pkg/logger"
)

// EmailSender delivers a single email
type EmailSender interface {
	Send(ctx context.Context, to, subject, text string) error
}

// MailgunSender implements EmailSender via Mailgun
type MailgunSender struct {
	domain string
	apiKey string
	sender string
}

// NewMailgunSender creates a Mailgun-backed email sender
func NewMailgunSender(domain, apiKey, sender string) *MailgunSender {
	return &MailgunSender{
		domain: domain,
		apiKey: apiKey,
		sender: sender,
	}
}

// Send sends an email via Mailgun
func (m *MailgunSender) Send(ctx context.Context, to, subject, text string) error {
	client := mg.NewMailgun(m.domain, m.apiKey)
	msg := client.NewMessage(m.sender, subject, text, to)

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, _, err := client.Send(sendCtx, msg)
	return err
}

// EmailService composes and sends lifecycle notification emails
type EmailService struct {
	sender EmailSender
	log    *logger.Logger
}

// NewEmailService creates a new email service
func NewEmailService(sender EmailSender, log *logger.Logger) *EmailService {
	return &EmailService{
		sender: sender,
		log:    log,
	}
}

// SendUserCreated sends a welcome email to a newly created user
func (s *EmailService) SendUserCreated(ctx context.Context, to string) error {
	subject := "Welcome!"
	body := "Hello! Your account has been created successfully."
	return s.send(ctx, to, subject, body)
}

// SendUserDeleted sends an account deletion notice
func (s *EmailService) SendUserDeleted(ctx context.Context, to string) error {
	subject := "Account deleted"
	body := "Hello! Your account has been deleted."
	return s.send(ctx, to, subject, body)
}

func (s *EmailService) send(ctx context.Context, to, subject, body string) error {
	if err := s.sender.Send(ctx, to, subject, body); err != nil {
		s.log.WithContext(ctx).Error("failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	s.log.WithContext(ctx).Info("email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
