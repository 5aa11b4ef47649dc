package service

import (
	"context"
	"fmt"

	"fieldops-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// mailSender is the part of the SendGrid client the email service uses.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    mailSender
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid-backed service, or a log-only one when
// apiKey is empty.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		logger.Warn("SendGrid API key not configured, emails will only be logged")
		return logEmailService{}
	}
	return newSendGridEmailService(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func newSendGridEmailService(client mailSender, fromEmail, fromName string) *sendGridEmailService {
	return &sendGridEmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendPasswordReset(ctx context.Context, email, name, resetLink string) error {
	subject := "Reset your FieldOps password"
	plainText := fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new password. The link expires in one hour.\n\n%s\n\nIf you did not ask for this, you can ignore this email.", name, resetLink)
	htmlContent := fmt.Sprintf(`<p>Hello %s,</p>
<p>Use the link below to choose a new password. The link expires in one hour.</p>
<p><a href="%s">Reset password</a></p>
<p>If you did not ask for this, you can ignore this email.</p>`, name, resetLink)

	if err := s.send(ctx, "SendPasswordReset", email, name, subject, plainText, htmlContent); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *sendGridEmailService) SendEmailVerification(ctx context.Context, email, name, verifyLink string) error {
	subject := "Verify your FieldOps email"
	plainText := fmt.Sprintf("Hello %s,\n\nConfirm your email address with the link below. The link expires in 24 hours.\n\n%s", name, verifyLink)
	htmlContent := fmt.Sprintf(`<p>Hello %s,</p>
<p>Confirm your email address with the link below. The link expires in 24 hours.</p>
<p><a href="%s">Verify email</a></p>`, name, verifyLink)

	if err := s.send(ctx, "SendEmailVerification", email, name, subject, plainText, htmlContent); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *sendGridEmailService) send(ctx context.Context, operation, email, name, subject, plainText, htmlContent string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(name, email),
		plainText,
		htmlContent,
	)

	logger.ExternalServiceCall("sendgrid", operation)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", operation, err)
	return err
}

type logEmailService struct{}

func (logEmailService) SendPasswordReset(ctx context.Context, email, name, resetLink string) error {
	// The link is a credential; only its presence is logged.
	logger.Info("Password reset email (not sent, no provider configured)", "to", email, "name", name, "has_link", resetLink != "")
	return nil
}

func (logEmailService) SendEmailVerification(ctx context.Context, email, name, verifyLink string) error {
	logger.Info("Verification email (not sent, no provider configured)", "to", email, "name", name, "has_link", verifyLink != "")
	return nil
}
