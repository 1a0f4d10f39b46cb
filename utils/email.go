package utils

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"go-shop/config"
)

// EmailSender delivers transactional mail. The concrete sender is SendGrid;
// tests substitute their own.
type EmailSender interface {
	SendEmail(to, subject, htmlContent string) error
	SendForgotPasswordEmail(to, resetLink string, expireSeconds int) error
}

// EmailService sends mail through SendGrid.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService builds the SendGrid-backed sender.
func NewEmailService(cfg config.EmailConfig) *EmailService {
	return &EmailService{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		sender: cfg.Sender,
	}
}

// SendEmail sends a single email to the given recipient.
func (es *EmailService) SendEmail(to, subject, htmlContent string) error {
	from := mail.NewEmail("", es.sender)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, htmlContent, htmlContent)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to send email: sendgrid responded %d", resp.StatusCode)
	}
	return nil
}

// SendForgotPasswordEmail sends the reset link produced by forgot-password.
func (es *EmailService) SendForgotPasswordEmail(to, resetLink string, expireSeconds int) error {
	subject := "Reset Your Password"
	htmlContent := fmt.Sprintf(
		"<strong>You requested a password reset.</strong> Click <a href=\"%s\">here</a> to choose a new password. The link expires in %d seconds.",
		resetLink, expireSeconds,
	)
	return es.SendEmail(to, subject, htmlContent)
}
