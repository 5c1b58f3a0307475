// utils/email.go
package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"
)

// EmailService sends transactional emails using Postmark.
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance.
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
	}
}

// SendEmail sends a basic email to the specified recipient.
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendStatusUpdateEmail notifies a customer that their custom cake order
// moved to a new status.
func (es *EmailService) SendStatusUpdateEmail(toEmail, orderID, status string) error {
	subject := "Custom Order Update - Sugarplum Bakes"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your custom cake order (ID: %s) is now <strong>%s</strong>.<br><br>Thank you for baking with us!",
		orderID,
		status,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
