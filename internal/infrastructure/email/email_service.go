package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/sportweather/sportweather-api/internal/core/domain/support"
	"github.com/sportweather/sportweather-api/internal/core/ports"
)

// EmailConfig holds email service configuration. An empty SendGridAPIKey
// leaves the service in not-configured mode: sends return
// ports.ErrEmailNotConfigured instead of reaching the provider.
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	SupportEmail   string
	SupportName    string
}

// EmailService dispatches support tickets through SendGrid.
type EmailService struct {
	config *EmailConfig
	logger *logrus.Logger
	client *sendgrid.Client
}

// NewEmailService creates a new email service instance.
func NewEmailService(config *EmailConfig, logger *logrus.Logger) ports.EmailService {
	svc := &EmailService{config: config, logger: logger}
	if config.SendGridAPIKey != "" {
		svc.client = sendgrid.NewSendClient(config.SendGridAPIKey)
	} else if logger != nil {
		logger.Warn("SENDGRID_API_KEY not set - support email dispatch disabled")
	}
	return svc
}

// SendSupportTicket forwards a support ticket to the support inbox. The
// sender's address goes in reply-to so support can answer directly.
func (e *EmailService) SendSupportTicket(ctx context.Context, ticket *support.Ticket) error {
	if e.client == nil {
		return ports.ErrEmailNotConfigured
	}

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	to := mail.NewEmail(e.config.SupportName, e.config.SupportEmail)

	subject := fmt.Sprintf("[Support] %s", ticket.Subject)
	body := fmt.Sprintf("From: %s <%s>\n\n%s", ticket.FromName, ticket.FromEmail, ticket.Message)

	message := mail.NewSingleEmail(from, subject, to, body, "")
	message.SetReplyTo(mail.NewEmail(ticket.FromName, ticket.FromEmail))

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{"from": ticket.FromEmail, "subject": ticket.Subject}).WithError(err).Error("Failed to send support email")
		}
		return fmt.Errorf("failed to send support email: %w", err)
	}
	if response.StatusCode >= 400 {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{"from": ticket.FromEmail, "status_code": response.StatusCode}).Error("Support email rejected by provider")
		}
		return fmt.Errorf("failed to send support email: provider returned status %d", response.StatusCode)
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{"from": ticket.FromEmail, "subject": ticket.Subject, "status_code": response.StatusCode}).Info("Support email sent successfully")
	}
	return nil
}
