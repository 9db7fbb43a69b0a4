package ports

import (
	"context"
	"errors"

	"github.com/sportweather/sportweather-api/internal/core/domain/support"
)

// ErrEmailNotConfigured is returned when the email provider credentials are
// missing. Callers treat dispatch as unavailable rather than failing hard.
var ErrEmailNotConfigured = errors.New("email provider not configured")

// EmailService defines the interface for outbound email dispatch.
type EmailService interface {
	SendSupportTicket(ctx context.Context, ticket *support.Ticket) error
}
