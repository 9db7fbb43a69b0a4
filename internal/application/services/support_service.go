package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/core/domain/support"
	"github.com/sportweather/sportweather-api/internal/core/ports"
)

// SupportService caps outbound support messages per sender email. Identity is
// email only: an unauthenticated sender is metered the same way. The quota is
// checked strictly before dispatch and recorded strictly after the provider
// accepts the message, so a failed send never spends quota.
type SupportService struct {
	ledger   ports.AccessLedger
	email    ports.EmailService
	capacity int
	period   time.Duration
	logger   *logrus.Logger
	now      func() time.Time
}

// SupportQuotaConfig groups the support message quota parameters.
type SupportQuotaConfig struct {
	Capacity int
	Period   time.Duration
}

func NewSupportService(ledger ports.AccessLedger, email ports.EmailService, cfg *SupportQuotaConfig, logger *logrus.Logger) *SupportService {
	capacity := 2
	period := 7 * 24 * time.Hour
	if cfg != nil {
		if cfg.Capacity > 0 {
			capacity = cfg.Capacity
		}
		if cfg.Period > 0 {
			period = cfg.Period
		}
	}
	return &SupportService{ledger: ledger, email: email, capacity: capacity, period: period, logger: logger, now: time.Now}
}

// CanSend reports whether the sender may submit another support message.
// Message quota counts total sends, not distinct resources, so no resource
// label is passed to the ledger.
func (s *SupportService) CanSend(ctx context.Context, email string) quota.Decision {
	d := s.ledger.Check(ctx, quota.EmailOnlyKeys(email), "", s.capacity, s.period)
	if !d.Allowed {
		days := s.daysUntilReset(d.ResetAt)
		d.Message = fmt.Sprintf("You have reached the limit of %d messages. You can send more in %d %s.",
			s.capacity, days, pluralize(days, "day", "days"))
	}
	return d
}

// Send validates the ticket, checks the quota, dispatches the email and
// records the consumption. Returns support.ErrQuotaExceeded (with the denial
// decision) before the provider is ever invoked when the cap is reached.
func (s *SupportService) Send(ctx context.Context, ticket *support.Ticket) (quota.Decision, error) {
	if err := ticket.Validate(); err != nil {
		return quota.Decision{}, err
	}

	d := s.CanSend(ctx, ticket.FromEmail)
	if !d.Allowed {
		return d, support.ErrQuotaExceeded
	}

	if err := s.email.SendSupportTicket(ctx, ticket); err != nil {
		return d, err
	}

	if err := s.ledger.Record(ctx, quota.EmailOnlyKeys(ticket.FromEmail), "", quota.Metadata{}); err != nil {
		// The message already went out; under-counting is the acceptable side.
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"email": quota.NormalizeEmail(ticket.FromEmail)}).WithError(err).Warn("support: failed to record sent message")
		}
	}
	return d, nil
}

// LimitInfo returns a human-readable summary of the sender's message quota.
func (s *SupportService) LimitInfo(ctx context.Context, email string) string {
	w, err := s.ledger.Usage(ctx, quota.EmailOnlyKeys(email), s.capacity, s.period, false)
	if err != nil {
		return fmt.Sprintf("You can send up to %d messages every %d days.", s.capacity, periodDays(s.period))
	}

	switch {
	case w.Remaining == s.capacity:
		return fmt.Sprintf("You can send up to %d messages every %d days.", s.capacity, periodDays(s.period))
	case w.Remaining > 0:
		return fmt.Sprintf("You have %d %s left in this period.", w.Remaining, pluralize(w.Remaining, "message", "messages"))
	default:
		days := s.daysUntilReset(w.ResetAt)
		return fmt.Sprintf("You have reached the limit of %d messages. You can send more in %d %s.",
			s.capacity, days, pluralize(days, "day", "days"))
	}
}

func (s *SupportService) daysUntilReset(resetAt *time.Time) int {
	if resetAt == nil {
		return periodDays(s.period)
	}
	return quota.DaysUntil(*resetAt, s.now())
}
