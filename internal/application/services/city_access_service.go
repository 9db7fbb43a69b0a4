package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/core/ports"
)

// CityAccessService enforces "N distinct cities per rolling period" on
// location lookups. The user's own detected location is always free and never
// recorded; only user-chosen exploration spends quota.
type CityAccessService struct {
	ledger   ports.AccessLedger
	capacity int
	period   time.Duration
	logger   *logrus.Logger
	now      func() time.Time
}

// CityQuotaConfig groups the city quota parameters.
type CityQuotaConfig struct {
	Capacity int
	Period   time.Duration
}

func NewCityAccessService(ledger ports.AccessLedger, cfg *CityQuotaConfig, logger *logrus.Logger) *CityAccessService {
	capacity := 7
	period := 7 * 24 * time.Hour
	if cfg != nil {
		if cfg.Capacity > 0 {
			capacity = cfg.Capacity
		}
		if cfg.Period > 0 {
			period = cfg.Period
		}
	}
	return &CityAccessService{ledger: ledger, capacity: capacity, period: period, logger: logger, now: time.Now}
}

// CanAccessCity decides whether a city lookup may proceed to a forecast fetch.
func (s *CityAccessService) CanAccessCity(ctx context.Context, subjectID uuid.UUID, email, cityName string, isCurrentLocation bool) quota.Decision {
	if isCurrentLocation {
		return quota.Decision{Allowed: true, Remaining: s.capacity}
	}

	keys := quota.NewSubjectKeys(subjectID, email)
	d := s.ledger.Check(ctx, keys, cityName, s.capacity, s.period)

	switch {
	case d.Allowed && d.AlreadyCounted:
		d.Message = "City already queried this week"
	case d.Allowed:
		d.Message = fmt.Sprintf("You have %d new %s left this week", d.Remaining, pluralize(d.Remaining, "city", "cities"))
	default:
		days := s.daysUntilReset(d.ResetAt)
		d.Message = fmt.Sprintf("You have reached the limit of %d cities. You can explore more in %d %s.",
			s.capacity, days, pluralize(days, "day", "days"))
	}
	return d
}

// RecordCityAccess stores a successful city lookup. Current-location lookups
// are never recorded. Callers invoke this only after CanAccessCity allowed the
// lookup and the forecast fetch succeeded.
func (s *CityAccessService) RecordCityAccess(ctx context.Context, subjectID uuid.UUID, email, cityName string, lat, lon float64, isCurrentLocation bool) error {
	if isCurrentLocation {
		return nil
	}

	keys := quota.NewSubjectKeys(subjectID, email)
	meta := quota.Metadata{Latitude: &lat, Longitude: &lon}
	if err := s.ledger.Record(ctx, keys, cityName, meta); err != nil {
		// Losing one record loosens the cap slightly; not worth failing the lookup.
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"subject_id": subjectID, "city": cityName}).WithError(err).Warn("city access: failed to record lookup")
		}
		return err
	}
	return nil
}

// LimitInfo returns a human-readable summary of the subject's city quota.
func (s *CityAccessService) LimitInfo(ctx context.Context, subjectID uuid.UUID, email string) string {
	keys := quota.NewSubjectKeys(subjectID, email)
	w, err := s.ledger.Usage(ctx, keys, s.capacity, s.period, true)
	if err != nil {
		return fmt.Sprintf("You can explore up to %d different cities every %d days.", s.capacity, periodDays(s.period))
	}

	switch {
	case w.Remaining == s.capacity:
		return fmt.Sprintf("You can explore up to %d different cities every %d days.", s.capacity, periodDays(s.period))
	case w.Remaining > 0:
		return fmt.Sprintf("You have %d new %s available this week.", w.Remaining, pluralize(w.Remaining, "city", "cities"))
	default:
		days := s.daysUntilReset(w.ResetAt)
		return fmt.Sprintf("You have reached the limit of %d cities. You can explore more in %d %s.",
			s.capacity, days, pluralize(days, "day", "days"))
	}
}

func (s *CityAccessService) daysUntilReset(resetAt *time.Time) int {
	if resetAt == nil {
		return periodDays(s.period)
	}
	return quota.DaysUntil(*resetAt, s.now())
}

func periodDays(period time.Duration) int {
	days := int(period / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return days
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
