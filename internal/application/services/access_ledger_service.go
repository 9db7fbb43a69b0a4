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

// AccessLedgerService is the sliding-window quota primitive. It tracks
// distinct resource consumption per subject over a rolling period, matching a
// subject by account ID or email (either key suffices). Labeled resources are
// deduplicated: re-consuming an already-counted resource refreshes its
// timestamp instead of spending quota. Unlabeled calls count plain events.
//
// The ledger fails open: when the backing store errors, Check permits the
// action with full capacity and logs the failure. Quota here is a best-effort
// safety net, not a correctness guarantee.
type AccessLedgerService struct {
	repo   ports.AccessRecordRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewAccessLedgerService(repo ports.AccessRecordRepository, logger *logrus.Logger) *AccessLedgerService {
	return &AccessLedgerService{repo: repo, logger: logger, now: time.Now}
}

// Check reports whether the subject may consume one more unit of resource.
// It never records consumption; callers record separately after the guarded
// action succeeds. Every check starts with a global sweep of expired records,
// amortizing cleanup across calls instead of running a background job.
func (s *AccessLedgerService) Check(ctx context.Context, keys quota.SubjectKeys, resource string, capacity int, period time.Duration) quota.Decision {
	if capacity < 1 || period <= 0 || keys.IsZero() {
		return quota.Decision{Allowed: true, Remaining: capacity}
	}

	now := s.now()
	cutoff := now.Add(-period)
	resource = quota.NormalizeResource(resource)

	if err := s.repo.DeleteOlderThan(ctx, cutoff); err != nil {
		// Sweep failure is not fatal; reads below filter by cutoff anyway.
		s.logWarn(keys, err, "ledger: failed to sweep expired records")
	}

	if resource != "" {
		existing, err := s.repo.FindActive(ctx, keys, resource, cutoff)
		if err != nil {
			s.logWarn(keys, err, "ledger: existence check failed; allowing (fail-open)")
			return quota.Decision{Allowed: true, Remaining: capacity}
		}
		if existing != nil {
			// Already counted this period: idempotent, no quota spent.
			return quota.Decision{Allowed: true, Remaining: capacity, AlreadyCounted: true}
		}
	}

	// Only records of the same class count: labeled resources never see the
	// unlabeled event window and vice versa.
	records, err := s.repo.ListActive(ctx, keys, cutoff, resource != "")
	if err != nil {
		s.logWarn(keys, err, "ledger: window read failed; allowing (fail-open)")
		return quota.Decision{Allowed: true, Remaining: capacity}
	}

	count := countUnits(records, resource != "")
	resetAt := oldestReset(records, period)

	if count < capacity {
		return quota.Decision{Allowed: true, Remaining: capacity - count - 1, ResetAt: resetAt}
	}
	return quota.Decision{Allowed: false, Remaining: 0, ResetAt: resetAt}
}

// Record stores that the subject consumed the resource. For labeled resources
// an in-window record is refreshed rather than duplicated; unlabeled events
// always insert. Safe to call without a preceding Check.
func (s *AccessLedgerService) Record(ctx context.Context, keys quota.SubjectKeys, resource string, meta quota.Metadata) error {
	if keys.IsZero() {
		return fmt.Errorf("ledger: subject keys are empty")
	}

	now := s.now()
	resource = quota.NormalizeResource(resource)

	if resource != "" {
		existing, err := s.repo.FindActive(ctx, keys, resource, now.Add(-maxLookback))
		if err == nil && existing != nil {
			if err := s.repo.Touch(ctx, existing.ID, now); err != nil {
				return fmt.Errorf("ledger: failed to refresh record: %w", err)
			}
			return nil
		}
		// On lookup error fall through to insert; a duplicate row is preferable
		// to losing the consumption event.
	}

	rec := &quota.AccessRecord{
		ID:           uuid.New(),
		SubjectID:    keys.SubjectID,
		SubjectEmail: keys.Email,
		Resource:     resource,
		Latitude:     meta.Latitude,
		Longitude:    meta.Longitude,
		OccurredAt:   now,
		LastSeenAt:   now,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return fmt.Errorf("ledger: failed to insert record: %w", err)
	}
	return nil
}

// Usage returns the current window state without deciding anything. distinct
// selects distinct-resource counting over labeled records (cities); false
// counts total events over the unlabeled window (messages).
func (s *AccessLedgerService) Usage(ctx context.Context, keys quota.SubjectKeys, capacity int, period time.Duration, distinct bool) (quota.Window, error) {
	now := s.now()
	cutoff := now.Add(-period)

	records, err := s.repo.ListActive(ctx, keys, cutoff, distinct)
	if err != nil {
		return quota.Window{}, fmt.Errorf("ledger: failed to read window: %w", err)
	}

	count := countUnits(records, distinct)
	remaining := capacity - count
	if remaining < 0 {
		remaining = 0
	}
	return quota.Window{
		Count:     count,
		Capacity:  capacity,
		Remaining: remaining,
		ResetAt:   oldestReset(records, period),
	}, nil
}

// maxLookback bounds the existence scan in Record. Records older than any
// policy period have been swept by preceding checks.
const maxLookback = 30 * 24 * time.Hour

func countUnits(records []*quota.AccessRecord, distinct bool) int {
	if !distinct {
		return len(records)
	}
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[quota.NormalizeResource(r.Resource)] = struct{}{}
	}
	return len(seen)
}

// oldestReset derives when the window frees up: the oldest in-window record's
// LastSeenAt plus the period. Nil when the window is empty.
func oldestReset(records []*quota.AccessRecord, period time.Duration) *time.Time {
	if len(records) == 0 {
		return nil
	}
	oldest := records[0].LastSeenAt
	for _, r := range records[1:] {
		if r.LastSeenAt.Before(oldest) {
			oldest = r.LastSeenAt
		}
	}
	reset := oldest.Add(period)
	return &reset
}

func (s *AccessLedgerService) logWarn(keys quota.SubjectKeys, err error, msg string) {
	if s.logger == nil {
		return
	}
	fields := logrus.Fields{"subject_email": keys.Email}
	if keys.SubjectID != nil {
		fields["subject_id"] = keys.SubjectID.String()
	}
	s.logger.WithFields(fields).WithError(err).Warn(msg)
}
