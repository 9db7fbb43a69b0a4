package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/core/ports"
)

// FailoverAccessRecordRepository decorates a primary store with a fallback
// used when the primary errors. The fallback is injectable so tests can
// substitute fakes; the two stores are independent windows, not replicas.
// Wired for the support message ledger, where degraded-mode enforcement
// matters more than exact counts.
type FailoverAccessRecordRepository struct {
	primary  ports.AccessRecordRepository
	fallback ports.AccessRecordRepository
	logger   *logrus.Logger
}

// NewFailoverAccessRecordRepository creates the failover decorator.
func NewFailoverAccessRecordRepository(primary, fallback ports.AccessRecordRepository, logger *logrus.Logger) ports.AccessRecordRepository {
	return &FailoverAccessRecordRepository{primary: primary, fallback: fallback, logger: logger}
}

func (r *FailoverAccessRecordRepository) Insert(ctx context.Context, rec *quota.AccessRecord) error {
	if err := r.primary.Insert(ctx, rec); err != nil {
		r.logFailover(err, "insert")
		return r.fallback.Insert(ctx, rec)
	}
	return nil
}

func (r *FailoverAccessRecordRepository) Touch(ctx context.Context, id uuid.UUID, lastSeen time.Time) error {
	if err := r.primary.Touch(ctx, id, lastSeen); err != nil {
		r.logFailover(err, "touch")
		return r.fallback.Touch(ctx, id, lastSeen)
	}
	return nil
}

func (r *FailoverAccessRecordRepository) FindActive(ctx context.Context, keys quota.SubjectKeys, resource string, cutoff time.Time) (*quota.AccessRecord, error) {
	rec, err := r.primary.FindActive(ctx, keys, resource, cutoff)
	if err != nil {
		r.logFailover(err, "find")
		return r.fallback.FindActive(ctx, keys, resource, cutoff)
	}
	return rec, nil
}

func (r *FailoverAccessRecordRepository) ListActive(ctx context.Context, keys quota.SubjectKeys, cutoff time.Time, labeled bool) ([]*quota.AccessRecord, error) {
	records, err := r.primary.ListActive(ctx, keys, cutoff, labeled)
	if err != nil {
		r.logFailover(err, "list")
		return r.fallback.ListActive(ctx, keys, cutoff, labeled)
	}
	return records, nil
}

func (r *FailoverAccessRecordRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	// Purge both windows; the fallback sweeps its own records even when the
	// primary is healthy.
	err := r.primary.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		r.logFailover(err, "sweep")
	}
	if fbErr := r.fallback.DeleteOlderThan(ctx, cutoff); fbErr != nil {
		return fbErr
	}
	return err
}

func (r *FailoverAccessRecordRepository) logFailover(err error, op string) {
	if r.logger != nil {
		r.logger.WithField("op", op).WithError(err).Warn("access records: primary store failed, using fallback")
	}
}
