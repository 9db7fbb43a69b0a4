package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/core/ports"
	"github.com/sportweather/sportweather-api/internal/infrastructure/db"
)

// AccessRecordRepository stores quota consumption records in Postgres. The
// subject match is a single OR-predicate over both identity columns so one
// scan covers the either-key union model. No unique constraint guards the
// (subject, resource) pair: two concurrent checks near the cap can jointly
// exceed it by one, which is the accepted approximation.
type AccessRecordRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewAccessRecordRepository creates a new access record repository.
func NewAccessRecordRepository(database *db.Database, logger *logrus.Logger) ports.AccessRecordRepository {
	return &AccessRecordRepository{
		db:     database,
		logger: logger,
	}
}

// Insert stores a new access record.
func (r *AccessRecordRepository) Insert(ctx context.Context, rec *quota.AccessRecord) error {
	query := `
		INSERT INTO access_records (id, subject_id, subject_email, resource, latitude, longitude, occurred_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.DB.ExecContext(ctx, query,
		rec.ID, rec.SubjectID, rec.SubjectEmail, rec.Resource,
		rec.Latitude, rec.Longitude, rec.OccurredAt, rec.LastSeenAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subject_email": rec.SubjectEmail, "resource": rec.Resource}).WithError(err).Error("db: failed to insert access record")
		}
		return fmt.Errorf("failed to insert access record: %w", err)
	}
	return nil
}

// Touch refreshes the last-seen timestamp of an existing record.
func (r *AccessRecordRepository) Touch(ctx context.Context, id uuid.UUID, lastSeen time.Time) error {
	query := `UPDATE access_records SET last_seen_at = $2 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, lastSeen)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"record_id": id}).WithError(err).Error("db: failed to touch access record")
		}
		return fmt.Errorf("failed to touch access record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("access record %s not found", id)
	}
	return nil
}

// FindActive returns the in-window record for either subject key and the
// resource label, or nil when no such record exists.
func (r *AccessRecordRepository) FindActive(ctx context.Context, keys quota.SubjectKeys, resource string, cutoff time.Time) (*quota.AccessRecord, error) {
	var rec quota.AccessRecord
	query := `
		SELECT id, subject_id, subject_email, resource, latitude, longitude, occurred_at, last_seen_at
		FROM access_records
		WHERE (subject_id = $1 OR subject_email = $2)
		  AND lower(resource) = lower($3)
		  AND last_seen_at >= $4
		LIMIT 1`

	err := r.db.DB.GetContext(ctx, &rec, query, keys.SubjectID, keys.Email, resource, cutoff)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subject_email": keys.Email, "resource": resource}).WithError(err).Error("db: failed to find access record")
		}
		return nil, fmt.Errorf("failed to find access record: %w", err)
	}
	return &rec, nil
}

// ListActive returns all in-window records of one class matching either
// subject key. Labeled records (city rows) and unlabeled event rows (message
// sends) share the table but back independent quotas, so a read never mixes
// the two.
func (r *AccessRecordRepository) ListActive(ctx context.Context, keys quota.SubjectKeys, cutoff time.Time, labeled bool) ([]*quota.AccessRecord, error) {
	classPredicate := `resource <> ''`
	if !labeled {
		classPredicate = `resource = ''`
	}

	var records []*quota.AccessRecord
	query := `
		SELECT id, subject_id, subject_email, resource, latitude, longitude, occurred_at, last_seen_at
		FROM access_records
		WHERE (subject_id = $1 OR subject_email = $2)
		  AND last_seen_at >= $3
		  AND ` + classPredicate + `
		ORDER BY last_seen_at ASC`

	err := r.db.DB.SelectContext(ctx, &records, query, keys.SubjectID, keys.Email, cutoff)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subject_email": keys.Email}).WithError(err).Error("db: failed to list access records")
		}
		return nil, fmt.Errorf("failed to list access records: %w", err)
	}
	return records, nil
}

// DeleteOlderThan removes all records last seen before cutoff. The sweep is
// global by design; deleting already-deleted rows is a no-op, so concurrent
// sweeps need no coordination.
func (r *AccessRecordRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	query := `DELETE FROM access_records WHERE last_seen_at < $1`

	if _, err := r.db.DB.ExecContext(ctx, query, cutoff); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to sweep expired access records")
		}
		return fmt.Errorf("failed to sweep expired access records: %w", err)
	}
	return nil
}
