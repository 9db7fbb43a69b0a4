package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/core/domain/support"
)

// AccessRecordRepository is the storage surface the ledger needs: insert,
// timestamp refresh, range reads by either identity key, and a range delete
// used as the lazy sweep. Implementations must treat "no rows" as a normal
// result, never an error.
type AccessRecordRepository interface {
	// Insert stores a new record with the timestamps already set by the caller.
	Insert(ctx context.Context, rec *quota.AccessRecord) error
	// Touch refreshes LastSeenAt for an existing record.
	Touch(ctx context.Context, id uuid.UUID, lastSeen time.Time) error
	// FindActive returns the record matching either subject key and the
	// resource label (case-insensitive) with LastSeenAt >= cutoff, or nil.
	FindActive(ctx context.Context, keys quota.SubjectKeys, resource string, cutoff time.Time) (*quota.AccessRecord, error)
	// ListActive returns all records matching either subject key with
	// LastSeenAt >= cutoff. labeled selects the record class: true returns
	// only records carrying a resource label, false only unlabeled event
	// records. The two classes back independent quotas and must never be
	// counted together.
	ListActive(ctx context.Context, keys quota.SubjectKeys, cutoff time.Time, labeled bool) ([]*quota.AccessRecord, error)
	// DeleteOlderThan removes every record with LastSeenAt < cutoff. The sweep
	// is global, not scoped to a subject; concurrent sweeps are idempotent.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) error
}

// AccessLedger answers "may subject S consume one more unit of resource R?"
// and records consumption. Checks have no side effects beyond the sweep, so
// callers can check before an expensive downstream call and record only after
// it succeeds. On storage failure the ledger fails open.
type AccessLedger interface {
	Check(ctx context.Context, keys quota.SubjectKeys, resource string, capacity int, period time.Duration) quota.Decision
	Record(ctx context.Context, keys quota.SubjectKeys, resource string, meta quota.Metadata) error
	Usage(ctx context.Context, keys quota.SubjectKeys, capacity int, period time.Duration, distinct bool) (quota.Window, error)
}

// CityAccessService gates location searches behind the distinct-city quota.
type CityAccessService interface {
	CanAccessCity(ctx context.Context, subjectID uuid.UUID, email, cityName string, isCurrentLocation bool) quota.Decision
	RecordCityAccess(ctx context.Context, subjectID uuid.UUID, email, cityName string, lat, lon float64, isCurrentLocation bool) error
	LimitInfo(ctx context.Context, subjectID uuid.UUID, email string) string
}

// SupportService caps outbound support messages per sender email and composes
// the quota check with the email dispatch.
type SupportService interface {
	CanSend(ctx context.Context, email string) quota.Decision
	Send(ctx context.Context, ticket *support.Ticket) (quota.Decision, error)
	LimitInfo(ctx context.Context, email string) string
}
