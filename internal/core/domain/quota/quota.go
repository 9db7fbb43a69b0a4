package quota

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubjectKeys identifies the actor being metered. A subject may be known by
// more than one key (an account ID and an email address); a record matching
// either key is attributed to the subject.
type SubjectKeys struct {
	SubjectID *uuid.UUID
	Email     string
}

// NewSubjectKeys builds keys for an authenticated subject.
func NewSubjectKeys(subjectID uuid.UUID, email string) SubjectKeys {
	return SubjectKeys{SubjectID: &subjectID, Email: NormalizeEmail(email)}
}

// EmailOnlyKeys builds keys for a subject known only by email.
func EmailOnlyKeys(email string) SubjectKeys {
	return SubjectKeys{Email: NormalizeEmail(email)}
}

// IsZero reports whether no identity key is set.
func (k SubjectKeys) IsZero() bool {
	return k.SubjectID == nil && k.Email == ""
}

// NormalizeEmail lower-cases and trims an email so it can serve as a stable key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeResource canonicalizes a resource label. Matching is exact after
// trimming and lower-casing: "Madrid" and "madrid" are the same resource,
// "Madrid, Spain" and "Madrid" are not.
func NormalizeResource(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// AccessRecord is one tracked resource consumption. At most one record exists
// per (subject, resource) pair inside the active window; repeat consumption
// refreshes LastSeenAt instead of inserting a duplicate. Unlabeled records
// (Resource == "") count plain events and are never deduplicated.
type AccessRecord struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	SubjectID    *uuid.UUID `json:"subject_id,omitempty" db:"subject_id"`
	SubjectEmail string     `json:"subject_email" db:"subject_email"`
	Resource     string     `json:"resource" db:"resource"`
	Latitude     *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64   `json:"longitude,omitempty" db:"longitude"`
	OccurredAt   time.Time  `json:"occurred_at" db:"occurred_at"`
	LastSeenAt   time.Time  `json:"last_seen_at" db:"last_seen_at"`
}

// MatchesSubject reports whether the record belongs to the given subject under
// the either-key identity model.
func (r *AccessRecord) MatchesSubject(keys SubjectKeys) bool {
	if keys.SubjectID != nil && r.SubjectID != nil && *keys.SubjectID == *r.SubjectID {
		return true
	}
	return keys.Email != "" && r.SubjectEmail == keys.Email
}

// Metadata carries optional context stored alongside a consumption record.
type Metadata struct {
	Latitude  *float64
	Longitude *float64
}

// Decision is the outcome of a quota check. Denials are decisions, not errors:
// the Message explains the denial so callers can surface it to the user.
type Decision struct {
	Allowed        bool       `json:"allowed"`
	Remaining      int        `json:"remaining"`
	ResetAt        *time.Time `json:"reset_at,omitempty"`
	AlreadyCounted bool       `json:"already_counted,omitempty"`
	Message        string     `json:"message,omitempty"`
}

// Window is the derived usage state for a subject over a rolling period.
type Window struct {
	Count     int        `json:"count"`
	Capacity  int        `json:"capacity"`
	Remaining int        `json:"remaining"`
	ResetAt   *time.Time `json:"reset_at,omitempty"`
}

// DaysUntil returns the number of whole days from now until t, rounding up.
// Used for the human-readable reset estimate; never less than one day.
func DaysUntil(t time.Time, now time.Time) int {
	d := t.Sub(now)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}
