package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/core/ports"
)

// MemoryAccessRecordRepository is the in-process fallback store used when the
// primary backend is unreachable. It applies the same sliding-window purge
// independently, so the cap stays approximately enforced in degraded mode. It
// is not a replica: counts can diverge from the primary once it recovers.
type MemoryAccessRecordRepository struct {
	mu      sync.Mutex
	records []*quota.AccessRecord
}

// NewMemoryAccessRecordRepository creates an empty in-memory store.
func NewMemoryAccessRecordRepository() *MemoryAccessRecordRepository {
	return &MemoryAccessRecordRepository{}
}

var _ ports.AccessRecordRepository = (*MemoryAccessRecordRepository)(nil)

// Insert stores a copy of the record.
func (r *MemoryAccessRecordRepository) Insert(ctx context.Context, rec *quota.AccessRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

// Touch refreshes the last-seen timestamp of an existing record.
func (r *MemoryAccessRecordRepository) Touch(ctx context.Context, id uuid.UUID, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.ID == id {
			rec.LastSeenAt = lastSeen
			return nil
		}
	}
	return fmt.Errorf("access record %s not found", id)
}

// FindActive returns the in-window record for either subject key and the
// resource label, or nil.
func (r *MemoryAccessRecordRepository) FindActive(ctx context.Context, keys quota.SubjectKeys, resource string, cutoff time.Time) (*quota.AccessRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	resource = quota.NormalizeResource(resource)
	for _, rec := range r.records {
		if rec.LastSeenAt.Before(cutoff) {
			continue
		}
		if !rec.MatchesSubject(keys) {
			continue
		}
		if quota.NormalizeResource(rec.Resource) == resource {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

// ListActive returns all in-window records of one class matching either
// subject key. Labeled and unlabeled records back independent quotas and are
// never mixed in one read.
func (r *MemoryAccessRecordRepository) ListActive(ctx context.Context, keys quota.SubjectKeys, cutoff time.Time, labeled bool) ([]*quota.AccessRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*quota.AccessRecord
	for _, rec := range r.records {
		if rec.LastSeenAt.Before(cutoff) {
			continue
		}
		if (rec.Resource != "") != labeled {
			continue
		}
		if rec.MatchesSubject(keys) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

// DeleteOlderThan drops all records last seen before cutoff.
func (r *MemoryAccessRecordRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0]
	for _, rec := range r.records {
		if !rec.LastSeenAt.Before(cutoff) {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}
