package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	impl "github.com/sportweather/sportweather-api/internal/application/services"
	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/infrastructure/repositories"
)

// accessRecordRepoMock is a func-field mock for the record store.
type accessRecordRepoMock struct {
	InsertFn          func(ctx context.Context, rec *quota.AccessRecord) error
	TouchFn           func(ctx context.Context, id uuid.UUID, lastSeen time.Time) error
	FindActiveFn      func(ctx context.Context, keys quota.SubjectKeys, resource string, cutoff time.Time) (*quota.AccessRecord, error)
	ListActiveFn      func(ctx context.Context, keys quota.SubjectKeys, cutoff time.Time, labeled bool) ([]*quota.AccessRecord, error)
	DeleteOlderThanFn func(ctx context.Context, cutoff time.Time) error
}

func (m *accessRecordRepoMock) Insert(ctx context.Context, rec *quota.AccessRecord) error {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, rec)
	}
	return nil
}
func (m *accessRecordRepoMock) Touch(ctx context.Context, id uuid.UUID, lastSeen time.Time) error {
	if m.TouchFn != nil {
		return m.TouchFn(ctx, id, lastSeen)
	}
	return nil
}
func (m *accessRecordRepoMock) FindActive(ctx context.Context, keys quota.SubjectKeys, resource string, cutoff time.Time) (*quota.AccessRecord, error) {
	if m.FindActiveFn != nil {
		return m.FindActiveFn(ctx, keys, resource, cutoff)
	}
	return nil, nil
}
func (m *accessRecordRepoMock) ListActive(ctx context.Context, keys quota.SubjectKeys, cutoff time.Time, labeled bool) ([]*quota.AccessRecord, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx, keys, cutoff, labeled)
	}
	return nil, nil
}
func (m *accessRecordRepoMock) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	if m.DeleteOlderThanFn != nil {
		return m.DeleteOlderThanFn(ctx, cutoff)
	}
	return nil
}

const week = 7 * 24 * time.Hour

func seedRecord(t *testing.T, repo *repositories.MemoryAccessRecordRepository, keys quota.SubjectKeys, resource string, seenAt time.Time) {
	t.Helper()
	rec := &quota.AccessRecord{
		ID:           uuid.New(),
		SubjectID:    keys.SubjectID,
		SubjectEmail: keys.Email,
		Resource:     quota.NormalizeResource(resource),
		OccurredAt:   seenAt,
		LastSeenAt:   seenAt,
	}
	if err := repo.Insert(context.Background(), rec); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}
}

func TestCheck_AllowsUnderCapacity(t *testing.T) {
	repo := repositories.NewMemoryAccessRecordRepository()
	svc := impl.NewAccessLedgerService(repo, nil)
	keys := quota.NewSubjectKeys(uuid.New(), "ana@example.com")
	now := time.Now()

	seedRecord(t, repo, keys, "madrid", now.Add(-time.Hour))
	seedRecord(t, repo, keys, "rome", now.Add(-2*time.Hour))

	d := svc.Check(context.Background(), keys, "lisbon", 7, week)
	if !d.Allowed {
		t.Fatalf("expected allowed under capacity")
	}
	if d.Remaining != 4 {
		t.Fatalf("expected remaining 4 (7 cap - 2 used - this one), got %d", d.Remaining)
	}
	if d.AlreadyCounted {
		t.Fatalf("new resource must not be flagged already counted")
	}
}

func TestCheck_DeniesAtCapacity(t *testing.T) {
	repo := repositories.NewMemoryAccessRecordRepository()
	svc := impl.NewAccessLedgerService(repo, nil)
	keys := quota.NewSubjectKeys(uuid.New(), "ana@example.com")
	now := time.Now()

	oldest := now.Add(-3 * 24 * time.Hour)
	seedRecord(t, repo, keys, "madrid", oldest)
	for i := 0; i < 6; i++ {
		seedRecord(t, repo, keys, fmt.Sprintf("city-%d", i), now.Add(-time.Hour))
	}

	d := svc.Check(context.Background(), keys, "an eighth city", 7, week)
	if d.Allowed {
		t.Fatalf("expected denial at capacity")
	}
	if d.Remaining != 0 {
		t.Fatalf("expected remaining 0 on denial, got %d", d.Remaining)
	}
	if d.ResetAt == nil {
		t.Fatalf("expected a reset estimate on denial")
	}
	wantReset := oldest.Add(week)
	if !d.ResetAt.Equal(wantReset) {
		t.Fatalf("reset should derive from the oldest in-window record: want %v got %v", wantReset, *d.ResetAt)
	}
}

func TestCheck_AlreadyCountedResourceIsFree(t *testing.T) {
	repo := repositories.NewMemoryAccessRecordRepository()
	svc := impl.NewAccessLedgerService(repo, nil)
	keys := quota.NewSubjectKeys(uuid.New(), "ana@example.com")
	now := time.Now()

	// Window full, but "madrid" is one of the counted cities.
	for i := 0; i < 6; i++ {
		seedRecord(t, repo, keys, fmt.Sprintf("city-%d", i), now.Add(-time.Hour))
	}
	seedRecord(t, repo, keys, "madrid", now.Add(-time.Hour))

	d := svc.Check(context.Background(), keys, "Madrid", 7, week)
	if !d.Allowed {
		t.Fatalf("re-access of a counted resource must be allowed even at capacity")
	}
	if !d.AlreadyCounted {
		t.Fatalf("expected already-counted flag")
	}
	if d.Remaining != 7 {
		t.Fatalf("re-access spends no quota, got remaining %d", d.Remaining)
	}
}

func TestCheck_ExpiredRecordsDoNotCount(t *testing.T) {
	repo := repositories.NewMemoryAccessRecordRepository()
	svc := impl.NewAccessLedgerService(repo, nil)
	keys := quota.NewSubjectKeys(uuid.New(), "ana@example.com")
	now := time.Now()

	for i := 0; i < 7; i++ {
		seedRecord(t, repo, keys, fmt.Sprintf("old-city-%d", i), now.Add(-week-time.Minute))
	}

	d := svc.Check(context.Background(), keys, "new city", 7, week)
	if !d.Allowed {
		t.Fatalf("records past the window must not count against the cap")
	}
	if d.Remaining != 6 {
		t.Fatalf("expected remaining 6 with an empty window, got %d", d.Remaining)
	}
}

func TestCheck_SweepsExpiredRecords(t *testing.T) {
	repo := repositories.NewMemoryAccessRecordRepository()
	svc := impl.NewAccessLedgerService(repo, nil)
	keys := quota.NewSubjectKeys(uuid.New(), "ana@example.com")
	otherKeys := quota.EmailOnlyKeys("someone-else@example.com")
	now := time.Now()

	// Expired record belonging to another subject: the sweep is global.
	seedRecord(t, repo, otherKeys, "old", now.Add(-week-time.Hour))

	svc.Check(context.Background(), keys, "city", 7, week)

	left, err := repo.ListActive(context.Background(), otherKeys, now.Add(-365*24*time.Hour), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected expired records swept for all subjects, found %d", len(left))
	}
}

func TestCheck_EitherKeyMatchesSubject(t *testing.T) {
	repo := repositories.NewMemoryAccessRecordRepository()
	svc := impl.NewAccessLedgerService(repo, nil)
	now := time.Now()

	// Consumed under email identity only (e.g. before sign-up).
	seedRecord(t, repo, quota.EmailOnlyKeys("ana@example.com"), "madrid", now.Add(-time.Hour))

	// Checked with both ID and email: the email leg must match.
	keys := quota.NewSubjectKeys(uuid.New(), "Ana@Example.com")
	d := svc.Check(context.Background(), keys, "madrid", 7, week)
	if !d.AlreadyCounted {
		t.Fatalf("record stored under the email key must be attributed to the subject")
	}
}

func TestCheck_FailsOpenOnStorageError(t *testing.T) {
	repo := &accessRecordRepoMock{
		DeleteOlderThanFn: func(ctx context.Context, cutoff time.Time) error { return fmt.Errorf("db down") },
		FindActiveFn: func(ctx context.Context, keys quota.SubjectKeys, resource string, cutoff time.Time) (*quota.AccessRecord, error) {
			return nil, fmt.Errorf("db down")
		},
		ListActiveFn: func(ctx context.Context, keys quota.SubjectKeys, cutoff time.Time, labeled bool) ([]*quota.AccessRecord, error) {
			return nil, fmt.Errorf("db down")
		},
	}
	svc := impl.NewAccessLedgerService(repo, nil)
	keys := quota.NewSubjectKeys(uuid.New(), "ana@example.com")

	d := svc.Check(context.Background(), keys, "madrid", 7, week)
	if !d.Allowed {
		t.Fatalf("storage failure must not block the user")
	}
	if d.Remaining != 7 {
		t.Fatalf("fail-open reports full capacity, got %d", d.Remaining)
	}
}

func TestCheck_ZeroIdentityAllows(t *testing.T) {
	called := false
	repo := &accessRecordRepoMock{
		ListActiveFn: func(ctx context.Context, keys quota.SubjectKeys, cutoff time.Time, labeled bool) ([]*quota.AccessRecord, error) {
			called = true
			return nil, nil
		},
	}
	svc := impl.NewAccessLedgerService(repo, nil)

	d := svc.Check(context.Background(), quota.SubjectKeys{}, "madrid", 7, week)
	if !d.Allowed {
		t.Fatalf("an unidentifiable subject cannot be metered; expected allow")
	}
	if called {
		t.Fatalf("no storage access expected for a zero identity")
	}
}

func TestRecord_RefreshesExistingLabeledRecord(t *testing.T) {
	repo := repositories.NewMemoryAccessRecordRepository()
	svc := impl.NewAccessLedgerService(repo, nil)
	keys := quota.NewSubjectKeys(uuid.New(), "ana@example.com")
	earlier := time.Now().Add(-time.Hour)

	seedRecord(t, repo, keys, "madrid", earlier)

	if err := svc.Record(context.Background(), keys, "Madrid", quota.Metadata{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := repo.ListActive(context.Background(), keys, earlier.Add(-time.Minute), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("re-recording the same city must not duplicate: got %d records", len(records))
	}
	if !records[0].LastSeenAt.After(earlier) {
		t.Fatalf("expected LastSeenAt refreshed beyond %v, got %v", earlier, records[0].LastSeenAt)
	}
}

func TestRecord_UnlabeledEventsAlwaysInsert(t *testing.T) {
	repo := repositories.NewMemoryAccessRecordRepository()
	svc := impl.NewAccessLedgerService(repo, nil)
	keys := quota.EmailOnlyKeys("ana@example.com")

	for i := 0; i < 2; i++ {
		if err := svc.Record(context.Background(), keys, "", quota.Metadata{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := repo.ListActive(context.Background(), keys, time.Now().Add(-time.Hour), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("each unlabeled event is its own record: got %d", len(records))
	}
}

func TestUsage_DistinctVersusTotalCounting(t *testing.T) {
	repo := repositories.NewMemoryAccessRecordRepository()
	svc := impl.NewAccessLedgerService(repo, nil)
	keys := quota.NewSubjectKeys(uuid.New(), "ana@example.com")
	now := time.Now()

	seedRecord(t, repo, keys, "madrid", now.Add(-time.Hour))
	seedRecord(t, repo, keys, "Madrid", now.Add(-2*time.Hour))
	seedRecord(t, repo, keys, "rome", now.Add(-3*time.Hour))
	seedRecord(t, repo, keys, "", now.Add(-time.Hour))

	w, err := svc.Usage(context.Background(), keys, 7, week, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Count != 2 {
		t.Fatalf("distinct mode collapses case-variant duplicates: want 2, got %d", w.Count)
	}

	w, err = svc.Usage(context.Background(), keys, 2, week, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Count != 1 {
		t.Fatalf("total mode counts only unlabeled events: want 1, got %d", w.Count)
	}
}

// The city quota and the message quota share the table but never each
// other's windows: an unlabeled message row is not a phantom city, and city
// rows do not spend the message allowance.
func TestCheck_LabeledAndUnlabeledWindowsAreIndependent(t *testing.T) {
	repo := repositories.NewMemoryAccessRecordRepository()
	svc := impl.NewAccessLedgerService(repo, nil)
	keys := quota.EmailOnlyKeys("ana@example.com")
	now := time.Now()

	seedRecord(t, repo, keys, "", now.Add(-time.Hour))

	d := svc.Check(context.Background(), keys, "madrid", 7, week)
	if !d.Allowed || d.Remaining != 6 {
		t.Fatalf("a recorded message must not count as a city: %+v", d)
	}

	seedRecord(t, repo, keys, "madrid", now.Add(-time.Hour))
	seedRecord(t, repo, keys, "rome", now.Add(-2*time.Hour))

	d = svc.Check(context.Background(), keys, "", 2, week)
	if !d.Allowed || d.Remaining != 0 {
		t.Fatalf("city rows must not spend the message allowance: %+v", d)
	}
}

// Seven distinct cities fill the weekly window; the eighth is refused while a
// repeat of an earlier city stays free.
func TestLedger_WeeklyCityScenario(t *testing.T) {
	repo := repositories.NewMemoryAccessRecordRepository()
	svc := impl.NewAccessLedgerService(repo, nil)
	keys := quota.NewSubjectKeys(uuid.New(), "ana@example.com")
	ctx := context.Background()

	cities := []string{"Madrid", "Rome", "Paris", "Berlin", "Lisbon", "Vienna", "Prague"}
	for _, city := range cities {
		d := svc.Check(ctx, keys, city, 7, week)
		if !d.Allowed {
			t.Fatalf("city %q should fit the window", city)
		}
		if err := svc.Record(ctx, keys, city, quota.Metadata{}); err != nil {
			t.Fatalf("record %q: %v", city, err)
		}
	}

	if d := svc.Check(ctx, keys, "Amsterdam", 7, week); d.Allowed {
		t.Fatalf("eighth distinct city should be refused")
	}
	if d := svc.Check(ctx, keys, "madrid", 7, week); !d.Allowed || !d.AlreadyCounted {
		t.Fatalf("revisiting a counted city stays free: %+v", d)
	}
}
