package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/iliyamo/lab-resource-booking/internal/model"
	"github.com/iliyamo/lab-resource-booking/internal/repository"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

type fakeReservationStore struct {
	reservations []model.Reservation
	err          error
}

func (f *fakeReservationStore) DueBetween(_ context.Context, from, to time.Time) ([]model.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Reservation
	for _, r := range f.reservations {
		if !r.StartTime.Before(from) && r.StartTime.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeLoanStore struct {
	loans  []model.Loan
	dueErr error
	ovdErr error
}

func (f *fakeLoanStore) DueBetween(_ context.Context, from, to time.Time) ([]model.Loan, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	var out []model.Loan
	for _, l := range f.loans {
		if !l.EndTime.Before(from) && l.EndTime.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLoanStore) Overdue(_ context.Context, now time.Time) ([]model.Loan, error) {
	if f.ovdErr != nil {
		return nil, f.ovdErr
	}
	var out []model.Loan
	for _, l := range f.loans {
		if l.EndTime.Before(now) {
			out = append(out, l)
		}
	}
	return out, nil
}

// fakeNotificationStore enforces the dedup key the way the real table's
// unique index does.
type fakeNotificationStore struct {
	rows    map[string]model.Notification
	inserts int
	err     error
	// missExists makes Exists report false even for present rows,
	// forcing dedup onto Create's duplicate error.
	missExists bool
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{rows: make(map[string]model.Notification)}
}

func dedupKey(userID uint64, ntype, stage string, reservationID, loanID *uint64) string {
	k := fmt.Sprintf("%d|%s|%s", userID, ntype, stage)
	if reservationID != nil {
		k += fmt.Sprintf("|r%d", *reservationID)
	}
	if loanID != nil {
		k += fmt.Sprintf("|l%d", *loanID)
	}
	return k
}

func (f *fakeNotificationStore) Exists(_ context.Context, userID uint64, ntype, stage string, reservationID, loanID *uint64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.missExists {
		return false, nil
	}
	_, ok := f.rows[dedupKey(userID, ntype, stage, reservationID, loanID)]
	return ok, nil
}

func (f *fakeNotificationStore) Create(_ context.Context, n *model.Notification) error {
	if f.err != nil {
		return f.err
	}
	k := dedupKey(n.UserID, n.Type, n.Stage, n.ReservationID, n.LoanID)
	if _, ok := f.rows[k]; ok {
		return repository.ErrDuplicateNotification
	}
	f.inserts++
	n.ID = uint64(f.inserts)
	f.rows[k] = *n
	return nil
}

func (f *fakeNotificationStore) byStage(stage string) []model.Notification {
	var out []model.Notification
	for _, n := range f.rows {
		if n.Stage == stage {
			out = append(out, n)
		}
	}
	return out
}

func TestTickEmitsReservationReminders(t *testing.T) {
	now := mustTime(t, "2026-03-01T10:00:00Z")
	reservations := &fakeReservationStore{reservations: []model.Reservation{
		// Starts exactly 24h from now.
		{ID: 1, UserID: 5, StartTime: now.Add(24 * time.Hour), Status: model.ReservationApproved},
		// 30 seconds inside the t-1h tolerance window.
		{ID: 2, UserID: 6, StartTime: now.Add(time.Hour + 30*time.Second), Status: model.ReservationApproved},
		// Well outside every window.
		{ID: 3, UserID: 7, StartTime: now.Add(5 * time.Hour), Status: model.ReservationApproved},
	}}
	notifs := newFakeNotificationStore()
	s := New(reservations, &fakeLoanStore{}, notifs, WithClock(func() time.Time { return now }))

	s.tick(context.Background())

	if notifs.inserts != 2 {
		t.Fatalf("inserts = %d, want 2", notifs.inserts)
	}
	if got := notifs.byStage(model.StageT24h); len(got) != 1 || *got[0].ReservationID != 1 || got[0].UserID != 5 {
		t.Errorf("t-24h notifications = %v, want one for reservation 1", got)
	}
	if got := notifs.byStage(model.StageT1h); len(got) != 1 || *got[0].ReservationID != 2 {
		t.Errorf("t-1h notifications = %v, want one for reservation 2", got)
	}
	for _, n := range notifs.rows {
		if n.Type != model.NotificationReservationAlert {
			t.Errorf("type = %q, want %q", n.Type, model.NotificationReservationAlert)
		}
		if n.LoanID != nil {
			t.Errorf("reservation reminder carries loan id %d", *n.LoanID)
		}
	}
}

func TestTickToleranceWindowBounds(t *testing.T) {
	now := mustTime(t, "2026-03-01T10:00:00Z")
	target := now.Add(time.Hour)
	reservations := &fakeReservationStore{reservations: []model.Reservation{
		{ID: 1, UserID: 1, StartTime: target.Add(-time.Minute)},     // window start, inclusive
		{ID: 2, UserID: 2, StartTime: target.Add(time.Minute)},      // window end, exclusive
		{ID: 3, UserID: 3, StartTime: target.Add(59 * time.Second)}, // just inside
	}}
	notifs := newFakeNotificationStore()
	s := New(reservations, &fakeLoanStore{}, notifs,
		WithClock(func() time.Time { return now }),
		WithStages([]Stage{{Name: model.StageT1h, Ahead: time.Hour}}),
	)

	s.tick(context.Background())

	got := notifs.byStage(model.StageT1h)
	if len(got) != 2 {
		t.Fatalf("notifications = %d, want 2 (reservations 1 and 3)", len(got))
	}
	for _, n := range got {
		if *n.ReservationID == 2 {
			t.Error("reservation at the exclusive window end was notified")
		}
	}
}

func TestTickEmitsLoanRemindersAndOverdue(t *testing.T) {
	now := mustTime(t, "2026-03-01T10:00:00Z")
	loans := &fakeLoanStore{loans: []model.Loan{
		{ID: 1, UserID: 5, EndTime: now.Add(24 * time.Hour), Status: model.LoanPickedUp},
		{ID: 2, UserID: 6, EndTime: now.Add(-2 * time.Hour), Status: model.LoanPickedUp},
	}}
	notifs := newFakeNotificationStore()
	s := New(&fakeReservationStore{}, loans, notifs, WithClock(func() time.Time { return now }))

	s.tick(context.Background())

	if got := notifs.byStage(model.StageT24h); len(got) != 1 || *got[0].LoanID != 1 {
		t.Errorf("t-24h notifications = %v, want one for loan 1", got)
	}
	ovd := notifs.byStage(model.StageOverdue)
	if len(ovd) != 1 || *ovd[0].LoanID != 2 || ovd[0].UserID != 6 {
		t.Fatalf("overdue notifications = %v, want one for loan 2", ovd)
	}
	if ovd[0].Type != model.NotificationLoanAlert {
		t.Errorf("overdue type = %q, want %q", ovd[0].Type, model.NotificationLoanAlert)
	}
}

func TestTickDeduplicatesAcrossTicks(t *testing.T) {
	now := mustTime(t, "2026-03-01T10:00:00Z")
	reservations := &fakeReservationStore{reservations: []model.Reservation{
		{ID: 1, UserID: 5, StartTime: now.Add(time.Hour)},
	}}
	loans := &fakeLoanStore{loans: []model.Loan{
		{ID: 9, UserID: 5, EndTime: now.Add(time.Hour)},
		{ID: 10, UserID: 5, EndTime: now.Add(-time.Hour)},
	}}
	notifs := newFakeNotificationStore()
	s := New(reservations, loans, notifs, WithClock(func() time.Time { return now }))

	s.tick(context.Background())
	first := notifs.inserts
	if first != 3 {
		t.Fatalf("first tick inserts = %d, want 3", first)
	}

	// The same instant again: every entity still matches its window,
	// but every dedup key already exists.
	s.tick(context.Background())
	if notifs.inserts != first {
		t.Fatalf("second tick inserted %d more rows", notifs.inserts-first)
	}
}

func TestTickDedupDistinguishesStages(t *testing.T) {
	start := mustTime(t, "2026-03-02T10:00:00Z")
	reservations := &fakeReservationStore{reservations: []model.Reservation{
		{ID: 1, UserID: 5, StartTime: start},
	}}
	notifs := newFakeNotificationStore()

	// First tick 24 hours ahead, second tick 1 hour ahead. The same
	// reservation must produce a row per stage, not one row total.
	now := start.Add(-24 * time.Hour)
	s := New(reservations, &fakeLoanStore{}, notifs, WithClock(func() time.Time { return now }))
	s.tick(context.Background())

	now = start.Add(-time.Hour)
	s.tick(context.Background())

	if notifs.inserts != 2 {
		t.Fatalf("inserts = %d, want one per stage", notifs.inserts)
	}
	if len(notifs.byStage(model.StageT24h)) != 1 || len(notifs.byStage(model.StageT1h)) != 1 {
		t.Errorf("rows = %v, want one t-24h and one t-1h", notifs.rows)
	}
}

func TestTickCreateRaceTreatedAsDuplicate(t *testing.T) {
	now := mustTime(t, "2026-03-01T10:00:00Z")
	loans := &fakeLoanStore{loans: []model.Loan{
		{ID: 2, UserID: 6, EndTime: now.Add(-time.Hour)},
	}}
	notifs := newFakeNotificationStore()
	// Simulate another writer winning the race between the Exists
	// check and the insert: the dedup lookup misses, but the row is
	// already present when Create hits the unique index.
	notifs.missExists = true
	id := uint64(2)
	pre := model.Notification{UserID: 6, Type: model.NotificationLoanAlert, Stage: model.StageOverdue, LoanID: &id}
	notifs.rows[dedupKey(pre.UserID, pre.Type, pre.Stage, nil, pre.LoanID)] = pre

	published := 0
	s := New(&fakeReservationStore{}, loans, notifs,
		WithClock(func() time.Time { return now }),
		WithPublisher(func(context.Context, model.Notification) { published++ }),
	)
	s.tick(context.Background())

	if notifs.inserts != 0 {
		t.Errorf("inserts = %d, want 0", notifs.inserts)
	}
	if published != 0 {
		t.Errorf("publisher called %d times for a duplicate", published)
	}
}

func TestTickSurvivesStorageErrors(t *testing.T) {
	now := mustTime(t, "2026-03-01T10:00:00Z")
	reservations := &fakeReservationStore{err: errors.New("connection refused")}
	loans := &fakeLoanStore{loans: []model.Loan{
		{ID: 2, UserID: 6, EndTime: now.Add(-time.Hour)},
	}}
	notifs := newFakeNotificationStore()
	s := New(reservations, loans, notifs, WithClock(func() time.Time { return now }))

	// The reservation query fails on both stages, but the loan checks
	// still run within the same tick.
	s.tick(context.Background())

	if len(notifs.byStage(model.StageOverdue)) != 1 {
		t.Fatalf("overdue loan not notified after reservation query failure: %v", notifs.rows)
	}
}

func TestTickPublishesInsertedNotifications(t *testing.T) {
	now := mustTime(t, "2026-03-01T10:00:00Z")
	reservations := &fakeReservationStore{reservations: []model.Reservation{
		{ID: 1, UserID: 5, StartTime: now.Add(time.Hour)},
	}}
	notifs := newFakeNotificationStore()
	var published []model.Notification
	s := New(reservations, &fakeLoanStore{}, notifs,
		WithClock(func() time.Time { return now }),
		WithPublisher(func(_ context.Context, n model.Notification) { published = append(published, n) }),
	)

	s.tick(context.Background())
	s.tick(context.Background())

	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	if published[0].ID == 0 {
		t.Error("published notification has no row id")
	}
}

func TestStartAndStop(t *testing.T) {
	notifs := newFakeNotificationStore()
	s := New(&fakeReservationStore{}, &fakeLoanStore{}, notifs, WithInterval(time.Hour))

	if s.Running() {
		t.Fatal("new scheduler reports running")
	}
	s.Start()
	s.Start() // idempotent
	if !s.Running() {
		t.Fatal("scheduler not running after Start")
	}
	s.Stop()
	if s.Running() {
		t.Fatal("scheduler still running after Stop")
	}
	s.Stop() // no-op

	// A stopped scheduler can be started again.
	s.Start()
	if !s.Running() {
		t.Fatal("scheduler did not restart")
	}
	s.Stop()
}

func TestStagesFromMinutes(t *testing.T) {
	got := StagesFromMinutes([]int{1440, 60, 90, 0, -5})
	want := []Stage{
		{Name: "t-24h", Ahead: 24 * time.Hour},
		{Name: "t-1h", Ahead: time.Hour},
		{Name: "t-90m", Ahead: 90 * time.Minute},
	}
	if len(got) != len(want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stage %d = %v, want %v", i, got[i], want[i])
		}
	}
}
