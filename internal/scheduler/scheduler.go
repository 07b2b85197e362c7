// Package scheduler implements the background reminder loop. On a
// fixed interval it scans reservations and loans for entries entering
// a reminder stage (24 hours or 1 hour ahead) and loans already past
// their due time, and writes deduplicated notification rows. Delivery
// of those rows to a real channel is external to this service.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/lab-resource-booking/internal/model"
	"github.com/iliyamo/lab-resource-booking/internal/repository"
)

// Stage is a named reminder checkpoint evaluated relative to a
// reservation's start time or a loan's due time. Ahead is how far
// before the event the reminder fires.
type Stage struct {
	Name  string
	Ahead time.Duration
}

// DefaultStages are the reminder checkpoints evaluated on every tick,
// in order: 24 hours ahead, then 1 hour ahead.
var DefaultStages = []Stage{
	{Name: model.StageT24h, Ahead: 24 * time.Hour},
	{Name: model.StageT1h, Ahead: time.Hour},
}

// StagesFromMinutes builds a stage set from minute counts, e.g. from
// configuration. Whole-hour counts are named "t-24h" style so the
// standard 1440/60 configuration reproduces DefaultStages; other
// counts get a minute suffix. Non-positive counts are skipped.
func StagesFromMinutes(mins []int) []Stage {
	var out []Stage
	for _, m := range mins {
		if m <= 0 {
			continue
		}
		name := fmt.Sprintf("t-%dm", m)
		if m%60 == 0 {
			name = fmt.Sprintf("t-%dh", m/60)
		}
		out = append(out, Stage{Name: name, Ahead: time.Duration(m) * time.Minute})
	}
	return out
}

// DefaultInterval is the polling cadence between ticks.
const DefaultInterval = 60 * time.Second

// DefaultWindow is the tolerance applied around now+ahead when
// matching event times: an event qualifies for a stage when it falls
// inside [target-window, target+window).
const DefaultWindow = time.Minute

// ReservationStore supplies reservations entering a reminder window.
// Implemented by repository.ReservationRepo.
type ReservationStore interface {
	DueBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error)
}

// LoanStore supplies loans entering a reminder window and loans past
// their due time. Implemented by repository.LoanRepo.
type LoanStore interface {
	DueBetween(ctx context.Context, from, to time.Time) ([]model.Loan, error)
	Overdue(ctx context.Context, now time.Time) ([]model.Loan, error)
}

// NotificationStore is the dedup-aware sink for notification rows.
// Create must return repository.ErrDuplicateNotification when the
// dedup key is already present. Implemented by
// repository.NotificationRepo.
type NotificationStore interface {
	Exists(ctx context.Context, userID uint64, ntype, stage string, reservationID, loanID *uint64) (bool, error)
	Create(ctx context.Context, n *model.Notification) error
}

// Publisher is called after a notification row is successfully
// inserted, e.g. to announce it on the message broker. Publish
// failures must not affect the tick; implementations log and move on.
type Publisher func(ctx context.Context, n model.Notification)

// Scheduler owns the recurring reminder loop. It has two states,
// stopped and running; Start is idempotent and Stop prevents future
// ticks while letting an in-flight tick finish. All ticks run on a
// single goroutine, so two ticks can never interleave their
// check-then-insert sequences.
type Scheduler struct {
	reservations  ReservationStore
	loans         LoanStore
	notifications NotificationStore
	publish       Publisher

	interval time.Duration
	window   time.Duration
	stages   []Stage
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Option tweaks a Scheduler at construction time.
type Option func(*Scheduler)

// WithInterval overrides the polling cadence.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithWindow overrides the reminder tolerance window.
func WithWindow(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithStages overrides the reminder stage set.
func WithStages(stages []Stage) Option {
	return func(s *Scheduler) {
		if len(stages) > 0 {
			s.stages = stages
		}
	}
}

// WithClock injects the time source. Tests use this to freeze the
// tick's single "now" sample.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPublisher sets the post-insert event hook.
func WithPublisher(p Publisher) Option {
	return func(s *Scheduler) { s.publish = p }
}

// New constructs a stopped Scheduler with the default interval,
// window and stages unless overridden by options.
func New(reservations ReservationStore, loans LoanStore, notifications NotificationStore, opts ...Option) *Scheduler {
	s := &Scheduler{
		reservations:  reservations,
		loans:         loans,
		notifications: notifications,
		interval:      DefaultInterval,
		window:        DefaultWindow,
		stages:        DefaultStages,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the reminder loop: an immediate first tick, then one
// tick per interval. Calling Start while already running is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.run(s.stopCh, s.doneCh)
}

// Stop cancels future ticks and waits for an in-flight tick to
// finish. Calling Stop while already stopped is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()
	<-done
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ctx := context.Background()
	s.tick(ctx)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

// tick runs one full evaluation pass. "Now" is sampled exactly once
// so every stage window in the pass is computed against the same
// instant. Each phase is independent: a storage error is logged and
// the pass moves on, and nothing a tick does can stop the next one.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now().UTC()

	for _, stage := range s.stages {
		target := now.Add(stage.Ahead)
		from, to := target.Add(-s.window), target.Add(s.window)

		reservations, err := s.reservations.DueBetween(ctx, from, to)
		if err != nil {
			log.Printf("reminder-scheduler: reservation query failed (stage=%s): %v", stage.Name, err)
		} else {
			for _, r := range reservations {
				s.emit(ctx, reservationReminder(r, stage))
			}
		}

		loans, err := s.loans.DueBetween(ctx, from, to)
		if err != nil {
			log.Printf("reminder-scheduler: loan query failed (stage=%s): %v", stage.Name, err)
		} else {
			for _, l := range loans {
				s.emit(ctx, loanReminder(l, stage.Name))
			}
		}
	}

	overdue, err := s.loans.Overdue(ctx, now)
	if err != nil {
		log.Printf("reminder-scheduler: overdue query failed: %v", err)
		return
	}
	for _, l := range overdue {
		s.emit(ctx, loanOverdue(l))
	}
}

// emit inserts a notification unless one with the same dedup key
// already exists. The Exists check keeps the common path cheap; the
// unique index behind Create is the backstop when another writer wins
// the race between check and insert.
func (s *Scheduler) emit(ctx context.Context, n model.Notification) {
	found, err := s.notifications.Exists(ctx, n.UserID, n.Type, n.Stage, n.ReservationID, n.LoanID)
	if err != nil {
		log.Printf("reminder-scheduler: dedup lookup failed (type=%s stage=%s user=%d): %v", n.Type, n.Stage, n.UserID, err)
		return
	}
	if found {
		return
	}
	if err := s.notifications.Create(ctx, &n); err != nil {
		if errors.Is(err, repository.ErrDuplicateNotification) {
			return
		}
		log.Printf("reminder-scheduler: insert failed (type=%s stage=%s user=%d): %v", n.Type, n.Stage, n.UserID, err)
		return
	}
	log.Printf("reminder-scheduler: notified user=%d type=%s stage=%s", n.UserID, n.Type, n.Stage)
	if s.publish != nil {
		s.publish(ctx, n)
	}
}

func reservationReminder(r model.Reservation, stage Stage) model.Notification {
	id := r.ID
	return model.Notification{
		UserID:        r.UserID,
		Type:          model.NotificationReservationAlert,
		Title:         "Upcoming reservation",
		Message:       fmt.Sprintf("Your reservation #%d starts at %s.", r.ID, r.StartTime.UTC().Format(time.RFC3339)),
		Stage:         stage.Name,
		ReservationID: &id,
	}
}

func loanReminder(l model.Loan, stage string) model.Notification {
	id := l.ID
	return model.Notification{
		UserID:  l.UserID,
		Type:    model.NotificationLoanAlert,
		Title:   "Loan due soon",
		Message: fmt.Sprintf("The item on loan #%d is due back at %s.", l.ID, l.EndTime.UTC().Format(time.RFC3339)),
		Stage:   stage,
		LoanID:  &id,
	}
}

func loanOverdue(l model.Loan) model.Notification {
	id := l.ID
	return model.Notification{
		UserID:  l.UserID,
		Type:    model.NotificationLoanAlert,
		Title:   "Loan overdue",
		Message: fmt.Sprintf("The item on loan #%d was due back at %s and has not been returned.", l.ID, l.EndTime.UTC().Format(time.RFC3339)),
		Stage:   model.StageOverdue,
		LoanID:  &id,
	}
}
