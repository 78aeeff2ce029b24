// Package notify fires one-shot notifications at a given time and
// delivers them through Notifier sinks.
package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/internal/metrics"
	"github.com/sandevgo/aide/pkg/log"
)

// DefaultOffsets fire a reminder 15 and 5 minutes ahead and at the due time.
var DefaultOffsets = []time.Duration{15 * time.Minute, 5 * time.Minute, 0}

type pending struct {
	n     core.Notification
	timer *time.Timer
}

type Scheduler struct {
	mu       sync.Mutex
	pending  map[string]*pending
	notifier core.Notifier
	store    core.RemindersRepository
	notes    core.VoiceNotesRepository
	offsets  []time.Duration
	now      func() time.Time
	metrics  *metrics.Metrics
}

var _ core.NotificationScheduler = (*Scheduler)(nil)

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithStore lets Start reload pending reminders.
func WithStore(store core.RemindersRepository) Option {
	return func(s *Scheduler) { s.store = store }
}

// WithNotes lets Start reload notes that still have a due date ahead.
func WithNotes(notes core.VoiceNotesRepository) Option {
	return func(s *Scheduler) { s.notes = notes }
}

func WithOffsets(offsets []time.Duration) Option {
	return func(s *Scheduler) { s.offsets = offsets }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

func NewScheduler(notifier core.Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		pending:  make(map[string]*pending),
		notifier: notifier,
		offsets:  DefaultOffsets,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReminderID is the notification id prefix used for a stored reminder.
func ReminderID(id int64) string {
	return fmt.Sprintf("reminder-%d", id)
}

// NoteID is the notification id prefix used for a stored voice note.
func NoteID(id int64) string {
	return fmt.Sprintf("note-%d", id)
}

// Schedule arms a single notification. An existing one with the same id is replaced.
func (s *Scheduler) Schedule(ctx context.Context, n core.Notification) error {
	now := s.now()
	if n.FireAt.Before(now) {
		return fmt.Errorf("%s at %s: %w", n.ID, n.FireAt.Format(time.RFC3339), core.ErrPastTrigger)
	}

	// the caller's context may be request scoped
	fireCtx := context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.pending[n.ID]; ok {
		old.timer.Stop()
	}

	p := &pending{n: n}
	p.timer = time.AfterFunc(n.FireAt.Sub(now), func() {
		s.fire(fireCtx, p)
	})
	s.pending[n.ID] = p
	s.metrics.SetPending(len(s.pending))

	log.FromCtx(ctx).Debug().Str("id", n.ID).Time("fire_at", n.FireAt).Msg("notification scheduled")
	return nil
}

// ScheduleOffsets arms one notification per offset before due, skipping the
// ones already in the past. It fails with ErrPastTrigger when none remain.
func (s *Scheduler) ScheduleOffsets(ctx context.Context, base core.Notification, due time.Time, offsets []time.Duration) (int, error) {
	if offsets == nil {
		offsets = s.offsets
	}

	now := s.now()
	scheduled := 0
	for _, off := range offsets {
		fireAt := due.Add(-off)
		if fireAt.Before(now) {
			continue
		}

		n := base
		n.ID = fmt.Sprintf("%s/%s", base.ID, off)
		n.FireAt = fireAt
		n.Body = describeDue(base.Body, due, off)

		if err := s.Schedule(ctx, n); err != nil {
			return scheduled, err
		}
		scheduled++
	}

	if scheduled == 0 && len(offsets) > 0 {
		return 0, fmt.Errorf("%s due %s: %w", base.ID, due.Format(time.RFC3339), core.ErrPastTrigger)
	}
	return scheduled, nil
}

// Cancel stops the notification with this id and every offset derived from it.
func (s *Scheduler) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cancelled := 0
	for key, p := range s.pending {
		if key == id || strings.HasPrefix(key, id+"/") {
			p.timer.Stop()
			delete(s.pending, key)
			cancelled++
		}
	}
	s.metrics.SetPending(len(s.pending))

	if cancelled > 0 {
		log.FromCtx(ctx).Debug().Str("id", id).Int("count", cancelled).Msg("notifications cancelled")
	}
	return nil
}

// Pending returns the armed notifications ordered by fire time.
func (s *Scheduler) Pending() []core.Notification {
	s.mu.Lock()
	out := make([]core.Notification, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p.n)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].FireAt.Before(out[j].FireAt)
	})
	return out
}

// Start re-arms notifications for reminders and notes that are still pending.
func (s *Scheduler) Start(ctx context.Context) error {
	now := s.now()
	logger := log.FromCtx(ctx)

	var reminders []core.Reminder
	if s.store != nil {
		var err error
		reminders, err = s.store.ListUpcoming(ctx, now)
		if err != nil {
			return fmt.Errorf("failed to load upcoming reminders: %w", err)
		}
	}

	var notes []core.VoiceNote
	if s.notes != nil {
		var err error
		notes, err = s.notes.ListUpcomingNotes(ctx, now)
		if err != nil {
			return fmt.Errorf("failed to load upcoming notes: %w", err)
		}
	}

	total := 0
	for _, r := range reminders {
		n, err := s.ScheduleOffsets(ctx, ReminderNotification(r), r.DueDate, nil)
		if err != nil {
			logger.Warn().Err(err).Int64("reminder", r.ID).Msg("failed to restore notifications")
		}
		total += n
	}
	for _, v := range notes {
		n, err := s.ScheduleOffsets(ctx, NoteNotification(v), v.DueDate, nil)
		if err != nil {
			logger.Warn().Err(err).Int64("note", v.ID).Msg("failed to restore notifications")
		}
		total += n
	}

	if s.store != nil || s.notes != nil {
		logger.Info().
			Int("reminders", len(reminders)).
			Int("notes", len(notes)).
			Int("notifications", total).
			Msg("Notification scheduler started")
	}
	return nil
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, key)
	}
	s.metrics.SetPending(0)
	return nil
}

func (s *Scheduler) fire(ctx context.Context, p *pending) {
	s.mu.Lock()
	if cur, ok := s.pending[p.n.ID]; !ok || cur != p {
		s.mu.Unlock()
		return
	}
	delete(s.pending, p.n.ID)
	s.metrics.SetPending(len(s.pending))
	s.mu.Unlock()

	err := s.notifier.Notify(ctx, p.n)
	s.metrics.NotificationFired(err == nil)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("id", p.n.ID).Msg("failed to deliver notification")
	}
}

// ReminderNotification builds the base notification for a stored reminder.
func ReminderNotification(r core.Reminder) core.Notification {
	title := r.Title
	switch r.Kind {
	case core.DomainMeeting:
		title = "Meeting: " + title
	case core.DomainTask:
		title = "Task: " + title
	default:
		title = "Reminder: " + title
	}
	return core.Notification{
		ID:     ReminderID(r.ID),
		UserID: r.UserID,
		Title:  title,
		Body:   r.Description,
	}
}

// NoteNotification builds the base notification for a stored voice note.
func NoteNotification(n core.VoiceNote) core.Notification {
	return core.Notification{
		ID:     NoteID(n.ID),
		UserID: n.UserID,
		Title:  "Note: " + n.Title,
	}
}

func describeDue(body string, due time.Time, off time.Duration) string {
	when := "Due now"
	if off > 0 {
		when = fmt.Sprintf("Due in %d min (%s)", int(off.Minutes()), due.Format("15:04"))
	}
	if body == "" {
		return when
	}
	return body + "\n" + when
}
