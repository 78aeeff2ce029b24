package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/aide/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	got []core.Notification
	err error
}

func (r *recorder) Notify(_ context.Context, n core.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
	return r.err
}

func (r *recorder) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.got))
	for _, n := range r.got {
		out = append(out, n.ID)
	}
	return out
}

func ids(ns []core.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.ID)
	}
	return out
}

func TestScheduler_RejectsPastTrigger(t *testing.T) {
	s := NewScheduler(&recorder{})
	err := s.Schedule(context.Background(), core.Notification{ID: "x", FireAt: time.Now().Add(-time.Minute)})
	assert.ErrorIs(t, err, core.ErrPastTrigger)
	assert.Empty(t, s.Pending())
}

func TestScheduler_Fires(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(rec)

	require.NoError(t, s.Schedule(context.Background(), core.Notification{
		ID:     "soon",
		Title:  "ping",
		FireAt: time.Now().Add(20 * time.Millisecond),
	}))

	require.Eventually(t, func() bool { return len(rec.ids()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"soon"}, rec.ids())
	assert.Empty(t, s.Pending())
}

func TestScheduler_ReplaceSameID(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(rec)
	ctx := context.Background()

	require.NoError(t, s.Schedule(ctx, core.Notification{ID: "a", Title: "first", FireAt: time.Now().Add(time.Hour)}))
	require.NoError(t, s.Schedule(ctx, core.Notification{ID: "a", Title: "second", FireAt: time.Now().Add(2 * time.Hour)}))

	p := s.Pending()
	require.Len(t, p, 1)
	assert.Equal(t, "second", p[0].Title)
	require.NoError(t, s.Shutdown(ctx))
}

func TestScheduler_ScheduleOffsets(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tests := []struct {
		name    string
		due     time.Time
		wantIDs []string
		wantErr error
	}{
		{
			name:    "all offsets in the future",
			due:     now.Add(time.Hour),
			wantIDs: []string{"reminder-1/15m0s", "reminder-1/5m0s", "reminder-1/0s"},
		},
		{
			name:    "skips offsets already past",
			due:     now.Add(10 * time.Minute),
			wantIDs: []string{"reminder-1/5m0s", "reminder-1/0s"},
		},
		{
			name:    "due now keeps only the zero offset",
			due:     now,
			wantIDs: []string{"reminder-1/0s"},
		},
		{
			name:    "everything past",
			due:     now.Add(-time.Minute),
			wantErr: core.ErrPastTrigger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(&recorder{}, WithClock(clock))
			defer s.Shutdown(context.Background())

			n, err := s.ScheduleOffsets(context.Background(), core.Notification{ID: "reminder-1", Title: "t"}, tt.due, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, n)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.wantIDs), n)
			assert.Equal(t, tt.wantIDs, ids(s.Pending()))
		})
	}
}

func TestScheduler_CancelByPrefix(t *testing.T) {
	s := NewScheduler(&recorder{})
	ctx := context.Background()
	due := time.Now().Add(time.Hour)

	_, err := s.ScheduleOffsets(ctx, core.Notification{ID: "reminder-1"}, due, nil)
	require.NoError(t, err)
	_, err = s.ScheduleOffsets(ctx, core.Notification{ID: "reminder-10"}, due, nil)
	require.NoError(t, err)

	require.NoError(t, s.Cancel(ctx, "reminder-1"))

	for _, n := range s.Pending() {
		assert.Contains(t, n.ID, "reminder-10/")
	}
	assert.Len(t, s.Pending(), 3)

	require.NoError(t, s.Cancel(ctx, "missing"))
	require.NoError(t, s.Shutdown(ctx))
	assert.Empty(t, s.Pending())
}

func TestScheduler_CancelledDoesNotFire(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(rec)
	ctx := context.Background()

	require.NoError(t, s.Schedule(ctx, core.Notification{ID: "x", FireAt: time.Now().Add(30 * time.Millisecond)}))
	require.NoError(t, s.Cancel(ctx, "x"))

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.ids())
}

type fakeUpcoming struct {
	core.RemindersRepository
	items []core.Reminder
}

func (f fakeUpcoming) ListUpcoming(context.Context, time.Time) ([]core.Reminder, error) {
	return f.items, nil
}

func TestScheduler_StartReloads(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	store := fakeUpcoming{items: []core.Reminder{
		{ID: 7, UserID: "u1", Kind: core.DomainMeeting, Title: "standup", DueDate: now.Add(time.Hour)},
	}}

	s := NewScheduler(&recorder{}, WithClock(func() time.Time { return now }), WithStore(store), WithOffsets([]time.Duration{0}))
	require.NoError(t, s.Start(context.Background()))
	defer s.Shutdown(context.Background())

	p := s.Pending()
	require.Len(t, p, 1)
	assert.Equal(t, "reminder-7/0s", p[0].ID)
	assert.Equal(t, "Meeting: standup", p[0].Title)
	assert.Equal(t, "u1", p[0].UserID)
	assert.Equal(t, "Due now", p[0].Body)
}

type fakeNotes struct {
	core.VoiceNotesRepository
	items []core.VoiceNote
}

func (f fakeNotes) ListUpcomingNotes(context.Context, time.Time) ([]core.VoiceNote, error) {
	return f.items, nil
}

func TestScheduler_StartReloadsNotes(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	reminders := fakeUpcoming{items: []core.Reminder{
		{ID: 7, UserID: "u1", Kind: core.DomainTask, Title: "report", DueDate: now.Add(time.Hour)},
	}}
	notes := fakeNotes{items: []core.VoiceNote{
		{ID: 3, UserID: "u2", Title: "groceries", DueDate: now.Add(2 * time.Hour)},
	}}

	s := NewScheduler(&recorder{},
		WithClock(func() time.Time { return now }),
		WithStore(reminders),
		WithNotes(notes),
		WithOffsets([]time.Duration{0}),
	)
	require.NoError(t, s.Start(context.Background()))
	defer s.Shutdown(context.Background())

	p := s.Pending()
	require.Len(t, p, 2)
	assert.Equal(t, "reminder-7/0s", p[0].ID)
	assert.Equal(t, "note-3/0s", p[1].ID)
	assert.Equal(t, "Note: groceries", p[1].Title)
	assert.Equal(t, "u2", p[1].UserID)
}

func TestMulti_JoinsErrors(t *testing.T) {
	ok := &recorder{}
	bad := &recorder{err: errors.New("boom")}

	err := Multi{ok, bad, Log{}}.Notify(context.Background(), core.Notification{ID: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{"n"}, ok.ids())
	assert.Equal(t, []string{"n"}, bad.ids())
}
