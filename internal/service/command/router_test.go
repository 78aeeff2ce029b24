package command

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/aide/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	ages      map[string]time.Duration
	refreshed []string
}

func (f *fakeCache) CacheAge(domain core.Domain, target string) (time.Duration, bool) {
	age, ok := f.ages[string(domain)+":"+target]
	return age, ok
}

func (f *fakeCache) ForceRefresh(domain core.Domain, target string) bool {
	key := string(domain) + ":" + target
	if _, ok := f.ages[key]; !ok {
		return false
	}
	delete(f.ages, key)
	f.refreshed = append(f.refreshed, key)
	return true
}

type fakeReminders struct {
	core.RemindersRepository
	items  []core.Reminder
	filter core.ReminderFilter
}

func (f *fakeReminders) ListReminders(_ context.Context, _ string, filter core.ReminderFilter) ([]core.Reminder, error) {
	f.filter = filter
	return f.items, nil
}

func newTestRouter() (*Router, *fakeCache, *fakeReminders) {
	cache := &fakeCache{ages: map[string]time.Duration{"weather:London": 3 * time.Minute}}
	reminders := &fakeReminders{}
	return NewRouter(cache, reminders), cache, reminders
}

func TestRouter_Execute(t *testing.T) {
	r, _, _ := newTestRouter()
	ctx := context.Background()

	tests := []struct {
		name        string
		input       string
		wantHandled bool
		wantContain string
	}{
		{"plain text is not a command", "what's the weather", false, ""},
		{"unknown command", "/nope", true, "Unknown command: /nope"},
		{"help", "/help", true, "/reminders"},
		{"bot suffix", "/help@aide_bot", true, "/refresh"},
		{"cache hit", "/cache weather London", true, "updated 3m ago"},
		{"cache miss", "/cache news technology", true, "not cached"},
		{"cache bad domain", "/cache reminder x", true, "Error: unknown domain"},
		{"cache usage", "/cache", true, "Usage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, handled := r.Execute(ctx, "u1", tt.input)
			assert.Equal(t, tt.wantHandled, handled)
			if tt.wantContain != "" {
				assert.Contains(t, out, tt.wantContain)
			}
		})
	}
}

func TestRouter_ListCommandsSorted(t *testing.T) {
	r, _, _ := newTestRouter()

	var names []string
	for _, c := range r.ListCommands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"cache", "help", "refresh", "reminders"}, names)
}

func TestRefreshCommand(t *testing.T) {
	r, cache, _ := newTestRouter()

	out, _ := r.Execute(context.Background(), "u1", "/refresh weather London")
	assert.Contains(t, out, "fetched fresh")
	assert.Equal(t, []string{"weather:London"}, cache.refreshed)

	out, _ = r.Execute(context.Background(), "u1", "/refresh weather London")
	assert.Contains(t, out, "nothing cached")
}

func TestRemindersCommand(t *testing.T) {
	r, _, reminders := newTestRouter()
	ctx := context.Background()

	out, _ := r.Execute(ctx, "u1", "/reminders")
	assert.Contains(t, out, "Nothing scheduled")
	assert.True(t, reminders.filter.PendingOnly)

	reminders.items = []core.Reminder{
		{Kind: core.DomainMeeting, Title: "standup", DueDate: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC), Priority: core.PriorityHigh},
		{Kind: core.DomainTask, Title: "taxes", DueDate: time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC), Completed: true},
	}
	out, _ = r.Execute(ctx, "u1", "/reminders all")
	require.False(t, reminders.filter.PendingOnly)
	assert.Contains(t, out, "Reminders (2)")
	assert.Contains(t, out, "Fri 15 Mar 09:30 `meeting` standup ❗")
	assert.Contains(t, out, "taxes ✓")
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "42s", FormatAge(42*time.Second))
	assert.Equal(t, "5m", FormatAge(5*time.Minute+10*time.Second))
	assert.Equal(t, "2h05m", FormatAge(2*time.Hour+5*time.Minute))
}

func TestReply(t *testing.T) {
	out := newReply("Cache").
		label("weather for Paris", "updated 5m ago").
		text("").
		list([]string{"one", "two"}).
		String()

	assert.Equal(t, "⚙️ **Cache**\n\n**weather for Paris**  ›  `updated 5m ago`\n\n› one\n› two\n", out)
}
