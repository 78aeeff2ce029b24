package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockAt(hour, minute int) time.Time {
	y, m, d := fixedNow.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, fixedNow.Location())
}

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"today", "call mom today", fixedNow, true},
		{"tomorrow", "call mom tomorrow", fixedNow.AddDate(0, 0, 1), true},
		{"next week", "call mom next week", fixedNow.AddDate(0, 0, 7), true},
		{"3 pm", "call mom at 3 pm", clockAt(15, 0), true},
		{"3pm no space", "call mom at 3pm", clockAt(15, 0), true},
		{"10:30 am", "call mom at 10:30 am", clockAt(10, 30), true},
		{"12 am", "call mom at 12 am", clockAt(0, 0), true},
		{"12 pm", "call mom at 12 pm", clockAt(12, 0), true},
		{"24h clock", "call mom at 18:45", clockAt(18, 45), true},
		{"monday", "call mom on monday", fixedNow.AddDate(0, 0, 3), true},
		{"thursday wraps", "call mom on thursday", fixedNow.AddDate(0, 0, 6), true},
		{"today wins over clock", "call mom today at 3 pm", fixedNow, true},
		{"tomorrow wins over weekday", "tomorrow or monday", fixedNow.AddDate(0, 0, 1), true},
		{"invalid hour", "call mom at 13 pm", time.Time{}, false},
		{"bare number", "buy 3 apples", time.Time{}, false},
		{"nothing", "call mom", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveDate(tt.input, fixedNow, NextWeek)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDate_SameWeekdayPolicy(t *testing.T) {
	// fixedNow is a Friday.
	next, ok := resolveDate("friday", fixedNow, NextWeek)
	require.True(t, ok)
	assert.True(t, fixedNow.AddDate(0, 0, 7).Equal(next))

	same, ok := resolveDate("friday", fixedNow, SameDay)
	require.True(t, ok)
	assert.True(t, fixedNow.Equal(same))

	// Other weekdays are unaffected by the policy.
	sat, ok := resolveDate("saturday", fixedNow, SameDay)
	require.True(t, ok)
	assert.True(t, fixedNow.AddDate(0, 0, 1).Equal(sat))
}

func TestParser_ClockTimes(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"remind me at 3 PM", clockAt(15, 0)},
		{"remind me at 10:30 AM", clockAt(10, 30)},
		{"remind me at 12 am", clockAt(0, 0)},
		{"remind me at 12 pm", clockAt(12, 0)},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := p.Parse(tt.input)
			require.NotNil(t, cmd.Entities.DueDate)
			assert.True(t, tt.want.Equal(*cmd.Entities.DueDate), "got %v, want %v", *cmd.Entities.DueDate, tt.want)
		})
	}
}

func TestParser_WeekdayPolicyOption(t *testing.T) {
	cmd := newTestParser(WithWeekdayPolicy(SameDay)).Parse("add meeting on friday")
	require.NotNil(t, cmd.Entities.DueDate)
	assert.True(t, fixedNow.Equal(*cmd.Entities.DueDate))
}

func TestParseWeekdayPolicy(t *testing.T) {
	p, err := ParseWeekdayPolicy("same-day")
	require.NoError(t, err)
	assert.Equal(t, SameDay, p)

	p, err = ParseWeekdayPolicy("")
	require.NoError(t, err)
	assert.Equal(t, NextWeek, p)

	_, err = ParseWeekdayPolicy("yesterday")
	assert.Error(t, err)
}
