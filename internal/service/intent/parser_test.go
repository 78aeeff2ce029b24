package intent

import (
	"testing"
	"time"

	"github.com/sandevgo/aide/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Friday, 15 March 2024, 10:00 local.
var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func newTestParser(opts ...Option) *Parser {
	return New(append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func TestParser_Parse(t *testing.T) {
	tomorrow := fixedNow.AddDate(0, 0, 1)

	tests := []struct {
		name       string
		input      string
		domain     core.Domain
		action     core.Action
		title      string
		due        *time.Time
		confidence float64
	}{
		{
			name:       "reminder with title and date",
			input:      "create reminder for team meeting tomorrow",
			domain:     core.DomainReminder,
			action:     core.ActionCreate,
			title:      "team meeting",
			due:        &tomorrow,
			confidence: 0.9,
		},
		{
			name:       "list reminders",
			input:      "get my reminders",
			domain:     core.DomainReminder,
			action:     core.ActionGet,
			confidence: 0.5,
		},
		{
			name:       "unmatched input",
			input:      "hello there",
			domain:     core.DomainUnknown,
			action:     core.ActionCreate,
			confidence: 0.5,
		},
		{
			name:       "empty input",
			input:      "",
			domain:     core.DomainUnknown,
			action:     core.ActionCreate,
			confidence: 0.5,
		},
		{
			name:       "news keyword does not trigger create",
			input:      "get news",
			domain:     core.DomainNews,
			action:     core.ActionGet,
			confidence: 0.5,
		},
		{
			name:       "delete by title",
			input:      "delete the reminder about dentist",
			domain:     core.DomainReminder,
			action:     core.ActionDelete,
			title:      "dentist",
			confidence: 0.7,
		},
		{
			name:       "update meeting",
			input:      "change my appointment regarding budget review",
			domain:     core.DomainMeeting,
			action:     core.ActionUpdate,
			title:      "budget review",
			confidence: 0.7,
		},
		{
			name:       "mixed case and punctuation",
			input:      "Add a NOTE about Groceries!",
			domain:     core.DomainNote,
			action:     core.ActionCreate,
			title:      "groceries",
			confidence: 0.7,
		},
		{
			name:       "unknown domain with action only",
			input:      "make something",
			domain:     core.DomainUnknown,
			action:     core.ActionCreate,
			confidence: 0.2,
		},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := p.Parse(tt.input)

			assert.Equal(t, tt.domain, cmd.Domain)
			assert.Equal(t, tt.action, cmd.Action)
			assert.Equal(t, tt.title, cmd.Entities.Title)
			assert.InDelta(t, tt.confidence, cmd.Confidence, 0.001)
			if tt.due == nil {
				assert.Nil(t, cmd.Entities.DueDate)
			} else {
				require.NotNil(t, cmd.Entities.DueDate)
				assert.True(t, tt.due.Equal(*cmd.Entities.DueDate), "due = %v, want %v", cmd.Entities.DueDate, tt.due)
			}
		})
	}
}

func TestParser_UnknownHasEmptyEntities(t *testing.T) {
	cmd := newTestParser().Parse("lorem ipsum dolor")

	assert.Equal(t, core.DomainUnknown, cmd.Domain)
	assert.Equal(t, core.Entities{Priority: core.PriorityMedium}, cmd.Entities)
	assert.Empty(t, cmd.Alternatives)
}

func TestParser_ActionKeywords(t *testing.T) {
	keywords := map[core.Action][]string{
		core.ActionCreate: {"create", "add", "set", "make", "new"},
		core.ActionGet:    {"get", "show", "find", "list", "what"},
		core.ActionUpdate: {"update", "change", "modify", "edit"},
		core.ActionDelete: {"delete", "remove", "cancel", "clear"},
	}

	p := newTestParser()
	for action, kws := range keywords {
		for _, kw := range kws {
			t.Run(kw, func(t *testing.T) {
				cmd := p.Parse(kw + " my task")
				assert.Equal(t, action, cmd.Action)
				assert.Equal(t, core.DomainTask, cmd.Domain)
				assert.InDelta(t, actionScore+domainScore, cmd.Confidence, 0.001)
			})
		}
	}
}

func TestParser_DomainKeywords(t *testing.T) {
	keywords := map[core.Domain][]string{
		core.DomainReminder: {"reminder", "remind", "reminders"},
		core.DomainMeeting:  {"meeting", "appointment", "appointments"},
		core.DomainTask:     {"task", "todo", "tasks"},
		core.DomainNote:     {"note", "memo", "notes"},
		core.DomainWeather:  {"weather", "temperature", "forecast"},
		core.DomainNews:     {"news", "headlines", "latest"},
	}

	p := newTestParser()
	for domain, kws := range keywords {
		for _, kw := range kws {
			t.Run(kw, func(t *testing.T) {
				assert.Equal(t, domain, p.Parse("please "+kw).Domain)
			})
		}
	}
}

func TestParser_NoDomainKeywordIsUnknown(t *testing.T) {
	inputs := []string{
		"create something nice",
		"what time is it",
		"delete everything",
		"notebook", // not an inflection of "note"
	}

	p := newTestParser()
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, core.DomainUnknown, p.Parse(in).Domain)
		})
	}
}

func TestParser_DomainTiesAreExposed(t *testing.T) {
	cmd := newTestParser().Parse("show weather and news")

	assert.Equal(t, core.DomainWeather, cmd.Domain)
	assert.Equal(t, []core.Domain{core.DomainNews}, cmd.Alternatives)
}

func TestParser_DomainHighestScoreWins(t *testing.T) {
	// "latest" and "news" both count for news, beating the single weather hit.
	cmd := newTestParser().Parse("weather aside show the latest news")

	assert.Equal(t, core.DomainNews, cmd.Domain)
	assert.Empty(t, cmd.Alternatives)
}

func TestParser_Priority(t *testing.T) {
	tests := []struct {
		input string
		want  core.Priority
	}{
		{"add urgent task", core.PriorityHigh},
		{"add important task", core.PriorityHigh},
		{"add task high priority", core.PriorityHigh},
		{"add critical task", core.PriorityHigh},
		{"add task low priority", core.PriorityLow},
		{"add task not urgent", core.PriorityLow},
		{"add task", core.PriorityMedium},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := p.Parse(tt.input)
			assert.Equal(t, tt.want, cmd.Entities.Priority)
			assert.InDelta(t, actionScore+domainScore, cmd.Confidence, 0.001, "priority carries no confidence bonus")
		})
	}
}

func TestParser_Location(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"what's the weather in London", "london"},
		{"weather in paris today", "paris"},
		{"temperature at the beach tomorrow", "beach"},
		{"show the forecast for san francisco", "san francisco"},
		{"weather here", core.CurrentLocation},
		{"weather at my location", core.CurrentLocation},
		{"what's the weather", ""},
		{"latest news from germany", "germany"},
		{"weather for tomorrow in london", "london"},
		{"what's the weather like at the moment in paris", "paris"},
		{"show the forecast for today", ""},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.input).Entities.Location)
		})
	}
}

func TestParser_LocationOnlyForLookups(t *testing.T) {
	cmd := newTestParser().Parse("add task in the garden")
	assert.Empty(t, cmd.Entities.Location)
}

func TestParser_NewsCategory(t *testing.T) {
	p := newTestParser()

	assert.Equal(t, "technology", p.Parse("show tech news").Entities.Category)
	assert.Equal(t, "sports", p.Parse("latest sports headlines").Entities.Category)
	assert.Empty(t, p.Parse("show the news").Entities.Category)
	assert.Empty(t, p.Parse("add task about health").Entities.Category, "category is only extracted for news")
}

func TestParser_StatusFlags(t *testing.T) {
	p := newTestParser()

	assert.True(t, p.Parse("show pending tasks").Entities.Pending)
	assert.False(t, p.Parse("show tasks").Entities.Pending)
	assert.True(t, p.Parse("mark task about taxes done").Entities.Completed)
}

func TestParser_Deterministic(t *testing.T) {
	p := newTestParser()
	input := "create urgent reminder for dentist on monday"

	first := p.Parse(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.Parse(input))
	}
}

func TestParser_TitleStopsBeforeTime(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"remind me about the dentist at 3 pm", "the dentist"},
		{"create task for weekly report on friday", "weekly report"},
		{"add meeting regarding hiring next week", "hiring"},
		{"set a reminder for 10:30 am", ""},
		{"create task for week planning", "week planning"},
		{"add task for week planning review next week", "week planning review"},
		{"note about friday drinks on monday", "friday drinks"},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.input).Entities.Title)
		})
	}
}

func TestNewsCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Technology", "technology", true},
		{"tech", "technology", true},
		{" sport ", "sports", true},
		{"health", "health", true},
		{"electric cars", "", false},
		{"technology news", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NewsCategory(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
