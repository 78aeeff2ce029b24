package intent

import (
	"regexp"
	"strings"

	"github.com/sandevgo/aide/internal/core"
)

type actionRule struct {
	action core.Action
	re     *regexp.Regexp
}

type domainRule struct {
	domain core.Domain
	re     *regexp.Regexp
}

// Order matters: the first action rule that matches wins, and domain ties
// resolve to the earlier rule.
var (
	actionRules = []actionRule{
		{core.ActionCreate, words("create", "add", "set", "make", "new")},
		{core.ActionGet, words("get", "show", "find", "list", "what")},
		{core.ActionUpdate, words("update", "change", "modify", "edit")},
		{core.ActionDelete, words("delete", "remove", "cancel", "clear")},
	}

	domainRules = []domainRule{
		{core.DomainReminder, inflected("reminder", "remind")},
		{core.DomainMeeting, inflected("meeting", "appointment")},
		{core.DomainTask, inflected("task", "todo")},
		{core.DomainNote, inflected("note", "memo")},
		{core.DomainWeather, inflected("weather", "temperature", "forecast")},
		{core.DomainNews, inflected("news", "headline", "latest")},
	}
)

const datePhrase = `(?:(?:on|at|by|due|this|next)\s+)?(?:today|tonight|tomorrow|next week|` + weekdayAlt + `|\d{1,2}(?::\d{2})?\s*(?:am|pm)|\d{1,2}:\d{2})`

var (
	titleRe = regexp.MustCompile(`\b(?:for|about|regarding)\s+(.+)$`)

	// dateTailRe matches the run of date/time phrases that ends a captured
	// title. Date words earlier in the title are part of it.
	dateTailRe = regexp.MustCompile(`(?:^|\s)` + datePhrase + `(?:\s+` + datePhrase + `)*\s*$`)

	// timeWordsRe finds date/time words that sit between a preposition and a
	// place, as in "weather for tomorrow in london".
	timeWordsRe = regexp.MustCompile(`\b(?:(?:at|for|on)\s+)?(?:the moment|right now|now|today|tonight|tomorrow|this week|next week)\b`)

	locationRe       = regexp.MustCompile(`\b(?:in|at|for|from)\s+([a-z][a-z .'-]*?)\s*(?:\b(?:today|tonight|tomorrow|now|right now|please|this week|next week)\b.*)?$`)
	locationTailRe   = regexp.MustCompile(`\s+(?:for|on|at|in|by|from)$`)
	currentLocRe     = words("my location", "current location", "here")
	leadingArticleRe = regexp.MustCompile(`^(?:the|a|an|my)\s+`)

	lowPriorityRe  = words("low priority", "not urgent")
	highPriorityRe = words("urgent", "important", "high priority", "critical")

	pendingRe   = words("pending", "incomplete", "unfinished", "outstanding")
	completedRe = words("done", "complete", "completed", "finished")

	categoryRe = words("business", "entertainment", "general", "health", "science", "sport", "sports", "technology", "tech")

	punctRe = regexp.MustCompile(`[?!,;"]+`)
	spaceRe = regexp.MustCompile(`\s+`)
)

const weekdayAlt = `sunday|monday|tuesday|wednesday|thursday|friday|saturday`

func words(ws ...string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:` + alt(ws) + `)\b`)
}

// inflected matches keywords with common suffixes, so "reminders" and
// "reminded" hit the reminder rule.
func inflected(ws ...string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:` + alt(ws) + `)(?:s|es|ed|ing)?\b`)
}

func alt(ws []string) string {
	quoted := make([]string, len(ws))
	for i, w := range ws {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

func normalizeCategory(c string) string {
	switch c {
	case "sport":
		return "sports"
	case "tech":
		return "technology"
	}
	return c
}
