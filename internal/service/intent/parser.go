// Package intent turns a free-text utterance into a core.Command using a
// fixed keyword and pattern rule set. Parsing never fails: unmatched text
// yields an unknown-domain command.
package intent

import (
	"math"
	"strings"
	"time"

	"github.com/sandevgo/aide/internal/core"
)

const (
	actionScore = 0.2
	domainScore = 0.3
	titleScore  = 0.2
	dateScore   = 0.2

	// baseConfidence is reported when no signal matched at all.
	baseConfidence = 0.5
)

type Parser struct {
	now     func() time.Time
	weekday WeekdayPolicy
}

type Option func(*Parser)

func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

func WithWeekdayPolicy(policy WeekdayPolicy) Option {
	return func(p *Parser) {
		p.weekday = policy
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{
		now:     time.Now,
		weekday: NextWeek,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Parse(text string) core.Command {
	text = Normalize(text)
	cmd := core.Command{
		Raw:    text,
		Action: core.ActionCreate,
		Domain: core.DomainUnknown,
		Entities: core.Entities{
			Priority: core.PriorityMedium,
		},
	}

	var score float64

	if action, ok := detectAction(text); ok {
		cmd.Action = action
		score += actionScore
	}

	if domain, alternatives := detectDomain(text); domain != core.DomainUnknown {
		cmd.Domain = domain
		cmd.Alternatives = alternatives
		score += domainScore
	}

	if title := extractTitle(text); title != "" {
		cmd.Entities.Title = title
		score += titleScore
	}

	if due, ok := resolveDate(text, p.now(), p.weekday); ok {
		cmd.Entities.DueDate = &due
		score += dateScore
	}

	cmd.Entities.Priority = extractPriority(text)
	cmd.Entities.Pending = pendingRe.MatchString(text)
	cmd.Entities.Completed = completedRe.MatchString(text)

	if cmd.Domain.IsLookup() {
		cmd.Entities.Location = extractLocation(text)
	}
	if cmd.Domain == core.DomainNews {
		if m := categoryRe.FindString(text); m != "" {
			cmd.Entities.Category = normalizeCategory(m)
		}
	}

	if score == 0 {
		score = baseConfidence
	}
	cmd.Confidence = math.Min(1, math.Round(score*100)/100)

	return cmd
}

// Normalize lower-cases text, drops sentence punctuation and collapses
// whitespace.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = punctRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimRight(strings.TrimSpace(text), ".")
}

func detectAction(text string) (core.Action, bool) {
	for _, r := range actionRules {
		if r.re.MatchString(text) {
			return r.action, true
		}
	}
	return "", false
}

// detectDomain scores every domain by keyword hits and picks the highest.
// Domains tied with the winner are returned as alternatives.
func detectDomain(text string) (core.Domain, []core.Domain) {
	best, bestHits := core.DomainUnknown, 0
	hits := make([]int, len(domainRules))

	for i, r := range domainRules {
		hits[i] = len(r.re.FindAllStringIndex(text, -1))
		if hits[i] > bestHits {
			best, bestHits = r.domain, hits[i]
		}
	}

	if bestHits == 0 {
		return core.DomainUnknown, nil
	}

	var alternatives []core.Domain
	for i, r := range domainRules {
		if r.domain != best && hits[i] == bestHits {
			alternatives = append(alternatives, r.domain)
		}
	}
	return best, alternatives
}

func extractTitle(text string) string {
	m := titleRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	title := m[1]
	if loc := dateTailRe.FindStringIndex(title); loc != nil {
		title = title[:loc[0]]
	}
	return strings.TrimSpace(title)
}

func extractPriority(text string) core.Priority {
	switch {
	case lowPriorityRe.MatchString(text):
		return core.PriorityLow
	case highPriorityRe.MatchString(text):
		return core.PriorityHigh
	}
	return core.PriorityMedium
}

func extractLocation(text string) string {
	if currentLocRe.MatchString(text) {
		return core.CurrentLocation
	}
	text = strings.TrimSpace(spaceRe.ReplaceAllString(timeWordsRe.ReplaceAllString(text, " "), " "))
	m := locationRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	loc := strings.TrimSpace(m[1])
	loc = locationTailRe.ReplaceAllString(loc, "")
	loc = leadingArticleRe.ReplaceAllString(loc, "")
	return strings.TrimSpace(loc)
}

// NewsCategory reports whether s names a news category and returns its
// canonical form.
func NewsCategory(s string) (string, bool) {
	s = Normalize(s)
	if s == "" || categoryRe.FindString(s) != s {
		return "", false
	}
	return normalizeCategory(s), true
}
