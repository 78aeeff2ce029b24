package dispatch

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/aide/internal/core"
)

const dueLayout = "Mon 2 Jan 15:04"

func formatDue(t time.Time) string {
	return t.Format(dueLayout)
}

func formatWeather(w core.Weather) string {
	place := w.City
	if w.Country != "" {
		place += ", " + w.Country
	}
	return fmt.Sprintf("%s: %d°C, %s (feels like %d°C). Humidity %d%%, wind %.0f km/h, visibility %.0f km.",
		place, round(w.Temperature), w.Description, round(w.FeelsLike), w.Humidity, w.WindSpeed, w.Visibility)
}

func round(f float64) int {
	return int(math.Round(f))
}

func formatArticles(label string, articles []core.Article) string {
	if len(articles) == 0 {
		return "No " + label + " right now."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%s:", strings.ToUpper(label[:1]), label[1:])
	for i, a := range articles {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, a.Title)
		if a.Source.Name != "" {
			fmt.Fprintf(&sb, " (%s)", a.Source.Name)
		}
	}
	return sb.String()
}

func plural(domain core.Domain, n int) string {
	if n == 1 {
		return string(domain)
	}
	return string(domain) + "s"
}

func formatReminders(domain core.Domain, pendingOnly bool, items []core.Reminder) string {
	adj := ""
	if pendingOnly {
		adj = "pending "
	}
	if len(items) == 0 {
		return fmt.Sprintf("You have no %s%s.", adj, plural(domain, 0))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d %s%s:", len(items), adj, plural(domain, len(items)))
	for i, r := range items {
		mark := ""
		if r.Completed {
			mark = " [done]"
		}
		fmt.Fprintf(&sb, "\n%d. %s, %s%s", i+1, r.Title, formatDue(r.DueDate), mark)
		if r.Priority == core.PriorityHigh {
			sb.WriteString(" (!)")
		}
	}
	return sb.String()
}

func formatNotes(notes []core.VoiceNote) string {
	if len(notes) == 0 {
		return "You have no notes."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d %s:", len(notes), plural(core.DomainNote, len(notes)))
	for i, n := range notes {
		fmt.Fprintf(&sb, "\n%d. %s, %s", i+1, n.Title, formatDue(n.DueDate))
	}
	return sb.String()
}

// describeFailure turns an error into a short phrase for the user.
func describeFailure(err error) string {
	if errors.Is(err, core.ErrPastTrigger) {
		return "that time has already passed"
	}

	var gwErr *core.GatewayError
	if !errors.As(err, &gwErr) {
		return err.Error()
	}

	switch gwErr.Kind {
	case core.GatewayConfig:
		return "the " + gwErr.Gateway + " service is not configured"
	case core.GatewayNetwork:
		return "the " + gwErr.Gateway + " service is unreachable"
	case core.GatewayMalformed:
		return "the " + gwErr.Gateway + " service sent an unexpected response"
	}

	switch gwErr.Status {
	case http.StatusNotFound:
		return "nothing was found"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "the API key was rejected"
	case http.StatusTooManyRequests:
		return "too many requests, try again later"
	}
	return gwErr.Err.Error()
}
