package intent

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// WeekdayPolicy decides what a weekday name resolves to when it names today.
type WeekdayPolicy int

const (
	// NextWeek resolves "friday" said on a Friday to the following Friday.
	NextWeek WeekdayPolicy = iota
	// SameDay resolves it to today.
	SameDay
)

// ParseWeekdayPolicy accepts "next-week" or "same-day".
func ParseWeekdayPolicy(s string) (WeekdayPolicy, error) {
	switch s {
	case "", "next-week":
		return NextWeek, nil
	case "same-day":
		return SameDay, nil
	}
	return NextWeek, fmt.Errorf("unknown weekday policy %q", s)
}

var (
	todayRe     = regexp.MustCompile(`\btoday\b`)
	tomorrowRe  = regexp.MustCompile(`\btomorrow\b`)
	nextWeekRe  = regexp.MustCompile(`\bnext week\b`)
	clock12Re   = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clock24Re   = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	weekdayRe   = regexp.MustCompile(`\b(` + weekdayAlt + `)\b`)
	weekdayByID = map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
)

// resolveDate returns the first date/time phrase found in text, in priority
// order: today, tomorrow, next week, clock time, weekday.
func resolveDate(text string, now time.Time, policy WeekdayPolicy) (time.Time, bool) {
	switch {
	case todayRe.MatchString(text):
		return now, true
	case tomorrowRe.MatchString(text):
		return now.AddDate(0, 0, 1), true
	case nextWeekRe.MatchString(text):
		return now.AddDate(0, 0, 7), true
	}

	if t, ok := resolveClock(text, now); ok {
		return t, true
	}

	if m := weekdayRe.FindStringSubmatch(text); m != nil {
		target := weekdayByID[m[1]]
		ahead := (int(target) - int(now.Weekday()) + 7) % 7
		if ahead == 0 && policy == NextWeek {
			ahead = 7
		}
		return now.AddDate(0, 0, ahead), true
	}

	return time.Time{}, false
}

// resolveClock places an explicit clock time on today's date.
func resolveClock(text string, now time.Time) (time.Time, bool) {
	if m := clock12Re.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour >= 1 && hour <= 12 && minute <= 59 {
			hour %= 12
			if m[3] == "pm" {
				hour += 12
			}
			return atClock(now, hour, minute), true
		}
	}

	if m := clock24Re.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return atClock(now, hour, minute), true
	}

	return time.Time{}, false
}

func atClock(now time.Time, hour, minute int) time.Time {
	y, mo, d := now.Date()
	return time.Date(y, mo, d, hour, minute, 0, 0, now.Location())
}
