package core

import (
	"context"
	"time"
)

type Domain string

const (
	DomainReminder Domain = "reminder"
	DomainMeeting  Domain = "meeting"
	DomainTask     Domain = "task"
	DomainNote     Domain = "note"
	DomainWeather  Domain = "weather"
	DomainNews     Domain = "news"
	DomainUnknown  Domain = "unknown"
)

// IsLookup reports whether the domain is served by a cached external lookup.
func (d Domain) IsLookup() bool {
	return d == DomainWeather || d == DomainNews
}

// IsSchedulable reports whether the domain is persisted with a due date.
func (d Domain) IsSchedulable() bool {
	switch d {
	case DomainReminder, DomainMeeting, DomainTask, DomainNote:
		return true
	}
	return false
}

type Action string

const (
	ActionCreate Action = "create"
	ActionGet    Action = "get"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// CurrentLocation is the sentinel location for "here" style phrases.
const CurrentLocation = "current location"

type Entities struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    Priority   `json:"priority"`
	Location    string     `json:"location,omitempty"`
	Category    string     `json:"category,omitempty"`
	Pending     bool       `json:"pending,omitempty"`
	Completed   bool       `json:"completed,omitempty"`
}

// Command is the parsed form of a single utterance.
type Command struct {
	Raw          string   `json:"raw"`
	Domain       Domain   `json:"domain"`
	Action       Action   `json:"action"`
	Entities     Entities `json:"entities"`
	Confidence   float64  `json:"confidence"`
	Alternatives []Domain `json:"alternatives,omitempty"`
}

// Result is the uniform outcome of a dispatched command.
type Result struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Data     any           `json:"data,omitempty"`
	Error    string        `json:"error,omitempty"`
	Cached   bool          `json:"cached,omitempty"`
	CacheAge time.Duration `json:"cacheAge,omitempty"`
}

func Ok(message string, data any) Result {
	return Result{Success: true, Message: message, Data: data}
}

func Fail(message string, err error) Result {
	r := Result{Success: false, Message: message}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

type CmdRouter interface {
	Execute(ctx context.Context, userID, input string) (string, bool)
	ListCommands() []SlashCommand
}

type SlashCommand interface {
	Name() string
	Description() string
	Execute(ctx context.Context, userID string, args []string) (string, error)
}
