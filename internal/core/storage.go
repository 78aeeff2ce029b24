package core

import (
	"context"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Reminder struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	Kind        Domain    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Category    string    `json:"category,omitempty"`
	Priority    Priority  `json:"priority"`
	DueDate     time.Time `json:"dueDate"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type VoiceNote struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Priority  Priority  `json:"priority"`
	DueDate   time.Time `json:"dueDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReminderFilter narrows ListReminders. Zero values mean "any".
type ReminderFilter struct {
	Kind        Domain
	PendingOnly bool
}

type UsersRepository interface {
	UpsertUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

type RemindersRepository interface {
	CreateReminder(ctx context.Context, r Reminder) (Reminder, error)
	GetReminder(ctx context.Context, id int64) (Reminder, error)
	UpdateReminder(ctx context.Context, r Reminder) (Reminder, error)
	DeleteReminder(ctx context.Context, id int64) error
	ListReminders(ctx context.Context, userID string, f ReminderFilter) ([]Reminder, error)
	ListUpcoming(ctx context.Context, after time.Time) ([]Reminder, error)
	WatchReminders(ctx context.Context, userID string) (<-chan []Reminder, error)
}

type VoiceNotesRepository interface {
	CreateVoiceNote(ctx context.Context, n VoiceNote) (VoiceNote, error)
	GetVoiceNote(ctx context.Context, id int64) (VoiceNote, error)
	UpdateVoiceNote(ctx context.Context, n VoiceNote) (VoiceNote, error)
	DeleteVoiceNote(ctx context.Context, id int64) error
	ListVoiceNotes(ctx context.Context, userID string) ([]VoiceNote, error)
	// ListUpcomingNotes returns notes of every user due at or after the given time.
	ListUpcomingNotes(ctx context.Context, after time.Time) ([]VoiceNote, error)
}

// Store is the full persistence collaborator.
type Store interface {
	UsersRepository
	RemindersRepository
	VoiceNotesRepository
}
