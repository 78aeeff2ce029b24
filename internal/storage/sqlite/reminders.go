package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/pkg/log"
)

const (
	reminderColumns     = `id, user_id, kind, title, description, location, category, priority, due_at, completed, created_at, updated_at`
	defaultPollInterval = time.Second
)

type RemindersRepo struct {
	db           *sql.DB
	now          func() time.Time
	pollInterval time.Duration
}

func NewRemindersRepo(db *sql.DB) *RemindersRepo {
	return &RemindersRepo{db: db, now: time.Now, pollInterval: defaultPollInterval}
}

func (r *RemindersRepo) CreateReminder(ctx context.Context, rem core.Reminder) (core.Reminder, error) {
	if rem.UserID == "" {
		return core.Reminder{}, errors.New("reminder user id is required")
	}
	if strings.TrimSpace(rem.Title) == "" {
		return core.Reminder{}, errors.New("reminder title is required")
	}
	if rem.Kind == "" {
		rem.Kind = core.DomainReminder
	}
	if rem.Priority == "" {
		rem.Priority = core.PriorityMedium
	}

	now := r.now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Reminder{}, err
	}
	defer tx.Rollback()

	if err := ensureUser(ctx, tx, rem.UserID, now); err != nil {
		return core.Reminder{}, err
	}

	query := `INSERT INTO reminders (user_id, kind, title, description, location, category, priority, due_at, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, query,
		rem.UserID, rem.Kind, rem.Title, rem.Description, rem.Location, rem.Category, rem.Priority,
		toMillis(rem.DueDate), rem.Completed, toMillis(now), toMillis(now))
	if err != nil {
		return core.Reminder{}, fmt.Errorf("failed to insert reminder: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Reminder{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Reminder{}, err
	}

	rem.ID = id
	rem.DueDate = fromMillis(toMillis(rem.DueDate))
	rem.CreatedAt = fromMillis(toMillis(now))
	rem.UpdatedAt = rem.CreatedAt
	return rem, nil
}

func (r *RemindersRepo) GetReminder(ctx context.Context, id int64) (core.Reminder, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	rem, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Reminder{}, core.ErrNotFound
	}
	if err != nil {
		return core.Reminder{}, fmt.Errorf("failed to get reminder: %w", err)
	}
	return rem, nil
}

func (r *RemindersRepo) UpdateReminder(ctx context.Context, rem core.Reminder) (core.Reminder, error) {
	query := `UPDATE reminders SET kind = ?, title = ?, description = ?, location = ?, category = ?, priority = ?,
		due_at = ?, completed = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		rem.Kind, rem.Title, rem.Description, rem.Location, rem.Category, rem.Priority,
		toMillis(rem.DueDate), rem.Completed, toMillis(r.now()), rem.ID)
	if err != nil {
		return core.Reminder{}, fmt.Errorf("failed to update reminder: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return core.Reminder{}, err
	}
	return r.GetReminder(ctx, rem.ID)
}

func (r *RemindersRepo) DeleteReminder(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return checkAffected(res)
}

// ListReminders returns the user's items ordered by due date, earliest first.
func (r *RemindersRepo) ListReminders(ctx context.Context, userID string, f core.ReminderFilter) ([]core.Reminder, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID}
	)
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, f.Kind)
	}
	if f.PendingOnly {
		where = append(where, "completed = 0")
	}

	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE ` + strings.Join(where, " AND ") + ` ORDER BY due_at ASC, id ASC`
	return r.query(ctx, query, args...)
}

// ListUpcoming returns every pending item of every user due at or after the given time.
func (r *RemindersRepo) ListUpcoming(ctx context.Context, after time.Time) ([]core.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE completed = 0 AND due_at >= ? ORDER BY due_at ASC, id ASC`
	return r.query(ctx, query, toMillis(after))
}

// WatchReminders emits the user's full list once, then again whenever it changes.
// The channel is closed when ctx is done.
func (r *RemindersRepo) WatchReminders(ctx context.Context, userID string) (<-chan []core.Reminder, error) {
	last, err := r.ListReminders(ctx, userID, core.ReminderFilter{})
	if err != nil {
		return nil, err
	}

	updates := make(chan []core.Reminder, 1)
	updates <- last

	go func() {
		defer close(updates)

		ticker := time.NewTicker(r.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current, err := r.ListReminders(ctx, userID, core.ReminderFilter{})
				if err != nil {
					if ctx.Err() == nil {
						log.FromCtx(ctx).Warn().Err(err).Str("user", userID).Msg("failed to poll reminders")
					}
					continue
				}

				if slices.Equal(current, last) {
					continue
				}
				last = current

				select {
				case updates <- current:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return updates, nil
}

func (r *RemindersRepo) query(ctx context.Context, query string, args ...any) ([]core.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var out []core.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(s scanner) (core.Reminder, error) {
	var (
		rem                   core.Reminder
		due, created, updated int64
	)
	err := s.Scan(&rem.ID, &rem.UserID, &rem.Kind, &rem.Title, &rem.Description, &rem.Location,
		&rem.Category, &rem.Priority, &due, &rem.Completed, &created, &updated)
	if err != nil {
		return core.Reminder{}, err
	}
	rem.DueDate = fromMillis(due)
	rem.CreatedAt = fromMillis(created)
	rem.UpdatedAt = fromMillis(updated)
	return rem, nil
}
