package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/aide/internal/core"
)

const voiceNoteColumns = `id, user_id, title, content, category, priority, due_at, created_at, updated_at`

type VoiceNotesRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewVoiceNotesRepo(db *sql.DB) *VoiceNotesRepo {
	return &VoiceNotesRepo{db: db, now: time.Now}
}

func (r *VoiceNotesRepo) CreateVoiceNote(ctx context.Context, n core.VoiceNote) (core.VoiceNote, error) {
	if n.UserID == "" {
		return core.VoiceNote{}, errors.New("note user id is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return core.VoiceNote{}, errors.New("note title is required")
	}
	if n.Priority == "" {
		n.Priority = core.PriorityMedium
	}

	now := r.now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.VoiceNote{}, err
	}
	defer tx.Rollback()

	if err := ensureUser(ctx, tx, n.UserID, now); err != nil {
		return core.VoiceNote{}, err
	}

	query := `INSERT INTO voice_notes (user_id, title, content, category, priority, due_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, query,
		n.UserID, n.Title, n.Content, n.Category, n.Priority, toMillis(n.DueDate), toMillis(now), toMillis(now))
	if err != nil {
		return core.VoiceNote{}, fmt.Errorf("failed to insert voice note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.VoiceNote{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.VoiceNote{}, err
	}

	n.ID = id
	n.DueDate = fromMillis(toMillis(n.DueDate))
	n.CreatedAt = fromMillis(toMillis(now))
	n.UpdatedAt = n.CreatedAt
	return n, nil
}

func (r *VoiceNotesRepo) GetVoiceNote(ctx context.Context, id int64) (core.VoiceNote, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+voiceNoteColumns+` FROM voice_notes WHERE id = ?`, id)
	n, err := scanVoiceNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.VoiceNote{}, core.ErrNotFound
	}
	if err != nil {
		return core.VoiceNote{}, fmt.Errorf("failed to get voice note: %w", err)
	}
	return n, nil
}

func (r *VoiceNotesRepo) UpdateVoiceNote(ctx context.Context, n core.VoiceNote) (core.VoiceNote, error) {
	query := `UPDATE voice_notes SET title = ?, content = ?, category = ?, priority = ?, due_at = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		n.Title, n.Content, n.Category, n.Priority, toMillis(n.DueDate), toMillis(r.now()), n.ID)
	if err != nil {
		return core.VoiceNote{}, fmt.Errorf("failed to update voice note: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return core.VoiceNote{}, err
	}
	return r.GetVoiceNote(ctx, n.ID)
}

func (r *VoiceNotesRepo) DeleteVoiceNote(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM voice_notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete voice note: %w", err)
	}
	return checkAffected(res)
}

func (r *VoiceNotesRepo) ListVoiceNotes(ctx context.Context, userID string) ([]core.VoiceNote, error) {
	return r.query(ctx, `SELECT `+voiceNoteColumns+` FROM voice_notes WHERE user_id = ? ORDER BY due_at ASC, id ASC`, userID)
}

func (r *VoiceNotesRepo) ListUpcomingNotes(ctx context.Context, after time.Time) ([]core.VoiceNote, error) {
	return r.query(ctx, `SELECT `+voiceNoteColumns+` FROM voice_notes WHERE due_at >= ? ORDER BY due_at ASC, id ASC`, toMillis(after))
}

func (r *VoiceNotesRepo) query(ctx context.Context, query string, args ...any) ([]core.VoiceNote, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query voice notes: %w", err)
	}
	defer rows.Close()

	var out []core.VoiceNote
	for rows.Next() {
		n, err := scanVoiceNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voice note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanVoiceNote(s scanner) (core.VoiceNote, error) {
	var (
		n                     core.VoiceNote
		due, created, updated int64
	)
	err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Category, &n.Priority, &due, &created, &updated)
	if err != nil {
		return core.VoiceNote{}, err
	}
	n.DueDate = fromMillis(due)
	n.CreatedAt = fromMillis(created)
	n.UpdatedAt = fromMillis(updated)
	return n, nil
}
