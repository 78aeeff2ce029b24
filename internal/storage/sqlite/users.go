package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/aide/internal/core"
)

type UsersRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db, now: time.Now}
}

func (r *UsersRepo) UpsertUser(ctx context.Context, u core.User) error {
	if u.ID == "" {
		return errors.New("user id is required")
	}
	now := toMillis(r.now())
	query := `INSERT INTO users (id, name, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Name, u.Email, now, now); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *UsersRepo) GetUser(ctx context.Context, id string) (core.User, error) {
	var (
		u                core.User
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	return u, nil
}

// DeleteUser removes the user together with every item they own.
func (r *UsersRepo) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(res)
}
