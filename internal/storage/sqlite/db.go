package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/pkg/log"
	"github.com/sandevgo/aide/pkg/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func NewDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open(sqlite.DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(log.NewGooseLoggerFromCtx(ctx))

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// Store bundles every repository over a single database handle.
type Store struct {
	*UsersRepo
	*RemindersRepo
	*VoiceNotesRepo
}

var _ core.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{
		UsersRepo:      NewUsersRepo(db),
		RemindersRepo:  NewRemindersRepo(db),
		VoiceNotesRepo: NewVoiceNotesRepo(db),
	}
}

// Timestamps are stored as unix milliseconds.
func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ensureUser creates a bare user row so items can reference it.
func ensureUser(ctx context.Context, ex execer, userID string, now time.Time) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO users (id, created_at, updated_at) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		userID, toMillis(now), toMillis(now))
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
