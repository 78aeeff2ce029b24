package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver_ForeignKeysEnabled(t *testing.T) {
	db, err := sql.Open(DriverName, filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer db.Close()

	var on int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&on))
	assert.Equal(t, 1, on)
}

func TestDriver_RejectsOrphanRows(t *testing.T) {
	db, err := sql.Open(DriverName, filepath.Join(t.TempDir(), "orphan.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE parents (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE children (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id TEXT NOT NULL REFERENCES parents(id) ON DELETE CASCADE
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO children (parent_id) VALUES ('ghost')`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO parents (id) VALUES ('p1')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO children (parent_id) VALUES ('p1')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM parents WHERE id = 'p1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM children`).Scan(&n))
	assert.Zero(t, n)
}
