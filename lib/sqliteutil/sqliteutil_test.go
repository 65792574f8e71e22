package sqliteutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenWithSchema(t *testing.T) {
	// the path points into a directory that does not exist yet
	path := filepath.Join(t.TempDir(), "nested", "data.db")

	db, err := OpenWithSchema(
		"CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v TEXT NOT NULL);",
		path,
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("INSERT INTO kv (k, v) VALUES (?, ?)", "a", "b")
	require.NoError(t, err)

	var v string
	err = db.QueryRow("SELECT v FROM kv WHERE k = ?", "a").Scan(&v)
	require.NoError(t, err)
	require.Equal(t, "b", v)
}

func TestOpenWithSchemaIdempotent(t *testing.T) {
	schema := "CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v TEXT NOT NULL);"
	path := filepath.Join(t.TempDir(), "data.db")

	db, err := OpenWithSchema(schema, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenWithSchema(schema, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestOpenInMemory(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	require.NoError(t, err)
	require.NotEmpty(t, mode)
}
