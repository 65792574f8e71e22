// Package sqliteutil opens sqlite databases with the settings the rest of
// the codebase expects: a single connection, WAL journaling and parent
// directories created on demand.
package sqliteutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

func wrapOpen(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// Open opens the sqlite database at path, creating parent directories as
// needed. Pass ":memory:" for an in-memory database.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		os.MkdirAll(filepath.Dir(path), 0777)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapOpen(err)
	}

	// a single writer plus WAL avoids SQLITE_BUSY under concurrent use, see
	// https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, wrapOpen(err)
	}

	return db, nil
}

// OpenWithSchema opens the database and applies the given DDL. The schema
// must be idempotent (CREATE TABLE IF NOT EXISTS and friends) since it runs
// on every open.
func OpenWithSchema(schema, path string) (*sql.DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
