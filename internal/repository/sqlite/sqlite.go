// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// The store is deliberately a single embedded database: this is an internal
// admin tool with one instance, so SQLite (pure-Go modernc.org/sqlite build,
// no CGo) gives us durable storage and a real UNIQUE constraint without any
// infrastructure. Pass ":memory:" for an ephemeral database — tests use it,
// and so does the production mode that treats the user table as disposable.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the user repository
// methods. Constructed once in the server's composition root and closed on
// shutdown.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and runs migrations.
//
// WAL mode matters here: requests are handled concurrently and the default
// rollback journal locks the whole file during writes. WAL lets reads
// proceed while an admin edit is committing.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One pooled connection: every connection to ":memory:" is a separate
	// database, and SQLite serializes writers anyway, so a bigger pool buys
	// nothing here except SQLITE_BUSY errors under concurrent admin edits.
	conn.SetMaxOpenConns(1)

	// Surface a bad path or permissions problem now, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Call it on shutdown to flush
// the WAL and release the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the users table.
//
// Two constraints carry real invariants:
//   - INTEGER PRIMARY KEY AUTOINCREMENT guarantees ids are store-assigned
//     and never reused, even after (hypothetical) deletes.
//   - UNIQUE(oauth_id) is the storage-layer guard for the duplicate-create
//     race: concurrent first logins for the same subject make the losing
//     INSERT fail deterministically instead of producing a second row.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			oauth_id   TEXT NOT NULL UNIQUE,
			email      TEXT NOT NULL DEFAULT '',
			name       TEXT NOT NULL DEFAULT '',
			picture    TEXT NOT NULL DEFAULT '',
			credits    INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_oauth_id ON users(oauth_id);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// The modernc driver surfaces these as plain errors carrying SQLite's
// "UNIQUE constraint failed: table.column" message, so we match on that.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
