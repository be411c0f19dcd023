package session

import (
	"database/sql"
	"fmt"
)

// All contains the ordered list of migrations to apply.
var All = []string{
	`CREATE TABLE documents (
		id         INTEGER PRIMARY KEY,
		path       TEXT UNIQUE NOT NULL,
		language   TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE revisions (
		id              INTEGER PRIMARY KEY,
		document_id     INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		number          INTEGER NOT NULL,
		content         BLOB NOT NULL,
		has_error       INTEGER NOT NULL DEFAULT 0,
		tokens_scanned  INTEGER NOT NULL DEFAULT 0,
		subtrees_reused INTEGER NOT NULL DEFAULT 0,
		bytes_reused    INTEGER NOT NULL DEFAULT 0,
		created_at      INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		UNIQUE (document_id, number)
	)`,
	`CREATE INDEX revisions_by_document ON revisions (document_id, number DESC)`,
	`ALTER TABLE documents ADD COLUMN language_version INTEGER NOT NULL DEFAULT 0`,
}

// Migrate brings db up to the latest schema. Each migration runs in its own
// transaction together with the version bump.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)
	if err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return fmt.Errorf("checking schema_version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("initializing schema version: %w", err)
		}
	}

	var current int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(All); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(All[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}

		if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("updating schema version to %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}

	return nil
}
