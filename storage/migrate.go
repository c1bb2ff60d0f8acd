package storage

import (
	"database/sql"

	"github.com/tbrumbaugh5396/graph-canvas/errors"
)

// migrations are applied in order; schema_version tracks the last one
// applied.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS graphs (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		doc        TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_graphs_name ON graphs(name)`,
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return errors.Wrap(err, "failed to create schema_version table")
	}

	var version int
	err := db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return errors.Wrap(err, "failed to seed schema version")
		}
		version = 0
	} else if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}

	for i := version; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return errors.Wrapf(err, "migration %d failed", i+1)
		}
		if _, err := db.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			return errors.Wrapf(err, "failed to record migration %d", i+1)
		}
	}
	return nil
}
