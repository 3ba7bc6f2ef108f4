package db

import (
	"fmt"
)

// runMigrations applies database migrations for existing databases
func (db *DB) runMigrations() error {
	// Migration 1: Add updated_at to kv (early files only stored key/value)
	if err := db.migration001KVUpdatedAt(); err != nil {
		return fmt.Errorf("migration 001: %w", err)
	}

	// Migration 2: Add recorded_at to personal_records
	if err := db.migration002RecordedAt(); err != nil {
		return fmt.Errorf("migration 002: %w", err)
	}

	// Migration 3: Index records by date for the history listing
	if err := db.migration003RecordsIndex(); err != nil {
		return fmt.Errorf("migration 003: %w", err)
	}

	return nil
}

// hasColumn reports whether table has the named column
func (db *DB) hasColumn(table, column string) (bool, error) {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// migration001KVUpdatedAt adds the updated_at column to kv
func (db *DB) migration001KVUpdatedAt() error {
	has, err := db.hasColumn("kv", "updated_at")
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	// SQLite rejects non-constant defaults on ALTER TABLE, so backfill separately
	if _, err := db.conn.Exec(`ALTER TABLE kv ADD COLUMN updated_at DATETIME`); err != nil {
		return fmt.Errorf("add updated_at column: %w", err)
	}
	_, err = db.conn.Exec(`UPDATE kv SET updated_at = CURRENT_TIMESTAMP WHERE updated_at IS NULL`)
	return err
}

// migration002RecordedAt adds recorded_at to personal_records
func (db *DB) migration002RecordedAt() error {
	has, err := db.hasColumn("personal_records", "recorded_at")
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	if _, err := db.conn.Exec(`ALTER TABLE personal_records ADD COLUMN recorded_at DATETIME`); err != nil {
		return fmt.Errorf("add recorded_at column: %w", err)
	}
	_, err = db.conn.Exec(`UPDATE personal_records SET recorded_at = achieved_at WHERE recorded_at IS NULL`)
	return err
}

// migration003RecordsIndex creates the achieved_at index
func (db *DB) migration003RecordsIndex() error {
	_, err := db.conn.Exec(`CREATE INDEX IF NOT EXISTS idx_records_achieved_at ON personal_records(achieved_at)`)
	return err
}
