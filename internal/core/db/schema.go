package db

func (db *DB) initSchema() error {
	schema := `
	-- Key/value documents: one JSON array per logical store
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Personal records: best effort per distance category
	CREATE TABLE IF NOT EXISTS personal_records (
		category TEXT PRIMARY KEY,
		distance_meters REAL NOT NULL,
		duration_seconds INTEGER NOT NULL,
		achieved_at DATETIME NOT NULL,
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Session files already imported, by content hash
	CREATE TABLE IF NOT EXISTS import_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_path TEXT NOT NULL,
		file_hash TEXT NOT NULL UNIQUE,
		sessions_imported INTEGER NOT NULL DEFAULT 0,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}
