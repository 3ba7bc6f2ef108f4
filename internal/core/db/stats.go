package db

import (
	"database/sql"
	"time"
)

// KeyStats describes one stored document
type KeyStats struct {
	Key       string
	Bytes     int
	UpdatedAt time.Time
}

// Stats represents database statistics
type Stats struct {
	Keys          []KeyStats
	TotalRecords  int
	OldestRecord  time.Time
	NewestRecord  time.Time
	ImportedFiles int
}

// GetStats returns storage statistics for the stats command
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	rows, err := db.conn.Query(`SELECT key, LENGTH(value), updated_at FROM kv ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ks KeyStats
		var updated sql.NullString
		if err := rows.Scan(&ks.Key, &ks.Bytes, &updated); err != nil {
			return nil, err
		}
		if updated.Valid {
			ks.UpdatedAt = parseTimestamp(updated.String)
		}
		stats.Keys = append(stats.Keys, ks)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Personal records
	err = db.QueryRow("SELECT COUNT(*) FROM personal_records").Scan(&stats.TotalRecords)
	if err != nil {
		return nil, err
	}

	// Date range (only if we have records)
	if stats.TotalRecords > 0 {
		var minAchieved, maxAchieved sql.NullString
		err = db.QueryRow("SELECT MIN(achieved_at), MAX(achieved_at) FROM personal_records").Scan(&minAchieved, &maxAchieved)
		if err != nil {
			return nil, err
		}
		if minAchieved.Valid {
			stats.OldestRecord = parseTimestamp(minAchieved.String)
		}
		if maxAchieved.Valid {
			stats.NewestRecord = parseTimestamp(maxAchieved.String)
		}
	}

	err = db.QueryRow("SELECT COUNT(*) FROM import_log").Scan(&stats.ImportedFiles)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// parseTimestamp accepts the layouts SQLite and the driver write
func parseTimestamp(s string) time.Time {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
