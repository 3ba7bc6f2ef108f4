package store

import (
	"time"

	"github.com/neilberkman/runclub/internal/core/datetime"
	"github.com/neilberkman/runclub/internal/core/models"
)

// MigrateRecords backfills dateISO and timeMinutes from dateLabel on records
// that lack a canonical date. It reports whether any record changed.
// Applying it to its own output changes nothing.
func MigrateRecords(records []models.Session, now time.Time) ([]models.Session, bool) {
	out := make([]models.Session, len(records))
	changed := false

	for i, s := range records {
		out[i] = s
		if s.HasCanonicalDate() || s.DateLabel == "" {
			continue
		}
		p, ok := datetime.ParseLabel(s.DateLabel, now)
		if !ok {
			continue
		}
		minutes := p.TimeMinutes
		migrated := s.Clone()
		migrated.DateISO = p.DateISO
		migrated.TimeMinutes = &minutes
		out[i] = migrated
		changed = true
	}
	return out, changed
}
