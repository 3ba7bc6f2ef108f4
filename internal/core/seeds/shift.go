package seeds

import (
	"time"

	"github.com/neilberkman/runclub/internal/core/datetime"
	"github.com/neilberkman/runclub/internal/core/models"
)

// ShiftToFuture moves a seed forward by whole weeks until it starts strictly
// after now, regenerating dateISO and dateLabel. Sessions without canonical
// date fields come back unchanged. The input is never modified.
func ShiftToFuture(s models.Session, now time.Time) models.Session {
	if !s.HasCanonicalDate() {
		return s
	}
	minutes := s.Minutes()
	start, ok := datetime.CombineDateTime(s.DateISO, minutes, now.Location())
	if !ok {
		return s
	}
	if start.After(now) {
		return s
	}

	for !start.After(now) {
		start = start.AddDate(0, 0, 7)
	}

	shifted := s.Clone()
	shifted.DateISO = datetime.FormatDateISO(start)
	shifted.DateLabel = datetime.FormatLabel(start, minutes)
	return shifted
}

// ShiftAll applies ShiftToFuture to every seed
func ShiftAll(seeds []models.Session, now time.Time) []models.Session {
	out := make([]models.Session, len(seeds))
	for i, s := range seeds {
		out[i] = ShiftToFuture(s, now)
	}
	return out
}
