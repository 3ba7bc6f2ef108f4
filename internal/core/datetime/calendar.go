package datetime

import (
	"time"

	"github.com/neilberkman/runclub/internal/core/models"
)

const isoLayout = "2006-01-02"

// FormatDateISO renders t as YYYY-MM-DD
func FormatDateISO(t time.Time) string {
	return t.Format(isoLayout)
}

// ParseDateISO parses a YYYY-MM-DD date at midnight in loc
func ParseDateISO(dateISO string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(isoLayout, dateISO, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CombineDateTime builds the local instant for a canonical (dateISO, timeMinutes) pair
func CombineDateTime(dateISO string, timeMinutes int, loc *time.Location) (time.Time, bool) {
	d, ok := ParseDateISO(dateISO, loc)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(d.Year(), d.Month(), d.Day(), timeMinutes/60, timeMinutes%60, 0, 0, loc), true
}

// StartOfDay truncates t to local midnight
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsFutureDate reports whether dateISO is today or later. Time of day is ignored.
func IsFutureDate(dateISO string, now time.Time) bool {
	d, ok := ParseDateISO(dateISO, now.Location())
	if !ok {
		return false
	}
	return !d.Before(StartOfDay(now))
}

// IsDateInRange reports whether dateISO falls in bucket relative to now.
// The week runs Sunday to Saturday.
func IsDateInRange(dateISO string, bucket models.DateBucket, now time.Time) bool {
	if bucket == "" {
		return true
	}
	d, ok := ParseDateISO(dateISO, now.Location())
	if !ok {
		return false
	}
	today := StartOfDay(now)

	switch bucket {
	case models.BucketToday:
		return d.Equal(today)
	case models.BucketThisWeek:
		weekStart := today.AddDate(0, 0, -int(today.Weekday()))
		weekEnd := weekStart.AddDate(0, 0, 6)
		return !d.Before(weekStart) && !d.After(weekEnd)
	case models.BucketThisMonth:
		return d.Year() == today.Year() && d.Month() == today.Month()
	}
	return false
}

// IsDateInCustomRange reports whether dateISO lies within r, bounds included.
// An empty bound leaves that side open.
func IsDateInCustomRange(dateISO string, r models.DateRange) bool {
	d, ok := ParseDateISO(dateISO, time.UTC)
	if !ok {
		return false
	}
	if r.Start != "" {
		start, ok := ParseDateISO(r.Start, time.UTC)
		if ok && d.Before(start) {
			return false
		}
	}
	if r.End != "" {
		end, ok := ParseDateISO(r.End, time.UTC)
		if ok && d.After(end) {
			return false
		}
	}
	return true
}

// SessionDate returns the calendar date of s: canonical when present, else
// parsed from the legacy label.
func SessionDate(s models.Session, now time.Time) (string, bool) {
	if s.HasCanonicalDate() {
		return s.DateISO, true
	}
	if p, ok := ParseLabel(s.DateLabel, now); ok {
		return p.DateISO, true
	}
	return "", false
}
