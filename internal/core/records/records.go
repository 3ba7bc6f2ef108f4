// Package records keeps the runner's personal bests and derives pace zones
// from them.
package records

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/neilberkman/runclub/internal/core/models"
)

// Category is a race distance a personal record is kept for
type Category string

const (
	Category1K       Category = "1k"
	Category5K       Category = "5k"
	Category10K      Category = "10k"
	CategoryHalf     Category = "semi"
	CategoryMarathon Category = "marathon"
)

var categoryMeters = map[Category]float64{
	Category1K:       1000,
	Category5K:       5000,
	Category10K:      10000,
	CategoryHalf:     21097.5,
	CategoryMarathon: 42195,
}

// Categories lists every category, shortest first
func Categories() []Category {
	out := make([]Category, 0, len(categoryMeters))
	for c := range categoryMeters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return categoryMeters[out[i]] < categoryMeters[out[j]] })
	return out
}

// ParseCategory accepts a category id or a common alias ("half", "21k")
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1k", "1km", "1000":
		return Category1K, true
	case "5k", "5km":
		return Category5K, true
	case "10k", "10km":
		return Category10K, true
	case "semi", "half", "21k", "semi-marathon":
		return CategoryHalf, true
	case "marathon", "42k":
		return CategoryMarathon, true
	}
	return "", false
}

// Meters returns the nominal distance of c
func (c Category) Meters() float64 {
	return categoryMeters[c]
}

// ParseDuration reads "mm:ss" or "h:mm:ss" into seconds. Minutes and
// seconds after the first field must be two digits below 60.
func ParseDuration(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, false
		}
		if i > 0 && (len(part) != 2 || n >= 60) {
			return 0, false
		}
		total = total*60 + n
	}
	if total == 0 {
		return 0, false
	}
	return total, true
}

// FormatDuration renders seconds as "mm:ss", or "h:mm:ss" from one hour up
func FormatDuration(seconds int) string {
	h, m, sec := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// Record is a personal best effort
type Record struct {
	Category        Category  `db:"category" json:"category"`
	DistanceMeters  float64   `db:"distance_meters" json:"distanceMeters"`
	DurationSeconds int       `db:"duration_seconds" json:"durationSeconds"`
	AchievedAt      Timestamp `db:"achieved_at" json:"achievedAt"`
}

// Pace returns seconds per km
func (r Record) Pace() float64 {
	if r.DistanceMeters <= 0 {
		return 0
	}
	return float64(r.DurationSeconds) / (r.DistanceMeters / 1000)
}

// Validate checks a record before it is stored
func (r Record) Validate() error {
	if _, ok := categoryMeters[r.Category]; !ok {
		return fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, r.Category)
	}
	if r.DistanceMeters <= 0 {
		return fmt.Errorf("%w: distance must be positive", models.ErrInvalidInput)
	}
	if r.DurationSeconds <= 0 {
		return fmt.Errorf("%w: duration must be positive", models.ErrInvalidInput)
	}
	if r.AchievedAt.IsZero() {
		return fmt.Errorf("%w: achievedAt is required", models.ErrInvalidInput)
	}
	return nil
}

// Timestamp is a time stored as RFC 3339 text. The SQLite driver hands back
// DATETIME columns either as time.Time or as text depending on how they were
// written.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Scan implements sql.Scanner
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Timestamp", src)
}

func (t *Timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// Value implements driver.Valuer
func (t Timestamp) Value() (driver.Value, error) {
	return t.UTC().Format(time.RFC3339), nil
}
