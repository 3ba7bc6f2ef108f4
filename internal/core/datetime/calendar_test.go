package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/neilberkman/runclub/internal/core/models"
)

func TestIsFutureDate(t *testing.T) {
	now := at(2025, time.November, 5, 23, 30)

	assert.True(t, IsFutureDate("2025-11-05", now), "today counts as future")
	assert.True(t, IsFutureDate("2025-11-06", now))
	assert.False(t, IsFutureDate("2025-11-04", now))
	assert.False(t, IsFutureDate("garbage", now))
}

func TestIsDateInRange(t *testing.T) {
	// Wednesday 5 November 2025; the week runs Sunday 2 to Saturday 8
	now := at(2025, time.November, 5, 8, 0)

	tests := []struct {
		dateISO string
		bucket  models.DateBucket
		want    bool
	}{
		{"2025-11-05", models.BucketToday, true},
		{"2025-11-06", models.BucketToday, false},
		{"2025-11-02", models.BucketThisWeek, true},
		{"2025-11-08", models.BucketThisWeek, true},
		{"2025-11-01", models.BucketThisWeek, false},
		{"2025-11-09", models.BucketThisWeek, false},
		{"2025-11-30", models.BucketThisMonth, true},
		{"2025-12-01", models.BucketThisMonth, false},
		{"2024-11-15", models.BucketThisMonth, false},
		{"2025-11-30", "", true},
		{"2025-11-30", "someday", false},
		{"not-a-date", models.BucketThisMonth, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.bucket)+"/"+tt.dateISO, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDateInRange(tt.dateISO, tt.bucket, now))
		})
	}
}

func TestIsDateInCustomRange(t *testing.T) {
	r := models.DateRange{Start: "2025-11-10", End: "2025-11-16"}

	assert.True(t, IsDateInCustomRange("2025-11-10", r), "start is inclusive")
	assert.True(t, IsDateInCustomRange("2025-11-16", r), "end is inclusive")
	assert.False(t, IsDateInCustomRange("2025-11-09", r))
	assert.False(t, IsDateInCustomRange("2025-11-17", r))
	assert.True(t, IsDateInCustomRange("2030-01-01", models.DateRange{Start: "2025-11-10"}))
	assert.False(t, IsDateInCustomRange("", r))
}

func TestCombineDateTime(t *testing.T) {
	got, ok := CombineDateTime("2025-11-10", 390, paris)
	assert.True(t, ok)
	assert.Equal(t, at(2025, time.November, 10, 6, 30), got)

	_, ok = CombineDateTime("10-11-2025", 390, paris)
	assert.False(t, ok)
}

func TestSessionDate(t *testing.T) {
	now := at(2025, time.November, 5, 12, 0)

	d, ok := SessionDate(models.Session{DateISO: "2025-12-01", DateLabel: "LUNDI 10 NOVEMBRE 06:00"}, now)
	assert.True(t, ok)
	assert.Equal(t, "2025-12-01", d, "canonical date wins over the label")

	d, ok = SessionDate(models.Session{DateLabel: "LUNDI 10 NOVEMBRE 06:00"}, now)
	assert.True(t, ok)
	assert.Equal(t, "2025-11-10", d)

	_, ok = SessionDate(models.Session{DateLabel: "bientôt"}, now)
	assert.False(t, ok)
}
