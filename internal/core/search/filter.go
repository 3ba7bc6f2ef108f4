// Package search filters and ranks sessions for a runner.
package search

import (
	"slices"
	"strings"
	"time"

	"github.com/neilberkman/runclub/internal/core/datetime"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/textutil"
)

// paceOverlapBand is the fixed half-width of the window a group's average
// pace covers for pace-range filtering
const paceOverlapBand = 10.0

// WorkoutLookup resolves a session's workoutId
type WorkoutLookup map[string]models.Workout

// Options carries the evaluation context of a query
type Options struct {
	Now      time.Time
	Workouts WorkoutLookup
}

// ApplyFiltersAndSorting drops past sessions, keeps those matching f and
// ranks them. Scored sessions come first by ascending score, then unscored
// ones; each part is ordered chronologically among equals.
func ApplyFiltersAndSorting(sessions []models.Session, f models.FilterState, paces *models.ReferencePaces, opts Options) []models.Session {
	type ranked struct {
		session models.Session
		score   float64
		scored  bool
		key     int64
	}

	var kept []ranked
	for _, s := range sessions {
		if !IsFutureSession(s, opts.Now) || !Matches(s, f, opts) {
			continue
		}
		score, scored := ComputeMatchScore(s, paces)
		kept = append(kept, ranked{
			session: s,
			score:   score,
			scored:  scored,
			key:     datetime.SortKey(s, opts.Now),
		})
	}

	slices.SortStableFunc(kept, func(a, b ranked) int {
		if a.scored != b.scored {
			if a.scored {
				return -1
			}
			return 1
		}
		if a.scored && a.score != b.score {
			if a.score < b.score {
				return -1
			}
			return 1
		}
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	out := make([]models.Session, len(kept))
	for i, r := range kept {
		out[i] = r.session
	}
	return out
}

// IsFutureSession reports whether s is today or later. Sessions without a
// canonical date are kept.
func IsFutureSession(s models.Session, now time.Time) bool {
	if !s.HasCanonicalDate() {
		return true
	}
	return datetime.IsFutureDate(s.DateISO, now)
}

// Matches is the AND of every predicate of f. An unset field matches.
func Matches(s models.Session, f models.FilterState, opts Options) bool {
	return matchesDate(s, f, opts.Now) &&
		matchesType(s, f, opts.Workouts) &&
		matchesSpot(s, f) &&
		matchesPace(s, f) &&
		matchesGender(s, f) &&
		matchesWalking(s, f, opts.Workouts)
}

// MatchesText reports whether every word of text appears in the session's
// title, spot or type, ignoring case and accents
func MatchesText(s models.Session, text string) bool {
	words := strings.Fields(textutil.Fold(text))
	if len(words) == 0 {
		return true
	}
	haystack := textutil.Fold(strings.Join([]string{s.Title, s.Spot, s.TypeLabel, s.HostGroupName}, " "))
	for _, w := range words {
		if !strings.Contains(haystack, w) {
			return false
		}
	}
	return true
}

func matchesDate(s models.Session, f models.FilterState, now time.Time) bool {
	if f.DateBucket == "" && f.CustomRange == nil {
		return true
	}
	dateISO, ok := datetime.SessionDate(s, now)
	if !ok {
		// No usable date: leave it to the other predicates
		return true
	}
	if f.DateBucket != "" && !datetime.IsDateInRange(dateISO, f.DateBucket, now) {
		return false
	}
	if f.CustomRange != nil && !datetime.IsDateInCustomRange(dateISO, *f.CustomRange) {
		return false
	}
	return true
}

func matchesType(s models.Session, f models.FilterState, workouts WorkoutLookup) bool {
	if f.RunType == "" {
		return true
	}
	t, ok := SessionRunTypeID(s, workouts)
	return ok && t == f.RunType
}

func matchesSpot(s models.Session, f models.FilterState) bool {
	return f.Spot == "" || s.Spot == f.Spot
}

// matchesPace tests the filter window against each group's fixed
// [avg-10, avg+10] window, not its displayed range
func matchesPace(s models.Session, f models.FilterState) bool {
	if f.PaceRange == nil {
		return true
	}
	for _, g := range s.OfferedGroups() {
		if g.AvgPaceSecondsPerKm <= 0 {
			continue
		}
		groupMin := g.AvgPaceSecondsPerKm - paceOverlapBand
		groupMax := g.AvgPaceSecondsPerKm + paceOverlapBand
		if groupMin <= f.PaceRange.Max && groupMax >= f.PaceRange.Min {
			return true
		}
	}
	return false
}

// matchesGender only narrows on women_only; any other requested value is
// treated as no restriction.
func matchesGender(s models.Session, f models.FilterState) bool {
	return f.GenderRestriction != models.GenderWomenOnly || s.GenderRestriction == models.GenderWomenOnly
}

func matchesWalking(s models.Session, f models.FilterState, workouts WorkoutLookup) bool {
	if !f.WalkingOnly {
		return true
	}
	t, ok := SessionRunTypeID(s, workouts)
	return ok && t == models.RunTypeWalking
}

// SessionRunTypeID derives the session's run type. A linked workout's type
// takes precedence over the free-text label.
func SessionRunTypeID(s models.Session, workouts WorkoutLookup) (models.RunTypeID, bool) {
	if s.WorkoutID != "" {
		if w, ok := workouts[s.WorkoutID]; ok && w.Type != "" {
			return w.Type, true
		}
	}
	return models.ClassifyTypeLabel(s.TypeLabel)
}
