package search

import (
	"math"

	"github.com/neilberkman/runclub/internal/core/models"
)

// ComputeMatchScore returns the smallest distance in seconds per km between
// any of the session's offered group averages and any of the runner's
// reference points. Lower is a closer match. The session is unscored when
// paces is nil, defines no point, or the session offers no group with a pace.
func ComputeMatchScore(s models.Session, paces *models.ReferencePaces) (float64, bool) {
	if paces == nil {
		return 0, false
	}
	points := paces.Points()
	if len(points) == 0 {
		return 0, false
	}

	best := math.Inf(1)
	for _, g := range s.OfferedGroups() {
		if g.AvgPaceSecondsPerKm <= 0 {
			continue
		}
		for _, p := range points {
			best = math.Min(best, math.Abs(g.AvgPaceSecondsPerKm-p))
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}
