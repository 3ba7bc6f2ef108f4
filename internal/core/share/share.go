// Package share renders the text card a runner pastes to invite others to
// a session.
package share

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"

	"github.com/neilberkman/runclub/internal/core/datetime"
	"github.com/neilberkman/runclub/internal/core/models"
)

// Data builds the template context for s
func Data(s models.Session, now time.Time) map[string]interface{} {
	groups := make([]map[string]interface{}, 0, len(s.PaceGroups))
	for _, g := range s.OfferedGroups() {
		paceRange := g.PaceRange
		if paceRange == "" && g.AvgPaceSecondsPerKm > 0 {
			paceRange = models.FormatPace(g.AvgPaceSecondsPerKm) + "/km"
		}
		groups = append(groups, map[string]interface{}{
			"id":          g.ID,
			"label":       g.Label,
			"pace_range":  paceRange,
			"recommended": g.ID == s.RecommendedGroupID,
		})
	}

	distance := ""
	if s.EstimatedDistanceKm > 0 {
		distance = strconv.FormatFloat(s.EstimatedDistanceKm, 'f', -1, 64)
	}

	return map[string]interface{}{
		"id":          s.ID,
		"title":       s.Title,
		"spot":        s.Spot,
		"date_label":  s.DateLabel,
		"relative":    Relative(s, now),
		"type_label":  s.TypeLabel,
		"volume":      s.Volume,
		"target_pace": s.TargetPace,
		"distance":    distance,
		"groups":      groups,
		"women_only":  s.GenderRestriction == models.GenderWomenOnly,
		"members":     s.Visibility == models.VisibilityMembers,
		"host_group":  s.HostGroupName,
	}
}

// Relative describes when s starts ("in 3 days"), or "" without a usable date
func Relative(s models.Session, now time.Time) string {
	var start time.Time
	switch {
	case s.HasCanonicalDate():
		t, ok := datetime.CombineDateTime(s.DateISO, s.Minutes(), now.Location())
		if !ok {
			return ""
		}
		start = t
	default:
		p, ok := datetime.ParseLabel(s.DateLabel, now)
		if !ok {
			return ""
		}
		start = p.Date
	}
	return humanize.RelTime(start, now, "ago", "from now")
}

// Render fills tmpl with s
func Render(tmpl string, s models.Session, now time.Time) (string, error) {
	out, err := mustache.Render(tmpl, Data(s, now))
	if err != nil {
		return "", fmt.Errorf("failed to render share card: %w", err)
	}
	return out, nil
}
