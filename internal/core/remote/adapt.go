// Package remote adapts club API session payloads into local sessions.
package remote

import (
	"strings"

	"github.com/neilberkman/runclub/internal/core/models"
)

// Payload is a session as served by the club API. Group and date fields are
// optional there.
type Payload struct {
	ID                  string                     `json:"id"`
	Title               string                     `json:"title"`
	Spot                string                     `json:"spot"`
	DateLabel           string                     `json:"dateLabel"`
	DateISO             string                     `json:"dateISO"`
	TimeMinutes         *int                       `json:"timeMinutes"`
	TypeLabel           string                     `json:"typeLabel"`
	Volume              string                     `json:"volume"`
	TargetPace          string                     `json:"targetPace"`
	EstimatedDistanceKm float64                    `json:"estimatedDistanceKm"`
	RecommendedGroupID  string                     `json:"recommendedGroupId"`
	PaceGroups          []models.PaceGroup         `json:"paceGroups"`
	PaceGroupsOverride  []models.PaceGroupOverride `json:"paceGroupsOverride"`
	WorkoutID           string                     `json:"workoutId"`
	Visibility          string                     `json:"visibility"`
	HostGroupName       string                     `json:"hostGroupName"`
	GenderRestriction   string                     `json:"genderRestriction"`
	ClubID              string                     `json:"clubId"`
}

// defaultPaceSeconds backs the placeholder group when targetPace is unusable
const defaultPaceSeconds = 300.0

// Adapt converts a payload into a Session: visibility defaults to public,
// isCustom is set, a payload carrying only overrides gets paceGroups derived
// from its active paced overrides, and a payload without groups gets one
// placeholder group built from recommendedGroupId and targetPace.
func Adapt(p Payload) models.Session {
	s := models.Session{
		ID:                  p.ID,
		Title:               p.Title,
		Spot:                p.Spot,
		DateLabel:           p.DateLabel,
		DateISO:             p.DateISO,
		TimeMinutes:         p.TimeMinutes,
		TypeLabel:           p.TypeLabel,
		Volume:              p.Volume,
		TargetPace:          p.TargetPace,
		EstimatedDistanceKm: p.EstimatedDistanceKm,
		RecommendedGroupID:  p.RecommendedGroupID,
		PaceGroups:          p.PaceGroups,
		PaceGroupsOverride:  p.PaceGroupsOverride,
		WorkoutID:           p.WorkoutID,
		IsCustom:            true,
		Visibility:          models.Visibility(p.Visibility),
		HostGroupName:       p.HostGroupName,
		GenderRestriction:   p.GenderRestriction,
		ClubID:              p.ClubID,
	}
	if s.Visibility == "" {
		s.Visibility = models.VisibilityPublic
	}
	if s.Title == "" {
		s.Title = s.TypeLabel
	}

	if len(s.PaceGroups) == 0 && len(s.PaceGroupsOverride) > 0 {
		s.PaceGroups = groupsFromOverrides(s.PaceGroupsOverride)
	}

	if len(s.PaceGroups) == 0 && len(s.PaceGroupsOverride) == 0 {
		id := s.RecommendedGroupID
		if id == "" {
			id = "A"
			s.RecommendedGroupID = id
		}
		avg, ok := models.ParsePace(p.TargetPace)
		if !ok {
			avg = defaultPaceSeconds
		}
		s.PaceGroups = []models.PaceGroup{{
			ID:                  id,
			Label:               "Groupe " + id,
			PaceRange:           strings.TrimSuffix(strings.TrimSpace(p.TargetPace), "/km") + "/km",
			AvgPaceSecondsPerKm: avg,
		}}
		if !ok {
			s.PaceGroups[0].PaceRange = models.FormatPace(avg) + "/km"
		}
	}
	return s.Clone()
}

// groupsFromOverrides lists the active overrides that carry a pace as groups
func groupsFromOverrides(overrides []models.PaceGroupOverride) []models.PaceGroup {
	groups := []models.PaceGroup{}
	for _, o := range overrides {
		if !o.IsActive || o.PaceSecondsPerKm == nil || *o.PaceSecondsPerKm <= 0 {
			continue
		}
		g := models.PaceGroup{
			ID:                  o.ID,
			Label:               "Groupe " + o.ID,
			PaceRange:           o.PaceRange,
			AvgPaceSecondsPerKm: *o.PaceSecondsPerKm,
		}
		if g.PaceRange == "" {
			g.PaceRange = models.FormatPace(g.AvgPaceSecondsPerKm) + "/km"
		}
		groups = append(groups, g)
	}
	return groups
}
