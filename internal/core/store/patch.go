package store

import (
	"fmt"
	"time"

	"github.com/neilberkman/runclub/internal/core/datetime"
	"github.com/neilberkman/runclub/internal/core/models"
)

// Patch is a partial session update; nil fields are left unchanged.
// ID and IsCustom are accepted but never applied.
type Patch struct {
	ID                  *string                     `json:"id,omitempty"`
	Title               *string                     `json:"title,omitempty"`
	Spot                *string                     `json:"spot,omitempty"`
	DateLabel           *string                     `json:"dateLabel,omitempty"`
	DateISO             *string                     `json:"dateISO,omitempty"`
	TimeMinutes         *int                        `json:"timeMinutes,omitempty"`
	TypeLabel           *string                     `json:"typeLabel,omitempty"`
	Volume              *string                     `json:"volume,omitempty"`
	TargetPace          *string                     `json:"targetPace,omitempty"`
	EstimatedDistanceKm *float64                    `json:"estimatedDistanceKm,omitempty"`
	RecommendedGroupID  *string                     `json:"recommendedGroupId,omitempty"`
	PaceGroups          *[]models.PaceGroup         `json:"paceGroups,omitempty"`
	PaceGroupsOverride  *[]models.PaceGroupOverride `json:"paceGroupsOverride,omitempty"`
	WorkoutID           *string                     `json:"workoutId,omitempty"`
	IsCustom            *bool                       `json:"isCustom,omitempty"`
	Visibility          *models.Visibility          `json:"visibility,omitempty"`
	HostGroupName       *string                     `json:"hostGroupName,omitempty"`
	GenderRestriction   *string                     `json:"genderRestriction,omitempty"`
	ClubID              *string                     `json:"clubId,omitempty"`
}

// apply merges p over s, then restores the immutable id and isCustom and
// brings dateLabel and the canonical date back in agreement.
func (p Patch) apply(s models.Session, now time.Time) (models.Session, error) {
	merged := s.Clone()

	setString(&merged.ID, p.ID)
	setString(&merged.Title, p.Title)
	setString(&merged.Spot, p.Spot)
	setString(&merged.DateLabel, p.DateLabel)
	setString(&merged.DateISO, p.DateISO)
	if p.TimeMinutes != nil {
		m := *p.TimeMinutes
		merged.TimeMinutes = &m
	}
	setString(&merged.TypeLabel, p.TypeLabel)
	setString(&merged.Volume, p.Volume)
	setString(&merged.TargetPace, p.TargetPace)
	if p.EstimatedDistanceKm != nil {
		merged.EstimatedDistanceKm = *p.EstimatedDistanceKm
	}
	setString(&merged.RecommendedGroupID, p.RecommendedGroupID)
	if p.PaceGroups != nil {
		merged.PaceGroups = append([]models.PaceGroup{}, *p.PaceGroups...)
	}
	if p.PaceGroupsOverride != nil {
		tmp := models.Session{PaceGroupsOverride: *p.PaceGroupsOverride}.Clone()
		merged.PaceGroupsOverride = tmp.PaceGroupsOverride
	}
	setString(&merged.WorkoutID, p.WorkoutID)
	if p.IsCustom != nil {
		merged.IsCustom = *p.IsCustom
	}
	if p.Visibility != nil {
		merged.Visibility = *p.Visibility
	}
	setString(&merged.HostGroupName, p.HostGroupName)
	setString(&merged.GenderRestriction, p.GenderRestriction)
	setString(&merged.ClubID, p.ClubID)

	merged.ID = s.ID
	merged.IsCustom = s.IsCustom

	if err := p.syncDate(&merged, now); err != nil {
		return models.Session{}, err
	}
	return merged, nil
}

// syncDate regenerates dateLabel when dateISO or timeMinutes was patched,
// and re-derives them when only dateLabel was.
func (p Patch) syncDate(s *models.Session, now time.Time) error {
	switch {
	case p.DateISO != nil || p.TimeMinutes != nil:
		if !s.HasCanonicalDate() {
			return nil
		}
		date, ok := datetime.ParseDateISO(s.DateISO, now.Location())
		if !ok {
			return nil
		}
		s.DateLabel = datetime.FormatLabel(date, s.Minutes())
	case p.DateLabel != nil:
		parsed, ok := datetime.ParseLabel(s.DateLabel, now)
		if !ok {
			return fmt.Errorf("%w: dateLabel %q has no recognizable date and time", models.ErrInvalidInput, s.DateLabel)
		}
		minutes := parsed.TimeMinutes
		s.DateISO = parsed.DateISO
		s.TimeMinutes = &minutes
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
