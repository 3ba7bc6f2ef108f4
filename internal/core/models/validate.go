package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Validate checks the session against the store's record invariants
func (s *Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if s.DateISO != "" {
		if _, err := time.Parse("2006-01-02", s.DateISO); err != nil {
			return fmt.Errorf("%w: dateISO %q is not YYYY-MM-DD", ErrInvalidInput, s.DateISO)
		}
	}
	if s.TimeMinutes != nil && (*s.TimeMinutes < 0 || *s.TimeMinutes > 1439) {
		return fmt.Errorf("%w: timeMinutes %d out of range", ErrInvalidInput, *s.TimeMinutes)
	}
	if math.IsNaN(s.EstimatedDistanceKm) || s.EstimatedDistanceKm < 0 {
		return fmt.Errorf("%w: estimatedDistanceKm must be non-negative", ErrInvalidInput)
	}
	switch s.Visibility {
	case "", VisibilityPublic, VisibilityMembers:
	default:
		return fmt.Errorf("%w: unknown visibility %q", ErrInvalidInput, s.Visibility)
	}

	for _, g := range s.PaceGroups {
		if g.ID == "" {
			return fmt.Errorf("%w: pace group without id", ErrInvalidInput)
		}
		if math.IsNaN(g.AvgPaceSecondsPerKm) || g.AvgPaceSecondsPerKm <= 0 {
			return fmt.Errorf("%w: pace group %s has no average pace", ErrInvalidInput, g.ID)
		}
	}

	seen := make(map[string]bool, len(s.PaceGroupsOverride))
	for _, o := range s.PaceGroupsOverride {
		if o.ID == "" {
			return fmt.Errorf("%w: pace group override without id", ErrInvalidInput)
		}
		if seen[o.ID] {
			return fmt.Errorf("%w: duplicate pace group override %s", ErrInvalidInput, o.ID)
		}
		seen[o.ID] = true
		if o.PaceSecondsPerKm != nil && *o.PaceSecondsPerKm <= 0 {
			return fmt.Errorf("%w: pace group override %s has a non-positive pace", ErrInvalidInput, o.ID)
		}
	}

	if s.RecommendedGroupID != "" && !s.HasGroup(s.RecommendedGroupID) {
		return fmt.Errorf("%w: recommendedGroupId %s references no group", ErrInvalidInput, s.RecommendedGroupID)
	}
	return nil
}
