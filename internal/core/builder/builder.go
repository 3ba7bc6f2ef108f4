// Package builder turns a session creation form into a stored Session record.
package builder

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neilberkman/runclub/internal/core/datetime"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/textutil"
)

const (
	// paceBand is the half-width of a group's displayed pace range
	paceBand = 10.0
	// paceDisplayFloor keeps displayed ranges at or above 3:00/km
	paceDisplayFloor = 180.0
	// placeholderTargetPace is used when no group carries a pace
	placeholderTargetPace = "5:00/km"
)

// recommendedPriority is the product default: mid-pack group first
var recommendedPriority = []string{"C", "B", "A", "D"}

// IDGenerator creates session identifiers
type IDGenerator interface {
	New() string
}

// UUIDGenerator issues random v4 UUIDs
type UUIDGenerator struct{}

func (UUIDGenerator) New() string {
	return uuid.NewString()
}

// Form is the raw input of the session creation flow
type Form struct {
	Spot      string                     `json:"spot"`
	DateLabel string                     `json:"date"` // "LUNDI 10 NOVEMBRE", or a YYYY-MM-DD date
	TimeLabel string                     `json:"time"` // "HH:MM"
	TypeLabel string                     `json:"typeLabel"`
	Groups    []models.PaceGroupOverride `json:"groups"`

	Title             string            `json:"title,omitempty"`
	WorkoutID         string            `json:"workoutId,omitempty"`
	Visibility        models.Visibility `json:"visibility,omitempty"`
	HostGroupName     string            `json:"hostGroupName,omitempty"`
	GenderRestriction string            `json:"genderRestriction,omitempty"`
	ClubID            string            `json:"clubId,omitempty"`
}

// Result is a built session plus the group its creator is joined to.
// DefaultGroupID is empty when no group carries a pace.
type Result struct {
	Session        models.Session `json:"session"`
	DefaultGroupID string         `json:"defaultGroupId,omitempty"`
}

// Build assembles a new custom session from form
func Build(form Form, now time.Time, ids IDGenerator) (Result, error) {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	spot := strings.TrimSpace(form.Spot)
	if spot == "" {
		return Result{}, fmt.Errorf("%w: spot is required", models.ErrInvalidInput)
	}
	minutes, ok := datetime.ParseTimeLabel(form.TimeLabel)
	if !ok {
		return Result{}, fmt.Errorf("%w: time %q is not HH:MM", models.ErrInvalidInput, form.TimeLabel)
	}
	date, ok := resolveDate(form.DateLabel, minutes, now)
	if !ok {
		return Result{}, fmt.Errorf("%w: date %q is not recognized", models.ErrInvalidInput, form.DateLabel)
	}

	s := models.Session{
		ID:                ids.New(),
		Title:             strings.TrimSpace(form.Title),
		Spot:              spot,
		DateLabel:         datetime.FormatLabel(date, minutes),
		DateISO:           datetime.FormatDateISO(date),
		TimeMinutes:       &minutes,
		TypeLabel:         strings.TrimSpace(form.TypeLabel),
		WorkoutID:         form.WorkoutID,
		IsCustom:          true,
		Visibility:        form.Visibility,
		HostGroupName:     form.HostGroupName,
		GenderRestriction: form.GenderRestriction,
		ClubID:            form.ClubID,
	}
	if s.Title == "" {
		s.Title = s.TypeLabel
	}
	if s.Visibility == "" {
		s.Visibility = models.VisibilityPublic
	}

	s.PaceGroups = []models.PaceGroup{}
	for _, g := range form.Groups {
		if !activeWithPace(g) {
			continue
		}
		avg := *g.PaceSecondsPerKm
		display := DisplayRange(avg)

		s.PaceGroups = append(s.PaceGroups, models.PaceGroup{
			ID:                  g.ID,
			Label:               "Groupe " + g.ID,
			PaceRange:           display,
			AvgPaceSecondsPerKm: avg,
		})
		override := g
		override.PaceRange = display
		s.PaceGroupsOverride = append(s.PaceGroupsOverride, override)
	}
	// Deep copy so later edits to the form never reach the record
	s = s.Clone()

	defaultGroup := recommendGroup(form.Groups)
	s.RecommendedGroupID = defaultGroup
	s.TargetPace = placeholderTargetPace
	for _, g := range s.PaceGroups {
		if g.ID == defaultGroup {
			s.TargetPace = models.FormatPace(g.AvgPaceSecondsPerKm) + "/km"
		}
	}

	s.EstimatedDistanceKm, s.Volume = estimateVolume(s.TypeLabel)

	if err := s.Validate(); err != nil {
		return Result{}, fmt.Errorf("build session: %w", err)
	}
	return Result{Session: s, DefaultGroupID: defaultGroup}, nil
}

// DisplayRange renders the ±10 s/km range shown for a group average,
// never going below 3:00/km
func DisplayRange(avg float64) string {
	lo := math.Max(avg-paceBand, paceDisplayFloor)
	hi := math.Max(avg+paceBand, lo)
	return models.FormatPace(lo) + "-" + models.FormatPace(hi) + "/km"
}

func activeWithPace(g models.PaceGroupOverride) bool {
	return g.IsActive && g.PaceSecondsPerKm != nil
}

// recommendGroup picks the first of C, B, A, D present in groups. When that
// group is not active with a pace, the first active-with-pace group in input
// order is used instead; with none at all the result is empty.
func recommendGroup(groups []models.PaceGroupOverride) string {
	byID := make(map[string]models.PaceGroupOverride, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	for _, id := range recommendedPriority {
		if g, ok := byID[id]; ok {
			if activeWithPace(g) {
				return id
			}
			break
		}
	}

	for _, g := range groups {
		if activeWithPace(g) {
			return g.ID
		}
	}
	return ""
}

func resolveDate(label string, minutes int, now time.Time) (time.Time, bool) {
	label = strings.TrimSpace(label)
	if d, ok := datetime.ParseDateISO(label, now.Location()); ok {
		return d, true
	}
	p, ok := datetime.ParseLabel(label+" "+datetime.FormatTime(minutes), now)
	if !ok {
		return time.Time{}, false
	}
	return datetime.StartOfDay(p.Date), true
}

// volumeRule maps a keyword of the session type to a rough distance and a
// one-line description
type volumeRule struct {
	keyword    string
	distanceKm float64
	volume     string
}

var volumeRules = []volumeRule{
	{"fartlek", 8, "Échauffement 15' + fartlek 30' + retour au calme"},
	{"seuil", 10, "Échauffement 20' + 3 × 10' au seuil"},
	{"sortie", 15, "Sortie longue en endurance fondamentale"},
}

const (
	defaultDistanceKm = 6
	defaultVolume     = "Footing en endurance"
)

func estimateVolume(typeLabel string) (float64, string) {
	folded := textutil.Fold(typeLabel)
	for _, r := range volumeRules {
		if strings.Contains(folded, r.keyword) {
			return r.distanceKm, r.volume
		}
	}
	return defaultDistanceKm, defaultVolume
}
