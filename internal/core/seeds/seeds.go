// Package seeds loads the bundled example sessions and keeps them upcoming.
package seeds

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/neilberkman/runclub/internal/core/datetime"
	"github.com/neilberkman/runclub/internal/core/models"
)

//go:embed seeds.yaml
var defaultSeeds []byte

// Set is the loaded seed content
type Set struct {
	Sessions []models.Session
	Workouts map[string]models.Workout
}

type seedFile struct {
	Workouts []models.Workout `yaml:"workouts"`
	Sessions []seedSession    `yaml:"sessions"`
}

type seedSession struct {
	ID                  string          `yaml:"id"`
	Title               string          `yaml:"title"`
	Spot                string          `yaml:"spot"`
	Weekday             string          `yaml:"weekday"`
	DateISO             string          `yaml:"dateISO"`
	Time                string          `yaml:"time"`
	TypeLabel           string          `yaml:"typeLabel"`
	Volume              string          `yaml:"volume"`
	TargetPace          string          `yaml:"targetPace"`
	EstimatedDistanceKm float64         `yaml:"estimatedDistanceKm"`
	RecommendedGroupID  string          `yaml:"recommendedGroupId"`
	PaceGroups          []seedPaceGroup `yaml:"paceGroups"`
	WorkoutID           string          `yaml:"workoutId"`
	Visibility          string          `yaml:"visibility"`
	HostGroupName       string          `yaml:"hostGroupName"`
	GenderRestriction   string          `yaml:"genderRestriction"`
	ClubID              string          `yaml:"clubId"`
}

type seedPaceGroup struct {
	ID                  string  `yaml:"id"`
	Label               string  `yaml:"label"`
	PaceRange           string  `yaml:"paceRange"`
	AvgPaceSecondsPerKm float64 `yaml:"avgPaceSecondsPerKm"`
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "dimanche": time.Sunday,
	"monday": time.Monday, "lundi": time.Monday,
	"tuesday": time.Tuesday, "mardi": time.Tuesday,
	"wednesday": time.Wednesday, "mercredi": time.Wednesday,
	"thursday": time.Thursday, "jeudi": time.Thursday,
	"friday": time.Friday, "vendredi": time.Friday,
	"saturday": time.Saturday, "samedi": time.Saturday,
}

// Load parses the bundled seeds, then userPath when it names an existing
// file. User seeds and workouts replace bundled ones with the same id.
func Load(userPath string, now time.Time) (*Set, error) {
	set, err := Parse(defaultSeeds, now)
	if err != nil {
		return nil, fmt.Errorf("bundled seeds: %w", err)
	}
	if userPath == "" {
		return set, nil
	}

	data, err := os.ReadFile(userPath)
	if errors.Is(err, os.ErrNotExist) {
		return set, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seeds file: %w", err)
	}
	user, err := Parse(data, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", userPath, err)
	}

	set.merge(user)
	return set, nil
}

// Parse decodes a seeds document
func Parse(data []byte, now time.Time) (*Set, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seeds: %w", err)
	}

	set := &Set{Workouts: make(map[string]models.Workout, len(file.Workouts))}
	for _, w := range file.Workouts {
		if w.ID == "" {
			return nil, fmt.Errorf("%w: workout without id", models.ErrInvalidInput)
		}
		if _, ok := models.ParseRunType(string(w.Type)); !ok {
			return nil, fmt.Errorf("%w: workout %s has unknown type %q", models.ErrInvalidInput, w.ID, w.Type)
		}
		set.Workouts[w.ID] = w
	}

	for _, entry := range file.Sessions {
		s, err := entry.session(now)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", entry.ID, err)
		}
		set.Sessions = append(set.Sessions, s)
	}
	return set, nil
}

func (s *Set) merge(other *Set) {
	for id, w := range other.Workouts {
		s.Workouts[id] = w
	}
	index := make(map[string]int, len(s.Sessions))
	for i, seed := range s.Sessions {
		index[seed.ID] = i
	}
	for _, seed := range other.Sessions {
		if i, ok := index[seed.ID]; ok {
			s.Sessions[i] = seed
			continue
		}
		s.Sessions = append(s.Sessions, seed)
	}
}

func (e seedSession) session(now time.Time) (models.Session, error) {
	minutes, ok := datetime.ParseTimeLabel(e.Time)
	if !ok {
		return models.Session{}, fmt.Errorf("%w: time %q is not HH:MM", models.ErrInvalidInput, e.Time)
	}

	var date time.Time
	switch {
	case e.DateISO != "":
		date, ok = datetime.ParseDateISO(e.DateISO, now.Location())
		if !ok {
			return models.Session{}, fmt.Errorf("%w: dateISO %q is not YYYY-MM-DD", models.ErrInvalidInput, e.DateISO)
		}
	case e.Weekday != "":
		wd, ok := weekdays[strings.ToLower(e.Weekday)]
		if !ok {
			return models.Session{}, fmt.Errorf("%w: unknown weekday %q", models.ErrInvalidInput, e.Weekday)
		}
		date = anchor(wd, minutes, now)
	default:
		return models.Session{}, fmt.Errorf("%w: seed needs a weekday or a dateISO", models.ErrInvalidInput)
	}

	s := models.Session{
		ID:                  e.ID,
		Title:               e.Title,
		Spot:                e.Spot,
		DateLabel:           datetime.FormatLabel(date, minutes),
		DateISO:             datetime.FormatDateISO(date),
		TimeMinutes:         &minutes,
		TypeLabel:           e.TypeLabel,
		Volume:              e.Volume,
		TargetPace:          e.TargetPace,
		EstimatedDistanceKm: e.EstimatedDistanceKm,
		RecommendedGroupID:  e.RecommendedGroupID,
		PaceGroups:          make([]models.PaceGroup, 0, len(e.PaceGroups)),
		WorkoutID:           e.WorkoutID,
		Visibility:          models.Visibility(e.Visibility),
		HostGroupName:       e.HostGroupName,
		GenderRestriction:   e.GenderRestriction,
		ClubID:              e.ClubID,
	}
	if s.Visibility == "" {
		s.Visibility = models.VisibilityPublic
	}
	for _, g := range e.PaceGroups {
		s.PaceGroups = append(s.PaceGroups, models.PaceGroup(g))
	}

	if err := s.Validate(); err != nil {
		return models.Session{}, err
	}
	return s, nil
}

// anchor returns the most recent occurrence of weekday at minutes that is
// on or before now, as a local midnight date
func anchor(weekday time.Weekday, minutes int, now time.Time) time.Time {
	today := datetime.StartOfDay(now)
	back := (int(today.Weekday()) - int(weekday) + 7) % 7
	date := today.AddDate(0, 0, -back)

	start := time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, now.Location())
	if start.After(now) {
		date = date.AddDate(0, 0, -7)
	}
	return date
}
