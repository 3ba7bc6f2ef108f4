package models

// Visibility controls who can join a session
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityMembers Visibility = "members"
)

// GenderWomenOnly is the only gender restriction tag sessions carry
const GenderWomenOnly = "women_only"

// Session represents a scheduled group run.
// JSON field names are the on-disk contract of the session store.
type Session struct {
	ID                  string              `json:"id"`
	Title               string              `json:"title"`
	Spot                string              `json:"spot"`
	DateLabel           string              `json:"dateLabel"`
	DateISO             string              `json:"dateISO,omitempty"`     // YYYY-MM-DD, canonical
	TimeMinutes         *int                `json:"timeMinutes,omitempty"` // minutes since local midnight, canonical
	TypeLabel           string              `json:"typeLabel"`
	Volume              string              `json:"volume"`
	TargetPace          string              `json:"targetPace"`
	EstimatedDistanceKm float64             `json:"estimatedDistanceKm"`
	RecommendedGroupID  string              `json:"recommendedGroupId"`
	PaceGroups          []PaceGroup         `json:"paceGroups"`
	PaceGroupsOverride  []PaceGroupOverride `json:"paceGroupsOverride,omitempty"`
	WorkoutID           string              `json:"workoutId,omitempty"`
	IsCustom            bool                `json:"isCustom,omitempty"`
	Visibility          Visibility          `json:"visibility,omitempty"`
	HostGroupName       string              `json:"hostGroupName,omitempty"`
	GenderRestriction   string              `json:"genderRestriction,omitempty"`
	ClubID              string              `json:"clubId,omitempty"`
}

// PaceGroup is the legacy, display-oriented group description
type PaceGroup struct {
	ID                  string  `json:"id"`
	Label               string  `json:"label"`
	PaceRange           string  `json:"paceRange"`
	AvgPaceSecondsPerKm float64 `json:"avgPaceSecondsPerKm"`
}

// PaceGroupOverride is the explicit per-group configuration snapshot.
// It is copied at publish time and never follows later workout edits.
type PaceGroupOverride struct {
	ID                      string   `json:"id"`
	IsActive                bool     `json:"isActive"`
	PaceSecondsPerKm        *float64 `json:"paceSecondsPerKm,omitempty"`
	PaceRange               string   `json:"paceRange,omitempty"`
	Reps                    *int     `json:"reps,omitempty"`
	EffortDurationSeconds   *int     `json:"effortDurationSeconds,omitempty"`
	EffortDistanceKm        *float64 `json:"effortDistanceKm,omitempty"`
	RecoveryDurationSeconds *int     `json:"recoveryDurationSeconds,omitempty"`
}

// JoinedSession records the pace group a runner picked for a session
type JoinedSession struct {
	SessionID string `json:"sessionId"`
	GroupID   string `json:"groupId"`
}

// Workout is a reusable workout template referenced by sessions
type Workout struct {
	ID   string    `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
	Type RunTypeID `json:"type" yaml:"type"`
}

// HasCanonicalDate reports whether the session carries a dateISO.
// A missing timeMinutes is read as midnight.
func (s Session) HasCanonicalDate() bool {
	return s.DateISO != ""
}

// Minutes returns timeMinutes, or 0 when absent
func (s Session) Minutes() int {
	if s.TimeMinutes == nil {
		return 0
	}
	return *s.TimeMinutes
}

// OfferedGroups returns the groups a runner may pick.
// Records with overrides offer exactly their active overrides; legacy
// records offer every paceGroups entry.
func (s Session) OfferedGroups() []PaceGroup {
	if len(s.PaceGroupsOverride) == 0 {
		return s.PaceGroups
	}

	byID := make(map[string]PaceGroup, len(s.PaceGroups))
	for _, g := range s.PaceGroups {
		byID[g.ID] = g
	}

	var offered []PaceGroup
	for _, o := range s.PaceGroupsOverride {
		if !o.IsActive {
			continue
		}
		if g, ok := byID[o.ID]; ok {
			offered = append(offered, g)
			continue
		}
		g := PaceGroup{ID: o.ID, Label: "Groupe " + o.ID, PaceRange: o.PaceRange}
		if o.PaceSecondsPerKm != nil {
			g.AvgPaceSecondsPerKm = *o.PaceSecondsPerKm
		}
		offered = append(offered, g)
	}
	return offered
}

// HasGroup reports whether id names a group in paceGroups or paceGroupsOverride
func (s Session) HasGroup(id string) bool {
	for _, g := range s.PaceGroups {
		if g.ID == id {
			return true
		}
	}
	for _, o := range s.PaceGroupsOverride {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the session
func (s Session) Clone() Session {
	c := s
	if s.TimeMinutes != nil {
		m := *s.TimeMinutes
		c.TimeMinutes = &m
	}
	if s.PaceGroups != nil {
		c.PaceGroups = make([]PaceGroup, len(s.PaceGroups))
		copy(c.PaceGroups, s.PaceGroups)
	}
	if s.PaceGroupsOverride != nil {
		c.PaceGroupsOverride = make([]PaceGroupOverride, len(s.PaceGroupsOverride))
		for i, o := range s.PaceGroupsOverride {
			c.PaceGroupsOverride[i] = o.clone()
		}
	}
	return c
}

func (o PaceGroupOverride) clone() PaceGroupOverride {
	c := o
	if o.PaceSecondsPerKm != nil {
		v := *o.PaceSecondsPerKm
		c.PaceSecondsPerKm = &v
	}
	if o.Reps != nil {
		v := *o.Reps
		c.Reps = &v
	}
	if o.EffortDurationSeconds != nil {
		v := *o.EffortDurationSeconds
		c.EffortDurationSeconds = &v
	}
	if o.EffortDistanceKm != nil {
		v := *o.EffortDistanceKm
		c.EffortDistanceKm = &v
	}
	if o.RecoveryDurationSeconds != nil {
		v := *o.RecoveryDurationSeconds
		c.RecoveryDurationSeconds = &v
	}
	return c
}
