package search

import (
	"testing"
	"time"

	"github.com/neilberkman/runclub/internal/core/models"
)

var now = time.Date(2025, time.November, 5, 12, 0, 0, 0, time.FixedZone("CET", 3600))

func ptr[T any](v T) *T { return &v }

func session(id, dateISO string, minutes int, typeLabel string, avgs ...float64) models.Session {
	s := models.Session{
		ID:          id,
		Title:       typeLabel,
		Spot:        "Stade",
		DateISO:     dateISO,
		TimeMinutes: ptr(minutes),
		TypeLabel:   typeLabel,
		PaceGroups:  []models.PaceGroup{},
	}
	for i, avg := range avgs {
		s.PaceGroups = append(s.PaceGroups, models.PaceGroup{
			ID:                  string(rune('A' + i)),
			AvgPaceSecondsPerKm: avg,
		})
	}
	return s
}

func ids(sessions []models.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPaceRangeOverlap(t *testing.T) {
	s := session("s", "2025-11-10", 360, "Footing", 300)

	tests := []struct {
		name   string
		window models.PaceWindow
		want   bool
	}{
		{"window covers group", models.PaceWindow{Min: 280, Max: 310}, true},
		{"touching lower edge", models.PaceWindow{Min: 310, Max: 330}, true},
		{"touching upper edge", models.PaceWindow{Min: 270, Max: 290}, true},
		{"entirely faster", models.PaceWindow{Min: 250, Max: 289}, false},
		{"entirely slower", models.PaceWindow{Min: 311, Max: 400}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.window
			got := Matches(s, models.FilterState{PaceRange: &w}, Options{Now: now})
			if got != tt.want {
				t.Errorf("Matches() with window %v = %v, want %v", tt.window, got, tt.want)
			}
		})
	}
}

func TestComputeMatchScore(t *testing.T) {
	tests := []struct {
		name      string
		session   models.Session
		paces     *models.ReferencePaces
		want      float64
		wantScore bool
	}{
		{
			name:      "lone lower bound",
			session:   session("s", "2025-11-10", 360, "Footing", 310),
			paces:     &models.ReferencePaces{EasyMin: ptr(300.0)},
			want:      10,
			wantScore: true,
		},
		{
			name:      "midpoint of a zone",
			session:   session("s", "2025-11-10", 360, "Footing", 330),
			paces:     &models.ReferencePaces{EasyMin: ptr(320.0), EasyMax: ptr(360.0)},
			want:      10,
			wantScore: true,
		},
		{
			name:      "best of groups and zones",
			session:   session("s", "2025-11-10", 360, "Footing", 400, 262),
			paces:     &models.ReferencePaces{EasyMax: ptr(330.0), IntervalsMin: ptr(255.0), IntervalsMax: ptr(265.0)},
			want:      2,
			wantScore: true,
		},
		{
			name:    "no paces",
			session: session("s", "2025-11-10", 360, "Footing", 300),
		},
		{
			name:    "paces without any bound",
			session: session("s", "2025-11-10", 360, "Footing", 300),
			paces:   &models.ReferencePaces{},
		},
		{
			name:    "session without groups",
			session: session("s", "2025-11-10", 360, "Footing"),
			paces:   &models.ReferencePaces{EasyMin: ptr(300.0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeMatchScore(tt.session, tt.paces)
			if ok != tt.wantScore {
				t.Fatalf("ComputeMatchScore() scored = %v, want %v", ok, tt.wantScore)
			}
			if ok && got != tt.want {
				t.Errorf("ComputeMatchScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverridesDecideScoredGroups(t *testing.T) {
	paces := &models.ReferencePaces{EasyMin: ptr(300.0)}

	deactivated := session("s", "2025-11-10", 360, "Footing", 400, 300)
	deactivated.PaceGroupsOverride = []models.PaceGroupOverride{
		{ID: "A", IsActive: true, PaceSecondsPerKm: ptr(400.0)},
		{ID: "B", IsActive: false, PaceSecondsPerKm: ptr(300.0)},
	}
	got, ok := ComputeMatchScore(deactivated, paces)
	if !ok || got != 100 {
		t.Errorf("deactivated group scored: ComputeMatchScore() = %v, %v, want 100, true", got, ok)
	}

	overrideOnly := session("o", "2025-11-10", 360, "Footing")
	overrideOnly.PaceGroupsOverride = []models.PaceGroupOverride{
		{ID: "D", IsActive: true, PaceSecondsPerKm: ptr(310.0)},
	}
	got, ok = ComputeMatchScore(overrideOnly, paces)
	if !ok || got != 10 {
		t.Errorf("override-only session: ComputeMatchScore() = %v, %v, want 10, true", got, ok)
	}

	paceless := session("p", "2025-11-10", 360, "Footing")
	paceless.PaceGroupsOverride = []models.PaceGroupOverride{{ID: "C", IsActive: true}}
	if _, ok := ComputeMatchScore(paceless, paces); ok {
		t.Error("session whose offered groups carry no pace should be unscored")
	}
}

func TestPaceFilterUsesOfferedGroups(t *testing.T) {
	deactivated := session("deactivated", "2025-11-10", 360, "Footing", 400, 300)
	deactivated.PaceGroupsOverride = []models.PaceGroupOverride{
		{ID: "A", IsActive: true, PaceSecondsPerKm: ptr(400.0)},
		{ID: "B", IsActive: false, PaceSecondsPerKm: ptr(300.0)},
	}
	overrideOnly := session("override", "2025-11-11", 360, "Footing")
	overrideOnly.PaceGroupsOverride = []models.PaceGroupOverride{
		{ID: "D", IsActive: true, PaceSecondsPerKm: ptr(295.0)},
	}

	filter := models.FilterState{PaceRange: &models.PaceWindow{Min: 280, Max: 310}}
	got := ids(ApplyFiltersAndSorting([]models.Session{deactivated, overrideOnly}, filter, nil, Options{Now: now}))
	want := []string{"override"}
	if !equalIDs(got, want) {
		t.Errorf("ApplyFiltersAndSorting() = %v, want %v", got, want)
	}
}

func TestScoredSessionsOutrankUnscored(t *testing.T) {
	scored := session("next-month", "2025-12-10", 360, "Footing", 305)
	unscored := session("tomorrow", "2025-11-06", 360, "Footing")
	paces := &models.ReferencePaces{EasyMin: ptr(300.0)}

	got := ids(ApplyFiltersAndSorting([]models.Session{unscored, scored}, models.FilterState{}, paces, Options{Now: now}))
	want := []string{"next-month", "tomorrow"}
	if !equalIDs(got, want) {
		t.Errorf("ApplyFiltersAndSorting() = %v, want %v", got, want)
	}
}

func TestRankingOrder(t *testing.T) {
	paces := &models.ReferencePaces{EasyMin: ptr(300.0)}
	sessions := []models.Session{
		session("unscored-late", "2025-11-20", 360, "Footing"),
		session("far", "2025-11-07", 360, "Footing", 360),
		session("close-late", "2025-11-12", 360, "Footing", 305),
		session("unscored-early", "2025-11-06", 360, "Footing"),
		session("close-early", "2025-11-08", 420, "Footing", 295),
		session("past", "2025-11-01", 360, "Footing", 300),
	}

	got := ids(ApplyFiltersAndSorting(sessions, models.FilterState{}, paces, Options{Now: now}))
	want := []string{"close-early", "close-late", "far", "unscored-early", "unscored-late"}
	if !equalIDs(got, want) {
		t.Errorf("ApplyFiltersAndSorting() = %v, want %v", got, want)
	}
}

func TestWithoutPacesSortsChronologically(t *testing.T) {
	legacy := models.Session{ID: "legacy", DateLabel: "JEUDI 6 NOVEMBRE 07:00", TypeLabel: "Footing"}
	sessions := []models.Session{
		session("b", "2025-11-06", 1140, "Footing", 300),
		legacy,
		session("a", "2025-11-06", 360, "Footing", 300),
	}

	got := ids(ApplyFiltersAndSorting(sessions, models.FilterState{}, nil, Options{Now: now}))
	want := []string{"a", "legacy", "b"}
	if !equalIDs(got, want) {
		t.Errorf("ApplyFiltersAndSorting() = %v, want %v", got, want)
	}
}

func TestIsFutureSession(t *testing.T) {
	if !IsFutureSession(session("s", "2025-11-05", 360, "Footing"), now) {
		t.Error("a session earlier today should still count as upcoming")
	}
	if IsFutureSession(session("s", "2025-11-04", 360, "Footing"), now) {
		t.Error("yesterday's session should be dropped")
	}
	if !IsFutureSession(models.Session{ID: "legacy", DateLabel: "bientôt"}, now) {
		t.Error("sessions without canonical date should be kept")
	}
}

func TestSessionRunTypeID(t *testing.T) {
	workouts := WorkoutLookup{
		"w-walk": {ID: "w-walk", Name: "Marche active", Type: models.RunTypeWalking},
	}

	walk := session("walk", "2025-11-10", 360, "Footing")
	walk.WorkoutID = "w-walk"
	if got, _ := SessionRunTypeID(walk, workouts); got != models.RunTypeWalking {
		t.Errorf("workout type should win over label, got %q", got)
	}

	dangling := session("dangling", "2025-11-10", 360, "Footing")
	dangling.WorkoutID = "w-missing"
	if got, _ := SessionRunTypeID(dangling, workouts); got != models.RunTypeEasy {
		t.Errorf("unknown workout should fall back to the label, got %q", got)
	}

	if _, ok := SessionRunTypeID(session("x", "2025-11-10", 360, "Séance mystère"), workouts); ok {
		t.Error("unclassifiable label should have no type")
	}
}

func TestPredicates(t *testing.T) {
	women := session("women", "2025-11-06", 360, "Fartlek", 300)
	women.GenderRestriction = models.GenderWomenOnly
	women.Spot = "Parc Borély"

	walk := session("walk", "2025-11-20", 600, "Balade")
	walk.WorkoutID = "w-walk"

	mixed := session("mixed", "2025-11-28", 360, "Seuil", 280)

	sessions := []models.Session{women, walk, mixed}
	opts := Options{
		Now:      now,
		Workouts: WorkoutLookup{"w-walk": {ID: "w-walk", Type: models.RunTypeWalking}},
	}

	tests := []struct {
		name   string
		filter models.FilterState
		want   []string
	}{
		{"no filter", models.FilterState{}, []string{"women", "walk", "mixed"}},
		{"this week", models.FilterState{DateBucket: models.BucketThisWeek}, []string{"women"}},
		{"custom range", models.FilterState{CustomRange: &models.DateRange{Start: "2025-11-20", End: "2025-11-28"}}, []string{"walk", "mixed"}},
		{"type", models.FilterState{RunType: models.RunTypeThreshold}, []string{"mixed"}},
		{"spot", models.FilterState{Spot: "Parc Borély"}, []string{"women"}},
		{"women only", models.FilterState{GenderRestriction: models.GenderWomenOnly}, []string{"women"}},
		{"unknown gender tag", models.FilterState{GenderRestriction: "men_only"}, []string{"women", "walk", "mixed"}},
		{"walking only", models.FilterState{WalkingOnly: true}, []string{"walk"}},
		{"conflicting filters", models.FilterState{WalkingOnly: true, Spot: "Parc Borély"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(ApplyFiltersAndSorting(sessions, tt.filter, nil, opts))
			if !equalIDs(got, tt.want) {
				t.Errorf("ApplyFiltersAndSorting() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Weakening any single field of a filter never drops a matching session
func TestFilterMonotonicity(t *testing.T) {
	s := session("s", "2025-11-06", 360, "Fartlek", 300)
	s.Spot = "Parc Borély"
	s.GenderRestriction = models.GenderWomenOnly
	opts := Options{Now: now}

	full := models.FilterState{
		DateBucket:        models.BucketThisWeek,
		CustomRange:       &models.DateRange{Start: "2025-11-01", End: "2025-11-30"},
		RunType:           models.RunTypeFartlek,
		PaceRange:         &models.PaceWindow{Min: 290, Max: 320},
		Spot:              "Parc Borély",
		GenderRestriction: models.GenderWomenOnly,
	}
	if !Matches(s, full, opts) {
		t.Fatal("session should match the full filter")
	}

	weakened := map[string]func(f *models.FilterState){
		"dateBucket":        func(f *models.FilterState) { f.DateBucket = "" },
		"customRange":       func(f *models.FilterState) { f.CustomRange = nil },
		"runType":           func(f *models.FilterState) { f.RunType = "" },
		"paceRange":         func(f *models.FilterState) { f.PaceRange = nil },
		"spot":              func(f *models.FilterState) { f.Spot = "" },
		"genderRestriction": func(f *models.FilterState) { f.GenderRestriction = "" },
		"walkingOnly":       func(f *models.FilterState) { f.WalkingOnly = false },
	}
	for field, weaken := range weakened {
		t.Run(field, func(t *testing.T) {
			f := full
			weaken(&f)
			if !Matches(s, f, opts) {
				t.Errorf("clearing %s removed a matching session", field)
			}
		})
	}
}

func TestMatchesText(t *testing.T) {
	s := models.Session{Title: "Fartlek du mardi", Spot: "Parc Borély", TypeLabel: "Fartlek"}

	if !MatchesText(s, "borely fartlek") {
		t.Error("accent-insensitive words should match")
	}
	if MatchesText(s, "piste") {
		t.Error("absent word should not match")
	}
	if !MatchesText(s, "  ") {
		t.Error("empty text should match")
	}
}
