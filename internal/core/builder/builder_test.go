package builder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilberkman/runclub/internal/core/models"
)

type fixedIDs string

func (f fixedIDs) New() string { return string(f) }

func pace(v float64) *float64 { return &v }

var now = time.Date(2025, time.November, 5, 12, 0, 0, 0, time.FixedZone("CET", 3600))

func group(id string, active bool, p *float64) models.PaceGroupOverride {
	return models.PaceGroupOverride{ID: id, IsActive: active, PaceSecondsPerKm: p}
}

func TestBuildCanonicalFields(t *testing.T) {
	res, err := Build(Form{
		Spot:      "Parc de la Tête d'Or",
		DateLabel: "LUNDI 10 NOVEMBRE",
		TimeLabel: "06:00",
		TypeLabel: "Fartlek",
		Groups:    []models.PaceGroupOverride{group("A", true, pace(270)), group("C", true, pace(330))},
	}, now, fixedIDs("s-1"))
	require.NoError(t, err)

	s := res.Session
	assert.Equal(t, "s-1", s.ID)
	assert.Equal(t, "2025-11-10", s.DateISO)
	require.NotNil(t, s.TimeMinutes)
	assert.Equal(t, 360, *s.TimeMinutes)
	assert.Equal(t, "LUNDI 10 NOVEMBRE 06:00", s.DateLabel)
	assert.True(t, s.IsCustom)
	assert.Equal(t, models.VisibilityPublic, s.Visibility)
	assert.Equal(t, "Fartlek", s.Title)
	assert.Equal(t, 8.0, s.EstimatedDistanceKm)
	assert.NoError(t, s.Validate())
}

func TestBuildPaceGroups(t *testing.T) {
	res, err := Build(Form{
		Spot:      "Quais",
		DateLabel: "2025-11-12",
		TimeLabel: "19:00",
		TypeLabel: "Seuil",
		Groups: []models.PaceGroupOverride{
			group("A", true, pace(185)),
			group("B", false, pace(300)),
			group("D", true, nil),
			group("C", true, pace(330)),
		},
	}, now, fixedIDs("s-2"))
	require.NoError(t, err)

	s := res.Session
	require.Len(t, s.PaceGroups, 2)
	require.Len(t, s.PaceGroupsOverride, 2)

	assert.Equal(t, "A", s.PaceGroups[0].ID)
	assert.Equal(t, "3:00-3:15/km", s.PaceGroups[0].PaceRange, "display floor at 3:00/km")
	assert.Equal(t, "C", s.PaceGroups[1].ID)
	assert.Equal(t, "5:20-5:40/km", s.PaceGroups[1].PaceRange)
	assert.Equal(t, "5:20-5:40/km", s.PaceGroupsOverride[1].PaceRange)

	assert.Equal(t, "C", res.DefaultGroupID)
	assert.Equal(t, "C", s.RecommendedGroupID)
	assert.Equal(t, "5:30/km", s.TargetPace)
	assert.Equal(t, 10.0, s.EstimatedDistanceKm)
}

func TestRecommendGroup(t *testing.T) {
	tests := []struct {
		name   string
		groups []models.PaceGroupOverride
		want   string
	}{
		{
			name:   "C wins over B and A",
			groups: []models.PaceGroupOverride{group("A", true, pace(270)), group("B", true, pace(300)), group("C", true, pace(330))},
			want:   "C",
		},
		{
			name:   "B when C is absent",
			groups: []models.PaceGroupOverride{group("D", true, pace(360)), group("B", true, pace(300)), group("A", true, pace(270))},
			want:   "B",
		},
		{
			name:   "D is last",
			groups: []models.PaceGroupOverride{group("D", true, pace(360))},
			want:   "D",
		},
		{
			name:   "inactive priority group falls back to first active with pace",
			groups: []models.PaceGroupOverride{group("D", true, pace(360)), group("C", false, pace(330)), group("A", true, pace(270))},
			want:   "D",
		},
		{
			name:   "later priority ids are not tried once one exists",
			groups: []models.PaceGroupOverride{group("E", true, pace(250)), group("A", false, pace(270)), group("D", true, pace(360))},
			want:   "E",
		},
		{
			name:   "unknown ids fall back to scan order",
			groups: []models.PaceGroupOverride{group("x", false, pace(300)), group("y", true, pace(320))},
			want:   "y",
		},
		{
			name:   "none qualify",
			groups: []models.PaceGroupOverride{group("A", false, pace(270)), group("C", true, nil)},
			want:   "",
		},
		{
			name: "no groups",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recommendGroup(tt.groups))
		})
	}
}

func TestBuildWithoutActiveGroups(t *testing.T) {
	res, err := Build(Form{
		Spot:      "Stade",
		DateLabel: "VENDREDI 14 NOVEMBRE",
		TimeLabel: "12:15",
		TypeLabel: "Sortie longue",
		Groups:    []models.PaceGroupOverride{group("A", false, pace(300))},
	}, now, fixedIDs("s-3"))
	require.NoError(t, err)

	s := res.Session
	assert.Empty(t, s.PaceGroups)
	assert.NotNil(t, s.PaceGroups, "serializes as an empty array")
	assert.Equal(t, "5:00/km", s.TargetPace)
	assert.Equal(t, "", s.RecommendedGroupID)
	assert.Equal(t, "", res.DefaultGroupID)
	assert.Equal(t, 15.0, s.EstimatedDistanceKm)
}

func TestBuildRejectsBadInput(t *testing.T) {
	base := Form{Spot: "Stade", DateLabel: "LUNDI 10 NOVEMBRE", TimeLabel: "06:00", TypeLabel: "Footing"}

	tests := []struct {
		name string
		edit func(f *Form)
	}{
		{"missing spot", func(f *Form) { f.Spot = "  " }},
		{"bad time", func(f *Form) { f.TimeLabel = "6h" }},
		{"bad date", func(f *Form) { f.DateLabel = "un jour" }},
		{"bad visibility", func(f *Form) { f.Visibility = "secret" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.edit(&f)
			_, err := Build(f, now, fixedIDs("s-4"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidInput))
		})
	}
}

func TestBuildDoesNotAliasForm(t *testing.T) {
	p := pace(300)
	form := Form{
		Spot: "Stade", DateLabel: "LUNDI 10 NOVEMBRE", TimeLabel: "06:00", TypeLabel: "Footing",
		Groups: []models.PaceGroupOverride{group("A", true, p)},
	}
	res, err := Build(form, now, fixedIDs("s-5"))
	require.NoError(t, err)

	*p = 200
	assert.Equal(t, 300.0, *res.Session.PaceGroupsOverride[0].PaceSecondsPerKm)
}

func TestDisplayRange(t *testing.T) {
	assert.Equal(t, "4:50-5:10/km", DisplayRange(300))
	assert.Equal(t, "3:00-3:00/km", DisplayRange(150))
}

func TestUUIDGenerator(t *testing.T) {
	a, b := UUIDGenerator{}.New(), UUIDGenerator{}.New()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
