package catalog

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilberkman/runclub/internal/core/builder"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/store"
)

// Wednesday
var now = time.Date(2025, time.November, 5, 12, 0, 0, 0, time.FixedZone("CET", 3600))

func ptr[T any](v T) *T { return &v }

func group(id string, avg float64) models.PaceGroup {
	return models.PaceGroup{ID: id, Label: "Groupe " + id, AvgPaceSecondsPerKm: avg}
}

func testSeeds() []models.Session {
	return []models.Session{
		{
			ID: "seed-monday", Title: "Fartlek", Spot: "Parc", TypeLabel: "Fartlek",
			DateISO: "2025-11-03", TimeMinutes: ptr(360), DateLabel: "LUNDI 3 NOVEMBRE 06:00",
			RecommendedGroupID: "B", PaceGroups: []models.PaceGroup{group("A", 270), group("B", 300)},
			Visibility: models.VisibilityPublic,
		},
		{
			ID: "seed-members", Title: "Sortie longue", Spot: "Monts", TypeLabel: "Sortie longue",
			DateISO: "2025-11-02", TimeMinutes: ptr(510), DateLabel: "DIMANCHE 2 NOVEMBRE 08:30",
			PaceGroups: []models.PaceGroup{group("A", 330)},
			Visibility: models.VisibilityMembers, HostGroupName: "Les Foulées",
		},
	}
}

type harness struct {
	catalog  *Catalog
	sessions *store.Sessions
	joined   *store.Joined
}

func newHarness(t *testing.T) harness {
	t.Helper()
	kv := store.NewMemoryKV()
	logger := log.New(io.Discard, "", 0)
	sessions := store.NewSessions(kv, logger)
	joined := store.NewJoined(kv, logger)
	workouts := map[string]models.Workout{"w-walk": {ID: "w-walk", Name: "Marche", Type: models.RunTypeWalking}}
	return harness{
		catalog:  New(sessions, joined, testSeeds(), workouts, logger),
		sessions: sessions,
		joined:   joined,
	}
}

func form() builder.Form {
	return builder.Form{
		Spot:      "Stade",
		DateLabel: "JEUDI 6 NOVEMBRE",
		TimeLabel: "18:30",
		TypeLabel: "Seuil",
		Groups: []models.PaceGroupOverride{
			{ID: "A", IsActive: true, PaceSecondsPerKm: ptr(260.0)},
			{ID: "C", IsActive: true, PaceSecondsPerKm: ptr(320.0)},
		},
	}
}

func TestLoadShiftsSeeds(t *testing.T) {
	h := newHarness(t)

	all, err := h.catalog.Load(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2025-11-10", all[0].DateISO)
	assert.Equal(t, "LUNDI 10 NOVEMBRE 06:00", all[0].DateLabel)
	assert.Equal(t, "2025-11-09", all[1].DateISO)
}

func TestCreateAutoJoinsCreator(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.catalog.Create(ctx, form(), now)
	require.NoError(t, err)
	assert.True(t, res.Session.IsCustom)
	assert.Equal(t, "C", res.DefaultGroupID)

	joined, ok, err := h.joined.Get(ctx, res.Session.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "C", joined.GroupID)

	found, err := h.catalog.Find(ctx, models.FilterState{RunType: models.RunTypeThreshold}, nil, now)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, res.Session.ID, found[0].ID)
}

func TestCreateWithoutGroupsSkipsJoin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	f := form()
	f.Groups = nil
	res, err := h.catalog.Create(ctx, f, now)
	require.NoError(t, err)

	list, err := h.joined.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, "5:00/km", res.Session.TargetPace)
}

func TestCanJoin(t *testing.T) {
	tests := []struct {
		name    string
		session models.Session
		group   string
		want    bool
	}{
		{"public", models.Session{Visibility: models.VisibilityPublic}, "", true},
		{"no visibility reads as public", models.Session{}, "", true},
		{"members, same group any case", models.Session{Visibility: models.VisibilityMembers, HostGroupName: "Les Foulées"}, " les foulées ", true},
		{"members, other group", models.Session{Visibility: models.VisibilityMembers, HostGroupName: "Les Foulées"}, "Running Club", false},
		{"members, no runner group", models.Session{Visibility: models.VisibilityMembers, HostGroupName: "Les Foulées"}, "", false},
		{"members without host", models.Session{Visibility: models.VisibilityMembers}, "", false},
		{"custom members session", models.Session{Visibility: models.VisibilityMembers, IsCustom: true}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanJoin(tt.session, tt.group))
		})
	}
}

func TestJoin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	j, err := h.catalog.Join(ctx, "seed-monday", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, "B", j.GroupID, "recommended group by default")

	j, err = h.catalog.Join(ctx, "seed-monday", "A", "", now)
	require.NoError(t, err)
	assert.Equal(t, "A", j.GroupID)

	_, err = h.catalog.Join(ctx, "seed-monday", "Z", "", now)
	assert.True(t, errors.Is(err, ErrUnknownGroup))

	_, err = h.catalog.Join(ctx, "seed-members", "A", "Running Club", now)
	assert.True(t, errors.Is(err, ErrNotJoinable))

	_, err = h.catalog.Join(ctx, "seed-members", "", "les foulées", now)
	assert.NoError(t, err)

	_, err = h.catalog.Join(ctx, "ghost", "A", "", now)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	entries, err := h.catalog.Joined(ctx, now)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].GroupID)
}

func TestDeleteCascadesToJoined(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.catalog.Create(ctx, form(), now)
	require.NoError(t, err)

	removed, err := h.catalog.Delete(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok, err := h.joined.Get(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err = h.catalog.Delete(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSeedsAreReadOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.catalog.Delete(ctx, "seed-monday")
	assert.True(t, errors.Is(err, ErrReadOnly))
	_, err = h.catalog.Update(ctx, "seed-monday", store.Patch{Title: ptr("x")}, now)
	assert.True(t, errors.Is(err, ErrReadOnly))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.catalog.Create(ctx, form(), now)
	require.NoError(t, err)

	updated, err := h.catalog.Update(ctx, res.Session.ID, store.Patch{Spot: ptr("Piste"), IsCustom: ptr(false)}, now)
	require.NoError(t, err)
	assert.Equal(t, "Piste", updated.Spot)
	assert.True(t, updated.IsCustom)

	_, err = h.catalog.Update(ctx, "ghost", store.Patch{Spot: ptr("Piste")}, now)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSearchMatchesText(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	found, err := h.catalog.Search(ctx, "parc", nil, now)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "seed-monday", found[0].ID)

	found, err = h.catalog.Search(ctx, "type:long", nil, now)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "seed-members", found[0].ID)
}

func TestImportSkipsKnownIDs(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	remote := models.Session{
		ID: "remote-1", Title: "Tempo", Spot: "Quais", TypeLabel: "Tempo",
		DateISO: "2025-11-07", TimeMinutes: ptr(1140), DateLabel: "VENDREDI 7 NOVEMBRE 19:00",
		PaceGroups: []models.PaceGroup{group("A", 290)}, RecommendedGroupID: "A",
	}
	invalid := remote
	invalid.ID = "remote-bad"
	invalid.RecommendedGroupID = "Z"
	shadow := remote
	shadow.ID = "seed-monday"

	added, err := h.catalog.Import(ctx, []models.Session{remote, invalid, shadow}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	added, err = h.catalog.Import(ctx, []models.Session{remote}, now)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("unavailable")
}
func (brokenKV) Put(context.Context, string, []byte) error { return errors.New("unavailable") }

func TestLoadSurvivesStoreFailure(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	c := New(store.NewSessions(brokenKV{}, logger), store.NewJoined(brokenKV{}, logger), testSeeds(), nil, logger)

	all, err := c.Load(context.Background(), now)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
