package tui

import (
	"io"
	"log"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/store"
)

var testNow = time.Date(2025, time.November, 5, 12, 0, 0, 0, time.UTC)

func testModel(t *testing.T) Model {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	kv := store.NewMemoryKV()
	minutes := 360
	seedsList := []models.Session{
		{
			ID: "seed-monday", Title: "Fartlek", Spot: "Parc", TypeLabel: "Fartlek",
			DateISO: "2025-11-03", TimeMinutes: &minutes, DateLabel: "LUNDI 3 NOVEMBRE 06:00",
			RecommendedGroupID: "B", Visibility: models.VisibilityPublic,
			PaceGroups: []models.PaceGroup{
				{ID: "A", Label: "Groupe A", PaceRange: "4:20-4:40/km", AvgPaceSecondsPerKm: 270},
				{ID: "B", Label: "Groupe B", PaceRange: "4:50-5:10/km", AvgPaceSecondsPerKm: 300},
			},
		},
		{
			ID: "seed-members", Title: "Sortie longue", Spot: "Monts", TypeLabel: "Sortie longue",
			DateISO: "2025-11-02", TimeMinutes: &minutes, DateLabel: "DIMANCHE 2 NOVEMBRE 06:00",
			Visibility: models.VisibilityMembers, HostGroupName: "Les Foulées",
			PaceGroups: []models.PaceGroup{{ID: "A", Label: "Groupe A", AvgPaceSecondsPerKm: 330}},
		},
	}
	cat := catalog.New(store.NewSessions(kv, logger), store.NewJoined(kv, logger), seedsList, nil, logger)

	m := New(cat, Options{Now: func() time.Time { return testNow }})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return update(t, m, m.Init()())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

// press sends a key and runs the command it returns, feeding the result back
func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(Model)
	if cmd != nil {
		m = update(t, m, cmd())
	}
	return m
}

func sessionByID(t *testing.T, m Model, id string) models.Session {
	t.Helper()
	for _, s := range m.sessions {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("session %s not loaded", id)
	return models.Session{}
}

func TestListShowsShiftedSessions(t *testing.T) {
	m := testModel(t)
	require.Len(t, m.sessions, 2)

	view := m.View()
	assert.Contains(t, view, "Fartlek · Parc")
	assert.Contains(t, view, "LUNDI 10 NOVEMBRE 06:00")
	assert.Contains(t, view, "A B*")
}

func TestDetailJoinAndLeave(t *testing.T) {
	m := testModel(t)
	m = m.openDetail(sessionByID(t, m, "seed-monday"))
	require.Equal(t, detailView, m.mode)
	assert.Equal(t, 1, m.selectedGroup, "recommended group is preselected")

	view := m.View()
	assert.Contains(t, view, "★ recommandé")
	assert.Contains(t, m.shareCard, "Fartlek · Parc")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "B", m.joined["seed-monday"])
	assert.Contains(t, m.status, "groupe B")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.selectedGroup)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "A", m.joined["seed-monday"])

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	_, joined := m.joined["seed-monday"]
	assert.False(t, joined)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, listView, m.mode)
	assert.Nil(t, m.current)
}

func TestJoinMembersOnlyRefused(t *testing.T) {
	m := testModel(t)
	m = m.openDetail(sessionByID(t, m, "seed-members"))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Réservée au groupe organisateur", m.status)
	assert.Empty(t, m.joined)
	assert.Contains(t, m.View(), "vous ne pouvez pas rejoindre")
}

func TestSearchResults(t *testing.T) {
	m := testModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.Equal(t, searchView, m.mode)

	// q is search text here, not quit
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	assert.Equal(t, searchView, m.mode)
	assert.Equal(t, "q", m.searchInput.Value())

	m.searchInput.SetValue("type:fartlek")
	m = update(t, m, performSearch(m.catalog, "type:fartlek", nil, testNow)())
	require.Len(t, m.searchResults, 1)
	assert.Equal(t, "seed-monday", m.searchResults[0].ID)

	// Stale results are dropped
	m = update(t, m, searchResultsMsg{query: "type:long", results: nil})
	assert.Len(t, m.searchResults, 1)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, detailView, m.mode)
	assert.Equal(t, "seed-monday", m.current.ID)
}

func TestSearchViewportFollowsSelection(t *testing.T) {
	m := Model{height: 14, searchResults: make([]models.Session, 10)}
	for i := 0; i < 5; i++ {
		m = handleSearchMouseWheel(m, true)
	}
	assert.Equal(t, 5, m.searchSelectedIdx)
	assert.Equal(t, 4, m.searchViewOffset)

	for i := 0; i < 10; i++ {
		m = handleSearchMouseWheel(m, false)
	}
	assert.Equal(t, 0, m.searchSelectedIdx)
	assert.Equal(t, 0, m.searchViewOffset)
}
