package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/config"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/store"
)

var now = time.Date(2025, time.November, 5, 12, 0, 0, 0, time.UTC)

func testTools(t *testing.T) *tools {
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
	return &tools{
		catalog:       cat,
		shareTemplate: config.DefaultShareTemplate,
		now:           func() time.Time { return now },
	}
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestFindSessions(t *testing.T) {
	tl := testTools(t)

	res := call(t, tl.findSessions, map[string]any{"query": "type:fartlek"})
	require.False(t, res.IsError)

	var out struct {
		Sessions []SessionSummary `json:"sessions"`
		Total    int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	require.Len(t, out.Sessions, 1)
	assert.Equal(t, "seed-monday", out.Sessions[0].SessionID)
	assert.Equal(t, "LUNDI 10 NOVEMBRE 06:00", out.Sessions[0].When)
	assert.Equal(t, []string{"A 4:20-4:40/km", "B 4:50-5:10/km"}, out.Sessions[0].Groups)

	res = call(t, tl.findSessions, map[string]any{"limit": 1})
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Len(t, out.Sessions, 1)
	assert.Equal(t, 2, out.Total)
}

func TestGetSession(t *testing.T) {
	tl := testTools(t)

	res := call(t, tl.getSession, map[string]any{"session_id": "seed-members"})
	require.False(t, res.IsError)
	var detail SessionDetail
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &detail))
	assert.Equal(t, "seed-members", detail.Session.ID)
	assert.False(t, detail.CanJoin)
	assert.Contains(t, detail.ShareCard, "Sortie longue · Monts")

	res = call(t, tl.getSession, map[string]any{"session_id": "ghost"})
	assert.True(t, res.IsError)

	res = call(t, tl.getSession, map[string]any{})
	assert.True(t, res.IsError)
}

func TestListJoined(t *testing.T) {
	tl := testTools(t)
	_, err := tl.catalog.Join(context.Background(), "seed-monday", "", "", now)
	require.NoError(t, err)

	res := call(t, tl.listJoined, nil)
	require.False(t, res.IsError)
	var out struct {
		Joined []JoinedSummary `json:"joined"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	require.Len(t, out.Joined, 1)
	assert.Equal(t, "B", out.Joined[0].GroupID)
	assert.Equal(t, "seed-monday", out.Joined[0].SessionID)
}
