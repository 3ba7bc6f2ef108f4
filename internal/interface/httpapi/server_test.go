package httpapi

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilberkman/runclub/internal/core/builder"
	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/store"
)

var now = time.Date(2025, time.November, 5, 12, 0, 0, 0, time.UTC)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	kv := store.NewMemoryKV()
	minutes := 360
	seedsList := []models.Session{
		{
			ID: "seed-monday", Title: "Fartlek", Spot: "Parc", TypeLabel: "Fartlek",
			DateISO: "2025-11-03", TimeMinutes: &minutes, DateLabel: "LUNDI 3 NOVEMBRE 06:00",
			RecommendedGroupID: "A", Visibility: models.VisibilityPublic,
			PaceGroups: []models.PaceGroup{{ID: "A", Label: "Groupe A", AvgPaceSecondsPerKm: 300}},
		},
		{
			ID: "seed-members", Title: "Sortie longue", Spot: "Monts", TypeLabel: "Sortie longue",
			DateISO: "2025-11-02", TimeMinutes: &minutes, DateLabel: "DIMANCHE 2 NOVEMBRE 06:00",
			Visibility: models.VisibilityMembers, HostGroupName: "Les Foulées",
			PaceGroups: []models.PaceGroup{{ID: "A", Label: "Groupe A", AvgPaceSecondsPerKm: 330}},
		},
	}
	cat := catalog.New(store.NewSessions(kv, logger), store.NewJoined(kv, logger), seedsList, nil, logger)
	srv := httptest.NewServer(New(cat, Options{Now: func() time.Time { return now }, Logger: logger}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestListSessions(t *testing.T) {
	srv := testServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decode[[]models.Session](t, resp)
	assert.Len(t, all, 2)

	resp = do(t, http.MethodGet, srv.URL+"/sessions?query=type:long", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found := decode[[]models.Session](t, resp)
	require.Len(t, found, 1)
	assert.Equal(t, "seed-members", found[0].ID)

	resp = do(t, http.MethodGet, srv.URL+"/sessions?query=nowhere", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestCreateUpdateDelete(t *testing.T) {
	srv := testServer(t)

	body := `{"spot":"Stade","date":"2025-11-06","time":"18:30","typeLabel":"Seuil",
		"groups":[{"id":"B","isActive":true,"paceSecondsPerKm":290}]}`
	resp := do(t, http.MethodPost, srv.URL+"/sessions", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	res := decode[builder.Result](t, resp)
	assert.Equal(t, "B", res.DefaultGroupID)
	assert.Equal(t, "/sessions/"+res.Session.ID, resp.Header.Get("Location"))

	resp = do(t, http.MethodPatch, srv.URL+"/sessions/"+res.Session.ID, `{"title":"Seuil du jeudi"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Seuil du jeudi", decode[models.Session](t, resp).Title)

	resp = do(t, http.MethodGet, srv.URL+"/joined", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]catalog.JoinedEntry](t, resp), 1)

	resp = do(t, http.MethodDelete, srv.URL+"/sessions/"+res.Session.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/sessions/"+res.Session.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/sessions/"+res.Session.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"bad form", http.MethodPost, "/sessions", `{"spot":"","date":"x","time":"25:00"}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/sessions", `{`, http.StatusBadRequest},
		{"unknown field", http.MethodPatch, "/sessions/x", `{"colour":"red"}`, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/sessions/ghost", "", http.StatusNotFound},
		{"update unknown", http.MethodPatch, "/sessions/ghost", `{"title":"x"}`, http.StatusNotFound},
		{"seeds are read-only", http.MethodDelete, "/sessions/seed-monday", "", http.StatusForbidden},
		{"members only", http.MethodPost, "/sessions/seed-members/join", "", http.StatusForbidden},
		{"unknown group", http.MethodPost, "/sessions/seed-monday/join", `{"groupId":"Z"}`, http.StatusBadRequest},
		{"leave without joining", http.MethodDelete, "/sessions/seed-monday/join", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, decode[errorBody](t, resp).Error)
		})
	}
}

func TestJoinAndLeave(t *testing.T) {
	srv := testServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/sessions/seed-monday/join", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.JoinedSession{SessionID: "seed-monday", GroupID: "A"}, decode[models.JoinedSession](t, resp))

	resp = do(t, http.MethodDelete, srv.URL+"/sessions/seed-monday/join", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/joined", "")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestShareCard(t *testing.T) {
	srv := testServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/sessions/seed-monday/share", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Fartlek · Parc")
	assert.Contains(t, string(raw), "LUNDI 10 NOVEMBRE 06:00")
}
