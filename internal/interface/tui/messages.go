package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/models"
)

type errMsg struct {
	err error
}

type statusMsg string

type sessionsLoadedMsg struct {
	sessions []models.Session
	joined   map[string]string
}

type searchResultsMsg struct {
	query   string
	results []models.Session
}

// joinChangedMsg reports a join (groupID set) or a leave (groupID empty)
type joinChangedMsg struct {
	sessionID string
	groupID   string
	status    string
}

func loadSessions(cat *catalog.Catalog, paces *models.ReferencePaces, now time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		sessions, err := cat.Find(ctx, models.FilterState{}, paces, now)
		if err != nil {
			return errMsg{err}
		}
		entries, err := cat.Joined(ctx, now)
		if err != nil {
			return errMsg{err}
		}
		joined := make(map[string]string, len(entries))
		for _, e := range entries {
			joined[e.Session.ID] = e.GroupID
		}
		return sessionsLoadedMsg{sessions: sessions, joined: joined}
	}
}

func performSearch(cat *catalog.Catalog, query string, paces *models.ReferencePaces, now time.Time) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			return searchResultsMsg{query: query, results: nil}
		}
		results, err := cat.Search(context.Background(), query, paces, now)
		if err != nil {
			return errMsg{err}
		}
		if results == nil {
			results = []models.Session{}
		}
		return searchResultsMsg{query: query, results: results}
	}
}

func joinSession(cat *catalog.Catalog, id, groupID, runnerGroup string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		j, err := cat.Join(context.Background(), id, groupID, runnerGroup, now)
		switch {
		case errors.Is(err, catalog.ErrNotJoinable):
			return statusMsg("Réservée au groupe organisateur")
		case errors.Is(err, catalog.ErrUnknownGroup):
			return statusMsg(fmt.Sprintf("Groupe %s non proposé", groupID))
		case err != nil:
			return errMsg{err}
		}
		return joinChangedMsg{
			sessionID: j.SessionID,
			groupID:   j.GroupID,
			status:    fmt.Sprintf("✓ Inscrit dans le groupe %s", j.GroupID),
		}
	}
}

func leaveSession(cat *catalog.Catalog, id string) tea.Cmd {
	return func() tea.Msg {
		removed, err := cat.Leave(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		if !removed {
			return statusMsg("Not joined")
		}
		return joinChangedMsg{sessionID: id, status: "Left session"}
	}
}

func copyShareCard(card string) tea.Cmd {
	return func() tea.Msg {
		if card == "" {
			return statusMsg("No share card to copy")
		}
		if err := clipboard.WriteAll(card); err != nil {
			return statusMsg(fmt.Sprintf("Copy failed: %v", err))
		}
		return statusMsg("✓ Share card copied to clipboard")
	}
}
