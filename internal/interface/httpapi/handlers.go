package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/neilberkman/runclub/internal/core/builder"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/share"
	"github.com/neilberkman/runclub/internal/core/store"
)

// maxBody caps request bodies; sessions are small documents
const maxBody = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", models.ErrInvalidInput, err)
	}
	return nil
}

// GET /sessions?query=type:fartlek+when:week
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	found, err := s.catalog.Search(r.Context(), r.URL.Query().Get("query"), s.paces, s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if found == nil {
		found = []models.Session{}
	}
	s.writeJSON(w, http.StatusOK, found)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"), s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var form builder.Form
	if err := decodeBody(w, r, &form); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.catalog.Create(r.Context(), form, s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+res.Session.ID)
	s.writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var patch store.Patch
	if err := decodeBody(w, r, &patch); err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := s.catalog.Update(r.Context(), chi.URLParam(r, "id"), patch, s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := s.catalog.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !removed {
		s.writeError(w, fmt.Errorf("session %s: %w", id, models.ErrNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /sessions/{id}/share renders the text share card
func (s *Server) handleShareSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"), s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	card, err := share.Render(s.shareTemplate, sess, s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(card))
}

type joinRequest struct {
	GroupID string `json:"groupId"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}
	joined, err := s.catalog.Join(r.Context(), chi.URLParam(r, "id"), req.GroupID, s.runnerGroup, s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, joined)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	left, err := s.catalog.Leave(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !left {
		s.writeError(w, fmt.Errorf("joined session %s: %w", id, models.ErrNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleJoined(w http.ResponseWriter, r *http.Request) {
	entries, err := s.catalog.Joined(r.Context(), s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		s.writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}
