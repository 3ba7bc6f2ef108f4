package store

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/neilberkman/runclub/internal/core/models"
)

// Joined stores the runner's joined sessions under JoinedKey, at most one
// entry per session
type Joined struct {
	kv     KV
	logger *log.Logger
	mu     sync.Mutex
}

func NewJoined(kv KV, logger *log.Logger) *Joined {
	if logger == nil {
		logger = log.Default()
	}
	return &Joined{kv: kv, logger: logger}
}

func checkJoined(j *models.JoinedSession) error {
	if j.SessionID == "" || j.GroupID == "" {
		return fmt.Errorf("%w: joined session needs sessionId and groupId", models.ErrInvalidInput)
	}
	return nil
}

func (st *Joined) load(ctx context.Context) ([]models.JoinedSession, error) {
	records, err := loadArray(ctx, st.kv, JoinedKey, st.logger, checkJoined)
	if err != nil {
		return nil, err
	}

	// Keep the last entry per session
	last := make(map[string]int, len(records))
	for i, r := range records {
		last[r.SessionID] = i
	}
	deduped := records[:0]
	for i, r := range records {
		if last[r.SessionID] == i {
			deduped = append(deduped, r)
		}
	}
	return deduped, nil
}

// List returns every joined session
func (st *Joined) List(ctx context.Context) ([]models.JoinedSession, error) {
	return st.load(ctx)
}

// Get returns the group picked for sessionID
func (st *Joined) Get(ctx context.Context, sessionID string) (models.JoinedSession, bool, error) {
	records, err := st.load(ctx)
	if err != nil {
		return models.JoinedSession{}, false, err
	}
	for _, r := range records {
		if r.SessionID == sessionID {
			return r, true, nil
		}
	}
	return models.JoinedSession{}, false, nil
}

// Join records groupID for sessionID, replacing any earlier choice
func (st *Joined) Join(ctx context.Context, sessionID, groupID string) error {
	entry := models.JoinedSession{SessionID: sessionID, GroupID: groupID}
	if err := checkJoined(&entry); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	records, err := st.load(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i, r := range records {
		if r.SessionID == sessionID {
			records[i] = entry
			replaced = true
		}
	}
	if !replaced {
		records = append(records, entry)
	}
	return saveArray(ctx, st.kv, JoinedKey, records)
}

// Leave forgets sessionID and reports whether it was joined
func (st *Joined) Leave(ctx context.Context, sessionID string) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	records, err := st.load(ctx)
	if err != nil {
		return false, err
	}
	kept := records[:0]
	for _, r := range records {
		if r.SessionID != sessionID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	return true, saveArray(ctx, st.kv, JoinedKey, kept)
}
