package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/neilberkman/runclub/internal/core/models"
)

// Sessions stores user-authored sessions under SessionsKey.
// Every write is a whole-array read-modify-write; mu serializes them.
type Sessions struct {
	kv     KV
	logger *log.Logger

	mu      sync.Mutex
	pending sync.WaitGroup
}

// NewSessions returns a session store over kv. A nil logger logs to the
// standard logger.
func NewSessions(kv KV, logger *log.Logger) *Sessions {
	if logger == nil {
		logger = log.Default()
	}
	return &Sessions{kv: kv, logger: logger}
}

func checkSession(s *models.Session) error {
	return s.Validate()
}

func (st *Sessions) load(ctx context.Context) ([]models.Session, error) {
	return loadArray(ctx, st.kv, SessionsKey, st.logger, checkSession)
}

// GetAll returns every valid stored session. Records missing canonical date
// fields are backfilled from their label; when any was, the corrected array
// is written back in the background (see Wait).
func (st *Sessions) GetAll(ctx context.Context, now time.Time) ([]models.Session, error) {
	records, err := st.load(ctx)
	if err != nil {
		return nil, err
	}

	migrated, changed := MigrateRecords(records, now)
	if changed {
		st.pending.Add(1)
		go func() {
			defer st.pending.Done()
			st.repersist(now)
		}()
	}
	return migrated, nil
}

// repersist re-reads under the write lock so a concurrent write is never
// overwritten with the stale array GetAll saw
func (st *Sessions) repersist(now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()

	ctx := context.Background()
	records, err := st.load(ctx)
	if err != nil {
		st.logger.Printf("store: migration re-persist failed: %v", err)
		return
	}
	migrated, changed := MigrateRecords(records, now)
	if !changed {
		return
	}
	if err := saveArray(ctx, st.kv, SessionsKey, migrated); err != nil {
		st.logger.Printf("store: migration re-persist failed: %v", err)
	}
}

// Wait blocks until background re-persists started so far have finished
func (st *Sessions) Wait() {
	st.pending.Wait()
}

// Get returns the stored session with id
func (st *Sessions) Get(ctx context.Context, id string, now time.Time) (models.Session, bool, error) {
	all, err := st.GetAll(ctx, now)
	if err != nil {
		return models.Session{}, false, err
	}
	for _, s := range all {
		if s.ID == id {
			return s, true, nil
		}
	}
	return models.Session{}, false, nil
}

// Create stores s as a user-authored session. isCustom is always set.
func (st *Sessions) Create(ctx context.Context, s models.Session) (models.Session, error) {
	created := s.Clone()
	created.IsCustom = true
	if err := created.Validate(); err != nil {
		return models.Session{}, fmt.Errorf("create session: %w", err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	records, err := st.load(ctx)
	if err != nil {
		return models.Session{}, err
	}
	for _, r := range records {
		if r.ID == created.ID {
			return models.Session{}, fmt.Errorf("create session: %w: id %s already exists", models.ErrInvalidInput, created.ID)
		}
	}

	records = append(records, created)
	if err := saveArray(ctx, st.kv, SessionsKey, records); err != nil {
		return models.Session{}, err
	}
	return created.Clone(), nil
}

// Update merges patch over the session with id. id and isCustom keep their
// stored values. A patched date keeps dateLabel, dateISO and timeMinutes
// consistent, with now anchoring label parsing. An unknown id is logged and
// reported as not found; an invalid merge leaves the store untouched.
func (st *Sessions) Update(ctx context.Context, id string, patch Patch, now time.Time) (models.Session, bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	records, err := st.load(ctx)
	if err != nil {
		return models.Session{}, false, err
	}

	idx := -1
	for i, r := range records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		st.logger.Printf("store: update of unknown session %s ignored", id)
		return models.Session{}, false, nil
	}

	merged, err := patch.apply(records[idx], now)
	if err != nil {
		return models.Session{}, true, fmt.Errorf("update session %s: %w", id, err)
	}
	if err := merged.Validate(); err != nil {
		return models.Session{}, true, fmt.Errorf("update session %s: %w", id, err)
	}

	records[idx] = merged
	if err := saveArray(ctx, st.kv, SessionsKey, records); err != nil {
		return models.Session{}, true, err
	}
	return merged.Clone(), true, nil
}

// Remove deletes the session with id and reports whether it existed.
// A missing id is not an error.
func (st *Sessions) Remove(ctx context.Context, id string) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	records, err := st.load(ctx)
	if err != nil {
		return false, err
	}

	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	if err := saveArray(ctx, st.kv, SessionsKey, kept); err != nil {
		return false, err
	}
	return true, nil
}
