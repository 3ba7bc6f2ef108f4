// Package store persists user-authored sessions and joined sessions as
// whole JSON arrays under versioned keys.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Storage keys. The suffix is tied to the on-disk record shape: a breaking
// shape change gets a new suffix and a migration branch.
const (
	SessionsKey = "sessions:v1"
	JoinedKey   = "joined-sessions:v1"
)

// KV is a document store keyed by string
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// MemoryKV is an in-process KV for tests and ephemeral runs
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// loadArray decodes the array stored under key. Unparseable documents and
// records rejected by check are dropped and logged; only storage failures
// are returned.
func loadArray[T any](ctx context.Context, kv KV, key string, logger *log.Logger, check func(*T) error) ([]T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return nil, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		logger.Printf("store: %s is not a JSON array, ignoring it: %v", key, err)
		return nil, nil
	}

	out := make([]T, 0, len(elems))
	for i, elem := range elems {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			logger.Printf("store: dropping record %d of %s: %v", i, key, err)
			continue
		}
		if err := check(&v); err != nil {
			logger.Printf("store: dropping record %d of %s: %v", i, key, err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func saveArray[T any](ctx context.Context, kv KV, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
