package storage

import (
	"context"
	"sync"

	"github.com/newshound/newshound/internal/types"
)

// MemoryStore keeps records in process memory. Used for tests and dry
// runs; the mutex makes check-and-insert atomic under concurrent workers.
type MemoryStore struct {
	mu            sync.Mutex
	byFingerprint map[string]*types.ArticleRecord
	bySourceURL   map[string]string // (sourceID, url) -> fingerprint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byFingerprint: make(map[string]*types.ArticleRecord),
		bySourceURL:   make(map[string]string),
	}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Find(ctx context.Context, fingerprint string) (*types.ArticleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byFingerprint[fingerprint], nil
}

func (s *MemoryStore) InsertIfAbsent(ctx context.Context, rec *types.ArticleRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byFingerprint[rec.ContentFingerprint]; exists {
		return false, nil
	}
	urlKey := rec.SourceID + "\n" + rec.URL
	if _, exists := s.bySourceURL[urlKey]; exists {
		return false, nil
	}

	s.byFingerprint[rec.ContentFingerprint] = rec
	s.bySourceURL[urlKey] = rec.ContentFingerprint
	return true, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byFingerprint)
}
