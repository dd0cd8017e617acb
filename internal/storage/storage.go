// Package storage persists article records behind an atomic
// check-and-insert interface, deduplicating by content fingerprint.
package storage

import (
	"context"
	"log/slog"

	"github.com/newshound/newshound/internal/types"
)

// Store is the interface for all record store backends. Find and
// InsertIfAbsent must be atomic under concurrent callers: two concurrent
// inserts of the same fingerprint resolve to exactly one stored record.
type Store interface {
	// Find returns the record stored under fingerprint, or nil when
	// absent.
	Find(ctx context.Context, fingerprint string) (*types.ArticleRecord, error)

	// InsertIfAbsent stores the record keyed by its fingerprint. It
	// returns false without error when a record with the same
	// fingerprint (or source/URL pair) already exists.
	InsertIfAbsent(ctx context.Context, rec *types.ArticleRecord) (bool, error)

	// Close flushes pending writes and releases resources.
	Close(ctx context.Context) error

	// Name returns the storage backend identifier.
	Name() string
}

// Pipeline is the dedup-then-persist stage consuming assembled records.
type Pipeline struct {
	store  Store
	logger *slog.Logger
}

// NewPipeline creates a storage pipeline over a backend.
func NewPipeline(store Store, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:  store,
		logger: logger.With("component", "storage", "backend", store.Name()),
	}
}

// Store deduplicates and persists one record. Duplicates are an expected
// outcome, not an error; backend failures surface as rejected outcomes
// and are never silently dropped or retried here.
func (p *Pipeline) Store(ctx context.Context, rec *types.ArticleRecord) types.StorageOutcome {
	existing, err := p.store.Find(ctx, rec.ContentFingerprint)
	if err != nil {
		p.logger.Error("lookup failed", "fingerprint", rec.ContentFingerprint, "error", err)
		return types.StorageOutcome{
			Fingerprint: rec.ContentFingerprint,
			Status:      types.StatusRejected,
			Reason:      (&types.StorageError{Backend: p.store.Name(), Err: err}).Error(),
		}
	}
	if existing != nil {
		p.logger.Debug("duplicate record", "fingerprint", rec.ContentFingerprint, "url", rec.URL)
		return types.StorageOutcome{
			Fingerprint: rec.ContentFingerprint,
			Status:      types.StatusDuplicate,
		}
	}

	// The insert itself is the authoritative dedup point; the lookup
	// above only avoids the write for the common re-crawl case.
	inserted, err := p.store.InsertIfAbsent(ctx, rec)
	if err != nil {
		p.logger.Error("insert failed", "fingerprint", rec.ContentFingerprint, "error", err)
		return types.StorageOutcome{
			Fingerprint: rec.ContentFingerprint,
			Status:      types.StatusRejected,
			Reason:      (&types.StorageError{Backend: p.store.Name(), Err: err}).Error(),
		}
	}
	if !inserted {
		return types.StorageOutcome{
			Fingerprint: rec.ContentFingerprint,
			Status:      types.StatusDuplicate,
		}
	}

	p.logger.Debug("record stored", "fingerprint", rec.ContentFingerprint, "url", rec.URL)
	return types.StorageOutcome{
		Fingerprint: rec.ContentFingerprint,
		Status:      types.StatusInserted,
	}
}
