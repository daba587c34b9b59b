package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Storage keys. Clearing the chapter cache removes CachePrefix keys only,
// so LastPositionKey survives.
const (
	CachePrefix     = "smartegy_cache_"
	LastPositionKey = "smartegy_state_last"
)

// CacheKey returns the storage key of a chapter record.
func CacheKey(key domain.ChapterKey) string {
	return CachePrefix + key.String()
}

// ChapterCache stores chapter records as JSON in a KVStore.
type ChapterCache struct {
	kv driven.KVStore
}

// NewChapterCache creates a chapter cache over kv.
func NewChapterCache(kv driven.KVStore) *ChapterCache {
	return &ChapterCache{kv: kv}
}

// Get returns the cached record. Read failures and undecodable values are
// logged and reported as a miss.
func (c *ChapterCache) Get(ctx context.Context, key domain.ChapterKey) (*domain.ChapterRecord, bool) {
	raw, err := c.kv.Get(ctx, CacheKey(key))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("cache read %s: %v", key, err)
		}
		return nil, false
	}

	var record domain.ChapterRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		logger.Warn("cache entry %s is corrupt, ignoring: %v", key, err)
		return nil, false
	}
	return &record, true
}

// Put saves a record, replacing any previous record for the same chapter.
// Failures are logged and returned as *domain.CacheWriteError.
func (c *ChapterCache) Put(ctx context.Context, record domain.ChapterRecord) error {
	storageKey := CacheKey(record.Key())

	data, err := json.Marshal(record)
	if err == nil {
		err = c.kv.Put(ctx, storageKey, string(data))
	}
	if err != nil {
		logger.Warn("cache write %s failed, continuing without persistence: %v", storageKey, err)
		return &domain.CacheWriteError{Key: storageKey, Err: err}
	}
	return nil
}

// Clear removes every cached chapter and returns how many were removed.
func (c *ChapterCache) Clear(ctx context.Context) (int, error) {
	return c.kv.DeletePrefix(ctx, CachePrefix)
}
