package memory

import (
	"context"
	"sync"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

// Ensure AudioCache implements the interface.
var _ driven.AudioCache = (*AudioCache)(nil)

// AudioCache is an in-memory implementation of driven.AudioCache.
type AudioCache struct {
	mu       sync.RWMutex
	payloads map[domain.ChapterKey]domain.AudioPayload
}

// NewAudioCache creates an empty cache.
func NewAudioCache() *AudioCache {
	return &AudioCache{payloads: make(map[domain.ChapterKey]domain.AudioPayload)}
}

// Get returns a copy of the payload for a chapter.
func (c *AudioCache) Get(_ context.Context, key domain.ChapterKey) (*domain.AudioPayload, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.payloads[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Data = append([]byte(nil), p.Data...)
	return &p, nil
}

// Put stores a payload, replacing any previous payload for the chapter.
func (c *AudioCache) Put(_ context.Context, p domain.AudioPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p.Data = append([]byte(nil), p.Data...)
	c.payloads[p.Key] = p
	return nil
}

// ClearAll removes every payload.
func (c *AudioCache) ClearAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.payloads)
	return nil
}
