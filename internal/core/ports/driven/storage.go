package driven

import (
	"context"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// KVStore is durable string key-value storage.
// Writes are last-write-wins.
type KVStore interface {
	// Get returns the value for key. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error

	// DeletePrefix removes every key starting with prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// AudioCache is durable storage for synthesized speech, separate from KVStore.
type AudioCache interface {
	// Get returns the payload for a chapter. Returns domain.ErrNotFound if absent
	// or if the underlying store cannot be opened.
	Get(ctx context.Context, key domain.ChapterKey) (*domain.AudioPayload, error)

	// Put stores a payload, replacing any previous payload for the chapter.
	Put(ctx context.Context, payload domain.AudioPayload) error

	// ClearAll removes every payload. A store that was never opened is left alone.
	ClearAll(ctx context.Context) error
}

// EventSink receives progress notifications. Publish must not block.
type EventSink interface {
	Publish(event domain.Event)
}
