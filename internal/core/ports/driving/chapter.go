package driving

import (
	"context"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// ChapterService resolves and renders chapters.
type ChapterService interface {
	// Resolve returns the chapter from cache or the first source that succeeds.
	// Returns *domain.ResolutionError when every source failed.
	Resolve(ctx context.Context, key domain.ChapterKey) (*domain.ChapterRecord, error)

	// Render adds the secondary rendering to a resolved record and saves it.
	// Returns *domain.RenderError without touching the cache on any failure.
	Render(ctx context.Context, record domain.ChapterRecord) (*domain.ChapterRecord, error)

	// RenderKey renders a chapter that is already cached.
	// Returns domain.ErrNotFound if the chapter was never resolved.
	RenderKey(ctx context.Context, key domain.ChapterKey) (*domain.ChapterRecord, error)
}

// CacheService clears cached data.
type CacheService interface {
	// Clear removes cached chapters and, if audio is set, all cached audio.
	Clear(ctx context.Context, audio bool) (ClearResult, error)
}

// ClearResult reports what a clear removed.
type ClearResult struct {
	Chapters     int
	AudioCleared bool
}

// WorkService exposes the work catalog.
type WorkService interface {
	// List returns all works in canonical order.
	List() []domain.WorkReference

	// Get returns a work by ID.
	Get(id string) (domain.WorkReference, error)

	// ParseReference turns user input such as "John 3" or "تكوين 1" into a chapter key.
	// Chapters are clamped to the work's bounds.
	ParseReference(input string) (domain.ChapterKey, error)
}
