package driven

import (
	"context"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// PrimaryTextProvider fetches authoritative chapter text.
type PrimaryTextProvider interface {
	// Name identifies the provider in logs and errors.
	Name() string

	// FetchChapter returns the verses of a chapter.
	// address is the provider-specific identifier of the work from WorkCatalog.
	// Failures are returned as *domain.ProviderError.
	FetchChapter(ctx context.Context, address string, chapter int) ([]domain.SourceVerse, error)
}

// GenerativeRetrievalProvider is the model-backed text source.
// It only retrieves and restates existing text, never composes.
type GenerativeRetrievalProvider interface {
	// Name identifies the provider in logs and errors.
	Name() string

	// FetchChapter retrieves the verses of a chapter from the model.
	FetchChapter(ctx context.Context, work domain.WorkReference, chapter int) ([]domain.SourceVerse, error)

	// RenderSecondary produces a colloquial rendering of each verse.
	// The result must contain the same verse numbers in the same order.
	RenderSecondary(ctx context.Context, work domain.WorkReference, chapter int, verses []domain.Verse) ([]domain.Verse, error)
}

// WorkCatalog lists canonical works and their primary-source addresses.
type WorkCatalog interface {
	// List returns all works in canonical order.
	List() []domain.WorkReference

	// Get returns a work by ID. Returns domain.ErrNotFound if unknown.
	Get(id string) (domain.WorkReference, error)

	// Find resolves an ID, name or alias (case-insensitive) to a work.
	Find(name string) (domain.WorkReference, error)

	// PrimaryAddress returns the primary-source address for a work.
	// The boolean is false when no primary source covers the work.
	PrimaryAddress(id string) (string, bool)
}
