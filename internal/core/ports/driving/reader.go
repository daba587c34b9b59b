package driving

import (
	"context"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// ReaderService holds the reading position and guards against stale results.
// Results for a chapter that is no longer selected return domain.ErrStale.
type ReaderService interface {
	// Select moves to a chapter, resetting the conversation.
	Select(ctx context.Context, key domain.ChapterKey) (domain.ChapterKey, error)

	// Current returns the selected chapter, if any.
	Current() (domain.ChapterKey, bool)

	// Next and Prev move within the current work's chapters.
	Next(ctx context.Context) (domain.ChapterKey, error)
	Prev(ctx context.Context) (domain.ChapterKey, error)

	// Open resolves the selected chapter.
	Open(ctx context.Context) (*domain.ChapterRecord, error)

	// Render renders the selected chapter.
	Render(ctx context.Context) (*domain.ChapterRecord, error)

	// Audio loads speech for the selected chapter.
	Audio(ctx context.Context) (*domain.AudioPayload, error)

	// Ask asks a question in the context of the selected chapter.
	Ask(ctx context.Context, question string) (*domain.Message, error)

	// LastPosition returns the last selected chapter from a previous run.
	LastPosition(ctx context.Context) (domain.ChapterKey, error)
}
