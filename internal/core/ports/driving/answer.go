package driving

import (
	"context"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// AnswerService answers questions grounded on the permitted site.
type AnswerService interface {
	// Ask sends a question with an optional reading context.
	// Returns the responder message; its citations are never empty.
	// Returns *domain.ChatError on provider failure.
	Ask(ctx context.Context, question, readingContext string) (*domain.Message, error)

	// Reset discards the session and history.
	Reset()

	// History returns the messages exchanged since the last reset.
	History() []domain.Message
}
