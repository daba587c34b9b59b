package driven

import (
	"context"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// ConversationProvider opens search-grounded chat sessions.
type ConversationProvider interface {
	// CreateSession opens a new session. History starts empty.
	CreateSession(ctx context.Context, cfg domain.SessionConfig) (ChatSession, error)
}

// ChatSession is one provider-side conversation.
type ChatSession interface {
	// Send delivers a message and returns the raw reply with grounding records.
	Send(ctx context.Context, message string) (*domain.ProviderReply, error)
}

// SpeechSynthesisProvider turns text into speech.
type SpeechSynthesisProvider interface {
	// Synthesize returns audio for the text. The result is either raw
	// 16-bit mono PCM or an already framed WAV stream.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
