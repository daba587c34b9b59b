package driving

import (
	"context"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// SynthesizeFunc produces audio bytes for text.
type SynthesizeFunc func(ctx context.Context, text string) ([]byte, error)

// AudioService provides cached speech for chapters.
type AudioService interface {
	// EnsureLoaded returns cached audio for the chapter, or synthesizes text
	// with synth, frames it as WAV and caches it.
	EnsureLoaded(ctx context.Context, key domain.ChapterKey, text string, synth SynthesizeFunc) (*domain.AudioPayload, error)

	// Speak is EnsureLoaded for a record, using its speech text and the
	// configured synthesis provider.
	Speak(ctx context.Context, record domain.ChapterRecord) (*domain.AudioPayload, error)
}
