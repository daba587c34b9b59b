package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdelmaseeh/SmartEgyBible/internal/audio"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Ensure AudioService implements the interface.
var _ driving.AudioService = (*AudioService)(nil)

// AudioService loads chapter speech from the binary cache, synthesizing and
// caching it on a miss.
type AudioService struct {
	cache      driven.AudioCache
	speech     driven.SpeechSynthesisProvider
	sampleRate int
	events     driven.EventSink
	now        func() time.Time
}

// NewAudioService creates an audio service. speech may be nil, in which case
// Speak only serves cached audio.
func NewAudioService(cache driven.AudioCache, speech driven.SpeechSynthesisProvider, sampleRate int, events driven.EventSink) *AudioService {
	if sampleRate <= 0 {
		sampleRate = audio.DefaultSampleRate
	}
	return &AudioService{
		cache:      cache,
		speech:     speech,
		sampleRate: sampleRate,
		events:     eventSink(events),
		now:        time.Now,
	}
}

// EnsureLoaded returns playable audio for text. A cached payload is used only
// when it was synthesized from the same text; a payload for another variant
// is replaced.
func (s *AudioService) EnsureLoaded(ctx context.Context, key domain.ChapterKey, text string, synth driving.SynthesizeFunc) (*domain.AudioPayload, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: nothing to speak for %s", domain.ErrInvalidInput, key)
	}
	fingerprint := audio.Fingerprint(text)

	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil && cached.Fingerprint == fingerprint:
		logger.Debug("audio %s: cache hit", key)
		return cached, nil
	case err == nil:
		logger.Warn("audio %s: cached audio is for another text variant, regenerating", key)
	case !errors.Is(err, domain.ErrNotFound):
		logger.Warn("audio %s: cache read: %v", key, err)
	}

	if synth == nil {
		return nil, fmt.Errorf("audio %s: %w", key, domain.ErrNotConfigured)
	}
	data, err := synth(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("audio %s: %w: no audio returned", key, domain.ErrMalformed)
	}

	payload := domain.AudioPayload{
		Key:         key,
		Data:        audio.Frame(data, s.sampleRate),
		Fingerprint: fingerprint,
		CreatedAt:   s.now(),
	}
	if err := s.cache.Put(ctx, payload); err != nil {
		logger.Warn("audio %s: cache write failed, continuing without persistence: %v", key, err)
	}

	s.events.Publish(domain.Event{Type: domain.EventAudioReady, Key: key})
	return &payload, nil
}

// Speak loads speech for record, using its rendering when present.
func (s *AudioService) Speak(ctx context.Context, record domain.ChapterRecord) (*domain.AudioPayload, error) {
	var synth driving.SynthesizeFunc
	if s.speech != nil {
		synth = s.speech.Synthesize
	}
	return s.EnsureLoaded(ctx, record.Key(), record.SpeechText(), synth)
}
