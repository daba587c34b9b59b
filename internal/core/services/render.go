package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Render adds the secondary rendering to record and saves the merged record.
// Any provider failure or contract violation returns *domain.RenderError and
// leaves the cache untouched.
func (s *ChapterService) Render(ctx context.Context, record domain.ChapterRecord) (*domain.ChapterRecord, error) {
	key := record.Key()
	if !record.HasContent() {
		return nil, &domain.RenderError{Key: key, Reason: "no verses to render", Err: domain.ErrInvalidInput}
	}
	if s.generative == nil {
		return nil, &domain.RenderError{Key: key, Reason: "no generative provider", Err: domain.ErrNotConfigured}
	}
	work, err := s.catalog.Get(key.WorkID)
	if err != nil {
		return nil, &domain.RenderError{Key: key, Reason: "unknown work", Err: err}
	}

	s.publish(domain.Event{Type: domain.EventRenderStarted, Key: key, Source: s.generative.Name()})

	rendered, err := s.generative.RenderSecondary(ctx, work, key.Chapter, record.Verses)
	if err != nil {
		return nil, s.renderFailed(&domain.RenderError{Key: key, Reason: "provider failed", Err: err})
	}

	merged, reason := mergeRendering(record.Verses, rendered)
	if reason != "" {
		return nil, s.renderFailed(&domain.RenderError{Key: key, Reason: reason, Err: domain.ErrMalformed})
	}

	out := record.Clone()
	out.Verses = merged
	out.Timestamp = s.now()
	_ = s.cache.Put(ctx, out)

	logger.Debug("render %s: %d verses", key, len(merged))
	s.publish(domain.Event{Type: domain.EventRenderDone, Key: key, Source: s.generative.Name()})
	return &out, nil
}

// RenderKey renders a chapter that is already in the cache. Rendering never
// fetches primary text, so an uncached chapter is domain.ErrNotFound.
func (s *ChapterService) RenderKey(ctx context.Context, key domain.ChapterKey) (*domain.ChapterRecord, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	record, ok := s.cache.Get(ctx, key)
	if !ok || !record.HasContent() {
		return nil, fmt.Errorf("%w: %s is not cached, resolve it first", domain.ErrNotFound, key)
	}
	return s.Render(ctx, *record)
}

func (s *ChapterService) renderFailed(err *domain.RenderError) error {
	logger.Warn("%v", err)
	s.publish(domain.Event{Type: domain.EventRenderFailed, Key: err.Key, Message: err.Error()})
	return err
}

// mergeRendering pairs each source verse with its rendering. The reply must
// list the same verse numbers in the same order with non-empty text. The
// primary text always comes from source. A non-empty reason reports a
// violation.
func mergeRendering(source, rendered []domain.Verse) ([]domain.Verse, string) {
	if len(rendered) != len(source) {
		return nil, fmt.Sprintf("expected %d verses, got %d", len(source), len(rendered))
	}

	merged := make([]domain.Verse, len(source))
	for i, v := range source {
		r := rendered[i]
		if r.Number != v.Number {
			return nil, fmt.Sprintf("verse %d out of order (got %d)", v.Number, r.Number)
		}
		text := strings.TrimSpace(r.Secondary)
		if text == "" {
			return nil, fmt.Sprintf("verse %d has no rendering", v.Number)
		}
		merged[i] = domain.Verse{Number: v.Number, Primary: v.Primary, Secondary: text}
	}
	return merged, ""
}
