package services

import (
	"context"
	"fmt"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Ensure CacheService implements the interface.
var _ driving.CacheService = (*CacheService)(nil)

// CacheService clears the chapter and audio caches.
type CacheService struct {
	chapters *ChapterCache
	audio    driven.AudioCache
}

// NewCacheService creates a cache service.
func NewCacheService(chapters *ChapterCache, audio driven.AudioCache) *CacheService {
	return &CacheService{chapters: chapters, audio: audio}
}

// Clear removes cached chapters and, if audio is set, all cached audio.
func (s *CacheService) Clear(ctx context.Context, audio bool) (driving.ClearResult, error) {
	var result driving.ClearResult

	n, err := s.chapters.Clear(ctx)
	if err != nil {
		return result, fmt.Errorf("clear chapters: %w", err)
	}
	result.Chapters = n

	if audio && s.audio != nil {
		if err := s.audio.ClearAll(ctx); err != nil {
			return result, fmt.Errorf("clear audio: %w", err)
		}
		result.AudioCleared = true
	}

	logger.Info("cache cleared: %d chapter(s), audio=%t", result.Chapters, result.AudioCleared)
	return result, nil
}
