package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Attempt is one source in the resolution chain.
type Attempt struct {
	// Source names the attempt in logs, events and errors.
	Source string

	// Fetch returns the chapter's verses. A domain.ErrUnsupported error means
	// the source does not cover the work; it is skipped silently.
	Fetch func(ctx context.Context, work domain.WorkReference, chapter int) ([]domain.SourceVerse, error)
}

// PrimaryAttempt adapts a primary provider. Works without a primary address
// are unsupported.
func PrimaryAttempt(catalog driven.WorkCatalog, provider driven.PrimaryTextProvider) Attempt {
	return Attempt{
		Source: provider.Name(),
		Fetch: func(ctx context.Context, work domain.WorkReference, chapter int) ([]domain.SourceVerse, error) {
			address, ok := catalog.PrimaryAddress(work.ID)
			if !ok {
				return nil, domain.ErrUnsupported
			}
			return provider.FetchChapter(ctx, address, chapter)
		},
	}
}

// GenerativeAttempt adapts the generative provider's retrieval.
func GenerativeAttempt(provider driven.GenerativeRetrievalProvider) Attempt {
	return Attempt{
		Source: provider.Name(),
		Fetch:  provider.FetchChapter,
	}
}

// Ensure ChapterService implements the interface.
var _ driving.ChapterService = (*ChapterService)(nil)

// ChapterService resolves chapters from the cache or, on a miss, from the first
// attempt that returns well-formed verses. It also renders resolved chapters.
type ChapterService struct {
	cache      *ChapterCache
	catalog    driven.WorkCatalog
	generative driven.GenerativeRetrievalProvider
	attempts   []Attempt
	events     driven.EventSink
	group      singleflight.Group
	now        func() time.Time
}

// NewChapterService creates a chapter service trying attempts in order.
// generative serves rendering and may be nil, in which case Render fails
// with domain.ErrNotConfigured.
func NewChapterService(
	cache *ChapterCache,
	catalog driven.WorkCatalog,
	generative driven.GenerativeRetrievalProvider,
	events driven.EventSink,
	attempts ...Attempt,
) *ChapterService {
	return &ChapterService{
		cache:      cache,
		catalog:    catalog,
		generative: generative,
		attempts:   attempts,
		events:     eventSink(events),
		now:        time.Now,
	}
}

// Resolve returns the record for key. Concurrent calls for the same key
// share one resolution.
func (s *ChapterService) Resolve(ctx context.Context, key domain.ChapterKey) (*domain.ChapterRecord, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	work, err := s.catalog.Get(key.WorkID)
	if err != nil {
		return nil, err
	}
	if !work.HasChapter(key.Chapter) {
		return nil, fmt.Errorf("%w: %s has %d chapters", domain.ErrInvalidInput, work.ID, work.Chapters)
	}

	if record, ok := s.cache.Get(ctx, key); ok && record.HasContent() {
		logger.Debug("resolve %s: cache hit", key)
		return record, nil
	}

	v, err, shared := s.group.Do(key.String(), func() (any, error) {
		return s.resolve(ctx, work, key)
	})
	if err != nil {
		return nil, err
	}
	record := v.(*domain.ChapterRecord)
	if shared {
		clone := record.Clone()
		record = &clone
	}
	return record, nil
}

func (s *ChapterService) resolve(ctx context.Context, work domain.WorkReference, key domain.ChapterKey) (*domain.ChapterRecord, error) {
	s.publish(domain.Event{Type: domain.EventResolveStarted, Key: key})

	var failures []domain.AttemptFailure
	for _, a := range s.attempts {
		verses, err := a.Fetch(ctx, work, key.Chapter)
		if errors.Is(err, domain.ErrUnsupported) {
			logger.Debug("resolve %s: %s does not cover %s", key, a.Source, work.ID)
			continue
		}
		if err == nil {
			verses, err = normalize(verses)
			if err != nil {
				err = domain.NewProviderError(a.Source, "fetch", err)
			}
		}
		if err != nil {
			logger.Warn("resolve %s: %s failed: %v", key, a.Source, err)
			failures = append(failures, domain.AttemptFailure{Source: a.Source, Err: err})
			if ctx.Err() != nil {
				break
			}
			continue
		}

		record := &domain.ChapterRecord{
			WorkID:    key.WorkID,
			Chapter:   key.Chapter,
			Verses:    toVerses(verses),
			Timestamp: s.now(),
		}
		// A failed write leaves the record usable for this session.
		_ = s.cache.Put(ctx, *record)

		logger.Debug("resolve %s: %d verses from %s", key, len(record.Verses), a.Source)
		s.publish(domain.Event{Type: domain.EventResolveSource, Key: key, Source: a.Source})
		return record, nil
	}

	rerr := &domain.ResolutionError{Key: key, Attempts: failures}
	s.publish(domain.Event{Type: domain.EventResolveFailed, Key: key, Message: rerr.Error()})
	return nil, rerr
}

func (s *ChapterService) publish(e domain.Event) {
	s.events.Publish(e)
}

// normalize sorts verses by number and trims their text. It rejects empty
// results, non-positive or duplicate numbers, and empty text.
func normalize(verses []domain.SourceVerse) ([]domain.SourceVerse, error) {
	if len(verses) == 0 {
		return nil, fmt.Errorf("%w: no verses", domain.ErrMalformed)
	}

	out := make([]domain.SourceVerse, len(verses))
	seen := make(map[int]bool, len(verses))
	for i, v := range verses {
		if v.Number < 1 {
			return nil, fmt.Errorf("%w: verse number %d", domain.ErrMalformed, v.Number)
		}
		if seen[v.Number] {
			return nil, fmt.Errorf("%w: duplicate verse %d", domain.ErrMalformed, v.Number)
		}
		seen[v.Number] = true

		text := strings.TrimSpace(v.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: verse %d is empty", domain.ErrMalformed, v.Number)
		}
		out[i] = domain.SourceVerse{Number: v.Number, Text: text}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func toVerses(src []domain.SourceVerse) []domain.Verse {
	verses := make([]domain.Verse, len(src))
	for i, v := range src {
		verses[i] = domain.Verse{Number: v.Number, Primary: v.Text}
	}
	return verses
}
