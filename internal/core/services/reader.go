package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Ensure ReaderService implements the interface.
var _ driving.ReaderService = (*ReaderService)(nil)

var errNoSelection = fmt.Errorf("%w: no chapter selected", domain.ErrInvalidInput)

// ReaderService tracks the selected chapter. Every selection starts a new
// epoch; results computed for an older epoch are discarded with
// domain.ErrStale so they never overwrite the newer state.
//
// A chapter change resets the conversation before the new selection becomes
// visible, and questions hold off selections while they are answered.
type ReaderService struct {
	catalog  driven.WorkCatalog
	chapters driving.ChapterService
	audio    driving.AudioService
	answers  driving.AnswerService
	state    driven.KVStore

	switching sync.RWMutex

	mu       sync.Mutex
	epoch    uint64
	current  domain.ChapterKey
	selected bool
	record   *domain.ChapterRecord
}

// NewReaderService creates a reader. state stores the last position and may
// be nil.
func NewReaderService(
	catalog driven.WorkCatalog,
	chapters driving.ChapterService,
	audio driving.AudioService,
	answers driving.AnswerService,
	state driven.KVStore,
) *ReaderService {
	return &ReaderService{
		catalog:  catalog,
		chapters: chapters,
		audio:    audio,
		answers:  answers,
		state:    state,
	}
}

// Select moves to key. An out-of-range chapter selects chapter 1. Moving to a
// different chapter resets the conversation.
func (r *ReaderService) Select(ctx context.Context, key domain.ChapterKey) (domain.ChapterKey, error) {
	work, err := r.catalog.Get(key.WorkID)
	if err != nil {
		return domain.ChapterKey{}, err
	}
	if !work.HasChapter(key.Chapter) {
		key.Chapter = 1
	}

	r.switching.Lock()
	cur, selected := r.Current()
	changed := !selected || cur != key
	if changed && r.answers != nil {
		r.answers.Reset()
	}

	r.mu.Lock()
	r.epoch++
	r.current = key
	r.selected = true
	if changed {
		r.record = nil
	}
	r.mu.Unlock()
	r.switching.Unlock()

	r.savePosition(ctx, key)
	return key, nil
}

// Current returns the selected chapter, if any.
func (r *ReaderService) Current() (domain.ChapterKey, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.selected
}

// Next selects the following chapter, staying on the last one.
func (r *ReaderService) Next(ctx context.Context) (domain.ChapterKey, error) {
	return r.step(ctx, 1)
}

// Prev selects the preceding chapter, staying on the first one.
func (r *ReaderService) Prev(ctx context.Context) (domain.ChapterKey, error) {
	return r.step(ctx, -1)
}

func (r *ReaderService) step(ctx context.Context, delta int) (domain.ChapterKey, error) {
	cur, ok := r.Current()
	if !ok {
		return domain.ChapterKey{}, errNoSelection
	}
	work, err := r.catalog.Get(cur.WorkID)
	if err != nil {
		return domain.ChapterKey{}, err
	}
	next := domain.NewChapterKey(work.ID, work.ClampChapter(cur.Chapter+delta))
	if next == cur {
		return cur, nil
	}
	return r.Select(ctx, next)
}

// Open resolves the selected chapter.
func (r *ReaderService) Open(ctx context.Context) (*domain.ChapterRecord, error) {
	epoch, key, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	record, err := r.chapters.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := r.apply(epoch, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Render renders the selected chapter, resolving it first if needed.
func (r *ReaderService) Render(ctx context.Context) (*domain.ChapterRecord, error) {
	epoch, key, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	record, err := r.chapters.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := r.check(epoch); err != nil {
		return nil, err
	}
	rendered, err := r.chapters.Render(ctx, *record)
	if err != nil {
		return nil, err
	}
	if err := r.apply(epoch, rendered); err != nil {
		return nil, err
	}
	return rendered, nil
}

// Audio loads speech for the selected chapter in its current text variant.
func (r *ReaderService) Audio(ctx context.Context) (*domain.AudioPayload, error) {
	epoch, key, err := r.snapshot()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	record := r.record
	r.mu.Unlock()
	if record == nil {
		if record, err = r.chapters.Resolve(ctx, key); err != nil {
			return nil, err
		}
	}

	payload, err := r.audio.Speak(ctx, *record)
	if err != nil {
		return nil, err
	}
	if err := r.check(epoch); err != nil {
		return nil, err
	}
	return payload, nil
}

// Ask asks a question about the selected chapter. Without a selection the
// question is sent without reading context.
func (r *ReaderService) Ask(ctx context.Context, question string) (*domain.Message, error) {
	if r.answers == nil {
		return nil, &domain.ChatError{Err: domain.ErrNotConfigured}
	}

	r.switching.RLock()
	defer r.switching.RUnlock()

	epoch, reading := r.readingContext()
	answer, err := r.answers.Ask(ctx, question, reading)
	if err != nil {
		return nil, err
	}
	if err := r.check(epoch); err != nil {
		return nil, err
	}
	return answer, nil
}

// LastPosition returns the chapter selected in a previous run.
func (r *ReaderService) LastPosition(ctx context.Context) (domain.ChapterKey, error) {
	if r.state == nil {
		return domain.ChapterKey{}, domain.ErrNotFound
	}
	raw, err := r.state.Get(ctx, LastPositionKey)
	if err != nil {
		return domain.ChapterKey{}, err
	}

	var key domain.ChapterKey
	if err := json.Unmarshal([]byte(raw), &key); err != nil {
		return domain.ChapterKey{}, fmt.Errorf("%w: last position: %v", domain.ErrNotFound, err)
	}
	work, err := r.catalog.Get(key.WorkID)
	if err != nil {
		return domain.ChapterKey{}, err
	}
	key.Chapter = work.ClampChapter(key.Chapter)
	return key, nil
}

// readingContext returns the current epoch and the context string for it.
func (r *ReaderService) readingContext() (uint64, string) {
	r.mu.Lock()
	epoch, key, selected, record := r.epoch, r.current, r.selected, r.record
	r.mu.Unlock()
	if !selected {
		return epoch, ""
	}

	work, err := r.catalog.Get(key.WorkID)
	if err != nil {
		return epoch, ""
	}
	if record == nil {
		record = &domain.ChapterRecord{WorkID: key.WorkID, Chapter: key.Chapter}
	}
	return epoch, record.ReadingContext(work.Name)
}

func (r *ReaderService) snapshot() (uint64, domain.ChapterKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.selected {
		return 0, domain.ChapterKey{}, errNoSelection
	}
	return r.epoch, r.current, nil
}

func (r *ReaderService) check(epoch uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		return domain.ErrStale
	}
	return nil
}

// apply stores record as the open chapter unless the selection moved on.
func (r *ReaderService) apply(epoch uint64, record *domain.ChapterRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		logger.Debug("reader: discarding stale result for %s", record.Key())
		return domain.ErrStale
	}
	r.record = record
	return nil
}

func (r *ReaderService) savePosition(ctx context.Context, key domain.ChapterKey) {
	if r.state == nil {
		return
	}
	data, err := json.Marshal(key)
	if err == nil {
		err = r.state.Put(ctx, LastPositionKey, string(data))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("reader: save last position: %v", err)
	}
}
