package httpapi

import (
	"context"
	"sync"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
)

type mockWorks struct {
	works []domain.WorkReference
}

func (m *mockWorks) List() []domain.WorkReference { return m.works }

func (m *mockWorks) Get(id string) (domain.WorkReference, error) {
	for _, w := range m.works {
		if w.ID == id {
			return w, nil
		}
	}
	return domain.WorkReference{}, domain.ErrNotFound
}

func (m *mockWorks) ParseReference(string) (domain.ChapterKey, error) {
	return domain.ChapterKey{}, domain.ErrInvalidInput
}

type mockChapters struct {
	mu          sync.Mutex
	record      *domain.ChapterRecord
	resolveErr  error
	renderErr   error
	renderCalls int
}

func (m *mockChapters) Resolve(_ context.Context, key domain.ChapterKey) (*domain.ChapterRecord, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	rec := m.record.Clone()
	rec.WorkID, rec.Chapter = key.WorkID, key.Chapter
	return &rec, nil
}

func (m *mockChapters) Render(_ context.Context, record domain.ChapterRecord) (*domain.ChapterRecord, error) {
	m.mu.Lock()
	m.renderCalls++
	m.mu.Unlock()
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	out := record.Clone()
	for i := range out.Verses {
		out.Verses[i].Secondary = "masri " + out.Verses[i].Primary
	}
	return &out, nil
}

func (m *mockChapters) RenderKey(ctx context.Context, key domain.ChapterKey) (*domain.ChapterRecord, error) {
	rec, err := m.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	return m.Render(ctx, *rec)
}

type mockReader struct {
	mu       sync.Mutex
	selected []domain.ChapterKey
	opened   int
	asked    []string
	reply    *domain.Message
	askErr   error
}

func (m *mockReader) Select(_ context.Context, key domain.ChapterKey) (domain.ChapterKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = append(m.selected, key)
	return key, nil
}

func (m *mockReader) Current() (domain.ChapterKey, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.selected) == 0 {
		return domain.ChapterKey{}, false
	}
	return m.selected[len(m.selected)-1], true
}

func (m *mockReader) Next(context.Context) (domain.ChapterKey, error) { return domain.ChapterKey{}, nil }
func (m *mockReader) Prev(context.Context) (domain.ChapterKey, error) { return domain.ChapterKey{}, nil }

func (m *mockReader) Open(context.Context) (*domain.ChapterRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened++
	return &domain.ChapterRecord{}, nil
}

func (m *mockReader) Render(context.Context) (*domain.ChapterRecord, error) { return nil, nil }
func (m *mockReader) Audio(context.Context) (*domain.AudioPayload, error)   { return nil, nil }

func (m *mockReader) Ask(_ context.Context, question string) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asked = append(m.asked, question)
	if m.askErr != nil {
		return nil, m.askErr
	}
	return m.reply, nil
}

func (m *mockReader) LastPosition(context.Context) (domain.ChapterKey, error) {
	return domain.ChapterKey{}, domain.ErrNotFound
}

type mockAnswers struct {
	resets int
}

func (m *mockAnswers) Ask(context.Context, string, string) (*domain.Message, error) { return nil, nil }
func (m *mockAnswers) Reset()                                                      { m.resets++ }
func (m *mockAnswers) History() []domain.Message                                   { return nil }

type mockAudio struct {
	payload *domain.AudioPayload
	err     error
}

func (m *mockAudio) EnsureLoaded(context.Context, domain.ChapterKey, string, driving.SynthesizeFunc) (*domain.AudioPayload, error) {
	return m.payload, m.err
}

func (m *mockAudio) Speak(context.Context, domain.ChapterRecord) (*domain.AudioPayload, error) {
	return m.payload, m.err
}

type mockCache struct {
	audio []bool
}

func (m *mockCache) Clear(_ context.Context, audio bool) (driving.ClearResult, error) {
	m.audio = append(m.audio, audio)
	return driving.ClearResult{Chapters: 4, AudioCleared: audio}, nil
}
