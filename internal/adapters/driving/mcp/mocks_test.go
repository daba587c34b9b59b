package mcp

import (
	"context"
	"strings"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

var testWorks = []domain.WorkReference{
	{ID: "gen", Name: "التكوين", EnglishName: "Genesis", Testament: domain.TestamentOld, Chapters: 50},
	{ID: "jhn", Name: "يوحنا", EnglishName: "John", Testament: domain.TestamentNew, Chapters: 21},
}

// mockWorkService is a mock implementation of driving.WorkService.
type mockWorkService struct{}

func (m *mockWorkService) List() []domain.WorkReference { return testWorks }

func (m *mockWorkService) Get(id string) (domain.WorkReference, error) {
	for _, w := range testWorks {
		if w.ID == id {
			return w, nil
		}
	}
	return domain.WorkReference{}, domain.ErrNotFound
}

func (m *mockWorkService) ParseReference(input string) (domain.ChapterKey, error) {
	switch strings.TrimSpace(input) {
	case "gen 1":
		return domain.NewChapterKey("gen", 1), nil
	case "John 3":
		return domain.NewChapterKey("jhn", 3), nil
	default:
		return domain.ChapterKey{}, domain.ErrInvalidInput
	}
}

// mockChapterService is a mock implementation of driving.ChapterService.
type mockChapterService struct {
	verses      []domain.Verse
	err         error
	renderErr   error
	resolved    []domain.ChapterKey
	renderCalls int
}

func (m *mockChapterService) Resolve(_ context.Context, key domain.ChapterKey) (*domain.ChapterRecord, error) {
	m.resolved = append(m.resolved, key)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ChapterRecord{
		WorkID:  key.WorkID,
		Chapter: key.Chapter,
		Verses:  append([]domain.Verse(nil), m.verses...),
	}, nil
}

func (m *mockChapterService) Render(_ context.Context, record domain.ChapterRecord) (*domain.ChapterRecord, error) {
	m.renderCalls++
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	out := record.Clone()
	for i := range out.Verses {
		out.Verses[i].Secondary = "masri " + out.Verses[i].Primary
	}
	return &out, nil
}

func (m *mockChapterService) RenderKey(ctx context.Context, key domain.ChapterKey) (*domain.ChapterRecord, error) {
	rec, err := m.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	return m.Render(ctx, *rec)
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	reply    *domain.Message
	err      error
	contexts []string
}

func (m *mockAnswerService) Ask(_ context.Context, _ string, readingContext string) (*domain.Message, error) {
	m.contexts = append(m.contexts, readingContext)
	return m.reply, m.err
}

func (m *mockAnswerService) Reset() {}

func (m *mockAnswerService) History() []domain.Message { return nil }
