package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/storage/memory"
	"github.com/abdelmaseeh/SmartEgyBible/internal/audio"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/services"
)

var testWorks = []domain.WorkReference{
	{ID: "gen", Name: "التكوين", EnglishName: "Genesis", Testament: domain.TestamentOld, Chapters: 50},
	{ID: "jhn", Name: "يوحنا", EnglishName: "John", Testament: domain.TestamentNew, Chapters: 21},
}

type mockWorkService struct{}

func (m *mockWorkService) List() []domain.WorkReference { return testWorks }

func (m *mockWorkService) Get(id string) (domain.WorkReference, error) {
	for _, w := range testWorks {
		if w.ID == id {
			return w, nil
		}
	}
	return domain.WorkReference{}, fmt.Errorf("work %q: %w", id, domain.ErrNotFound)
}

// ParseReference understands "<id> <chapter>".
func (m *mockWorkService) ParseReference(input string) (domain.ChapterKey, error) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return domain.ChapterKey{}, fmt.Errorf("%w: %q", domain.ErrInvalidInput, input)
	}
	w, err := m.Get(fields[0])
	if err != nil {
		return domain.ChapterKey{}, err
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return domain.ChapterKey{}, fmt.Errorf("%w: %q", domain.ErrInvalidInput, input)
	}
	return domain.NewChapterKey(w.ID, w.ClampChapter(n)), nil
}

type mockReaderService struct {
	current  domain.ChapterKey
	selected []domain.ChapterKey
	last     *domain.ChapterKey
	rendered int
	asked    []string
	reply    *domain.Message
	openErr  error
	askErr   error
}

func (m *mockReaderService) Select(_ context.Context, key domain.ChapterKey) (domain.ChapterKey, error) {
	m.current = key
	m.selected = append(m.selected, key)
	return key, nil
}

func (m *mockReaderService) Current() (domain.ChapterKey, bool) {
	return m.current, len(m.selected) > 0
}

func (m *mockReaderService) Next(ctx context.Context) (domain.ChapterKey, error) {
	return m.Select(ctx, domain.NewChapterKey(m.current.WorkID, m.current.Chapter+1))
}

func (m *mockReaderService) Prev(ctx context.Context) (domain.ChapterKey, error) {
	return m.Select(ctx, domain.NewChapterKey(m.current.WorkID, max(1, m.current.Chapter-1)))
}

func (m *mockReaderService) record(rendered bool) *domain.ChapterRecord {
	rec := &domain.ChapterRecord{
		WorkID:  m.current.WorkID,
		Chapter: m.current.Chapter,
		Verses: []domain.Verse{
			{Number: 1, Primary: "في البدء"},
			{Number: 2, Primary: "وكانت الأرض"},
		},
	}
	if rendered {
		for i := range rec.Verses {
			rec.Verses[i].Secondary = "masri " + rec.Verses[i].Primary
		}
	}
	return rec
}

func (m *mockReaderService) Open(context.Context) (*domain.ChapterRecord, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.record(false), nil
}

func (m *mockReaderService) Render(context.Context) (*domain.ChapterRecord, error) {
	m.rendered++
	return m.record(true), nil
}

func (m *mockReaderService) Audio(context.Context) (*domain.AudioPayload, error) {
	// A tenth of a second of silence.
	wav := audio.EncodePCM(make([]byte, 4800), 24000)
	return &domain.AudioPayload{Key: m.current, Data: wav, Fingerprint: "fp"}, nil
}

func (m *mockReaderService) Ask(_ context.Context, question string) (*domain.Message, error) {
	m.asked = append(m.asked, question)
	if m.askErr != nil {
		return nil, m.askErr
	}
	return m.reply, nil
}

func (m *mockReaderService) LastPosition(context.Context) (domain.ChapterKey, error) {
	if m.last == nil {
		return domain.ChapterKey{}, domain.ErrNotFound
	}
	return *m.last, nil
}

type mockAnswerService struct {
	resets int
}

func (m *mockAnswerService) Ask(context.Context, string, string) (*domain.Message, error) {
	return nil, domain.ErrNotConfigured
}
func (m *mockAnswerService) Reset()                    { m.resets++ }
func (m *mockAnswerService) History() []domain.Message { return nil }

type mockCacheService struct {
	audio []bool
}

func (m *mockCacheService) Clear(_ context.Context, audio bool) (driving.ClearResult, error) {
	m.audio = append(m.audio, audio)
	return driving.ClearResult{Chapters: 7, AudioCleared: audio}, nil
}

type testServices struct {
	reader  *mockReaderService
	answers *mockAnswerService
	cache   *mockCacheService
}

// setupTestServices installs mock services for the duration of the test.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		reader: &mockReaderService{reply: &domain.Message{
			Role:      domain.RoleResponder,
			Text:      "الإجابة",
			Citations: []domain.Citation{{Title: "St-Takla", URI: "https://st-takla.org/a"}},
		}},
		answers: &mockAnswerService{},
		cache:   &mockCacheService{},
	}

	settingsService = services.NewSettingsService(memory.NewConfigStore())
	workService = &mockWorkService{}
	readerService = ts.reader
	answerService = ts.answers
	cacheService = ts.cache

	t.Cleanup(func() {
		settingsService, workService, chapterService = nil, nil, nil
		answerService, audioService, readerService, cacheService = nil, nil, nil, nil
		eventBus, credentials = nil, nil
	})
	return ts
}

// execute runs the root command with args and returns stdout and stderr.
// Flags are reset afterwards so values do not leak between tests.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
