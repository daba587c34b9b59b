package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/catalog"
	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/config/file"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

// --- Mock implementations ---

const testCatalogYAML = `
works:
  - id: x
    name: إكس
    english_name: "Exx"
    testament: old
    chapters: 3
    address: "1"
  - id: y
    name: واي
    english_name: "Why"
    testament: old
    chapters: 5
    address: "2"
  - id: z
    name: زد
    english_name: "Zed"
    testament: deuterocanon
    chapters: 2
`

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(testCatalogYAML))
	require.NoError(t, err)
	return c
}

func sourceVerses(n int) []domain.SourceVerse {
	out := make([]domain.SourceVerse, n)
	for i := range out {
		out[i] = domain.SourceVerse{Number: i + 1, Text: "verse " + string(rune('a'+i))}
	}
	return out
}

// mockPrimary implements driven.PrimaryTextProvider.
type mockPrimary struct {
	mu        sync.Mutex
	verses    []domain.SourceVerse
	err       error
	calls     int
	addresses []string

	// gate, when set, blocks FetchChapter until it is closed.
	gate chan struct{}
}

func (m *mockPrimary) Name() string { return "primary" }

func (m *mockPrimary) FetchChapter(_ context.Context, address string, _ int) ([]domain.SourceVerse, error) {
	m.mu.Lock()
	m.calls++
	m.addresses = append(m.addresses, address)
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.SourceVerse(nil), m.verses...), nil
}

func (m *mockPrimary) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockGenerative implements driven.GenerativeRetrievalProvider.
type mockGenerative struct {
	mu          sync.Mutex
	verses      []domain.SourceVerse
	fetchErr    error
	fetchCalls  int
	renderFn    func(verses []domain.Verse) ([]domain.Verse, error)
	renderCalls int
}

func (m *mockGenerative) Name() string { return "generative" }

func (m *mockGenerative) FetchChapter(_ context.Context, _ domain.WorkReference, _ int) ([]domain.SourceVerse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return append([]domain.SourceVerse(nil), m.verses...), nil
}

func (m *mockGenerative) RenderSecondary(
	_ context.Context, _ domain.WorkReference, _ int, verses []domain.Verse,
) ([]domain.Verse, error) {
	m.mu.Lock()
	m.renderCalls++
	fn := m.renderFn
	m.mu.Unlock()

	if fn == nil {
		return renderAll(verses)
	}
	return fn(verses)
}

// renderAll renders every verse as "masri <primary>".
func renderAll(verses []domain.Verse) ([]domain.Verse, error) {
	out := make([]domain.Verse, len(verses))
	for i, v := range verses {
		out[i] = domain.Verse{Number: v.Number, Primary: v.Primary, Secondary: "masri " + v.Primary}
	}
	return out, nil
}

// mockKV implements driven.KVStore with injectable failures.
type mockKV struct {
	mu     sync.Mutex
	data   map[string]string
	putErr error
}

func newMockKV() *mockKV {
	return &mockKV{data: make(map[string]string)}
}

func (m *mockKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *mockKV) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	return nil
}

func (m *mockKV) DeletePrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func (m *mockKV) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// mockPrompts implements driven.PromptStore with the built-in defaults.
type mockPrompts struct {
	overrides map[string]string
}

func (m *mockPrompts) Load(name string) (string, error) {
	if p, ok := m.overrides[name]; ok {
		return p, nil
	}
	if p, ok := file.DefaultPrompt(name); ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPrompts) Reload() {}

// mockSession implements driven.ChatSession.
type mockSession struct {
	provider *mockConversationProvider
}

func (s *mockSession) Send(_ context.Context, message string) (*domain.ProviderReply, error) {
	p := s.provider
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, message)
	if p.sendErr != nil {
		return nil, p.sendErr
	}
	reply := p.reply
	return &reply, nil
}

// mockConversationProvider implements driven.ConversationProvider.
type mockConversationProvider struct {
	mu        sync.Mutex
	configs   []domain.SessionConfig
	createErr error
	sendErr   error
	reply     domain.ProviderReply
	sent      []string
}

func (m *mockConversationProvider) CreateSession(_ context.Context, cfg domain.SessionConfig) (driven.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.configs = append(m.configs, cfg)
	return &mockSession{provider: m}, nil
}

func (m *mockConversationProvider) sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.configs)
}

// recordingSink implements driven.EventSink.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingSink) Publish(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

var errTransport = errors.New("connection reset")
