package services

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

const testDomain = "st-takla.org"

func newTestConversation(provider *mockConversationProvider, events *recordingSink) *Conversation {
	var sink driven.EventSink
	if events != nil {
		sink = events
	}
	return NewConversation(provider, &mockPrompts{}, testDomain, sink)
}

func TestCleanAnswer(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "redirect markdown link",
			raw:  "See [1](https://vertexaisearch.cloud.google.com/grounding-api-redirect/abc) here.",
			want: "See here.",
		},
		{
			name: "bare redirect",
			raw:  "Source: https://vertexaisearch.cloud.google.com/grounding-api-redirect/xyz done",
			want: "Source: done",
		},
		{
			name: "other bare url",
			raw:  "Read https://st-takla.org/page.html for more",
			want: "Read for more",
		},
		{
			name: "markdown link collapses to label",
			raw:  "The [Gospel of John](#john) says",
			want: "The Gospel of John says",
		},
		{
			name: "link nested in a link label",
			raw:  "see [[a](https://x.org)](https://st-takla.org/p)",
			want: "see a",
		},
		{
			name: "relative link nested in a link label",
			raw:  "see [[note](b)](c) end",
			want: "see note end",
		},
		{
			name: "whitespace",
			raw:  "  line one  \t \r\nline two\n\n\n\n\nline three  ",
			want: "line one\nline two\n\nline three",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanAnswer(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CleanAnswer(got), "cleaning must be idempotent")
		})
	}
}

func TestExtractCitations(t *testing.T) {
	records := []domain.GroundingRecord{
		{Title: "First", URI: "https://st-takla.org/Bible/John-3"},
		{Title: "Elsewhere", URI: "https://example.com/st-takla"},
		{Title: "Second", URI: "https://st-takla.org/Bible/John-3/"},
		{Title: "Third", URI: " https://ST-TAKLA.org/Coptic/ "},
		{Title: "", URI: "https://st-takla.org/Full-Free-Coptic-Books/"},
		{Title: "No URI", URI: ""},
	}

	got := ExtractCitations(records, testDomain)

	want := []domain.Citation{
		{Title: "First", URI: "https://st-takla.org/Bible/John-3"},
		{Title: "Third", URI: "https://ST-TAKLA.org/Coptic/"},
		{Title: domain.DefaultCitationTitle, URI: "https://st-takla.org/Full-Free-Coptic-Books/"},
	}
	assert.Equal(t, want, got)
}

func TestFallbackCitation(t *testing.T) {
	question := "What does chapter 3 verse 16 mean?"

	c := FallbackCitation(question, testDomain)

	assert.Equal(t, domain.FallbackCitationLabel, c.Title)
	assert.True(t, strings.HasPrefix(c.URI, "https://www.google.com/search?q="))
	assert.Contains(t, c.URI, url.QueryEscape("site:"+testDomain))
	assert.Contains(t, c.URI, url.QueryEscape(question))
}

func TestFallbackCitation_TruncatesQuestion(t *testing.T) {
	question := strings.Repeat("ي", 150) + "\n\nend"

	c := FallbackCitation(question, testDomain)

	u, err := url.Parse(c.URI)
	require.NoError(t, err)
	q := strings.TrimPrefix(u.Query().Get("q"), "site:"+testDomain+" ")
	assert.Equal(t, 100, len([]rune(q)))
	assert.NotContains(t, q, "end")
}

func TestConversation_AskOpensSessionLazily(t *testing.T) {
	provider := &mockConversationProvider{
		reply: domain.ProviderReply{
			Text:      "الإجابة",
			Grounding: []domain.GroundingRecord{{Title: "Page", URI: "https://st-takla.org/a"}},
		},
	}
	conv := newTestConversation(provider, nil)
	assert.Equal(t, StateUninitialized, conv.State())

	msg, err := conv.Ask(context.Background(), "Who wrote John?", "")

	require.NoError(t, err)
	assert.Equal(t, StateActive, conv.State())
	require.Equal(t, 1, provider.sessions())
	cfg := provider.configs[0]
	assert.Equal(t, float32(0), cfg.Temperature)
	assert.Equal(t, testDomain, cfg.SearchDomain)
	assert.Contains(t, cfg.SystemInstruction, "site:"+testDomain)
	assert.Contains(t, cfg.SystemInstruction, domain.NotFoundPhrase)

	assert.Equal(t, domain.RoleResponder, msg.Role)
	assert.Equal(t, "الإجابة", msg.Text)
	assert.Equal(t, []domain.Citation{{Title: "Page", URI: "https://st-takla.org/a"}}, msg.Citations)
	assert.NotEmpty(t, msg.ID)

	_, err = conv.Ask(context.Background(), "And when?", "")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.sessions(), "session is reused")
	assert.Len(t, conv.History(), 4)
}

func TestConversation_PromptLayout(t *testing.T) {
	provider := &mockConversationProvider{reply: domain.ProviderReply{Text: "ok"}}
	conv := newTestConversation(provider, nil)

	_, err := conv.Ask(context.Background(), "What is love?", "Current reading: يوحنا Chapter 3.")
	require.NoError(t, err)
	_, err = conv.Ask(context.Background(), "Why?", "  ")
	require.NoError(t, err)

	require.Len(t, provider.sent, 2)
	assert.True(t, strings.HasPrefix(provider.sent[0],
		"Context: Current reading: يوحنا Chapter 3.\n\nUser Question: What is love?\n\n"))
	assert.Contains(t, provider.sent[0], `"What is love? site:st-takla.org"`)
	assert.True(t, strings.HasPrefix(provider.sent[1], "User Question: Why?\n\nCOMMAND:"))
}

func TestConversation_FallbackCitationWhenNoneSurvive(t *testing.T) {
	provider := &mockConversationProvider{
		reply: domain.ProviderReply{
			Text:      "answer",
			Grounding: []domain.GroundingRecord{{Title: "Other", URI: "https://example.com/x"}},
		},
	}
	conv := newTestConversation(provider, nil)
	question := "What does chapter 3 verse 16 mean?"

	msg, err := conv.Ask(context.Background(), question, "")

	require.NoError(t, err)
	require.Len(t, msg.Citations, 1)
	assert.Equal(t, domain.FallbackCitationLabel, msg.Citations[0].Title)
	assert.Contains(t, msg.Citations[0].URI, url.QueryEscape("site:"+testDomain))
	assert.Contains(t, msg.Citations[0].URI, url.QueryEscape(question))
}

func TestConversation_EmptyAnswerUsesPhrase(t *testing.T) {
	provider := &mockConversationProvider{
		reply: domain.ProviderReply{Text: "[1](https://vertexaisearch.cloud.google.com/r/1)  "},
	}
	conv := newTestConversation(provider, nil)

	msg, err := conv.Ask(context.Background(), "q", "")

	require.NoError(t, err)
	assert.Equal(t, domain.EmptyAnswerPhrase, msg.Text)
}

func TestConversation_SendFailureDiscardsSession(t *testing.T) {
	provider := &mockConversationProvider{sendErr: errTransport}
	conv := newTestConversation(provider, nil)
	ctx := context.Background()

	msg, err := conv.Ask(ctx, "q", "")

	assert.Nil(t, msg)
	var cerr *domain.ChatError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, errTransport)
	assert.Equal(t, StateReset, conv.State())
	assert.Empty(t, conv.History())

	provider.sendErr = nil
	provider.reply = domain.ProviderReply{Text: "fine"}
	_, err = conv.Ask(ctx, "q", "")

	require.NoError(t, err)
	assert.Equal(t, 2, provider.sessions(), "a new session is created after a failure")
	assert.Equal(t, StateActive, conv.State())
}

func TestConversation_CreateFailure(t *testing.T) {
	provider := &mockConversationProvider{createErr: domain.ErrNotConfigured}
	conv := newTestConversation(provider, nil)

	_, err := conv.Ask(context.Background(), "q", "")

	var cerr *domain.ChatError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestConversation_Reset(t *testing.T) {
	provider := &mockConversationProvider{reply: domain.ProviderReply{Text: "a"}}
	events := &recordingSink{}
	conv := newTestConversation(provider, events)
	ctx := context.Background()

	_, err := conv.Ask(ctx, "q", "")
	require.NoError(t, err)

	conv.Reset()

	assert.Equal(t, StateReset, conv.State())
	assert.Empty(t, conv.History())
	assert.Equal(t, []domain.EventType{domain.EventChatReset}, events.types())

	_, err = conv.Ask(ctx, "q", "")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.sessions())
}

func TestConversation_RejectsEmptyQuestion(t *testing.T) {
	provider := &mockConversationProvider{}
	conv := newTestConversation(provider, nil)

	_, err := conv.Ask(context.Background(), "  ", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, provider.sessions())
}

func TestConversation_WithoutProvider(t *testing.T) {
	conv := NewConversation(nil, &mockPrompts{}, testDomain, nil)

	_, err := conv.Ask(context.Background(), "q", "")

	var cerr *domain.ChatError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
