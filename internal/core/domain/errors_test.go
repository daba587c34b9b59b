package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupported", ErrUnsupported},
		{"ErrStale", ErrStale},
		{"ErrNotConfigured", ErrNotConfigured},
		{"ErrMalformed", ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	err := fmt.Errorf("fetch: %w", NewProviderError("getbible", "fetch chapter", ErrMalformed))

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "getbible", pe.Provider)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "getbible: fetch chapter")
}

func TestResolutionError_ExposesAttempts(t *testing.T) {
	err := &ResolutionError{
		Key: NewChapterKey("gen", 1),
		Attempts: []AttemptFailure{
			{Source: "getbible", Err: NewProviderError("getbible", "fetch", errors.New("503"))},
			{Source: "gemini", Err: ErrNotConfigured},
		},
	}

	assert.ErrorIs(t, err, ErrNotConfigured)
	var pe *ProviderError
	assert.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "gen_1")
	assert.Contains(t, err.Error(), "getbible")
	assert.Contains(t, err.Error(), "gemini")
}

func TestRenderError_Message(t *testing.T) {
	withCause := &RenderError{Key: NewChapterKey("jhn", 3), Reason: "provider failed", Err: errors.New("timeout")}
	assert.Equal(t, "render jhn_3: provider failed: timeout", withCause.Error())

	noCause := &RenderError{Key: NewChapterKey("jhn", 3), Reason: "verse count mismatch"}
	assert.Equal(t, "render jhn_3: verse count mismatch", noCause.Error())
	assert.Nil(t, errors.Unwrap(noCause))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"resolution", &ResolutionError{Key: NewChapterKey("gen", 1)}, msgResolution},
		{"render", &RenderError{Reason: "x"}, msgRender},
		{"chat", &ChatError{Err: errors.New("x")}, msgChat},
		{"wrapped chat", fmt.Errorf("ask: %w", &ChatError{Err: errors.New("x")}), msgChat},
		{"cache write", &CacheWriteError{Key: "k", Err: errors.New("disk full")}, msgCacheWrite},
		{"provider", NewProviderError("p", "op", errors.New("x")), msgProvider},
		{"not configured", fmt.Errorf("gemini: %w", ErrNotConfigured), msgConfig},
		{"not found", ErrNotFound, msgNotFound},
		{"invalid", ErrInvalidInput, msgInvalid},
		{"other", errors.New("boom"), msgGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}

func TestUserMessage_NeverLeaksProviderText(t *testing.T) {
	err := NewProviderError("gemini", "generate", errors.New("internal quota detail xyz"))
	assert.NotContains(t, UserMessage(err), "xyz")
}
