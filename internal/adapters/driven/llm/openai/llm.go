// Package openai provides a generative retrieval adapter using the OpenAI
// chat completions API, or any compatible server via BaseURL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/llm"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.GenerativeRetrievalProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second

	providerName = "openai"

	systemPrompt = "You are a precise Bible text service. Reply with a single JSON object and nothing else."
)

// Config holds configuration for the OpenAI adapter.
type Config struct {
	// APIKey is the OpenAI API key. Calls fail with ErrNotConfigured without it.
	APIKey string

	// BaseURL overrides the endpoint for compatible APIs.
	BaseURL string

	// Model is the chat model (default: gpt-4o-mini).
	Model string

	// Timeout bounds each request (default: 120s).
	Timeout time.Duration

	// MaxRetries overrides the SDK retry count when positive.
	// Negative disables retries.
	MaxRetries int
}

// Provider retrieves and renders chapters with OpenAI models.
type Provider struct {
	model   string
	client  openai.Client
	ready   bool
	prompts driven.PromptStore
}

// New creates an OpenAI adapter.
func New(cfg Config, prompts driven.PromptStore) *Provider {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	p := &Provider{model: cfg.Model, prompts: prompts, ready: cfg.APIKey != ""}
	if !p.ready {
		return p
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	switch {
	case cfg.MaxRetries > 0:
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	case cfg.MaxRetries < 0:
		opts = append(opts, option.WithMaxRetries(0))
	}
	p.client = openai.NewClient(opts...)
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string { return providerName }

// FetchChapter asks the model to reproduce an existing chapter.
func (p *Provider) FetchChapter(ctx context.Context, work domain.WorkReference, chapter int) ([]domain.SourceVerse, error) {
	prompt, err := llm.Prompt(p.prompts, driven.PromptRetrieve, work.Name, chapter)
	if err != nil {
		return nil, fail("retrieve", err)
	}
	verses, err := p.complete(ctx, "retrieve", prompt)
	if err != nil {
		return nil, err
	}
	return llm.ToSource(verses), nil
}

// RenderSecondary asks the model for the colloquial rendering of each verse.
func (p *Provider) RenderSecondary(ctx context.Context, work domain.WorkReference, chapter int, verses []domain.Verse) ([]domain.Verse, error) {
	input, err := llm.EncodePrimary(verses)
	if err != nil {
		return nil, fail("render", err)
	}
	prompt, err := llm.Prompt(p.prompts, driven.PromptRender, work.Name, chapter, input)
	if err != nil {
		return nil, fail("render", err)
	}
	return p.complete(ctx, "render", prompt)
}

func (p *Provider) complete(ctx context.Context, op, prompt string) ([]domain.Verse, error) {
	if !p.ready {
		return nil, fail(op, fmt.Errorf("openai api key: %w", domain.ErrNotConfigured))
	}

	logger.Debug("openai: %s with %s", op, p.model)
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, fail(op, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fail(op, errors.New("empty choices"))
	}

	verses, err := llm.DecodeVerses(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fail(op, err)
	}
	return verses, nil
}

func fail(op string, err error) error {
	return domain.NewProviderError(providerName, op, err)
}
