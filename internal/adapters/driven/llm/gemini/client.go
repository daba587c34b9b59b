// Package gemini adapts the Google Gen AI SDK to the model-backed ports:
// chapter retrieval and rendering, search-grounded chat, and speech.
package gemini

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

// Ensure Client implements the interfaces.
var (
	_ driven.GenerativeRetrievalProvider = (*Client)(nil)
	_ driven.ConversationProvider        = (*Client)(nil)
	_ driven.SpeechSynthesisProvider     = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Puck"

	providerName = "gemini"
)

// Config holds configuration for the Gemini adapter.
type Config struct {
	// APIKey is the Gemini API key. Calls fail with ErrNotConfigured without it.
	APIKey string

	// Model is used for retrieval and rendering (default: gemini-2.5-flash).
	Model string

	// ChatModel is used for grounded chat (default: Model).
	ChatModel string

	// SpeechModel is the text-to-speech model (default: gemini-2.5-flash-preview-tts).
	SpeechModel string

	// Voice is the prebuilt voice name (default: Puck).
	Voice string
}

// Client talks to the Gemini API. The SDK client is created on first use,
// so a Client can be built before a key is available.
type Client struct {
	cfg     Config
	prompts driven.PromptStore

	once   sync.Once
	client *genai.Client
	err    error
}

// New creates a Gemini adapter.
func New(cfg Config, prompts driven.PromptStore) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = cfg.Model
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = DefaultSpeechModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	return &Client{cfg: cfg, prompts: prompts}
}

// Name returns the provider name.
func (c *Client) Name() string { return providerName }

func (c *Client) connect(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		if c.cfg.APIKey == "" {
			c.err = fmt.Errorf("gemini api key: %w", domain.ErrNotConfigured)
			return
		}
		c.client, c.err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return c.client, c.err
}

func fail(op string, err error) error {
	return domain.NewProviderError(providerName, op, err)
}
