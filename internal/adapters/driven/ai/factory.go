// Package ai provides factory functions for creating the model-backed adapters.
package ai

import (
	"fmt"

	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/llm/gemini"
	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/llm/openai"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

// InitResult holds the model-backed adapters built from settings.
// Adapters are always returned; without credentials their calls fail with
// domain.ErrNotConfigured.
type InitResult struct {
	Generative   driven.GenerativeRetrievalProvider
	Conversation driven.ConversationProvider
	Speech       driven.SpeechSynthesisProvider
	Warnings     []string // Missing credentials, reported once at startup.
}

// Create builds the adapters. Grounded chat and speech always use Gemini;
// the generative provider follows settings.Generative.Provider.
func Create(settings domain.AppSettings, creds domain.Credentials, prompts driven.PromptStore) (*InitResult, error) {
	generativeModel := settings.Generative.Model
	if generativeModel == "" {
		generativeModel = domain.DefaultModelFor(settings.Generative.Provider)
	}

	g := gemini.New(gemini.Config{
		APIKey:      creds.GeminiAPIKey,
		Model:       geminiModel(settings, generativeModel),
		ChatModel:   settings.Chat.Model,
		SpeechModel: settings.Speech.Model,
		Voice:       settings.Speech.Voice,
	}, prompts)

	result := &InitResult{Conversation: g, Speech: g}
	if creds.GeminiAPIKey == "" {
		result.Warnings = append(result.Warnings, "GEMINI_API_KEY is not set: questions and audio are unavailable")
	}

	switch settings.Generative.Provider {
	case domain.AIProviderGemini, "":
		result.Generative = g

	case domain.AIProviderOpenAI:
		result.Generative = openai.New(openai.Config{
			APIKey:  creds.OpenAIAPIKey,
			BaseURL: settings.Generative.BaseURL,
			Model:   generativeModel,
		}, prompts)
		if creds.OpenAIAPIKey == "" {
			result.Warnings = append(result.Warnings, "OPENAI_API_KEY is not set: model fallback and rendering are unavailable")
		}

	default:
		return nil, fmt.Errorf("%w: generative provider %q", domain.ErrInvalidInput, settings.Generative.Provider)
	}

	return result, nil
}

// geminiModel picks the Gemini model for retrieval and rendering. When another
// provider handles generation the chat model is used, since the client's
// generative methods are never called.
func geminiModel(settings domain.AppSettings, generativeModel string) string {
	if settings.Generative.Provider == domain.AIProviderOpenAI {
		return settings.Chat.Model
	}
	return generativeModel
}
