package domain

const unknownDescription = "Unknown"

// AIProvider identifies a generative AI service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is Google's Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// StorageBackend selects where the structured cache lives.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite keeps both caches in local SQLite files.
	StorageSQLite StorageBackend = "sqlite"

	// StoragePostgres keeps the structured cache in a shared PostgreSQL database.
	// Audio stays in local SQLite.
	StoragePostgres StorageBackend = "postgres"

	// StorageMemory keeps everything in process memory. Nothing survives a restart.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StoragePostgres, StorageMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (local files)"
	case StoragePostgres:
		return "PostgreSQL (shared server)"
	case StorageMemory:
		return "Memory (no persistence)"
	default:
		return unknownDescription
	}
}

// GenerativeSettings configures the retrieval and rendering model.
type GenerativeSettings struct {
	// Provider is the generative service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL overrides the API endpoint (OpenAI-compatible servers).
	BaseURL string
}

// SpeechSettings configures speech synthesis. Speech always uses Gemini.
type SpeechSettings struct {
	Model string
	Voice string

	// SampleRate is the PCM rate the model produces, in Hz.
	SampleRate int
}

// ChatSettings configures the grounded-answer pipeline.
type ChatSettings struct {
	// Model is the conversation model name.
	Model string

	// Domain is the only site answers may be grounded on.
	Domain string
}

// PrimarySettings configures the primary text sources.
type PrimarySettings struct {
	// BaseURL is the JSON text API endpoint.
	BaseURL string

	// Translation is the text edition requested from the API.
	Translation string

	// XMLPath is an optional local Zefania XML file tried before the API.
	XMLPath string

	// RequestsPerSecond caps calls to the text API.
	RequestsPerSecond float64
}

// StorageSettings configures the caches.
type StorageSettings struct {
	Backend StorageBackend

	// DataDir holds the SQLite files.
	DataDir string
}

// Credentials are secrets read from the environment. They are never persisted.
type Credentials struct {
	GeminiAPIKey string
	OpenAIAPIKey string
	PostgresDSN  string
}

// APIKeyFor returns the key for the given provider.
func (c Credentials) APIKeyFor(p AIProvider) string {
	switch p {
	case AIProviderGemini:
		return c.GeminiAPIKey
	case AIProviderOpenAI:
		return c.OpenAIAPIKey
	default:
		return ""
	}
}

// AppSettings holds all application settings.
type AppSettings struct {
	Generative GenerativeSettings
	Speech     SpeechSettings
	Chat       ChatSettings
	Primary    PrimarySettings
	Storage    StorageSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Generative: GenerativeSettings{
			Provider: AIProviderGemini,
			Model:    "gemini-2.5-flash",
		},
		Speech: SpeechSettings{
			Model:      "gemini-2.5-flash-preview-tts",
			Voice:      "Puck",
			SampleRate: 24000,
		},
		Chat: ChatSettings{
			Model:  "gemini-2.5-flash",
			Domain: "st-takla.org",
		},
		Primary: PrimarySettings{
			BaseURL:           "https://api.getbible.net/v2",
			Translation:       "arabicsv",
			RequestsPerSecond: 5,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
	}
}

// DefaultModelFor returns the default generative model for a provider.
func DefaultModelFor(p AIProvider) string {
	switch p {
	case AIProviderGemini:
		return "gemini-2.5-flash"
	case AIProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return ""
	}
}
