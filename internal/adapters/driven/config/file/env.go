package file

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Environment variables holding secrets.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvAPIKey       = "API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvPostgresDSN  = "SMARTEGY_POSTGRES_DSN"
)

// LoadCredentials reads secrets from the environment. Before reading it loads
// .env from the working directory and from configDir when present; variables
// already set in the environment win.
func LoadCredentials(configDir string) domain.Credentials {
	files := []string{".env"}
	if configDir != "" {
		files = append(files, filepath.Join(configDir, ".env"))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			logger.Warn("loading %s: %v", f, err)
		} else {
			logger.Debug("loaded %s", f)
		}
	}

	return domain.Credentials{
		GeminiAPIKey: firstEnv(EnvGeminiAPIKey, EnvAPIKey),
		OpenAIAPIKey: os.Getenv(EnvOpenAIAPIKey),
		PostgresDSN:  os.Getenv(EnvPostgresDSN),
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok && v != "" {
			return v
		}
	}
	return ""
}
