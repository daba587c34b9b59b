package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyGenerativeProvider = "generative.provider"
	keyGenerativeModel    = "generative.model"
	keyGenerativeBaseURL  = "generative.base_url"
	keySpeechModel        = "speech.model"
	keySpeechVoice        = "speech.voice"
	keySpeechSampleRate   = "speech.sample_rate"
	keyChatModel          = "chat.model"
	keyChatDomain         = "chat.domain"
	keyPrimaryBaseURL     = "primary.base_url"
	keyPrimaryTranslation = "primary.translation"
	keyPrimaryXMLPath     = "primary.xml_path"
	keyPrimaryRPS         = "primary.requests_per_second"
	keyStorageBackend     = "storage.backend"
	keyStorageDataDir     = "storage.data_dir"
)

var settingKeys = []string{
	keyGenerativeProvider,
	keyGenerativeModel,
	keyGenerativeBaseURL,
	keySpeechModel,
	keySpeechVoice,
	keySpeechSampleRate,
	keyChatModel,
	keyChatDomain,
	keyPrimaryBaseURL,
	keyPrimaryTranslation,
	keyPrimaryXMLPath,
	keyPrimaryRPS,
	keyStorageBackend,
	keyStorageDataDir,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.Generative.Provider)
	model := s.configStore.GetString(keyGenerativeModel)
	if model == "" {
		// A provider switch without a model falls back to that provider's default.
		model = domain.DefaultModelFor(provider)
	}

	settings := &domain.AppSettings{
		Generative: domain.GenerativeSettings{
			Provider: provider,
			Model:    model,
			BaseURL:  s.configStore.GetString(keyGenerativeBaseURL), // No default - empty is the provider's own endpoint
		},
		Speech: domain.SpeechSettings{
			Model:      s.getString(keySpeechModel, defaults.Speech.Model),
			Voice:      s.getString(keySpeechVoice, defaults.Speech.Voice),
			SampleRate: s.getInt(keySpeechSampleRate, defaults.Speech.SampleRate),
		},
		Chat: domain.ChatSettings{
			Model:  s.getString(keyChatModel, defaults.Chat.Model),
			Domain: s.getString(keyChatDomain, defaults.Chat.Domain),
		},
		Primary: domain.PrimarySettings{
			BaseURL:           s.getString(keyPrimaryBaseURL, defaults.Primary.BaseURL),
			Translation:       s.getString(keyPrimaryTranslation, defaults.Primary.Translation),
			XMLPath:           s.configStore.GetString(keyPrimaryXMLPath),
			RequestsPerSecond: s.getFloat(keyPrimaryRPS, defaults.Primary.RequestsPerSecond),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyGenerativeProvider, settings.Generative.Provider.String()},
		{keyGenerativeModel, settings.Generative.Model},
		{keyGenerativeBaseURL, settings.Generative.BaseURL},
		{keySpeechModel, settings.Speech.Model},
		{keySpeechVoice, settings.Speech.Voice},
		{keySpeechSampleRate, settings.Speech.SampleRate},
		{keyChatModel, settings.Chat.Model},
		{keyChatDomain, settings.Chat.Domain},
		{keyPrimaryBaseURL, settings.Primary.BaseURL},
		{keyPrimaryTranslation, settings.Primary.Translation},
		{keyPrimaryXMLPath, settings.Primary.XMLPath},
		{keyPrimaryRPS, settings.Primary.RequestsPerSecond},
		{keyStorageBackend, settings.Storage.Backend.String()},
		{keyStorageDataDir, settings.Storage.DataDir},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates a single setting by key, converting value to the key's type.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any = value
	switch key {
	case keyGenerativeProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, value)
		}
	case keyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, value)
		}
	case keySpeechSampleRate:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case keyPrimaryRPS:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		stored = f
	case keyChatDomain:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
	case keyGenerativeBaseURL, keyPrimaryBaseURL:
		if err := checkURL(value); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
		}
	case keyGenerativeModel, keySpeechModel, keySpeechVoice, keyChatModel,
		keyPrimaryTranslation, keyPrimaryXMLPath, keyStorageDataDir:
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.configStore.Set(key, stored)
}

// Keys returns the recognised config keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Validate checks the stored settings, reporting values that Get would
// silently replace with defaults.
func (s *SettingsService) Validate() error {
	if v := s.configStore.GetString(keyGenerativeProvider); v != "" && !domain.AIProvider(v).IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, v)
	}
	if v := s.configStore.GetString(keyStorageBackend); v != "" && !domain.StorageBackend(v).IsValid() {
		return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, v)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if settings.Speech.SampleRate <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, keySpeechSampleRate)
	}
	if settings.Primary.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, keyPrimaryRPS)
	}
	if err := checkURL(settings.Primary.BaseURL); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, keyPrimaryBaseURL, err)
	}
	if err := checkURL(settings.Generative.BaseURL); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, keyGenerativeBaseURL, err)
	}
	return nil
}

// checkURL accepts an empty value or an absolute http(s) URL.
func checkURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(keyGenerativeProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
