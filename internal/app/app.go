// Package app is the composition root. It builds every adapter and service
// from the stored settings and the environment.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/ai"
	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/catalog"
	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/config/file"
	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/events"
	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/storage/memory"
	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/storage/postgres"
	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/storage/sqlite"
	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/text/getbible"
	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/text/zefania"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/services"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Options configures New.
type Options struct {
	// ConfigDir overrides the configuration directory (default file.DefaultDir).
	ConfigDir string

	// Credentials, when set, are used instead of reading the environment.
	Credentials *domain.Credentials
}

// App holds the wired services.
type App struct {
	ConfigDir string
	Config    *file.ConfigStore
	Prompts   *file.PromptStore
	Events    *events.Bus

	Settings     *services.SettingsService
	Works        *services.WorkService
	Chapters     *services.ChapterService
	Conversation *services.Conversation
	Audio        *services.AudioService
	Reader       *services.ReaderService
	Cache        *services.CacheService

	// Credentials are the secrets the app was built with.
	Credentials domain.Credentials

	// Warnings lists degraded features, such as missing API keys.
	Warnings []string

	closers []func() error
}

// New loads settings and builds the application.
func New(ctx context.Context, opts Options) (*App, error) {
	dir := opts.ConfigDir
	if dir == "" {
		var err error
		if dir, err = file.DefaultDir(); err != nil {
			return nil, fmt.Errorf("config directory: %w", err)
		}
	}

	config, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("prompt store: %w", err)
	}

	var creds domain.Credentials
	if opts.Credentials != nil {
		creds = *opts.Credentials
	} else {
		creds = file.LoadCredentials(dir)
	}

	a := &App{
		ConfigDir:   dir,
		Config:      config,
		Prompts:     prompts,
		Events:      events.NewBus(),
		Settings:    services.NewSettingsService(config),
		Credentials: creds,
	}
	a.closers = append(a.closers, func() error { a.Events.Close(); return nil })

	if err := a.Settings.Validate(); err != nil {
		a.warn("settings: %v (defaults used)", err)
	}
	settings, err := a.Settings.Get()
	if err != nil {
		return nil, err
	}

	if err := a.build(ctx, *settings, creds); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context, settings domain.AppSettings, creds domain.Credentials) error {
	works, err := catalog.New()
	if err != nil {
		return err
	}

	kv, audioCache, err := a.openStorage(ctx, settings.Storage, creds)
	if err != nil {
		return err
	}

	models, err := ai.Create(settings, creds, a.Prompts)
	if err != nil {
		return err
	}
	for _, w := range models.Warnings {
		a.warn("%s", w)
	}

	var attempts []services.Attempt
	if settings.Primary.XMLPath != "" {
		attempts = append(attempts, services.PrimaryAttempt(works, zefania.New(settings.Primary.XMLPath)))
	}
	if settings.Primary.BaseURL != "" {
		attempts = append(attempts, services.PrimaryAttempt(works, getbible.New(getbible.Config{
			BaseURL:           settings.Primary.BaseURL,
			Translation:       settings.Primary.Translation,
			RequestsPerSecond: settings.Primary.RequestsPerSecond,
		})))
	}
	attempts = append(attempts, services.GenerativeAttempt(models.Generative))

	chapterCache := services.NewChapterCache(kv)
	a.Works = services.NewWorkService(works)
	a.Chapters = services.NewChapterService(chapterCache, works, models.Generative, a.Events, attempts...)
	a.Conversation = services.NewConversation(models.Conversation, a.Prompts, settings.Chat.Domain, a.Events)
	a.Audio = services.NewAudioService(audioCache, models.Speech, settings.Speech.SampleRate, a.Events)
	a.Reader = services.NewReaderService(works, a.Chapters, a.Audio, a.Conversation, kv)
	a.Cache = services.NewCacheService(chapterCache, audioCache)

	logger.Debug("app: storage=%s generative=%s attempts=%d", settings.Storage.Backend, models.Generative.Name(), len(attempts))
	return nil
}

// openStorage opens the structured and binary caches for backend.
func (a *App) openStorage(
	ctx context.Context, cfg domain.StorageSettings, creds domain.Credentials,
) (driven.KVStore, driven.AudioCache, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(a.ConfigDir, "data")
	}

	switch cfg.Backend {
	case domain.StorageMemory:
		return memory.NewKVStore(), memory.NewAudioCache(), nil

	case domain.StoragePostgres:
		store, err := postgres.NewStore(ctx, creds.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		audioStore, err := a.openAudio(dataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, audioStore, nil

	default:
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		audioStore, err := a.openAudio(dataDir)
		if err != nil {
			return nil, nil, err
		}
		return store.KVStore(), audioStore, nil
	}
}

func (a *App) openAudio(dataDir string) (driven.AudioCache, error) {
	store, err := sqlite.NewAudioStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open audio store: %w", err)
	}
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// Watcher returns a config watcher bound to this app's stores.
func (a *App) Watcher() *file.Watcher {
	return file.NewWatcher(a.Config, a.Prompts)
}

// Close releases storage handles and the event bus.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.Warnings = append(a.Warnings, msg)
	logger.Warn("%s", msg)
}
