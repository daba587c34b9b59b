package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// DefaultDebounce batches the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads the config and prompt stores when their files change.
type Watcher struct {
	config   *ConfigStore
	prompts  *PromptStore
	debounce time.Duration

	// OnReload is called after a reload. Optional.
	OnReload func()
}

// NewWatcher creates a watcher for the given stores. Either may be nil.
func NewWatcher(config *ConfigStore, prompts *PromptStore) *Watcher {
	return &Watcher{
		config:   config,
		prompts:  prompts,
		debounce: DefaultDebounce,
	}
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if w.config != nil {
		if err := fw.Add(filepath.Dir(w.config.Path())); err != nil {
			return fmt.Errorf("watching config dir: %w", err)
		}
	}
	if w.prompts != nil {
		w.prompts.ensureInitialised()
		if err := fw.Add(w.prompts.Dir()); err != nil {
			logger.Warn("prompt directory not watched: %v", err)
		}
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("config change: %s %s", event.Op, event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	if w.config != nil {
		if err := w.config.Load(); err != nil {
			logger.Warn("config reload failed: %v", err)
			return
		}
	}
	if w.prompts != nil {
		w.prompts.Reload()
	}
	logger.Info("configuration reloaded")
	if w.OnReload != nil {
		w.OnReload()
	}
}
