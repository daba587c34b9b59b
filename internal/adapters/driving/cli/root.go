// Package cli provides the smartegy command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abdelmaseeh/SmartEgyBible/internal/app"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// skipServices marks commands that run without the application services.
const skipServices = "skip-services"

var (
	configDir string
	verbose   bool
)

// Services used by the commands. Set by PersistentPreRunE, or by tests.
var (
	settingsService driving.SettingsService
	workService     driving.WorkService
	chapterService  driving.ChapterService
	answerService   driving.AnswerService
	audioService    driving.AudioService
	readerService   driving.ReaderService
	cacheService    driving.CacheService
	eventBus        EventBus
	credentials     *domain.Credentials

	application *app.App
)

// EventBus is the subset of the event bus the commands use.
type EventBus interface {
	Publish(event domain.Event)
	Subscribe(buffer int) (<-chan domain.Event, func())
}

var rootCmd = &cobra.Command{
	Use:   "smartegy",
	Short: "Read scripture in Egyptian colloquial Arabic",
	Long: `smartegy reads scripture chapter by chapter, renders each verse into
Egyptian colloquial Arabic, speaks chapters aloud and answers questions
grounded on St-Takla.org.

Chapters are cached locally after the first read. Configuration lives in
~/.smartegy (override with --config-dir or SMARTEGY_HOME).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupServices,
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return teardownServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.smartegy)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
// Interrupts cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[skipServices] == "true" || workService != nil {
		return nil
	}

	a, err := app.New(cmd.Context(), app.Options{ConfigDir: configDir})
	if err != nil {
		return err
	}
	application = a

	settingsService = a.Settings
	workService = a.Works
	chapterService = a.Chapters
	answerService = a.Conversation
	audioService = a.Audio
	readerService = a.Reader
	cacheService = a.Cache
	eventBus = a.Events
	credentials = &a.Credentials
	return nil
}

func teardownServices() error {
	if application == nil {
		return nil
	}
	err := application.Close()
	application = nil
	settingsService, workService, chapterService = nil, nil, nil
	answerService, audioService, readerService, cacheService = nil, nil, nil, nil
	eventBus, credentials = nil, nil
	return err
}

// describe returns the text shown for a failed command. Provider failures
// are summarized; their detail is only shown with --verbose.
func describe(err error) string {
	var (
		resErr    *domain.ResolutionError
		renderErr *domain.RenderError
		chatErr   *domain.ChatError
		provErr   *domain.ProviderError
		cacheErr  *domain.CacheWriteError
	)
	if !errors.As(err, &resErr) && !errors.As(err, &renderErr) && !errors.As(err, &chatErr) &&
		!errors.As(err, &provErr) && !errors.As(err, &cacheErr) {
		return err.Error()
	}
	if logger.IsVerbose() {
		return domain.UserMessage(err) + "\n  " + err.Error()
	}
	return domain.UserMessage(err)
}
