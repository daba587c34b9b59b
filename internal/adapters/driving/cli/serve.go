package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driving/httpapi"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the reader over HTTP for browser and mobile clients.

Routes:
  GET    /api/v1/works
  GET    /api/v1/works/{work}/chapters/{chapter}
  POST   /api/v1/works/{work}/chapters/{chapter}/render
  GET    /api/v1/works/{work}/chapters/{chapter}/audio
  POST   /api/v1/chat
  POST   /api/v1/chat/reset
  DELETE /api/v1/cache?audio=true
  GET    /api/v1/events   (websocket progress stream)

Edits to config.toml and the prompt files are picked up while serving.
Changing providers or the storage backend needs a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if workService == nil || chapterService == nil || readerService == nil {
		return errors.New("reader service not configured")
	}
	addr, _ := cmd.Flags().GetString("addr")

	ports := &httpapi.Ports{
		Works:    workService,
		Chapters: chapterService,
		Reader:   readerService,
	}
	if answerService != nil {
		ports.Answers = answerService
	}
	if audioService != nil {
		ports.Audio = audioService
	}
	if cacheService != nil {
		ports.Cache = cacheService
	}
	if eventBus != nil {
		ports.Events = eventBus
	}

	server, err := httpapi.NewServer(ports, nil)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return server.Run(ctx, addr)
	})
	if application != nil {
		watcher := application.Watcher()
		g.Go(func() error {
			if err := watcher.Run(ctx); err != nil {
				logger.Warn("config watching disabled: %v", err)
			}
			return nil
		})
	}

	cmd.Printf("Serving on %s\n", addr)
	return g.Wait()
}
