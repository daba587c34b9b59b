// Package httpapi serves the reader over HTTP: a JSON API under /api/v1 and
// a websocket stream of progress events.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// ErrMissingService is returned when a required port is nil.
var ErrMissingService = errors.New("httpapi: works, chapters and reader services are required")

// EventSource hands out event subscriptions.
type EventSource interface {
	Subscribe(buffer int) (<-chan domain.Event, func())
}

// Ports aggregates the services the API calls.
type Ports struct {
	Works    driving.WorkService
	Chapters driving.ChapterService
	Reader   driving.ReaderService

	// Optional.
	Answers driving.AnswerService
	Audio   driving.AudioService
	Cache   driving.CacheService
	Events  EventSource
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p.Works == nil || p.Chapters == nil || p.Reader == nil {
		return ErrMissingService
	}
	return nil
}

// Server is the HTTP API.
type Server struct {
	ports    *Ports
	log      *zap.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

// NewServer creates a server. A nil log uses the application logger.
func NewServer(ports *Ports, log *zap.Logger) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Zap()
	}

	s := &Server{
		ports: ports,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/works", s.handleWorks)
		r.Route("/works/{work}/chapters/{chapter}", func(r chi.Router) {
			r.Get("/", s.handleChapter)
			r.Post("/render", s.handleRender)
			r.Get("/audio", s.handleAudio)
		})
		r.Post("/chat", s.handleChat)
		r.Post("/chat/reset", s.handleChatReset)
		r.Delete("/cache", s.handleCacheClear)
		r.Get("/events", s.handleEvents)
	})

	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	logger.Info("http: listening on %s", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
