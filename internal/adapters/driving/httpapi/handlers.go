package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// ChatRequest is the body of POST /api/v1/chat. Work and Chapter select the
// reading context; when omitted the current selection is kept.
type ChatRequest struct {
	Question string `json:"question"`
	Work     string `json:"work,omitempty"`
	Chapter  int    `json:"chapter,omitempty"`
}

// ChatResponse is a responder message with its text rendered to HTML.
type ChatResponse struct {
	domain.Message
	HTML string `json:"html"`
}

// CacheClearResponse reports what DELETE /api/v1/cache removed.
type CacheClearResponse struct {
	Chapters     int  `json:"chapters"`
	AudioCleared bool `json:"audio_cleared"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	success(w, map[string]string{"status": "ok"}, "")
}

func (s *Server) handleWorks(w http.ResponseWriter, _ *http.Request) {
	success(w, s.ports.Works.List(), "")
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	key, err := chapterKey(r)
	if err != nil {
		fail(w, err)
		return
	}
	record, err := s.ports.Chapters.Resolve(r.Context(), key)
	if err != nil {
		fail(w, err)
		return
	}
	success(w, record, "")
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	key, err := chapterKey(r)
	if err != nil {
		fail(w, err)
		return
	}
	record, err := s.ports.Chapters.Resolve(r.Context(), key)
	if err != nil {
		fail(w, err)
		return
	}
	if record.IsRendered() {
		success(w, record, "")
		return
	}
	rendered, err := s.ports.Chapters.Render(r.Context(), *record)
	if err != nil {
		fail(w, err)
		return
	}
	success(w, rendered, "")
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	if s.ports.Audio == nil {
		fail(w, fmt.Errorf("audio: %w", domain.ErrNotConfigured))
		return
	}
	key, err := chapterKey(r)
	if err != nil {
		fail(w, err)
		return
	}
	record, err := s.ports.Chapters.Resolve(r.Context(), key)
	if err != nil {
		fail(w, err)
		return
	}
	payload, err := s.ports.Audio.Speak(r.Context(), *record)
	if err != nil {
		fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload.Data)))
	w.Header().Set("ETag", strconv.Quote(payload.Fingerprint))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload.Data); err != nil {
		logger.Debug("http: write audio: %v", err)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, fmt.Errorf("%w: decode body: %v", domain.ErrInvalidInput, err))
		return
	}

	if req.Work != "" {
		chapter := req.Chapter
		if chapter == 0 {
			chapter = 1
		}
		if _, err := s.ports.Reader.Select(r.Context(), domain.NewChapterKey(req.Work, chapter)); err != nil {
			fail(w, err)
			return
		}
		// The question still goes out with a bare reading line if the text is unavailable.
		if _, err := s.ports.Reader.Open(r.Context()); err != nil {
			logger.Debug("http: chat context: %v", err)
		}
	}

	msg, err := s.ports.Reader.Ask(r.Context(), req.Question)
	if err != nil {
		fail(w, err)
		return
	}
	success(w, ChatResponse{Message: *msg, HTML: markdownHTML(msg.Text)}, "")
}

func (s *Server) handleChatReset(w http.ResponseWriter, _ *http.Request) {
	if s.ports.Answers == nil {
		fail(w, &domain.ChatError{Err: domain.ErrNotConfigured})
		return
	}
	s.ports.Answers.Reset()
	success(w, nil, "conversation reset")
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if s.ports.Cache == nil {
		fail(w, fmt.Errorf("cache: %w", domain.ErrNotConfigured))
		return
	}
	audio, _ := strconv.ParseBool(r.URL.Query().Get("audio"))
	res, err := s.ports.Cache.Clear(r.Context(), audio)
	if err != nil {
		fail(w, err)
		return
	}
	success(w, CacheClearResponse{Chapters: res.Chapters, AudioCleared: res.AudioCleared}, "cache cleared")
}

func chapterKey(r *http.Request) (domain.ChapterKey, error) {
	chapter, err := strconv.Atoi(chi.URLParam(r, "chapter"))
	if err != nil {
		return domain.ChapterKey{}, fmt.Errorf("%w: chapter %q is not a number", domain.ErrInvalidInput, chi.URLParam(r, "chapter"))
	}
	key := domain.NewChapterKey(chi.URLParam(r, "work"), chapter)
	if err := key.Validate(); err != nil {
		return domain.ChapterKey{}, err
	}
	return key, nil
}

// markdownHTML renders answer text for browser clients. Raw HTML in the
// answer is dropped by goldmark's default renderer.
func markdownHTML(text string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		logger.Debug("http: markdown: %v", err)
		return ""
	}
	return buf.String()
}
