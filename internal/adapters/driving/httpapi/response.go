package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Debug("http: write response: %v", err)
	}
}

func success(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// fail writes the localized summary of err. Provider details stay in the log.
func fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Warn("http: %v", err)
	} else {
		logger.Debug("http: %v", err)
	}
	writeJSON(w, status, Envelope{Success: false, Message: domain.UserMessage(err)})
}

func statusFor(err error) int {
	var (
		resErr    *domain.ResolutionError
		renderErr *domain.RenderError
		chatErr   *domain.ChatError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStale):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &resErr), errors.As(err, &renderErr), errors.As(err, &chatErr):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
