// Package mcp provides an MCP (Model Context Protocol) server adapter for SmartEgyBible.
// It lets AI assistants list works, read and render chapters, and ask grounded questions.
package mcp

import (
	"errors"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// ErrMissingService is returned when the works or chapters service is not provided.
var ErrMissingService = errors.New("mcp: works and chapters services are required")

// toolError hides provider detail behind the localized summary.
// Input errors keep their text so the caller can correct the request.
func toolError(err error) error {
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return errors.New(domain.UserMessage(err))
}
