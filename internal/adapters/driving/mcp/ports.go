package mcp

import (
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Works exposes the catalog and reference parsing.
	Works driving.WorkService

	// Chapters resolves and renders chapters.
	Chapters driving.ChapterService

	// Answers answers grounded questions. Optional; the ask tool reports
	// the service as not configured without it.
	Answers driving.AnswerService

	// Domain is the site answers are grounded on. It is named in the
	// instructions sent to clients and may be empty.
	Domain string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Works == nil || p.Chapters == nil {
		return ErrMissingService
	}
	return nil
}
