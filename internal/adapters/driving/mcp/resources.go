package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for SmartEgyBible resources.
	uriScheme = "smartegy://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "works",
		Name:        "works",
		Description: "The books of the canon in canonical order",
		MIMEType:    "application/json",
	}, s.handleWorksResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chapters/{work}/{chapter}",
		Name:        "chapter-text",
		Description: "Text of one chapter, one verse per line",
		MIMEType:    "text/plain",
	}, s.handleChapterResource)
}

// handleWorksResource returns the catalog.
func (s *Server) handleWorksResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.ports.Works.List(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling works: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleChapterResource returns a chapter as plain text. Rendered chapters
// carry the colloquial line under each verse.
func (s *Server) handleChapterResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key, ok := extractChapterKey(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if _, err := s.ports.Works.Get(key.WorkID); err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	record, err := s.ports.Chapters.Resolve(ctx, key)
	if err != nil {
		return nil, toolError(err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     chapterText(*record),
		}},
	}, nil
}

func chapterText(record domain.ChapterRecord) string {
	var b strings.Builder
	for _, v := range record.Verses {
		fmt.Fprintf(&b, "%d. %s\n", v.Number, v.Primary)
		if v.Secondary != "" {
			fmt.Fprintf(&b, "   %s\n", v.Secondary)
		}
	}
	return b.String()
}

// extractChapterKey extracts the key from a URI like smartegy://chapters/{work}/{chapter}.
func extractChapterKey(uri string) (domain.ChapterKey, bool) {
	const prefix = uriScheme + "chapters/"

	if !strings.HasPrefix(uri, prefix) {
		return domain.ChapterKey{}, false
	}

	work, chapter, ok := strings.Cut(strings.TrimPrefix(uri, prefix), "/")
	if !ok || work == "" {
		return domain.ChapterKey{}, false
	}
	n, err := strconv.Atoi(chapter)
	if err != nil || n < 1 {
		return domain.ChapterKey{}, false
	}
	return domain.NewChapterKey(work, n), true
}
