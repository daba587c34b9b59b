package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// ListWorksInput is the input schema for the list_works tool.
type ListWorksInput struct {
	Testament string `json:"testament,omitempty" jsonschema:"optional canon section filter: old, new or deuterocanon"`
}

// ListWorksOutput is the output schema for the list_works tool.
type ListWorksOutput struct {
	Works []WorkOutput `json:"works"`
	Count int          `json:"count"`
}

// WorkOutput describes one work.
type WorkOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
	Testament   string `json:"testament"`
	Chapters    int    `json:"chapters"`
}

// ChapterInput selects a chapter by free-text reference.
type ChapterInput struct {
	Reference string `json:"reference" jsonschema:"work and chapter, e.g. 'John 3', 'gen 1' or 'تكوين 1'"`
}

// ChapterOutput is one chapter.
type ChapterOutput struct {
	WorkID   string         `json:"work_id"`
	WorkName string         `json:"work_name"`
	Chapter  int            `json:"chapter"`
	Rendered bool           `json:"rendered"`
	Verses   []domain.Verse `json:"verses"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the question to answer"`
	Reference string `json:"reference,omitempty" jsonschema:"optional chapter whose text is sent as context"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string            `json:"answer"`
	Citations []domain.Citation `json:"citations"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_works",
		Description: "List the books of the canon with their chapter counts",
	}, s.handleListWorks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_chapter",
		Description: "Read a chapter's classical Arabic text, verse by verse",
	}, s.handleResolveChapter)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_chapter",
		Description: "Render a chapter into Egyptian colloquial Arabic, verse by verse",
	}, s.handleRenderChapter)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question grounded on St-Takla.org, with source links",
	}, s.handleAsk)
}

func (s *Server) handleListWorks(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ListWorksInput,
) (*mcp.CallToolResult, ListWorksOutput, error) {
	filter := domain.Testament(input.Testament)
	if filter != "" && !filter.IsValid() {
		return nil, ListWorksOutput{}, fmt.Errorf("%w: unknown testament %q", domain.ErrInvalidInput, input.Testament)
	}

	output := ListWorksOutput{Works: []WorkOutput{}}
	for _, w := range s.ports.Works.List() {
		if filter != "" && w.Testament != filter {
			continue
		}
		output.Works = append(output.Works, WorkOutput{
			ID:          w.ID,
			Name:        w.Name,
			EnglishName: w.EnglishName,
			Testament:   w.Testament.String(),
			Chapters:    w.Chapters,
		})
	}
	output.Count = len(output.Works)
	return nil, output, nil
}

func (s *Server) handleResolveChapter(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChapterInput,
) (*mcp.CallToolResult, ChapterOutput, error) {
	record, err := s.resolve(ctx, input.Reference)
	if err != nil {
		return nil, ChapterOutput{}, toolError(err)
	}
	return nil, s.chapterOutput(*record), nil
}

func (s *Server) handleRenderChapter(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChapterInput,
) (*mcp.CallToolResult, ChapterOutput, error) {
	record, err := s.resolve(ctx, input.Reference)
	if err != nil {
		return nil, ChapterOutput{}, toolError(err)
	}
	if !record.IsRendered() {
		if record, err = s.ports.Chapters.Render(ctx, *record); err != nil {
			return nil, ChapterOutput{}, toolError(err)
		}
	}
	return nil, s.chapterOutput(*record), nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Answers == nil {
		return nil, AskOutput{}, toolError(&domain.ChatError{Err: domain.ErrNotConfigured})
	}

	var readingContext string
	if input.Reference != "" {
		record, err := s.resolve(ctx, input.Reference)
		if err != nil {
			return nil, AskOutput{}, toolError(err)
		}
		readingContext = record.ReadingContext(s.workName(record.WorkID))
	}

	msg, err := s.ports.Answers.Ask(ctx, input.Question, readingContext)
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}
	return nil, AskOutput{Answer: msg.Text, Citations: msg.Citations}, nil
}

func (s *Server) resolve(ctx context.Context, reference string) (*domain.ChapterRecord, error) {
	key, err := s.ports.Works.ParseReference(reference)
	if err != nil {
		return nil, err
	}
	return s.ports.Chapters.Resolve(ctx, key)
}

func (s *Server) chapterOutput(record domain.ChapterRecord) ChapterOutput {
	return ChapterOutput{
		WorkID:   record.WorkID,
		WorkName: s.workName(record.WorkID),
		Chapter:  record.Chapter,
		Rendered: record.IsRendered(),
		Verses:   record.Verses,
	}
}

func (s *Server) workName(id string) string {
	if w, err := s.ports.Works.Get(id); err == nil {
		return w.Name
	}
	return id
}
