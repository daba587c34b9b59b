package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/llm"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// FetchChapter asks the model to reproduce an existing chapter.
func (c *Client) FetchChapter(ctx context.Context, work domain.WorkReference, chapter int) ([]domain.SourceVerse, error) {
	prompt, err := llm.Prompt(c.prompts, driven.PromptRetrieve, work.Name, chapter)
	if err != nil {
		return nil, fail("retrieve", err)
	}

	verses, err := c.generateVerses(ctx, "retrieve", prompt, verseSchema(false))
	if err != nil {
		return nil, err
	}
	return llm.ToSource(verses), nil
}

// RenderSecondary asks the model for the colloquial rendering of each verse.
func (c *Client) RenderSecondary(ctx context.Context, work domain.WorkReference, chapter int, verses []domain.Verse) ([]domain.Verse, error) {
	input, err := llm.EncodePrimary(verses)
	if err != nil {
		return nil, fail("render", err)
	}
	prompt, err := llm.Prompt(c.prompts, driven.PromptRender, work.Name, chapter, input)
	if err != nil {
		return nil, fail("render", err)
	}

	return c.generateVerses(ctx, "render", prompt, verseSchema(true))
}

func (c *Client) generateVerses(ctx context.Context, op, prompt string, schema *genai.Schema) ([]domain.Verse, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, fail(op, err)
	}

	logger.Debug("gemini: %s with %s", op, c.cfg.Model)
	resp, err := client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fail(op, fmt.Errorf("%w: empty reply", domain.ErrMalformed))
	}

	verses, err := llm.DecodeVerses(text)
	if err != nil {
		return nil, fail(op, err)
	}
	return verses, nil
}

// verseSchema is the response schema {verses: [{number, original, translated}]}.
func verseSchema(withTranslation bool) *genai.Schema {
	props := map[string]*genai.Schema{
		"number":   {Type: genai.TypeInteger},
		"original": {Type: genai.TypeString},
	}
	required := []string{"number", "original"}
	if withTranslation {
		props["translated"] = &genai.Schema{Type: genai.TypeString}
		required = append(required, "translated")
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"verses": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: props,
					Required:   required,
				},
			},
		},
		Required: []string{"verses"},
	}
}
