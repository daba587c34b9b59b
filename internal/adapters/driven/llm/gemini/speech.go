package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Synthesize returns speech for text using the configured prebuilt voice.
// The model answers with raw 16-bit mono PCM.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, fail("speech", err)
	}

	logger.Debug("gemini: speech with %s (%d chars)", c.cfg.SpeechModel, len(text))
	resp, err := client.Models.GenerateContent(ctx, c.cfg.SpeechModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.cfg.Voice},
				},
			},
		})
	if err != nil {
		return nil, fail("speech", err)
	}

	data := audioFromResponse(resp)
	if len(data) == 0 {
		return nil, fail("speech", fmt.Errorf("%w: no audio in reply", domain.ErrMalformed))
	}
	return data, nil
}
