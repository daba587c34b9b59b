package gemini

import (
	"strings"

	"google.golang.org/genai"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	c := firstCandidate(resp)
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// replyFromResponse extracts the reply text and the web grounding chunks.
func replyFromResponse(resp *genai.GenerateContentResponse) *domain.ProviderReply {
	reply := &domain.ProviderReply{Text: responseText(resp)}

	c := firstCandidate(resp)
	if c == nil || c.GroundingMetadata == nil {
		return reply
	}
	for _, chunk := range c.GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		reply.Grounding = append(reply.Grounding, domain.GroundingRecord{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}
	return reply
}

// audioFromResponse returns the first inline data part of the first candidate.
func audioFromResponse(resp *genai.GenerateContentResponse) []byte {
	c := firstCandidate(resp)
	if c == nil || c.Content == nil {
		return nil
	}
	for _, p := range c.Content.Parts {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return p.InlineData.Data
		}
	}
	return nil
}

func firstCandidate(resp *genai.GenerateContentResponse) *genai.Candidate {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	return resp.Candidates[0]
}
