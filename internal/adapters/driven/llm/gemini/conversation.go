package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

// CreateSession opens a chat with Google Search grounding enabled.
// The search domain is enforced through the system instruction and the
// per-message command; the search tool has no site filter of its own.
func (c *Client) CreateSession(ctx context.Context, cfg domain.SessionConfig) (driven.ChatSession, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, fail("chat", err)
	}

	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(cfg.Temperature),
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	if cfg.SystemInstruction != "" {
		gc.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}

	chat, err := client.Chats.Create(ctx, c.cfg.ChatModel, gc, nil)
	if err != nil {
		return nil, fail("chat", err)
	}
	return &session{chat: chat}, nil
}

type session struct {
	chat *genai.Chat
}

func (s *session) Send(ctx context.Context, message string) (*domain.ProviderReply, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return nil, fail("chat", err)
	}
	return replyFromResponse(resp), nil
}
