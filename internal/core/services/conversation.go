package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Ensure Conversation implements the interface.
var _ driving.AnswerService = (*Conversation)(nil)

// ConversationState is the lifecycle state of a Conversation.
type ConversationState int

// Conversation states.
const (
	// StateUninitialized means no session was ever opened.
	StateUninitialized ConversationState = iota
	// StateActive means a session is open and keeps history.
	StateActive
	// StateReset means the session was discarded; the next Ask opens a new one.
	StateReset
)

// String returns the state name.
func (s ConversationState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Conversation is the grounded-answer pipeline. It owns one provider session
// at a time and answers only from the permitted domain.
type Conversation struct {
	provider driven.ConversationProvider
	prompts  driven.PromptStore
	domain   string
	events   driven.EventSink

	mu      sync.Mutex
	state   ConversationState
	session driven.ChatSession
	history []domain.Message
	now     func() time.Time
}

// NewConversation creates a conversation restricted to permittedDomain.
// provider may be nil, in which case Ask fails with domain.ErrNotConfigured.
func NewConversation(provider driven.ConversationProvider, prompts driven.PromptStore, permittedDomain string, events driven.EventSink) *Conversation {
	return &Conversation{
		provider: provider,
		prompts:  prompts,
		domain:   permittedDomain,
		events:   eventSink(events),
		now:      time.Now,
	}
}

// State returns the current lifecycle state.
func (c *Conversation) State() ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ask sends a question, with an optional reading context, and returns the
// cleaned and cited answer. Questions are answered one at a time.
func (c *Conversation) Ask(ctx context.Context, question, readingContext string) (*domain.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if c.provider == nil {
		return nil, &domain.ChatError{Err: domain.ErrNotConfigured}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		session, err := c.openSession(ctx)
		if err != nil {
			c.discardLocked()
			return nil, &domain.ChatError{Err: err}
		}
		c.session = session
		c.state = StateActive
		logger.Debug("chat: session opened for %s", c.domain)
	}

	prompt, err := c.buildPrompt(question, readingContext)
	if err != nil {
		return nil, &domain.ChatError{Err: err}
	}

	asked := domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleAsker,
		Text:      question,
		CreatedAt: c.now(),
	}

	reply, err := c.session.Send(ctx, prompt)
	if err == nil && reply == nil {
		err = errors.New("empty reply")
	}
	if err != nil {
		logger.Warn("chat: send failed, discarding session: %v", err)
		c.discardLocked()
		return nil, &domain.ChatError{Err: err}
	}

	text := CleanAnswer(reply.Text)
	if text == "" {
		text = domain.EmptyAnswerPhrase
	}
	citations := ExtractCitations(reply.Grounding, c.domain)
	if len(citations) == 0 {
		citations = []domain.Citation{FallbackCitation(question, c.domain)}
	}

	answer := domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleResponder,
		Text:      text,
		Citations: citations,
		CreatedAt: c.now(),
	}
	c.history = append(c.history, asked, answer)

	logger.Debug("chat: answered with %d citation(s), %d grounding record(s)", len(citations), len(reply.Grounding))
	return &answer, nil
}

// Reset discards the session and history. The next Ask opens a new session.
func (c *Conversation) Reset() {
	c.mu.Lock()
	wasOpen := c.session != nil || len(c.history) > 0
	c.discardLocked()
	c.history = nil
	c.mu.Unlock()

	if wasOpen {
		c.events.Publish(domain.Event{Type: domain.EventChatReset})
	}
}

// History returns a copy of the messages exchanged since the last reset.
func (c *Conversation) History() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Message(nil), c.history...)
}

func (c *Conversation) discardLocked() {
	c.session = nil
	if c.state != StateUninitialized || len(c.history) > 0 {
		c.state = StateReset
	}
}

func (c *Conversation) openSession(ctx context.Context) (driven.ChatSession, error) {
	system, err := c.prompts.Load(driven.PromptChatSystem)
	if err != nil {
		return nil, fmt.Errorf("load system prompt: %w", err)
	}
	return c.provider.CreateSession(ctx, domain.SessionConfig{
		SystemInstruction: fmt.Sprintf(system, c.domain, domain.NotFoundPhrase),
		SearchDomain:      c.domain,
		Temperature:       0,
	})
}

func (c *Conversation) buildPrompt(question, readingContext string) (string, error) {
	command, err := c.prompts.Load(driven.PromptChatCommand)
	if err != nil {
		return "", fmt.Errorf("load command prompt: %w", err)
	}

	var b strings.Builder
	if ctx := strings.TrimSpace(readingContext); ctx != "" {
		b.WriteString("Context: ")
		b.WriteString(ctx)
		b.WriteString("\n\n")
	}
	b.WriteString("User Question: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, command, question, c.domain)
	return b.String(), nil
}
