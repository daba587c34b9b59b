package domain

import "time"

// Role identifies who authored a message.
type Role string

// Message roles.
const (
	RoleAsker     Role = "asker"
	RoleResponder Role = "responder"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleAsker || r == RoleResponder
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Citation points to a web page that supported an answer.
type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Message is one turn of a conversation.
type Message struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	Citations []Citation `json:"citations,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Answer is the cleaned, cited reply to a question.
// Citations is never empty.
type Answer struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}

// GroundingRecord is one raw search-grounding reference from a provider.
type GroundingRecord struct {
	Title string
	URI   string
}

// ProviderReply is the raw output of a conversation provider.
type ProviderReply struct {
	Text      string
	Grounding []GroundingRecord
}

// SessionConfig configures a new conversation session.
type SessionConfig struct {
	// SystemInstruction constrains the responder.
	SystemInstruction string

	// SearchDomain restricts web search to one site.
	SearchDomain string

	// Temperature is the sampling temperature. Grounded answers use 0.
	Temperature float32
}
