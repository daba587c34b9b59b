package driven

// PromptStore provides access to prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return the built-in
	// default or an error when none exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptRetrieve asks the model to reproduce a chapter's existing text.
	// Placeholders: %s (work name), %d (chapter).
	PromptRetrieve = "retrieve"

	// PromptRender asks the model to render verses into colloquial language.
	// Placeholders: %s (work name), %d (chapter), %s (verses as JSON).
	PromptRender = "render"

	// PromptChatSystem constrains the grounded responder.
	// Placeholders: %s (permitted domain), %s (not-found phrase).
	PromptChatSystem = "chat_system"

	// PromptChatCommand is appended to each question.
	// Placeholders: %s (question), %s (permitted domain).
	PromptChatCommand = "chat_command"
)
