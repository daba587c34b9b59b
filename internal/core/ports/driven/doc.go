// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - KVStore: Durable string key-value storage behind the structured cache
//   - AudioCache: Durable binary storage for synthesized speech
//   - WorkCatalog: Canonical works and their primary-source addresses
//   - GenerativeRetrievalProvider: Retrieval-only fallback and secondary rendering
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PrimaryTextProvider: Authoritative text. Without any, every chapter comes from the fallback.
//   - ConversationProvider: Grounded chat. Without it, questions fail with ErrNotConfigured.
//   - SpeechSynthesisProvider: Audio. Without it, only cached audio plays.
//   - EventSink: Progress notifications.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
