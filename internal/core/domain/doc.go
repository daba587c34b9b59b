// Package domain defines the core business entities for SmartEgyBible.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - WorkReference: A canonical scripture book and its chapter count
//   - ChapterRecord: One chapter of verses, primary text plus optional rendering
//   - Message, Citation: Turns of a grounded conversation
//   - AudioPayload: Synthesized speech cached per chapter
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
