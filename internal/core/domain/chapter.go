package domain

import (
	"fmt"
	"strings"
	"time"
)

// Verse is one numbered unit of a chapter.
type Verse struct {
	// Number is the 1-based verse number, unique within its chapter.
	Number int `json:"number"`

	// Primary is the classical source text.
	Primary string `json:"original"`

	// Secondary is the colloquial rendering. Empty until rendered.
	Secondary string `json:"translated"`
}

// ChapterRecord is the cached form of one chapter.
type ChapterRecord struct {
	WorkID  string  `json:"work_id"`
	Chapter int     `json:"chapter"`
	Verses  []Verse `json:"verses"`

	// Timestamp is when the record was last written.
	Timestamp time.Time `json:"timestamp"`
}

// Key returns the cache identity of the record.
func (r ChapterRecord) Key() ChapterKey {
	return ChapterKey{WorkID: r.WorkID, Chapter: r.Chapter}
}

// HasContent reports whether the record holds at least one verse.
// A record without verses is never treated as a cache hit.
func (r ChapterRecord) HasContent() bool {
	return len(r.Verses) > 0
}

// IsRendered reports whether every verse carries a secondary rendering.
func (r ChapterRecord) IsRendered() bool {
	if len(r.Verses) == 0 {
		return false
	}
	for _, v := range r.Verses {
		if v.Secondary == "" {
			return false
		}
	}
	return true
}

// SpeechText joins the verse texts for speech synthesis.
// The rendering is used when present, the primary text otherwise.
func (r ChapterRecord) SpeechText() string {
	rendered := r.IsRendered()
	parts := make([]string, 0, len(r.Verses))
	for _, v := range r.Verses {
		if rendered {
			parts = append(parts, v.Secondary)
		} else {
			parts = append(parts, v.Primary)
		}
	}
	return strings.Join(parts, ". ")
}

// ReadingContext builds the context block handed to the grounded chat
// so the responder knows which chapter is open.
func (r ChapterRecord) ReadingContext(workName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current reading: %s Chapter %d.", workName, r.Chapter)
	if len(r.Verses) == 0 {
		return b.String()
	}
	b.WriteString("\n\nORIGINAL TEXT:\n")
	for i, v := range r.Verses {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[Verse %d] %s", v.Number, v.Primary)
	}
	return b.String()
}

// Clone returns a deep copy of the record.
func (r ChapterRecord) Clone() ChapterRecord {
	out := r
	out.Verses = append([]Verse(nil), r.Verses...)
	return out
}

// SourceVerse is a verse as returned by a text source, before normalisation.
type SourceVerse struct {
	Number int
	Text   string
}
