package domain

import (
	"fmt"
	"strconv"
)

// Testament groups works by canon section.
type Testament string

// Canon sections.
const (
	TestamentOld          Testament = "old"
	TestamentNew          Testament = "new"
	TestamentDeuterocanon Testament = "deuterocanon"
)

// IsValid returns true if the testament is recognised.
func (t Testament) IsValid() bool {
	switch t {
	case TestamentOld, TestamentNew, TestamentDeuterocanon:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t Testament) String() string {
	return string(t)
}

// Description returns a human-readable label for the testament.
func (t Testament) Description() string {
	switch t {
	case TestamentOld:
		return "العهد القديم"
	case TestamentNew:
		return "العهد الجديد"
	case TestamentDeuterocanon:
		return "الأسفار القانونية الثانية"
	default:
		return unknownDescription
	}
}

// WorkReference identifies a canonical scripture book.
// Reference data, never mutated at runtime.
type WorkReference struct {
	// ID is the stable identifier (e.g. "gen", "jhn").
	ID string `json:"id" yaml:"id"`

	// Name is the display name in Arabic.
	Name string `json:"name" yaml:"name"`

	// EnglishName is the English display name.
	EnglishName string `json:"english_name" yaml:"english_name"`

	// Testament is the canon section the work belongs to.
	Testament Testament `json:"testament" yaml:"testament"`

	// Chapters is the total chapter count. Always at least 1.
	Chapters int `json:"chapters" yaml:"chapters"`

	// Aliases are extra names accepted when parsing references.
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// HasChapter reports whether n is a chapter of this work.
func (w WorkReference) HasChapter(n int) bool {
	return n >= 1 && n <= w.Chapters
}

// ClampChapter bounds n to [1, Chapters].
func (w WorkReference) ClampChapter(n int) int {
	if n < 1 {
		return 1
	}
	if w.Chapters > 0 && n > w.Chapters {
		return w.Chapters
	}
	return n
}

// ChapterKey is the cache identity of a chapter: (work, chapter).
type ChapterKey struct {
	WorkID  string `json:"work_id"`
	Chapter int    `json:"chapter"`
}

// NewChapterKey creates a chapter key.
func NewChapterKey(workID string, chapter int) ChapterKey {
	return ChapterKey{WorkID: workID, Chapter: chapter}
}

// Validate checks that the key names a work and a positive chapter.
func (k ChapterKey) Validate() error {
	if k.WorkID == "" {
		return fmt.Errorf("%w: work id is required", ErrInvalidInput)
	}
	if k.Chapter < 1 {
		return fmt.Errorf("%w: chapter must be at least 1, got %d", ErrInvalidInput, k.Chapter)
	}
	return nil
}

// String returns the storage form "<work>_<chapter>".
func (k ChapterKey) String() string {
	return k.WorkID + "_" + strconv.Itoa(k.Chapter)
}
