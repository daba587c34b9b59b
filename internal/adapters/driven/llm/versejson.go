// Package llm holds what the model-backed adapters share: the verse JSON
// exchange format and prompt rendering.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

// VerseJSON is one verse as exchanged with a model. The field names match
// the persisted cache format.
type VerseJSON struct {
	Number     int    `json:"number"`
	Original   string `json:"original"`
	Translated string `json:"translated,omitempty"`
}

// Payload is the top-level object models are asked to return.
type Payload struct {
	Verses []VerseJSON `json:"verses"`
}

// DecodeVerses parses a model reply. Code fences and prose around the JSON
// object are tolerated.
func DecodeVerses(raw string) ([]domain.Verse, error) {
	body := extractObject(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: no JSON object in reply", domain.ErrMalformed)
	}

	var p Payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	if p.Verses == nil {
		return nil, fmt.Errorf("%w: missing verses array", domain.ErrMalformed)
	}

	verses := make([]domain.Verse, 0, len(p.Verses))
	for _, v := range p.Verses {
		verses = append(verses, domain.Verse{Number: v.Number, Primary: v.Original, Secondary: v.Translated})
	}
	return verses, nil
}

// ToSource drops the secondary text.
func ToSource(verses []domain.Verse) []domain.SourceVerse {
	out := make([]domain.SourceVerse, 0, len(verses))
	for _, v := range verses {
		out = append(out, domain.SourceVerse{Number: v.Number, Text: v.Primary})
	}
	return out
}

// EncodePrimary renders the verses' primary text as the JSON handed to a
// rendering prompt.
func EncodePrimary(verses []domain.Verse) (string, error) {
	p := Payload{Verses: make([]VerseJSON, 0, len(verses))}
	for _, v := range verses {
		p.Verses = append(p.Verses, VerseJSON{Number: v.Number, Original: v.Primary})
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Prompt loads a template from store and formats it with args.
func Prompt(store driven.PromptStore, name string, args ...any) (string, error) {
	tmpl, err := store.Load(name)
	if err != nil {
		return "", fmt.Errorf("loading prompt %s: %w", name, err)
	}
	return fmt.Sprintf(tmpl, args...), nil
}

func extractObject(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
