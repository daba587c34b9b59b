// Package catalog provides the embedded list of canonical works and the
// mapping from each work to its primary-source address.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

//go:embed works.yaml
var worksYAML []byte

// Ensure Catalog implements the interface.
var _ driven.WorkCatalog = (*Catalog)(nil)

type entry struct {
	domain.WorkReference `yaml:",inline"`
	Address              string `yaml:"address"`
}

type document struct {
	Works []entry `yaml:"works"`
}

// Catalog is an immutable in-memory work catalog.
type Catalog struct {
	works   []domain.WorkReference
	byID    map[string]int
	byName  map[string]int
	address map[string]string
}

// New loads the embedded catalog.
func New() (*Catalog, error) {
	return Parse(worksYAML)
}

// Parse builds a catalog from YAML. Names and aliases must not collide
// across works.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Works) == 0 {
		return nil, fmt.Errorf("parse catalog: %w: no works", domain.ErrInvalidInput)
	}

	c := &Catalog{
		works:   make([]domain.WorkReference, 0, len(doc.Works)),
		byID:    make(map[string]int, len(doc.Works)),
		byName:  make(map[string]int),
		address: make(map[string]string),
	}

	for _, e := range doc.Works {
		w := e.WorkReference
		if w.ID == "" || w.Name == "" {
			return nil, fmt.Errorf("parse catalog: %w: work without id or name", domain.ErrInvalidInput)
		}
		if w.Chapters < 1 {
			return nil, fmt.Errorf("parse catalog: %w: %s has no chapters", domain.ErrInvalidInput, w.ID)
		}
		if !w.Testament.IsValid() {
			return nil, fmt.Errorf("parse catalog: %w: %s has testament %q", domain.ErrInvalidInput, w.ID, w.Testament)
		}
		if _, dup := c.byID[w.ID]; dup {
			return nil, fmt.Errorf("parse catalog: %w: duplicate id %s", domain.ErrInvalidInput, w.ID)
		}

		idx := len(c.works)
		c.works = append(c.works, w)
		c.byID[w.ID] = idx
		if e.Address != "" {
			c.address[w.ID] = e.Address
		}

		names := append([]string{w.ID, w.Name, w.EnglishName}, w.Aliases...)
		for _, n := range names {
			for _, key := range lookupKeys(n) {
				if prev, ok := c.byName[key]; ok && prev != idx {
					return nil, fmt.Errorf("parse catalog: %w: name %q used by %s and %s",
						domain.ErrInvalidInput, n, c.works[prev].ID, w.ID)
				}
				c.byName[key] = idx
			}
		}
	}

	return c, nil
}

// List returns all works in canonical order.
func (c *Catalog) List() []domain.WorkReference {
	out := make([]domain.WorkReference, len(c.works))
	copy(out, c.works)
	return out
}

// Get returns a work by ID.
func (c *Catalog) Get(id string) (domain.WorkReference, error) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.WorkReference{}, fmt.Errorf("work %q: %w", id, domain.ErrNotFound)
	}
	return c.works[idx], nil
}

// Find resolves an ID, Arabic or English name, or alias.
func (c *Catalog) Find(name string) (domain.WorkReference, error) {
	for _, key := range lookupKeys(name) {
		if idx, ok := c.byName[key]; ok {
			return c.works[idx], nil
		}
	}
	return domain.WorkReference{}, fmt.Errorf("work %q: %w", name, domain.ErrNotFound)
}

// PrimaryAddress returns the book number used by primary text sources.
func (c *Catalog) PrimaryAddress(id string) (string, bool) {
	addr, ok := c.address[id]
	return addr, ok
}

// lookupKeys returns the normalised forms a name is indexed under:
// the folded name and, for Arabic names, the name without its article.
func lookupKeys(name string) []string {
	k := fold(name)
	if k == "" {
		return nil
	}
	if stripped, ok := strings.CutPrefix(k, "ال"); ok && len([]rune(stripped)) > 1 {
		return []string{k, stripped}
	}
	return []string{k}
}

var arabicFold = strings.NewReplacer(
	"أ", "ا", "إ", "ا", "آ", "ا",
	"ة", "ه", "ى", "ي",
	"ـ", "",
)

// fold lowercases, drops spaces, dots and Arabic diacritics, and unifies
// alef and teh marbuta variants.
func fold(s string) string {
	s = arabicFold.Replace(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), r == '.':
			continue
		case unicode.Is(unicode.Mn, r):
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
