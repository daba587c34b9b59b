package services

import (
	"fmt"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driving"
	"github.com/abdelmaseeh/SmartEgyBible/internal/reference"
)

// Ensure WorkService implements the interface.
var _ driving.WorkService = (*WorkService)(nil)

// WorkService exposes the work catalog.
type WorkService struct {
	catalog driven.WorkCatalog
}

// NewWorkService creates a work service.
func NewWorkService(catalog driven.WorkCatalog) *WorkService {
	return &WorkService{catalog: catalog}
}

// List returns all works in canonical order.
func (s *WorkService) List() []domain.WorkReference {
	return s.catalog.List()
}

// Get returns a work by ID.
func (s *WorkService) Get(id string) (domain.WorkReference, error) {
	return s.catalog.Get(id)
}

// ParseReference turns "John 3" or "تكوين ١" into a chapter key. A missing
// chapter means chapter 1; chapters beyond the work are clamped.
func (s *WorkService) ParseReference(input string) (domain.ChapterKey, error) {
	ref, err := reference.Parse(input)
	if err != nil {
		return domain.ChapterKey{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	work, err := s.catalog.Find(ref.Book)
	if err != nil {
		return domain.ChapterKey{}, fmt.Errorf("unknown book %q: %w", ref.Book, err)
	}
	return domain.NewChapterKey(work.ID, work.ClampChapter(ref.Chapter)), nil
}
