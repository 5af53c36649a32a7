package services

import (
	"strings"

	"github.com/schemastudio/backend/internal/domain/schema"
	apperrors "github.com/schemastudio/backend/pkg/errors"
)

// ==================== Entity CRUD Methods ====================

// AddEntity inserts a new empty entity definition under key and moves the
// cursor to it.
func (s *DocumentService) AddEntity(key, title, typ string) (*schema.EntityDefinition, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperrors.NewValidationError("key", "entity key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.Definitions.Has(key) {
		return nil, apperrors.NewDuplicateKeyError("entity", key)
	}

	next := s.doc.Clone()
	entity := schema.NewEntity(title, typ)
	next.Definitions.Set(key, entity)

	s.doc = next
	s.activeKey = key
	return entity, nil
}

// RemoveEntity deletes the entity under key if present. Removing an absent
// key is a no-op, not an error. After a removal the cursor resets to the
// first remaining key, or empty.
func (s *DocumentService) RemoveEntity(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.doc.Definitions.Has(key) {
		return
	}

	next := s.doc.Clone()
	next.Definitions.Delete(key)

	s.doc = next
	s.activeKey = ""
	if first, ok := next.Definitions.First(); ok {
		s.activeKey = first
	}
}
