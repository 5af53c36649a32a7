package services

import (
	"strings"

	"github.com/schemastudio/backend/internal/domain/schema"
	apperrors "github.com/schemastudio/backend/pkg/errors"
)

// ==================== Property CRUD Methods ====================

// UpsertProperty writes def under a property name of the given entity. The
// effective name is name when non-blank, else priorName (the name of the
// property the edit started from). When the edit renames an existing
// property, the definition is relocated atomically: the old key is removed,
// the new key takes its position, and occurrences of the old name in
// required and primaryKey are rewritten.
func (s *DocumentService) UpsertProperty(entityKey, priorName, name string, def *schema.FieldDefinition) error {
	effective := strings.TrimSpace(name)
	if effective == "" {
		effective = strings.TrimSpace(priorName)
	}
	if effective == "" {
		return apperrors.NewValidationError("name", "property name is required")
	}
	if def == nil {
		return apperrors.NewValidationError("definition", "property definition is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	entity, ok := next.Definitions.Get(entityKey)
	if !ok {
		return apperrors.NewNotFoundError("entity", entityKey)
	}

	prior := strings.TrimSpace(priorName)
	if prior != "" && prior != effective {
		entity.RenameProperty(prior, effective)
	}
	entity.SetProperty(effective, def.Clone())

	s.commitLocked(next)
	return nil
}

// DeleteProperty removes a property and purges its name from the entity's
// required and primaryKey lists. Deleting an absent property is a no-op.
func (s *DocumentService) DeleteProperty(entityKey, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	entity, ok := next.Definitions.Get(entityKey)
	if !ok {
		return apperrors.NewNotFoundError("entity", entityKey)
	}
	if !entity.DeleteProperty(name) {
		return nil
	}

	s.commitLocked(next)
	return nil
}

// AddToRequired marks a property required. Adding an already-required name
// is a no-op; the list keeps first-seen order.
func (s *DocumentService) AddToRequired(entityKey, name string) error {
	return s.editMembers(entityKey, name, true, (*schema.EntityDefinition).AddRequired)
}

// RemoveFromRequired clears a property's required mark. No-op when absent.
func (s *DocumentService) RemoveFromRequired(entityKey, name string) error {
	return s.editMembers(entityKey, name, false, (*schema.EntityDefinition).RemoveRequired)
}

// AddToPrimaryKey appends a property to the primary key, deduplicated.
func (s *DocumentService) AddToPrimaryKey(entityKey, name string) error {
	return s.editMembers(entityKey, name, true, (*schema.EntityDefinition).AddPrimaryKey)
}

// RemoveFromPrimaryKey removes a property from the primary key. No-op when
// absent.
func (s *DocumentService) RemoveFromPrimaryKey(entityKey, name string) error {
	return s.editMembers(entityKey, name, false, (*schema.EntityDefinition).RemovePrimaryKey)
}

// editMembers applies one membership toggle under the write lock. Additions
// require the property to exist so the member lists never reference a
// missing property.
func (s *DocumentService) editMembers(entityKey, name string, mustExist bool, apply func(*schema.EntityDefinition, string)) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("name", "property name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	entity, ok := next.Definitions.Get(entityKey)
	if !ok {
		return apperrors.NewNotFoundError("entity", entityKey)
	}
	if mustExist && !entity.Properties.Has(name) {
		return apperrors.NewNotFoundError("property", name)
	}
	apply(entity, name)

	s.commitLocked(next)
	return nil
}
