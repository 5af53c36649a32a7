package services

import (
	"sync"

	"github.com/schemastudio/backend/internal/domain/schema"
	apperrors "github.com/schemastudio/backend/pkg/errors"
)

// DocumentService holds the single current schema document snapshot and the
// active-entity cursor. Every mutation clones the whole document, edits the
// clone and swaps it in, so readers never observe a partially-updated
// document; a failed operation leaves the stored snapshot untouched.
type DocumentService struct {
	mu        sync.RWMutex
	doc       *schema.SchemaDocument
	activeKey string
}

// NewDocumentService starts from the given document with the cursor on its
// first entity.
func NewDocumentService(initial *schema.SchemaDocument) *DocumentService {
	ds := &DocumentService{doc: initial}
	if key, ok := initial.Definitions.First(); ok {
		ds.activeKey = key
	}
	return ds
}

// Snapshot returns the current document. Snapshots are read-only by
// convention; callers must not mutate them.
func (s *DocumentService) Snapshot() *schema.SchemaDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// ActiveKey returns the key of the entity being edited, or "" when none.
func (s *DocumentService) ActiveKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeKey
}

// State returns the current snapshot and cursor together.
func (s *DocumentService) State() (*schema.SchemaDocument, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.activeKey
}

// SelectEntity moves the cursor to an existing entity.
func (s *DocumentService) SelectEntity(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.Definitions.Has(key) {
		return apperrors.NewNotFoundError("entity", key)
	}
	s.activeKey = key
	return nil
}

// Replace swaps in an already-parsed document, used by raw-text editing.
// The previously active entity keeps the cursor when it still exists;
// otherwise the cursor falls back to the first key, or empty.
func (s *DocumentService) Replace(doc *schema.SchemaDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked(doc)
}

// ReplaceRaw parses and swaps in a raw JSON payload.
func (s *DocumentService) ReplaceRaw(data []byte) error {
	doc, err := schema.ParseDocument(data)
	if err != nil {
		return apperrors.NewInvalidDocumentError(err)
	}
	s.Replace(doc)
	return nil
}

// ImportText replaces the document from its textual JSON form; the cursor
// resets to the first entity key. The prior document survives any failure.
func (s *DocumentService) ImportText(text string) error {
	doc, err := schema.ImportText(text)
	if err != nil {
		return apperrors.NewImportError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.activeKey = ""
	if key, ok := doc.Definitions.First(); ok {
		s.activeKey = key
	}
	return nil
}

// ExportText renders the current document and the download filename derived
// from its title.
func (s *DocumentService) ExportText() (filename, text string, err error) {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()
	text, err = schema.ExportText(doc)
	if err != nil {
		return "", "", apperrors.NewInternalError("export document", err)
	}
	return schema.ExportFilename(doc.Title), text, nil
}

// Validate runs draft-07 meta-validation over the current document.
func (s *DocumentService) Validate() (schema.ValidationResult, error) {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()
	res, err := schema.ValidateDocument(doc)
	if err != nil {
		return schema.ValidationResult{}, apperrors.NewInternalError("meta-schema validation", err)
	}
	return res, nil
}

// commitLocked installs doc and repairs the cursor. Callers hold the write
// lock.
func (s *DocumentService) commitLocked(doc *schema.SchemaDocument) {
	s.doc = doc
	if doc.Definitions.Has(s.activeKey) {
		return
	}
	s.activeKey = ""
	if key, ok := doc.Definitions.First(); ok {
		s.activeKey = key
	}
}
