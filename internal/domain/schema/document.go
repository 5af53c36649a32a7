// Package schema holds the in-memory model of a draft-07 schema document:
// a set of named entity definitions, each with ordered named fields,
// required/primaryKey member lists, and relationship metadata extensions.
//
// Documents are value-immutable by convention: every editing operation works
// on a Clone and swaps whole documents, never mutating a shared snapshot.
package schema

import (
	"bytes"
	"errors"

	json "github.com/goccy/go-json"
)

// DraftVersion is the $schema marker every produced document carries.
const DraftVersion = "http://json-schema.org/draft-07/schema#"

// ErrMissingDefinitions is returned when a parsed document is not an object
// containing a definitions mapping.
var ErrMissingDefinitions = errors.New("document has no definitions object")

// SchemaDocument is the root of an editable schema.
//
// Keywords the editor does not model (allOf, $comment, ...) are preserved in
// Extra, compacted, in encounter order, and re-emitted after the typed
// members so imported documents survive a round trip.
type SchemaDocument struct {
	Schema               string
	Title                string
	Definitions          *OrderedMap[*EntityDefinition]
	Required             []string
	AdditionalProperties bool
	Extra                *OrderedMap[json.RawMessage]
}

// NewDocument returns an empty document with the draft-07 marker set.
func NewDocument(title string) *SchemaDocument {
	return &SchemaDocument{
		Schema:      DraftVersion,
		Title:       title,
		Definitions: NewOrderedMap[*EntityDefinition](),
		Required:    []string{},
		Extra:       NewOrderedMap[json.RawMessage](),
	}
}

// EntityDefinition is one named object-type definition, e.g. a table.
type EntityDefinition struct {
	Type                 string
	Title                string
	Properties           *OrderedMap[*FieldDefinition]
	Required             []string
	PrimaryKey           []string
	AdditionalProperties bool
	Extra                *OrderedMap[json.RawMessage]
}

// NewEntity returns an empty entity definition. An empty typ defaults to
// "object", the only type the editor produces.
func NewEntity(title, typ string) *EntityDefinition {
	if typ == "" {
		typ = "object"
	}
	return &EntityDefinition{
		Type:       typ,
		Title:      title,
		Properties: NewOrderedMap[*FieldDefinition](),
		Required:   []string{},
		PrimaryKey: []string{},
		Extra:      NewOrderedMap[json.RawMessage](),
	}
}

// SetProperty inserts or overwrites the field stored under name.
func (e *EntityDefinition) SetProperty(name string, def *FieldDefinition) {
	e.Properties.Set(name, def)
}

// RenameProperty relocates a field to a new name, keeping its position, and
// rewrites occurrences of the old name in required and primaryKey.
func (e *EntityDefinition) RenameProperty(old, newName string) bool {
	if !e.Properties.Rename(old, newName) {
		return false
	}
	e.Required = renameName(e.Required, old, newName)
	e.PrimaryKey = renameName(e.PrimaryKey, old, newName)
	return true
}

// DeleteProperty removes a field and purges its name from required and
// primaryKey. Required/primaryKey must never reference a missing property,
// so the cascade is unconditional.
func (e *EntityDefinition) DeleteProperty(name string) bool {
	if !e.Properties.Delete(name) {
		return false
	}
	e.Required = removeName(e.Required, name)
	e.PrimaryKey = removeName(e.PrimaryKey, name)
	return true
}

// AddRequired adds name to the required list, first-seen order, deduplicated.
func (e *EntityDefinition) AddRequired(name string) {
	e.Required = addName(e.Required, name)
}

// RemoveRequired removes name from the required list. No-op when absent.
func (e *EntityDefinition) RemoveRequired(name string) {
	e.Required = removeName(e.Required, name)
}

// AddPrimaryKey adds name to the primaryKey list, deduplicated.
func (e *EntityDefinition) AddPrimaryKey(name string) {
	e.PrimaryKey = addName(e.PrimaryKey, name)
}

// RemovePrimaryKey removes name from the primaryKey list. No-op when absent.
func (e *EntityDefinition) RemovePrimaryKey(name string) {
	e.PrimaryKey = removeName(e.PrimaryKey, name)
}

func addName(list []string, name string) []string {
	for _, n := range list {
		if n == name {
			return list
		}
	}
	return append(list, name)
}

func removeName(list []string, name string) []string {
	out := list[:0]
	for _, n := range list {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

func renameName(list []string, old, newName string) []string {
	seen := false
	for _, n := range list {
		if n == newName {
			seen = true
		}
	}
	out := list[:0]
	for _, n := range list {
		if n == old {
			if seen {
				continue
			}
			n = newName
			seen = true
		}
		out = append(out, n)
	}
	return out
}

// Clone returns a deep copy of the document.
func (d *SchemaDocument) Clone() *SchemaDocument {
	return &SchemaDocument{
		Schema:               d.Schema,
		Title:                d.Title,
		Definitions:          d.Definitions.Clone(func(e *EntityDefinition) *EntityDefinition { return e.Clone() }),
		Required:             cloneStrings(d.Required),
		AdditionalProperties: d.AdditionalProperties,
		Extra:                cloneRawMap(d.Extra),
	}
}

// Clone returns a deep copy of the entity.
func (e *EntityDefinition) Clone() *EntityDefinition {
	return &EntityDefinition{
		Type:                 e.Type,
		Title:                e.Title,
		Properties:           e.Properties.Clone(func(f *FieldDefinition) *FieldDefinition { return f.Clone() }),
		Required:             cloneStrings(e.Required),
		PrimaryKey:           cloneStrings(e.PrimaryKey),
		AdditionalProperties: e.AdditionalProperties,
		Extra:                cloneRawMap(e.Extra),
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneRaw(in json.RawMessage) json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(json.RawMessage, len(in))
	copy(out, in)
	return out
}

func cloneRawMap(in *OrderedMap[json.RawMessage]) *OrderedMap[json.RawMessage] {
	return in.Clone(cloneRaw)
}

func cloneRawMapOrNew(in *OrderedMap[json.RawMessage]) *OrderedMap[json.RawMessage] {
	if in == nil {
		return NewOrderedMap[json.RawMessage]()
	}
	return in.Clone(cloneRaw)
}

// compactRaw normalizes a raw keyword payload so that documents compare equal
// regardless of the indentation of the input they were parsed from.
func compactRaw(in json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, in); err != nil {
		return cloneRaw(in)
	}
	return json.RawMessage(buf.Bytes())
}

// MarshalJSON emits the typed members in canonical order, then the preserved
// unknown keywords in their original order.
func (d *SchemaDocument) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	if d.Schema != "" {
		w.member("$schema", d.Schema)
	}
	if d.Title != "" {
		w.member("title", d.Title)
	}
	w.member("definitions", d.Definitions)
	w.member("required", nonNilStrings(d.Required))
	w.member("additionalProperties", d.AdditionalProperties)
	w.extras(d.Extra)
	return w.finish()
}

// UnmarshalJSON accepts any JSON object carrying a definitions object.
// Malformed typed members are preserved as unknown keywords rather than
// rejected; the meta-schema validator is the layer that reports them.
func (d *SchemaDocument) UnmarshalJSON(data []byte) error {
	var raw OrderedMap[json.RawMessage]
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	out := SchemaDocument{
		Definitions: NewOrderedMap[*EntityDefinition](),
		Required:    []string{},
		Extra:       NewOrderedMap[json.RawMessage](),
	}
	sawDefinitions := false
	for _, key := range raw.Keys() {
		val, _ := raw.Get(key)
		switch key {
		case "$schema":
			tryDecode(out.Extra, key, val, &out.Schema)
		case "title":
			tryDecode(out.Extra, key, val, &out.Title)
		case "definitions":
			defs := NewOrderedMap[*EntityDefinition]()
			if err := json.Unmarshal(val, defs); err != nil {
				return err
			}
			out.Definitions = defs
			sawDefinitions = true
		case "required":
			tryDecode(out.Extra, key, val, &out.Required)
		case "additionalProperties":
			tryDecode(out.Extra, key, val, &out.AdditionalProperties)
		default:
			out.Extra.Set(key, compactRaw(val))
		}
	}
	if !sawDefinitions {
		return ErrMissingDefinitions
	}
	if out.Required == nil {
		out.Required = []string{}
	}
	*d = out
	return nil
}

// MarshalJSON emits type, title, properties, required, primaryKey and
// additionalProperties, then preserved keywords such as if/then.
func (e *EntityDefinition) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	if e.Type != "" {
		w.member("type", e.Type)
	}
	if e.Title != "" {
		w.member("title", e.Title)
	}
	w.member("properties", e.Properties)
	w.member("required", nonNilStrings(e.Required))
	w.member("primaryKey", nonNilStrings(e.PrimaryKey))
	w.member("additionalProperties", e.AdditionalProperties)
	w.extras(e.Extra)
	return w.finish()
}

// UnmarshalJSON parses one definition, routing unmodeled keywords to Extra.
func (e *EntityDefinition) UnmarshalJSON(data []byte) error {
	var raw OrderedMap[json.RawMessage]
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	out := EntityDefinition{
		Properties: NewOrderedMap[*FieldDefinition](),
		Required:   []string{},
		PrimaryKey: []string{},
		Extra:      NewOrderedMap[json.RawMessage](),
	}
	for _, key := range raw.Keys() {
		val, _ := raw.Get(key)
		switch key {
		case "type":
			tryDecode(out.Extra, key, val, &out.Type)
		case "title":
			tryDecode(out.Extra, key, val, &out.Title)
		case "properties":
			props := NewOrderedMap[*FieldDefinition]()
			if err := json.Unmarshal(val, props); err != nil {
				return err
			}
			out.Properties = props
		case "required":
			tryDecode(out.Extra, key, val, &out.Required)
		case "primaryKey":
			tryDecode(out.Extra, key, val, &out.PrimaryKey)
		case "additionalProperties":
			tryDecode(out.Extra, key, val, &out.AdditionalProperties)
		default:
			out.Extra.Set(key, compactRaw(val))
		}
	}
	if out.Required == nil {
		out.Required = []string{}
	}
	if out.PrimaryKey == nil {
		out.PrimaryKey = []string{}
	}
	*e = out
	return nil
}

// tryDecode decodes a typed member; payloads of the wrong shape drop through
// to extra so the document still imports and meta-validation can report them.
func tryDecode[T any](extra *OrderedMap[json.RawMessage], key string, raw json.RawMessage, dst *T) {
	if err := json.Unmarshal(raw, dst); err != nil {
		extra.Set(key, compactRaw(raw))
	}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// objectWriter accumulates JSON object members in emission order.
type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{}
	w.buf.WriteByte('{')
	return w
}

func (w *objectWriter) member(key string, v any) {
	if w.err != nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		w.err = err
		return
	}
	w.raw(key, b)
}

func (w *objectWriter) raw(key string, b []byte) {
	if w.err != nil {
		return
	}
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	kb, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(kb)
	w.buf.WriteByte(':')
	w.buf.Write(b)
	w.n++
}

func (w *objectWriter) extras(m *OrderedMap[json.RawMessage]) {
	if m == nil {
		return
	}
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		w.raw(k, v)
	}
}

func (w *objectWriter) finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}
