package schema

import (
	json "github.com/goccy/go-json"
)

// FieldTypes lists the type markers the editor offers for a field.
var FieldTypes = []string{"string", "number", "integer", "boolean", "array", "object"}

// StringFormats lists the string refinements the editor offers.
var StringFormats = []string{"uuid", "email", "date-time", "uri", "hostname", "ipv4", "ipv6"}

// StringConstraints refine string-typed fields.
type StringConstraints struct {
	MinLength *int
	MaxLength *int
	Pattern   string
}

// NumberConstraints refine number- and integer-typed fields.
type NumberConstraints struct {
	Minimum *float64
	Maximum *float64
}

// ArrayConstraints refine array-typed fields.
type ArrayConstraints struct {
	Items       *ItemsSchema
	UniqueItems *bool
}

// ItemsSchema is the element schema of an array field.
type ItemsSchema struct {
	Type  string
	Enum  []json.RawMessage
	Extra *OrderedMap[json.RawMessage]
}

// FieldDefinition is one named property of an entity. The field's name is
// never stored here; it is the key in the owning entity's properties map, and
// edit operations pass (name, definition) pairs explicitly.
//
// Constraint keywords are grouped by the field type they apply to; the flat
// draft-07 wire form is reassembled by the custom JSON codec below. RefTable,
// RefColumn and RelationshipName are non-standard relationship metadata,
// carried verbatim and never checked for existence.
type FieldDefinition struct {
	Type             string
	Format           string
	Enum             []json.RawMessage
	Default          json.RawMessage
	String           *StringConstraints
	Number           *NumberConstraints
	Array            *ArrayConstraints
	RefTable         string
	RefColumn        string
	RelationshipName string
	Ref              string
	Description      string
	Extra            *OrderedMap[json.RawMessage]
}

// Clone returns a deep copy of the field.
func (f *FieldDefinition) Clone() *FieldDefinition {
	out := &FieldDefinition{
		Type:             f.Type,
		Format:           f.Format,
		Default:          cloneRaw(f.Default),
		RefTable:         f.RefTable,
		RefColumn:        f.RefColumn,
		RelationshipName: f.RelationshipName,
		Ref:              f.Ref,
		Description:      f.Description,
		Extra:            cloneRawMapOrNew(f.Extra),
	}
	out.Enum = cloneRawSlice(f.Enum)
	if f.String != nil {
		out.String = &StringConstraints{
			MinLength: cloneInt(f.String.MinLength),
			MaxLength: cloneInt(f.String.MaxLength),
			Pattern:   f.String.Pattern,
		}
	}
	if f.Number != nil {
		out.Number = &NumberConstraints{
			Minimum: cloneFloat(f.Number.Minimum),
			Maximum: cloneFloat(f.Number.Maximum),
		}
	}
	if f.Array != nil {
		arr := &ArrayConstraints{UniqueItems: cloneBool(f.Array.UniqueItems)}
		if f.Array.Items != nil {
			arr.Items = &ItemsSchema{
				Type:  f.Array.Items.Type,
				Enum:  cloneRawSlice(f.Array.Items.Enum),
				Extra: cloneRawMapOrNew(f.Array.Items.Extra),
			}
		}
		out.Array = arr
	}
	return out
}

func cloneInt(in *int) *int {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func cloneFloat(in *float64) *float64 {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func cloneBool(in *bool) *bool {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func cloneRawSlice(in []json.RawMessage) []json.RawMessage {
	if in == nil {
		return nil
	}
	out := make([]json.RawMessage, len(in))
	for i, r := range in {
		out[i] = cloneRaw(r)
	}
	return out
}

// MarshalJSON flattens the constraint groups back into draft-07 wire order.
func (f *FieldDefinition) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	if f.Type != "" {
		w.member("type", f.Type)
	}
	if f.Format != "" {
		w.member("format", f.Format)
	}
	if f.Enum != nil {
		w.member("enum", f.Enum)
	}
	if f.Default != nil {
		w.raw("default", f.Default)
	}
	if f.String != nil {
		if f.String.MinLength != nil {
			w.member("minLength", *f.String.MinLength)
		}
		if f.String.MaxLength != nil {
			w.member("maxLength", *f.String.MaxLength)
		}
		if f.String.Pattern != "" {
			w.member("pattern", f.String.Pattern)
		}
	}
	if f.Number != nil {
		if f.Number.Minimum != nil {
			w.member("minimum", *f.Number.Minimum)
		}
		if f.Number.Maximum != nil {
			w.member("maximum", *f.Number.Maximum)
		}
	}
	if f.Array != nil {
		if f.Array.Items != nil {
			w.member("items", f.Array.Items)
		}
		if f.Array.UniqueItems != nil {
			w.member("uniqueItems", *f.Array.UniqueItems)
		}
	}
	if f.RefTable != "" {
		w.member("refTable", f.RefTable)
	}
	if f.RefColumn != "" {
		w.member("refColumn", f.RefColumn)
	}
	if f.RelationshipName != "" {
		w.member("relationshipName", f.RelationshipName)
	}
	if f.Ref != "" {
		w.member("$ref", f.Ref)
	}
	if f.Description != "" {
		w.member("description", f.Description)
	}
	w.extras(f.Extra)
	return w.finish()
}

// UnmarshalJSON routes known keywords into their constraint group and keeps
// everything else verbatim in Extra.
func (f *FieldDefinition) UnmarshalJSON(data []byte) error {
	var raw OrderedMap[json.RawMessage]
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	out := FieldDefinition{Extra: NewOrderedMap[json.RawMessage]()}
	str := func() *StringConstraints {
		if out.String == nil {
			out.String = &StringConstraints{}
		}
		return out.String
	}
	num := func() *NumberConstraints {
		if out.Number == nil {
			out.Number = &NumberConstraints{}
		}
		return out.Number
	}
	arr := func() *ArrayConstraints {
		if out.Array == nil {
			out.Array = &ArrayConstraints{}
		}
		return out.Array
	}
	for _, key := range raw.Keys() {
		val, _ := raw.Get(key)
		switch key {
		case "type":
			tryDecode(out.Extra, key, val, &out.Type)
		case "format":
			tryDecode(out.Extra, key, val, &out.Format)
		case "enum":
			tryDecode(out.Extra, key, val, &out.Enum)
		case "default":
			out.Default = compactRaw(val)
		case "minLength":
			tryDecodePtr(out.Extra, key, val, func(v int) { str().MinLength = &v })
		case "maxLength":
			tryDecodePtr(out.Extra, key, val, func(v int) { str().MaxLength = &v })
		case "pattern":
			tryDecodePtr(out.Extra, key, val, func(v string) { str().Pattern = v })
		case "minimum":
			tryDecodePtr(out.Extra, key, val, func(v float64) { num().Minimum = &v })
		case "maximum":
			tryDecodePtr(out.Extra, key, val, func(v float64) { num().Maximum = &v })
		case "items":
			items := &ItemsSchema{}
			if err := json.Unmarshal(val, items); err != nil {
				out.Extra.Set(key, compactRaw(val))
				break
			}
			arr().Items = items
		case "uniqueItems":
			tryDecodePtr(out.Extra, key, val, func(v bool) { arr().UniqueItems = &v })
		case "refTable":
			tryDecode(out.Extra, key, val, &out.RefTable)
		case "refColumn":
			tryDecode(out.Extra, key, val, &out.RefColumn)
		case "relationshipName":
			tryDecode(out.Extra, key, val, &out.RelationshipName)
		case "$ref":
			tryDecode(out.Extra, key, val, &out.Ref)
		case "description":
			tryDecode(out.Extra, key, val, &out.Description)
		default:
			out.Extra.Set(key, compactRaw(val))
		}
	}
	for i, e := range out.Enum {
		out.Enum[i] = compactRaw(e)
	}
	*f = out
	return nil
}

func tryDecodePtr[T any](extra *OrderedMap[json.RawMessage], key string, raw json.RawMessage, set func(T)) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		extra.Set(key, compactRaw(raw))
		return
	}
	set(v)
}

// MarshalJSON emits type, enum, then preserved keywords.
func (i *ItemsSchema) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	if i.Type != "" {
		w.member("type", i.Type)
	}
	if i.Enum != nil {
		w.member("enum", i.Enum)
	}
	w.extras(i.Extra)
	return w.finish()
}

// UnmarshalJSON parses an items object; non-object items values (booleans,
// tuples) are handled by the caller, which keeps them as a raw keyword.
func (i *ItemsSchema) UnmarshalJSON(data []byte) error {
	var raw OrderedMap[json.RawMessage]
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	out := ItemsSchema{Extra: NewOrderedMap[json.RawMessage]()}
	for _, key := range raw.Keys() {
		val, _ := raw.Get(key)
		switch key {
		case "type":
			tryDecode(out.Extra, key, val, &out.Type)
		case "enum":
			tryDecode(out.Extra, key, val, &out.Enum)
		default:
			out.Extra.Set(key, compactRaw(val))
		}
	}
	for n, e := range out.Enum {
		out.Enum[n] = compactRaw(e)
	}
	*i = out
	return nil
}
