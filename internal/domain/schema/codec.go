package schema

import (
	"strings"

	json "github.com/goccy/go-json"
)

// ParseDocument parses raw JSON into a document. The payload must be a JSON
// object carrying a definitions object; anything else is an error.
func ParseDocument(data []byte) (*SchemaDocument, error) {
	doc := &SchemaDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ImportText parses a textual JSON representation of a document.
func ImportText(text string) (*SchemaDocument, error) {
	return ParseDocument([]byte(text))
}

// ExportText renders the canonical textual form: 2-space indent, mapping keys
// in insertion order, trailing newline. Output is reproducible for a given
// document.
func ExportText(d *SchemaDocument) (string, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

// ExportFilename derives the download filename from a document title:
// lower-cased, spaces replaced with hyphens, ".json" suffix.
func ExportFilename(title string) string {
	name := strings.ToLower(strings.TrimSpace(title))
	name = strings.ReplaceAll(name, " ", "-")
	if name == "" {
		name = "schema"
	}
	return name + ".json"
}
