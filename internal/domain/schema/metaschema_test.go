package schema

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocument_CleanDocument(t *testing.T) {
	d := NewDocument("Clean")
	e := NewEntity("User", "object")
	e.SetProperty("id", &FieldDefinition{Type: "string", Format: "uuid"})
	e.AddRequired("id")
	d.Definitions.Set("users", e)

	res, err := ValidateDocument(d)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Findings)
}

func TestValidateDocument_ReportsFindings(t *testing.T) {
	d := NewDocument("Broken")
	e := NewEntity("User", "not-a-type")
	d.Definitions.Set("users", e)

	res, err := ValidateDocument(d)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.NotEmpty(t, res.Findings)
	for _, f := range res.Findings {
		assert.NotEmpty(t, f.Message)
	}
}

func TestValidateDocument_MalformedKeywordFromImport(t *testing.T) {
	// A wrong-shaped required survives import as a preserved keyword and is
	// reported here instead of at parse time.
	doc, err := ParseDocument([]byte(`{"definitions":{"users":{"type":"object","properties":{},"required":"oops"}}}`))
	require.NoError(t, err)

	res, err := ValidateDocument(doc)
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestFinding_JSONShape(t *testing.T) {
	f := Finding{Location: "definitions.users.type", Message: "must be one of the allowed values"}
	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"location":"definitions.users.type","message":"must be one of the allowed values"}`, string(data))
}
