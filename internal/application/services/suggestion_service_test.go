package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemastudio/backend/pkg/errors"
	"github.com/schemastudio/backend/pkg/llm"
)

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := llm.Response{Choices: []llm.Choice{{Message: llm.Message{Role: "assistant", Content: content}}}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestSuggest_FromModel(t *testing.T) {
	content := `{"definition_key":"invoices","definition":{"type":"object","title":"Invoice","properties":{"id":{"type":"string","format":"uuid"},"total":{"type":"number"}},"required":["id"],"primaryKey":["id"],"additionalProperties":false}}`
	srv := chatServer(t, http.StatusOK, content)
	defer srv.Close()

	svc := NewSuggestionService(llm.NewOpenAIClient(srv.URL, "test-key"), "test-model")
	result, err := svc.Suggest(context.Background(), SuggestRequest{Instruction: "an invoice entity"})
	require.NoError(t, err)

	assert.Equal(t, ModeCreateEntity, result.Mode)
	assert.Equal(t, "invoices", result.DefinitionKey)
	require.NotNil(t, result.Definition)
	assert.Equal(t, "Invoice", result.Definition.Title)
	assert.Equal(t, []string{"id", "total"}, result.Definition.Properties.Keys())
}

func TestSuggest_ServiceUnavailable(t *testing.T) {
	srv := chatServer(t, http.StatusBadGateway, "")
	defer srv.Close()

	svc := NewSuggestionService(llm.NewOpenAIClient(srv.URL, "test-key"), "test-model")
	_, err := svc.Suggest(context.Background(), SuggestRequest{Instruction: "anything"})
	assert.True(t, errors.IsService(err))
}

func TestSuggest_UnparseableContentFallsBack(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "Sure! Here's an entity for you: ...")
	defer srv.Close()

	svc := NewSuggestionService(llm.NewOpenAIClient(srv.URL, "test-key"), "test-model")
	result, err := svc.Suggest(context.Background(), SuggestRequest{Instruction: "a product entity"})
	require.NoError(t, err)

	assert.Equal(t, "products", result.DefinitionKey, "heuristic takes over when the model rambles")
}

func TestSuggest_NoClientUsesFallback(t *testing.T) {
	svc := NewSuggestionService(nil, "")

	result, err := svc.Suggest(context.Background(), SuggestRequest{
		Instruction: "A user entity. Fields: email, display_name, created_at, price",
	})
	require.NoError(t, err)

	assert.Equal(t, "users", result.DefinitionKey)
	assert.Equal(t, "User", result.Definition.Title)
	assert.Equal(t, []string{"id"}, result.Definition.Required)
	assert.Equal(t, []string{"id"}, result.Definition.PrimaryKey)

	email, ok := result.Definition.Properties.Get("email")
	require.True(t, ok)
	assert.Equal(t, "email", email.Format)

	createdAt, ok := result.Definition.Properties.Get("created_at")
	require.True(t, ok)
	assert.Equal(t, "date-time", createdAt.Format)

	price, ok := result.Definition.Properties.Get("price")
	require.True(t, ok)
	assert.Equal(t, "number", price.Type)
}

func TestSuggest_FallbackWithoutEntityToken(t *testing.T) {
	svc := NewSuggestionService(nil, "")

	result, err := svc.Suggest(context.Background(), SuggestRequest{Instruction: "something generic"})
	require.NoError(t, err)
	assert.Equal(t, "entity", result.DefinitionKey)
	assert.True(t, result.Definition.Properties.Has("id"))
}

func TestSuggest_EmptyInstruction(t *testing.T) {
	svc := NewSuggestionService(nil, "")
	_, err := svc.Suggest(context.Background(), SuggestRequest{Instruction: "   "})
	assert.True(t, errors.IsValidation(err))
}

func TestSuggest_ModeEchoed(t *testing.T) {
	svc := NewSuggestionService(nil, "")
	result, err := svc.Suggest(context.Background(), SuggestRequest{
		Instruction:  "tighten the session entity",
		Mode:         ModeEditEntity,
		TargetEntity: "sessions",
	})
	require.NoError(t, err)
	assert.Equal(t, ModeEditEntity, result.Mode)
}
