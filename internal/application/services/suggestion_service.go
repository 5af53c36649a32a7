package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/schemastudio/backend/internal/domain/schema"
	apperrors "github.com/schemastudio/backend/pkg/errors"
	"github.com/schemastudio/backend/pkg/llm"
)

const suggestSystemPrompt = `You are a helpful assistant that writes JSON Schema (draft-07) entity definitions for database-backed CRUD apps.
Return ONLY a JSON object with this shape:
{
  "definition_key": "snake_or_plural_identifier",
  "definition": {
    "type": "object",
    "title": "Human Title",
    "properties": { ... },
    "required": [ ... ],
    "primaryKey": [ ... ],
    "additionalProperties": false
  }
}
Rules:
- Be accurate to the user's intent. Prefer string/number/integer/boolean/array/object.
- Use formats where obvious (uuid, email, date-time).
- Always include a sensible primaryKey (prefer "id" with format "uuid") and "required".
- If enums are specified in the prompt, include them.
- No prose or code fences, return pure JSON only.`

const (
	// ModeCreateEntity asks for a brand new entity definition.
	ModeCreateEntity = "create_entity"
	// ModeEditEntity asks for a revision of an existing entity definition.
	ModeEditEntity = "edit_entity"

	defaultSuggestTemperature = 0.2
)

// SuggestRequest is the suggestion endpoint's input.
type SuggestRequest struct {
	Instruction  string          `json:"instruction" binding:"required"`
	Mode         string          `json:"mode"`
	SchemaCtx    json.RawMessage `json:"schema_ctx"`
	TargetEntity string          `json:"target_entity"`
	Temperature  float64         `json:"temperature"`
}

// SuggestResult is the suggestion endpoint's output.
type SuggestResult struct {
	Mode          string                   `json:"mode"`
	DefinitionKey string                   `json:"definition_key"`
	Definition    *schema.EntityDefinition `json:"definition"`
}

// SuggestionService drafts entity definitions from natural-language
// instructions. When no LLM is configured it answers from a rule-based
// heuristic so the editor still works offline.
type SuggestionService struct {
	client llm.Client
	model  string
}

// NewSuggestionService builds the service. client may be nil.
func NewSuggestionService(client llm.Client, model string) *SuggestionService {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &SuggestionService{client: client, model: model}
}

// ==================== Suggestion Methods ====================

// Suggest produces an entity definition for the instruction. An unreachable
// or non-success LLM call is a ServiceError; a reachable LLM that returns
// unusable content falls back to the heuristic, as does a nil client.
func (s *SuggestionService) Suggest(ctx context.Context, req SuggestRequest) (*SuggestResult, error) {
	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		return nil, apperrors.NewValidationError("instruction", "instruction is required")
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeCreateEntity
	}

	if s.client != nil {
		result, err := s.callModel(ctx, mode, instruction, req)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}

	key, def := ruleBasedDefinition(instruction)
	return &SuggestResult{Mode: mode, DefinitionKey: key, Definition: def}, nil
}

// callModel returns (nil, nil) when the model answered but its content could
// not be used, which sends the caller to the fallback.
func (s *SuggestionService) callModel(ctx context.Context, mode, instruction string, req SuggestRequest) (*SuggestResult, error) {
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = defaultSuggestTemperature
	}

	resp, err := s.client.Chat(ctx, llm.Request{
		Model: s.model,
		Messages: []llm.Message{
			{Role: "system", Content: suggestSystemPrompt},
			{Role: "user", Content: buildUserPrompt(mode, instruction, req)},
		},
		Temperature: temperature,
	})
	if err != nil {
		return nil, apperrors.NewServiceError("suggestion", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}

	var parsed struct {
		DefinitionKey string                   `json:"definition_key"`
		Definition    *schema.EntityDefinition `json:"definition"`
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, nil
	}
	if parsed.DefinitionKey == "" || parsed.Definition == nil {
		return nil, nil
	}
	return &SuggestResult{Mode: mode, DefinitionKey: parsed.DefinitionKey, Definition: parsed.Definition}, nil
}

func buildUserPrompt(mode, instruction string, req SuggestRequest) string {
	var b strings.Builder
	b.WriteString(instruction)
	if mode == ModeEditEntity && req.TargetEntity != "" {
		fmt.Fprintf(&b, "\n\nRevise the existing entity %q.", req.TargetEntity)
	}
	if len(req.SchemaCtx) > 0 {
		b.WriteString("\n\nCurrent schema context:\n")
		b.Write(req.SchemaCtx)
	}
	return b.String()
}

// ==================== Rule-Based Fallback ====================

var entityTokens = []string{"user", "role", "session", "project", "invoice", "order", "product"}

// ruleBasedDefinition is a crude parser over the instruction text. It always
// yields a definition with a uuid id primary key, and reads a comma-separated
// field list after a "fields:" marker when one is present.
func ruleBasedDefinition(instruction string) (string, *schema.EntityDefinition) {
	text := strings.ToLower(instruction)

	key := "entity"
	title := "Entity"
	for _, token := range entityTokens {
		if strings.Contains(text, token) {
			key = token
			if !strings.HasSuffix(key, "s") {
				key += "s"
			}
			title = strings.ToUpper(token[:1]) + token[1:]
			break
		}
	}

	def := schema.NewEntity(title, "object")
	def.Properties.Set("id", &schema.FieldDefinition{
		Type:        "string",
		Format:      "uuid",
		Description: "Primary key",
	})
	def.Required = []string{"id"}
	def.PrimaryKey = []string{"id"}

	if _, rest, ok := strings.Cut(text, "fields:"); ok {
		line := rest
		if idx := strings.IndexByte(line, '\n'); idx >= 0 {
			line = line[:idx]
		}
		for _, raw := range strings.Split(line, ",") {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			if idx := strings.IndexByte(name, ' '); idx >= 0 {
				name = name[:idx]
			}
			if def.Properties.Has(name) {
				continue
			}
			def.Properties.Set(name, fieldForName(name))
		}
	}
	return key, def
}

func fieldForName(name string) *schema.FieldDefinition {
	switch {
	case strings.Contains(name, "email"):
		return &schema.FieldDefinition{Type: "string", Format: "email"}
	case strings.HasSuffix(name, "_at"), strings.Contains(name, "date"), strings.Contains(name, "time"):
		return &schema.FieldDefinition{Type: "string", Format: "date-time"}
	case strings.Contains(name, "amount"), strings.Contains(name, "price"), strings.Contains(name, "total"):
		return &schema.FieldDefinition{Type: "number"}
	default:
		return &schema.FieldDefinition{Type: "string"}
	}
}
