package aigen

import (
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mind-engage/quizmaster/internal/lesson"
)

// questionsSchema checks the model's JSON before it is decoded. correctAnswer
// may be a bare string or an array: both generator revisions are accepted and
// the ingestion decoder turns them into a list.
const questionsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["type", "text", "correctAnswer"],
    "properties": {
      "id": {"type": "string"},
      "type": {"enum": ["TRUE_FALSE", "MULTIPLE_CHOICE", "SINGLE_CHOICE", "FILL_BLANKS"]},
      "text": {"type": "string", "minLength": 1},
      "options": {"type": "array", "items": {"type": "string"}},
      "correctAnswer": {
        "oneOf": [
          {"type": "string"},
          {"type": "array", "items": {"type": "string"}}
        ]
      },
      "explanation": {"type": "string"}
    }
  }
}`

func compileSchema() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("questions.schema.json", questionsSchema)
}

// responseSchema is sent to Gemini so the model answers in shape. It uses
// the API's OpenAPI subset, which has no oneOf, so it asks for arrays only.
func responseSchema() map[string]any {
	types := make([]string, 0, len(lesson.AllQuestionTypes))
	for _, t := range lesson.AllQuestionTypes {
		types = append(types, string(t))
	}
	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"id":      map[string]any{"type": "STRING"},
				"type":    map[string]any{"type": "STRING", "enum": types},
				"text":    map[string]any{"type": "STRING"},
				"options": map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
				"correctAnswer": map[string]any{
					"type":        "ARRAY",
					"items":       map[string]any{"type": "STRING"},
					"description": "Λίστα με τις σωστές απαντήσεις. Πάντα πίνακας.",
				},
				"explanation": map[string]any{"type": "STRING"},
			},
			"required": []string{"id", "type", "text", "correctAnswer"},
		},
	}
}
