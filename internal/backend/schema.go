package backend

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// queryResponseDefinition describes the shape of a successful /query
// reply. The schema is deliberately loose about question metadata; only
// the fields the quiz engine depends on are required.
var queryResponseDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"response": map[string]any{
			"type": "string",
		},
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":            map[string]any{"type": []any{"string", "integer"}},
					"type":          map[string]any{"type": "string"},
					"question_text": map[string]any{"type": "string"},
				},
				"required": []any{"id", "type"},
			},
		},
	},
	"required": []any{"response"},
}

var queryResponseSchema = mustCompileSchema("query_response", queryResponseDefinition)

// mustCompileSchema compiles an inline schema definition. The jsonschema
// library expects a parsed JSON value, so the definition is round-tripped
// through encoding/json first.
func mustCompileSchema(name string, def map[string]any) *jsonschema.Schema {
	defBytes, err := json.Marshal(def)
	if err != nil {
		panic(fmt.Sprintf("marshal schema %s: %v", name, err))
	}
	var parsed any
	if err := json.Unmarshal(defBytes, &parsed); err != nil {
		panic(fmt.Sprintf("parse schema %s: %v", name, err))
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	compiled, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return compiled
}

// validateQueryResponse checks raw against the /query reply schema.
func validateQueryResponse(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := queryResponseSchema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
