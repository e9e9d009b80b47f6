package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildTitleDocumentJSONSchema returns the JSON-Schema (draft 2020-12
// subset) the structuring stage validates model output against. Shapes
// are enforced strictly; string values stay free-form since they are
// transcribed verbatim from noisy documents.
func BuildTitleDocumentJSONSchema() map[string]any {
	str := map[string]any{"type": "string"}
	record := func(fields ...string) map[string]any {
		props := map[string]any{}
		for _, f := range fields {
			props[f] = str
		}
		return map[string]any{
			"type":       "object",
			"properties": props,
			"required":   fields,
		}
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"deeds": map[string]any{
				"type": "array",
				"items": record("grantor", "grantee", "consideration",
					"noteDate", "fileNumber", "recordingDate", "bookPage"),
			},
			"deedsOfTrust": map[string]any{
				"type": "array",
				"items": record("grantor", "amount", "lender", "status",
					"trustee", "maturityDate", "noteDate", "fileNumber",
					"recordingDate", "bookPages"),
			},
			"judgments": map[string]any{
				"type": "array",
				"items": record("plaintiff", "defendant", "amount",
					"judgmentDate", "fileNumber", "recordingDate", "bookPage"),
			},
			"liens": map[string]any{
				"type": "array",
				"items": record("type", "creditor", "amount", "status",
					"fileNumber", "recordingDate"),
			},
			"namesSearched": map[string]any{
				"type":  "array",
				"items": str,
			},
			"propertyInfo": record("address", "parcelNumber", "legalDescription"),
			"confidence": map[string]any{
				"type": "string",
				"enum": []string{ConfidenceHigh, ConfidenceMedium, ConfidenceLow},
			},
		},
		"required": []string{
			"deeds", "deedsOfTrust", "judgments", "liens",
			"namesSearched", "propertyInfo", "confidence",
		},
	}
}

// ValidateJSONAgainstSchema validates a JSON document against a schema
// expressed as a generic map.
func ValidateJSONAgainstSchema(schema map[string]any, doc []byte) error {
	sb, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(sb)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return compiled.Validate(v)
}
