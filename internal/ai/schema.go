package ai

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SupportedCurrencies is the closed set of currency codes a response
// may carry after synonym normalization.
var SupportedCurrencies = []string{"PLN", "EUR", "USD", "GBP", "CHF", "CZK", "SEK", "NOK", "DKK", "HUF"}

// buildExtractionSchema returns the JSON-Schema constraint for model
// responses. It is sent to the model as part of the prompt and compiled
// locally to validate what actually came back.
func buildExtractionSchema() map[string]any {
	currencies := make([]any, len(SupportedCurrencies))
	for i, c := range SupportedCurrencies {
		currencies[i] = c
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"company_name":    map[string]any{"type": "string"},
			"invoice_id":      map[string]any{"type": "string"},
			"invoice_date":    map[string]any{"type": "string"},
			"gross_value":     map[string]any{"type": "number", "minimum": 0},
			"net_value":       map[string]any{"type": "number", "minimum": 0},
			"tax_value":       map[string]any{"type": "number", "minimum": 0},
			"euro_net_value":  map[string]any{"type": "number", "minimum": 0},
			"currency":        map[string]any{"type": "string", "enum": currencies},
			"company_country": map[string]any{"type": "string"},
		},
		"required": []any{"company_name", "gross_value", "tax_value", "currency"},
	}
}

// compileExtractionSchema compiles the extraction schema once per
// extractor.
func compileExtractionSchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(buildExtractionSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateAgainstSchema checks a repaired response document against the
// extraction schema.
func validateAgainstSchema(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}
