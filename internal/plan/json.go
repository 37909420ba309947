package plan

import (
	"encoding/json"
	"fmt"
	"os"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/plan.schema.json
var planSchema string

// WriteJSON serializes a plan to a file, pretty-printed so plans can be
// reviewed and diffed.
func WriteJSON(p *Plan, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// LoadJSON reads a plan from a JSON file, validating it against the embedded
// plan schema before decoding.
func LoadJSON(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	if err := ValidateJSON(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan JSON: %w", err)
	}
	return &p, nil
}

// ValidateJSON checks a JSON document against the plan schema.
func ValidateJSON(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(planSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("plan schema validation failed to run: %w", err)
	}

	if !result.Valid() {
		msg := "plan does not match schema:"
		for _, desc := range result.Errors() {
			msg += fmt.Sprintf("\n  - %s", desc)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}
