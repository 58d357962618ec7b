package datafile

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// Validate checks data against the JSON-Schema-style document in schemaRaw.
// Examples ship a schema when their data has a required shape (the batch
// newsletter overlays, for instance); rendering refuses data that fails it.
func Validate(data map[string]any, schemaRaw []byte) error {
	if len(schemaRaw) == 0 {
		return errors.New("datafile: schema document is empty")
	}

	var schema openapi3.Schema
	if err := json.Unmarshal(schemaRaw, &schema); err != nil {
		return fmt.Errorf("datafile: parse schema: %w", err)
	}

	if err := schema.VisitJSON(anyValue(data)); err != nil {
		return fmt.Errorf("datafile: data does not match schema: %w", err)
	}
	return nil
}

// anyValue round-trips data through JSON so numeric types match what the
// schema validator expects (float64 for every number).
func anyValue(data map[string]any) any {
	raw, err := json.Marshal(data)
	if err != nil {
		return data
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return data
	}
	return out
}
