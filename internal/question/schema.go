package question

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://flashquiz/question-set.json"

// setSchema describes the question file: an array of records with
// single-uppercase-letter option labels.
var setSchema = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"question_number", "question", "options", "correct_answer"},
		"properties": map[string]any{
			"question_number": map[string]any{"type": "string", "minLength": 1},
			"question":        map[string]any{"type": "string"},
			"options": map[string]any{
				"type":                 "object",
				"minProperties":        1,
				"propertyNames":        map[string]any{"pattern": "^[A-Z]$"},
				"additionalProperties": map[string]any{"type": "string"},
			},
			"correct_answer": map[string]any{"type": "string", "pattern": "^[A-Z]$"},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a plain decoded JSON value.
		defBytes, err := json.Marshal(setSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// validateSet checks raw question-file JSON against the schema.
func validateSet(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("compile question schema: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
