package corpus

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// recordSchema describes one question in a seed file. Subject, grade and
// difficulty may be omitted when the file name supplies them.
const recordSchema = `{
  "type": "object",
  "required": ["content", "options", "correctAnswer"],
  "properties": {
    "id":            {"type": "string"},
    "_id":           {"type": "string"},
    "content":       {"type": "string", "minLength": 1, "maxLength": 1000},
    "type":          {"enum": ["multiple_choice", "MULTIPLE_CHOICE", ""]},
    "options":       {"type": "array", "minItems": 2, "maxItems": 6, "items": {"type": "string"}},
    "correctAnswer": {"type": "string", "minLength": 1},
    "explanation":   {"type": "string"},
    "subject":       {"type": "string"},
    "topic":         {"type": "string"},
    "grade":         {"type": ["string", "integer"]},
    "difficulty":    {"enum": ["easy", "medium", "hard"]},
    "tags":          {"type": "array", "items": {"type": "string"}}
  }
}`

// documentSchema describes the versioned envelope of a seed file.
const documentSchema = `{
  "type": "object",
  "required": ["formatVersion", "questions"],
  "properties": {
    "formatVersion": {"type": "string", "pattern": "^v[0-9]+\\.[0-9]+\\.[0-9]+$"},
    "questions":     {"type": "array"}
  }
}`

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

func compiledSchema(name, def string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(def), &parsed); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}

// validateValue checks a parsed JSON value against a named schema.
func validateValue(name, def string, v any) error {
	s, err := compiledSchema(name, def)
	if err != nil {
		return err
	}
	return s.Validate(v)
}
