package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is the JSON Schema a structured response must satisfy.
type Schema struct {
	// Name is kebab-case and doubles as the tool/schema name sent to providers.
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// Validate checks raw against the schema. A nil Schema accepts anything.
func (s *Schema) Validate(raw json.RawMessage) error {
	if s == nil {
		return nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := s.compile()
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

// compile builds the validator once per Schema value.
func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		// The compiler wants plain decoded JSON, not Go maps with typed slices.
		b, err := json.Marshal(s.Definition)
		if err != nil {
			s.err = fmt.Errorf("marshal schema %q: %w", s.Name, err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
		if err != nil {
			s.err = fmt.Errorf("parse schema %q: %w", s.Name, err)
			return
		}

		url := fmt.Sprintf("schema://%s.json", s.Name)
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, doc); err != nil {
			s.err = fmt.Errorf("add schema %q: %w", s.Name, err)
			return
		}
		s.compiled, s.err = c.Compile(url)
	})
	return s.compiled, s.err
}
