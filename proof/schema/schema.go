// Package schema validates the structure of JSON proof documents.
package schema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ProofDocumentSchema describes the JSON proof layout. Capabilities are left
// unconstrained: a non-array value means "none provided", not a bad document.
const ProofDocumentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["agent", "metadata", "signature"],
  "properties": {
    "agent": {
      "type": "object",
      "required": ["name", "typeCode"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "typeCode": {"type": "string", "minLength": 1}
      }
    },
    "metadata": {
      "type": "object",
      "required": ["generatedAt"],
      "properties": {
        "generatedAt": {"type": "string", "minLength": 1}
      }
    },
    "signature": {"type": "string", "minLength": 1},
    "verification": {
      "type": "object",
      "properties": {
        "status": {"type": "string"}
      }
    }
  }
}`

var (
	compileOnce sync.Once
	proofSchema *gojsonschema.Schema
	compileErr  error
)

func compiled() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		proofSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(ProofDocumentSchema))
	})
	return proofSchema, compileErr
}

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("proof document does not match schema: %s", strings.Join(e.Violations, "; "))
}

// ValidateProofDocument checks a decoded JSON proof against ProofDocumentSchema.
func ValidateProofDocument(doc interface{}) error {
	if doc == nil {
		return fmt.Errorf("proof document is nil")
	}

	s, err := compiled()
	if err != nil {
		return fmt.Errorf("failed to compile proof schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		return &ValidationError{Violations: violations}
	}

	return nil
}
