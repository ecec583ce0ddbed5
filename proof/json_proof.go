package proof

import (
	"encoding/json"
	"fmt"

	"github.com/pilacorp/go-agentproof-sdk/proof/schema"
)

// ProofDocument is the decoded JSON proof.
type ProofDocument map[string]interface{}

// extractJSONProof reads the nested JSON layout:
//
//	{"agent": {"name", "typeCode"}, "metadata": {"generatedAt"},
//	 "signature", "capabilities": [...], "verification": {"status"}}
func extractJSONProof(raw string, options *proofOptions) (*ProofData, error) {
	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	doc, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object, got %T", ErrMalformedDocument, decoded)
	}

	p, err := parseProofDocument(ProofDocument(doc))
	if err != nil {
		return nil, err
	}

	// Mandatory fields are checked above so they keep their own error; the
	// schema only adds the structure the extractor does not look at.
	if options.isValidateSchema {
		if err := schema.ValidateProofDocument(doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
	}

	return p, nil
}

func parseProofDocument(doc ProofDocument) (*ProofData, error) {
	agent := objectField(doc, "agent")
	metadata := objectField(doc, "metadata")

	var f Fields
	var err error

	if f.AgentName, err = requireString(agent, "name", FieldAgentName); err != nil {
		return nil, err
	}
	if f.AgentType, err = requireString(agent, "typeCode", FieldAgentType); err != nil {
		return nil, err
	}
	if f.Timestamp, err = requireString(metadata, "generatedAt", FieldTimestamp); err != nil {
		return nil, err
	}
	if f.Signature, err = requireString(doc, "signature", FieldSignature); err != nil {
		return nil, err
	}

	f.Capabilities = jsonCapabilities(doc)

	if status, ok := objectField(doc, "verification")["status"].(string); ok {
		f.VerificationStatus = &status
	}

	return NewProofData(FormatJSON, f)
}

// objectField returns the nested object at key, or nil when it is absent or not an object.
func objectField(m map[string]interface{}, key string) map[string]interface{} {
	obj, _ := m[key].(map[string]interface{})
	return obj
}

// requireString returns the string at key. Absent, null, non-string and empty
// values are all treated as a missing field.
func requireString(m map[string]interface{}, key, field string) (string, error) {
	value, ok := m[key].(string)
	if !ok || value == "" {
		return "", missingField(field)
	}
	return value, nil
}

// jsonCapabilities takes the capabilities array as provided. Any other shape
// counts as no capabilities; non-string entries are skipped.
func jsonCapabilities(doc ProofDocument) []string {
	raw, ok := doc["capabilities"].([]interface{})
	if !ok {
		return []string{}
	}

	capabilities := make([]string, 0, len(raw))
	for _, c := range raw {
		if s, ok := c.(string); ok {
			capabilities = append(capabilities, s)
		}
	}
	return capabilities
}
