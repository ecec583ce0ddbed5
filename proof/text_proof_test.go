package proof

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextProof_Scenario(t *testing.T) {
	doc := strings.Join([]string{
		"Agent Name: Compliance Sentinel",
		"Agent Type: compliance-agent",
		"",
		"CAPABILITIES",
		"",
		"1. Real-time Monitoring",
		"2. No capabilities selected",
		"",
		"DOCUMENT METADATA",
		"Generated On: 2024-03-01T00:00:00Z",
		"",
		"DIGITAL SIGNATURE",
		"",
		"abc123",
	}, "\n")

	p, err := ParseTextProof(doc)
	require.NoError(t, err)

	assert.Equal(t, "Compliance Sentinel", p.AgentName())
	assert.Equal(t, "compliance-agent", p.AgentType())
	assert.Equal(t, []string{"Real-time Monitoring"}, p.Capabilities())
	assert.Equal(t, "2024-03-01T00:00:00Z", p.Timestamp())
	assert.Equal(t, "abc123", p.Signature())
	assert.Equal(t, FormatText, p.ProofFormat())

	_, ok := p.VerificationStatus()
	assert.False(t, ok)
}

func TestParseTextProof_Fixture(t *testing.T) {
	p, err := ParseTextProof(textProofFixture)
	require.NoError(t, err)

	assert.Equal(t, []string{"Real-time Monitoring", "Policy Enforcement"}, p.Capabilities())

	status, ok := p.VerificationStatus()
	assert.True(t, ok)
	assert.Equal(t, "Verified", status)
}

func TestParseTextProof_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "no agent name",
			doc:   withoutLine(textProofFixture, "Agent Name:"),
			field: FieldAgentName,
		},
		{
			name:  "blank agent name",
			doc:   strings.Replace(textProofFixture, "Agent Name: Compliance Sentinel", "Agent Name:   ", 1),
			field: FieldAgentName,
		},
		{
			name:  "no agent type",
			doc:   withoutLine(textProofFixture, "Agent Type:"),
			field: FieldAgentType,
		},
		{
			name:  "no generated on",
			doc:   withoutLine(textProofFixture, "Generated On:"),
			field: FieldTimestamp,
		},
		{
			name:  "no signature marker",
			doc:   withoutLine(textProofFixture, "DIGITAL SIGNATURE"),
			field: FieldSignature,
		},
		{
			name:  "blank signature",
			doc:   withoutLine(textProofFixture, "abc123") + "\n\n",
			field: FieldSignature,
		},
		{
			name:  "signature marker on last line",
			doc:   strings.TrimSuffix(strings.TrimSpace(textProofFixture), "-----------------\nabc123"),
			field: FieldSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseTextProof(tt.doc)
			require.Error(t, err)
			assert.Nil(t, p)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, FormatText, pe.Format)
			assert.Contains(t, pe.Reason, tt.field)
			assert.True(t, IsMissingField(err, tt.field), "expected missing %s, got %v", tt.field, err)
		})
	}
}

func TestParseTextProof_Capabilities(t *testing.T) {
	base := func(section string) string {
		return strings.Join([]string{
			"Agent Name: A",
			"Agent Type: T",
			"Generated On: 2024-01-01",
			section,
			"DIGITAL SIGNATURE",
			"",
			"ff00",
		}, "\n")
	}

	tests := []struct {
		name     string
		section  string
		expected []string
	}{
		{
			name:     "empty section",
			section:  "CAPABILITIES\n\nDOCUMENT METADATA",
			expected: []string{},
		},
		{
			name:     "markers reversed",
			section:  "DOCUMENT METADATA\n\n1. Hidden\nCAPABILITIES\n\n2. Also hidden",
			expected: []string{},
		},
		{
			name:     "no markers",
			section:  "1. Orphan",
			expected: []string{},
		},
		{
			name:     "end marker missing",
			section:  "CAPABILITIES\n\n1. Dangling",
			expected: []string{},
		},
		{
			name:     "first line after marker is a header",
			section:  "CAPABILITIES\n1. Skipped\n2. Kept\nDOCUMENT METADATA",
			expected: []string{"Kept"},
		},
		{
			name:     "unnumbered and blank items ignored",
			section:  "CAPABILITIES\n\n1. Planning\nnot numbered\n2.   \n3.\n-  4. dashed\n10. Reporting\nDOCUMENT METADATA",
			expected: []string{"Planning", "Reporting"},
		},
		{
			name:     "sentinel only",
			section:  "CAPABILITIES\n\n1. No capabilities selected\nDOCUMENT METADATA",
			expected: []string{},
		},
		{
			name:     "inner whitespace kept",
			section:  "CAPABILITIES\n\n1.\tData   Export  \nDOCUMENT METADATA",
			expected: []string{"Data   Export"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseTextProof(base(tt.section))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Capabilities())
		})
	}
}

func TestParseTextProof_TrimsAndCRLF(t *testing.T) {
	doc := strings.ReplaceAll(textProofFixture, "\n", "\r\n")
	doc = strings.Replace(doc, "Agent Name: Compliance Sentinel", "   Agent Name:    Compliance Sentinel   ", 1)

	p, err := ParseTextProof(doc)
	require.NoError(t, err)
	assert.Equal(t, "Compliance Sentinel", p.AgentName())
	assert.Equal(t, "abc123", p.Signature())
	assert.Equal(t, []string{"Real-time Monitoring", "Policy Enforcement"}, p.Capabilities())
}

func TestParseTextProof_Idempotent(t *testing.T) {
	first, err := ParseTextProof(textProofFixture)
	require.NoError(t, err)
	second, err := ParseTextProof(textProofFixture)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}
