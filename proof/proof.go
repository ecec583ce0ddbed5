package proof

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Format identifies the encoding a proof document arrived in.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	// FormatPDF is the HTML document rendered for print/PDF export.
	FormatPDF Format = "pdf"
)

// NoCapabilitiesSentinel is the placeholder issuers print when no capability
// was selected. It never appears in ProofData.Capabilities.
const NoCapabilitiesSentinel = "No capabilities selected"

// Field names used in MissingFieldError.
const (
	FieldSignature = "signature"
	FieldAgentName = "agentName"
	FieldAgentType = "agentType"
	FieldTimestamp = "timestamp"
)

// ParseFormat converts a caller supplied tag into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "pdf", "html", "htm":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatJSON, FormatPDF:
		return true
	}
	return false
}

func (f Format) String() string {
	return string(f)
}

// Fields holds the values an extractor recovered from a document.
type Fields struct {
	Signature          string
	AgentName          string
	AgentType          string
	Capabilities       []string
	Timestamp          string
	VerificationStatus *string
}

// ProofData is the canonical, encoding independent proof record.
// It can only be built through NewProofData and is immutable afterwards.
type ProofData struct {
	signature          string
	agentName          string
	agentType          string
	capabilities       []string
	timestamp          string
	proofFormat        Format
	verificationStatus *string
}

// NewProofData builds a ProofData for the extractor that produced f.
// Blank mandatory fields fail with a MissingFieldError; blank capabilities
// and the no-capabilities sentinel are dropped.
func NewProofData(format Format, f Fields) (*ProofData, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	mandatory := []struct {
		name  string
		value string
	}{
		{FieldAgentName, f.AgentName},
		{FieldAgentType, f.AgentType},
		{FieldTimestamp, f.Timestamp},
		{FieldSignature, f.Signature},
	}
	for _, m := range mandatory {
		if m.value == "" {
			return nil, missingField(m.name)
		}
	}

	p := &ProofData{
		signature:    f.Signature,
		agentName:    f.AgentName,
		agentType:    f.AgentType,
		capabilities: cleanCapabilities(f.Capabilities),
		timestamp:    f.Timestamp,
		proofFormat:  format,
	}
	if f.VerificationStatus != nil {
		status := *f.VerificationStatus
		p.verificationStatus = &status
	}

	return p, nil
}

func cleanCapabilities(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if isBlankOrSentinel(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isBlankOrSentinel(c string) bool {
	trimmed := strings.TrimSpace(c)
	return trimmed == "" || trimmed == NoCapabilitiesSentinel
}

func (p *ProofData) Signature() string { return p.signature }
func (p *ProofData) AgentName() string { return p.agentName }
func (p *ProofData) AgentType() string { return p.agentType }
func (p *ProofData) Timestamp() string { return p.timestamp }

// ProofFormat is the format of the extractor that ran, never a value read from the document.
func (p *ProofData) ProofFormat() Format { return p.proofFormat }

// Capabilities returns a copy of the capability list in document order.
func (p *ProofData) Capabilities() []string {
	return slices.Clone(p.capabilities)
}

// VerificationStatus returns the declared status and whether the document declared one.
func (p *ProofData) VerificationStatus() (string, bool) {
	if p.verificationStatus == nil {
		return "", false
	}
	return *p.verificationStatus, true
}

// Equal reports whether p and other carry the same field values.
func (p *ProofData) Equal(other *ProofData) bool {
	if p == nil || other == nil {
		return p == other
	}

	status, hasStatus := p.VerificationStatus()
	otherStatus, otherHasStatus := other.VerificationStatus()

	return p.signature == other.signature &&
		p.agentName == other.agentName &&
		p.agentType == other.agentType &&
		p.timestamp == other.timestamp &&
		p.proofFormat == other.proofFormat &&
		slices.Equal(p.capabilities, other.capabilities) &&
		hasStatus == otherHasStatus && status == otherStatus
}

type proofDataJSON struct {
	Signature          string   `json:"signature"`
	AgentName          string   `json:"agentName"`
	AgentType          string   `json:"agentType"`
	Capabilities       []string `json:"capabilities"`
	Timestamp          string   `json:"timestamp"`
	ProofFormat        Format   `json:"proofFormat"`
	VerificationStatus *string  `json:"verificationStatus,omitempty"`
}

// MarshalJSON emits the canonical record with camelCase keys.
func (p *ProofData) MarshalJSON() ([]byte, error) {
	return json.Marshal(proofDataJSON{
		Signature:          p.signature,
		AgentName:          p.agentName,
		AgentType:          p.agentType,
		Capabilities:       p.Capabilities(),
		Timestamp:          p.timestamp,
		ProofFormat:        p.proofFormat,
		VerificationStatus: p.verificationStatus,
	})
}
