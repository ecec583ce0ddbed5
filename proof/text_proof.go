package proof

import (
	"regexp"
	"strings"
)

// Labels and section markers of the plain-text report.
const (
	labelAgentName          = "Agent Name:"
	labelAgentType          = "Agent Type:"
	labelGeneratedOn        = "Generated On:"
	labelVerificationStatus = "Verification Status:"

	markerCapabilities = "CAPABILITIES"
	markerMetadata     = "DOCUMENT METADATA"
	markerSignature    = "DIGITAL SIGNATURE"
)

// numberedItem matches "<digits>.<whitespace><text>".
var numberedItem = regexp.MustCompile(`^\d+\.\s+(.*)$`)

// extractTextProof reads the fixed-layout plain-text report.
func extractTextProof(raw string, options *proofOptions) (*ProofData, error) {
	lines := splitLines(raw)

	var f Fields
	var err error

	if f.AgentName, err = requireLabel(lines, labelAgentName, FieldAgentName); err != nil {
		return nil, err
	}
	if f.AgentType, err = requireLabel(lines, labelAgentType, FieldAgentType); err != nil {
		return nil, err
	}
	if f.Timestamp, err = requireLabel(lines, labelGeneratedOn, FieldTimestamp); err != nil {
		return nil, err
	}
	if status, ok := findLabel(lines, labelVerificationStatus); ok {
		f.VerificationStatus = &status
	}

	f.Capabilities = textCapabilities(lines, options)

	if f.Signature, err = textSignature(lines); err != nil {
		return nil, err
	}

	return NewProofData(FormatText, f)
}

// splitLines splits raw into lines with surrounding whitespace removed.
func splitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// findLabel returns the trimmed remainder of the first line starting with label.
func findLabel(lines []string, label string) (string, bool) {
	for _, line := range lines {
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(strings.TrimPrefix(line, label)), true
		}
	}
	return "", false
}

func requireLabel(lines []string, label, field string) (string, error) {
	value, ok := findLabel(lines, label)
	if !ok || value == "" {
		return "", missingField(field)
	}
	return value, nil
}

func indexOfLine(lines []string, marker string) int {
	for i, line := range lines {
		if line == marker {
			return i
		}
	}
	return -1
}

// textCapabilities collects the numbered items between the CAPABILITIES and
// DOCUMENT METADATA markers. The line right after CAPABILITIES is a header.
// Missing or reversed markers yield an empty list rather than an error.
func textCapabilities(lines []string, options *proofOptions) []string {
	capabilities := []string{}

	start := indexOfLine(lines, markerCapabilities)
	end := indexOfLine(lines, markerMetadata)
	if start < 0 || end < 0 {
		options.logger.Debug("capability section not found", "start", start, "end", end)
		return capabilities
	}

	for i := start + 2; i < end; i++ {
		item, ok := stripNumbered(lines[i])
		if !ok {
			if lines[i] != "" {
				options.logger.Debug("skipping capability line", "line", i+1)
			}
			continue
		}
		if isBlankOrSentinel(item) {
			continue
		}
		capabilities = append(capabilities, item)
	}

	return capabilities
}

// stripNumbered removes the "<digits>. " prefix and reports whether the line had one.
func stripNumbered(line string) (string, bool) {
	m := numberedItem.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// textSignature reads the value two lines below the DIGITAL SIGNATURE marker.
func textSignature(lines []string) (string, error) {
	idx := indexOfLine(lines, markerSignature)
	if idx < 0 || idx+2 >= len(lines) {
		return "", missingField(FieldSignature)
	}

	signature := lines[idx+2]
	if signature == "" {
		return "", missingField(FieldSignature)
	}

	return signature, nil
}
