package proof

import (
	"html"
	"regexp"
	"strings"
)

var (
	// renderedSignature matches the lowercase hex run inside the signature block.
	renderedSignature = regexp.MustCompile(`<div class="signature">\s*([0-9a-f]+)\s*</div>`)

	renderedCapabilityHeading = regexp.MustCompile(`(?is)>\s*Capabilities\s*</[a-z0-9]+>`)

	// renderedSectionEnd marks where the Capabilities section stops: the next heading or section close.
	renderedSectionEnd = regexp.MustCompile(`(?i)<h[1-6][\s>]|</section>`)

	renderedList = regexp.MustCompile(`(?is)<[ou]l[^>]*>(.*?)</[ou]l>`)

	renderedListItem = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)

	anyTag = regexp.MustCompile(`<[^>]*>`)

	// renderedNumberPrefix matches the "<digits>." prefix of a list item, including a bare "3.".
	renderedNumberPrefix = regexp.MustCompile(`^\d+\.(?:\s+|$)`)
)

// infoPattern matches an info-label span for label immediately followed by its info-value span.
func infoPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`<span class="info-label">\s*` + regexp.QuoteMeta(label) +
		`\s*</span>\s*<span class="info-value">([^<]*)</span>`)
}

var (
	renderedAgentName          = infoPattern(labelAgentName)
	renderedAgentType          = infoPattern(labelAgentType)
	renderedGeneratedOn        = infoPattern(labelGeneratedOn)
	renderedVerificationStatus = infoPattern(labelVerificationStatus)
)

// extractRenderedProof reads the HTML rendered for print/PDF export.
// Each field is recovered by its own pattern against the whole document.
func extractRenderedProof(raw string, options *proofOptions) (*ProofData, error) {
	var f Fields
	var err error

	if f.Signature, err = renderedSignatureValue(raw); err != nil {
		return nil, err
	}
	if f.AgentName, err = requireInfo(raw, renderedAgentName, FieldAgentName); err != nil {
		return nil, err
	}
	if f.AgentType, err = requireInfo(raw, renderedAgentType, FieldAgentType); err != nil {
		return nil, err
	}
	if status, ok := findInfo(raw, renderedVerificationStatus); ok {
		f.VerificationStatus = &status
	}

	f.Capabilities = renderedCapabilities(raw, options)

	if f.Timestamp, err = requireInfo(raw, renderedGeneratedOn, FieldTimestamp); err != nil {
		return nil, err
	}

	return NewProofData(FormatPDF, f)
}

func renderedSignatureValue(raw string) (string, error) {
	m := renderedSignature.FindStringSubmatch(raw)
	if m == nil {
		return "", missingField(FieldSignature)
	}
	return m[1], nil
}

func findInfo(raw string, re *regexp.Regexp) (string, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(html.UnescapeString(m[1])), true
}

func requireInfo(raw string, re *regexp.Regexp, field string) (string, error) {
	value, ok := findInfo(raw, re)
	if !ok || value == "" {
		return "", missingField(field)
	}
	return value, nil
}

// renderedCapabilities strips the numbered prefix from each list item under
// the Capabilities heading. A missing section yields an empty list.
func renderedCapabilities(raw string, options *proofOptions) []string {
	capabilities := []string{}

	items, ok := renderedCapabilityItems(raw)
	if !ok {
		options.logger.Debug("capability list not found")
		return capabilities
	}

	for _, m := range renderedListItem.FindAllStringSubmatch(items, -1) {
		text := strings.TrimSpace(html.UnescapeString(anyTag.ReplaceAllString(m[1], "")))
		text = strings.TrimSpace(renderedNumberPrefix.ReplaceAllString(text, ""))
		if isBlankOrSentinel(text) {
			continue
		}
		capabilities = append(capabilities, text)
	}

	return capabilities
}

// renderedCapabilityItems returns the inner HTML of the list inside the
// Capabilities section. A list belonging to a later section is not considered.
func renderedCapabilityItems(raw string) (string, bool) {
	loc := renderedCapabilityHeading.FindStringIndex(raw)
	if loc == nil {
		return "", false
	}

	section := raw[loc[1]:]
	if end := renderedSectionEnd.FindStringIndex(section); end != nil {
		section = section[:end[0]]
	}

	m := renderedList.FindStringSubmatch(section)
	if m == nil {
		return "", false
	}
	return m[1], true
}
