package proof

import "strings"

const textProofFixture = `AGENT PROOF REPORT
==================

Agent Name: Compliance Sentinel
Agent Type: compliance-agent
Verification Status: Verified

CAPABILITIES
------------
1. Real-time Monitoring
2. Policy Enforcement

DOCUMENT METADATA
-----------------
Generated On: 2024-03-01T00:00:00Z

DIGITAL SIGNATURE
-----------------
abc123
`

const jsonProofFixture = `{
  "agent": {"name": "Compliance Sentinel", "typeCode": "compliance-agent"},
  "metadata": {"generatedAt": "2024-03-01T00:00:00Z"},
  "signature": "abc123",
  "capabilities": ["Real-time Monitoring", "Policy Enforcement"],
  "verification": {"status": "Verified"}
}`

const renderedProofFixture = `<!DOCTYPE html>
<html>
<head><title>Proof of Agent</title></head>
<body>
  <div class="header"><h1>Proof of Agent</h1></div>
  <div class="info-grid">
    <div class="info-row"><span class="info-label">Agent Name:</span> <span class="info-value">Compliance Sentinel</span></div>
    <div class="info-row"><span class="info-label">Agent Type:</span> <span class="info-value">compliance-agent</span></div>
    <div class="info-row"><span class="info-label">Verification Status:</span> <span class="info-value">Verified</span></div>
  </div>
  <div class="section">
    <h2>Capabilities</h2>
    <ol class="capability-list">
      <li>1. Real-time Monitoring</li>
      <li>2. Policy Enforcement</li>
    </ol>
  </div>
  <div class="info-row"><span class="info-label">Generated On:</span> <span class="info-value">2024-03-01T00:00:00Z</span></div>
  <div class="section">
    <h2>Digital Signature</h2>
    <div class="signature">abc123</div>
  </div>
</body>
</html>
`

// withoutLine drops every line of doc that contains substr.
func withoutLine(doc, substr string) string {
	lines := strings.Split(doc, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.Contains(line, substr) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
