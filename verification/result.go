package verification

import (
	"encoding/json"
	"time"

	"github.com/pilacorp/go-agentproof-sdk/proof"
)

const (
	MessageValid   = "Proof signature verified: signatures match"
	MessageInvalid = "Proof signature mismatch: recomputed signature does not match the original"
)

// Result is the verdict for one proof.
type Result struct {
	IsValid             bool
	OriginalSignature   string
	RecomputedSignature string
	ProofData           *proof.ProofData
	VerifiedAt          time.Time
	Message             string
}

// Build compares the two signatures and assembles a Result. IsValid is true
// only when recomputed equals original byte for byte.
func Build(p *proof.ProofData, originalSignature, recomputedSignature string, verifiedAt time.Time) *Result {
	isValid := recomputedSignature == originalSignature

	message := MessageInvalid
	if isValid {
		message = MessageValid
	}

	return &Result{
		IsValid:             isValid,
		OriginalSignature:   originalSignature,
		RecomputedSignature: recomputedSignature,
		ProofData:           p,
		VerifiedAt:          verifiedAt,
		Message:             message,
	}
}

type resultJSON struct {
	IsValid             bool             `json:"isValid"`
	OriginalSignature   string           `json:"originalSignature"`
	RecomputedSignature string           `json:"recomputedSignature"`
	ProofData           *proof.ProofData `json:"proofData"`
	VerifiedAt          string           `json:"verifiedAt"`
	Message             string           `json:"message"`
}

func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		IsValid:             r.IsValid,
		OriginalSignature:   r.OriginalSignature,
		RecomputedSignature: r.RecomputedSignature,
		ProofData:           r.ProofData,
		VerifiedAt:          r.VerifiedAt.UTC().Format(time.RFC3339),
		Message:             r.Message,
	})
}
