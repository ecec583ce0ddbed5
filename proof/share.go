package proof

import (
	"fmt"
	"strings"

	"github.com/pilacorp/go-agentproof-sdk/common/util"
)

// EncodeShareToken packs a proof document into a URL safe token (gzip + base64url).
func EncodeShareToken(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", ErrEmptyDocument
	}

	token, err := util.CompressToBase64URL(raw)
	if err != nil {
		return "", fmt.Errorf("failed to encode share token: %w", err)
	}
	return token, nil
}

// ParseShareToken unpacks a token made by EncodeShareToken and parses the
// document inside it. An empty format is inferred from the content.
func ParseShareToken(token string, format Format, opts ...ProofOpt) (*ProofData, error) {
	raw, err := util.DecompressFromBase64URL(strings.TrimSpace(token))
	if err != nil {
		return nil, newParseError(format, fmt.Errorf("%w: invalid share token: %v", ErrMalformedDocument, err))
	}

	return ParseProof(raw, format, opts...)
}
