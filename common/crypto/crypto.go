package crypto

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pilacorp/go-agentproof-sdk/proof"
)

// Algorithm names the digest a DigestRecomputer produces.
type Algorithm string

const (
	SHA256    Algorithm = "sha256"
	Keccak256 Algorithm = "keccak256"
)

// ParseAlgorithm accepts "sha256" or "keccak256" in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case SHA256:
		return SHA256, nil
	case Keccak256:
		return Keccak256, nil
	default:
		return "", fmt.Errorf("unsupported digest algorithm %q", s)
	}
}

type signingPayload struct {
	AgentName    string   `json:"agentName"`
	AgentType    string   `json:"agentType"`
	Capabilities []string `json:"capabilities"`
	Timestamp    string   `json:"timestamp"`
}

// CanonicalPayload returns the JCS (RFC 8785) form of the signed proof fields.
// The signature, the format tag and the verification status are not signed.
func CanonicalPayload(p *proof.ProofData) ([]byte, error) {
	if p == nil {
		return nil, errors.New("proof data is nil")
	}

	encoded, err := json.Marshal(signingPayload{
		AgentName:    p.AgentName(),
		AgentType:    p.AgentType(),
		Capabilities: p.Capabilities(),
		Timestamp:    p.Timestamp(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signing payload: %w", err)
	}

	canonical, err := jsoncanonicalizer.Transform(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize signing payload: %w", err)
	}
	return canonical, nil
}

// DigestRecomputer recomputes a signature as the lowercase hex digest of the canonical payload.
type DigestRecomputer struct {
	alg Algorithm
}

func NewDigestRecomputer(alg Algorithm) *DigestRecomputer {
	if alg == "" {
		alg = SHA256
	}
	return &DigestRecomputer{alg: alg}
}

func (r *DigestRecomputer) Recompute(ctx context.Context, p *proof.ProofData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload, err := CanonicalPayload(p)
	if err != nil {
		return "", err
	}

	switch r.alg {
	case SHA256:
		sum := sha256.Sum256(payload)
		return hex.EncodeToString(sum[:]), nil
	case Keccak256:
		return hex.EncodeToString(crypto.Keccak256(payload)), nil
	default:
		return "", fmt.Errorf("unsupported digest algorithm %q", r.alg)
	}
}

// KeyRecomputer re-signs the canonical payload with the issuer's secp256k1 key.
// Signing is deterministic, so a genuine proof reproduces its signature exactly.
type KeyRecomputer struct {
	priv *ecdsa.PrivateKey
}

// NewKeyRecomputer takes the issuer private key as hex, with or without the 0x prefix.
func NewKeyRecomputer(privHex string) (*KeyRecomputer, error) {
	privBytes, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(privHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("private key is not hex: %w", err)
	}

	priv, err := ParsePrivateKey(privBytes)
	if err != nil {
		return nil, err
	}
	return &KeyRecomputer{priv: priv}, nil
}

func (r *KeyRecomputer) Recompute(ctx context.Context, p *proof.ProofData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload, err := CanonicalPayload(p)
	if err != nil {
		return "", err
	}
	return SignMessage(r.priv, payload)
}

// PublicKeyHex returns the compressed public key of the recomputer's key.
func (r *KeyRecomputer) PublicKeyHex() string {
	return hex.EncodeToString(crypto.CompressPubkey(&r.priv.PublicKey))
}

// SignMessage signs sha256(message) with secp256k1 and returns the 65 byte signature as hex.
func SignMessage(priv *ecdsa.PrivateKey, message []byte) (string, error) {
	hash := sha256.Sum256(message)

	signature, err := crypto.Sign(hash[:], priv)
	if err != nil {
		return "", fmt.Errorf("failed to sign payload: %w", err)
	}

	return hex.EncodeToString(signature), nil
}

// ParsePrivateKey parses a 32 byte secp256k1 private key.
func ParsePrivateKey(privateKeyBytes []byte) (*ecdsa.PrivateKey, error) {
	if len(privateKeyBytes) != 32 {
		return nil, errors.New("private key must be 32 bytes")
	}

	return crypto.ToECDSA(privateKeyBytes)
}

// VerifyRecovered checks the proof's own signature against a compressed
// secp256k1 public key by recovering the signer from the signature.
func VerifyRecovered(publicKeyHex string, p *proof.ProofData) (bool, error) {
	publicKey, err := hex.DecodeString(strings.TrimPrefix(publicKeyHex, "0x"))
	if err != nil {
		return false, fmt.Errorf("public key is not hex: %w", err)
	}

	signature, err := hex.DecodeString(p.Signature())
	if err != nil {
		return false, nil
	}

	payload, err := CanonicalPayload(p)
	if err != nil {
		return false, err
	}

	return VerifySignature(publicKey, payload, signature), nil
}

// VerifySignature verifies a 65 byte recoverable secp256k1 signature over
// sha256(message) against a 33 byte compressed public key.
func VerifySignature(publicKey, message, signature []byte) bool {
	if len(signature) != 65 || len(publicKey) != 33 || len(message) == 0 {
		return false
	}

	hash := sha256.Sum256(message)

	recovered, err := crypto.SigToPub(hash[:], signature)
	if err != nil {
		return false
	}

	return bytes.Equal(crypto.CompressPubkey(recovered), publicKey)
}
