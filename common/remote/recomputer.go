package remote

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pilacorp/go-agentproof-sdk/common/crypto"
	"github.com/pilacorp/go-agentproof-sdk/proof"
)

// Recomputer asks a remote signing service to recompute a proof signature.
//
// Request:  POST {"payload_hex": "<hex of the canonical payload>", "proof_format": "text"}
// Response: 200 {"signature": "<signature>"}
type Recomputer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// RemoteOpt configures a Recomputer.
type RemoteOpt func(*Recomputer)

// WithAPIKey sends key in the x-api-key header.
func WithAPIKey(key string) RemoteOpt {
	return func(r *Recomputer) {
		r.apiKey = key
	}
}

// WithTimeout sets the HTTP client timeout (default 10s).
func WithTimeout(d time.Duration) RemoteOpt {
	return func(r *Recomputer) {
		if d > 0 {
			r.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(c *http.Client) RemoteOpt {
	return func(r *Recomputer) {
		if c != nil {
			r.client = c
		}
	}
}

// NewRecomputer creates a Recomputer for endpoint.
func NewRecomputer(endpoint string, opts ...RemoteOpt) (*Recomputer, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("endpoint required")
	}

	r := &Recomputer{
		endpoint: endpoint,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

type recomputeRequest struct {
	PayloadHex  string       `json:"payload_hex"`
	ProofFormat proof.Format `json:"proof_format"`
}

type recomputeResponse struct {
	Signature string `json:"signature"`
}

// Recompute sends the canonical payload of p and returns the signature the service computed.
func (r *Recomputer) Recompute(ctx context.Context, p *proof.ProofData) (string, error) {
	payload, err := crypto.CanonicalPayload(p)
	if err != nil {
		return "", err
	}

	reqBody, err := json.Marshal(recomputeRequest{
		PayloadHex:  hex.EncodeToString(payload),
		ProofFormat: p.ProofFormat(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal recompute request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("x-api-key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("remote recomputer http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out recomputeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode recompute response: %w", err)
	}
	if out.Signature == "" {
		return "", fmt.Errorf("remote recomputer returned an empty signature")
	}

	return out.Signature, nil
}
