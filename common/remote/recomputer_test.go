package remote

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-agentproof-sdk/common/crypto"
	"github.com/pilacorp/go-agentproof-sdk/proof"
	"github.com/pilacorp/go-agentproof-sdk/verification"
)

func newProof(t *testing.T) *proof.ProofData {
	t.Helper()
	p, err := proof.NewProofData(proof.FormatText, proof.Fields{
		Signature:    "abc123",
		AgentName:    "Compliance Sentinel",
		AgentType:    "compliance-agent",
		Capabilities: []string{"Policy Enforcement"},
		Timestamp:    "2024-03-01T00:00:00Z",
	})
	require.NoError(t, err)
	return p
}

func TestNewRecomputer_RequiresEndpoint(t *testing.T) {
	_, err := NewRecomputer("  ")
	assert.ErrorContains(t, err, "endpoint required")
}

func TestRecomputer_Recompute(t *testing.T) {
	p := newProof(t)
	payload, err := crypto.CanonicalPayload(p)
	require.NoError(t, err)

	var gotReq recomputeRequest
	var gotKey, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotKey = r.Header.Get("x-api-key")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]string{"signature": "abc123"})
	}))
	defer server.Close()

	r, err := NewRecomputer(server.URL, WithAPIKey("secret"), WithTimeout(2*time.Second))
	require.NoError(t, err)

	signature, err := r.Recompute(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "abc123", signature)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, hex.EncodeToString(payload), gotReq.PayloadHex)
	assert.Equal(t, proof.FormatText, gotReq.ProofFormat)

	result, err := verification.NewVerifier(r).Verify(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestRecomputer_NoAPIKey(t *testing.T) {
	var hasKey bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasKey = r.Header["X-Api-Key"]
		_, _ = w.Write([]byte(`{"signature":"ff"}`))
	}))
	defer server.Close()

	r, err := NewRecomputer(server.URL, WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = r.Recompute(context.Background(), newProof(t))
	require.NoError(t, err)
	assert.False(t, hasKey)
}

func TestRecomputer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "http error", status: http.StatusUnauthorized, body: "invalid api key\n", wantErr: "remote recomputer http 401: invalid api key"},
		{name: "empty signature", status: http.StatusOK, body: `{"signature":""}`, wantErr: "empty signature"},
		{name: "bad body", status: http.StatusOK, body: `not json`, wantErr: "failed to decode recompute response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			r, err := NewRecomputer(server.URL)
			require.NoError(t, err)

			_, err = r.Recompute(context.Background(), newProof(t))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRecomputer_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"signature":"ff"}`))
	}))
	defer server.Close()

	r, err := NewRecomputer(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Recompute(ctx, newProof(t))
	assert.ErrorIs(t, err, context.Canceled)
}
