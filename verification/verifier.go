package verification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pilacorp/go-agentproof-sdk/proof"
)

var (
	ErrNilProof     = errors.New("proof data is nil")
	ErrNoRecomputer = errors.New("no signature recomputer configured")
)

// Recomputer independently derives the signature a proof should carry.
type Recomputer interface {
	Recompute(ctx context.Context, p *proof.ProofData) (string, error)
}

// RecomputerFunc adapts a plain function to Recomputer.
type RecomputerFunc func(ctx context.Context, p *proof.ProofData) (string, error)

func (f RecomputerFunc) Recompute(ctx context.Context, p *proof.ProofData) (string, error) {
	return f(ctx, p)
}

// VerifierOpt configures a Verifier.
type VerifierOpt func(*Verifier)

// WithLogger sets the logger for verification records.
func WithLogger(logger *slog.Logger) VerifierOpt {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithClock replaces time.Now as the source of VerifiedAt.
func WithClock(now func() time.Time) VerifierOpt {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// Verifier recomputes a proof's signature and compares it with the one the document carries.
type Verifier struct {
	recomputer Recomputer
	logger     *slog.Logger
	now        func() time.Time
}

func NewVerifier(recomputer Recomputer, opts ...VerifierOpt) *Verifier {
	v := &Verifier{
		recomputer: recomputer,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify runs the recomputer on p and builds the Result. A signature mismatch
// is a Result with IsValid false, not an error.
func (v *Verifier) Verify(ctx context.Context, p *proof.ProofData) (*Result, error) {
	if p == nil {
		return nil, ErrNilProof
	}
	if v.recomputer == nil {
		return nil, ErrNoRecomputer
	}

	recomputed, err := v.recomputer.Recompute(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute signature: %w", err)
	}

	result := Build(p, p.Signature(), recomputed, v.now())

	if result.IsValid {
		v.logger.Debug("proof verified", "agent_name", p.AgentName(), "format", p.ProofFormat())
	} else {
		v.logger.Warn("proof signature mismatch",
			"agent_name", p.AgentName(),
			"format", p.ProofFormat(),
		)
	}

	return result, nil
}

// VerifyRaw parses raw in the given format and verifies the resulting proof.
func (v *Verifier) VerifyRaw(ctx context.Context, raw []byte, format proof.Format, opts ...proof.ProofOpt) (*Result, error) {
	p, err := proof.ParseProof(raw, format, opts...)
	if err != nil {
		return nil, err
	}
	return v.Verify(ctx, p)
}
