package proof

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ReadRenderedProof reads the rendered document text from r and parses it.
// Reading is the only step that may block; ctx cancels the wait for it.
// When ctx is done first and r is an io.Closer, r is closed so the pending
// read returns. Other readers are left to finish on their own.
func ReadRenderedProof(ctx context.Context, r io.Reader, opts ...ProofOpt) (*ProofData, error) {
	raw, err := readAll(ctx, r)
	if err != nil {
		return nil, newParseError(FormatPDF, fmt.Errorf("failed to read rendered document: %w", err))
	}

	return parse(raw, FormatPDF, getOptions(opts...))
}

// ParseProofFile reads the proof at path and parses it. The format comes from
// the file extension, or from the content when the extension is not recognized.
func ParseProofFile(ctx context.Context, path string, opts ...ProofOpt) (*ProofData, error) {
	format, ok := FormatFromFilename(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, newParseError(format, fmt.Errorf("failed to open proof file: %w", err))
	}
	defer file.Close()

	if ok && format == FormatPDF {
		return ReadRenderedProof(ctx, file, opts...)
	}

	raw, err := readAll(ctx, file)
	if err != nil {
		return nil, newParseError(format, fmt.Errorf("failed to read proof file: %w", err))
	}

	if !ok {
		format = ""
	}
	return ParseProof(raw, format, opts...)
}

type readResult struct {
	data []byte
	err  error
}

func readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(r)
		done <- readResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		if c, ok := r.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, ctx.Err()
	case res := <-done:
		return res.data, res.err
	}
}
