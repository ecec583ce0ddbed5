package proof

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// ProofOpt configures proof parsing.
type ProofOpt func(*proofOptions)

type proofOptions struct {
	logger           *slog.Logger
	isValidateSchema bool
	concurrency      int
}

// WithLogger sets the logger used for debug records about parsing.
func WithLogger(logger *slog.Logger) ProofOpt {
	return func(o *proofOptions) {
		o.logger = logger
	}
}

// WithSchemaValidation validates JSON proofs against the bundled JSON Schema
// before any field is read. A schema violation is reported as a malformed document.
func WithSchemaValidation() ProofOpt {
	return func(o *proofOptions) {
		o.isValidateSchema = true
	}
}

// WithConcurrency bounds the number of documents ParseBatch parses at once.
func WithConcurrency(n int) ProofOpt {
	return func(o *proofOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func getOptions(opts ...ProofOpt) *proofOptions {
	options := &proofOptions{
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.logger == nil {
		options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return options
}

// extractor turns raw document content into a ProofData.
type extractor func(raw string, options *proofOptions) (*ProofData, error)

var extractors = map[Format]extractor{
	FormatText: extractTextProof,
	FormatJSON: extractJSONProof,
	FormatPDF:  extractRenderedProof,
}

// ParseProof decodes raw into a ProofData using the extractor for format.
// An empty format is inferred with DetectFormat. Every failure is a *ParseError.
func ParseProof(raw []byte, format Format, opts ...ProofOpt) (*ProofData, error) {
	options := getOptions(opts...)

	if format == "" {
		detected, err := DetectFormat(raw)
		if err != nil {
			return nil, newParseError(format, err)
		}
		format = detected
	}

	return parse(raw, format, options)
}

func parse(raw []byte, format Format, options *proofOptions) (*ProofData, error) {
	extract, ok := extractors[format]
	if !ok {
		return nil, newParseError(format, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format))
	}

	p, err := extract(string(raw), options)
	if err != nil {
		options.logger.Debug("proof parse failed", "format", format, "error", err)
		return nil, newParseError(format, err)
	}

	options.logger.Debug("proof parsed",
		"format", format,
		"agent_name", p.AgentName(),
		"capabilities", len(p.capabilities),
	)

	return p, nil
}

// ParseTextProof decodes a plain-text report.
func ParseTextProof(raw string, opts ...ProofOpt) (*ProofData, error) {
	return parse([]byte(raw), FormatText, getOptions(opts...))
}

// ParseJSONProof decodes a JSON proof document.
func ParseJSONProof(raw []byte, opts ...ProofOpt) (*ProofData, error) {
	return parse(raw, FormatJSON, getOptions(opts...))
}

// ParseRenderedProof decodes the HTML text of a document rendered for print/PDF export.
func ParseRenderedProof(html string, opts ...ProofOpt) (*ProofData, error) {
	return parse([]byte(html), FormatPDF, getOptions(opts...))
}

// DetectFormat infers the encoding of raw.
func DetectFormat(raw []byte) (Format, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("%w: document is empty", ErrUnsupportedFormat)
	}

	if trimmed[0] == '{' && json.Valid(trimmed) {
		return FormatJSON, nil
	}

	lower := strings.ToLower(string(trimmed))
	if strings.Contains(lower, "<html") || strings.Contains(lower, `<div class="signature"`) {
		return FormatPDF, nil
	}

	for _, line := range strings.Split(string(trimmed), "\n") {
		if strings.TrimSpace(line) == markerSignature {
			return FormatText, nil
		}
	}

	return "", fmt.Errorf("%w: could not infer format", ErrUnsupportedFormat)
}

// FormatFromFilename infers the encoding from a file extension.
func FormatFromFilename(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return FormatText, true
	case ".json":
		return FormatJSON, true
	case ".html", ".htm", ".pdf":
		return FormatPDF, true
	}
	return "", false
}
