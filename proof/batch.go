package proof

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Document is one raw proof submitted to ParseBatch.
type Document struct {
	Name   string
	Raw    []byte
	Format Format
}

// BatchResult is the outcome for the Document at the same index.
type BatchResult struct {
	Name  string
	Proof *ProofData
	Err   error
}

// ParseBatch parses independent documents concurrently. Results keep the
// input order and a failed document does not stop the others.
func ParseBatch(ctx context.Context, docs []Document, opts ...ProofOpt) []BatchResult {
	options := getOptions(opts...)
	results := make([]BatchResult, len(docs))

	var g errgroup.Group
	g.SetLimit(options.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			results[i] = parseOne(ctx, doc, options)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func parseOne(ctx context.Context, doc Document, options *proofOptions) BatchResult {
	res := BatchResult{Name: doc.Name}

	if err := ctx.Err(); err != nil {
		res.Err = newParseError(doc.Format, err)
		return res
	}

	format := doc.Format
	if format == "" {
		detected, err := DetectFormat(doc.Raw)
		if err != nil {
			res.Err = newParseError(format, err)
			options.logger.Warn("proof format could not be inferred", "name", doc.Name, "error", err)
			return res
		}
		format = detected
	}

	res.Proof, res.Err = parse(doc.Raw, format, options)
	if res.Err != nil {
		options.logger.Warn("proof in batch failed to parse", "name", doc.Name, "format", format, "error", res.Err)
	}
	return res
}

// ParseFiles reads and parses the proof files at paths concurrently, the same
// way ParseProofFile handles a single file. Results keep the order of paths.
func ParseFiles(ctx context.Context, paths []string, opts ...ProofOpt) []BatchResult {
	options := getOptions(opts...)
	results := make([]BatchResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(options.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			p, err := ParseProofFile(gctx, path, opts...)
			if err != nil {
				options.logger.Warn("proof file failed to parse", "path", path, "error", err)
			}
			results[i] = BatchResult{Name: path, Proof: p, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
