// Package verification turns a parsed proof and two signatures into a verdict.
//
// The signature recomputation itself is supplied by the caller through the
// Recomputer interface, so this package never depends on a particular
// cryptographic scheme:
//
//	p, err := proof.ParseProof(raw, proof.FormatText)
//	if err != nil {
//	    return err
//	}
//	v := verification.NewVerifier(crypto.NewDigestRecomputer(crypto.SHA256))
//	result, err := v.Verify(ctx, p)
//
// Signatures are opaque tokens: they are compared with exact, case-sensitive
// string equality and never trimmed or normalized.
package verification
