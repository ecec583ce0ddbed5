package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pilacorp/go-agentproof-sdk/common/crypto"
	"github.com/pilacorp/go-agentproof-sdk/common/remote"
	"github.com/pilacorp/go-agentproof-sdk/config"
	"github.com/pilacorp/go-agentproof-sdk/proof"
	"github.com/pilacorp/go-agentproof-sdk/verification"
)

// Recompute modes accepted by --recompute.
const (
	recomputeNone   = "none"
	recomputeDigest = "digest"
	recomputeKey    = "key"
	recomputeRemote = "remote"
)

var rootCmd = &cobra.Command{
	Use:   "proofverify [file]",
	Short: "Parse and verify a proof-of-agent document",
	Long: `Parse a proof-of-agent document in text, JSON or rendered (print/PDF HTML) form,
recompute its signature and print the verification result as JSON.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd.ErrOrStderr())
		return run(cmd, args[0], logger)
	},
}

func run(cmd *cobra.Command, path string, logger *slog.Logger) error {
	ctx := cmd.Context()

	opts := []proof.ProofOpt{proof.WithLogger(logger)}
	if viper.GetBool("schema") {
		opts = append(opts, proof.WithSchemaValidation())
	}

	var (
		p   *proof.ProofData
		err error
	)
	if format := viper.GetString("format"); format != "" {
		f, ferr := proof.ParseFormat(format)
		if ferr != nil {
			return ferr
		}
		raw, rerr := os.ReadFile(path)
		if rerr != nil {
			return fmt.Errorf("failed to read %s: %w", path, rerr)
		}
		p, err = proof.ParseProof(raw, f, opts...)
	} else {
		p, err = proof.ParseProofFile(ctx, path, opts...)
	}
	if err != nil {
		return err
	}

	recomputer, err := newRecomputer(viper.GetString("recompute"))
	if err != nil {
		return err
	}

	out := json.NewEncoder(cmd.OutOrStdout())
	out.SetIndent("", "  ")

	if recomputer == nil {
		return out.Encode(p)
	}

	result, err := verification.NewVerifier(recomputer, verification.WithLogger(logger)).Verify(ctx, p)
	if err != nil {
		return err
	}
	if err := out.Encode(result); err != nil {
		return err
	}
	if !result.IsValid {
		return fmt.Errorf("%s", result.Message)
	}
	return nil
}

func newRecomputer(mode string) (verification.Recomputer, error) {
	switch strings.ToLower(mode) {
	case recomputeNone:
		return nil, nil
	case recomputeDigest:
		alg, err := crypto.ParseAlgorithm(viper.GetString("digest-alg"))
		if err != nil {
			return nil, err
		}
		return crypto.NewDigestRecomputer(alg), nil
	case recomputeKey:
		key := viper.GetString("issuer-key")
		if key == "" {
			return nil, fmt.Errorf("--issuer-key is required for --recompute=key")
		}
		return crypto.NewKeyRecomputer(key)
	case recomputeRemote:
		return remote.NewRecomputer(viper.GetString("endpoint"),
			remote.WithAPIKey(viper.GetString("api-key")),
			remote.WithTimeout(viper.GetDuration("timeout")),
		)
	default:
		return nil, fmt.Errorf("unknown recompute mode %q", mode)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: config.ParseLogLevel(viper.GetString("log-level"))}
	if viper.GetString("log-format") == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().String("format", "", "proof format: text, json or pdf (default: inferred from the file)")
	rootCmd.Flags().String("recompute", recomputeDigest, "signature recomputation: none, digest, key or remote")
	rootCmd.Flags().String("digest-alg", config.DigestAlgorithm(), "digest used by --recompute=digest: sha256 or keccak256")
	rootCmd.Flags().String("issuer-key", config.IssuerKey(), "hex secp256k1 issuer key used by --recompute=key")
	rootCmd.Flags().String("endpoint", config.RecomputeEndpoint(), "remote recompute service URL used by --recompute=remote")
	rootCmd.Flags().String("api-key", config.RecomputeAPIKey(), "API key for the remote recompute service")
	rootCmd.Flags().Duration("timeout", config.RecomputeTimeout(), "remote recompute timeout")
	rootCmd.Flags().Bool("schema", false, "validate JSON proofs against the bundled schema")
	rootCmd.Flags().String("log-level", config.LogLevel().String(), "log level: debug, info, warn or error")
	rootCmd.Flags().String("log-format", "text", "log format: text or json")

	viper.SetEnvPrefix("agentproof")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
