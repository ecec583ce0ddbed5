package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Default values
const (
	DefaultDigestAlgorithm  = "sha256"
	DefaultRecomputeTimeout = 10 * time.Second
	DefaultLogLevel         = "info"
)

// Environment variable names
const (
	EnvRecomputeEndpoint = "AGENTPROOF_RECOMPUTE_ENDPOINT"
	EnvRecomputeAPIKey   = "AGENTPROOF_RECOMPUTE_API_KEY"
	EnvRecomputeTimeout  = "AGENTPROOF_RECOMPUTE_TIMEOUT"
	EnvDigestAlgorithm   = "AGENTPROOF_DIGEST_ALGORITHM"
	EnvIssuerKey         = "AGENTPROOF_ISSUER_KEY"
	EnvLogLevel          = "AGENTPROOF_LOG_LEVEL"
)

// RecomputeEndpoint returns the remote recompute service URL, empty when unset.
func RecomputeEndpoint() string {
	return os.Getenv(EnvRecomputeEndpoint)
}

// RecomputeAPIKey returns the API key for the remote recompute service.
func RecomputeAPIKey() string {
	return os.Getenv(EnvRecomputeAPIKey)
}

// RecomputeTimeout returns the remote recompute timeout from environment variable or default value
func RecomputeTimeout() time.Duration {
	if v := os.Getenv(EnvRecomputeTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return DefaultRecomputeTimeout
}

// DigestAlgorithm returns the digest algorithm from environment variable or default value
func DigestAlgorithm() string {
	if v := os.Getenv(EnvDigestAlgorithm); v != "" {
		return v
	}
	return DefaultDigestAlgorithm
}

// IssuerKey returns the issuer private key used for key based recomputation, empty when unset.
func IssuerKey() string {
	return os.Getenv(EnvIssuerKey)
}

// LogLevel returns the log level from environment variable or default value
func LogLevel() slog.Level {
	if v := os.Getenv(EnvLogLevel); v != "" {
		return ParseLogLevel(v)
	}
	return ParseLogLevel(DefaultLogLevel)
}

// ParseLogLevel maps debug, info, warn and error to a slog.Level; anything else is info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
