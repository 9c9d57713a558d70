package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration

	SessionFile     string
	SessionHashKey  []byte
	SessionBlockKey []byte

	// optional office audit ledger; empty disables the history commands
	DatabaseURL string
}

// FromEnv reads the client configuration. Session sealing needs either
// SESSION_HASH_KEY + SESSION_BLOCK_KEY (base64) or TRANSFER_PASSPHRASE to
// derive them from; deriving is left to the caller so this package stays
// free of crypto.
func FromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL:  envDefault("TRANSFER_API_URL", "http://localhost:5028"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
	}

	timeoutSec, err := strconv.Atoi(envDefault("HTTP_TIMEOUT_SECONDS", "10"))
	if err != nil || timeoutSec < 1 {
		return Config{}, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS")
	}
	cfg.HTTPTimeout = time.Duration(timeoutSec) * time.Second

	cfg.SessionFile = strings.TrimSpace(os.Getenv("SESSION_FILE"))
	if cfg.SessionFile == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return Config{}, fmt.Errorf("SESSION_FILE not set and no home directory: %w", herr)
		}
		cfg.SessionFile = filepath.Join(home, ".transferctl", "session")
	}

	hashKey := strings.TrimSpace(os.Getenv("SESSION_HASH_KEY"))
	blockKey := strings.TrimSpace(os.Getenv("SESSION_BLOCK_KEY"))
	if (hashKey == "") != (blockKey == "") {
		return Config{}, fmt.Errorf("SESSION_HASH_KEY and SESSION_BLOCK_KEY must be set together")
	}
	if hashKey != "" {
		if cfg.SessionHashKey, err = decodeB64(hashKey); err != nil {
			return Config{}, fmt.Errorf("SESSION_HASH_KEY: %w", err)
		}
		if cfg.SessionBlockKey, err = decodeB64(blockKey); err != nil {
			return Config{}, fmt.Errorf("SESSION_BLOCK_KEY: %w", err)
		}
		switch len(cfg.SessionBlockKey) {
		case 16, 24, 32:
		default:
			return Config{}, fmt.Errorf("SESSION_BLOCK_KEY must decode to 16, 24 or 32 bytes (got %d)", len(cfg.SessionBlockKey))
		}
	}

	return cfg, nil
}

// Passphrase returns TRANSFER_PASSPHRASE for key derivation when explicit
// keys are absent.
func Passphrase() string {
	return strings.TrimSpace(os.Getenv("TRANSFER_PASSPHRASE"))
}

func envDefault(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func decodeB64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
