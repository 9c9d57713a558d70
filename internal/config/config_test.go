package config

import (
	"bytes"
	"encoding/base64"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TRANSFER_API_URL", "HTTP_TIMEOUT_SECONDS", "SESSION_FILE",
		"SESSION_HASH_KEY", "SESSION_BLOCK_KEY", "DATABASE_URL",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("SESSION_FILE", "/tmp/transferctl-test-session")
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:5028" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.SessionHashKey != nil || cfg.SessionBlockKey != nil {
		t.Errorf("keys should be absent without env")
	}
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSFER_API_URL", "https://api.example.com/")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "30")
	t.Setenv("DATABASE_URL", "postgres://office/ledger")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com/" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.DatabaseURL != "postgres://office/ledger" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestInvalidTimeout(t *testing.T) {
	clearEnv(t)
	for _, v := range []string{"nope", "0", "-5"} {
		t.Setenv("HTTP_TIMEOUT_SECONDS", v)
		if _, err := FromEnv(); err == nil {
			t.Errorf("HTTP_TIMEOUT_SECONDS=%q accepted", v)
		}
	}
}

func TestSessionKeys(t *testing.T) {
	clearEnv(t)
	hash := bytes.Repeat([]byte{0xAA}, 32)
	block := bytes.Repeat([]byte{0xBB}, 32)
	t.Setenv("SESSION_HASH_KEY", base64.StdEncoding.EncodeToString(hash))
	t.Setenv("SESSION_BLOCK_KEY", base64.StdEncoding.EncodeToString(block))

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if !bytes.Equal(cfg.SessionHashKey, hash) || !bytes.Equal(cfg.SessionBlockKey, block) {
		t.Fatalf("decoded keys do not match")
	}
}

func TestSessionKeysMustPair(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_HASH_KEY", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32)))

	if _, err := FromEnv(); err == nil {
		t.Fatalf("hash key without block key accepted")
	}
}

func TestSessionBlockKeyLength(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_HASH_KEY", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32)))
	t.Setenv("SESSION_BLOCK_KEY", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{2}, 20)))

	if _, err := FromEnv(); err == nil {
		t.Fatalf("20-byte block key accepted")
	}
}
