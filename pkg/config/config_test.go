package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Backend.BaseURL != "https://api.example.uz/v1" {
		t.Fatalf("unexpected base url: %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeout != 15*time.Second {
		t.Fatalf("expected default 15s timeout, got %v", cfg.Backend.RequestTimeout)
	}
	if cfg.Sale.DefaultInstallmentMonths != 6 {
		t.Fatalf("expected default 6 installment months, got %d", cfg.Sale.DefaultInstallmentMonths)
	}
}

func TestLoad_TrimsTrailingSlash(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvBackendBaseURL, "https://api.example.uz/v1/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Backend.BaseURL != "https://api.example.uz/v1" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.Backend.BaseURL)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvBackendBaseURL); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvBackendBaseURL, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RelativeBaseURLRejected(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvBackendBaseURL, "api.example.uz")

	if _, err := Load(); err == nil {
		t.Fatal("expected relative base url to be rejected")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvBackendBaseURL, "https://api.example.uz/v1")
	t.Setenv(EnvBearerToken, "aaa.bbb.ccc")
}
