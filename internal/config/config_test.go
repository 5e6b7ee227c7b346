package config

import (
	"strings"
	"testing"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REDSYS_SECRET_KEY", "sq7HjrUOBfKmC576ILgskD5srU870gJ7")
	t.Setenv("REDSYS_MERCHANT_CODE", "367529286")
	t.Setenv("REDSYS_TERMINAL", "1")
	t.Setenv("DB_DSN", "")
}

func TestLoad(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr default got %s", cfg.Addr)
	}
	if cfg.MaxAmountCents != 500_000 {
		t.Fatalf("max amount default got %d", cfg.MaxAmountCents)
	}
	if cfg.AllowInsecureCallbackURLs {
		t.Fatal("insecure callbacks must default to off")
	}
	if !strings.HasPrefix(cfg.GatewayURL, "https://") {
		t.Fatalf("gateway url default got %s", cfg.GatewayURL)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	setValidEnv(t)
	t.Setenv("REDSYS_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error without secret key")
	}
}

func TestLoad_BadSecretLength(t *testing.T) {
	setValidEnv(t)
	t.Setenv("REDSYS_SECRET_KEY", "c2hvcnQ=") // 6 byte, 24 değil

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for short secret")
	}
}

func TestLoad_InsecureFlag(t *testing.T) {
	setValidEnv(t)
	t.Setenv("ALLOW_INSECURE_CALLBACK_URLS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.AllowInsecureCallbackURLs {
		t.Fatal("flag not picked up")
	}
}
