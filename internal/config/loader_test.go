package config

import (
	"os"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("STOREFRONT_PAYMENT_BASE_URL", "https://pay.example.com")
	t.Setenv("STOREFRONT_PAYMENT_API_KEY", "test-key")
	t.Setenv("STOREFRONT_DOWNLOAD_BASE_URL", "https://downloads.example.com")
	t.Setenv("STOREFRONT_DOWNLOAD_SECRET", "download-secret")
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"STOREFRONT_HTTP_PORT",
			"STOREFRONT_SQLITE_DSN",
			"STOREFRONT_SESSION_TTL",
			"STOREFRONT_LOOKAHEAD_MONTHS",
			"STOREFRONT_DOWNLOAD_TTL",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}
		setRequired(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:storefront.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected default session TTL 24h, got %s", cfg.SessionTTL)
		}
		if cfg.LookaheadMonths != 3 {
			t.Fatalf("expected default look-ahead of 3 months, got %d", cfg.LookaheadMonths)
		}
		if cfg.DownloadTTL != 15*time.Minute {
			t.Fatalf("expected default download TTL 15m, got %s", cfg.DownloadTTL)
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		for _, key := range []string{
			"STOREFRONT_PAYMENT_BASE_URL",
			"STOREFRONT_PAYMENT_API_KEY",
			"STOREFRONT_DOWNLOAD_BASE_URL",
			"STOREFRONT_DOWNLOAD_SECRET",
		} {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "required environment variables are not set: STOREFRONT_PAYMENT_BASE_URL, STOREFRONT_PAYMENT_API_KEY, STOREFRONT_DOWNLOAD_BASE_URL, STOREFRONT_DOWNLOAD_SECRET"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		setRequired(t)
		t.Setenv("STOREFRONT_HTTP_PORT", "9090")
		t.Setenv("STOREFRONT_SQLITE_DSN", "file:/tmp/storefront.db")
		t.Setenv("STOREFRONT_SESSION_TTL", "12h")
		t.Setenv("STOREFRONT_LOOKAHEAD_MONTHS", "6")
		t.Setenv("STOREFRONT_DOWNLOAD_TTL", "30m")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/storefront.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Fatalf("expected session TTL 12h, got %s", cfg.SessionTTL)
		}
		if cfg.LookaheadMonths != 6 {
			t.Fatalf("expected look-ahead of 6 months, got %d", cfg.LookaheadMonths)
		}
		if cfg.DownloadTTL != 30*time.Minute {
			t.Fatalf("expected download TTL 30m, got %s", cfg.DownloadTTL)
		}
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		setRequired(t)
		t.Setenv("STOREFRONT_HTTP_PORT", "not-a-port")
		t.Setenv("STOREFRONT_LOOKAHEAD_MONTHS", "0")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for malformed values")
		}
		expected := "environment variables have invalid values: STOREFRONT_HTTP_PORT, STOREFRONT_LOOKAHEAD_MONTHS"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
