package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the storefront service.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	SessionTTL      time.Duration
	LookaheadMonths int
	PaymentBaseURL  string
	PaymentAPIKey   string
	DownloadBaseURL string
	DownloadSecret  string
	DownloadTTL     time.Duration
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values and reporting every missing or malformed entry at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:storefront.db?_foreign_keys=on",
		SessionTTL:      24 * time.Hour,
		LookaheadMonths: 3,
		DownloadTTL:     15 * time.Minute,
	}

	missing := make([]string, 0, 3)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("STOREFRONT_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "STOREFRONT_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("STOREFRONT_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("STOREFRONT_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "STOREFRONT_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if monthsValue := strings.TrimSpace(os.Getenv("STOREFRONT_LOOKAHEAD_MONTHS")); monthsValue != "" {
		months, err := strconv.Atoi(monthsValue)
		if err != nil || months <= 0 {
			invalid = append(invalid, "STOREFRONT_LOOKAHEAD_MONTHS")
		} else {
			cfg.LookaheadMonths = months
		}
	}

	if baseURL := strings.TrimSpace(os.Getenv("STOREFRONT_PAYMENT_BASE_URL")); baseURL == "" {
		missing = append(missing, "STOREFRONT_PAYMENT_BASE_URL")
	} else {
		cfg.PaymentBaseURL = baseURL
	}

	if apiKey := strings.TrimSpace(os.Getenv("STOREFRONT_PAYMENT_API_KEY")); apiKey == "" {
		missing = append(missing, "STOREFRONT_PAYMENT_API_KEY")
	} else {
		cfg.PaymentAPIKey = apiKey
	}

	if baseURL := strings.TrimSpace(os.Getenv("STOREFRONT_DOWNLOAD_BASE_URL")); baseURL == "" {
		missing = append(missing, "STOREFRONT_DOWNLOAD_BASE_URL")
	} else {
		cfg.DownloadBaseURL = baseURL
	}

	if secret := strings.TrimSpace(os.Getenv("STOREFRONT_DOWNLOAD_SECRET")); secret == "" {
		missing = append(missing, "STOREFRONT_DOWNLOAD_SECRET")
	} else {
		cfg.DownloadSecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("STOREFRONT_DOWNLOAD_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "STOREFRONT_DOWNLOAD_TTL")
		} else {
			cfg.DownloadTTL = ttl
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
