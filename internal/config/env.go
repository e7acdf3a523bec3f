package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"

	apierrors "github.com/diogo/planassist/internal/errors"
)

// EnvAPIURL names the environment variable holding the backend base URL.
const EnvAPIURL = "API_URL"

// DefaultDotEnvFile is loaded from the working directory when present.
const DefaultDotEnvFile = ".env"

// LoadDotEnv loads variables from the given files (default ".env").
// Missing files are skipped; variables already set in the environment win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{DefaultDotEnvFile}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

// ResolveAPIURL picks the backend base URL. flagValue beats API_URL,
// which beats the config file value, which beats DefaultAPIURL.
func ResolveAPIURL(cfg Config, flagValue string) (string, error) {
	candidate := DefaultAPIURL
	if cfg.APIURL != "" {
		candidate = cfg.APIURL
	}
	if env := strings.TrimSpace(os.Getenv(EnvAPIURL)); env != "" {
		candidate = env
	}
	if flagValue = strings.TrimSpace(flagValue); flagValue != "" {
		candidate = flagValue
	}

	return NormalizeAPIURL(candidate)
}

// NormalizeAPIURL validates an absolute http(s) URL and strips trailing slashes.
func NormalizeAPIURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apierrors.ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q must use http or https", apierrors.ErrInvalidBaseURL, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", apierrors.ErrInvalidBaseURL, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}
