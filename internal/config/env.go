// Package config handles environment-based configuration loading.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// OutputFormat selects how inspection reports are printed.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// IsValid reports whether f is a supported output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputText, OutputJSON, OutputYAML:
		return true
	}
	return false
}

// EnvConfig holds all environment-variable-driven settings.
type EnvConfig struct {
	LogLevel     logrus.Level
	OutputFormat OutputFormat

	// Inspection
	Concurrency   int
	Dedupe        bool
	DisplayPrefix string

	// GeoIP
	GeoIPDB           string
	GeoIPCacheEntries int
}

// LoadEnvConfig reads environment variables and returns a validated EnvConfig.
// Every invalid value is reported in the returned error, not just the first.
func LoadEnvConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	var errs []string

	rawLevel := strings.TrimSpace(envStr("NODEURI_LOG_LEVEL", "info"))
	cfg.OutputFormat = OutputFormat(strings.ToLower(strings.TrimSpace(envStr("NODEURI_OUTPUT_FORMAT", string(OutputText)))))

	cfg.Concurrency = envInt("NODEURI_CONCURRENCY", 8, &errs)
	cfg.Dedupe = envBool("NODEURI_DEDUPE", false, &errs)
	cfg.DisplayPrefix = strings.TrimSpace(envStr("NODEURI_DISPLAY_PREFIX", ""))

	cfg.GeoIPDB = strings.TrimSpace(envStr("NODEURI_GEOIP_DB", ""))
	cfg.GeoIPCacheEntries = envInt("NODEURI_GEOIP_CACHE_ENTRIES", 4096, &errs)

	// --- Validation ---
	level, err := logrus.ParseLevel(rawLevel)
	if err != nil {
		errs = append(errs, fmt.Sprintf("NODEURI_LOG_LEVEL: invalid level %q", rawLevel))
		level = logrus.InfoLevel
	}
	cfg.LogLevel = level

	if !cfg.OutputFormat.IsValid() {
		errs = append(errs, fmt.Sprintf(
			"NODEURI_OUTPUT_FORMAT: invalid value %q (allowed: %s, %s, %s)",
			cfg.OutputFormat, OutputText, OutputJSON, OutputYAML,
		))
	}
	validatePositive("NODEURI_CONCURRENCY", cfg.Concurrency, &errs)
	validatePositive("NODEURI_GEOIP_CACHE_ENTRIES", cfg.GeoIPCacheEntries, &errs)

	if len(errs) > 0 {
		return nil, fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	return cfg, nil
}

// --- helpers ---

func envStr(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid integer %q", key, v))
		return defaultVal
	}
	return n
}

func envBool(key string, defaultVal bool, errs *[]string) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid boolean %q", key, v))
		return defaultVal
	}
	return b
}

func validatePositive(name string, value int, errs *[]string) {
	if value <= 0 {
		*errs = append(*errs, fmt.Sprintf("%s: must be positive, got %d", name, value))
	}
}
