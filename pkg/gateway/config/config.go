// Package config loads the console gateway configuration from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	// Upstream voice platform authorization service. The bearer key is
	// held server-side only and never reaches the browser.
	UpstreamBaseURL string
	UpstreamAPIKey  string

	// Optional fallback when the caller omits agent_id.
	DefaultAgentID string

	// CORS allowlist; empty disables CORS entirely.
	CORSAllowedOrigins map[string]struct{}

	MaxBodyBytes int64

	// Operational defaults
	ReadHeaderTimeout   time.Duration
	ReadTimeout         time.Duration
	ShutdownGracePeriod time.Duration

	// Upstream HTTP client defaults
	UpstreamConnectTimeout        time.Duration
	UpstreamResponseHeaderTimeout time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                          envOr("VAI_CONSOLE_ADDR", ":8080"),
		UpstreamBaseURL:               strings.TrimRight(os.Getenv("VAI_CONSOLE_UPSTREAM_BASE_URL"), "/"),
		UpstreamAPIKey:                os.Getenv("VAI_CONSOLE_UPSTREAM_API_KEY"),
		DefaultAgentID:                os.Getenv("VAI_CONSOLE_DEFAULT_AGENT_ID"),
		CORSAllowedOrigins:            make(map[string]struct{}),
		MaxBodyBytes:                  envInt64Or("VAI_CONSOLE_MAX_BODY_BYTES", 64<<10), // 64 KiB
		ReadHeaderTimeout:             envDurationOr("VAI_CONSOLE_READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:                   envDurationOr("VAI_CONSOLE_READ_TIMEOUT", 30*time.Second),
		ShutdownGracePeriod:           envDurationOr("VAI_CONSOLE_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
		UpstreamConnectTimeout:        envDurationOr("VAI_CONSOLE_CONNECT_TIMEOUT", 5*time.Second),
		UpstreamResponseHeaderTimeout: envDurationOr("VAI_CONSOLE_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
	}

	for _, origin := range splitCSV(os.Getenv("VAI_CONSOLE_CORS_ORIGINS")) {
		cfg.CORSAllowedOrigins[origin] = struct{}{}
	}

	if cfg.UpstreamBaseURL == "" {
		return Config{}, fmt.Errorf("VAI_CONSOLE_UPSTREAM_BASE_URL must be set")
	}
	if cfg.UpstreamAPIKey == "" {
		return Config{}, fmt.Errorf("VAI_CONSOLE_UPSTREAM_API_KEY must be set")
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("VAI_CONSOLE_MAX_BODY_BYTES must be > 0")
	}
	if cfg.ReadHeaderTimeout <= 0 || cfg.ReadTimeout <= 0 {
		return Config{}, fmt.Errorf("read timeouts must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("VAI_CONSOLE_SHUTDOWN_GRACE_PERIOD must be > 0")
	}
	if cfg.UpstreamConnectTimeout <= 0 || cfg.UpstreamResponseHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("upstream timeouts must be > 0")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
