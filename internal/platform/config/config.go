package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	errInvalidPort      = errors.New("config: invalid PORT number")
	errInvalidTimeout   = errors.New("config: timeouts must be positive")
	errInvalidRateLimit = errors.New("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port                string
	LogLevel            string
	FetchTimeout        time.Duration
	AuxFetchTimeout     time.Duration
	AllowedOrigins      []string
	RateLimitRPS        float64
	RateLimitBurst      int
	AllowPrivateTargets bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "ERROR"),
		FetchTimeout:        getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
		AuxFetchTimeout:     getEnvAsDuration("AUX_FETCH_TIMEOUT", 5*time.Second),
		AllowedOrigins:      getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:        getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:      getEnvAsInt("RATE_LIMIT_BURST", 10),
		AllowPrivateTargets: getEnvAsBool("ALLOW_PRIVATE_TARGETS", false),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.FetchTimeout <= 0 || c.AuxFetchTimeout <= 0 {
		return fmt.Errorf("%w: fetch=%s aux=%s", errInvalidTimeout, c.FetchTimeout, c.AuxFetchTimeout)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rps=%g burst=%d", errInvalidRateLimit, c.RateLimitRPS, c.RateLimitBurst)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsList(key string, fallback []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
