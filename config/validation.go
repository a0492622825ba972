package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "SERVER_PORT must not be empty")
	}
	if cfg.GeminiModel == "" {
		errors = append(errors, "GEMINI_MODEL must not be empty")
	}

	switch cfg.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if cfg.RedisURL == "" && cfg.RedisHost == "" {
			errors = append(errors, "REDIS_HOST or REDIS_URL is required for the redis session backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("unknown SESSION_BACKEND %q", cfg.SessionBackend))
	}

	if len(cfg.AllowedOrigins) == 0 {
		errors = append(errors, "ALLOWED_ORIGINS must list at least one origin")
	}

	if cfg.SessionTTL <= 0 {
		errors = append(errors, "SESSION_TTL must be positive")
	}
	if cfg.LockTTL <= 0 {
		errors = append(errors, "SESSION_LOCK_TTL must be positive")
	}

	// Sessions minted with an ephemeral secret would not survive a restart or
	// work across replicas.
	if cfg.Environment == Production || cfg.Environment == CI {
		if cfg.SessionSecret == "" {
			errors = append(errors, "SESSION_SECRET is required in "+string(cfg.Environment))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
