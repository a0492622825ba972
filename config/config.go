package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultModel is the Gemini model used when none is configured
const DefaultModel = "gemini-2.5-flash"

// Session backends
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Generation configuration
	GeminiModel   string
	GeminiBaseURL string
	PromptFile    string
	UseMockLLM    bool

	// Session configuration
	SessionBackend string
	SessionSecret  string
	SessionTTL     time.Duration
	LockTTL        time.Duration

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	LogLevel string
}

// Default returns the configuration used before any file or environment overrides
func Default() *Config {
	return &Config{
		Environment:    Development,
		ServerPort:     "8080",
		ServerHost:     "0.0.0.0",
		AllowedOrigins: []string{"http://localhost:8080"},
		GeminiModel:    DefaultModel,
		SessionBackend: SessionBackendMemory,
		SessionTTL:     24 * time.Hour,
		LockTTL:        2 * time.Minute,
		RedisHost:      "localhost",
		RedisPort:      "6379",
		LogLevel:       "info",
	}
}

// LoadConfig builds the configuration from defaults, an optional .env file,
// an optional TOML file and finally the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, relying on process environment", "error", err)
	}

	cfg := Default()
	cfg.Environment = GetEnvironment()

	if path := os.Getenv("PANTRYCHEF_CONFIG"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment configuration: %w", err)
	}

	if cfg.Environment == Production {
		loadProdSecrets(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// loadEnv overrides cfg with any variables present in the environment
func loadEnv(cfg *Config) error {
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.GeminiBaseURL, "GEMINI_BASE_URL")
	setString(&cfg.PromptFile, "PROMPT_FILE")
	setString(&cfg.SessionBackend, "SESSION_BACKEND")
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	if v := os.Getenv("PANTRYCHEF_USE_MOCK_LLM"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return ValidationError{Field: "PANTRYCHEF_USE_MOCK_LLM", Message: "must be a boolean"}
		}
		cfg.UseMockLLM = b
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return ValidationError{Field: "REDIS_DB", Message: "must be an integer"}
		}
		cfg.RedisDB = db
	}

	if err := setDuration(&cfg.SessionTTL, "SESSION_TTL"); err != nil {
		return err
	}
	return setDuration(&cfg.LockTTL, "SESSION_LOCK_TTL")
}

// loadProdSecrets fills sensitive values from Docker secrets when the
// environment did not provide them
func loadProdSecrets(cfg *Config) {
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = readSecret("session_secret")
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = readSecret("redis_password")
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = readSecret("redis_url")
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return ValidationError{Field: key, Message: "must be a duration such as 30m or 24h"}
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
