package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the optional TOML configuration file. Empty values leave
// the defaults untouched.
type fileConfig struct {
	Server struct {
		Host           string   `toml:"host"`
		Port           string   `toml:"port"`
		AllowedOrigins []string `toml:"allowed_origins"`
	} `toml:"server"`
	Gemini struct {
		Model   string `toml:"model"`
		BaseURL string `toml:"base_url"`
		Mock    bool   `toml:"mock"`
	} `toml:"gemini"`
	Prompt struct {
		File string `toml:"file"`
	} `toml:"prompt"`
	Session struct {
		Backend string `toml:"backend"`
		TTL     string `toml:"ttl"`
		LockTTL string `toml:"lock_ttl"`
	} `toml:"session"`
	Redis struct {
		Host string `toml:"host"`
		Port string `toml:"port"`
		DB   int    `toml:"db"`
		URL  string `toml:"url"`
	} `toml:"redis"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// loadFile applies a TOML file on top of cfg. Secrets are never read from it.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	override(&cfg.ServerHost, fc.Server.Host)
	override(&cfg.ServerPort, fc.Server.Port)
	if len(fc.Server.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.Server.AllowedOrigins
	}
	override(&cfg.GeminiModel, fc.Gemini.Model)
	override(&cfg.GeminiBaseURL, fc.Gemini.BaseURL)
	cfg.UseMockLLM = cfg.UseMockLLM || fc.Gemini.Mock
	override(&cfg.PromptFile, fc.Prompt.File)
	override(&cfg.SessionBackend, fc.Session.Backend)
	override(&cfg.RedisHost, fc.Redis.Host)
	override(&cfg.RedisPort, fc.Redis.Port)
	override(&cfg.RedisURL, fc.Redis.URL)
	if fc.Redis.DB != 0 {
		cfg.RedisDB = fc.Redis.DB
	}
	override(&cfg.LogLevel, fc.Log.Level)

	if fc.Session.TTL != "" {
		d, err := time.ParseDuration(fc.Session.TTL)
		if err != nil {
			return ValidationError{Field: "session.ttl", Message: err.Error()}
		}
		cfg.SessionTTL = d
	}
	if fc.Session.LockTTL != "" {
		d, err := time.ParseDuration(fc.Session.LockTTL)
		if err != nil {
			return ValidationError{Field: "session.lock_ttl", Message: err.Error()}
		}
		cfg.LockTTL = d
	}
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
