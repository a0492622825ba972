package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/pantrychef/config"
	"github.com/pageza/pantrychef/internal/api"
	"github.com/pageza/pantrychef/internal/database"
	"github.com/pageza/pantrychef/internal/llm"
	"github.com/pageza/pantrychef/internal/observability"
	"github.com/pageza/pantrychef/internal/service"
)

// App wires the core services shared by the web server, the terminal UI and
// the one-shot CLI.
type App struct {
	Config     *config.Config
	Controller *service.InteractionController
	Broker     *service.Broker
	Tokens     *service.SessionTokenService
	Templates  *service.TemplateStore

	redis *redis.Client
}

// New builds the application. apiKey may be empty only when the mock
// generator is configured.
func New(ctx context.Context, cfg *config.Config, apiKey string) (*App, error) {
	generator, err := newGenerator(ctx, cfg, apiKey)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg}

	var store service.SessionStore
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		client, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.redis = client
		store = database.NewRedisSessionStore(client, cfg.SessionTTL, cfg.LockTTL)
	default:
		store = database.NewMemorySessionStore(cfg.SessionTTL)
	}

	tokens, err := service.NewSessionTokenService(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Templates = service.NewTemplateStore(cfg.PromptFile)
	a.Broker = service.NewBroker()
	a.Tokens = tokens
	a.Controller = service.NewInteractionController(
		store,
		service.NewPromptBuilder(a.Templates),
		service.NewGenerationClient(generator),
		a.Broker,
	)

	observability.Logger().Info("application ready",
		"model", cfg.GeminiModel,
		"mock_llm", cfg.UseMockLLM,
		"session_backend", cfg.SessionBackend,
		"prompt_file", a.Templates.Path(),
	)
	return a, nil
}

func newGenerator(ctx context.Context, cfg *config.Config, apiKey string) (service.TextGenerator, error) {
	if cfg.UseMockLLM {
		return llm.NewMockLLM(), nil
	}
	if apiKey == "" {
		return nil, config.ErrMissingAPIKey
	}
	gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:  apiKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return gemini, nil
}

// HTTPDeps returns the handler dependencies for the web server
func (a *App) HTTPDeps() api.Deps {
	return api.Deps{
		Interactor:     a.Controller,
		Events:         a.Broker,
		Tokens:         a.Tokens,
		AllowedOrigins: a.Config.AllowedOrigins,
		SecureCookies:  a.Config.Environment.IsProduction(),
	}
}

// Close releases external connections
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
