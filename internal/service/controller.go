package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/pantrychef/internal/observability"
	"github.com/pageza/pantrychef/internal/types"
)

// Recipe export defaults
const (
	ExportFilename    = "recipe.md"
	ExportContentType = "text/markdown"
)

// RecipeExport is the downloadable form of the current recipe
type RecipeExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// InteractionController applies user actions to a session's conversation
// state. Mutations hold the session's in-flight lock for their whole duration
// and change state only when they succeed.
type InteractionController struct {
	store    SessionStore
	builder  *PromptBuilder
	client   *GenerationClient
	notifier Notifier
}

// NewInteractionController creates a new InteractionController instance
func NewInteractionController(store SessionStore, builder *PromptBuilder, client *GenerationClient, notifier Notifier) *InteractionController {
	return &InteractionController{
		store:    store,
		builder:  builder,
		client:   client,
		notifier: notifier,
	}
}

// GenerateRecipe builds a prompt from the ingredients and replaces the
// session's recipe with the reply. Chat history is kept.
func (c *InteractionController) GenerateRecipe(ctx context.Context, sessionID, ingredients string, noFlame bool) (*types.Session, error) {
	ingredients = strings.TrimSpace(ingredients)
	if ingredients == "" {
		return nil, ErrEmptyIngredients
	}

	return c.mutate(ctx, sessionID, func(ctx context.Context, s *types.Session) error {
		prompt := c.builder.Build(ingredients, noFlame)
		res := c.client.Generate(ctx, prompt)
		if !res.OK() {
			return &GenerationError{Op: OpRecipe, Err: res.Err}
		}
		s.State.SetRecipe(res.Text)
		observability.LoggerFromContext(ctx).Info("recipe generated",
			"session_id", s.ID, "no_flame", noFlame, "chars", len(res.Text))
		return nil
	})
}

// AskQuestion asks a follow-up question about the current recipe and
// appends the exchange to the chat history. A blank question is rejected;
// otherwise the question is embedded and recorded as typed.
func (c *InteractionController) AskQuestion(ctx context.Context, sessionID, question string) (*types.Session, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	return c.mutate(ctx, sessionID, func(ctx context.Context, s *types.Session) error {
		if !s.State.HasRecipe() {
			return ErrNoRecipe
		}
		res := c.client.Generate(ctx, ChatPrompt(s.State.Recipe, question))
		if !res.OK() {
			return &GenerationError{Op: OpChat, Err: res.Err}
		}
		s.State.AppendTurn(question, res.Text)
		observability.LoggerFromContext(ctx).Info("question answered",
			"session_id", s.ID, "turns", len(s.State.ChatHistory))
		return nil
	})
}

// ClearChat empties the chat history and keeps the recipe
func (c *InteractionController) ClearChat(ctx context.Context, sessionID string) (*types.Session, error) {
	return c.mutate(ctx, sessionID, func(_ context.Context, s *types.Session) error {
		s.State.ClearChat()
		return nil
	})
}

// ClearRecipe empties both the recipe and the chat history
func (c *InteractionController) ClearRecipe(ctx context.Context, sessionID string) (*types.Session, error) {
	return c.mutate(ctx, sessionID, func(_ context.Context, s *types.Session) error {
		s.State.ClearRecipe()
		return nil
	})
}

// Session returns the session's current state
func (c *InteractionController) Session(ctx context.Context, sessionID string) (*types.Session, error) {
	s, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return s, nil
}

// ExportRecipe returns the current recipe text verbatim as recipe.md
func (c *InteractionController) ExportRecipe(ctx context.Context, sessionID string) (*RecipeExport, error) {
	s, err := c.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.State.HasRecipe() {
		return nil, ErrNoRecipe
	}
	return &RecipeExport{
		Filename:    ExportFilename,
		ContentType: ExportContentType,
		Data:        []byte(s.State.Recipe),
	}, nil
}

// mutate runs fn against the session under its in-flight lock and saves
// the result. Generation calls inside fn cannot be cancelled by ctx.
func (c *InteractionController) mutate(ctx context.Context, sessionID string, fn func(context.Context, *types.Session) error) (*types.Session, error) {
	release, err := c.store.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	s, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := fn(context.WithoutCancel(ctx), s); err != nil {
		return nil, err
	}

	s.Touch()
	if err := c.store.Save(context.WithoutCancel(ctx), s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if c.notifier != nil {
		c.notifier.Redisplay(s.ID, s.State.Clone())
	}
	return s, nil
}
