package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/pantrychef/internal/observability"
	"github.com/pageza/pantrychef/internal/types"
)

// TextGenerator sends a prompt to a language model and returns its reply
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationClient is the boundary around a TextGenerator: every failure,
// panics included, is returned as a failed GenerationResult.
type GenerationClient struct {
	generator TextGenerator
}

// NewGenerationClient creates a new GenerationClient instance
func NewGenerationClient(generator TextGenerator) *GenerationClient {
	return &GenerationClient{generator: generator}
}

// Generate calls the generator once. It never retries.
func (c *GenerationClient) Generate(ctx context.Context, prompt string) (result types.GenerationResult) {
	log := observability.LoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error("text generator panicked", "panic", r)
			result = types.GenerationResult{Err: fmt.Errorf("generator panicked: %v", r)}
		}
	}()

	text, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		log.Warn("text generation failed", "error", err)
		return types.GenerationResult{Err: err}
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("text generation returned no text")
		return types.GenerationResult{Err: ErrEmptyResponse}
	}

	log.Debug("text generation succeeded", "prompt_chars", len(prompt), "reply_chars", len(text))
	return types.GenerationResult{Text: text}
}
