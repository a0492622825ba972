package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/pantrychef/internal/types"
)

// MockTextGenerator is a mock implementation of service.TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockNotifier is a mock implementation of service.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Redisplay(sessionID string, state types.ConversationState) {
	m.Called(sessionID, state)
}

// MockTemplateLoader is a mock implementation of service.TemplateLoader
type MockTemplateLoader struct {
	mock.Mock
}

func (m *MockTemplateLoader) Load() string {
	args := m.Called()
	return args.String(0)
}

// GeneratorFunc adapts a function to service.TextGenerator
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// StaticTemplate always returns the same template text
type StaticTemplate string

func (s StaticTemplate) Load() string {
	return string(s)
}
