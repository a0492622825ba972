package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantrychef/internal/mocks"
	"github.com/pageza/pantrychef/internal/service"
	"github.com/pageza/pantrychef/internal/testhelpers"
)

const sessionID = "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"

func TestGenerateRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the recipe", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		gen.On("Generate", mock.Anything, "Recipe for: chicken, rice\nEND").Return("# Chicken Rice", nil).Once()
		env := testhelpers.NewTestEnv(t, gen)

		s, err := env.Controller.GenerateRecipe(ctx, sessionID, "  chicken, rice  ", false)

		require.NoError(t, err)
		assert.Equal(t, "# Chicken Rice", s.State.Recipe)
		gen.AssertExpectations(t)

		stored, err := env.Store.Get(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "# Chicken Rice", stored.State.Recipe)
	})

	t.Run("no-flame prompt", func(t *testing.T) {
		var prompt string
		env := testhelpers.NewTestEnv(t, mocks.GeneratorFunc(func(_ context.Context, p string) (string, error) {
			prompt = p
			return "# Gazpacho", nil
		}))

		_, err := env.Controller.GenerateRecipe(ctx, sessionID, "tomato", true)

		require.NoError(t, err)
		assert.Contains(t, prompt, service.NoFlameBlock)
	})

	t.Run("empty input makes no call", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		env := testhelpers.NewTestEnv(t, gen)

		_, err := env.Controller.GenerateRecipe(ctx, sessionID, " \n\t ", false)

		assert.ErrorIs(t, err, service.ErrEmptyIngredients)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		assert.Equal(t, 0, env.Store.Len())
	})

	t.Run("failure keeps the previous recipe", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("# First", nil).Once()
		gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("network unreachable")).Once()
		env := testhelpers.NewTestEnv(t, gen)

		_, err := env.Controller.GenerateRecipe(ctx, sessionID, "eggs", false)
		require.NoError(t, err)

		_, err = env.Controller.GenerateRecipe(ctx, sessionID, "flour", false)

		var genErr *service.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, service.OpRecipe, genErr.Op)
		assert.Equal(t, "Something went wrong while generating the recipe: network unreachable", err.Error())

		s, err := env.Controller.Session(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "# First", s.State.Recipe)
	})

	t.Run("regenerating keeps chat history", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("# Recipe", nil)
		env := testhelpers.NewTestEnv(t, gen)

		_, err := env.Controller.GenerateRecipe(ctx, sessionID, "eggs", false)
		require.NoError(t, err)
		_, err = env.Controller.AskQuestion(ctx, sessionID, "How long?")
		require.NoError(t, err)

		s, err := env.Controller.GenerateRecipe(ctx, sessionID, "flour", false)
		require.NoError(t, err)
		assert.Len(t, s.State.ChatHistory, 1)
	})

	t.Run("cancelled request still completes", func(t *testing.T) {
		env := testhelpers.NewTestEnv(t, mocks.GeneratorFunc(func(ctx context.Context, _ string) (string, error) {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "# Done", nil
		}))
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		s, err := env.Controller.GenerateRecipe(cctx, sessionID, "eggs", false)

		require.NoError(t, err)
		assert.Equal(t, "# Done", s.State.Recipe)
	})
}

func TestAskQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a recipe", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		env := testhelpers.NewTestEnv(t, gen)

		_, err := env.Controller.AskQuestion(ctx, sessionID, "Can I bake it?")

		assert.ErrorIs(t, err, service.ErrNoRecipe)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("empty question", func(t *testing.T) {
		env := testhelpers.NewTestEnv(t, new(mocks.MockTextGenerator))

		_, err := env.Controller.AskQuestion(ctx, sessionID, "   ")

		assert.ErrorIs(t, err, service.ErrEmptyQuestion)
	})

	t.Run("appends turns in order", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
			return !strings.Contains(p, "Please answer this question")
		})).Return("# Soup", nil)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "Based on this recipe:\n# Soup") && strings.Contains(p, "question: Vegan?")
		})).Return("Use vegetable stock.", nil)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "question:  Freeze? \n")
		})).Return("Yes, up to 3 months.", nil)
		env := testhelpers.NewTestEnv(t, gen)

		_, err := env.Controller.GenerateRecipe(ctx, sessionID, "carrot", false)
		require.NoError(t, err)
		_, err = env.Controller.AskQuestion(ctx, sessionID, "Vegan?")
		require.NoError(t, err)
		s, err := env.Controller.AskQuestion(ctx, sessionID, " Freeze? ")
		require.NoError(t, err)

		require.Len(t, s.State.ChatHistory, 2)
		assert.Equal(t, "Vegan?", s.State.ChatHistory[0].Question)
		assert.Equal(t, "Use vegetable stock.", s.State.ChatHistory[0].Answer)
		assert.Equal(t, " Freeze? ", s.State.ChatHistory[1].Question, "questions are kept as typed")
		assert.Equal(t, "# Soup", s.State.Recipe)
	})

	t.Run("failure leaves history unchanged", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("# Soup", nil).Once()
		gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded")).Once()
		env := testhelpers.NewTestEnv(t, gen)

		_, err := env.Controller.GenerateRecipe(ctx, sessionID, "carrot", false)
		require.NoError(t, err)
		_, err = env.Controller.AskQuestion(ctx, sessionID, "Spicy?")

		assert.EqualError(t, err, "Chat failed: quota exceeded")
		s, _ := env.Controller.Session(ctx, sessionID)
		assert.Empty(t, s.State.ChatHistory)
	})
}

func TestClearOperations(t *testing.T) {
	ctx := context.Background()
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("text", nil)
	env := testhelpers.NewTestEnv(t, gen)

	_, err := env.Controller.GenerateRecipe(ctx, sessionID, "eggs", false)
	require.NoError(t, err)
	_, err = env.Controller.AskQuestion(ctx, sessionID, "q")
	require.NoError(t, err)

	s, err := env.Controller.ClearChat(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "text", s.State.Recipe)
	assert.Empty(t, s.State.ChatHistory)

	_, err = env.Controller.AskQuestion(ctx, sessionID, "q2")
	require.NoError(t, err)

	s, err = env.Controller.ClearRecipe(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, s.State.HasRecipe())
	assert.Empty(t, s.State.ChatHistory)

	_, err = env.Controller.AskQuestion(ctx, sessionID, "q3")
	assert.ErrorIs(t, err, service.ErrNoRecipe)
}

func TestExportRecipe(t *testing.T) {
	ctx := context.Background()
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("# Toast\n\n1. Toast bread.", nil)
	env := testhelpers.NewTestEnv(t, gen)

	_, err := env.Controller.ExportRecipe(ctx, sessionID)
	assert.ErrorIs(t, err, service.ErrNoRecipe)

	_, err = env.Controller.GenerateRecipe(ctx, sessionID, "bread", false)
	require.NoError(t, err)

	export, err := env.Controller.ExportRecipe(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "recipe.md", export.Filename)
	assert.Equal(t, "text/markdown", export.ContentType)
	assert.Equal(t, "# Toast\n\n1. Toast bread.", string(export.Data))
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("# Mine", nil)
	env := testhelpers.NewTestEnv(t, gen)

	_, err := env.Controller.GenerateRecipe(ctx, "session-a", "eggs", false)
	require.NoError(t, err)

	other, err := env.Controller.Session(ctx, "session-b")
	require.NoError(t, err)
	assert.False(t, other.State.HasRecipe())
}

func TestConcurrentSubmissionIsRejected(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	unblock := make(chan struct{})
	var calls int
	var mu sync.Mutex

	env := testhelpers.NewTestEnv(t, mocks.GeneratorFunc(func(context.Context, string) (string, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-unblock
		return "# Slow", nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := env.Controller.GenerateRecipe(ctx, sessionID, "eggs", false)
		done <- err
	}()
	<-started

	_, err := env.Controller.GenerateRecipe(ctx, sessionID, "eggs", false)
	assert.ErrorIs(t, err, service.ErrSessionBusy)
	_, err = env.Controller.ClearRecipe(ctx, sessionID)
	assert.ErrorIs(t, err, service.ErrSessionBusy)

	close(unblock)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first submission did not finish")
	}

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestRedisplayIsEmittedOnMutation(t *testing.T) {
	ctx := context.Background()
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("# Rice", nil)
	env := testhelpers.NewTestEnv(t, gen)

	events, cancel := env.Broker.Subscribe(sessionID)
	defer cancel()

	_, err := env.Controller.GenerateRecipe(ctx, sessionID, "rice", false)
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, sessionID, ev.SessionID)
		assert.Equal(t, "# Rice", ev.State.Recipe)
	case <-time.After(time.Second):
		t.Fatal("no redisplay event")
	}

	_, err = env.Controller.GenerateRecipe(ctx, sessionID, "", false)
	require.Error(t, err)
	select {
	case <-events:
		t.Fatal("rejected input must not redisplay")
	default:
	}
}

func TestNoticeFor(t *testing.T) {
	cases := []struct {
		err  error
		kind service.NoticeKind
		text string
	}{
		{service.ErrEmptyIngredients, service.NoticeWarning, "Please enter some ingredients first."},
		{service.ErrSessionBusy, service.NoticeInfo, "Still working on your previous request."},
		{&service.GenerationError{Op: service.OpChat, Err: errors.New("boom")}, service.NoticeError, "Chat failed: boom"},
		{errors.New("disk full"), service.NoticeError, "Unexpected error: disk full"},
	}
	for _, tc := range cases {
		n := service.NoticeFor(tc.err)
		assert.Equal(t, tc.kind, n.Kind)
		assert.Equal(t, tc.text, n.Text)
	}
}
