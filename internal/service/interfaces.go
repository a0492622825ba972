package service

import (
	"context"

	"github.com/pageza/pantrychef/internal/types"
)

// SessionStore holds conversation state per session
type SessionStore interface {
	// Get returns the session, or a new empty one if id is unknown.
	Get(ctx context.Context, id string) (*types.Session, error)
	Save(ctx context.Context, session *types.Session) error
	// Acquire takes the session's in-flight lock. It fails with
	// types.ErrSessionBusy when the lock is already held.
	Acquire(ctx context.Context, id string) (release func(), err error)
}

// Notifier is told whenever a session's state changes and must be redrawn
type Notifier interface {
	Redisplay(sessionID string, state types.ConversationState)
}

// Interactor is the set of user operations the presentation layers drive
type Interactor interface {
	GenerateRecipe(ctx context.Context, sessionID, ingredients string, noFlame bool) (*types.Session, error)
	AskQuestion(ctx context.Context, sessionID, question string) (*types.Session, error)
	ClearChat(ctx context.Context, sessionID string) (*types.Session, error)
	ClearRecipe(ctx context.Context, sessionID string) (*types.Session, error)
	Session(ctx context.Context, sessionID string) (*types.Session, error)
	ExportRecipe(ctx context.Context, sessionID string) (*RecipeExport, error)
}
