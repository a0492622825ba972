package testhelpers

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantrychef/internal/database"
	"github.com/pageza/pantrychef/internal/mocks"
	"github.com/pageza/pantrychef/internal/service"
)

// TestTemplate is a compact template with both markers, used in place of the default
const TestTemplate = "Recipe for: {{INGREDIENTS}}\n{{NO_FLAME_BLOCK}}END"

// TestEnv bundles an InteractionController wired to in-memory dependencies
type TestEnv struct {
	Controller *service.InteractionController
	Store      *database.MemorySessionStore
	Broker     *service.Broker
	Generator  service.TextGenerator
	Tokens     *service.SessionTokenService
}

// NewTestEnv builds a controller around generator with a memory store, a
// broker and TestTemplate
func NewTestEnv(t *testing.T, generator service.TextGenerator) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := database.NewMemorySessionStore(time.Hour)
	broker := service.NewBroker()
	builder := service.NewPromptBuilder(mocks.StaticTemplate(TestTemplate))
	ctrl := service.NewInteractionController(store, builder, service.NewGenerationClient(generator), broker)

	tokens, err := service.NewSessionTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	return &TestEnv{
		Controller: ctrl,
		Store:      store,
		Broker:     broker,
		Generator:  generator,
		Tokens:     tokens,
	}
}
