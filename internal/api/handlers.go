package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/internal/middleware"
	"github.com/pageza/pantrychef/internal/service"
)

// Version is reported by the health check
var Version = "dev"

// Subscriber delivers redisplay events for a session
type Subscriber interface {
	Subscribe(sessionID string) (<-chan service.RedisplayEvent, func())
}

// Deps holds what the HTTP handlers need
type Deps struct {
	Interactor     service.Interactor
	Events         Subscriber
	Tokens         middleware.SessionTokens
	AllowedOrigins []string
	SecureCookies  bool
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PantryChef is running",
		"version": Version,
	})
}

// RegisterRoutes registers the page, the JSON API and the health check
func RegisterRoutes(router *gin.Engine, deps Deps) error {
	router.GET("/health", HealthCheck)

	withSession := middleware.Session(deps.Tokens, deps.SecureCookies)

	page, err := NewPageHandler(deps.Interactor)
	if err != nil {
		return err
	}
	page.RegisterRoutes(router, withSession)

	corsHandler, err := middleware.CORS(deps.AllowedOrigins)
	if err != nil {
		return err
	}

	v1 := router.Group("/api/v1", corsHandler, withSession)
	NewRecipeHandler(deps.Interactor, deps.Events).RegisterRoutes(v1)
	return nil
}
