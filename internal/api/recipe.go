package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/internal/middleware"
	"github.com/pageza/pantrychef/internal/service"
	"github.com/pageza/pantrychef/internal/types"
)

// RecipeHandler serves the JSON API for one user's conversation
type RecipeHandler struct {
	interactor service.Interactor
	events     Subscriber
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(interactor service.Interactor, events Subscriber) *RecipeHandler {
	return &RecipeHandler{interactor: interactor, events: events}
}

// RegisterRoutes registers the session routes
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	session := router.Group("/session")
	{
		session.GET("", h.GetSession)
		session.POST("/recipe", h.GenerateRecipe)
		session.DELETE("/recipe", h.ClearRecipe)
		session.GET("/recipe.md", h.DownloadRecipe)
		session.POST("/chat", h.AskQuestion)
		session.DELETE("/chat", h.ClearChat)
		if h.events != nil {
			session.GET("/events", h.Events)
		}
	}
}

// GetSession returns the caller's current state
func (h *RecipeHandler) GetSession(c *gin.Context) {
	s, err := h.interactor.Session(c.Request.Context(), middleware.SessionID(c))
	h.respond(c, s, err)
}

// GenerateRecipe handles recipe generation requests
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	var req types.GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(&service.InputError{Err: err})
		return
	}
	s, err := h.interactor.GenerateRecipe(c.Request.Context(), middleware.SessionID(c), req.Ingredients, req.NoFlame)
	h.respond(c, s, err)
}

// AskQuestion handles follow-up questions about the current recipe
func (h *RecipeHandler) AskQuestion(c *gin.Context) {
	var req types.AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(&service.InputError{Err: err})
		return
	}
	s, err := h.interactor.AskQuestion(c.Request.Context(), middleware.SessionID(c), req.Question)
	h.respond(c, s, err)
}

// ClearChat empties the chat history
func (h *RecipeHandler) ClearChat(c *gin.Context) {
	s, err := h.interactor.ClearChat(c.Request.Context(), middleware.SessionID(c))
	h.respond(c, s, err)
}

// ClearRecipe empties the recipe and the chat history
func (h *RecipeHandler) ClearRecipe(c *gin.Context) {
	s, err := h.interactor.ClearRecipe(c.Request.Context(), middleware.SessionID(c))
	h.respond(c, s, err)
}

// DownloadRecipe sends the current recipe as recipe.md
func (h *RecipeHandler) DownloadRecipe(c *gin.Context) {
	export, err := h.interactor.ExportRecipe(c.Request.Context(), middleware.SessionID(c))
	if errors.Is(err, service.ErrNoRecipe) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "no recipe to download", Kind: string(service.NoticeWarning)})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	writeExport(c, export)
}

func (h *RecipeHandler) respond(c *gin.Context, s *types.Session, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.NewSessionResponse(s, middleware.SessionToken(c)))
}

func writeExport(c *gin.Context, export *service.RecipeExport) {
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(export.Data)))
	c.Data(http.StatusOK, export.ContentType+"; charset=utf-8", export.Data)
}
