package api

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/pageza/pantrychef/internal/middleware"
	"github.com/pageza/pantrychef/internal/service"
	"github.com/pageza/pantrychef/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// pageData is what index.tmpl renders
type pageData struct {
	Ingredients string
	NoFlame     bool
	Question    string
	Recipe      string
	HasRecipe   bool
	ChatHistory []types.ChatTurn
	Notice      *service.Notice
}

// PageHandler serves the single-page form. Every action re-renders the whole
// page from the session's current state.
type PageHandler struct {
	interactor service.Interactor
	tmpl       *template.Template
}

// NewPageHandler parses the embedded page template
func NewPageHandler(interactor service.Interactor) (*PageHandler, error) {
	tmpl, err := template.New("index.tmpl").
		Funcs(template.FuncMap{"markdown": renderMarkdown}).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &PageHandler{interactor: interactor, tmpl: tmpl}, nil
}

// RegisterRoutes registers the page routes
func (h *PageHandler) RegisterRoutes(router gin.IRouter, session gin.HandlerFunc) {
	page := router.Group("/", session)
	{
		page.GET("", h.Index)
		page.POST("/recipe", h.GenerateRecipe)
		page.POST("/recipe/clear", h.ClearRecipe)
		page.GET("/recipe.md", h.DownloadRecipe)
		page.POST("/chat", h.AskQuestion)
		page.POST("/chat/clear", h.ClearChat)
	}
}

// Index renders the current state
func (h *PageHandler) Index(c *gin.Context) {
	h.render(c, pageData{}, nil)
}

// GenerateRecipe handles the ingredients form
func (h *PageHandler) GenerateRecipe(c *gin.Context) {
	var req types.GenerateRecipeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, pageData{Ingredients: c.PostForm("ingredients")}, &service.InputError{Err: err})
		return
	}

	_, err := h.interactor.GenerateRecipe(c.Request.Context(), middleware.SessionID(c), req.Ingredients, req.NoFlame)
	h.render(c, pageData{Ingredients: req.Ingredients, NoFlame: req.NoFlame}, err)
}

// AskQuestion handles the chat form
func (h *PageHandler) AskQuestion(c *gin.Context) {
	var req types.AskQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, pageData{Question: c.PostForm("question")}, &service.InputError{Err: err})
		return
	}

	_, err := h.interactor.AskQuestion(c.Request.Context(), middleware.SessionID(c), req.Question)
	data := pageData{}
	if err != nil {
		data.Question = req.Question
	}
	h.render(c, data, err)
}

// ClearChat handles the Clear Chat History button
func (h *PageHandler) ClearChat(c *gin.Context) {
	_, err := h.interactor.ClearChat(c.Request.Context(), middleware.SessionID(c))
	h.render(c, pageData{}, err)
}

// ClearRecipe handles the Clear Recipe button
func (h *PageHandler) ClearRecipe(c *gin.Context) {
	_, err := h.interactor.ClearRecipe(c.Request.Context(), middleware.SessionID(c))
	h.render(c, pageData{}, err)
}

// DownloadRecipe sends the current recipe as recipe.md
func (h *PageHandler) DownloadRecipe(c *gin.Context) {
	export, err := h.interactor.ExportRecipe(c.Request.Context(), middleware.SessionID(c))
	if errors.Is(err, service.ErrNoRecipe) {
		c.String(http.StatusNotFound, "No recipe to download yet.")
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	writeExport(c, export)
}

// render draws the page from the stored session state, with a notice for err
func (h *PageHandler) render(c *gin.Context, data pageData, opErr error) {
	status := http.StatusOK
	if opErr != nil {
		n := service.NoticeFor(opErr)
		data.Notice = &n
		status = middleware.StatusFor(opErr)
	}

	s, err := h.interactor.Session(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	data.Recipe = s.State.Recipe
	data.HasRecipe = s.State.HasRecipe()
	data.ChatHistory = s.State.ChatHistory

	c.Render(status, render.HTML{Template: h.tmpl, Name: "index.tmpl", Data: data})
}
