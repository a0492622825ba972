package types

import "time"

// GenerateRecipeRequest represents the request body for generating a recipe
type GenerateRecipeRequest struct {
	Ingredients string `json:"ingredients" form:"ingredients"`
	NoFlame     bool   `json:"no_flame" form:"no_flame"`
}

// AskQuestionRequest represents the request body for a follow-up question
type AskQuestionRequest struct {
	Question string `json:"question" form:"question"`
}

// SessionResponse is the JSON view of a session
type SessionResponse struct {
	SessionID   string     `json:"session_id"`
	Token       string     `json:"token,omitempty"`
	Recipe      string     `json:"recipe"`
	HasRecipe   bool       `json:"has_recipe"`
	ChatHistory []ChatTurn `json:"chat_history"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewSessionResponse converts a session to its JSON view
func NewSessionResponse(s *Session, token string) SessionResponse {
	history := s.State.ChatHistory
	if history == nil {
		history = []ChatTurn{}
	}
	return SessionResponse{
		SessionID:   s.ID,
		Token:       token,
		Recipe:      s.State.Recipe,
		HasRecipe:   s.State.HasRecipe(),
		ChatHistory: history,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
