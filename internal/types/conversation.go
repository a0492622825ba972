package types

import "time"

// ChatTurn is one follow-up question and the answer it received
type ChatTurn struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// ConversationState is everything a single user sees: the current recipe
// and the questions asked about it.
type ConversationState struct {
	Recipe      string     `json:"recipe"`
	ChatHistory []ChatTurn `json:"chat_history"`
}

// HasRecipe reports whether a recipe is currently displayed
func (s *ConversationState) HasRecipe() bool {
	return s.Recipe != ""
}

// SetRecipe replaces the current recipe. Chat history is left untouched.
func (s *ConversationState) SetRecipe(text string) {
	s.Recipe = text
}

// AppendTurn records a completed question/answer pair
func (s *ConversationState) AppendTurn(question, answer string) {
	s.ChatHistory = append(s.ChatHistory, ChatTurn{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now().UTC(),
	})
}

// ClearChat empties the chat history and keeps the recipe
func (s *ConversationState) ClearChat() {
	s.ChatHistory = nil
}

// ClearRecipe empties the recipe and the chat history
func (s *ConversationState) ClearRecipe() {
	s.Recipe = ""
	s.ChatHistory = nil
}

// Clone returns a copy that shares no slice storage with s
func (s ConversationState) Clone() ConversationState {
	out := ConversationState{Recipe: s.Recipe}
	if len(s.ChatHistory) > 0 {
		out.ChatHistory = make([]ChatTurn, len(s.ChatHistory))
		copy(out.ChatHistory, s.ChatHistory)
	}
	return out
}

// Session owns the conversation state of one user
type Session struct {
	ID        string            `json:"id"`
	State     ConversationState `json:"state"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewSession returns an empty session with the given id
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

// Touch marks the session as modified
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
