package api

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/internal/middleware"
	"github.com/pageza/pantrychef/internal/types"
)

const keepAliveInterval = 25 * time.Second

// Events streams redisplay events for the caller's session as server-sent
// events. The current state is sent first.
func (h *RecipeHandler) Events(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.SessionID(c)

	events, cancel := h.events.Subscribe(sessionID)
	defer cancel()

	current, err := h.interactor.Session(ctx, sessionID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("redisplay", types.NewSessionResponse(current, ""))
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			s := &types.Session{ID: ev.SessionID, State: ev.State, UpdatedAt: ev.At}
			c.SSEvent("redisplay", types.NewSessionResponse(s, ""))
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		case <-ctx.Done():
			return false
		}
	})
}
