package tui

import (
	"github.com/pageza/pantrychef/internal/service"
	"github.com/pageza/pantrychef/internal/types"
)

// operationDone carries the result of a controller call back to the model.
type operationDone struct {
	op      operation
	session *types.Session
	err     error
}

// redisplay is delivered for every state change published by the broker.
type redisplay struct {
	event service.RedisplayEvent
}

// exportDone reports where recipe.md was written.
type exportDone struct {
	path string
	err  error
}

type operation int

const (
	opGenerate operation = iota
	opAsk
	opClearChat
	opClearRecipe
)
