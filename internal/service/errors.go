package service

import (
	"errors"

	"github.com/pageza/pantrychef/internal/types"
)

var (
	ErrEmptyIngredients = errors.New("no ingredients given")
	ErrEmptyQuestion    = errors.New("no question given")
	ErrNoRecipe         = errors.New("no recipe has been generated")
	ErrEmptyResponse    = errors.New("the model returned an empty response")
	ErrSessionBusy      = types.ErrSessionBusy
)

// GenerationOp names the kind of generation call that failed
type GenerationOp string

const (
	OpRecipe GenerationOp = "recipe"
	OpChat   GenerationOp = "chat"
)

// GenerationError reports a failed call to the text generator
type GenerationError struct {
	Op  GenerationOp
	Err error
}

func (e *GenerationError) Error() string {
	if e.Op == OpChat {
		return "Chat failed: " + e.Err.Error()
	}
	return "Something went wrong while generating the recipe: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// InputError reports a request whose fields could not be read
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NoticeKind classifies a message shown to the user
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is a user-facing message derived from an operation error
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

// NoticeFor turns an error from InteractionController into the message
// the presentation layers display.
func NoticeFor(err error) Notice {
	var genErr *GenerationError
	var inputErr *InputError
	switch {
	case errors.As(err, &inputErr):
		return Notice{Kind: NoticeWarning, Text: "Could not read your input: " + inputErr.Err.Error()}
	case errors.Is(err, ErrEmptyIngredients):
		return Notice{Kind: NoticeWarning, Text: "Please enter some ingredients first."}
	case errors.Is(err, ErrEmptyQuestion):
		return Notice{Kind: NoticeWarning, Text: "Please enter a question about the recipe."}
	case errors.Is(err, ErrNoRecipe):
		return Notice{Kind: NoticeWarning, Text: "Generate a recipe first."}
	case errors.Is(err, ErrSessionBusy):
		return Notice{Kind: NoticeInfo, Text: "Still working on your previous request."}
	case errors.As(err, &genErr):
		return Notice{Kind: NoticeError, Text: genErr.Error()}
	default:
		return Notice{Kind: NoticeError, Text: "Unexpected error: " + err.Error()}
	}
}
