package models

import (
	"errors"
	"fmt"
)

// FallbackReply is surfaced to the user whenever a backend soft-fails. It is
// recorded in the transcript like any other assistant message so that later
// turns replay a history matching what the user actually saw.
const FallbackReply = "Sorry, I couldn't generate a response at the moment."

// ErrModelNotConfigured is returned from room creation when the requested
// mode needs a model identifier that is absent from the configuration.
var ErrModelNotConfigured = errors.New("model is not configured")

// NotFoundError reports an identifier that does not resolve to a room or
// conversation. It is a client-facing error; the connection is kept open.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id=%s not found", e.Kind, e.ID)
}

func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}
