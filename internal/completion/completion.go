// Package completion wraps the chat-completion backends that answer the
// questions users send to the bot.
package completion

import (
	"context"
	"fmt"
)

// Part is one piece of user content in a completion request: plain text, an
// image, or both.
type Part struct {
	Text      string
	ImageData []byte
	ImageMIME string
}

// Request describes one completion call.
type Request struct {
	Model     string
	Parts     []Part
	MaxTokens int
}

// Completer generates an answer for a request. Implementations must honor
// ctx cancellation and deadlines.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// APIError is a non-2xx response from a completion backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("completion API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("completion API error: status %d: %s", e.StatusCode, e.Message)
}
