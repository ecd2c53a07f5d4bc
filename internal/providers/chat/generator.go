package chat

import "context"

// Turn is one message of an assistant conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces an assistant reply for a user message.
type Generator interface {
	Generate(ctx context.Context, message string, history []Turn) (string, error)
}
