// Package llm abstracts the text completion provider the assistant and
// the query classifier call into.
package llm

import "context"

// Role represents the role of the message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a completion request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider defines the interface for a completion provider.
type Provider interface {
	// Chat sends a list of messages and returns the model's response.
	Chat(ctx context.Context, messages []Message) (*Message, error)
}
