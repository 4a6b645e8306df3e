package core

// Role identifies the conversational author of a Message.
type Role string

const (
	// RoleSystem marks instructions that frame the whole conversation.
	RoleSystem Role = "system"
	// RoleUser marks caller-supplied input.
	RoleUser Role = "user"
	// RoleAssistant marks prior model output replayed as context.
	RoleAssistant Role = "assistant"
)

// Message is one normalized prompt entry handed to the model capability.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
