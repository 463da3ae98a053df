package api

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles a caller may send.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one turn of the caller-supplied conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerationRequest is a validated request for a code generation stream.
// Messages is never empty; the last message is the active prompt.
type GenerationRequest struct {
	ModelID  string    `json:"modelId"`
	Messages []Message `json:"messages"`
}

// LastContent returns the content of the active prompt.
func (r *GenerationRequest) LastContent() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1].Content
}
