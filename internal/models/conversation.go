package models

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ConversationTurn is one turn of a chat session. Turns are never mutated
// after creation, only appended to a session's history.
type ConversationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
