package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole rejects anything outside the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAssistant:
		return Role(s), true
	}
	return "", false
}

// ChatMode selects how many conversations a room gets and which backends they
// are bound to. Decided once at room creation, never per turn.
type ChatMode string

const (
	// SingleMode runs one model, usually through the in-process engine.
	SingleMode ChatMode = "sm"
	// ComparisonMode runs two models side by side, one conversation each,
	// behind separate model servers.
	ComparisonMode ChatMode = "cm"
)

func ParseChatMode(s string) (ChatMode, bool) {
	switch ChatMode(s) {
	case SingleMode, ComparisonMode:
		return ChatMode(s), true
	}
	return "", false
}

// Message is one entry in a conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is a model-bound transcript inside a Room. The model binding
// is fixed for the conversation's whole lifetime.
type Conversation struct {
	UUID      uuid.UUID `json:"uuid"`
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// Room is a chat session container holding one (single mode) or two
// (comparison mode) conversations. Rooms are never deleted while the
// process lives.
type Room struct {
	UUID          uuid.UUID       `json:"uuid"`
	Mode          ChatMode        `json:"mode"`
	Conversations []*Conversation `json:"conversations"`
}
