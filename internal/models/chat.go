// ABOUTME: ChatMessage model for the coach conversation.
// ABOUTME: Messages are append-only and keep the multi-part text shape.
package models

import "strings"

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatPart is one text segment of a message.
type ChatPart struct {
	Text string `json:"text" yaml:"text"`
}

// ChatMessage is one turn in the coach conversation.
type ChatMessage struct {
	Role  Role       `json:"role" yaml:"role"`
	Parts []ChatPart `json:"parts" yaml:"parts"`
}

// NewChatMessage creates a single-part message.
func NewChatMessage(role Role, text string) ChatMessage {
	return ChatMessage{Role: role, Parts: []ChatPart{{Text: text}}}
}

// Text joins all parts.
func (m ChatMessage) Text() string {
	if len(m.Parts) == 1 {
		return m.Parts[0].Text
	}
	var b strings.Builder
	for _, p := range m.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
