// ABOUTME: Tests for ChatMessage construction and text joining.
package models

import "testing"

func TestChatMessageText(t *testing.T) {
	m := NewChatMessage(RoleUser, "hello")
	if m.Text() != "hello" || m.Role != RoleUser {
		t.Errorf("message = %+v", m)
	}

	multi := ChatMessage{Role: RoleModel, Parts: []ChatPart{{Text: "a"}, {Text: "b"}}}
	if multi.Text() != "ab" {
		t.Errorf("Text() = %q, want ab", multi.Text())
	}
}
