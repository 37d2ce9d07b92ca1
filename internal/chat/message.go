package chat

import (
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrEmptyMessage = errors.New("chat message is empty")

// MessagePart 前端 UI 消息片段
type MessagePart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Message 对话消息，兼容纯文本 content 和 parts 两种写法
type Message struct {
	Role    string        `json:"role"`
	Content string        `json:"content,omitempty"`
	Parts   []MessagePart `json:"parts,omitempty"`
}

// Text 返回消息文本
func (m Message) Text() string {
	if text := strings.TrimSpace(m.Content); text != "" {
		return text
	}
	var b strings.Builder
	for _, part := range m.Parts {
		if part.Type != "" && part.Type != "text" {
			continue
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

// prepareHistory 拆分历史与最新的用户消息，历史最多保留 maxHistory 条
func prepareHistory(messages []Message, maxHistory int) ([]*genai.Content, string, error) {
	filtered := make([]Message, 0, len(messages))
	for _, msg := range messages {
		role := strings.ToLower(strings.TrimSpace(msg.Role))
		if role != RoleUser && role != RoleAssistant {
			continue
		}
		if msg.Text() == "" {
			continue
		}
		msg.Role = role
		filtered = append(filtered, msg)
	}
	if len(filtered) == 0 || filtered[len(filtered)-1].Role != RoleUser {
		return nil, "", ErrEmptyMessage
	}

	last := filtered[len(filtered)-1].Text()
	previous := filtered[:len(filtered)-1]
	if maxHistory > 0 && len(previous) > maxHistory {
		previous = previous[len(previous)-maxHistory:]
	}
	// Gemini 要求历史以用户消息开头
	for len(previous) > 0 && previous[0].Role != RoleUser {
		previous = previous[1:]
	}

	history := make([]*genai.Content, 0, len(previous))
	for _, msg := range previous {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Text())},
		})
	}
	return history, last, nil
}
