// internal/models/chat.go
package models

import "time"

// 聊天消息类型常量
const (
	MessageTypeUser = "user"
	MessageTypeBot  = "bot"
)

// ChatMessage 表示会话中的一条消息
type ChatMessage struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // user 或 bot
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession 表示用户与某个人格之间的一次会话
// 消息按时间顺序追加，会话之间没有关联
type ChatSession struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	PersonaID   string        `json:"persona_id"`
	Messages    []ChatMessage `json:"messages"`
	CreatedAt   time.Time     `json:"created_at"`
	LastUpdated time.Time     `json:"last_updated"`
}
