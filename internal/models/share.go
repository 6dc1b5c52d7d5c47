// internal/models/share.go
package models

import "time"

// ShareLink 表示一个人格的公开分享链接
type ShareLink struct {
	Token     string    `json:"token"`
	PersonaID string    `json:"persona_id"`
	CreatorID string    `json:"creator_id"`
	Hits      int       `json:"hits"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// IsExpired 检查分享链接是否已过期
func (s *ShareLink) IsExpired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt)
}
