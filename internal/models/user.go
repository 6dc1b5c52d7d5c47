// internal/models/user.go
package models

import "time"

// 用户角色常量
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 表示一个注册用户
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Role         string    `json:"role"`
	Banned       bool      `json:"banned"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

// PublicView 返回去除敏感字段的用户副本
func (u *User) PublicView() *User {
	view := *u
	view.PasswordHash = ""
	return &view
}

// IsAdmin 检查用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
