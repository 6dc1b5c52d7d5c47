// internal/services/user_service_test.go
package services

import (
	"testing"

	apperrors "github.com/Corphon/PersonaForge/internal/errors"
	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/storage"
)

func newTestStorage(t *testing.T) *storage.FileStorage {
	t.Helper()
	fs, err := storage.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("创建文件存储失败: %v", err)
	}
	return fs
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewUserService(newTestStorage(t), "")

	user, err := svc.Register("alice", "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if user.ID == "" {
		t.Error("用户ID不应为空")
	}
	if user.Role != models.RoleUser {
		t.Errorf("默认角色应为user，实际: %s", user.Role)
	}
	if user.PasswordHash == "secret123" {
		t.Error("密码不应明文存储")
	}

	logged, err := svc.Login("alice", "secret123")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("登录返回的用户ID不匹配: %s != %s", logged.ID, user.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(newTestStorage(t), "")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"用户名过短", "ab", "secret123"},
		{"用户名过长", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "secret123"},
		{"用户名含空格", "a b c", "secret123"},
		{"用户名含竖线", "a|bc", "secret123"},
		{"密码过短", "alice", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.username, "", tt.password)
			if !apperrors.IsValidationError(err) {
				t.Errorf("期望校验错误，实际: %v", err)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewUserService(newTestStorage(t), "")

	if _, err := svc.Register("alice", "", "secret123"); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 用户名不区分大小写
	_, err := svc.Register("ALICE", "", "other456")
	if !apperrors.IsConflictError(err) {
		t.Errorf("期望冲突错误，实际: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewUserService(newTestStorage(t), "")

	if _, err := svc.Register("alice", "", "secret123"); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	if _, err := svc.Login("alice", "wrong"); !apperrors.IsUnauthorizedError(err) {
		t.Errorf("密码错误应返回认证失败，实际: %v", err)
	}
	if _, err := svc.Login("nobody", "secret123"); !apperrors.IsUnauthorizedError(err) {
		t.Errorf("用户不存在也应返回认证失败，实际: %v", err)
	}
}

func TestAdminUsernameBootstrap(t *testing.T) {
	svc := NewUserService(newTestStorage(t), "root")

	admin, err := svc.Register("Root", "", "secret123")
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("匹配管理员用户名应获得admin角色，实际: %s", admin.Role)
	}

	normal, err := svc.Register("alice", "", "secret123")
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if normal.Role != models.RoleUser {
		t.Errorf("普通用户不应获得admin角色，实际: %s", normal.Role)
	}
}

func TestBannedUserCannotLogin(t *testing.T) {
	svc := NewUserService(newTestStorage(t), "")

	user, err := svc.Register("alice", "", "secret123")
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	if _, err := svc.SetBanned(user.ID, true); err != nil {
		t.Fatalf("封禁失败: %v", err)
	}

	if _, err := svc.Login("alice", "secret123"); !apperrors.IsForbiddenError(err) {
		t.Errorf("封禁用户登录应返回禁止访问，实际: %v", err)
	}

	// 解封后恢复登录
	if _, err := svc.SetBanned(user.ID, false); err != nil {
		t.Fatalf("解封失败: %v", err)
	}
	if _, err := svc.Login("alice", "secret123"); err != nil {
		t.Errorf("解封后登录失败: %v", err)
	}
}

func TestCountUsers(t *testing.T) {
	svc := NewUserService(newTestStorage(t), "")

	for _, name := range []string{"alice", "bob", "carol"} {
		if _, err := svc.Register(name, "", "secret123"); err != nil {
			t.Fatalf("注册失败: %v", err)
		}
	}

	count, err := svc.CountUsers()
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if count != 3 {
		t.Errorf("期望3个用户，实际%d个", count)
	}
}

func TestPublicViewHidesPasswordHash(t *testing.T) {
	svc := NewUserService(newTestStorage(t), "")

	user, err := svc.Register("alice", "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	view := user.PublicView()
	if view.PasswordHash != "" {
		t.Error("PublicView不应包含密码哈希")
	}
	if user.PasswordHash == "" {
		t.Error("原始用户对象的密码哈希不应被清空")
	}
}
