// internal/services/user_service.go
package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/Corphon/PersonaForge/internal/errors"
	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	usersDir      = "users"
	indexDir      = "indexes"
	usernameIndex = "usernames.json"
)

// UserService 处理用户注册、登录和封禁相关的业务逻辑
type UserService struct {
	fileStorage   *storage.FileStorage
	adminUsername string

	// 注册时保护用户名索引的读改写
	mu sync.Mutex
}

// NewUserService 创建用户服务
// adminUsername 非空时，注册该用户名的用户自动获得管理员角色
func NewUserService(fileStorage *storage.FileStorage, adminUsername string) *UserService {
	return &UserService{
		fileStorage:   fileStorage,
		adminUsername: adminUsername,
	}
}

// Register 注册新用户
// 用户名不区分大小写且必须唯一，密码以bcrypt哈希存储
func (s *UserService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return nil, apperrors.NewValidationError("用户名长度必须在3到32个字符之间", nil)
	}
	if strings.ContainsAny(username, " \t\n|") {
		return nil, apperrors.NewValidationError("用户名不能包含空格或竖线", nil)
	}
	if len(password) < 6 {
		return nil, apperrors.NewValidationError("密码长度至少为6个字符", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadUsernameIndex()
	if err != nil {
		return nil, err
	}

	key := strings.ToLower(username)
	if _, exists := index[key]; exists {
		return nil, apperrors.NewConflictError("用户名已被注册: "+username, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewProcessingError("密码哈希失败", err)
	}

	role := models.RoleUser
	if s.adminUsername != "" && strings.EqualFold(username, s.adminUsername) {
		role = models.RoleAdmin
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		LastLogin:    now,
	}

	if err := s.fileStorage.SaveJSON(usersDir, user.ID+".json", user); err != nil {
		return nil, apperrors.NewProcessingError("保存用户数据失败", err)
	}

	index[key] = user.ID
	if err := s.fileStorage.SaveJSON(indexDir, usernameIndex, index); err != nil {
		return nil, apperrors.NewProcessingError("更新用户名索引失败", err)
	}

	return user, nil
}

// Login 校验用户凭证并刷新最后登录时间
// 被封禁的用户无法登录
func (s *UserService) Login(username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		// 统一返回认证失败，不泄露用户名是否存在
		return nil, apperrors.NewUnauthorizedError("用户名或密码错误", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("用户名或密码错误", nil)
	}

	if user.Banned {
		return nil, apperrors.NewForbiddenError("账号已被封禁", nil)
	}

	user.LastLogin = time.Now()
	if err := s.fileStorage.SaveJSON(usersDir, user.ID+".json", user); err != nil {
		return nil, apperrors.NewProcessingError("更新登录时间失败", err)
	}

	return user, nil
}

// GetUser 按ID获取用户
func (s *UserService) GetUser(userID string) (*models.User, error) {
	if !s.fileStorage.Exists(usersDir, userID+".json") {
		return nil, apperrors.NewNotFoundError("用户不存在: "+userID, nil)
	}

	var user models.User
	if err := s.fileStorage.LoadJSON(usersDir, userID+".json", &user); err != nil {
		return nil, apperrors.NewProcessingError("读取用户数据失败", err)
	}
	return &user, nil
}

// GetUserByUsername 按用户名获取用户（不区分大小写）
func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	index, err := s.loadUsernameIndex()
	if err != nil {
		return nil, err
	}

	userID, exists := index[strings.ToLower(strings.TrimSpace(username))]
	if !exists {
		return nil, apperrors.NewNotFoundError("用户不存在: "+username, nil)
	}

	return s.GetUser(userID)
}

// SetBanned 设置用户封禁状态
func (s *UserService) SetBanned(userID string, banned bool) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	user.Banned = banned
	if err := s.fileStorage.SaveJSON(usersDir, user.ID+".json", user); err != nil {
		return nil, apperrors.NewProcessingError("保存用户数据失败", err)
	}
	return user, nil
}

// ListUsers 列出全部注册用户，按用户名升序
func (s *UserService) ListUsers() ([]*models.User, error) {
	names, err := s.fileStorage.ListJSON(usersDir)
	if err != nil {
		return nil, apperrors.NewProcessingError("列出用户失败", err)
	}

	users := make([]*models.User, 0, len(names))
	for _, name := range names {
		var user models.User
		if err := s.fileStorage.LoadJSON(usersDir, name+".json", &user); err != nil {
			continue
		}
		users = append(users, &user)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].Username != users[j].Username {
			return users[i].Username < users[j].Username
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// CountUsers 返回注册用户总数
func (s *UserService) CountUsers() (int, error) {
	names, err := s.fileStorage.ListJSON(usersDir)
	if err != nil {
		return 0, apperrors.NewProcessingError("统计用户数失败", err)
	}
	return len(names), nil
}

// loadUsernameIndex 加载用户名到用户ID的索引，索引文件不存在时返回空映射
func (s *UserService) loadUsernameIndex() (map[string]string, error) {
	index := make(map[string]string)
	if !s.fileStorage.Exists(indexDir, usernameIndex) {
		return index, nil
	}
	if err := s.fileStorage.LoadJSON(indexDir, usernameIndex, &index); err != nil {
		return nil, apperrors.NewProcessingError("读取用户名索引失败", err)
	}
	return index, nil
}
