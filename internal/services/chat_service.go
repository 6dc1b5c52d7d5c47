// internal/services/chat_service.go
package services

import (
	"context"
	"sort"
	"time"

	"github.com/Corphon/PersonaForge/internal/cache"
	"github.com/Corphon/PersonaForge/internal/chat"
	apperrors "github.com/Corphon/PersonaForge/internal/errors"
	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/rng"
	"github.com/Corphon/PersonaForge/internal/storage"
	"github.com/Corphon/PersonaForge/internal/utils"
	"github.com/google/uuid"
)

const sessionsDir = "sessions"

// ChatService 管理聊天会话并驱动人格回复生成
// 文件存储是权威数据源，Redis缓存为可选的读加速层
type ChatService struct {
	fileStorage    *storage.FileStorage
	personaService *PersonaService
	sessionCache   *cache.SessionCache // 为nil时缓存关闭
	simulateDelays bool

	newRand func() rng.Rand
}

// NewChatService 创建聊天服务
func NewChatService(fileStorage *storage.FileStorage, personaService *PersonaService, sessionCache *cache.SessionCache, simulateDelays bool) *ChatService {
	return &ChatService{
		fileStorage:    fileStorage,
		personaService: personaService,
		sessionCache:   sessionCache,
		simulateDelays: simulateDelays,
		newRand:        rng.New,
	}
}

// CreateSession 为用户和指定人格创建新会话
func (s *ChatService) CreateSession(userID, personaID string) (*models.ChatSession, error) {
	if _, err := s.personaService.GetPersona(personaID); err != nil {
		return nil, err
	}

	now := time.Now()
	session := &models.ChatSession{
		ID:          uuid.NewString(),
		UserID:      userID,
		PersonaID:   personaID,
		Messages:    []models.ChatMessage{},
		CreatedAt:   now,
		LastUpdated: now,
	}

	if err := s.fileStorage.SaveJSON(sessionsDir, session.ID+".json", session); err != nil {
		return nil, apperrors.NewProcessingError("保存会话失败", err)
	}
	return session, nil
}

// GetSession 获取会话，非所有者返回禁止访问
func (s *ChatService) GetSession(sessionID, requesterID string) (*models.ChatSession, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != requesterID {
		return nil, apperrors.NewForbiddenError("无权访问此会话", nil)
	}
	return session, nil
}

// ListSessions 列出用户的全部会话，按最近更新降序
func (s *ChatService) ListSessions(userID string) ([]*models.ChatSession, error) {
	names, err := s.fileStorage.ListJSON(sessionsDir)
	if err != nil {
		return nil, apperrors.NewProcessingError("列出会话失败", err)
	}

	sessions := make([]*models.ChatSession, 0)
	for _, name := range names {
		var session models.ChatSession
		if err := s.fileStorage.LoadJSON(sessionsDir, name+".json", &session); err != nil {
			continue
		}
		if session.UserID == userID {
			sessions = append(sessions, &session)
		}
	}

	sortSessionsByActivity(sessions)
	return sessions, nil
}

// SendMessage 追加用户消息并生成人格回复
// 返回本轮产生的用户消息和机器人消息
func (s *ChatService) SendMessage(ctx context.Context, sessionID, requesterID, text string) (*models.ChatMessage, *models.ChatMessage, error) {
	if text == "" {
		return nil, nil, apperrors.NewValidationError("消息内容不能为空", nil)
	}

	session, err := s.GetSession(sessionID, requesterID)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.personaService.GetPersona(session.PersonaID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	userMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Type:      models.MessageTypeUser,
		Message:   text,
		Timestamp: now,
	}

	// 可选的思考延迟（0.5到1.5秒），模拟对方正在输入的节奏
	r := s.newRand()
	if s.simulateDelays {
		delay := time.Duration(500+r.Float64()*1000) * time.Millisecond
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}

	botMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Type:      models.MessageTypeBot,
		Message:   chat.Respond(profile, text, r),
		Timestamp: time.Now(),
	}

	session.Messages = append(session.Messages, userMsg, botMsg)
	session.LastUpdated = botMsg.Timestamp

	if err := s.fileStorage.SaveJSON(sessionsDir, session.ID+".json", session); err != nil {
		return nil, nil, apperrors.NewProcessingError("保存会话失败", err)
	}

	s.cacheAppend(ctx, session.ID, userMsg, botMsg)

	return &userMsg, &botMsg, nil
}

// Messages 返回会话的消息历史，优先从缓存读取
func (s *ChatService) Messages(ctx context.Context, sessionID, requesterID string) ([]models.ChatMessage, error) {
	// 缓存命中时仍需校验所有权，先加载会话元数据
	session, err := s.GetSession(sessionID, requesterID)
	if err != nil {
		return nil, err
	}

	if s.sessionCache != nil {
		if cached, hit, err := s.sessionCache.Messages(ctx, sessionID); err == nil && hit {
			return cached, nil
		}
		// 未命中或出错则回源并重建缓存
		if err := s.sessionCache.Prime(ctx, sessionID, session.Messages); err != nil {
			utils.GetLogger().Warnf("重建会话缓存失败 %s: %v", sessionID, err)
		}
	}

	return session.Messages, nil
}

// DeleteSession 删除会话及其缓存
func (s *ChatService) DeleteSession(ctx context.Context, sessionID, requesterID string, isAdmin bool) error {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return err
	}
	if session.UserID != requesterID && !isAdmin {
		return apperrors.NewForbiddenError("无权删除此会话", nil)
	}

	if err := s.fileStorage.Delete(sessionsDir, sessionID+".json"); err != nil {
		return apperrors.NewProcessingError("删除会话失败", err)
	}

	if s.sessionCache != nil {
		if err := s.sessionCache.Invalidate(ctx, sessionID); err != nil {
			utils.GetLogger().Warnf("清理会话缓存失败 %s: %v", sessionID, err)
		}
	}
	return nil
}

// CountSessions 返回会话总数
func (s *ChatService) CountSessions() (int, error) {
	names, err := s.fileStorage.ListJSON(sessionsDir)
	if err != nil {
		return 0, apperrors.NewProcessingError("统计会话数失败", err)
	}
	return len(names), nil
}

func (s *ChatService) loadSession(sessionID string) (*models.ChatSession, error) {
	if !s.fileStorage.Exists(sessionsDir, sessionID+".json") {
		return nil, apperrors.NewNotFoundError("会话不存在: "+sessionID, nil)
	}

	var session models.ChatSession
	if err := s.fileStorage.LoadJSON(sessionsDir, sessionID+".json", &session); err != nil {
		return nil, apperrors.NewProcessingError("读取会话失败", err)
	}
	return &session, nil
}

// cacheAppend 把新消息写入缓存，失败只记录日志
func (s *ChatService) cacheAppend(ctx context.Context, sessionID string, messages ...models.ChatMessage) {
	if s.sessionCache == nil {
		return
	}
	for _, msg := range messages {
		if err := s.sessionCache.AppendMessage(ctx, sessionID, msg); err != nil {
			utils.GetLogger().Warnf("写入会话缓存失败 %s: %v", sessionID, err)
			return
		}
	}
}

// sortSessionsByActivity 按最近更新降序排序
func sortSessionsByActivity(sessions []*models.ChatSession) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].LastUpdated.Equal(sessions[j].LastUpdated) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].LastUpdated.After(sessions[j].LastUpdated)
	})
}
