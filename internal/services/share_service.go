// internal/services/share_service.go
package services

import (
	"time"

	apperrors "github.com/Corphon/PersonaForge/internal/errors"
	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/storage"
	"github.com/google/uuid"
)

const sharesDir = "shares"

// ShareService 管理人格的公开分享链接
// 分享令牌是不可猜测的UUID，访问无需登录
type ShareService struct {
	fileStorage    *storage.FileStorage
	personaService *PersonaService
	ttlDays        int // 0表示永不过期
}

// NewShareService 创建分享服务
func NewShareService(fileStorage *storage.FileStorage, personaService *PersonaService, ttlDays int) *ShareService {
	return &ShareService{
		fileStorage:    fileStorage,
		personaService: personaService,
		ttlDays:        ttlDays,
	}
}

// CreateShare 为人格创建分享链接
// 只有所有者或管理员可以创建
func (s *ShareService) CreateShare(personaID, creatorID string, isAdmin bool) (*models.ShareLink, error) {
	profile, err := s.personaService.GetPersona(personaID)
	if err != nil {
		return nil, err
	}
	if profile.OwnerID != creatorID && !isAdmin {
		return nil, apperrors.NewForbiddenError("无权分享此人格", nil)
	}

	now := time.Now()
	share := &models.ShareLink{
		Token:     uuid.NewString(),
		PersonaID: personaID,
		CreatorID: creatorID,
		CreatedAt: now,
	}
	if s.ttlDays > 0 {
		share.ExpiresAt = now.AddDate(0, 0, s.ttlDays)
	}

	if err := s.fileStorage.SaveJSON(sharesDir, share.Token+".json", share); err != nil {
		return nil, apperrors.NewProcessingError("保存分享链接失败", err)
	}
	return share, nil
}

// Resolve 按令牌解析分享链接并返回对应人格
// 每次成功解析都会累加访问计数，过期或失效的链接返回未找到
func (s *ShareService) Resolve(token string) (*models.PersonaProfile, *models.ShareLink, error) {
	share, err := s.getShare(token)
	if err != nil {
		return nil, nil, err
	}

	if share.IsExpired(time.Now()) {
		return nil, nil, apperrors.NewNotFoundError("分享链接已过期", nil)
	}

	profile, err := s.personaService.GetPersona(share.PersonaID)
	if err != nil {
		// 人格已被删除时链接随之失效
		return nil, nil, apperrors.NewNotFoundError("分享的人格已不存在", nil)
	}

	share.Hits++
	if err := s.fileStorage.SaveJSON(sharesDir, share.Token+".json", share); err != nil {
		return nil, nil, apperrors.NewProcessingError("更新访问计数失败", err)
	}

	return profile, share, nil
}

// ListByCreator 列出某个用户创建的全部分享链接
func (s *ShareService) ListByCreator(creatorID string) ([]*models.ShareLink, error) {
	names, err := s.fileStorage.ListJSON(sharesDir)
	if err != nil {
		return nil, apperrors.NewProcessingError("列出分享链接失败", err)
	}

	shares := make([]*models.ShareLink, 0)
	for _, name := range names {
		var share models.ShareLink
		if err := s.fileStorage.LoadJSON(sharesDir, name+".json", &share); err != nil {
			continue
		}
		if share.CreatorID == creatorID {
			shares = append(shares, &share)
		}
	}
	return shares, nil
}

// RevokeShare 撤销分享链接
// 只有创建者或管理员可以撤销
func (s *ShareService) RevokeShare(token, requesterID string, isAdmin bool) error {
	share, err := s.getShare(token)
	if err != nil {
		return err
	}
	if share.CreatorID != requesterID && !isAdmin {
		return apperrors.NewForbiddenError("无权撤销此分享链接", nil)
	}

	if err := s.fileStorage.Delete(sharesDir, token+".json"); err != nil {
		return apperrors.NewProcessingError("删除分享链接失败", err)
	}
	return nil
}

// CountShares 返回分享链接总数
func (s *ShareService) CountShares() (int, error) {
	names, err := s.fileStorage.ListJSON(sharesDir)
	if err != nil {
		return 0, apperrors.NewProcessingError("统计分享链接数失败", err)
	}
	return len(names), nil
}

func (s *ShareService) getShare(token string) (*models.ShareLink, error) {
	if !s.fileStorage.Exists(sharesDir, token+".json") {
		return nil, apperrors.NewNotFoundError("分享链接不存在", nil)
	}

	var share models.ShareLink
	if err := s.fileStorage.LoadJSON(sharesDir, token+".json", &share); err != nil {
		return nil, apperrors.NewProcessingError("读取分享链接失败", err)
	}
	return &share, nil
}
