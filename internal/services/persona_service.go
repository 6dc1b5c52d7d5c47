// internal/services/persona_service.go
package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Corphon/PersonaForge/internal/analysis"
	apperrors "github.com/Corphon/PersonaForge/internal/errors"
	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/persona"
	"github.com/Corphon/PersonaForge/internal/rng"
	"github.com/Corphon/PersonaForge/internal/storage"
)

const personasDir = "personas"

// PersonaService 负责人格的生成、查询和维护
type PersonaService struct {
	fileStorage    *storage.FileStorage
	minTextLength  int
	simulateDelays bool

	// 可替换的随机源工厂，测试中注入固定种子
	newRand func() rng.Rand
}

// NewPersonaService 创建人格服务
func NewPersonaService(fileStorage *storage.FileStorage, minTextLength int, simulateDelays bool) *PersonaService {
	return &PersonaService{
		fileStorage:    fileStorage,
		minTextLength:  minTextLength,
		simulateDelays: simulateDelays,
		newRand:        rng.New,
	}
}

// Generate 分析文本并合成新的人格档案
func (s *PersonaService) Generate(ownerID, text string) (*models.PersonaProfile, error) {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < s.minTextLength {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("文本长度不足，至少需要%d个字符", s.minTextLength), nil)
	}

	// 可选的分析延迟，让前端的进度动画有展示空间
	if s.simulateDelays {
		time.Sleep(2 * time.Second)
	}

	features := analysis.Analyze(trimmed)
	profile := persona.Synthesize(features, trimmed, s.newRand())
	profile.OwnerID = ownerID

	if err := s.fileStorage.SaveJSON(personasDir, profile.ID+".json", profile); err != nil {
		return nil, apperrors.NewProcessingError("保存人格档案失败", err)
	}

	return profile, nil
}

// GetPersona 按ID获取人格档案
func (s *PersonaService) GetPersona(personaID string) (*models.PersonaProfile, error) {
	if !s.fileStorage.Exists(personasDir, personaID+".json") {
		return nil, apperrors.NewNotFoundError("人格不存在: "+personaID, nil)
	}

	var profile models.PersonaProfile
	if err := s.fileStorage.LoadJSON(personasDir, personaID+".json", &profile); err != nil {
		return nil, apperrors.NewProcessingError("读取人格档案失败", err)
	}
	return &profile, nil
}

// ListByOwner 列出某个用户创建的全部人格，按创建时间升序
func (s *PersonaService) ListByOwner(ownerID string) ([]*models.PersonaProfile, error) {
	all, err := s.ListAll()
	if err != nil {
		return nil, err
	}

	owned := make([]*models.PersonaProfile, 0)
	for _, p := range all {
		if p.OwnerID == ownerID {
			owned = append(owned, p)
		}
	}
	return owned, nil
}

// ListAll 列出全部人格档案，按创建时间升序
func (s *PersonaService) ListAll() ([]*models.PersonaProfile, error) {
	names, err := s.fileStorage.ListJSON(personasDir)
	if err != nil {
		return nil, apperrors.NewProcessingError("列出人格档案失败", err)
	}

	personas := make([]*models.PersonaProfile, 0, len(names))
	for _, name := range names {
		var profile models.PersonaProfile
		if err := s.fileStorage.LoadJSON(personasDir, name+".json", &profile); err != nil {
			// 跳过损坏的文件，不让单个坏档案拖垮整个列表
			continue
		}
		personas = append(personas, &profile)
	}

	sortPersonasByCreation(personas)
	return personas, nil
}

// UpdatePersona 更新人格的名称和标语
// 只有所有者或管理员可以修改，分析结果和特质不可编辑
func (s *PersonaService) UpdatePersona(personaID, requesterID string, isAdmin bool, name, tagline string) (*models.PersonaProfile, error) {
	profile, err := s.GetPersona(personaID)
	if err != nil {
		return nil, err
	}

	if profile.OwnerID != requesterID && !isAdmin {
		return nil, apperrors.NewForbiddenError("无权修改此人格", nil)
	}

	if name != "" {
		profile.Name = name
	}
	if tagline != "" {
		profile.Tagline = tagline
	}
	profile.LastUpdated = time.Now()

	if err := s.fileStorage.SaveJSON(personasDir, profile.ID+".json", profile); err != nil {
		return nil, apperrors.NewProcessingError("保存人格档案失败", err)
	}
	return profile, nil
}

// DeletePersona 删除人格档案
// 只有所有者或管理员可以删除
func (s *PersonaService) DeletePersona(personaID, requesterID string, isAdmin bool) error {
	profile, err := s.GetPersona(personaID)
	if err != nil {
		return err
	}

	if profile.OwnerID != requesterID && !isAdmin {
		return apperrors.NewForbiddenError("无权删除此人格", nil)
	}

	if err := s.fileStorage.Delete(personasDir, personaID+".json"); err != nil {
		return apperrors.NewProcessingError("删除人格档案失败", err)
	}
	return nil
}

// CountPersonas 返回人格总数
func (s *PersonaService) CountPersonas() (int, error) {
	names, err := s.fileStorage.ListJSON(personasDir)
	if err != nil {
		return 0, apperrors.NewProcessingError("统计人格数失败", err)
	}
	return len(names), nil
}

// TopicCounts 统计全部人格的话题分布
func (s *PersonaService) TopicCounts() (map[string]int, error) {
	all, err := s.ListAll()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, p := range all {
		for _, topic := range p.CommunicationStyle.Topics {
			counts[topic]++
		}
	}
	return counts, nil
}

// sortPersonasByCreation 按创建时间升序排序，时间相同时按ID保证稳定顺序
func sortPersonasByCreation(personas []*models.PersonaProfile) {
	sort.Slice(personas, func(i, j int) bool {
		if personas[i].CreatedAt.Equal(personas[j].CreatedAt) {
			return personas[i].ID < personas[j].ID
		}
		return personas[i].CreatedAt.Before(personas[j].CreatedAt)
	})
}
