// internal/services/admin_service.go
package services

import (
	"time"

	apperrors "github.com/Corphon/PersonaForge/internal/errors"
	"github.com/Corphon/PersonaForge/internal/events"
	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/storage"
	"github.com/google/uuid"
)

const reportsDir = "reports"

// 审计事件动作名，NATS主题后缀
const (
	AuditActionUserBan       = "user.ban"
	AuditActionUserUnban     = "user.unban"
	AuditActionPersonaDelete = "persona.delete"
	AuditActionReportResolve = "report.resolve"
)

// AdminService 处理封禁、举报等管理操作
// 每个改变状态的管理操作都会发布审计事件
type AdminService struct {
	fileStorage    *storage.FileStorage
	userService    *UserService
	personaService *PersonaService
	publisher      *events.Publisher // 为nil时审计关闭
}

// NewAdminService 创建管理服务
func NewAdminService(fileStorage *storage.FileStorage, userService *UserService, personaService *PersonaService, publisher *events.Publisher) *AdminService {
	return &AdminService{
		fileStorage:    fileStorage,
		userService:    userService,
		personaService: personaService,
		publisher:      publisher,
	}
}

// BanUser 封禁用户
// 管理员不能封禁自己，防止最后一个管理员把自己锁在外面
func (s *AdminService) BanUser(actorID, targetID string) (*models.User, error) {
	if actorID == targetID {
		return nil, apperrors.NewValidationError("不能封禁自己", nil)
	}

	user, err := s.userService.SetBanned(targetID, true)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishAudit(AuditActionUserBan, actorID, targetID, "")
	return user, nil
}

// UnbanUser 解除用户封禁
func (s *AdminService) UnbanUser(actorID, targetID string) (*models.User, error) {
	user, err := s.userService.SetBanned(targetID, false)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishAudit(AuditActionUserUnban, actorID, targetID, "")
	return user, nil
}

// RemovePersona 管理员强制删除人格
func (s *AdminService) RemovePersona(actorID, personaID, reason string) error {
	if err := s.personaService.DeletePersona(personaID, actorID, true); err != nil {
		return err
	}

	s.publisher.PublishAudit(AuditActionPersonaDelete, actorID, personaID, reason)
	return nil
}

// SubmitReport 提交对某个人格的举报，任何登录用户均可调用
func (s *AdminService) SubmitReport(reporterID, personaID, reason string) (*models.Report, error) {
	if reason == "" {
		return nil, apperrors.NewValidationError("举报原因不能为空", nil)
	}
	if _, err := s.personaService.GetPersona(personaID); err != nil {
		return nil, err
	}

	report := &models.Report{
		ID:         uuid.NewString(),
		PersonaID:  personaID,
		ReporterID: reporterID,
		Reason:     reason,
		Status:     models.ReportStatusOpen,
		CreatedAt:  time.Now(),
	}

	if err := s.fileStorage.SaveJSON(reportsDir, report.ID+".json", report); err != nil {
		return nil, apperrors.NewProcessingError("保存举报失败", err)
	}
	return report, nil
}

// ListReports 列出举报，status为空时返回全部
func (s *AdminService) ListReports(status string) ([]*models.Report, error) {
	names, err := s.fileStorage.ListJSON(reportsDir)
	if err != nil {
		return nil, apperrors.NewProcessingError("列出举报失败", err)
	}

	reports := make([]*models.Report, 0)
	for _, name := range names {
		var report models.Report
		if err := s.fileStorage.LoadJSON(reportsDir, name+".json", &report); err != nil {
			continue
		}
		if status == "" || report.Status == status {
			reports = append(reports, &report)
		}
	}
	return reports, nil
}

// ResolveReport 处理举报并记录处理结论
// 已处理的举报不能重复处理
func (s *AdminService) ResolveReport(actorID, reportID, resolution string) (*models.Report, error) {
	if !s.fileStorage.Exists(reportsDir, reportID+".json") {
		return nil, apperrors.NewNotFoundError("举报不存在: "+reportID, nil)
	}

	var report models.Report
	if err := s.fileStorage.LoadJSON(reportsDir, reportID+".json", &report); err != nil {
		return nil, apperrors.NewProcessingError("读取举报失败", err)
	}

	if report.Status == models.ReportStatusResolved {
		return nil, apperrors.NewConflictError("举报已处理", nil)
	}

	report.Status = models.ReportStatusResolved
	report.Resolution = resolution
	report.ResolvedAt = time.Now()

	if err := s.fileStorage.SaveJSON(reportsDir, report.ID+".json", &report); err != nil {
		return nil, apperrors.NewProcessingError("保存举报失败", err)
	}

	s.publisher.PublishAudit(AuditActionReportResolve, actorID, reportID, resolution)
	return &report, nil
}

// CountOpenReports 返回待处理举报数
func (s *AdminService) CountOpenReports() (int, error) {
	reports, err := s.ListReports(models.ReportStatusOpen)
	if err != nil {
		return 0, err
	}
	return len(reports), nil
}
