// internal/models/report.go
package models

import "time"

// 举报状态常量
const (
	ReportStatusOpen     = "open"
	ReportStatusResolved = "resolved"
)

// Report 表示用户对某个人格的举报
type Report struct {
	ID         string    `json:"id"`
	PersonaID  string    `json:"persona_id"`
	ReporterID string    `json:"reporter_id"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	Resolution string    `json:"resolution,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ResolvedAt time.Time `json:"resolved_at,omitempty"`
}
