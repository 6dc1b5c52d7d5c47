// internal/events/publisher.go
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Corphon/PersonaForge/internal/utils"
	"github.com/nats-io/nats.go"
)

// 审计事件主题前缀，完整主题形如 personaforge.audit.user.ban
const subjectPrefix = "personaforge.audit."

// AuditEvent 记录一次管理操作，发布到NATS供外部审计系统消费
type AuditEvent struct {
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher 将审计事件发布到NATS
// 审计发布是尽力而为的，发布失败只记录日志，不影响管理操作本身
type Publisher struct {
	conn   *nats.Conn
	logger *utils.Logger
}

// NewPublisher 连接NATS并创建发布器，url为空时返回nil表示审计关闭
func NewPublisher(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}

	logger := utils.GetLogger()
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warnf("NATS连接断开: %v", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Infof("NATS已重连")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("连接NATS失败: %w", err)
	}

	return &Publisher{conn: nc, logger: logger}, nil
}

// PublishAudit 发布一条审计事件，action同时作为主题后缀
// 接收者为nil时直接返回，调用方无需判空
func (p *Publisher) PublishAudit(action, actorID, targetID, detail string) {
	if p == nil {
		return
	}

	event := AuditEvent{
		Action:    action,
		ActorID:   actorID,
		TargetID:  targetID,
		Detail:    detail,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Errorf("序列化审计事件失败: %v", err)
		return
	}

	if err := p.conn.Publish(subjectPrefix+action, payload); err != nil {
		p.logger.Errorf("发布审计事件失败: %v", err)
	}
}

// Close 关闭NATS连接
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.conn.Close()
}
