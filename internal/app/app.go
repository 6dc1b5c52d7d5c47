// internal/app/app.go
package app

import (
	"fmt"
	"time"

	"github.com/Corphon/PersonaForge/internal/cache"
	"github.com/Corphon/PersonaForge/internal/config"
	"github.com/Corphon/PersonaForge/internal/di"
	"github.com/Corphon/PersonaForge/internal/events"
	"github.com/Corphon/PersonaForge/internal/services"
	"github.com/Corphon/PersonaForge/internal/storage"
	"github.com/Corphon/PersonaForge/internal/utils"
)

// 会话缓存的过期时间
const sessionCacheTTL = 24 * time.Hour

// InitServices 按依赖顺序初始化所有服务并注册到DI容器
// 必须在config.InitConfig之后调用
func InitServices() error {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("配置未初始化")
	}

	container := di.GetContainer()
	logger := utils.GetLogger()

	// 1. 基础设施层
	fileStorage, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("初始化文件存储失败: %w", err)
	}
	container.Register("storage", fileStorage)

	sessionCache := cache.NewSessionCache(cfg.RedisAddr, sessionCacheTTL)
	if sessionCache != nil {
		container.Register("cache", sessionCache)
		logger.Infof("会话缓存已启用: %s", cfg.RedisAddr)
	}

	publisher, err := events.NewPublisher(cfg.NatsURL)
	if err != nil {
		// 审计是尽力而为的，NATS不可用不阻止启动
		logger.Warnf("连接NATS失败，审计事件发布关闭: %v", err)
		publisher = nil
	}
	if publisher != nil {
		container.Register("events", publisher)
		logger.Infof("审计事件发布已启用: %s", cfg.NatsURL)
	}

	// 2. 业务服务层，按依赖顺序注册
	userService := services.NewUserService(fileStorage, cfg.AdminUsername)
	container.Register("user", userService)

	personaService := services.NewPersonaService(fileStorage, cfg.MinTextLength, cfg.SimulateDelays)
	container.Register("persona", personaService)

	chatService := services.NewChatService(fileStorage, personaService, sessionCache, cfg.SimulateDelays)
	container.Register("chat", chatService)

	shareService := services.NewShareService(fileStorage, personaService, cfg.ShareTTLDays)
	container.Register("share", shareService)

	adminService := services.NewAdminService(fileStorage, userService, personaService, publisher)
	container.Register("admin", adminService)

	statsService := services.NewStatsService(fileStorage, userService, personaService, chatService, shareService, adminService)
	container.Register("stats", statsService)

	return nil
}

// Cleanup 关闭持有外部资源的服务
func Cleanup() {
	container := di.GetContainer()
	logger := utils.GetLogger()

	if statsService, ok := container.Get("stats").(*services.StatsService); ok {
		if err := statsService.Close(); err != nil {
			logger.Warnf("关闭统计服务失败: %v", err)
		}
	}

	if sessionCache, ok := container.Get("cache").(*cache.SessionCache); ok {
		if err := sessionCache.Close(); err != nil {
			logger.Warnf("关闭会话缓存失败: %v", err)
		}
	}

	if publisher, ok := container.Get("events").(*events.Publisher); ok {
		publisher.Close()
	}
}
