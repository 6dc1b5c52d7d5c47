// internal/api/router.go
package api

import (
	"fmt"

	"github.com/Corphon/PersonaForge/internal/config"
	"github.com/Corphon/PersonaForge/internal/di"
	"github.com/Corphon/PersonaForge/internal/services"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置HTTP路由
func SetupRouter() (*gin.Engine, error) {
	cfg := config.GetCurrentConfig()

	// 获取依赖注入容器
	container := di.GetContainer()

	// 只从容器获取服务，不再创建新实例
	userService, ok := container.Get("user").(*services.UserService)
	if !ok {
		return nil, fmt.Errorf("用户服务未正确初始化")
	}

	personaService, ok := container.Get("persona").(*services.PersonaService)
	if !ok {
		return nil, fmt.Errorf("人格服务未正确初始化")
	}

	chatService, ok := container.Get("chat").(*services.ChatService)
	if !ok {
		return nil, fmt.Errorf("聊天服务未正确初始化")
	}

	shareService, ok := container.Get("share").(*services.ShareService)
	if !ok {
		return nil, fmt.Errorf("分享服务未正确初始化")
	}

	adminService, ok := container.Get("admin").(*services.AdminService)
	if !ok {
		return nil, fmt.Errorf("管理服务未正确初始化")
	}

	statsService, ok := container.Get("stats").(*services.StatsService)
	if !ok {
		return nil, fmt.Errorf("统计服务未正确初始化")
	}

	handler := NewHandler(
		userService,
		personaService,
		chatService,
		shareService,
		adminService,
		statsService,
	)
	wsHandler := NewWebSocketHandler(chatService, userService)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// 启用CORS
	r.Use(corsMiddleware())

	// 请求ID、指标和请求量统计
	r.Use(RequestTrackingMiddleware(statsService.RecordAPIRequest))

	// WebSocket 支持（令牌在查询参数中校验，不经过认证中间件）
	r.GET("/ws/chat/:session_id", wsHandler.ChatWebSocket)

	// ===============================
	// API路由组
	// ===============================
	api := r.Group("/api")
	api.Use(AuthMiddleware(userService))
	{
		api.GET("/health", handler.Health)

		// ===============================
		// 认证相关路由
		// ===============================
		authGroup := api.Group("/auth")
		authGroup.Use(AuthRateLimit())
		{
			authGroup.POST("/register", handler.Register)
			authGroup.POST("/login", handler.Login)
		}
		api.GET("/users/me", handler.Me)

		// ===============================
		// 人格相关路由
		// ===============================
		personasGroup := api.Group("/personas")
		{
			personasGroup.POST("", GenerateRateLimit(), handler.GeneratePersona)
			personasGroup.GET("", handler.ListPersonas)
			personasGroup.GET("/:id", handler.GetPersona)
			personasGroup.PUT("/:id", handler.UpdatePersona)
			personasGroup.DELETE("/:id", handler.DeletePersona)
		}

		// ===============================
		// 聊天相关路由
		// ===============================
		sessionsGroup := api.Group("/sessions")
		{
			sessionsGroup.POST("", handler.CreateSession)
			sessionsGroup.GET("", handler.ListSessions)
			sessionsGroup.GET("/:session_id", handler.GetSession)
			sessionsGroup.DELETE("/:session_id", handler.DeleteSession)
			sessionsGroup.GET("/:session_id/messages", handler.GetMessages)
			sessionsGroup.POST("/:session_id/messages", ChatRateLimit(), handler.SendMessage)
		}

		// ===============================
		// 分享相关路由
		// ===============================
		sharesGroup := api.Group("/shares")
		{
			sharesGroup.POST("", handler.CreateShare)
			sharesGroup.GET("", handler.ListShares)
			sharesGroup.GET("/:token", handler.ResolveShare) // 公开访问
			sharesGroup.DELETE("/:token", handler.RevokeShare)
		}

		// ===============================
		// 举报路由（任何登录用户）
		// ===============================
		api.POST("/reports", handler.SubmitReport)

		// ===============================
		// 管理路由
		// ===============================
		adminGroup := api.Group("/admin")
		adminGroup.Use(RequireAdmin())
		{
			adminGroup.GET("/users", handler.ListUsers)
			adminGroup.POST("/users/:id/ban", handler.BanUser)
			adminGroup.POST("/users/:id/unban", handler.UnbanUser)
			adminGroup.GET("/personas", handler.ListAllPersonas)
			adminGroup.DELETE("/personas/:id", handler.RemovePersona)
			adminGroup.GET("/reports", handler.ListReports)
			adminGroup.POST("/reports/:id/resolve", handler.ResolveReport)
			adminGroup.GET("/stats", handler.GetStats)
			adminGroup.GET("/ws/status", handler.GetWebSocketStatus)
		}
	}

	return r, nil
}

// corsMiddleware 实现跨域资源共享
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
