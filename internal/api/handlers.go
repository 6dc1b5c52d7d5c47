// internal/api/handlers.go
package api

import (
	"time"

	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/services"
	"github.com/gin-gonic/gin"
)

// Handler 处理API请求
type Handler struct {
	UserService    *services.UserService    // 用户服务
	PersonaService *services.PersonaService // 人格服务
	ChatService    *services.ChatService    // 聊天服务
	ShareService   *services.ShareService   // 分享服务
	AdminService   *services.AdminService   // 管理服务
	StatsService   *services.StatsService   // 统计服务
	Response       *ResponseHelper          // 响应助手
}

// NewHandler 创建API处理器
func NewHandler(
	userService *services.UserService,
	personaService *services.PersonaService,
	chatService *services.ChatService,
	shareService *services.ShareService,
	adminService *services.AdminService,
	statsService *services.StatsService,
) *Handler {
	return &Handler{
		UserService:    userService,
		PersonaService: personaService,
		ChatService:    chatService,
		ShareService:   shareService,
		AdminService:   adminService,
		StatsService:   statsService,
		Response:       NewResponseHelper(),
	}
}

// APIResponse 标准API响应格式
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"` // 用于调试和追踪
}

// APIError 标准错误格式
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ========================================
// 认证处理器
// ========================================

// RegisterRequest 注册请求结构
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest 登录请求结构
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 认证成功的响应数据
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register 注册新用户
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	user, err := h.UserService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	token, err := GenerateUserToken(user.ID, user.Role)
	if err != nil {
		h.Response.InternalError(c, "生成令牌失败")
		return
	}

	h.Response.Created(c, &AuthResponse{Token: token, User: user.PublicView()}, "注册成功")
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	user, err := h.UserService.Login(req.Username, req.Password)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	token, err := GenerateUserToken(user.ID, user.Role)
	if err != nil {
		h.Response.InternalError(c, "生成令牌失败")
		return
	}

	h.Response.Success(c, &AuthResponse{Token: token, User: user.PublicView()}, "登录成功")
}

// Me 返回当前登录用户
func (h *Handler) Me(c *gin.Context) {
	userID, _ := GetUserFromContext(c)

	user, err := h.UserService.GetUser(userID)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, user.PublicView())
}

// ========================================
// 人格处理器
// ========================================

// GeneratePersonaRequest 生成人格的请求结构
type GeneratePersonaRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdatePersonaRequest 更新人格的请求结构
// 只有名称和标语可编辑，分析结果不可修改
type UpdatePersonaRequest struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
}

// GeneratePersona 分析文本并生成人格
func (h *Handler) GeneratePersona(c *gin.Context) {
	var req GeneratePersonaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	userID, _ := GetUserFromContext(c)
	profile, err := h.PersonaService.Generate(userID, req.Text)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Created(c, profile, "人格生成成功")
}

// ListPersonas 列出当前用户的全部人格
// 管理员可通过?all=1查看全部用户的人格
func (h *Handler) ListPersonas(c *gin.Context) {
	userID, _ := GetUserFromContext(c)

	if c.Query("all") == "1" && isAdminRequest(c) {
		personas, err := h.PersonaService.ListAll()
		if err != nil {
			h.Response.ServiceError(c, err)
			return
		}
		h.Response.Success(c, personas)
		return
	}

	personas, err := h.PersonaService.ListByOwner(userID)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, personas)
}

// GetPersona 获取单个人格
func (h *Handler) GetPersona(c *gin.Context) {
	profile, err := h.PersonaService.GetPersona(c.Param("id"))
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	// 人格档案只对所有者和管理员可见，公开访问走分享链接
	userID, _ := GetUserFromContext(c)
	if profile.OwnerID != userID && !isAdminRequest(c) {
		h.Response.Forbidden(c, "无权查看此人格")
		return
	}

	h.Response.Success(c, profile)
}

// UpdatePersona 更新人格的名称和标语
func (h *Handler) UpdatePersona(c *gin.Context) {
	var req UpdatePersonaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}
	if req.Name == "" && req.Tagline == "" {
		h.Response.BadRequest(c, "名称和标语至少提供一项")
		return
	}

	userID, _ := GetUserFromContext(c)
	profile, err := h.PersonaService.UpdatePersona(c.Param("id"), userID, isAdminRequest(c), req.Name, req.Tagline)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, profile, "人格更新成功")
}

// DeletePersona 删除人格
func (h *Handler) DeletePersona(c *gin.Context) {
	userID, _ := GetUserFromContext(c)

	if err := h.PersonaService.DeletePersona(c.Param("id"), userID, isAdminRequest(c)); err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, nil, "人格已删除")
}

// ========================================
// 聊天处理器
// ========================================

// CreateSessionRequest 创建会话的请求结构
type CreateSessionRequest struct {
	PersonaID string `json:"persona_id" binding:"required"`
}

// SendMessageRequest 发送消息的请求结构
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessageResponse 发送消息的响应数据
type SendMessageResponse struct {
	UserMessage *models.ChatMessage `json:"user_message"`
	BotMessage  *models.ChatMessage `json:"bot_message"`
}

// CreateSession 创建聊天会话
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	userID, _ := GetUserFromContext(c)
	session, err := h.ChatService.CreateSession(userID, req.PersonaID)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Created(c, session, "会话创建成功")
}

// ListSessions 列出当前用户的全部会话
func (h *Handler) ListSessions(c *gin.Context) {
	userID, _ := GetUserFromContext(c)

	sessions, err := h.ChatService.ListSessions(userID)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, sessions)
}

// GetSession 获取单个会话
func (h *Handler) GetSession(c *gin.Context) {
	userID, _ := GetUserFromContext(c)

	session, err := h.ChatService.GetSession(c.Param("session_id"), userID)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, session)
}

// GetMessages 获取会话的消息历史
func (h *Handler) GetMessages(c *gin.Context) {
	userID, _ := GetUserFromContext(c)

	messages, err := h.ChatService.Messages(c.Request.Context(), c.Param("session_id"), userID)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, messages)
}

// SendMessage 发送消息并获取人格回复
func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	userID, _ := GetUserFromContext(c)
	userMsg, botMsg, err := h.ChatService.SendMessage(c.Request.Context(), c.Param("session_id"), userID, req.Message)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, &SendMessageResponse{UserMessage: userMsg, BotMessage: botMsg})
}

// DeleteSession 删除会话
func (h *Handler) DeleteSession(c *gin.Context) {
	userID, _ := GetUserFromContext(c)

	if err := h.ChatService.DeleteSession(c.Request.Context(), c.Param("session_id"), userID, isAdminRequest(c)); err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, nil, "会话已删除")
}

// ========================================
// 分享处理器
// ========================================

// CreateShareRequest 创建分享的请求结构
type CreateShareRequest struct {
	PersonaID string `json:"persona_id" binding:"required"`
}

// SharedPersonaResponse 公开分享页的响应数据
// 不包含所有者信息和原始分析文本以外的敏感字段
type SharedPersonaResponse struct {
	Persona *models.PersonaProfile `json:"persona"`
	Hits    int                    `json:"hits"`
}

// CreateShare 创建分享链接
func (h *Handler) CreateShare(c *gin.Context) {
	var req CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	userID, _ := GetUserFromContext(c)
	share, err := h.ShareService.CreateShare(req.PersonaID, userID, isAdminRequest(c))
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Created(c, share, "分享链接创建成功")
}

// ListShares 列出当前用户创建的分享链接
func (h *Handler) ListShares(c *gin.Context) {
	userID, _ := GetUserFromContext(c)

	shares, err := h.ShareService.ListByCreator(userID)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, shares)
}

// ResolveShare 通过分享令牌查看人格（无需登录）
func (h *Handler) ResolveShare(c *gin.Context) {
	profile, share, err := h.ShareService.Resolve(c.Param("token"))
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	// 公开视图隐藏所有者
	view := *profile
	view.OwnerID = ""

	h.Response.Success(c, &SharedPersonaResponse{Persona: &view, Hits: share.Hits})
}

// RevokeShare 撤销分享链接
func (h *Handler) RevokeShare(c *gin.Context) {
	userID, _ := GetUserFromContext(c)

	if err := h.ShareService.RevokeShare(c.Param("token"), userID, isAdminRequest(c)); err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, nil, "分享链接已撤销")
}

// ========================================
// 举报和管理处理器
// ========================================

// SubmitReportRequest 提交举报的请求结构
type SubmitReportRequest struct {
	PersonaID string `json:"persona_id" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// ResolveReportRequest 处理举报的请求结构
type ResolveReportRequest struct {
	Resolution string `json:"resolution" binding:"required"`
}

// RemovePersonaRequest 管理员删除人格的请求结构
type RemovePersonaRequest struct {
	Reason string `json:"reason"`
}

// SubmitReport 提交举报，任何登录用户都可以举报
func (h *Handler) SubmitReport(c *gin.Context) {
	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	userID, _ := GetUserFromContext(c)
	report, err := h.AdminService.SubmitReport(userID, req.PersonaID, req.Reason)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Created(c, report, "举报已提交")
}

// ListReports 列出举报，支持?status=open|resolved过滤
func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.AdminService.ListReports(c.Query("status"))
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, reports)
}

// ResolveReport 处理举报
func (h *Handler) ResolveReport(c *gin.Context) {
	var req ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	userID, _ := GetUserFromContext(c)
	report, err := h.AdminService.ResolveReport(userID, c.Param("id"), req.Resolution)
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, report, "举报已处理")
}

// ListUsers 列出全部注册用户（管理端）
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.UserService.ListUsers()
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	views := make([]*models.User, 0, len(users))
	for _, user := range users {
		views = append(views, user.PublicView())
	}

	h.Response.Success(c, views)
}

// ListAllPersonas 列出全部人格（管理端）
func (h *Handler) ListAllPersonas(c *gin.Context) {
	personas, err := h.PersonaService.ListAll()
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, personas)
}

// BanUser 封禁用户
func (h *Handler) BanUser(c *gin.Context) {
	userID, _ := GetUserFromContext(c)

	user, err := h.AdminService.BanUser(userID, c.Param("id"))
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, user.PublicView(), "用户已封禁")
}

// UnbanUser 解除用户封禁
func (h *Handler) UnbanUser(c *gin.Context) {
	userID, _ := GetUserFromContext(c)

	user, err := h.AdminService.UnbanUser(userID, c.Param("id"))
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, user.PublicView(), "用户已解封")
}

// RemovePersona 管理员强制删除人格
func (h *Handler) RemovePersona(c *gin.Context) {
	var req RemovePersonaRequest
	// 原因可选，请求体为空时也允许
	_ = c.ShouldBindJSON(&req)

	userID, _ := GetUserFromContext(c)
	if err := h.AdminService.RemovePersona(userID, c.Param("id"), req.Reason); err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, nil, "人格已移除")
}

// ========================================
// 统计和健康检查处理器
// ========================================

// GetStats 返回应用统计汇总
func (h *Handler) GetStats(c *gin.Context) {
	summary, err := h.StatsService.Summary()
	if err != nil {
		h.Response.ServiceError(c, err)
		return
	}

	h.Response.Success(c, summary)
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetWebSocketStatus 获取 WebSocket 连接状态（调试用）
func (h *Handler) GetWebSocketStatus(c *gin.Context) {
	status := wsManager.GetStatus()
	status["ping_timeout_seconds"] = int(wsManager.pingTimeout.Seconds())
	status["timestamp"] = time.Now().Format(time.RFC3339)

	c.JSON(200, status)
}
