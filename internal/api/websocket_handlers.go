// internal/api/websocket_handlers.go
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Corphon/PersonaForge/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocketHandler 处理 WebSocket 相关的 HTTP 请求
type WebSocketHandler struct {
	chatService *services.ChatService
	userService *services.UserService
}

// NewWebSocketHandler 创建 WebSocket 处理器
func NewWebSocketHandler(chatService *services.ChatService, userService *services.UserService) *WebSocketHandler {
	return &WebSocketHandler{
		chatService: chatService,
		userService: userService,
	}
}

// ChatWebSocket 处理聊天会话的 WebSocket 连接
// 浏览器无法在升级请求中携带Authorization头，令牌通过?token=查询参数传递
func (wh *WebSocketHandler) ChatWebSocket(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		http.Error(c.Writer, "会话ID缺失", http.StatusBadRequest)
		return
	}

	parsedToken, err := ParseUserToken(c.Query("token"))
	if err != nil {
		http.Error(c.Writer, "认证失败", http.StatusUnauthorized)
		return
	}

	user, err := wh.userService.GetUser(parsedToken.UserID)
	if err != nil || user.Banned {
		http.Error(c.Writer, "认证失败", http.StatusUnauthorized)
		return
	}

	// 升级前验证会话归属
	if _, err := wh.chatService.GetSession(sessionID, user.ID); err != nil {
		http.Error(c.Writer, "无权访问此会话", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ 聊天 WebSocket 升级失败: %v", err)
		return
	}
	defer conn.Close()

	client := &WebSocketClient{
		conn:      &WebSocketConnWrapper{conn},
		sessionID: sessionID,
		userID:    user.ID,
		send:      make(chan []byte, 256),
		closed:    0,
		lastPing:  time.Now(),
		createdAt: time.Now(),
	}

	select {
	case wsManager.register <- client:
		// Success
	default:
		log.Printf("❌ 无法注册 WebSocket 客户端，注册通道已满")
		return
	}

	defer func() {
		done := make(chan bool, 1)
		go func() {
			wsManager.unregister <- client
			done <- true
		}()

		select {
		case <-done:
			// Successfully unregistered
		case <-time.After(5 * time.Second):
			log.Printf("⚠️ WebSocket 客户端注销超时")
		}
	}()

	go wh.handleWebSocketWrites(client)
	go wh.handleWebSocketReads(client)

	client.SendMessage(map[string]interface{}{
		"type":       "connected",
		"session_id": sessionID,
		"timestamp":  time.Now().Format(time.RFC3339),
	})

	// 等待连接关闭
	<-c.Request.Context().Done()
	log.Printf("📱 会话 %s 的 WebSocket 连接已关闭 (用户: %s)", sessionID, user.ID)
}

// handleWebSocketReads 处理 WebSocket 读取
func (wh *WebSocketHandler) handleWebSocketReads(client *WebSocketClient) {
	defer func() {
		if !client.IsClosed() {
			select {
			case wsManager.unregister <- client:
			case <-time.After(1 * time.Second):
				log.Printf("⚠️ 读取协程关闭时注销超时")
			}
		}
	}()

	client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.conn.SetPongHandler(func(string) error {
		client.UpdatePing()
		client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if client.IsClosed() {
			break
		}

		client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		_, messageBytes, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket 读取错误: %v", err)
			}
			break
		}

		var message map[string]interface{}
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			log.Printf("⚠️ JSON解析失败: %v", err)
			continue
		}

		client.UpdatePing()

		wh.handleMessage(client, message)
	}
}

// handleWebSocketWrites 处理 WebSocket 写入
func (wh *WebSocketHandler) handleWebSocketWrites(client *WebSocketClient) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		atomic.CompareAndSwapInt32(&client.closed, 0, 1)
		func() {
			defer func() {
				if recover() != nil {
					// 通道已关闭，忽略
				}
			}()
			close(client.send)
		}()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			if client.IsClosed() {
				return
			}

			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("❌ WebSocket 写入失败: %v", err)
				return
			}

		case <-ticker.C:
			if client.IsClosed() {
				return
			}

			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("❌ WebSocket ping 失败: %v", err)
				return
			}
			client.UpdatePing()
		}
	}
}

// handleMessage 处理收到的 WebSocket 消息
func (wh *WebSocketHandler) handleMessage(client *WebSocketClient, message map[string]interface{}) {
	msgType, ok := message["type"].(string)
	if !ok {
		client.SendError("缺少消息类型")
		return
	}

	switch msgType {
	case "chat":
		wh.handleChatMessage(client, message)
	case "ping":
		client.SendMessage(map[string]interface{}{
			"type":      "pong",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	default:
		log.Printf("⚠️ 未知的消息类型: %s", msgType)
		client.SendError("未知的消息类型: " + msgType)
	}
}

// handleChatMessage 处理聊天消息并把人格回复广播给会话内所有连接
func (wh *WebSocketHandler) handleChatMessage(client *WebSocketClient, message map[string]interface{}) {
	text, ok := message["message"].(string)
	if !ok || text == "" {
		client.SendError("消息内容不能为空")
		return
	}

	// 回复生成可能含模拟延迟，放到独立协程避免阻塞读循环
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		userMsg, botMsg, err := wh.chatService.SendMessage(ctx, client.sessionID, client.userID, text)
		if err != nil {
			client.SendError(err.Error())
			return
		}

		wsManager.BroadcastToSession(client.sessionID, map[string]interface{}{
			"type":         "chat_message",
			"user_message": userMsg,
			"bot_message":  botMsg,
			"timestamp":    time.Now().Format(time.RFC3339),
		})
	}()
}
