// internal/cache/session_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/redis/go-redis/v9"
)

// SessionCache 是聊天记录的Redis热缓存
// 文件存储仍是权威数据源，缓存未命中或Redis不可用时回退到文件读取
// 键格式: chat:{sessionID}，值为消息JSON组成的列表
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache 创建会话缓存，addr为空时返回nil表示缓存关闭
func NewSessionCache(addr string, ttl time.Duration) *SessionCache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &SessionCache{client: client, ttl: ttl}
}

// NewSessionCacheWithClient 使用现有客户端创建会话缓存（测试用）
func NewSessionCacheWithClient(client *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func (c *SessionCache) key(sessionID string) string {
	return "chat:" + sessionID
}

// AppendMessage 向会话缓存追加一条消息并刷新过期时间
func (c *SessionCache) AppendMessage(ctx context.Context, sessionID string, msg models.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	key := c.key(sessionID)
	if err := c.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("写入缓存失败: %w", err)
	}
	if c.ttl > 0 {
		if err := c.client.Expire(ctx, key, c.ttl).Err(); err != nil {
			return fmt.Errorf("刷新缓存过期时间失败: %w", err)
		}
	}
	return nil
}

// Messages 读取会话缓存的全部消息
// 缓存未命中返回(nil, false, nil)，调用方应回退到文件存储
func (c *SessionCache) Messages(ctx context.Context, sessionID string) ([]models.ChatMessage, bool, error) {
	values, err := c.client.LRange(ctx, c.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, false, fmt.Errorf("读取缓存失败: %w", err)
	}
	if len(values) == 0 {
		return nil, false, nil
	}

	messages := make([]models.ChatMessage, 0, len(values))
	for _, v := range values {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(v), &msg); err != nil {
			return nil, false, fmt.Errorf("解析缓存消息失败: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, true, nil
}

// Prime 以整份会话历史重建缓存
func (c *SessionCache) Prime(ctx context.Context, sessionID string, messages []models.ChatMessage) error {
	key := c.key(sessionID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("清空缓存失败: %w", err)
	}
	for _, msg := range messages {
		if err := c.AppendMessage(ctx, sessionID, msg); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate 删除会话缓存
func (c *SessionCache) Invalidate(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, c.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}

// Ping 检查Redis连接
func (c *SessionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close 关闭底层连接
func (c *SessionCache) Close() error {
	return c.client.Close()
}
