// internal/cache/session_cache_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, ttl time.Duration) (*SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewSessionCacheWithClient(client, ttl)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestSessionCacheAppendAndRead(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	msgs := []models.ChatMessage{
		{ID: "m1", Type: models.MessageTypeUser, Message: "你好"},
		{ID: "m2", Type: models.MessageTypeBot, Message: "Hey there!"},
	}
	for _, m := range msgs {
		if err := c.AppendMessage(ctx, "sess-1", m); err != nil {
			t.Fatalf("AppendMessage失败: %v", err)
		}
	}

	got, hit, err := c.Messages(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Messages失败: %v", err)
	}
	if !hit {
		t.Fatal("期望缓存命中")
	}
	if len(got) != 2 {
		t.Fatalf("期望2条消息，实际%d条", len(got))
	}
	if got[0].ID != "m1" || got[1].ID != "m2" {
		t.Errorf("消息顺序错误: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Message != "你好" {
		t.Errorf("消息内容错误: %s", got[0].Message)
	}
}

func TestSessionCacheMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)

	got, hit, err := c.Messages(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("Messages失败: %v", err)
	}
	if hit {
		t.Error("不存在的会话不应命中缓存")
	}
	if got != nil {
		t.Errorf("未命中时应返回nil，实际: %v", got)
	}
}

func TestSessionCacheTTL(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.AppendMessage(ctx, "sess-ttl", models.ChatMessage{ID: "m1", Message: "hi"}); err != nil {
		t.Fatalf("AppendMessage失败: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, hit, err := c.Messages(ctx, "sess-ttl")
	if err != nil {
		t.Fatalf("Messages失败: %v", err)
	}
	if hit {
		t.Error("过期后不应命中缓存")
	}
}

func TestSessionCachePrimeReplacesContents(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	if err := c.AppendMessage(ctx, "sess-2", models.ChatMessage{ID: "old", Message: "stale"}); err != nil {
		t.Fatalf("AppendMessage失败: %v", err)
	}

	fresh := []models.ChatMessage{
		{ID: "a", Message: "one"},
		{ID: "b", Message: "two"},
		{ID: "c", Message: "three"},
	}
	if err := c.Prime(ctx, "sess-2", fresh); err != nil {
		t.Fatalf("Prime失败: %v", err)
	}

	got, hit, err := c.Messages(ctx, "sess-2")
	if err != nil || !hit {
		t.Fatalf("Messages失败: hit=%v, err=%v", hit, err)
	}
	if len(got) != 3 || got[0].ID != "a" {
		t.Errorf("Prime后内容错误: %+v", got)
	}
}

func TestSessionCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	if err := c.AppendMessage(ctx, "sess-3", models.ChatMessage{ID: "m1"}); err != nil {
		t.Fatalf("AppendMessage失败: %v", err)
	}
	if err := c.Invalidate(ctx, "sess-3"); err != nil {
		t.Fatalf("Invalidate失败: %v", err)
	}

	_, hit, err := c.Messages(ctx, "sess-3")
	if err != nil {
		t.Fatalf("Messages失败: %v", err)
	}
	if hit {
		t.Error("删除后不应命中缓存")
	}
}

func TestNewSessionCacheDisabled(t *testing.T) {
	if c := NewSessionCache("", time.Hour); c != nil {
		t.Error("地址为空时应返回nil")
	}
}
