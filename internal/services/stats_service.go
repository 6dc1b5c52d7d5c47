// internal/services/stats_service.go
package services

import (
	"maps"
	"sort"
	"sync"
	"time"

	apperrors "github.com/Corphon/PersonaForge/internal/errors"
	"github.com/Corphon/PersonaForge/internal/storage"
)

const (
	statsDir      = "stats"
	statsFile     = "usage_stats.json"
	statsSaveWait = 30 * time.Second
)

// UsageStats 表示累计的API请求统计
type UsageStats struct {
	TodayRequests int            `json:"today_requests"`
	TotalRequests int            `json:"total_requests"`
	DailyStats    map[string]int `json:"daily_stats"`
	LastUpdated   time.Time      `json:"last_updated"`
}

// TopicCount 表示单个话题的出现次数
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// StatsSummary 是GET /api/stats返回的汇总视图
type StatsSummary struct {
	Users         int          `json:"users"`
	Personas      int          `json:"personas"`
	Sessions      int          `json:"sessions"`
	Shares        int          `json:"shares"`
	OpenReports   int          `json:"open_reports"`
	TopTopics     []TopicCount `json:"top_topics"`
	TodayRequests int          `json:"today_requests"`
	TotalRequests int          `json:"total_requests"`
	UptimeSeconds int64        `json:"uptime_seconds"`
}

// StatsService 记录请求量并汇总各项业务计数
// 请求计数在内存中累积，定时批量落盘，避免每个请求都写文件
type StatsService struct {
	fileStorage    *storage.FileStorage
	userService    *UserService
	personaService *PersonaService
	chatService    *ChatService
	shareService   *ShareService
	adminService   *AdminService

	mutex       sync.Mutex
	cachedStats *UsageStats
	startedAt   time.Time

	isDirty      bool
	lastSaveTime time.Time
}

// NewStatsService 创建统计服务并启动定时保存
func NewStatsService(fileStorage *storage.FileStorage, userService *UserService, personaService *PersonaService, chatService *ChatService, shareService *ShareService, adminService *AdminService) *StatsService {
	s := &StatsService{
		fileStorage:    fileStorage,
		userService:    userService,
		personaService: personaService,
		chatService:    chatService,
		shareService:   shareService,
		adminService:   adminService,
		startedAt:      time.Now(),
	}
	s.startPeriodicSave()
	return s
}

// RecordAPIRequest 记录一次API请求
func (s *StatsService) RecordAPIRequest() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.ensureStatsLocked()
	now := time.Now()
	today := now.Format("2006-01-02")

	// 跨天时重置当日计数
	if s.cachedStats.LastUpdated.Format("2006-01-02") != today {
		s.cachedStats.TodayRequests = 0
	}

	s.cachedStats.TodayRequests++
	s.cachedStats.TotalRequests++
	s.cachedStats.DailyStats[today]++
	s.cachedStats.LastUpdated = now
	s.isDirty = true

	if now.Sub(s.lastSaveTime) > statsSaveWait {
		s.saveStatsLocked()
	}
}

// GetUsageStats 返回请求统计的副本
func (s *StatsService) GetUsageStats() *UsageStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.ensureStatsLocked()
	daily := make(map[string]int, len(s.cachedStats.DailyStats))
	maps.Copy(daily, s.cachedStats.DailyStats)

	return &UsageStats{
		TodayRequests: s.cachedStats.TodayRequests,
		TotalRequests: s.cachedStats.TotalRequests,
		DailyStats:    daily,
		LastUpdated:   s.cachedStats.LastUpdated,
	}
}

// Summary 汇总各项业务计数和话题分布
func (s *StatsService) Summary() (*StatsSummary, error) {
	users, err := s.userService.CountUsers()
	if err != nil {
		return nil, err
	}
	personas, err := s.personaService.CountPersonas()
	if err != nil {
		return nil, err
	}
	sessions, err := s.chatService.CountSessions()
	if err != nil {
		return nil, err
	}
	shares, err := s.shareService.CountShares()
	if err != nil {
		return nil, err
	}
	openReports, err := s.adminService.CountOpenReports()
	if err != nil {
		return nil, err
	}
	topicCounts, err := s.personaService.TopicCounts()
	if err != nil {
		return nil, err
	}

	usage := s.GetUsageStats()

	return &StatsSummary{
		Users:         users,
		Personas:      personas,
		Sessions:      sessions,
		Shares:        shares,
		OpenReports:   openReports,
		TopTopics:     rankTopics(topicCounts),
		TodayRequests: usage.TodayRequests,
		TotalRequests: usage.TotalRequests,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}, nil
}

// Close 保存尚未落盘的统计数据
func (s *StatsService) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.isDirty {
		if err := s.saveStatsLocked(); err != nil {
			return err
		}
	}
	return nil
}

// ensureStatsLocked 惰性加载或初始化统计数据，调用方必须持有锁
func (s *StatsService) ensureStatsLocked() {
	if s.cachedStats != nil {
		return
	}

	var stats UsageStats
	if s.fileStorage.Exists(statsDir, statsFile) {
		if err := s.fileStorage.LoadJSON(statsDir, statsFile, &stats); err == nil {
			if stats.DailyStats == nil {
				stats.DailyStats = make(map[string]int)
			}
			s.cachedStats = &stats
			return
		}
	}

	s.cachedStats = &UsageStats{
		DailyStats:  make(map[string]int),
		LastUpdated: time.Now(),
	}
}

func (s *StatsService) saveStatsLocked() error {
	if err := s.fileStorage.SaveJSON(statsDir, statsFile, s.cachedStats); err != nil {
		return apperrors.NewProcessingError("保存统计数据失败", err)
	}
	s.isDirty = false
	s.lastSaveTime = time.Now()
	return nil
}

func (s *StatsService) startPeriodicSave() {
	go func() {
		ticker := time.NewTicker(statsSaveWait)
		defer ticker.Stop()

		for range ticker.C {
			s.mutex.Lock()
			if s.isDirty {
				s.saveStatsLocked()
			}
			s.mutex.Unlock()
		}
	}()
}

// rankTopics 按出现次数降序排列话题，次数相同时按名称排序
func rankTopics(counts map[string]int) []TopicCount {
	ranked := make([]TopicCount, 0, len(counts))
	for topic, count := range counts {
		ranked = append(ranked, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count == ranked[j].Count {
			return ranked[i].Topic < ranked[j].Topic
		}
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}
