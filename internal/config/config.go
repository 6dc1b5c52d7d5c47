// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// 当前配置的单例实例
var (
	currentConfig *AppConfig
	configMutex   sync.RWMutex
	configFile    string
)

// AppConfig 包含应用程序的所有配置
type AppConfig struct {
	// 基础配置
	Port      string `json:"port"`
	DataDir   string `json:"data_dir"`
	LogDir    string `json:"log_dir"`
	DebugMode bool   `json:"debug_mode"`

	// 外部依赖（均为可选）
	RedisAddr string `json:"redis_addr,omitempty"`
	NatsURL   string `json:"nats_url,omitempty"`

	// 业务配置
	AdminUsername  string `json:"admin_username,omitempty"` // 注册时匹配该用户名的用户自动成为管理员
	ShareTTLDays   int    `json:"share_ttl_days"`           // 分享链接有效期，0表示永不过期
	SimulateDelays bool   `json:"simulate_delays"`          // 是否模拟分析/思考延迟
	MinTextLength  int    `json:"min_text_length"`          // 人格生成的最小文本长度
}

// Config 存储从环境变量加载的基础配置
type Config struct {
	Port           string
	DataDir        string
	LogDir         string
	DebugMode      bool
	RedisAddr      string
	NatsURL        string
	AdminUsername  string
	ShareTTLDays   int
	SimulateDelays bool
	MinTextLength  int
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// 尝试加载.env文件（可选）
	godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		DataDir:        getEnvPath("DATA_DIR", "data"),
		LogDir:         getEnvPath("LOG_DIR", "logs"),
		DebugMode:      getEnvBool("DEBUG_MODE", true),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		NatsURL:        getEnv("NATS_URL", ""),
		AdminUsername:  getEnv("ADMIN_USERNAME", ""),
		ShareTTLDays:   getEnvInt("SHARE_TTL_DAYS", 30),
		SimulateDelays: getEnvBool("SIMULATE_DELAYS", false),
		MinTextLength:  getEnvInt("MIN_TEXT_LENGTH", 50),
	}

	if config.RedisAddr == "" {
		log.Println("提示: 未设置REDIS_ADDR，聊天记录热缓存关闭，仅使用文件存储")
	}
	if config.NatsURL == "" {
		log.Println("提示: 未设置NATS_URL，管理审计事件发布关闭")
	}

	return config, nil
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath 获取环境变量表示的路径，如果不存在则返回默认值
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	// 确保目录存在
	if _, err := os.Stat(path); os.IsNotExist(err) {
		err = os.MkdirAll(path, 0755)
		if err != nil {
			fmt.Printf("警告: 创建目录失败 %s: %v\n", path, err)
		}
	}

	return path
}

// getEnvBool 获取布尔类型环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt 获取整数类型环境变量
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Printf("警告: 环境变量 %s 不是合法整数: %q\n", key, value)
		return defaultValue
	}
	return n
}

// InitConfig 初始化配置管理器
func InitConfig(dataDir string) error {
	configFile = filepath.Join(dataDir, "config.json")

	baseConfig, err := Load()
	if err != nil {
		return err
	}

	configMutex.Lock()
	defer configMutex.Unlock()

	currentConfig = &AppConfig{
		Port:           baseConfig.Port,
		DataDir:        baseConfig.DataDir,
		LogDir:         baseConfig.LogDir,
		DebugMode:      baseConfig.DebugMode,
		RedisAddr:      baseConfig.RedisAddr,
		NatsURL:        baseConfig.NatsURL,
		AdminUsername:  baseConfig.AdminUsername,
		ShareTTLDays:   baseConfig.ShareTTLDays,
		SimulateDelays: baseConfig.SimulateDelays,
		MinTextLength:  baseConfig.MinTextLength,
	}

	// 尝试从文件加载已保存的配置，基础项始终以环境变量为准
	if _, err := os.Stat(configFile); !os.IsNotExist(err) {
		data, err := os.ReadFile(configFile)
		if err == nil {
			var savedConfig AppConfig
			if json.Unmarshal(data, &savedConfig) == nil {
				savedConfig.Port = baseConfig.Port
				savedConfig.DataDir = baseConfig.DataDir
				savedConfig.LogDir = baseConfig.LogDir
				savedConfig.DebugMode = baseConfig.DebugMode
				savedConfig.RedisAddr = baseConfig.RedisAddr
				savedConfig.NatsURL = baseConfig.NatsURL
				savedConfig.AdminUsername = baseConfig.AdminUsername

				if savedConfig.MinTextLength <= 0 {
					savedConfig.MinTextLength = baseConfig.MinTextLength
				}

				currentConfig = &savedConfig
			}
		}
	}

	// 保存初始配置到文件
	return saveConfigLocked()
}

// GetCurrentConfig 返回当前配置的副本
func GetCurrentConfig() *AppConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if currentConfig == nil {
		// 紧急情况，返回一个基本配置
		baseConfig, _ := Load()
		return &AppConfig{
			Port:           baseConfig.Port,
			DataDir:        baseConfig.DataDir,
			LogDir:         baseConfig.LogDir,
			DebugMode:      baseConfig.DebugMode,
			RedisAddr:      baseConfig.RedisAddr,
			NatsURL:        baseConfig.NatsURL,
			AdminUsername:  baseConfig.AdminUsername,
			ShareTTLDays:   baseConfig.ShareTTLDays,
			SimulateDelays: baseConfig.SimulateDelays,
			MinTextLength:  baseConfig.MinTextLength,
		}
	}

	configCopy := *currentConfig
	return &configCopy
}

// UpdateModerationConfig 更新运行期可变的业务配置
func UpdateModerationConfig(shareTTLDays int, simulateDelays bool) error {
	configMutex.Lock()
	defer configMutex.Unlock()

	if currentConfig == nil {
		return fmt.Errorf("配置系统未初始化")
	}

	currentConfig.ShareTTLDays = shareTTLDays
	currentConfig.SimulateDelays = simulateDelays

	return saveConfigLocked()
}

// SaveConfig 保存当前配置到文件
func SaveConfig() error {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return saveConfigLocked()
}

// saveConfigLocked 序列化并写入配置文件，调用方需持有锁
func saveConfigLocked() error {
	if currentConfig == nil {
		return fmt.Errorf("没有配置可保存")
	}

	dir := filepath.Dir(configFile)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建配置目录失败: %w", err)
		}
	}

	data, err := json.MarshalIndent(currentConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	return os.WriteFile(configFile, data, 0644)
}
