// Package config 加载 config.toml、.env 与环境变量配置
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix 环境变量前缀，例如 OCEANLAND_SERVER_PORT
const EnvPrefix = "OCEANLAND"

// Duration 可从 "10s"、"1m30s" 形式解析的时长
type Duration time.Duration

// UnmarshalText 实现 encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText 实现 encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std 转换为 time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// AppConfig 应用配置
type AppConfig struct {
	Server    ServerConfig    `toml:"server" envconfig:"SERVER"`
	Data      DataConfig      `toml:"data" envconfig:"DATA"`
	Dashboard DashboardConfig `toml:"dashboard" envconfig:"DASHBOARD"`
	Remote    RemoteConfig    `toml:"remote" envconfig:"REMOTE"`
	Logging   LoggingConfig   `toml:"logging" envconfig:"LOGGING"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port            int      `toml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	DevMode         bool     `toml:"dev_mode" envconfig:"DEV_MODE"`
	ReadTimeout     Duration `toml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    Duration `toml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	MaxUploadMB     int      `toml:"max_upload_mb" envconfig:"MAX_UPLOAD_MB" validate:"min=1,max=512"`
	AllowedOrigins  []string `toml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir        string   `toml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	Backend        string   `toml:"backend" envconfig:"BACKEND" validate:"oneof=file sqlite postgres"`
	DSN            string   `toml:"dsn" envconfig:"DSN" validate:"required_if=Backend postgres"`
	AutosaveDelay  Duration `toml:"autosave_delay" envconfig:"AUTOSAVE_DELAY"`
	ExportTemplate string   `toml:"export_template" envconfig:"EXPORT_TEMPLATE"`
}

// DashboardConfig 仪表盘配置
type DashboardConfig struct {
	DefaultYear  string `toml:"default_year" envconfig:"DEFAULT_YEAR" validate:"len=4,numeric"`
	SeedDefaults bool   `toml:"seed_defaults" envconfig:"SEED_DEFAULTS"`
}

// RemoteConfig 远程数据源配置
type RemoteConfig struct {
	Enabled         bool     `toml:"enabled" envconfig:"ENABLED"`
	URL             string   `toml:"url" envconfig:"URL" validate:"omitempty,url"`
	Timeout         Duration `toml:"timeout" envconfig:"TIMEOUT"`
	RefreshInterval Duration `toml:"refresh_interval" envconfig:"REFRESH_INTERVAL"`
	MinRefreshGap   Duration `toml:"min_refresh_gap" envconfig:"MIN_REFRESH_GAP"`
	Year            string   `toml:"year" envconfig:"YEAR" validate:"omitempty,len=4,numeric"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `toml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `toml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileLoaded    bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:            20262,
			DevMode:         false,
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			MaxUploadMB:     20,
			AllowedOrigins:  []string{"*"},
		},
		Data: DataConfig{
			DataDir:       "data",
			Backend:       "file",
			AutosaveDelay: Duration(2 * time.Second),
		},
		Dashboard: DashboardConfig{
			DefaultYear:  "2024",
			SeedDefaults: true,
		},
		Remote: RemoteConfig{
			Enabled:       false,
			Timeout:       Duration(10 * time.Second),
			MinRefreshGap: Duration(5 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Remote.Enabled && c.Remote.URL == "" {
		return errors.New("invalid config: remote.url is required when remote.enabled is true")
	}
	if c.Remote.RefreshInterval < 0 || c.Remote.Timeout < 0 || c.Data.AutosaveDelay < 0 {
		return errors.New("invalid config: durations must not be negative")
	}
	return nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 默认配置文件路径（可执行文件同目录下的 config.toml）
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 加载配置并返回元信息
// 顺序：默认值 → config.toml → .env → OCEANLAND_* 环境变量，最后统一校验
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileLoaded = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	// .env 仅补充尚未设置的环境变量
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, info, fmt.Errorf("load %s: %w", envFile, err)
	}

	if os.Getenv(EnvPrefix+"_SERVER_PORT") != "" {
		info.PortSpecified = true
	}
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, info, fmt.Errorf("load config from env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// SaveConfig 保存配置到指定路径，path 为空时写入默认位置
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDataDir 确保数据目录存在并返回其绝对路径
// 相对路径以可执行文件所在目录为基准
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
