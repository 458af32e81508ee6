package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string `toml:"listen_addr"`
	Port              string `toml:"port"`
	DBType            string `toml:"db_type"`
	DatabasePath      string `toml:"database_path"`
	DatabaseDSN       string `toml:"database_dsn"`
	SessionSecret     string `toml:"session_secret"`
	GinMode           string `toml:"gin_mode"`
	LogLevel          string `toml:"log_level"`
	LogFile           string `toml:"log_file"`
	LogFormatJSON     bool   `toml:"log_format_json"`
	MetricsEnabled    bool   `toml:"metrics_enabled"`
	SuperRootUserName string `toml:"super_root_user_name"`
	SuperRootPassword string `toml:"super_root_password"`
}

// Defaults 返回未做任何覆盖时的配置。
func Defaults() AppConfig {
	return AppConfig{
		Port:           "8080",
		DBType:         "sqlite",
		DatabasePath:   "liftlog.db",
		SessionSecret:  "liftlog-dev-secret",
		GinMode:        "release",
		LogLevel:       "info",
		MetricsEnabled: true,
	}
}

// Load 依次读取 .env、CONFIG_FILE 指定的 TOML 文件与环境变量，后者优先级最高。
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return AppConfig{}, err
	}
	cfg.DBType = normalizeDBType(cfg.DBType)

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate 检查数据库相关配置是否自洽。
func (c AppConfig) Validate() error {
	switch c.DBType {
	case "sqlite":
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for sqlite")
		}
	case "postgres", "mysql":
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for %s", c.DBType)
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE: %s", c.DBType)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.DatabasePath, "DATABASE_PATH")
	setString(&cfg.DatabaseDSN, "DATABASE_DSN")
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.GinMode, "GIN_MODE")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFile, "LOG_FILE")
	setString(&cfg.SuperRootUserName, "SUPER_ROOT_USER_NAME")
	setString(&cfg.SuperRootPassword, "SUPER_ROOT_PASSWORD")
	setString(&cfg.DBType, "DB_TYPE")
	if err := setBool(&cfg.LogFormatJSON, "LOG_FORMAT_JSON"); err != nil {
		return err
	}
	return setBool(&cfg.MetricsEnabled, "METRICS_ENABLED")
}

// normalizeDBType 统一大小写并处理常见别名，文件与环境变量同样适用
func normalizeDBType(raw string) string {
	dbType := strings.ToLower(strings.TrimSpace(raw))
	switch dbType {
	case "postgresql":
		return "postgres"
	case "mariadb":
		return "mysql"
	}
	return dbType
}

func setString(dst *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*dst = value
	}
}

func setBool(dst *bool, key string) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = parsed
	return nil
}
