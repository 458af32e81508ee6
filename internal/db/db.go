package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/liftlog/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Models 列出需要自动迁移的全部模型，测试与 Init 共用。
func Models() []any {
	return []any{
		&User{},
		&ExerciseTemplate{},
		&TrainingPlan{},
		&TrainingDay{},
		&Exercise{},
		&WeightHistory{},
		&WorkoutLog{},
	}
}

// Open 根据 DB_TYPE 选择方言建立连接，不做迁移。
func Open(cfg config.AppConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DBType {
	case "", "sqlite":
		path := strings.TrimSpace(cfg.DatabasePath)
		if path == "" {
			path = "liftlog.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(path)
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "mysql":
		dialector = mysql.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}

	level := logger.Warn
	if strings.EqualFold(cfg.LogLevel, "debug") || strings.EqualFold(cfg.LogLevel, "trace") {
		level = logger.Info
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBType, err)
	}
	return gdb, nil
}

// Init 初始化全局数据库连接并执行自动迁移。
func Init(cfg config.AppConfig) error {
	gdb, err := Open(cfg)
	if err != nil {
		return err
	}

	if err := gdb.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	DB = gdb
	return nil
}

// Close 关闭全局连接；未初始化时为空操作。
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
