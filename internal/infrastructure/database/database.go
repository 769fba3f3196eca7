package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bankledger/internal/config"
	"bankledger/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init 按配置初始化数据库连接
// 单机部署默认使用 SQLite 内嵌数据库；driver 配置为 mysql 时连接 MySQL
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.LogMode {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Database,
		)
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("创建数据目录失败: %w", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{Logger: gormLogger})
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 DB 失败: %w", err)
	}

	// 连接池配置
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if cfg.Driver != "mysql" {
		// SQLite 性能与可靠性调优
		_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
		_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")
		_, _ = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Account{},
		&model.AccountTransaction{},
	); err != nil {
		return fmt.Errorf("自动迁移表结构失败: %w", err)
	}
	return nil
}
