package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialect returns the pure-Go SQLite dialector for cfg.Path.
func Dialect(cfg Config) (gorm.Dialector, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	return sqlite.Open(path), nil
}

// Open connects to the database described by cfg.
func Open(cfg Config, log gormlogger.Interface) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{}
	if log != nil {
		gormCfg.Logger = log
	}

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds())
		if err := conn.Exec(pragma).Error; err != nil {
			return nil, err
		}
	}
	return conn, nil
}
