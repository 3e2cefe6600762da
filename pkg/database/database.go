package database

import (
    "fmt"

    "gorm.io/driver/postgres"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/feedcore/config"
    "github.com/d60-Lab/feedcore/internal/model"
)

// InitDB 按配置初始化 gorm（postgres 为主，sqlite 便于本地/测试）
func InitDB(cfg *config.Config) (*gorm.DB, error) {
    var dialector gorm.Dialector
    switch cfg.Database.Driver {
    case "sqlite":
        path := cfg.Database.Path
        if path == "" {
            path = "feedcore.db"
        }
        dialector = sqlite.Open(path)
    default:
        dialector = postgres.Open(cfg.Database.DSN())
    }

    logLevel := gormlogger.Warn
    if cfg.Debug {
        logLevel = gormlogger.Info
    }

    db, err := gorm.Open(dialector, &gorm.Config{
        Logger: gormlogger.Default.LogMode(logLevel),
    })
    if err != nil {
        return nil, fmt.Errorf("open database: %w", err)
    }

    if err := db.AutoMigrate(
        &model.Content{},
        &model.ContentGroup{},
        &model.Follow{},
        &model.FeedRow{},
    ); err != nil {
        return nil, fmt.Errorf("migrate: %w", err)
    }
    return db, nil
}
