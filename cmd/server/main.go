package main

import (
    "github.com/gin-gonic/gin"
    "go.uber.org/zap"

    "github.com/d60-Lab/feedcore/config"
    "github.com/d60-Lab/feedcore/internal/api/handler"
    "github.com/d60-Lab/feedcore/internal/repository"
    "github.com/d60-Lab/feedcore/internal/service"
    "github.com/d60-Lab/feedcore/pkg/database"
    "github.com/d60-Lab/feedcore/pkg/logger"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        panic(err)
    }
    if err := logger.Init(cfg.Debug); err != nil {
        panic(err)
    }
    defer logger.Sync()
    log := logger.L()

    db, err := database.InitDB(cfg)
    if err != nil {
        log.Fatal("init database", zap.Error(err))
    }

    if !cfg.Debug {
        gin.SetMode(gin.ReleaseMode)
    }
    r := gin.Default()

    feedRepo := repository.NewFeedRepository(db)
    contentRepo := repository.NewContentRepository(db)
    followRepo := repository.NewFollowRepository(db)
    contentSvc := service.NewContentService(contentRepo)
    fanoutSvc := service.NewFanoutService(contentRepo, followRepo, feedRepo, cfg.Fanout.BatchSize, log)

    h := handler.NewHandler(feedRepo, contentRepo, followRepo, contentSvc, fanoutSvc)
    h.Register(r)

    log.Info("server listening", zap.String("addr", cfg.Server.Addr))
    if err := r.Run(cfg.Server.Addr); err != nil {
        log.Fatal("server exited", zap.Error(err))
    }
}
