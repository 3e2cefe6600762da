package main

import (
    "context"
    "errors"
    "os/signal"
    "syscall"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/feedcore/config"
    "github.com/d60-Lab/feedcore/internal/lock"
    "github.com/d60-Lab/feedcore/internal/queue"
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

    if cfg.Sentry.DSN != "" {
        if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
            log.Warn("sentry init failed", zap.Error(err))
        }
        defer sentry.Flush(2 * time.Second)
    }

    db, err := database.InitDB(cfg)
    if err != nil {
        log.Fatal("init database", zap.Error(err))
    }

    redisClient := redis.NewClient(&redis.Options{
        Addr:     cfg.Redis.Addr,
        Password: cfg.Redis.Password,
        DB:       cfg.Redis.DB,
    })
    defer redisClient.Close()

    mq, err := queue.NewRabbitMQ(cfg.RabbitMQ, log)
    if err != nil {
        log.Fatal("init rabbitmq", zap.Error(err))
    }
    defer mq.Close()

    orchestrator := service.NewScheduleOrchestrator(
        repository.NewContentRepository(db),
        mq,
        lock.NewRedisLock(redisClient),
        service.ScheduleOrchestratorOptions{
            TickInterval:  cfg.Schedule.TickInterval,
            BufferMinutes: cfg.Schedule.BufferMinutes,
            BatchSize:     cfg.Schedule.BatchSize,
            LockTTL:       cfg.Schedule.LockTTL,
        },
        log,
    )

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    if err := orchestrator.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
        log.Fatal("orchestrator exited", zap.Error(err))
    }
}
