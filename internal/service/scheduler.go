package service

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/getsentry/sentry-go"
    "go.uber.org/zap"

    "github.com/d60-Lab/feedcore/internal/lock"
    "github.com/d60-Lab/feedcore/internal/model"
    "github.com/d60-Lab/feedcore/internal/repository"
)

// 多副本互斥用的固定资源名
const scheduleLockResource = "cron:content:schedule-publish"

const defaultScheduleBatchSize = 100

// PublishJob 交给外部队列执行真正发布的任务
type PublishJob struct {
    ContentID string `json:"contentId"`
    OwnerID   string `json:"ownerId"`
}

// PublishJobQueue 编排器消费的队列出口
type PublishJobQueue interface {
    EnqueuePublishJobs(ctx context.Context, jobs []PublishJob) error
}

// Locker 跨副本互斥
type Locker interface {
    Acquire(ctx context.Context, resource string, ttl time.Duration) (string, error)
    Release(ctx context.Context, resource, token string) error
}

// ScheduleOrchestrator 定时把到点的 WAITING_SCHEDULE 内容分批交给队列发布。
// 正确性依赖分布式锁而非单进程假设：抢不到锁的副本整个 tick 直接跳过。
type ScheduleOrchestrator struct {
    contentRepo   repository.ContentRepository
    queue         PublishJobQueue
    locker        Locker
    tickInterval  time.Duration
    bufferMinutes int
    batchSize     int
    lockTTL       time.Duration
    logger        *zap.Logger
}

type ScheduleOrchestratorOptions struct {
    TickInterval  time.Duration
    BufferMinutes int
    BatchSize     int
    LockTTL       time.Duration
}

func NewScheduleOrchestrator(
    contentRepo repository.ContentRepository,
    queue PublishJobQueue,
    locker Locker,
    opts ScheduleOrchestratorOptions,
    logger *zap.Logger,
) *ScheduleOrchestrator {
    if opts.TickInterval <= 0 {
        opts.TickInterval = time.Minute
    }
    if opts.BufferMinutes <= 0 {
        opts.BufferMinutes = 1
    }
    if opts.BatchSize <= 0 {
        opts.BatchSize = defaultScheduleBatchSize
    }
    if opts.LockTTL <= 0 {
        opts.LockTTL = 5 * time.Second
    }
    if logger == nil {
        logger = zap.NewNop()
    }
    return &ScheduleOrchestrator{
        contentRepo:   contentRepo,
        queue:         queue,
        locker:        locker,
        tickInterval:  opts.TickInterval,
        bufferMinutes: opts.BufferMinutes,
        batchSize:     opts.BatchSize,
        lockTTL:       opts.LockTTL,
        logger:        logger,
    }
}

// Start 启动 tick 循环，阻塞到 ctx 取消
func (o *ScheduleOrchestrator) Start(ctx context.Context) error {
    o.logger.Info("schedule orchestrator started",
        zap.Duration("tick_interval", o.tickInterval),
        zap.Int("buffer_minutes", o.bufferMinutes))

    ticker := time.NewTicker(o.tickInterval)
    defer ticker.Stop()

    for {
        select {
        case <-ctx.Done():
            o.logger.Info("schedule orchestrator stopped")
            return ctx.Err()
        case <-ticker.C:
            o.Tick(ctx)
        }
    }
}

// Tick 单次编排：抢锁 → 分页走查 → 批量入队 → 释放锁。
// 走查内的异常只记录上报，不穿透 release：卡死的锁比漏掉一个 tick 更糟，
// 下一个 tick 自然重试。
func (o *ScheduleOrchestrator) Tick(ctx context.Context) {
    token, err := o.locker.Acquire(ctx, scheduleLockResource, o.lockTTL)
    if err != nil {
        if errors.Is(err, lock.ErrLockUnavailable) {
            // 另一副本在跑，预期内的争用
            o.logger.Debug("schedule tick skipped, lock held elsewhere")
            return
        }
        o.logger.Error("schedule lock acquire failed", zap.Error(err))
        sentry.CaptureException(err)
        return
    }
    defer func() {
        if err := o.locker.Release(ctx, scheduleLockResource, token); err != nil {
            o.logger.Error("schedule lock release failed", zap.Error(err))
        }
    }()

    cutoff := time.Now().Add(time.Duration(o.bufferMinutes) * time.Minute)
    if err := o.walk(ctx, cutoff); err != nil {
        o.logger.Error("schedule walk failed", zap.Error(err))
        sentry.CaptureException(err)
    }
}

// walk 显式循环推进游标，入队先于翻页
func (o *ScheduleOrchestrator) walk(ctx context.Context, cutoff time.Time) error {
    var after string
    for {
        rows, info, err := o.contentRepo.FindScheduledContent(ctx, cutoff, after, o.batchSize)
        if err != nil {
            return fmt.Errorf("find scheduled content: %w", err)
        }
        if len(rows) == 0 {
            return nil
        }

        jobs := make([]PublishJob, 0, len(rows))
        for _, row := range rows {
            jobs = append(jobs, PublishJob{ContentID: row.ID, OwnerID: row.OwnerID})
        }
        if err := o.queue.EnqueuePublishJobs(ctx, jobs); err != nil {
            return fmt.Errorf("enqueue publish jobs: %w", err)
        }

        if !info.HasNextPage {
            return nil
        }
        after = info.EndCursor
    }
}

// CapturePublishFailure 发布执行失败后回写内容行：status=FAILED + errorLog。
// 这是本核心里唯一改内容状态的路径，编排器本身从不把内容标成已发布。
func (o *ScheduleOrchestrator) CapturePublishFailure(ctx context.Context, contentID string, publishErr error, code, stack string) error {
    errorLog := &model.ErrorLog{
        Message: publishErr.Error(),
        Code:    code,
        Stack:   stack,
    }
    return o.contentRepo.UpdateStatus(ctx, contentID, model.ContentStatusFailed, errorLog)
}
