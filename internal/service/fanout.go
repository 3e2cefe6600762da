package service

import (
    "context"
    "errors"

    "github.com/getsentry/sentry-go"
    "go.uber.org/zap"
    "gorm.io/gorm"

    "github.com/d60-Lab/feedcore/internal/repository"
)

const defaultFanoutBatchSize = 1000

// FanoutService 把内容可见性变化写时传播到受影响用户的 feed 行。
// 所有写操作都是幂等单语句（插入冲突即跳过、按键删除），
// 中途崩溃后重放安全，无需跨批次的分布式事务。
type FanoutService struct {
    contentRepo repository.ContentRepository
    followRepo  repository.FollowRepository
    feedRepo    repository.FeedRepository
    batchSize   int
    logger      *zap.Logger
}

func NewFanoutService(
    contentRepo repository.ContentRepository,
    followRepo repository.FollowRepository,
    feedRepo repository.FeedRepository,
    batchSize int,
    logger *zap.Logger,
) *FanoutService {
    if batchSize <= 0 {
        batchSize = defaultFanoutBatchSize
    }
    if logger == nil {
        logger = zap.NewNop()
    }
    return &FanoutService{
        contentRepo: contentRepo,
        followRepo:  followRepo,
        feedRepo:    feedRepo,
        batchSize:   batchSize,
        logger:      logger,
    }
}

// FanoutOnWrite 按新旧群组集合的增量维护 feed 行。
// attach 走查排除旧集合（已通过保留群组可见的用户不重复插入），
// detach 走查排除新集合（仍可见的用户不删除），
// 两个排除条件保证同一用户在一次调用里至多落到一种动作。
func (s *FanoutService) FanoutOnWrite(ctx context.Context, contentID string, oldGroupIDs, newGroupIDs []string) error {
    content, err := s.contentRepo.FindByID(ctx, contentID)
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil
        }
        return err
    }
    if content.PublishedAt == nil || content.IsHidden {
        return nil
    }

    attached, detached := Diff(oldGroupIDs, newGroupIDs)

    if len(attached) > 0 {
        s.walkFollowers(ctx, attached, oldGroupIDs, func(userID string) error {
            return s.feedRepo.Upsert(ctx, userID, contentID, content.PublishedAt)
        })
    }
    if len(detached) > 0 {
        s.walkFollowers(ctx, detached, newGroupIDs, func(userID string) error {
            return s.feedRepo.Delete(ctx, userID, contentID)
        })
    }
    return nil
}

// walkFollowers 以 follow_id 为游标分批走查并逐用户执行 apply。
// 单批失败记录并上报后继续后续批次：幂等写让之后的重试安全，
// 宁可欠传播也不让剩余批次完全没有机会执行。
func (s *FanoutService) walkFollowers(ctx context.Context, groupIDs, excludeGroupIDs []string, apply func(userID string) error) {
    var afterFollowID int64
    for {
        page, err := s.followRepo.FindFollowersOfGroups(ctx, groupIDs, excludeGroupIDs, afterFollowID, s.batchSize)
        if err != nil {
            s.logger.Error("fanout: follower batch failed",
                zap.Strings("groups", groupIDs),
                zap.Int64("after_follow_id", afterFollowID),
                zap.Error(err))
            sentry.CaptureException(err)
            return
        }
        for _, userID := range page.UserIDs {
            if err := apply(userID); err != nil {
                s.logger.Error("fanout: feed row write failed",
                    zap.String("user_id", userID),
                    zap.Error(err))
                sentry.CaptureException(err)
            }
        }
        if len(page.UserIDs) < s.batchSize {
            return
        }
        afterFollowID = page.LastFollowID
    }
}

// FanoutOnFollow 用户新关注群组后的回填：按群组走查已发布内容，
// 为该用户逐条补 feed 行（同样的分批/幂等模式，索引换成 content-by-group）。
func (s *FanoutService) FanoutOnFollow(ctx context.Context, userID, groupID string) error {
    var after string
    for {
        refs, err := s.contentRepo.FindPublishedContentByGroup(ctx, groupID, after, s.batchSize)
        if err != nil {
            return err
        }
        for _, ref := range refs {
            if err := s.feedRepo.Upsert(ctx, userID, ref.PostID, ref.PublishedAt); err != nil {
                s.logger.Error("fanout: backfill upsert failed",
                    zap.String("user_id", userID),
                    zap.String("content_id", ref.PostID),
                    zap.Error(err))
                sentry.CaptureException(err)
            }
        }
        if len(refs) < s.batchSize {
            return nil
        }
        after = refs[len(refs)-1].PostID
    }
}

// FanoutOnUnfollow 取关后的清理：仅删除无法再通过其余关注群组看到的内容行
func (s *FanoutService) FanoutOnUnfollow(ctx context.Context, userID, groupID string) error {
    keptGroupIDs, err := s.followRepo.FollowedGroupIDs(ctx, userID)
    if err != nil {
        return err
    }

    var after string
    for {
        refs, err := s.contentRepo.FindPublishedContentByGroup(ctx, groupID, after, s.batchSize)
        if err != nil {
            return err
        }
        for _, ref := range refs {
            visible, err := s.visibleThroughGroups(ctx, ref.PostID, keptGroupIDs)
            if err != nil {
                s.logger.Error("fanout: visibility check failed",
                    zap.String("content_id", ref.PostID),
                    zap.Error(err))
                sentry.CaptureException(err)
                continue
            }
            if visible {
                continue
            }
            if err := s.feedRepo.Delete(ctx, userID, ref.PostID); err != nil {
                s.logger.Error("fanout: backfill delete failed",
                    zap.String("user_id", userID),
                    zap.String("content_id", ref.PostID),
                    zap.Error(err))
                sentry.CaptureException(err)
            }
        }
        if len(refs) < s.batchSize {
            return nil
        }
        after = refs[len(refs)-1].PostID
    }
}

func (s *FanoutService) visibleThroughGroups(ctx context.Context, contentID string, groupIDs []string) (bool, error) {
    if len(groupIDs) == 0 {
        return false, nil
    }
    contentGroups, err := s.contentRepo.FindGroupIDs(ctx, contentID)
    if err != nil {
        return false, err
    }
    for _, gid := range contentGroups {
        for _, kept := range groupIDs {
            if gid == kept {
                return true, nil
            }
        }
    }
    return false, nil
}
