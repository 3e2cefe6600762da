package repository

import (
    "context"
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/feedcore/internal/model"
    "github.com/d60-Lab/feedcore/internal/pagination"
)

type FeedRepository interface {
    // Upsert 插入 (userID, postID) 行；已存在则 no-op，is_seen_post 不被覆盖
    Upsert(ctx context.Context, userID, postID string, publishedAt *time.Time) error
    Delete(ctx context.Context, userID, postID string) error
    Exists(ctx context.Context, userID, postID string) (bool, error)
    PaginateByUser(ctx context.Context, userID string, params pagination.Params) ([]model.FeedRow, pagination.PageInfo, error)
}

type feedRepository struct {
    db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository { return &feedRepository{db: db} }

func (r *feedRepository) Upsert(ctx context.Context, userID, postID string, publishedAt *time.Time) error {
    row := &model.FeedRow{
        ID:          uuid.New().String(),
        UserID:      userID,
        PostID:      postID,
        IsSeenPost:  false,
        PublishedAt: publishedAt,
    }
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

func (r *feedRepository) Delete(ctx context.Context, userID, postID string) error {
    return r.db.WithContext(ctx).
        Where("user_id = ? AND post_id = ?", userID, postID).
        Delete(&model.FeedRow{}).Error
}

func (r *feedRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
    var cnt int64
    err := r.db.WithContext(ctx).
        Model(&model.FeedRow{}).
        Where("user_id = ? AND post_id = ?", userID, postID).
        Count(&cnt).Error
    return cnt > 0, err
}

func (r *feedRepository) PaginateByUser(ctx context.Context, userID string, params pagination.Params) ([]model.FeedRow, pagination.PageInfo, error) {
    paginator := pagination.New[model.FeedRow](
        []pagination.Column{{Name: "created_at", Time: true}, {Name: "id"}},
        params,
        pagination.DESC,
    )
    query := r.db.Model(&model.FeedRow{}).Where("user_id = ?", userID)
    return paginator.Paginate(ctx, query)
}
