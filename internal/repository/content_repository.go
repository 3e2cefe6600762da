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

type ContentRepository interface {
    Create(ctx context.Context, content *model.Content, groupIDs []string) error
    FindByID(ctx context.Context, id string) (*model.Content, error)
    FindGroupIDs(ctx context.Context, postID string) ([]string, error)
    // ReplaceGroups 在一个事务内按 attach/detach 增量改写 content_groups
    ReplaceGroups(ctx context.Context, postID string, attach, detach []string) error
    // FindPublishedContentByGroup 按群组走查已发布且未隐藏的内容，
    // 以 post_id 为 keyset 游标（afterPostID 为空表示从头）。
    FindPublishedContentByGroup(ctx context.Context, groupID, afterPostID string, limit int) ([]GroupContent, error)
    // FindScheduledContent 游标分页 status=WAITING_SCHEDULE 且 scheduled_at <= beforeDate 的内容
    FindScheduledContent(ctx context.Context, beforeDate time.Time, after string, limit int) ([]model.Content, pagination.PageInfo, error)
    UpdateStatus(ctx context.Context, id string, status model.ContentStatus, errorLog *model.ErrorLog) error
}

type contentRepository struct {
    db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository { return &contentRepository{db: db} }

func (r *contentRepository) Create(ctx context.Context, content *model.Content, groupIDs []string) error {
    return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        if err := tx.Create(content).Error; err != nil {
            return err
        }
        return createGroupRows(tx, content.ID, groupIDs)
    })
}

func (r *contentRepository) FindByID(ctx context.Context, id string) (*model.Content, error) {
    var content model.Content
    if err := r.db.WithContext(ctx).First(&content, "id = ?", id).Error; err != nil {
        return nil, err
    }
    return &content, nil
}

func (r *contentRepository) FindGroupIDs(ctx context.Context, postID string) ([]string, error) {
    var ids []string
    err := r.db.WithContext(ctx).
        Model(&model.ContentGroup{}).
        Select("group_id").
        Where("post_id = ?", postID).
        Scan(&ids).Error
    return ids, err
}

func (r *contentRepository) ReplaceGroups(ctx context.Context, postID string, attach, detach []string) error {
    return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        if len(detach) > 0 {
            if err := tx.Where("post_id = ? AND group_id IN ?", postID, detach).
                Delete(&model.ContentGroup{}).Error; err != nil {
                return err
            }
        }
        return createGroupRows(tx, postID, attach)
    })
}

func createGroupRows(tx *gorm.DB, postID string, groupIDs []string) error {
    if len(groupIDs) == 0 {
        return nil
    }
    rows := make([]model.ContentGroup, 0, len(groupIDs))
    for _, gid := range groupIDs {
        rows = append(rows, model.ContentGroup{ID: uuid.New().String(), PostID: postID, GroupID: gid})
    }
    // 幂等：重复挂载不报错
    return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// GroupContent 群组走查返回的内容引用
type GroupContent struct {
    PostID      string
    PublishedAt *time.Time
}

func (r *contentRepository) FindPublishedContentByGroup(ctx context.Context, groupID, afterPostID string, limit int) ([]GroupContent, error) {
    q := r.db.WithContext(ctx).
        Model(&model.ContentGroup{}).
        Select("content_groups.post_id", "contents.published_at").
        Joins("JOIN contents ON contents.id = content_groups.post_id").
        Where("content_groups.group_id = ?", groupID).
        Where("contents.status = ?", model.ContentStatusPublished).
        Where("contents.is_hidden = ?", false)
    if afterPostID != "" {
        q = q.Where("content_groups.post_id > ?", afterPostID)
    }
    var refs []GroupContent
    err := q.Order("content_groups.post_id ASC").Limit(limit).Scan(&refs).Error
    return refs, err
}

func (r *contentRepository) FindScheduledContent(ctx context.Context, beforeDate time.Time, after string, limit int) ([]model.Content, pagination.PageInfo, error) {
    paginator := pagination.New[model.Content](
        []pagination.Column{{Name: "scheduled_at", Time: true}, {Name: "id"}},
        pagination.Params{Limit: limit, After: after},
        pagination.DESC,
    )
    query := r.db.Model(&model.Content{}).
        Where("status = ?", model.ContentStatusWaitingSchedule).
        Where("scheduled_at <= ?", beforeDate)
    return paginator.Paginate(ctx, query)
}

func (r *contentRepository) UpdateStatus(ctx context.Context, id string, status model.ContentStatus, errorLog *model.ErrorLog) error {
    content := model.Content{Status: status, ErrorLog: errorLog}
    fields := []string{"status"}
    if errorLog != nil {
        fields = append(fields, "error_log")
    }
    if status == model.ContentStatusPublished {
        now := time.Now()
        content.PublishedAt = &now
        fields = append(fields, "published_at")
    }
    return r.db.WithContext(ctx).
        Model(&model.Content{}).
        Where("id = ?", id).
        Select(fields).
        Updates(content).Error
}
