package repository

import (
    "context"

    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/feedcore/internal/model"
)

// FollowerPage 一批关注者与当前走查边界
type FollowerPage struct {
    UserIDs      []string
    LastFollowID int64
}

type FollowRepository interface {
    Create(ctx context.Context, userID, groupID string) error
    Delete(ctx context.Context, userID, groupID string) error
    // FindFollowersOfGroups 返回关注 groupIDs 中任一群组、且不关注 excludeGroupIDs
    // 中任何群组的用户，按 follow_id 升序、从 afterFollowID 之后取 limit 条。
    FindFollowersOfGroups(ctx context.Context, groupIDs, excludeGroupIDs []string, afterFollowID int64, limit int) (FollowerPage, error)
    FollowedGroupIDs(ctx context.Context, userID string) ([]string, error)
}

type followRepository struct {
    db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, userID, groupID string) error {
    f := &model.Follow{UserID: userID, GroupID: groupID}
    // 幂等：重复关注不报错
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *followRepository) Delete(ctx context.Context, userID, groupID string) error {
    return r.db.WithContext(ctx).
        Where("user_id = ? AND group_id = ?", userID, groupID).
        Delete(&model.Follow{}).Error
}

func (r *followRepository) FindFollowersOfGroups(ctx context.Context, groupIDs, excludeGroupIDs []string, afterFollowID int64, limit int) (FollowerPage, error) {
    q := r.db.WithContext(ctx).
        Model(&model.Follow{}).
        Where("group_id IN ?", groupIDs).
        Where("follow_id > ?", afterFollowID)

    if len(excludeGroupIDs) > 0 {
        q = q.Where("user_id NOT IN (?)",
            r.db.Model(&model.Follow{}).Select("user_id").Where("group_id IN ?", excludeGroupIDs))
    }

    var rows []model.Follow
    if err := q.Order("follow_id ASC").Limit(limit).Find(&rows).Error; err != nil {
        return FollowerPage{}, err
    }

    page := FollowerPage{UserIDs: make([]string, 0, len(rows))}
    for _, row := range rows {
        page.UserIDs = append(page.UserIDs, row.UserID)
        page.LastFollowID = row.FollowID
    }
    return page, nil
}

func (r *followRepository) FollowedGroupIDs(ctx context.Context, userID string) ([]string, error) {
    var ids []string
    err := r.db.WithContext(ctx).
        Model(&model.Follow{}).
        Select("group_id").
        Where("user_id = ?", userID).
        Scan(&ids).Error
    return ids, err
}
