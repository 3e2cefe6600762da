package model

import "time"

// FeedRow 个人 feed 物化行，由 fanout 按 attach/detach 维护。
// IsSeenPost 插入时恒为 false，重复插入不覆盖（insert-if-absent）。
type FeedRow struct {
    ID     string `gorm:"primaryKey;type:varchar(36)"`
    UserID string `gorm:"type:varchar(36);index:idx_feed_user;uniqueIndex:ux_feed_user_post;not null"`
    PostID string `gorm:"type:varchar(36);index:idx_feed_post;uniqueIndex:ux_feed_user_post;not null"`
    // 复合唯一键，每个 (user, post) 至多一行
    // ux_feed_user_post = (user_id, post_id)
    IsSeenPost  bool `gorm:"not null;default:false"`
    PublishedAt *time.Time
    CreatedAt   time.Time
}

func (FeedRow) TableName() string { return "user_newsfeed" }

func (f FeedRow) CursorValue(column string) interface{} {
    switch column {
    case "id":
        return f.ID
    case "post_id":
        return f.PostID
    case "published_at":
        return f.PublishedAt
    case "created_at":
        return f.CreatedAt
    default:
        return nil
    }
}
