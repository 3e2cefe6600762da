package model

import (
    "time"
)

// Follow 关注关系（用户关注群组）。FollowID 单调递增，作为回填游标，
// 避免长回填期间并发新增关注被漏掉或重复。
type Follow struct {
    FollowID int64  `gorm:"primaryKey;autoIncrement"`
    UserID   string `gorm:"type:varchar(36);index:idx_follow_user;uniqueIndex:ux_follow_user_group;not null"`
    GroupID  string `gorm:"type:varchar(36);index:idx_follow_group;uniqueIndex:ux_follow_user_group;not null"`
    // 复合唯一键，避免重复关注
    // ux_follow_user_group = (user_id, group_id)
    CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
