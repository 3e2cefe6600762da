package model

import "time"

// ContentStatus 内容发布状态
type ContentStatus string

const (
    ContentStatusDraft           ContentStatus = "DRAFT"
    ContentStatusWaitingSchedule ContentStatus = "WAITING_SCHEDULE"
    ContentStatusProcessing      ContentStatus = "PROCESSING"
    ContentStatusPublished       ContentStatus = "PUBLISHED"
    ContentStatusFailed          ContentStatus = "FAILED"
)

// ErrorLog 定时发布失败时写回内容行的结构化错误
type ErrorLog struct {
    Message string `json:"message"`
    Code    string `json:"code"`
    Stack   string `json:"stack"`
}

// Content 内容主体（post / article / series 收敛为同一形状）
type Content struct {
    ID          string        `gorm:"primaryKey;type:varchar(36)"`
    OwnerID     string        `gorm:"type:varchar(36);index:idx_content_owner;not null"`
    Type        string        `gorm:"type:varchar(16);not null;default:post"`
    Status      ContentStatus `gorm:"type:varchar(24);index:idx_content_status_scheduled;not null"`
    IsHidden    bool          `gorm:"not null;default:false"`
    ScheduledAt *time.Time    `gorm:"index:idx_content_status_scheduled"`
    PublishedAt *time.Time
    ErrorLog    *ErrorLog `gorm:"serializer:json"`
    CreatedAt   time.Time
    UpdatedAt   time.Time
}

func (Content) TableName() string { return "contents" }

// CursorValue 按列名暴露游标取值，供 pagination.Paginator 编码边界行
func (c Content) CursorValue(column string) interface{} {
    switch column {
    case "id":
        return c.ID
    case "scheduled_at":
        return c.ScheduledAt
    case "published_at":
        return c.PublishedAt
    case "created_at":
        return c.CreatedAt
    default:
        return nil
    }
}

// ContentGroup 内容-群组可见性
type ContentGroup struct {
    ID      string `gorm:"primaryKey;type:varchar(36)"`
    PostID  string `gorm:"type:varchar(36);index:idx_cg_post;uniqueIndex:ux_cg_post_group;not null"`
    GroupID string `gorm:"type:varchar(36);index:idx_cg_group;uniqueIndex:ux_cg_post_group;not null"`
    // 复合唯一键，避免重复挂载
    // ux_cg_post_group = (post_id, group_id)
    CreatedAt time.Time
}

func (ContentGroup) TableName() string { return "content_groups" }
