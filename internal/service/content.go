package service

import (
    "context"
    "time"

    "github.com/google/uuid"

    "github.com/d60-Lab/feedcore/internal/model"
    "github.com/d60-Lab/feedcore/internal/repository"
)

// ContentService 内容写路径：创建、改群组、发布。
// 每次变更在提交点计算一次 StateDelta，随事件带出，调用方负责分发。
type ContentService struct {
    contentRepo repository.ContentRepository
}

func NewContentService(contentRepo repository.ContentRepository) *ContentService {
    return &ContentService{contentRepo: contentRepo}
}

type CreateContentInput struct {
    OwnerID     string
    Type        string
    GroupIDs    []string
    ScheduledAt *time.Time
}

// Create 新建内容；带未来发布时间则进入 WAITING_SCHEDULE，否则 DRAFT
func (s *ContentService) Create(ctx context.Context, in CreateContentInput) (*model.Content, error) {
    status := model.ContentStatusDraft
    if in.ScheduledAt != nil && in.ScheduledAt.After(time.Now()) {
        status = model.ContentStatusWaitingSchedule
    }
    contentType := in.Type
    if contentType == "" {
        contentType = "post"
    }
    content := &model.Content{
        ID:          uuid.New().String(),
        OwnerID:     in.OwnerID,
        Type:        contentType,
        Status:      status,
        ScheduledAt: in.ScheduledAt,
    }
    if err := s.contentRepo.Create(ctx, content, in.GroupIDs); err != nil {
        return nil, err
    }
    return content, nil
}

// UpdateGroups 改写内容的群组可见性，返回带增量的领域事件。
// 增量来自变更前后集合的纯差集，在这里计算一次，事后不再重算。
func (s *ContentService) UpdateGroups(ctx context.Context, contentID string, newGroupIDs []string) ([]ContentChanged, error) {
    content, err := s.contentRepo.FindByID(ctx, contentID)
    if err != nil {
        return nil, err
    }
    oldGroupIDs, err := s.contentRepo.FindGroupIDs(ctx, contentID)
    if err != nil {
        return nil, err
    }

    delta := TrackState(
        ContentSets{GroupIDs: oldGroupIDs},
        ContentSets{GroupIDs: newGroupIDs},
    )
    if delta.IsEmpty() {
        return nil, nil
    }

    if err := s.contentRepo.ReplaceGroups(ctx, contentID, delta.AttachGroupIDs, delta.DetachGroupIDs); err != nil {
        return nil, err
    }

    return []ContentChanged{{
        ContentID:   contentID,
        OwnerID:     content.OwnerID,
        OldGroupIDs: oldGroupIDs,
        NewGroupIDs: newGroupIDs,
        Delta:       delta,
    }}, nil
}

// MarkPublished 由发布执行方回写成功状态
func (s *ContentService) MarkPublished(ctx context.Context, contentID string) error {
    return s.contentRepo.UpdateStatus(ctx, contentID, model.ContentStatusPublished, nil)
}
