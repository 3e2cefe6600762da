package handler

import (
    "errors"
    "strconv"
    "time"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feedcore/internal/pagination"
    "github.com/d60-Lab/feedcore/internal/repository"
    "github.com/d60-Lab/feedcore/internal/service"
    "github.com/d60-Lab/feedcore/pkg/response"
)

type Handler struct {
    feedRepo    repository.FeedRepository
    contentRepo repository.ContentRepository
    followRepo  repository.FollowRepository
    contentSvc  *service.ContentService
    fanoutSvc   *service.FanoutService
}

func NewHandler(
    feedRepo repository.FeedRepository,
    contentRepo repository.ContentRepository,
    followRepo repository.FollowRepository,
    contentSvc *service.ContentService,
    fanoutSvc *service.FanoutService,
) *Handler {
    return &Handler{
        feedRepo:    feedRepo,
        contentRepo: contentRepo,
        followRepo:  followRepo,
        contentSvc:  contentSvc,
        fanoutSvc:   fanoutSvc,
    }
}

func (h *Handler) Register(r *gin.Engine) {
    v1 := r.Group("/api/v1")
    v1.GET("/feed/:user_id", h.GetFeed)
    v1.GET("/content/scheduled", h.GetScheduled)
    v1.PUT("/content/:id/groups", h.UpdateContentGroups)
    v1.POST("/follows", h.Follow)
    v1.DELETE("/follows", h.Unfollow)
}

// GetFeed 查询用户 feed（游标分页）
// @Summary 个人 feed
// @Tags feed
// @Param user_id path string true "用户ID"
// @Param limit query int false "每页数量" default(10)
// @Param after query string false "向后游标"
// @Param before query string false "向前游标"
// @Success 200 {object} response.Response
// @Router /api/v1/feed/{user_id} [get]
func (h *Handler) GetFeed(c *gin.Context) {
    userID := c.Param("user_id")
    limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
    params := pagination.Params{
        Limit:  limit,
        After:  c.Query("after"),
        Before: c.Query("before"),
    }

    rows, info, err := h.feedRepo.PaginateByUser(c.Request.Context(), userID, params)
    if err != nil {
        if errors.Is(err, pagination.ErrInvalidCursor) {
            response.BadRequest(c, err.Error())
            return
        }
        response.InternalError(c, err)
        return
    }

    postIDs := make([]string, 0, len(rows))
    for _, row := range rows {
        postIDs = append(postIDs, row.PostID)
    }
    response.Success(c, gin.H{"list": postIDs, "page_info": info})
}

// GetScheduled 查询已到点待发布的内容（游标分页）
// @Summary 待发布内容列表
// @Tags content
// @Param limit query int false "每页数量" default(10)
// @Param after query string false "向后游标"
// @Success 200 {object} response.Response
// @Router /api/v1/content/scheduled [get]
func (h *Handler) GetScheduled(c *gin.Context) {
    limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

    rows, info, err := h.contentRepo.FindScheduledContent(
        c.Request.Context(), time.Now(), c.Query("after"), limit)
    if err != nil {
        if errors.Is(err, pagination.ErrInvalidCursor) {
            response.BadRequest(c, err.Error())
            return
        }
        response.InternalError(c, err)
        return
    }

    ids := make([]string, 0, len(rows))
    for _, row := range rows {
        ids = append(ids, row.ID)
    }
    response.Success(c, gin.H{"list": ids, "page_info": info})
}

type updateGroupsRequest struct {
    GroupIDs []string `json:"group_ids"`
}

// UpdateContentGroups 调整内容挂载的组，并同步扩散到粉丝 feed
// @Summary 更新内容分组
// @Tags content
// @Param id path string true "内容ID"
// @Param body body updateGroupsRequest true "目标组列表"
// @Success 200 {object} response.Response
// @Router /api/v1/content/{id}/groups [put]
func (h *Handler) UpdateContentGroups(c *gin.Context) {
    var req updateGroupsRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }

    events, err := h.contentSvc.UpdateGroups(c.Request.Context(), c.Param("id"), req.GroupIDs)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    for _, ev := range events {
        if err := h.fanoutSvc.FanoutOnWrite(c.Request.Context(), ev.ContentID, ev.OldGroupIDs, ev.NewGroupIDs); err != nil {
            response.InternalError(c, err)
            return
        }
    }
    response.Success(c, gin.H{"changed": len(events)})
}

type followRequest struct {
    UserID  string `json:"user_id" binding:"required"`
    GroupID string `json:"group_id" binding:"required"`
}

// Follow 关注一个组，并回填该组已发布内容
// @Summary 关注
// @Tags follow
// @Param body body followRequest true "关注请求"
// @Success 200 {object} response.Response
// @Router /api/v1/follows [post]
func (h *Handler) Follow(c *gin.Context) {
    var req followRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }

    if err := h.followRepo.Create(c.Request.Context(), req.UserID, req.GroupID); err != nil {
        response.InternalError(c, err)
        return
    }
    if err := h.fanoutSvc.FanoutOnFollow(c.Request.Context(), req.UserID, req.GroupID); err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}

// Unfollow 取消关注，并清理不再可见的 feed 行
// @Summary 取关
// @Tags follow
// @Param body body followRequest true "取关请求"
// @Success 200 {object} response.Response
// @Router /api/v1/follows [delete]
func (h *Handler) Unfollow(c *gin.Context) {
    var req followRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }

    if err := h.followRepo.Delete(c.Request.Context(), req.UserID, req.GroupID); err != nil {
        response.InternalError(c, err)
        return
    }
    if err := h.fanoutSvc.FanoutOnUnfollow(c.Request.Context(), req.UserID, req.GroupID); err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}
