package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"famnest/apps/community-service/converter"
	"famnest/apps/community-service/model"
	"famnest/apps/community-service/service"
	"famnest/pkg/httpx"
	"famnest/pkg/logger"
	"famnest/pkg/middleware"
)

// ReviewHandler 审核后台HTTP处理器
type ReviewHandler struct {
	svc       *service.Service
	converter *converter.Converter
	logger    logger.Logger
}

// NewReviewHandler 创建审核后台处理器
func NewReviewHandler(svc *service.Service, logger logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		svc:       svc,
		converter: converter.NewConverter(),
		logger:    logger,
	}
}

// RegisterRoutes 注册审核后台路由，整组要求moderator及以上角色
func (h *ReviewHandler) RegisterRoutes(engine *gin.Engine, authMW *middleware.AuthMiddleware) {
	api := engine.Group("/api/v1/community/review")
	api.Use(authMW.RequireModerator())
	{
		// 审核队列视图
		api.POST("/flagged", h.GetFlaggedComments)
		api.POST("/auto_hidden", h.GetAutoHiddenComments)
		api.POST("/reported", h.GetReportedComments)
		api.POST("/thread", h.GetReviewThread)
		api.POST("/history", h.GetAuthorHistory)
		api.POST("/search", h.SearchComments)

		// 审核日志
		api.POST("/audit", h.GetAuditLog)
		api.POST("/audit_recent", h.GetRecentAuditLog)

		// 审核动作
		api.POST("/approve", h.ApproveComment)
		api.POST("/hide", h.HideComment)
		api.POST("/delete", h.DeleteComment)
		api.POST("/restore", h.RestoreComment)
	}
}

// ReviewListRequest 审核队列分页请求
type ReviewListRequest struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

// ReviewActionRequest 审核动作请求
type ReviewActionRequest struct {
	CommentID int64  `json:"comment_id"`
	Reason    string `json:"reason"`
}

// AuditLogRequest 审核日志请求
type AuditLogRequest struct {
	CommentID int64 `json:"comment_id"`
	Limit     int64 `json:"limit"`
}

// SearchCommentsRequest 评论检索请求
type SearchCommentsRequest struct {
	Query    string `json:"query"`
	Status   string `json:"status"`
	Page     int32  `json:"page"`
	PageSize int32  `json:"page_size"`
}

// ReviewThreadRequest 审核视角的评论树请求
type ReviewThreadRequest struct {
	SubjectID   int64  `json:"subject_id"`
	SubjectType string `json:"subject_type"`
	Order       string `json:"order"`
}

// ReviewListResponse 审核队列分页响应
type ReviewListResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Total   int64       `json:"total"`
	Data    interface{} `json:"data,omitempty"`
}

type reviewListFunc func(ctx context.Context, params *model.ReviewListParams) ([]*model.Comment, int64, error)

// GetFlaggedComments 查看待复核队列
func (h *ReviewHandler) GetFlaggedComments(c *gin.Context) {
	h.listByStatus(c, h.svc.GetFlaggedComments)
}

// GetAutoHiddenComments 查看自动隐藏队列
func (h *ReviewHandler) GetAutoHiddenComments(c *gin.Context) {
	h.listByStatus(c, h.svc.GetAutoHiddenComments)
}

func (h *ReviewHandler) listByStatus(c *gin.Context, fetch reviewListFunc) {
	ctx := c.Request.Context()
	var req ReviewListRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid review list request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &ReviewListResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	params := &model.ReviewListParams{Page: req.Page, PageSize: req.PageSize}
	comments, total, err := fetch(ctx, params)
	if err != nil {
		h.logger.Error(ctx, "Review list failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &ReviewListResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &ReviewListResponse{
		Success: true,
		Message: "OK",
		Total:   total,
		Data:    h.converter.ReviewCommentModelsToResponse(comments),
	}, nil)
}

// GetReportedComments 查看被举报队列，含举报明细
func (h *ReviewHandler) GetReportedComments(c *gin.Context) {
	ctx := c.Request.Context()
	var req ReviewListRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid reported list request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &ReviewListResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	params := &model.ReviewListParams{Page: req.Page, PageSize: req.PageSize}
	reported, total, err := h.svc.GetReportedComments(ctx, params)
	if err != nil {
		h.logger.Error(ctx, "Reported list failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &ReviewListResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &ReviewListResponse{
		Success: true,
		Message: "OK",
		Total:   total,
		Data:    h.converter.ReportedCommentModelsToResponse(reported),
	}, nil)
}

// GetReviewThread 审核视角的评论树，含flagged与auto_hidden
func (h *ReviewHandler) GetReviewThread(c *gin.Context) {
	ctx := c.Request.Context()
	var req ReviewThreadRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid review thread request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	params := &model.GetThreadParams{
		SubjectID:   req.SubjectID,
		SubjectType: req.SubjectType,
		Order:       req.Order,
		IncludeAll:  true,
	}

	roots, err := h.svc.GetThread(ctx, params)
	if err != nil {
		h.logger.Error(ctx, "Review thread failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &BaseResponse{
		Success: true,
		Message: "Thread loaded",
		Data:    h.converter.CommentModelsToResponse(roots),
	}, nil)
}

// AuthorHistoryRequest 作者历史请求
type AuthorHistoryRequest struct {
	AuthorID int64 `json:"author_id"`
}

// GetAuthorHistory 查看作者近期评论与违规率
func (h *ReviewHandler) GetAuthorHistory(c *gin.Context) {
	ctx := c.Request.Context()
	var req AuthorHistoryRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid author history request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	history, err := h.svc.GetAuthorHistory(ctx, req.AuthorID)
	if err != nil {
		h.logger.Error(ctx, "Author history failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &BaseResponse{
		Success: true,
		Message: "OK",
		Data:    h.converter.AuthorHistoryModelToResponse(history),
	}, nil)
}

// SearchComments 全文检索评论
func (h *ReviewHandler) SearchComments(c *gin.Context) {
	ctx := c.Request.Context()
	var req SearchCommentsRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid search request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &ReviewListResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	params := &model.SearchCommentsParams{
		Query:    req.Query,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	comments, total, err := h.svc.SearchComments(ctx, params)
	if err != nil {
		h.logger.Error(ctx, "Search comments failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &ReviewListResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &ReviewListResponse{
		Success: true,
		Message: "OK",
		Total:   total,
		Data:    h.converter.ReviewCommentModelsToResponse(comments),
	}, nil)
}

// GetAuditLog 查看指定评论的审核日志
func (h *ReviewHandler) GetAuditLog(c *gin.Context) {
	ctx := c.Request.Context()
	var req AuditLogRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid audit log request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	entries, err := h.svc.GetAuditLogForComment(ctx, req.CommentID)
	if err != nil {
		h.logger.Error(ctx, "Get audit log failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &BaseResponse{
		Success: true,
		Message: "OK",
		Data:    h.converter.AuditLogEntryModelsToResponse(entries),
	}, nil)
}

// GetRecentAuditLog 查看最近的审核日志
func (h *ReviewHandler) GetRecentAuditLog(c *gin.Context) {
	ctx := c.Request.Context()
	var req AuditLogRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid recent audit log request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	entries, err := h.svc.GetRecentAuditLog(ctx, req.Limit)
	if err != nil {
		h.logger.Error(ctx, "Get recent audit log failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &BaseResponse{
		Success: true,
		Message: "OK",
		Data:    h.converter.AuditLogEntryModelsToResponse(entries),
	}, nil)
}

type reviewActionFunc func(ctx context.Context, params *model.ReviewActionParams) (*model.Comment, error)

// ApproveComment 人工放行
func (h *ReviewHandler) ApproveComment(c *gin.Context) {
	h.applyAction(c, "Approve comment", h.svc.ApproveComment)
}

// HideComment 人工隐藏
func (h *ReviewHandler) HideComment(c *gin.Context) {
	h.applyAction(c, "Hide comment", h.svc.HideComment)
}

// DeleteComment 人工删除
func (h *ReviewHandler) DeleteComment(c *gin.Context) {
	h.applyAction(c, "Delete comment", h.svc.ModeratorDeleteComment)
}

// RestoreComment 恢复自动隐藏的评论
func (h *ReviewHandler) RestoreComment(c *gin.Context) {
	h.applyAction(c, "Restore comment", h.svc.RestoreComment)
}

func (h *ReviewHandler) applyAction(c *gin.Context, name string, action reviewActionFunc) {
	ctx := c.Request.Context()
	var req ReviewActionRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid review action request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	params := &model.ReviewActionParams{
		CommentID:   req.CommentID,
		ModeratorID: middleware.GetCurrentUserID(c),
		Reason:      req.Reason,
	}

	comment, err := action(ctx, params)
	if err != nil {
		h.logger.Error(ctx, name+" failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &BaseResponse{
		Success: true,
		Message: "OK",
		Data:    h.converter.ReviewCommentModelToResponse(comment),
	}, nil)
}
