package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"famnest/apps/community-service/converter"
	"famnest/apps/community-service/model"
	"famnest/apps/community-service/service"
	"famnest/pkg/auth"
	"famnest/pkg/httpx"
	"famnest/pkg/logger"
	"famnest/pkg/middleware"
)

// HTTPHandler 社区评论HTTP处理器
type HTTPHandler struct {
	svc       *service.Service
	converter *converter.Converter
	logger    logger.Logger
}

// NewHTTPHandler 创建HTTP处理器
func NewHTTPHandler(svc *service.Service, logger logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:       svc,
		converter: converter.NewConverter(),
		logger:    logger,
	}
}

// RegisterRoutes 注册路由
func (h *HTTPHandler) RegisterRoutes(engine *gin.Engine) {
	api := engine.Group("/api/v1/community")
	{
		// 评论操作
		api.POST("/comment/create", h.CreateComment)
		api.POST("/comment/update", h.UpdateComment)
		api.POST("/comment/delete", h.DeleteComment)
		api.POST("/comment/thread", h.GetThread)

		// 社区举报
		api.POST("/report/create", h.FileReport)
	}
}

// CreateCommentRequest 提交评论请求
type CreateCommentRequest struct {
	SubjectID   int64  `json:"subject_id"`
	SubjectType string `json:"subject_type"`
	ParentID    int64  `json:"parent_id"`
	Content     string `json:"content"`
}

// UpdateCommentRequest 编辑评论请求
type UpdateCommentRequest struct {
	CommentID int64  `json:"comment_id"`
	Content   string `json:"content"`
}

// DeleteCommentRequest 删除评论请求
type DeleteCommentRequest struct {
	CommentID int64 `json:"comment_id"`
}

// GetThreadRequest 获取评论树请求
type GetThreadRequest struct {
	SubjectID   int64  `json:"subject_id"`
	SubjectType string `json:"subject_type"`
	Order       string `json:"order"`
}

// FileReportRequest 举报请求
type FileReportRequest struct {
	CommentID         int64  `json:"comment_id"`
	Reason            string `json:"reason"`
	AdditionalDetails string `json:"additional_details"`
}

// BaseResponse 通用响应壳
type BaseResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CreateComment 提交评论，同步走审核流水线
func (h *HTTPHandler) CreateComment(c *gin.Context) {
	ctx := c.Request.Context()
	var req CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid create comment request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	// 身份只认令牌，不信请求体
	params := &model.CreateCommentParams{
		SubjectID:   req.SubjectID,
		SubjectType: req.SubjectType,
		ParentID:    req.ParentID,
		AuthorID:    middleware.GetCurrentUserID(c),
		AuthorName:  middleware.GetCurrentUsername(c),
		Content:     req.Content,
	}

	comment, err := h.svc.SubmitComment(ctx, params)
	if err != nil {
		h.logger.Error(ctx, "Submit comment failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &BaseResponse{
		Success: true,
		Message: "Comment submitted",
		Data:    h.converter.CommentModelToResponse(comment),
	}, nil)
}

// UpdateComment 编辑评论
func (h *HTTPHandler) UpdateComment(c *gin.Context) {
	ctx := c.Request.Context()
	var req UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid update comment request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	params := &model.UpdateCommentParams{
		CommentID:    req.CommentID,
		ActingUserID: middleware.GetCurrentUserID(c),
		Content:      req.Content,
	}

	comment, err := h.svc.EditComment(ctx, params)
	if err != nil {
		h.logger.Error(ctx, "Update comment failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &BaseResponse{
		Success: true,
		Message: "Comment updated",
		Data:    h.converter.CommentModelToResponse(comment),
	}, nil)
}

// DeleteComment 删除评论（软删除）
func (h *HTTPHandler) DeleteComment(c *gin.Context) {
	ctx := c.Request.Context()
	var req DeleteCommentRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid delete comment request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	role := c.GetString("userRole")
	params := &model.DeleteCommentParams{
		CommentID:    req.CommentID,
		ActingUserID: middleware.GetCurrentUserID(c),
		IsModerator:  role == auth.RoleModerator || role == auth.RoleAdmin,
	}

	if err := h.svc.DeleteComment(ctx, params); err != nil {
		h.logger.Error(ctx, "Delete comment failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &BaseResponse{Success: true, Message: "Comment deleted"}, nil)
}

// GetThread 获取评论树（仅approved评论）
func (h *HTTPHandler) GetThread(c *gin.Context) {
	ctx := c.Request.Context()
	var req GetThreadRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid thread request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	params := &model.GetThreadParams{
		SubjectID:   req.SubjectID,
		SubjectType: req.SubjectType,
		Order:       req.Order,
		IncludeAll:  false,
	}

	roots, err := h.svc.GetThread(ctx, params)
	if err != nil {
		h.logger.Error(ctx, "Get thread failed", logger.F("error", err.Error()))
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

// FileReport 提交社区举报
func (h *HTTPHandler) FileReport(c *gin.Context) {
	ctx := c.Request.Context()
	var req FileReportRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error(ctx, "Invalid report request", logger.F("error", err.Error()))
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: "Invalid request format"}, err)
		return
	}

	params := &model.FileReportParams{
		CommentID:         req.CommentID,
		ReporterID:        middleware.GetCurrentUserID(c),
		Reason:            req.Reason,
		AdditionalDetails: req.AdditionalDetails,
	}

	report, err := h.svc.FileReport(ctx, params)
	if err != nil {
		h.logger.Error(ctx, "File report failed", logger.F("error", err.Error()))
		msg := setCommentErrorStatus(c, err)
		httpx.WriteObject(c, &BaseResponse{Success: false, Message: msg}, err)
		return
	}

	httpx.WriteObject(c, &BaseResponse{
		Success: true,
		Message: "Report filed",
		Data:    h.converter.ReportModelToResponse(report),
	}, nil)
}

// internalErrorMessage 5xx统一文案，不把内部错误细节透给客户端
const internalErrorMessage = "Service temporarily unavailable, please retry"

// setCommentErrorStatus 业务错误到HTTP状态码的映射，返回可回传客户端的文案
func setCommentErrorStatus(c *gin.Context, err error) string {
	switch {
	case errors.Is(err, model.ErrCommentNotFound), errors.Is(err, model.ErrParentNotFound):
		httpx.SetErrorStatus(c, http.StatusNotFound)
	case errors.Is(err, model.ErrNotCommentAuthor):
		httpx.SetErrorStatus(c, http.StatusForbidden)
	case errors.Is(err, model.ErrEmptyContent),
		errors.Is(err, model.ErrContentTooLong),
		errors.Is(err, model.ErrInvalidSubject),
		errors.Is(err, model.ErrInvalidReason),
		errors.Is(err, model.ErrDetailsRequired),
		errors.Is(err, model.ErrDetailsTooLong),
		errors.Is(err, model.ErrDepthExceeded),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrInvalidAuthor):
		httpx.SetErrorStatus(c, http.StatusBadRequest)
	default:
		httpx.SetErrorStatus(c, http.StatusInternalServerError)
		return internalErrorMessage
	}
	return err.Error()
}
