package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"famnest/apps/community-service/model"
	"famnest/pkg/logger"
	"famnest/pkg/snowflake"
	"famnest/pkg/telemetry"
)

// GetFlaggedComments 获取待人工复核的评论
func (s *Service) GetFlaggedComments(ctx context.Context, params *model.ReviewListParams) ([]*model.Comment, int64, error) {
	return s.commentDAO.GetCommentsByStatus(ctx, model.StatusFlagged, params.Page, params.PageSize)
}

// GetAutoHiddenComments 获取被自动隐藏的评论
func (s *Service) GetAutoHiddenComments(ctx context.Context, params *model.ReviewListParams) ([]*model.Comment, int64, error) {
	return s.commentDAO.GetCommentsByStatus(ctx, model.StatusAutoHidden, params.Page, params.PageSize)
}

// GetReportedComments 获取被举报的评论及其举报明细
func (s *Service) GetReportedComments(ctx context.Context, params *model.ReviewListParams) ([]*model.ReportedComment, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "community.service.GetReportedComments")
	defer span.End()

	comments, total, err := s.reportDAO.GetReportedComments(ctx, params.Page, params.PageSize)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("获取被举报评论失败: %w", err)
	}

	result := make([]*model.ReportedComment, 0, len(comments))
	for _, c := range comments {
		reports, err := s.reportDAO.GetReportsForComment(ctx, c.ID)
		if err != nil {
			s.logger.Error(ctx, "Failed to load reports for comment",
				logger.F("commentID", c.ID),
				logger.F("error", err.Error()))
			reports = nil
		}
		result = append(result, &model.ReportedComment{Comment: c, Reports: reports})
	}

	span.SetAttributes(attribute.Int("review.reported_count", len(result)))
	return result, total, nil
}

// GetAuditLogForComment 获取指定评论的审核日志，按时间正序
func (s *Service) GetAuditLogForComment(ctx context.Context, commentID int64) ([]*model.AuditLogEntry, error) {
	if commentID <= 0 {
		return nil, model.ErrCommentNotFound
	}
	return s.auditDAO.ListForComment(ctx, commentID)
}

// GetRecentAuditLog 获取最近的审核日志
func (s *Service) GetRecentAuditLog(ctx context.Context, limit int64) ([]*model.AuditLogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.auditDAO.ListRecent(ctx, limit)
}

// SearchComments 全文检索评论，供审核后台使用
func (s *Service) SearchComments(ctx context.Context, params *model.SearchCommentsParams) ([]*model.Comment, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "community.service.SearchComments")
	defer span.End()

	if s.searchDAO == nil {
		return nil, 0, fmt.Errorf("搜索服务不可用")
	}
	if params.Page < 1 {
		params.Page = model.DefaultPage
	}
	if params.PageSize < 1 || params.PageSize > model.MaxPageSize {
		params.PageSize = model.DefaultPageSize
	}

	docs, total, err := s.searchDAO.SearchComments(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, 0, fmt.Errorf("搜索评论失败: %w", err)
	}

	// 以数据库记录为准回填完整字段，索引缺失的跳过
	result := make([]*model.Comment, 0, len(docs))
	for _, doc := range docs {
		comment, err := s.commentDAO.GetComment(ctx, doc.ID)
		if err != nil {
			continue
		}
		result = append(result, comment)
	}

	span.SetAttributes(attribute.Int("search.hit_count", len(result)))
	return result, total, nil
}

// ApproveComment 人工放行评论
func (s *Service) ApproveComment(ctx context.Context, params *model.ReviewActionParams) (*model.Comment, error) {
	return s.applyReviewAction(ctx, params, model.StatusApproved, model.AuditActionApprove, model.EventCommentApproved)
}

// HideComment 人工隐藏评论
func (s *Service) HideComment(ctx context.Context, params *model.ReviewActionParams) (*model.Comment, error) {
	return s.applyReviewAction(ctx, params, model.StatusAutoHidden, model.AuditActionHide, model.EventCommentHidden)
}

// ModeratorDeleteComment 人工软删除评论
func (s *Service) ModeratorDeleteComment(ctx context.Context, params *model.ReviewActionParams) (*model.Comment, error) {
	return s.applyReviewAction(ctx, params, model.StatusDeleted, model.AuditActionDelete, model.EventCommentDeleted)
}

// RestoreComment 恢复被自动隐藏的评论。
// 仅auto_hidden可恢复为approved，其余状态原样返回且不写日志
func (s *Service) RestoreComment(ctx context.Context, params *model.ReviewActionParams) (*model.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "community.service.RestoreComment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("comment.id", params.CommentID),
		attribute.Int64("moderator.id", params.ModeratorID),
	)

	comment, err := s.commentDAO.GetComment(ctx, params.CommentID)
	if err != nil {
		span.SetStatus(codes.Error, "comment not found")
		return nil, err
	}

	if comment.Status != model.StatusAutoHidden {
		span.SetAttributes(attribute.Bool("review.noop", true))
		return comment, nil
	}

	return s.applyReviewAction(ctx, params, model.StatusApproved, model.AuditActionRestore, model.EventCommentRestored)
}

// applyReviewAction 人工审核动作的统一落库路径：
// 改状态、写日志、清缓存、同步索引、发事件
func (s *Service) applyReviewAction(ctx context.Context, params *model.ReviewActionParams, targetStatus, auditAction, eventType string) (*model.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "community.service.applyReviewAction")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("comment.id", params.CommentID),
		attribute.Int64("moderator.id", params.ModeratorID),
		attribute.String("review.action", auditAction),
	)

	if params.CommentID <= 0 {
		return nil, model.ErrCommentNotFound
	}
	if params.ModeratorID <= 0 {
		return nil, fmt.Errorf("审核员ID无效")
	}

	if err := s.commentDAO.UpdateCommentStatus(ctx, params.CommentID, targetStatus); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update status")
		return nil, err
	}

	reason := params.Reason
	if reason == "" {
		reason = "moderator_" + auditAction
	}
	s.appendAuditEntry(ctx, &model.AuditLogEntry{
		ID:          snowflake.GenerateID(),
		CommentID:   params.CommentID,
		ModeratorID: params.ModeratorID,
		Action:      auditAction,
		Reason:      reason,
		Automated:   false,
		CreatedAt:   time.Now(),
	})

	comment, err := s.commentDAO.GetComment(ctx, params.CommentID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.clearThreadCache(ctx, comment.SubjectID, comment.SubjectType)
	s.indexComment(ctx, comment)
	s.publishEvent(ctx, eventType, comment)

	s.logger.Info(ctx, "Review action applied",
		logger.F("commentID", params.CommentID),
		logger.F("moderatorID", params.ModeratorID),
		logger.F("action", auditAction),
		logger.F("status", targetStatus))

	span.SetStatus(codes.Ok, "review action applied")
	return comment, nil
}
