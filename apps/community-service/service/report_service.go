package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"famnest/apps/community-service/model"
	"famnest/pkg/logger"
	"famnest/pkg/snowflake"
	"famnest/pkg/telemetry"
)

// FileReport 提交社区举报。同一评论累计举报达到阈值时强制隐藏，
// 无论其当前状态如何
func (s *Service) FileReport(ctx context.Context, params *model.FileReportParams) (*model.Report, error) {
	ctx, span := telemetry.StartSpan(ctx, "community.service.FileReport")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("report.comment_id", params.CommentID),
		attribute.Int64("report.reporter_id", params.ReporterID),
		attribute.String("report.reason", params.Reason),
	)

	if err := s.validateFileReportParams(params); err != nil {
		span.SetStatus(codes.Error, "invalid parameters")
		return nil, err
	}

	report := &model.Report{
		ID:                snowflake.GenerateID(),
		CommentID:         params.CommentID,
		ReporterID:        params.ReporterID,
		Reason:            params.Reason,
		AdditionalDetails: strings.TrimSpace(params.AdditionalDetails),
		CreatedAt:         time.Now(),
	}

	count, err := s.reportDAO.FileReport(ctx, report)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to file report")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("report.total_count", count))

	s.logger.Info(ctx, "Report filed",
		logger.F("commentID", params.CommentID),
		logger.F("reporterID", params.ReporterID),
		logger.F("reason", params.Reason),
		logger.F("totalCount", count))

	if count >= model.ReportHideThreshold {
		s.hideOverThreshold(ctx, params.CommentID, count)
	}

	comment, err := s.commentDAO.GetComment(ctx, params.CommentID)
	if err == nil {
		s.publishEvent(ctx, model.EventReportFiled, comment)
	}

	span.SetStatus(codes.Ok, "report filed")
	return report, nil
}

// hideOverThreshold 举报数达标后的强制隐藏。隐藏失败只记录错误，
// 举报本身已经落库
func (s *Service) hideOverThreshold(ctx context.Context, commentID int64, count int64) {
	if err := s.commentDAO.UpdateCommentStatus(ctx, commentID, model.StatusAutoHidden); err != nil {
		s.logger.Error(ctx, "Failed to hide reported comment",
			logger.F("commentID", commentID),
			logger.F("reportCount", count),
			logger.F("error", err.Error()))
		return
	}

	s.appendAuditEntry(ctx, &model.AuditLogEntry{
		ID:        snowflake.GenerateID(),
		CommentID: commentID,
		Action:    model.AuditActionHide,
		Reason:    model.ReasonMultipleReports,
		Automated: true,
		CreatedAt: time.Now(),
	})

	comment, err := s.commentDAO.GetComment(ctx, commentID)
	if err != nil {
		s.logger.Error(ctx, "Failed to reload hidden comment",
			logger.F("commentID", commentID),
			logger.F("error", err.Error()))
		return
	}

	s.clearThreadCache(ctx, comment.SubjectID, comment.SubjectType)
	s.indexComment(ctx, comment)
	s.publishEvent(ctx, model.EventCommentHidden, comment)

	s.logger.Info(ctx, "Comment auto-hidden by report threshold",
		logger.F("commentID", commentID),
		logger.F("reportCount", count))
}

// validateFileReportParams 校验举报参数。
// reason=other时说明必填，其余原因说明可选
func (s *Service) validateFileReportParams(params *model.FileReportParams) error {
	if params.CommentID <= 0 {
		return model.ErrCommentNotFound
	}
	if params.ReporterID <= 0 {
		return fmt.Errorf("举报人ID无效")
	}
	if !model.ValidReportReason(params.Reason) {
		return model.ErrInvalidReason
	}

	details := strings.TrimSpace(params.AdditionalDetails)
	if params.Reason == model.ReportReasonOther && details == "" {
		return model.ErrDetailsRequired
	}
	if len(details) > model.MaxReportDetailsLength {
		return model.ErrDetailsTooLong
	}

	return nil
}
