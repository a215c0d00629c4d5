package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"famnest/apps/community-service/dao"
	"famnest/apps/community-service/model"
	"famnest/apps/community-service/moderation"
	tracecontext "famnest/pkg/context"
	"famnest/pkg/kafka"
	"famnest/pkg/logger"
	"famnest/pkg/redis"
	"famnest/pkg/snowflake"
	"famnest/pkg/telemetry"
	"famnest/pkg/utils"
)

// Service 社区评论与审核服务
type Service struct {
	commentDAO dao.CommentDAO
	reportDAO  dao.ReportDAO
	auditDAO   dao.AuditLogDAO
	searchDAO  dao.SearchDAO
	matcher    *moderation.Matcher
	scorer     *moderation.Scorer
	redis      *redis.RedisClient
	producer   *kafka.Producer
	logger     logger.Logger
}

// NewService 创建社区服务实例
func NewService(
	commentDAO dao.CommentDAO,
	reportDAO dao.ReportDAO,
	auditDAO dao.AuditLogDAO,
	searchDAO dao.SearchDAO,
	redisClient *redis.RedisClient,
	producer *kafka.Producer,
	log logger.Logger,
) *Service {
	return &Service{
		commentDAO: commentDAO,
		reportDAO:  reportDAO,
		auditDAO:   auditDAO,
		searchDAO:  searchDAO,
		matcher:    moderation.NewMatcher(),
		scorer:     moderation.NewScorer(),
		redis:      redisClient,
		producer:   producer,
		logger:     log,
	}
}

// SubmitComment 提交评论并同步执行审核流水线
func (s *Service) SubmitComment(ctx context.Context, params *model.CreateCommentParams) (*model.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "community.service.SubmitComment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("comment.subject_id", params.SubjectID),
		attribute.String("comment.subject_type", params.SubjectType),
		attribute.Int64("comment.author_id", params.AuthorID),
		attribute.Int64("comment.parent_id", params.ParentID),
		attribute.Int("comment.content_length", len(params.Content)),
	)

	ctx = tracecontext.WithUserID(ctx, params.AuthorID)
	ctx = tracecontext.WithSubjectID(ctx, params.SubjectID)

	if err := s.validateCreateCommentParams(params); err != nil {
		span.SetStatus(codes.Error, "invalid parameters")
		return nil, err
	}

	// 计算层级深度，写入前强制校验
	var depth int32
	if params.ParentID > 0 {
		parent, err := s.commentDAO.GetComment(ctx, params.ParentID)
		if err != nil {
			// 只有确定父评论不存在才映射为404，存储故障原样上抛
			if errors.Is(err, model.ErrCommentNotFound) {
				span.SetStatus(codes.Error, "parent not found")
				return nil, model.ErrParentNotFound
			}
			span.SetStatus(codes.Error, "parent lookup failed")
			return nil, fmt.Errorf("查询父评论失败: %w", err)
		}
		if parent.SubjectID != params.SubjectID || parent.SubjectType != params.SubjectType {
			return nil, model.ErrInvalidSubject
		}
		depth = parent.Depth + 1
		if depth > model.MaxThreadDepth {
			span.SetStatus(codes.Error, "thread depth exceeded")
			return nil, model.ErrDepthExceeded
		}
	}

	content := strings.TrimSpace(params.Content)

	// 规则匹配与情感分析是纯计算，违规历史需要一次读库；
	// 历史读取失败时兜底转人工复核，提交本身仍然成功
	match := s.matcher.Match(content)
	sentiment := s.scorer.Score(content)

	var outcome moderation.Outcome
	history, err := s.EvaluateAuthorHistory(ctx, params.AuthorID)
	if err != nil {
		s.logger.Error(ctx, "History evaluation failed, failing closed",
			logger.F("authorID", params.AuthorID),
			logger.F("error", err.Error()))
		outcome = moderation.FailClosed(match, sentiment)
	} else {
		outcome = moderation.Decide(match, sentiment, history)
	}

	now := time.Now()
	comment := &model.Comment{
		ID:              snowflake.GenerateID(),
		SubjectID:       params.SubjectID,
		SubjectType:     params.SubjectType,
		ParentID:        params.ParentID,
		AuthorID:        params.AuthorID,
		AuthorName:      params.AuthorName,
		Content:         content,
		Status:          moderation.StatusForAction(outcome.Action),
		SentimentScore:  outcome.SentimentScore,
		Flags:           outcome.Flags,
		FlaggedKeywords: outcome.FlaggedKeywords,
		Depth:           depth,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.commentDAO.CreateComment(ctx, comment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create comment")
		return nil, fmt.Errorf("创建评论失败: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("comment.id", comment.ID),
		attribute.String("comment.status", comment.Status),
		attribute.String("moderation.action", outcome.Action),
	)

	// 非放行结果记录自动审核日志
	if !outcome.Approved {
		s.appendAuditEntry(ctx, &model.AuditLogEntry{
			ID:        snowflake.GenerateID(),
			CommentID: comment.ID,
			Action:    auditActionForOutcome(outcome.Action),
			Reason:    outcome.Reason,
			Automated: true,
			CreatedAt: now,
		})
	}

	s.clearThreadCache(ctx, comment.SubjectID, comment.SubjectType)
	s.indexComment(ctx, comment)

	s.publishEvent(ctx, model.EventCommentCreated, comment)
	switch comment.Status {
	case model.StatusFlagged:
		s.publishEvent(ctx, model.EventCommentFlagged, comment)
	case model.StatusAutoHidden:
		s.publishEvent(ctx, model.EventCommentHidden, comment)
	}

	s.logger.Info(ctx, "Comment submitted",
		logger.F("commentID", comment.ID),
		logger.F("authorID", comment.AuthorID),
		logger.F("status", comment.Status),
		logger.F("action", outcome.Action))

	span.SetStatus(codes.Ok, "comment submitted")
	return comment, nil
}

// EditComment 编辑评论。仅作者可编辑；按既定策略不重跑审核流水线，
// 避免善意的笔误修正被重新标记
func (s *Service) EditComment(ctx context.Context, params *model.UpdateCommentParams) (*model.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "community.service.EditComment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("comment.id", params.CommentID),
		attribute.Int64("user.id", params.ActingUserID),
	)
	ctx = tracecontext.WithCommentID(ctx, params.CommentID)

	content := strings.TrimSpace(params.Content)
	if err := validateContentLength(content); err != nil {
		return nil, err
	}

	comment, err := s.commentDAO.GetComment(ctx, params.CommentID)
	if err != nil {
		span.SetStatus(codes.Error, "comment not found")
		return nil, err
	}

	if !comment.CanEdit(params.ActingUserID) {
		span.SetStatus(codes.Error, "not comment author")
		return nil, model.ErrNotCommentAuthor
	}

	comment.Content = content
	comment.UpdatedAt = time.Now()

	if err := s.commentDAO.UpdateComment(ctx, comment); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("更新评论失败: %w", err)
	}

	s.clearThreadCache(ctx, comment.SubjectID, comment.SubjectType)
	s.indexComment(ctx, comment)
	s.publishEvent(ctx, model.EventCommentUpdated, comment)

	s.logger.Info(ctx, "Comment edited",
		logger.F("commentID", comment.ID),
		logger.F("userID", params.ActingUserID))

	span.SetStatus(codes.Ok, "comment edited")
	return comment, nil
}

// DeleteComment 软删除评论，作者或审核员可操作，行保留用于审计
func (s *Service) DeleteComment(ctx context.Context, params *model.DeleteCommentParams) error {
	ctx, span := telemetry.StartSpan(ctx, "community.service.DeleteComment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("comment.id", params.CommentID),
		attribute.Int64("user.id", params.ActingUserID),
		attribute.Bool("user.is_moderator", params.IsModerator),
	)

	comment, err := s.commentDAO.GetComment(ctx, params.CommentID)
	if err != nil {
		span.SetStatus(codes.Error, "comment not found")
		return err
	}

	if !comment.CanDelete(params.ActingUserID, params.IsModerator) {
		span.SetStatus(codes.Error, "permission denied")
		return model.ErrNotCommentAuthor
	}

	if err := s.commentDAO.UpdateCommentStatus(ctx, params.CommentID, model.StatusDeleted); err != nil {
		span.RecordError(err)
		return fmt.Errorf("删除评论失败: %w", err)
	}

	reason := "deleted_by_author"
	if params.IsModerator && params.ActingUserID != comment.AuthorID {
		reason = "deleted_by_moderator"
	}
	s.appendAuditEntry(ctx, &model.AuditLogEntry{
		ID:          snowflake.GenerateID(),
		CommentID:   comment.ID,
		ModeratorID: params.ActingUserID,
		Action:      model.AuditActionDelete,
		Reason:      reason,
		Automated:   false,
		CreatedAt:   time.Now(),
	})

	comment.Status = model.StatusDeleted
	s.clearThreadCache(ctx, comment.SubjectID, comment.SubjectType)
	s.indexComment(ctx, comment)
	s.publishEvent(ctx, model.EventCommentDeleted, comment)

	s.logger.Info(ctx, "Comment deleted",
		logger.F("commentID", comment.ID),
		logger.F("userID", params.ActingUserID),
		logger.F("isModerator", params.IsModerator))

	span.SetStatus(codes.Ok, "comment deleted")
	return nil
}

// GetThread 获取评论树。普通视图只含approved评论；
// 审核视图包含flagged/auto_hidden，deleted始终排除
func (s *Service) GetThread(ctx context.Context, params *model.GetThreadParams) ([]*model.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "community.service.GetThread")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("thread.subject_id", params.SubjectID),
		attribute.String("thread.subject_type", params.SubjectType),
		attribute.String("thread.order", params.Order),
	)

	if params.SubjectID <= 0 || !model.ValidSubjectType(params.SubjectType) {
		span.SetStatus(codes.Error, "invalid subject")
		return nil, model.ErrInvalidSubject
	}
	if params.Order != model.ThreadOrderOldest {
		params.Order = model.ThreadOrderNewest
	}

	// 先查缓存
	cacheKey := s.threadCacheKey(params)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey); err == nil && cached != "" {
			var roots []*model.Comment
			if err := json.Unmarshal([]byte(cached), &roots); err == nil {
				span.SetAttributes(attribute.Bool("thread.cache_hit", true))
				return roots, nil
			}
		}
	}

	statuses := []string{model.StatusApproved}
	if params.IncludeAll {
		statuses = []string{model.StatusApproved, model.StatusFlagged, model.StatusAutoHidden}
	}

	comments, err := s.commentDAO.GetCommentsBySubject(ctx, params.SubjectID, params.SubjectType, statuses)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("获取评论失败: %w", err)
	}

	roots := assembleThread(comments, params.Order)

	// 写回缓存，失败不影响结果
	if s.redis != nil {
		if payload, err := json.Marshal(roots); err == nil {
			if err := s.redis.Set(ctx, cacheKey, string(payload), model.CacheExpireTime*time.Second); err != nil {
				s.logger.Warn(ctx, "Failed to cache thread", logger.F("error", err.Error()))
			}
		}
	}

	span.SetAttributes(attribute.Int("thread.root_count", len(roots)))
	span.SetStatus(codes.Ok, "thread loaded")
	return roots, nil
}

// assembleThread 按parentId组装评论树。入参按时间正序，
// 回复保持时间正序，根评论按order重排
func assembleThread(comments []*model.Comment, order string) []*model.Comment {
	byID := make(map[int64]*model.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	roots := make([]*model.Comment, 0)
	for _, c := range comments {
		if c.ParentID == 0 {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		} else {
			// 父评论被过滤（隐藏/删除）时该回复作为孤儿不展示
			continue
		}
	}

	if order == model.ThreadOrderNewest {
		sort.SliceStable(roots, func(i, j int) bool {
			return roots[i].CreatedAt.After(roots[j].CreatedAt)
		})
	}

	return roots
}

// GetComment 获取单条评论
func (s *Service) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	if commentID <= 0 {
		return nil, model.ErrCommentNotFound
	}
	return s.commentDAO.GetComment(ctx, commentID)
}

// 辅助方法

// validateCreateCommentParams 校验提交评论参数
func (s *Service) validateCreateCommentParams(params *model.CreateCommentParams) error {
	if params.SubjectID <= 0 || !model.ValidSubjectType(params.SubjectType) {
		return model.ErrInvalidSubject
	}
	if params.AuthorID <= 0 || params.AuthorName == "" {
		return model.ErrNotCommentAuthor
	}

	return validateContentLength(strings.TrimSpace(params.Content))
}

// validateContentLength 长度限制按字符数而非字节数
func validateContentLength(content string) error {
	runes := utf8.RuneCountInString(content)
	if runes < model.MinCommentLength {
		return model.ErrEmptyContent
	}
	if runes > model.MaxCommentLength {
		return model.ErrContentTooLong
	}
	return nil
}

// auditActionForOutcome 自动审核结果到日志动作的映射
func auditActionForOutcome(action string) string {
	switch action {
	case model.ActionImmediateHide, model.ActionAutoHide:
		return model.AuditActionHide
	default:
		return model.AuditActionFlag
	}
}

// appendAuditEntry 写审核日志，失败只记录错误，不阻断主流程
func (s *Service) appendAuditEntry(ctx context.Context, entry *model.AuditLogEntry) {
	if err := s.auditDAO.Append(ctx, entry); err != nil {
		s.logger.Error(ctx, "Failed to append audit entry",
			logger.F("commentID", entry.CommentID),
			logger.F("action", entry.Action),
			logger.F("error", err.Error()))
	}
}

// threadCacheKey 评论树缓存key
func (s *Service) threadCacheKey(params *model.GetThreadParams) string {
	view := "public"
	if params.IncludeAll {
		view = "review"
	}
	return fmt.Sprintf("%s%d:%s:%s:%s", model.ThreadCachePrefix, params.SubjectID, params.SubjectType, params.Order, view)
}

// clearThreadCache 清除对象下的评论树缓存
func (s *Service) clearThreadCache(ctx context.Context, subjectID int64, subjectType string) {
	if s.redis == nil {
		return
	}
	pattern := fmt.Sprintf("%s%d:%s:*", model.ThreadCachePrefix, subjectID, subjectType)
	keys, err := s.redis.Keys(ctx, pattern)
	if err == nil && len(keys) > 0 {
		if err := s.redis.Del(ctx, keys...); err != nil {
			s.logger.Warn(ctx, "Failed to clear thread cache", logger.F("error", err.Error()))
		}
	}
}

// indexComment 同步评论到搜索索引，失败只记录错误
func (s *Service) indexComment(ctx context.Context, comment *model.Comment) {
	if s.searchDAO == nil {
		return
	}
	if err := s.searchDAO.IndexComment(ctx, comment); err != nil {
		s.logger.Error(ctx, "Failed to index comment",
			logger.F("commentID", comment.ID),
			logger.F("error", err.Error()))
	}
}

// publishEvent 发布审核事件到Kafka
func (s *Service) publishEvent(ctx context.Context, eventType string, comment *model.Comment) {
	if s.producer == nil {
		return
	}

	event := map[string]interface{}{
		"type":         eventType,
		"comment_id":   comment.ID,
		"subject_id":   comment.SubjectID,
		"subject_type": comment.SubjectType,
		"author_id":    comment.AuthorID,
		"status":       comment.Status,
		"timestamp":    utils.GetCurrentTimestamp(),
	}

	if err := s.producer.SendJSON(model.ModerationEventTopic, fmt.Sprintf("%d", comment.ID), event); err != nil {
		s.logger.Error(ctx, "Failed to publish event",
			logger.F("eventType", eventType),
			logger.F("commentID", comment.ID),
			logger.F("error", err.Error()))
	}
}
