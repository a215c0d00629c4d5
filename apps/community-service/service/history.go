package service

import (
	"context"

	"famnest/apps/community-service/model"
	"famnest/apps/community-service/moderation"
	"famnest/pkg/utils"
)

// EvaluateAuthorHistory 统计作者近期违规率。
// 样本取最近30天内的最新20条评论，不足3条视为信誉不足不作判定
func (s *Service) EvaluateAuthorHistory(ctx context.Context, authorID int64) (moderation.HistorySignal, error) {
	since := utils.DaysAgo(model.HistoryWindowDays)

	comments, err := s.commentDAO.GetRecentByAuthor(ctx, authorID, since, model.HistorySampleLimit)
	if err != nil {
		return moderation.HistorySignal{}, err
	}

	if len(comments) < model.HistoryMinSampleSize {
		return moderation.HistorySignal{}, nil
	}

	violations := countViolations(comments)
	rate := float64(violations) / float64(len(comments))
	return moderation.HistorySignal{
		IsRepeatOffender: rate > model.RepeatOffenderRate,
		ViolationRate:    rate,
	}, nil
}

// GetAuthorHistory 审核后台的作者历史视图，窗口与惯犯判定和自动评估一致
func (s *Service) GetAuthorHistory(ctx context.Context, authorID int64) (*model.AuthorHistory, error) {
	if authorID <= 0 {
		return nil, model.ErrInvalidAuthor
	}

	since := utils.DaysAgo(model.HistoryWindowDays)
	comments, err := s.commentDAO.GetRecentByAuthor(ctx, authorID, since, model.HistorySampleLimit)
	if err != nil {
		return nil, err
	}

	history := &model.AuthorHistory{
		AuthorID:       authorID,
		SampleSize:     len(comments),
		ViolationCount: countViolations(comments),
		Comments:       comments,
	}
	if history.SampleSize >= model.HistoryMinSampleSize {
		history.ViolationRate = float64(history.ViolationCount) / float64(history.SampleSize)
		history.IsRepeatOffender = history.ViolationRate > model.RepeatOffenderRate
	}
	return history, nil
}

func countViolations(comments []*model.Comment) int {
	violations := 0
	for _, c := range comments {
		switch c.Status {
		case model.StatusFlagged, model.StatusAutoHidden, model.StatusDeleted:
			violations++
		}
	}
	return violations
}
