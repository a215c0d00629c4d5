package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famnest/apps/community-service/model"
)

const moderatorID = int64(501)

func TestApproveFlaggedComment(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("you people never listen"))
	require.NoError(t, err)
	require.Equal(t, model.StatusFlagged, comment.Status)
	env.audit.entries = nil

	approved, err := env.svc.ApproveComment(context.Background(), &model.ReviewActionParams{
		CommentID:   comment.ID,
		ModeratorID: moderatorID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)

	require.Len(t, env.audit.entries, 1)
	entry := env.audit.entries[0]
	assert.Equal(t, model.AuditActionApprove, entry.Action)
	assert.Equal(t, moderatorID, entry.ModeratorID)
	assert.False(t, entry.Automated)
}

func TestHideCommentWritesAudit(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("borderline but approved"))
	require.NoError(t, err)

	hidden, err := env.svc.HideComment(context.Background(), &model.ReviewActionParams{
		CommentID:   comment.ID,
		ModeratorID: moderatorID,
		Reason:      "tone violation",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAutoHidden, hidden.Status)

	require.Len(t, env.audit.entries, 1)
	assert.Equal(t, "tone violation", env.audit.entries[0].Reason)
}

func TestModeratorDeleteComment(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("to be removed"))
	require.NoError(t, err)

	deleted, err := env.svc.ModeratorDeleteComment(context.Background(), &model.ReviewActionParams{
		CommentID:   comment.ID,
		ModeratorID: moderatorID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDeleted, deleted.Status)

	require.Len(t, env.audit.entries, 1)
	assert.Equal(t, model.AuditActionDelete, env.audit.entries[0].Action)
}

func TestRestoreAutoHiddenComment(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("click here for amazing offer"))
	require.NoError(t, err)
	require.Equal(t, model.StatusAutoHidden, comment.Status)
	env.audit.entries = nil

	restored, err := env.svc.RestoreComment(context.Background(), &model.ReviewActionParams{
		CommentID:   comment.ID,
		ModeratorID: moderatorID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, restored.Status)

	require.Len(t, env.audit.entries, 1)
	assert.Equal(t, model.AuditActionRestore, env.audit.entries[0].Action)
	assert.False(t, env.audit.entries[0].Automated)
}

func TestRestoreNonHiddenCommentIsNoop(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("you people never listen"))
	require.NoError(t, err)
	require.Equal(t, model.StatusFlagged, comment.Status)
	env.audit.entries = nil

	restored, err := env.svc.RestoreComment(context.Background(), &model.ReviewActionParams{
		CommentID:   comment.ID,
		ModeratorID: moderatorID,
	})
	require.NoError(t, err)

	// 状态不变，也不产生日志
	assert.Equal(t, model.StatusFlagged, restored.Status)
	assert.Empty(t, env.audit.entries)
}

func TestReviewActionOnMissingComment(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.ApproveComment(context.Background(), &model.ReviewActionParams{
		CommentID:   424242,
		ModeratorID: moderatorID,
	})
	assert.ErrorIs(t, err, model.ErrCommentNotFound)
}

func TestReviewQueues(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.SubmitComment(ctx, validParams("you people never listen"))
	require.NoError(t, err)
	_, err = env.svc.SubmitComment(ctx, validParams("click here for amazing offer"))
	require.NoError(t, err)
	_, err = env.svc.SubmitComment(ctx, validParams("a perfectly nice comment"))
	require.NoError(t, err)

	flagged, total, err := env.svc.GetFlaggedComments(ctx, &model.ReviewListParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, flagged, 1)
	assert.Equal(t, model.StatusFlagged, flagged[0].Status)

	hidden, total, err := env.svc.GetAutoHiddenComments(ctx, &model.ReviewListParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, hidden, 1)
	assert.Equal(t, model.StatusAutoHidden, hidden[0].Status)
}

func TestReportedQueueIncludesReports(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	comment, err := env.svc.SubmitComment(ctx, validParams("report magnet"))
	require.NoError(t, err)
	fileReport(t, env, comment.ID, 11)

	reported, total, err := env.svc.GetReportedComments(ctx, &model.ReviewListParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reported, 1)
	assert.Equal(t, comment.ID, reported[0].Comment.ID)
	require.Len(t, reported[0].Reports, 1)
	assert.Equal(t, model.ReportReasonSpam, reported[0].Reports[0].Reason)
}

func TestAuditTrailAccumulates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	comment, err := env.svc.SubmitComment(ctx, validParams("click here for amazing offer"))
	require.NoError(t, err)

	_, err = env.svc.RestoreComment(ctx, &model.ReviewActionParams{CommentID: comment.ID, ModeratorID: moderatorID})
	require.NoError(t, err)
	_, err = env.svc.HideComment(ctx, &model.ReviewActionParams{CommentID: comment.ID, ModeratorID: moderatorID})
	require.NoError(t, err)

	entries, err := env.svc.GetAuditLogForComment(ctx, comment.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// 自动隐藏、人工恢复、人工隐藏，只追加不覆盖
	assert.True(t, entries[0].Automated)
	assert.Equal(t, model.AuditActionRestore, entries[1].Action)
	assert.Equal(t, model.AuditActionHide, entries[2].Action)
}

func TestAuthorHistoryView(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 10条近期评论，4条违规（40%）
	for i := 0; i < 10; i++ {
		status := model.StatusApproved
		if i < 4 {
			status = model.StatusAutoHidden
		}
		env.comments.recent = append(env.comments.recent, &model.Comment{ID: int64(i + 1), AuthorID: 7, Status: status})
	}

	history, err := env.svc.GetAuthorHistory(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), history.AuthorID)
	assert.Equal(t, 10, history.SampleSize)
	assert.Equal(t, 4, history.ViolationCount)
	assert.InDelta(t, 0.4, history.ViolationRate, 1e-9)
	assert.True(t, history.IsRepeatOffender)
	assert.Len(t, history.Comments, 10)
}

func TestAuthorHistorySmallSampleNotJudged(t *testing.T) {
	env := newTestEnv()

	env.comments.recent = []*model.Comment{
		{ID: 1, AuthorID: 7, Status: model.StatusFlagged},
		{ID: 2, AuthorID: 7, Status: model.StatusFlagged},
	}

	history, err := env.svc.GetAuthorHistory(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, history.SampleSize)
	assert.Equal(t, 2, history.ViolationCount)
	assert.Zero(t, history.ViolationRate)
	assert.False(t, history.IsRepeatOffender)

	_, err = env.svc.GetAuthorHistory(context.Background(), 0)
	assert.ErrorIs(t, err, model.ErrInvalidAuthor)
}
