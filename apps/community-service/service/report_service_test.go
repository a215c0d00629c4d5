package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famnest/apps/community-service/model"
)

func fileReport(t *testing.T, env *testEnv, commentID, reporterID int64) {
	t.Helper()
	_, err := env.svc.FileReport(context.Background(), &model.FileReportParams{
		CommentID:  commentID,
		ReporterID: reporterID,
		Reason:     model.ReportReasonSpam,
	})
	require.NoError(t, err)
}

func TestFileReportValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	comment, err := env.svc.SubmitComment(ctx, validParams("report target"))
	require.NoError(t, err)

	_, err = env.svc.FileReport(ctx, &model.FileReportParams{
		CommentID:  comment.ID,
		ReporterID: 11,
		Reason:     "disagree",
	})
	assert.ErrorIs(t, err, model.ErrInvalidReason)

	// other必须带说明
	_, err = env.svc.FileReport(ctx, &model.FileReportParams{
		CommentID:  comment.ID,
		ReporterID: 11,
		Reason:     model.ReportReasonOther,
	})
	assert.ErrorIs(t, err, model.ErrDetailsRequired)

	_, err = env.svc.FileReport(ctx, &model.FileReportParams{
		CommentID:         comment.ID,
		ReporterID:        11,
		Reason:            model.ReportReasonOther,
		AdditionalDetails: strings.Repeat("x", model.MaxReportDetailsLength+1),
	})
	assert.ErrorIs(t, err, model.ErrDetailsTooLong)

	_, err = env.svc.FileReport(ctx, &model.FileReportParams{
		CommentID:  424242,
		ReporterID: 11,
		Reason:     model.ReportReasonSpam,
	})
	assert.ErrorIs(t, err, model.ErrCommentNotFound)
}

func TestFileReportBelowThresholdKeepsStatus(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("harmless comment"))
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, comment.Status)

	fileReport(t, env, comment.ID, 11)
	fileReport(t, env, comment.ID, 12)

	assert.Equal(t, model.StatusApproved, env.comments.comments[comment.ID].Status)
	assert.Empty(t, env.audit.entries)
}

func TestFileReportThresholdForcesHide(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("harmless looking comment"))
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, comment.Status)

	fileReport(t, env, comment.ID, 11)
	fileReport(t, env, comment.ID, 12)
	fileReport(t, env, comment.ID, 13)

	assert.Equal(t, model.StatusAutoHidden, env.comments.comments[comment.ID].Status)

	require.Len(t, env.audit.entries, 1)
	entry := env.audit.entries[0]
	assert.Equal(t, model.AuditActionHide, entry.Action)
	assert.Equal(t, model.ReasonMultipleReports, entry.Reason)
	assert.True(t, entry.Automated)
	assert.Equal(t, int64(0), entry.ModeratorID)
}

func TestFileReportThresholdOverridesFlagged(t *testing.T) {
	env := newTestEnv()

	// 已经flagged的评论达到阈值也强制转auto_hidden
	comment, err := env.svc.SubmitComment(context.Background(), validParams("you people never listen"))
	require.NoError(t, err)
	require.Equal(t, model.StatusFlagged, comment.Status)
	env.audit.entries = nil

	fileReport(t, env, comment.ID, 11)
	fileReport(t, env, comment.ID, 12)
	fileReport(t, env, comment.ID, 13)

	assert.Equal(t, model.StatusAutoHidden, env.comments.comments[comment.ID].Status)
	require.Len(t, env.audit.entries, 1)
	assert.Equal(t, model.ReasonMultipleReports, env.audit.entries[0].Reason)
}
