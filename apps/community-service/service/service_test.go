package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famnest/apps/community-service/model"
	"famnest/pkg/logger"
	"famnest/pkg/snowflake"
)

func TestMain(m *testing.M) {
	if err := snowflake.InitGlobalSnowflake(1); err != nil {
		panic(err)
	}
	m.Run()
}

// fakeCommentDAO 内存版评论DAO
type fakeCommentDAO struct {
	comments  map[int64]*model.Comment
	recent    []*model.Comment
	recentErr error
	createErr error
	getErr    error
}

func newFakeCommentDAO() *fakeCommentDAO {
	return &fakeCommentDAO{comments: make(map[int64]*model.Comment)}
}

func (d *fakeCommentDAO) CreateComment(ctx context.Context, comment *model.Comment) error {
	if d.createErr != nil {
		return d.createErr
	}
	d.comments[comment.ID] = comment
	return nil
}

func (d *fakeCommentDAO) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	if d.getErr != nil {
		return nil, d.getErr
	}
	comment, ok := d.comments[commentID]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	return comment, nil
}

func (d *fakeCommentDAO) UpdateComment(ctx context.Context, comment *model.Comment) error {
	if _, ok := d.comments[comment.ID]; !ok {
		return model.ErrCommentNotFound
	}
	d.comments[comment.ID] = comment
	return nil
}

func (d *fakeCommentDAO) UpdateCommentStatus(ctx context.Context, commentID int64, status string) error {
	comment, ok := d.comments[commentID]
	if !ok {
		return model.ErrCommentNotFound
	}
	comment.Status = status
	return nil
}

func (d *fakeCommentDAO) GetCommentsBySubject(ctx context.Context, subjectID int64, subjectType string, statuses []string) ([]*model.Comment, error) {
	allowed := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}

	// 模拟真实DAO每次查询返回新扫描的行，避免跨调用共享Replies
	var result []*model.Comment
	for _, c := range d.comments {
		if c.SubjectID == subjectID && c.SubjectType == subjectType && allowed[c.Status] {
			cc := *c
			cc.Replies = nil
			result = append(result, &cc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (d *fakeCommentDAO) GetRecentByAuthor(ctx context.Context, authorID int64, since time.Time, limit int) ([]*model.Comment, error) {
	if d.recentErr != nil {
		return nil, d.recentErr
	}
	if len(d.recent) > limit {
		return d.recent[:limit], nil
	}
	return d.recent, nil
}

func (d *fakeCommentDAO) GetCommentsByStatus(ctx context.Context, status string, page, pageSize int32) ([]*model.Comment, int64, error) {
	var result []*model.Comment
	for _, c := range d.comments {
		if c.Status == status {
			result = append(result, c)
		}
	}
	return result, int64(len(result)), nil
}

// fakeReportDAO 内存版举报DAO
type fakeReportDAO struct {
	comments *fakeCommentDAO
	reports  []*model.Report
}

func (d *fakeReportDAO) FileReport(ctx context.Context, report *model.Report) (int64, error) {
	if _, ok := d.comments.comments[report.CommentID]; !ok {
		return 0, model.ErrCommentNotFound
	}
	d.reports = append(d.reports, report)

	var count int64
	for _, r := range d.reports {
		if r.CommentID == report.CommentID {
			count++
		}
	}
	d.comments.comments[report.CommentID].ReportCount = int32(count)
	return count, nil
}

func (d *fakeReportDAO) GetReportsForComment(ctx context.Context, commentID int64) ([]*model.Report, error) {
	var result []*model.Report
	for _, r := range d.reports {
		if r.CommentID == commentID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (d *fakeReportDAO) GetReportedComments(ctx context.Context, page, pageSize int32) ([]*model.Comment, int64, error) {
	var result []*model.Comment
	for _, c := range d.comments.comments {
		if c.ReportCount > 0 {
			result = append(result, c)
		}
	}
	return result, int64(len(result)), nil
}

// fakeAuditDAO 内存版审核日志DAO
type fakeAuditDAO struct {
	entries []*model.AuditLogEntry
}

func (d *fakeAuditDAO) Append(ctx context.Context, entry *model.AuditLogEntry) error {
	d.entries = append(d.entries, entry)
	return nil
}

func (d *fakeAuditDAO) ListForComment(ctx context.Context, commentID int64) ([]*model.AuditLogEntry, error) {
	var result []*model.AuditLogEntry
	for _, e := range d.entries {
		if e.CommentID == commentID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (d *fakeAuditDAO) ListRecent(ctx context.Context, limit int64) ([]*model.AuditLogEntry, error) {
	if int64(len(d.entries)) > limit {
		return d.entries[len(d.entries)-int(limit):], nil
	}
	return d.entries, nil
}

type testEnv struct {
	svc      *Service
	comments *fakeCommentDAO
	reports  *fakeReportDAO
	audit    *fakeAuditDAO
}

func newTestEnv() *testEnv {
	comments := newFakeCommentDAO()
	reports := &fakeReportDAO{comments: comments}
	audit := &fakeAuditDAO{}
	svc := NewService(comments, reports, audit, nil, nil, nil, logger.GetLogger())
	return &testEnv{svc: svc, comments: comments, reports: reports, audit: audit}
}

func validParams(content string) *model.CreateCommentParams {
	return &model.CreateCommentParams{
		SubjectID:   100,
		SubjectType: model.SubjectTypeArticle,
		AuthorID:    7,
		AuthorName:  "jamie",
		Content:     content,
	}
}

func TestSubmitCleanCommentApproved(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("This is a wonderful tip, thank you!"))

	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, comment.Status)
	assert.Empty(t, comment.Flags)
	assert.Empty(t, env.audit.entries, "approved comments must not produce audit entries")
}

func TestSubmitSpamCommentAutoHidden(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("Click here for amazing offer http://spam.example.com"))

	require.NoError(t, err)
	assert.Equal(t, model.StatusAutoHidden, comment.Status)
	assert.Contains(t, comment.Flags, "spam_keywords")

	require.Len(t, env.audit.entries, 1)
	entry := env.audit.entries[0]
	assert.True(t, entry.Automated)
	assert.Equal(t, int64(0), entry.ModeratorID)
	assert.Equal(t, comment.ID, entry.CommentID)
}

func TestSubmitHarmfulAdviceImmediatelyHidden(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("don't vaccinate your kids, medicine is poison"))

	require.NoError(t, err)
	assert.Equal(t, model.StatusAutoHidden, comment.Status)
	assert.Contains(t, comment.Flags, "harmful_advice_pattern")
}

func TestSubmitRepeatOffenderCleanCommentFlagged(t *testing.T) {
	env := newTestEnv()

	// 20条近期评论，7条违规（35%）
	for i := 0; i < 20; i++ {
		status := model.StatusApproved
		if i < 7 {
			status = model.StatusFlagged
		}
		env.comments.recent = append(env.comments.recent, &model.Comment{ID: int64(i + 1), Status: status})
	}

	comment, err := env.svc.SubmitComment(context.Background(), validParams("Has anyone tried the new schedule template?"))

	require.NoError(t, err)
	assert.Equal(t, model.StatusFlagged, comment.Status)

	require.Len(t, env.audit.entries, 1)
	assert.Equal(t, model.ReasonRepeatOffender, env.audit.entries[0].Reason)
}

func TestSubmitShortHistoryNotRepeatOffender(t *testing.T) {
	env := newTestEnv()

	// 只有2条历史，样本不足，全flagged也不算惯犯
	env.comments.recent = []*model.Comment{
		{ID: 1, Status: model.StatusFlagged},
		{ID: 2, Status: model.StatusFlagged},
	}

	comment, err := env.svc.SubmitComment(context.Background(), validParams("Has anyone tried the new schedule template?"))

	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, comment.Status)
}

func TestSubmitHistoryErrorFailsClosed(t *testing.T) {
	env := newTestEnv()
	env.comments.recentErr = fmt.Errorf("connection refused")

	comment, err := env.svc.SubmitComment(context.Background(), validParams("Has anyone tried the new schedule template?"))

	require.NoError(t, err, "submission itself must still succeed")
	assert.Equal(t, model.StatusFlagged, comment.Status)
	assert.Contains(t, comment.Flags, model.FlagModerationError)
}

func TestSubmitReplyDepthEnforced(t *testing.T) {
	env := newTestEnv()

	parentID := int64(0)
	// 根评论depth 0，一路回复到depth 3
	for depth := int32(0); depth <= 3; depth++ {
		params := validParams("reply chain")
		params.ParentID = parentID
		comment, err := env.svc.SubmitComment(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, depth, comment.Depth)
		parentID = comment.ID
	}

	// depth 4被拒，且不落库
	stored := len(env.comments.comments)
	params := validParams("one level too deep")
	params.ParentID = parentID
	_, err := env.svc.SubmitComment(context.Background(), params)

	assert.ErrorIs(t, err, model.ErrDepthExceeded)
	assert.Len(t, env.comments.comments, stored)
}

func TestSubmitReplyToMissingParent(t *testing.T) {
	env := newTestEnv()

	params := validParams("orphan reply")
	params.ParentID = 424242
	_, err := env.svc.SubmitComment(context.Background(), params)

	assert.ErrorIs(t, err, model.ErrParentNotFound)
}

func TestSubmitReplyParentLookupFailurePropagates(t *testing.T) {
	env := newTestEnv()

	// 存储故障不能被当成父评论不存在
	storeErr := fmt.Errorf("connection refused")
	env.comments.getErr = storeErr

	params := validParams("reply during outage")
	params.ParentID = 1
	_, err := env.svc.SubmitComment(context.Background(), params)

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrParentNotFound)
	assert.ErrorIs(t, err, storeErr)
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	empty := validParams("   ")
	_, err := env.svc.SubmitComment(ctx, empty)
	assert.ErrorIs(t, err, model.ErrEmptyContent)

	long := validParams(strings.Repeat("a", model.MaxCommentLength+1))
	_, err = env.svc.SubmitComment(ctx, long)
	assert.ErrorIs(t, err, model.ErrContentTooLong)

	badSubject := validParams("hello")
	badSubject.SubjectType = "podcast"
	_, err = env.svc.SubmitComment(ctx, badSubject)
	assert.ErrorIs(t, err, model.ErrInvalidSubject)
}

func TestContentLengthCountsCharactersNotBytes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 1500个多字节字符（4500字节）在2000字符上限内
	comment, err := env.svc.SubmitComment(ctx, validParams(strings.Repeat("好", 1500)))
	require.NoError(t, err)

	atLimit, err := env.svc.SubmitComment(ctx, validParams(strings.Repeat("好", model.MaxCommentLength)))
	require.NoError(t, err)
	assert.NotZero(t, atLimit.ID)

	_, err = env.svc.SubmitComment(ctx, validParams(strings.Repeat("好", model.MaxCommentLength+1)))
	assert.ErrorIs(t, err, model.ErrContentTooLong)

	// 编辑路径同样按字符数限制
	_, err = env.svc.EditComment(ctx, &model.UpdateCommentParams{
		CommentID:    comment.ID,
		ActingUserID: comment.AuthorID,
		Content:      strings.Repeat("好", model.MaxCommentLength+1),
	})
	assert.ErrorIs(t, err, model.ErrContentTooLong)

	updated, err := env.svc.EditComment(ctx, &model.UpdateCommentParams{
		CommentID:    comment.ID,
		ActingUserID: comment.AuthorID,
		Content:      strings.Repeat("谢", 1500),
	})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("谢", 1500), updated.Content)
}

func TestEditCommentAuthorOnly(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("original text"))
	require.NoError(t, err)

	_, err = env.svc.EditComment(context.Background(), &model.UpdateCommentParams{
		CommentID:    comment.ID,
		ActingUserID: 99,
		Content:      "hijacked",
	})
	assert.ErrorIs(t, err, model.ErrNotCommentAuthor)

	updated, err := env.svc.EditComment(context.Background(), &model.UpdateCommentParams{
		CommentID:    comment.ID,
		ActingUserID: comment.AuthorID,
		Content:      "fixed a typo",
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed a typo", updated.Content)
}

func TestEditDoesNotRerunModeration(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("perfectly fine text"))
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, comment.Status)

	// 编辑成违规内容也不重新审核
	updated, err := env.svc.EditComment(context.Background(), &model.UpdateCommentParams{
		CommentID:    comment.ID,
		ActingUserID: comment.AuthorID,
		Content:      "click here for amazing offer",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)
}

func TestDeleteCommentSoftDelete(t *testing.T) {
	env := newTestEnv()

	comment, err := env.svc.SubmitComment(context.Background(), validParams("delete me"))
	require.NoError(t, err)

	// 非作者非审核员拒绝
	err = env.svc.DeleteComment(context.Background(), &model.DeleteCommentParams{
		CommentID:    comment.ID,
		ActingUserID: 99,
	})
	assert.ErrorIs(t, err, model.ErrNotCommentAuthor)

	err = env.svc.DeleteComment(context.Background(), &model.DeleteCommentParams{
		CommentID:    comment.ID,
		ActingUserID: comment.AuthorID,
	})
	require.NoError(t, err)

	stored := env.comments.comments[comment.ID]
	assert.Equal(t, model.StatusDeleted, stored.Status)

	require.Len(t, env.audit.entries, 1)
	assert.Equal(t, model.AuditActionDelete, env.audit.entries[0].Action)
	assert.False(t, env.audit.entries[0].Automated)
}

func TestGetThreadPublicViewExcludesHidden(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	root, err := env.svc.SubmitComment(ctx, validParams("great article, thanks for sharing"))
	require.NoError(t, err)

	reply := validParams("glad it was helpful")
	reply.ParentID = root.ID
	_, err = env.svc.SubmitComment(ctx, reply)
	require.NoError(t, err)

	hidden := validParams("click here for amazing offer http://spam.example.com")
	hidden.ParentID = root.ID
	_, err = env.svc.SubmitComment(ctx, hidden)
	require.NoError(t, err)

	roots, err := env.svc.GetThread(ctx, &model.GetThreadParams{
		SubjectID:   100,
		SubjectType: model.SubjectTypeArticle,
	})
	require.NoError(t, err)

	require.Len(t, roots, 1)
	assert.Len(t, roots[0].Replies, 1, "hidden reply must not appear in public view")

	// 审核视图能看到
	reviewRoots, err := env.svc.GetThread(ctx, &model.GetThreadParams{
		SubjectID:   100,
		SubjectType: model.SubjectTypeArticle,
		IncludeAll:  true,
	})
	require.NoError(t, err)
	require.Len(t, reviewRoots, 1)
	assert.Len(t, reviewRoots[0].Replies, 2)
}

func TestGetThreadRootOrdering(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first, err := env.svc.SubmitComment(ctx, validParams("first comment, very helpful"))
	require.NoError(t, err)
	env.comments.comments[first.ID].CreatedAt = time.Now().Add(-time.Hour)

	second, err := env.svc.SubmitComment(ctx, validParams("second comment, also great"))
	require.NoError(t, err)

	newest, err := env.svc.GetThread(ctx, &model.GetThreadParams{
		SubjectID:   100,
		SubjectType: model.SubjectTypeArticle,
		Order:       model.ThreadOrderNewest,
	})
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, second.ID, newest[0].ID)

	oldest, err := env.svc.GetThread(ctx, &model.GetThreadParams{
		SubjectID:   100,
		SubjectType: model.SubjectTypeArticle,
		Order:       model.ThreadOrderOldest,
	})
	require.NoError(t, err)
	require.Len(t, oldest, 2)
	assert.Equal(t, first.ID, oldest[0].ID)
}
