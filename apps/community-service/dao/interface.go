package dao

import (
	"context"
	"time"

	"famnest/apps/community-service/model"
)

// CommentDAO 评论数据访问接口
type CommentDAO interface {
	// 基础评论操作
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, commentID int64) (*model.Comment, error)
	UpdateComment(ctx context.Context, comment *model.Comment) error
	UpdateCommentStatus(ctx context.Context, commentID int64, status string) error

	// 评论查询
	GetCommentsBySubject(ctx context.Context, subjectID int64, subjectType string, statuses []string) ([]*model.Comment, error)
	GetRecentByAuthor(ctx context.Context, authorID int64, since time.Time, limit int) ([]*model.Comment, error)
	GetCommentsByStatus(ctx context.Context, status string, page, pageSize int32) ([]*model.Comment, int64, error)
}

// ReportDAO 举报数据访问接口
type ReportDAO interface {
	// FileReport 插入举报并在同一事务内重算评论的举报计数，返回新计数
	FileReport(ctx context.Context, report *model.Report) (int64, error)
	GetReportsForComment(ctx context.Context, commentID int64) ([]*model.Report, error)
	GetReportedComments(ctx context.Context, page, pageSize int32) ([]*model.Comment, int64, error)
}

// AuditLogDAO 审核日志数据访问接口，只追加不修改
type AuditLogDAO interface {
	Append(ctx context.Context, entry *model.AuditLogEntry) error
	ListForComment(ctx context.Context, commentID int64) ([]*model.AuditLogEntry, error)
	ListRecent(ctx context.Context, limit int64) ([]*model.AuditLogEntry, error)
}

// SearchDAO 评论搜索接口
type SearchDAO interface {
	EnsureIndex(ctx context.Context) error
	IndexComment(ctx context.Context, comment *model.Comment) error
	SearchComments(ctx context.Context, params *model.SearchCommentsParams) ([]*model.CommentDocument, int64, error)
}
