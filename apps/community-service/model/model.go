package model

import (
	"time"
)

// Comment 社区评论模型
type Comment struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	SubjectID       int64     `json:"subject_id" gorm:"not null;index:idx_subject"`                    // 被讨论的对象ID
	SubjectType     string    `json:"subject_type" gorm:"type:varchar(20);not null;index:idx_subject"` // 被讨论的对象类型
	ParentID        int64     `json:"parent_id" gorm:"default:0;index"`                                // 父评论ID（0表示顶级评论）
	AuthorID        int64     `json:"author_id" gorm:"not null;index"`                                 // 作者ID
	AuthorName      string    `json:"author_name" gorm:"type:varchar(100);not null"`                   // 作者显示名（冗余字段）
	Content         string    `json:"content" gorm:"type:text;not null"`                               // 评论内容
	Status          string    `json:"status" gorm:"type:varchar(20);not null;index;default:'approved'"`
	SentimentScore  float64   `json:"sentiment_score" gorm:"default:0"`                  // 情感得分 [-1,1]
	Flags           []string  `json:"flags" gorm:"serializer:json;type:text"`            // 命中的规则标签
	FlaggedKeywords []string  `json:"flagged_keywords" gorm:"serializer:json;type:text"` // 命中的关键词
	ReportCount     int32     `json:"report_count" gorm:"default:0"`                     // 被举报次数（冗余计数）
	Depth           int32     `json:"depth" gorm:"not null;default:0"`                   // 层级深度，根评论为0
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// 关联字段（不存储到数据库）
	Replies []*Comment `json:"replies,omitempty" gorm:"-"` // 回复列表
}

// TableName 指定表名
func (Comment) TableName() string {
	return "community_comments"
}

// Report 社区举报模型
type Report struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	CommentID         int64     `json:"comment_id" gorm:"not null;index"`
	ReporterID        int64     `json:"reporter_id" gorm:"not null;index"`
	Reason            string    `json:"reason" gorm:"type:varchar(50);not null"`
	AdditionalDetails string    `json:"additional_details" gorm:"type:varchar(500)"` // reason=other时必填
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (Report) TableName() string {
	return "community_reports"
}

// AuditLogEntry 审核日志条目，存储在MongoDB，只追加不修改
type AuditLogEntry struct {
	ID          int64     `json:"id" bson:"_id"`
	CommentID   int64     `json:"comment_id" bson:"comment_id"`
	ModeratorID int64     `json:"moderator_id" bson:"moderator_id"` // 0表示自动审核
	Action      string    `json:"action" bson:"action"`             // approve|hide|delete|restore
	Reason      string    `json:"reason" bson:"reason"`
	Automated   bool      `json:"automated" bson:"automated"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// CommentDocument 评论的搜索索引文档
type CommentDocument struct {
	ID          int64     `json:"id"`
	SubjectID   int64     `json:"subject_id"`
	SubjectType string    `json:"subject_type"`
	AuthorID    int64     `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	Flags       []string  `json:"flags"`
	CreatedAt   time.Time `json:"created_at"`
}

// 查询参数结构体

// CreateCommentParams 提交评论参数
type CreateCommentParams struct {
	SubjectID   int64  `json:"subject_id"`
	SubjectType string `json:"subject_type"`
	ParentID    int64  `json:"parent_id"`
	AuthorID    int64  `json:"author_id"`
	AuthorName  string `json:"author_name"`
	Content     string `json:"content"`
}

// UpdateCommentParams 编辑评论参数
type UpdateCommentParams struct {
	CommentID    int64  `json:"comment_id"`
	ActingUserID int64  `json:"acting_user_id"`
	Content      string `json:"content"`
}

// DeleteCommentParams 删除评论参数
type DeleteCommentParams struct {
	CommentID    int64 `json:"comment_id"`
	ActingUserID int64 `json:"acting_user_id"`
	IsModerator  bool  `json:"is_moderator"`
}

// GetThreadParams 获取评论树参数
type GetThreadParams struct {
	SubjectID   int64  `json:"subject_id"`
	SubjectType string `json:"subject_type"`
	Order       string `json:"order"`       // newest|oldest，作用于根评论
	IncludeAll  bool   `json:"include_all"` // 审核视图包含非approved评论（deleted仍排除）
}

// FileReportParams 举报参数
type FileReportParams struct {
	CommentID         int64  `json:"comment_id"`
	ReporterID        int64  `json:"reporter_id"`
	Reason            string `json:"reason"`
	AdditionalDetails string `json:"additional_details"`
}

// ReviewActionParams 人工审核动作参数
type ReviewActionParams struct {
	CommentID   int64  `json:"comment_id"`
	ModeratorID int64  `json:"moderator_id"`
	Reason      string `json:"reason"`
}

// ReviewListParams 审核队列查询参数
type ReviewListParams struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

// SearchCommentsParams 评论关键词搜索参数
type SearchCommentsParams struct {
	Query    string `json:"query"`
	Status   string `json:"status"`
	Page     int32  `json:"page"`
	PageSize int32  `json:"page_size"`
}

// ReportedComment 被举报评论视图，举报记录与评论的连接结果
type ReportedComment struct {
	Comment *Comment  `json:"comment"`
	Reports []*Report `json:"reports"`
}

// AuthorHistory 作者近期历史视图，审核后台用
type AuthorHistory struct {
	AuthorID         int64      `json:"author_id"`
	SampleSize       int        `json:"sample_size"`
	ViolationCount   int        `json:"violation_count"`
	ViolationRate    float64    `json:"violation_rate"`
	IsRepeatOffender bool       `json:"is_repeat_offender"`
	Comments         []*Comment `json:"comments"`
}

// 辅助方法

// IsTopLevel 判断是否为顶级评论
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == 0
}

// CanEdit 只有作者可以编辑，已删除评论不可编辑
func (c *Comment) CanEdit(userID int64) bool {
	return c.AuthorID == userID && c.Status != StatusDeleted
}

// CanDelete 作者或审核员可以删除
func (c *Comment) CanDelete(userID int64, isModerator bool) bool {
	if c.Status == StatusDeleted {
		return false
	}
	if isModerator {
		return true
	}
	return c.AuthorID == userID
}
