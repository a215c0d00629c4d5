package converter

import (
	"time"

	"famnest/apps/community-service/model"
)

// Converter 转换器，提供Model到HTTP响应DTO的转换
type Converter struct{}

// NewConverter 创建转换器实例
func NewConverter() *Converter {
	return &Converter{}
}

// CommentResponse 面向普通用户的评论视图，不暴露审核内部字段
type CommentResponse struct {
	ID          int64              `json:"id"`
	SubjectID   int64              `json:"subject_id"`
	SubjectType string             `json:"subject_type"`
	ParentID    int64              `json:"parent_id,omitempty"`
	AuthorID    int64              `json:"author_id"`
	AuthorName  string             `json:"author_name"`
	Content     string             `json:"content"`
	Status      string             `json:"status"`
	Depth       int32              `json:"depth"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
	Replies     []*CommentResponse `json:"replies,omitempty"`
}

// ReviewCommentResponse 面向审核员的评论视图，含审核信号
type ReviewCommentResponse struct {
	ID              int64    `json:"id"`
	SubjectID       int64    `json:"subject_id"`
	SubjectType     string   `json:"subject_type"`
	ParentID        int64    `json:"parent_id,omitempty"`
	AuthorID        int64    `json:"author_id"`
	AuthorName      string   `json:"author_name"`
	Content         string   `json:"content"`
	Status          string   `json:"status"`
	SentimentScore  float64  `json:"sentiment_score"`
	Flags           []string `json:"flags"`
	FlaggedKeywords []string `json:"flagged_keywords"`
	ReportCount     int32    `json:"report_count"`
	Depth           int32    `json:"depth"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// ReportResponse 举报视图
type ReportResponse struct {
	ID                int64  `json:"id"`
	CommentID         int64  `json:"comment_id"`
	ReporterID        int64  `json:"reporter_id"`
	Reason            string `json:"reason"`
	AdditionalDetails string `json:"additional_details,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// ReportedCommentResponse 被举报评论及其举报明细
type ReportedCommentResponse struct {
	Comment *ReviewCommentResponse `json:"comment"`
	Reports []*ReportResponse      `json:"reports"`
}

// AuditLogEntryResponse 审核日志视图
type AuditLogEntryResponse struct {
	ID          int64  `json:"id"`
	CommentID   int64  `json:"comment_id"`
	ModeratorID int64  `json:"moderator_id,omitempty"`
	Action      string `json:"action"`
	Reason      string `json:"reason"`
	Automated   bool   `json:"automated"`
	CreatedAt   string `json:"created_at"`
}

// CommentModelToResponse 普通视图转换，递归处理回复
func (c *Converter) CommentModelToResponse(comment *model.Comment) *CommentResponse {
	if comment == nil {
		return nil
	}

	return &CommentResponse{
		ID:          comment.ID,
		SubjectID:   comment.SubjectID,
		SubjectType: comment.SubjectType,
		ParentID:    comment.ParentID,
		AuthorID:    comment.AuthorID,
		AuthorName:  comment.AuthorName,
		Content:     comment.Content,
		Status:      comment.Status,
		Depth:       comment.Depth,
		CreatedAt:   comment.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   comment.UpdatedAt.Format(time.RFC3339),
		Replies:     c.CommentModelsToResponse(comment.Replies),
	}
}

// CommentModelsToResponse 普通视图列表转换
func (c *Converter) CommentModelsToResponse(comments []*model.Comment) []*CommentResponse {
	if len(comments) == 0 {
		return nil
	}

	result := make([]*CommentResponse, 0, len(comments))
	for _, comment := range comments {
		if resp := c.CommentModelToResponse(comment); resp != nil {
			result = append(result, resp)
		}
	}
	return result
}

// ReviewCommentModelToResponse 审核视图转换
func (c *Converter) ReviewCommentModelToResponse(comment *model.Comment) *ReviewCommentResponse {
	if comment == nil {
		return nil
	}

	flags := comment.Flags
	if flags == nil {
		flags = []string{}
	}
	keywords := comment.FlaggedKeywords
	if keywords == nil {
		keywords = []string{}
	}

	return &ReviewCommentResponse{
		ID:              comment.ID,
		SubjectID:       comment.SubjectID,
		SubjectType:     comment.SubjectType,
		ParentID:        comment.ParentID,
		AuthorID:        comment.AuthorID,
		AuthorName:      comment.AuthorName,
		Content:         comment.Content,
		Status:          comment.Status,
		SentimentScore:  comment.SentimentScore,
		Flags:           flags,
		FlaggedKeywords: keywords,
		ReportCount:     comment.ReportCount,
		Depth:           comment.Depth,
		CreatedAt:       comment.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       comment.UpdatedAt.Format(time.RFC3339),
	}
}

// ReviewCommentModelsToResponse 审核视图列表转换
func (c *Converter) ReviewCommentModelsToResponse(comments []*model.Comment) []*ReviewCommentResponse {
	result := make([]*ReviewCommentResponse, 0, len(comments))
	for _, comment := range comments {
		if resp := c.ReviewCommentModelToResponse(comment); resp != nil {
			result = append(result, resp)
		}
	}
	return result
}

// ReportModelToResponse 举报转换
func (c *Converter) ReportModelToResponse(report *model.Report) *ReportResponse {
	if report == nil {
		return nil
	}

	return &ReportResponse{
		ID:                report.ID,
		CommentID:         report.CommentID,
		ReporterID:        report.ReporterID,
		Reason:            report.Reason,
		AdditionalDetails: report.AdditionalDetails,
		CreatedAt:         report.CreatedAt.Format(time.RFC3339),
	}
}

// ReportedCommentModelToResponse 被举报评论转换
func (c *Converter) ReportedCommentModelToResponse(rc *model.ReportedComment) *ReportedCommentResponse {
	if rc == nil {
		return nil
	}

	reports := make([]*ReportResponse, 0, len(rc.Reports))
	for _, r := range rc.Reports {
		if resp := c.ReportModelToResponse(r); resp != nil {
			reports = append(reports, resp)
		}
	}

	return &ReportedCommentResponse{
		Comment: c.ReviewCommentModelToResponse(rc.Comment),
		Reports: reports,
	}
}

// ReportedCommentModelsToResponse 被举报评论列表转换
func (c *Converter) ReportedCommentModelsToResponse(rcs []*model.ReportedComment) []*ReportedCommentResponse {
	result := make([]*ReportedCommentResponse, 0, len(rcs))
	for _, rc := range rcs {
		if resp := c.ReportedCommentModelToResponse(rc); resp != nil {
			result = append(result, resp)
		}
	}
	return result
}

// AuthorHistoryResponse 作者近期历史视图
type AuthorHistoryResponse struct {
	AuthorID         int64                    `json:"author_id"`
	SampleSize       int                      `json:"sample_size"`
	ViolationCount   int                      `json:"violation_count"`
	ViolationRate    float64                  `json:"violation_rate"`
	IsRepeatOffender bool                     `json:"is_repeat_offender"`
	Comments         []*ReviewCommentResponse `json:"comments"`
}

// AuthorHistoryModelToResponse 作者历史转换
func (c *Converter) AuthorHistoryModelToResponse(history *model.AuthorHistory) *AuthorHistoryResponse {
	if history == nil {
		return nil
	}

	return &AuthorHistoryResponse{
		AuthorID:         history.AuthorID,
		SampleSize:       history.SampleSize,
		ViolationCount:   history.ViolationCount,
		ViolationRate:    history.ViolationRate,
		IsRepeatOffender: history.IsRepeatOffender,
		Comments:         c.ReviewCommentModelsToResponse(history.Comments),
	}
}

// AuditLogEntryModelToResponse 审核日志转换
func (c *Converter) AuditLogEntryModelToResponse(entry *model.AuditLogEntry) *AuditLogEntryResponse {
	if entry == nil {
		return nil
	}

	return &AuditLogEntryResponse{
		ID:          entry.ID,
		CommentID:   entry.CommentID,
		ModeratorID: entry.ModeratorID,
		Action:      entry.Action,
		Reason:      entry.Reason,
		Automated:   entry.Automated,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
	}
}

// AuditLogEntryModelsToResponse 审核日志列表转换
func (c *Converter) AuditLogEntryModelsToResponse(entries []*model.AuditLogEntry) []*AuditLogEntryResponse {
	result := make([]*AuditLogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		if resp := c.AuditLogEntryModelToResponse(entry); resp != nil {
			result = append(result, resp)
		}
	}
	return result
}
