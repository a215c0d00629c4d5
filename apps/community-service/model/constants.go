package model

// 审核状态常量
const (
	StatusApproved   = "approved"    // 已通过
	StatusFlagged    = "flagged"     // 待人工复核
	StatusAutoHidden = "auto_hidden" // 自动隐藏
	StatusDeleted    = "deleted"     // 已删除（软删除）
)

// 审核动作常量
const (
	ActionApprove       = "approve"
	ActionFlagForReview = "flag_for_review"
	ActionAutoHide      = "auto_hide"
	ActionImmediateHide = "immediate_hide"
)

// 审核日志动作常量
const (
	AuditActionApprove = "approve"
	AuditActionFlag    = "flag"
	AuditActionHide    = "hide"
	AuditActionDelete  = "delete"
	AuditActionRestore = "restore"
)

// 严重程度常量，按风险从低到高排序
const (
	SeverityNone     = "none"
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// 规则类别常量
const (
	CategoryInappropriate = "inappropriate"
	CategoryToxicParent   = "toxic_parenting"
	CategorySpam          = "spam"
	CategoryHarmfulAdvice = "harmful_advice"
	CategoryProfanity     = "profanity"
)

// 主题类型常量
const (
	SubjectTypeArticle  = "article"  // 文章
	SubjectTypeTutorial = "tutorial" // 教程
	SubjectTypeEvent    = "event"    // 家庭日历事件
)

// 举报原因常量
const (
	ReportReasonInappropriate = "inappropriate_language"
	ReportReasonSpam          = "spam_promotional"
	ReportReasonHarassment    = "harassment_bullying"
	ReportReasonHarmfulAdvice = "harmful_advice"
	ReportReasonOffTopic      = "off_topic"
	ReportReasonOther         = "other"
)

// 排序方向常量
const (
	ThreadOrderNewest = "newest"
	ThreadOrderOldest = "oldest"
)

// 回复层级限制
const (
	MaxThreadDepth = 3 // 根评论深度为0，最多3层回复
)

// 举报自动隐藏阈值
const (
	ReportHideThreshold = 3
)

// 违规历史评估参数
const (
	HistorySampleLimit   = 20   // 最多统计最近20条评论
	HistoryWindowDays    = 30   // 只看最近30天
	HistoryMinSampleSize = 3    // 样本不足3条时不判定
	RepeatOffenderRate   = 0.30 // 违规率超过30%判定为惯犯
)

// 评论内容限制
const (
	MinCommentLength = 1
	MaxCommentLength = 2000
)

// 举报补充说明限制
const (
	MaxReportDetailsLength = 500
)

// 分页常量
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// 缓存相关常量
const (
	ThreadCachePrefix = "community:thread:"
	CacheExpireTime   = 600 // 缓存过期时间（秒）
)

// 事件类型常量
const (
	EventCommentCreated  = "comment.created"
	EventCommentApproved = "comment.approved"
	EventCommentUpdated  = "comment.updated"
	EventCommentFlagged  = "comment.flagged"
	EventCommentHidden   = "comment.hidden"
	EventCommentDeleted  = "comment.deleted"
	EventCommentRestored = "comment.restored"
	EventReportFiled     = "report.filed"
)

// Kafka主题
const (
	ModerationEventTopic = "community-moderation-events"
)

// ElasticSearch索引
const (
	CommentIndexName = "community_comments"
)

// 自动审核的哨兵原因
const (
	ReasonNegativeSentiment = "negative_sentiment"
	ReasonRepeatOffender    = "repeat_offender"
	ReasonMultipleReports   = "multiple_community_reports"
	FlagModerationError     = "moderation_error"
)

// ValidSubjectType 校验主题类型
func ValidSubjectType(subjectType string) bool {
	switch subjectType {
	case SubjectTypeArticle, SubjectTypeTutorial, SubjectTypeEvent:
		return true
	}
	return false
}

// ValidReportReason 校验举报原因
func ValidReportReason(reason string) bool {
	switch reason {
	case ReportReasonInappropriate, ReportReasonSpam, ReportReasonHarassment,
		ReportReasonHarmfulAdvice, ReportReasonOffTopic, ReportReasonOther:
		return true
	}
	return false
}

// severityRank 严重程度排序值
var severityRank = map[string]int{
	SeverityNone:     0,
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// CombineSeverity 合并两个严重程度，取较高者
func CombineSeverity(a, b string) string {
	if severityRank[b] > severityRank[a] {
		return b
	}
	return a
}

// SeverityAtLeast 判断严重程度是否达到阈值
func SeverityAtLeast(severity, threshold string) bool {
	return severityRank[severity] >= severityRank[threshold]
}
