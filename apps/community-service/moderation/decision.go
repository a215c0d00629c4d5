package moderation

import (
	"strings"

	"famnest/apps/community-service/model"
)

// HistorySignal 作者近期违规历史信号
type HistorySignal struct {
	IsRepeatOffender bool    `json:"is_repeat_offender"`
	ViolationRate    float64 `json:"violation_rate"`
}

// Outcome 审核决策结果
type Outcome struct {
	Approved        bool     `json:"approved"`
	Flags           []string `json:"flags"`
	MaxSeverity     string   `json:"max_severity"`
	FlaggedKeywords []string `json:"flagged_keywords"`
	SentimentScore  float64  `json:"sentiment_score"`
	Confidence      float64  `json:"confidence"`
	Action          string   `json:"action"`
	Reason          string   `json:"reason"` // 审核日志用，flags连接串或哨兵原因
}

// Decide 按优先级合并三路信号，第一条命中的规则生效：
//  1. harmful_advice命中或严重程度critical → immediate_hide
//  2. 严重程度high或toxic_parenting命中 → auto_hide
//  3. 严重程度medium或命中标签超过2个 → flag_for_review
//  4. 情感得分<-0.6且置信度>0.8 → flag_for_review
//  5. 惯犯 → flag_for_review
//  6. 其余 → approve
func Decide(match MatchResult, sentiment SentimentResult, history HistorySignal) Outcome {
	outcome := Outcome{
		Flags:           match.Flags,
		MaxSeverity:     match.MaxSeverity,
		FlaggedKeywords: match.Keywords,
		SentimentScore:  sentiment.Score,
		Confidence:      sentiment.Confidence,
	}

	switch {
	case match.HasCategory(model.CategoryHarmfulAdvice) || match.MaxSeverity == model.SeverityCritical:
		outcome.Action = model.ActionImmediateHide
	case match.MaxSeverity == model.SeverityHigh || match.HasCategory(model.CategoryToxicParent):
		outcome.Action = model.ActionAutoHide
	case match.MaxSeverity == model.SeverityMedium || len(match.Flags) > 2:
		outcome.Action = model.ActionFlagForReview
	case sentiment.Score < -0.6 && sentiment.Confidence > 0.8:
		outcome.Action = model.ActionFlagForReview
		outcome.Reason = model.ReasonNegativeSentiment
	case history.IsRepeatOffender:
		outcome.Action = model.ActionFlagForReview
		outcome.Reason = model.ReasonRepeatOffender
	default:
		outcome.Action = model.ActionApprove
		outcome.Approved = true
	}

	if outcome.Reason == "" && len(outcome.Flags) > 0 {
		outcome.Reason = strings.Join(outcome.Flags, ", ")
	}

	return outcome
}

// FailClosed 子组件内部失败时的兜底决策：绝不放行，转人工复核
func FailClosed(match MatchResult, sentiment SentimentResult) Outcome {
	return Outcome{
		Flags:           append(append([]string{}, match.Flags...), model.FlagModerationError),
		MaxSeverity:     match.MaxSeverity,
		FlaggedKeywords: match.Keywords,
		SentimentScore:  sentiment.Score,
		Confidence:      sentiment.Confidence,
		Action:          model.ActionFlagForReview,
		Reason:          model.FlagModerationError,
	}
}

// StatusForAction 决策动作到持久化状态的映射
func StatusForAction(action string) string {
	switch action {
	case model.ActionImmediateHide, model.ActionAutoHide:
		return model.StatusAutoHidden
	case model.ActionFlagForReview:
		return model.StatusFlagged
	default:
		return model.StatusApproved
	}
}
