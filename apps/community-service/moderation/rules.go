package moderation

import (
	"regexp"

	"famnest/apps/community-service/model"
)

// Rule 审核规则，进程启动时加载一次，运行期间不可变
type Rule struct {
	Category string
	Keywords []string
	Patterns []*regexp.Regexp
	Severity string
	Action   string
}

// defaultRules 规则表。关键词按小写存储，匹配时对全文做子串测试；
// 正则统一带(?i)。顺序即规则报告顺序。
var defaultRules = []Rule{
	{
		Category: model.CategoryInappropriate,
		Keywords: []string{"shut up", "nobody asked", "you people", "get lost", "pathetic"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\byou('re| are)\s+(all\s+)?(dumb|clueless|worthless)\b`),
		},
		Severity: model.SeverityMedium,
		Action:   model.ActionFlagForReview,
	},
	{
		Category: model.CategoryToxicParent,
		Keywords: []string{"bad mother", "bad father", "terrible parent", "unfit parent", "failure as a parent"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bworst\s+(mom|dad|mother|father|parent)\b`),
			regexp.MustCompile(`(?i)\byour\s+(kids?|children)\s+(deserve|will hate)\b`),
		},
		Severity: model.SeverityHigh,
		Action:   model.ActionAutoHide,
	},
	{
		Category: model.CategorySpam,
		Keywords: []string{"click here", "buy now", "limited time", "amazing offer", "free money", "make money fast", "work from home"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)https?://\S+`),
			regexp.MustCompile(`(?i)\b(viagra|casino|lottery)\b`),
			regexp.MustCompile(`[!?]{5,}`),
		},
		Severity: model.SeverityHigh,
		Action:   model.ActionAutoHide,
	},
	{
		Category: model.CategoryHarmfulAdvice,
		Keywords: []string{"medicine is poison", "doctors are lying", "no need for a doctor"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bdon'?t\s+vaccinate\b`),
			regexp.MustCompile(`(?i)\bskip\s+(the\s+)?vaccin`),
			regexp.MustCompile(`(?i)\b(bleach|essential oils?)\s+(cures?|heals?|instead of medicine)\b`),
			regexp.MustCompile(`(?i)\bleave\s+(the\s+)?(baby|kids?|children)\s+(home\s+)?alone\b`),
		},
		Severity: model.SeverityCritical,
		Action:   model.ActionImmediateHide,
	},
	{
		Category: model.CategoryProfanity,
		Keywords: []string{"damn", "wtf", "bullshit", "pissed off"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bf+u+c*k+`),
		},
		Severity: model.SeverityLow,
		Action:   model.ActionFlagForReview,
	},
}

// Rules 返回规则表
func Rules() []Rule {
	return defaultRules
}
