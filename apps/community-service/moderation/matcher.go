package moderation

import (
	"strings"

	"famnest/apps/community-service/model"
)

// MatchResult 规则匹配结果
type MatchResult struct {
	Flagged     bool     `json:"flagged"`
	Flags       []string `json:"flags"`    // <category>_keywords / <category>_pattern
	Keywords    []string `json:"keywords"` // 命中的关键词/匹配片段
	MaxSeverity string   `json:"max_severity"`
}

// Matcher 关键词/正则规则匹配器，纯函数，无副作用
type Matcher struct {
	rules []Rule
}

// NewMatcher 创建规则匹配器
func NewMatcher() *Matcher {
	return &Matcher{rules: Rules()}
}

// Match 对评论内容做逐规则匹配，严重程度按最大值合并
func (m *Matcher) Match(content string) MatchResult {
	result := MatchResult{
		Flags:       []string{},
		Keywords:    []string{},
		MaxSeverity: model.SeverityNone,
	}

	lowered := strings.ToLower(content)

	for _, rule := range m.rules {
		hit := false

		// 关键词子串匹配
		var matchedKeywords []string
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				matchedKeywords = append(matchedKeywords, keyword)
			}
		}
		if len(matchedKeywords) > 0 {
			hit = true
			result.Flags = append(result.Flags, rule.Category+"_keywords")
			result.Keywords = append(result.Keywords, matchedKeywords...)
		}

		// 正则匹配
		var matchedFragments []string
		for _, pattern := range rule.Patterns {
			if fragment := pattern.FindString(content); fragment != "" {
				matchedFragments = append(matchedFragments, strings.ToLower(fragment))
			}
		}
		if len(matchedFragments) > 0 {
			hit = true
			result.Flags = append(result.Flags, rule.Category+"_pattern")
			result.Keywords = append(result.Keywords, matchedFragments...)
		}

		if hit {
			result.Flagged = true
			result.MaxSeverity = model.CombineSeverity(result.MaxSeverity, rule.Severity)
		}
	}

	return result
}

// HasCategory 判断匹配结果是否命中某个规则类别
func (r MatchResult) HasCategory(category string) bool {
	for _, flag := range r.Flags {
		if strings.HasPrefix(flag, category+"_") {
			return true
		}
	}
	return false
}
