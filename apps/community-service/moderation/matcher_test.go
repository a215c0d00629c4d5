package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"famnest/apps/community-service/model"
)

func TestMatchCleanContent(t *testing.T) {
	m := NewMatcher()

	result := m.Match("This is a wonderful tip, thank you!")

	assert.False(t, result.Flagged)
	assert.Empty(t, result.Flags)
	assert.Empty(t, result.Keywords)
	assert.Equal(t, model.SeverityNone, result.MaxSeverity)
}

func TestMatchSpamKeywordsAndPattern(t *testing.T) {
	m := NewMatcher()

	result := m.Match("Click here for amazing offer http://spam.example.com")

	assert.True(t, result.Flagged)
	assert.Contains(t, result.Flags, "spam_keywords")
	assert.Contains(t, result.Flags, "spam_pattern")
	assert.Contains(t, result.Keywords, "click here")
	assert.Contains(t, result.Keywords, "amazing offer")
	assert.Equal(t, model.SeverityHigh, result.MaxSeverity)
}

func TestMatchHarmfulAdvicePattern(t *testing.T) {
	m := NewMatcher()

	result := m.Match("Trust me, don't vaccinate your kids")

	assert.True(t, result.Flagged)
	assert.Contains(t, result.Flags, "harmful_advice_pattern")
	assert.Equal(t, model.SeverityCritical, result.MaxSeverity)
	assert.True(t, result.HasCategory(model.CategoryHarmfulAdvice))
}

func TestMatchToxicParenting(t *testing.T) {
	m := NewMatcher()

	result := m.Match("You are a terrible parent and everyone knows it")

	assert.True(t, result.Flagged)
	assert.Contains(t, result.Flags, "toxic_parenting_keywords")
	assert.Equal(t, model.SeverityHigh, result.MaxSeverity)
}

func TestMatchCaseInsensitive(t *testing.T) {
	m := NewMatcher()

	lower := m.Match("buy now before it's gone")
	upper := m.Match("BUY NOW before it's gone")

	assert.True(t, lower.Flagged)
	assert.True(t, upper.Flagged)
	assert.Equal(t, lower.Flags, upper.Flags)
}

func TestMatchProfanityLowSeverity(t *testing.T) {
	m := NewMatcher()

	result := m.Match("damn, that recipe failed again")

	assert.True(t, result.Flagged)
	assert.Contains(t, result.Flags, "profanity_keywords")
	assert.Equal(t, model.SeverityLow, result.MaxSeverity)
}

func TestMatchSeverityTakesMaximum(t *testing.T) {
	m := NewMatcher()

	// 同时命中profanity(low)与spam(high)，合并结果取高
	result := m.Match("damn, click here for free money")

	assert.True(t, result.Flagged)
	assert.Contains(t, result.Flags, "profanity_keywords")
	assert.Contains(t, result.Flags, "spam_keywords")
	assert.Equal(t, model.SeverityHigh, result.MaxSeverity)
}

func TestHasCategoryDoesNotMatchPrefixOverlap(t *testing.T) {
	result := MatchResult{Flags: []string{"spam_keywords"}}

	assert.True(t, result.HasCategory(model.CategorySpam))
	assert.False(t, result.HasCategory(model.CategoryProfanity))
}
