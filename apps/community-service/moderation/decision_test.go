package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"famnest/apps/community-service/model"
)

func TestDecideHarmfulAdviceAlwaysHidden(t *testing.T) {
	match := MatchResult{
		Flagged:     true,
		Flags:       []string{"harmful_advice_pattern"},
		MaxSeverity: model.SeverityCritical,
	}

	// 情感积极、历史干净也不能豁免
	outcome := Decide(match, SentimentResult{Score: 1.0, Confidence: 1.0}, HistorySignal{})

	assert.Equal(t, model.ActionImmediateHide, outcome.Action)
	assert.False(t, outcome.Approved)
	assert.Equal(t, model.StatusAutoHidden, StatusForAction(outcome.Action))
}

func TestDecideHighSeverityAutoHide(t *testing.T) {
	match := MatchResult{
		Flagged:     true,
		Flags:       []string{"spam_keywords", "spam_pattern"},
		MaxSeverity: model.SeverityHigh,
	}

	outcome := Decide(match, SentimentResult{}, HistorySignal{})

	assert.Equal(t, model.ActionAutoHide, outcome.Action)
	assert.Equal(t, "spam_keywords, spam_pattern", outcome.Reason)
	assert.Equal(t, model.StatusAutoHidden, StatusForAction(outcome.Action))
}

func TestDecideMediumSeverityFlagsForReview(t *testing.T) {
	match := MatchResult{
		Flagged:     true,
		Flags:       []string{"inappropriate_keywords"},
		MaxSeverity: model.SeverityMedium,
	}

	outcome := Decide(match, SentimentResult{}, HistorySignal{})

	assert.Equal(t, model.ActionFlagForReview, outcome.Action)
	assert.Equal(t, model.StatusFlagged, StatusForAction(outcome.Action))
}

func TestDecideNegativeSentimentFlagsForReview(t *testing.T) {
	outcome := Decide(MatchResult{MaxSeverity: model.SeverityNone},
		SentimentResult{Score: -1.0, Confidence: 1.0}, HistorySignal{})

	assert.Equal(t, model.ActionFlagForReview, outcome.Action)
	assert.Equal(t, model.ReasonNegativeSentiment, outcome.Reason)
}

func TestDecideNegativeSentimentLowConfidenceApproves(t *testing.T) {
	outcome := Decide(MatchResult{MaxSeverity: model.SeverityNone},
		SentimentResult{Score: -1.0, Confidence: 0.5}, HistorySignal{})

	assert.True(t, outcome.Approved)
	assert.Equal(t, model.ActionApprove, outcome.Action)
}

func TestDecideRepeatOffenderFlagsCleanComment(t *testing.T) {
	outcome := Decide(MatchResult{MaxSeverity: model.SeverityNone},
		SentimentResult{Score: 0.5, Confidence: 1.0},
		HistorySignal{IsRepeatOffender: true, ViolationRate: 0.35})

	assert.Equal(t, model.ActionFlagForReview, outcome.Action)
	assert.Equal(t, model.ReasonRepeatOffender, outcome.Reason)
	assert.Equal(t, model.StatusFlagged, StatusForAction(outcome.Action))
}

func TestDecideCleanContentApproves(t *testing.T) {
	outcome := Decide(MatchResult{MaxSeverity: model.SeverityNone},
		SentimentResult{Score: 1.0, Confidence: 1.0}, HistorySignal{})

	assert.True(t, outcome.Approved)
	assert.Equal(t, model.ActionApprove, outcome.Action)
	assert.Empty(t, outcome.Reason)
	assert.Equal(t, model.StatusApproved, StatusForAction(outcome.Action))
}

func TestDecideManyLowSeverityFlagsForReview(t *testing.T) {
	match := MatchResult{
		Flagged:     true,
		Flags:       []string{"profanity_keywords", "profanity_pattern", "inappropriate_pattern"},
		MaxSeverity: model.SeverityLow,
	}

	// 单个都够不上medium，但超过2个标签也要人工看
	outcome := Decide(match, SentimentResult{}, HistorySignal{})

	assert.Equal(t, model.ActionFlagForReview, outcome.Action)
}

func TestFailClosedNeverApproves(t *testing.T) {
	outcome := FailClosed(MatchResult{MaxSeverity: model.SeverityNone}, SentimentResult{Score: 1.0, Confidence: 1.0})

	assert.False(t, outcome.Approved)
	assert.Equal(t, model.ActionFlagForReview, outcome.Action)
	assert.Contains(t, outcome.Flags, model.FlagModerationError)
	assert.Equal(t, model.FlagModerationError, outcome.Reason)
}

func TestFailClosedKeepsExistingFlags(t *testing.T) {
	match := MatchResult{Flagged: true, Flags: []string{"spam_keywords"}, MaxSeverity: model.SeverityHigh}

	outcome := FailClosed(match, SentimentResult{})

	assert.Contains(t, outcome.Flags, "spam_keywords")
	assert.Contains(t, outcome.Flags, model.FlagModerationError)
}
