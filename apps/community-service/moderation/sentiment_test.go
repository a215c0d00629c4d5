package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreEmptyContent(t *testing.T) {
	s := NewScorer()

	result := s.Score("")

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestScoreNoSentimentWords(t *testing.T) {
	s := NewScorer()

	result := s.Score("the meeting is at noon on tuesday")

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestScorePositive(t *testing.T) {
	s := NewScorer()

	result := s.Score("This is a wonderful tip, thank you!")

	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestScoreNegative(t *testing.T) {
	s := NewScorer()

	result := s.Score("terrible advice, awful and useless")

	assert.Equal(t, -1.0, result.Score)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestScoreMixed(t *testing.T) {
	s := NewScorer()

	// 1正1负，得分归零
	result := s.Score("good idea but terrible timing")

	assert.Equal(t, 0.0, result.Score)
	assert.Greater(t, result.Confidence, 0.0)
}

func TestScoreStripsPunctuation(t *testing.T) {
	s := NewScorer()

	result := s.Score("Wonderful!!! (really)")

	assert.Equal(t, 1.0, result.Score)
}

func TestScoreConfidenceScalesWithDensity(t *testing.T) {
	s := NewScorer()

	// 1个情感词摊在16个token里：1/16*4 = 0.25
	dilute := s.Score("one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen terrible")

	assert.Equal(t, -1.0, dilute.Score)
	assert.InDelta(t, 0.25, dilute.Confidence, 0.001)
}
