package moderation

import (
	"strings"
)

// SentimentResult 情感分析结果
type SentimentResult struct {
	Score      float64 `json:"score"`      // [-1,1]，正数表示积极
	Confidence float64 `json:"confidence"` // [0,1]，情感词占比越高越可信
}

// 固定情感词表，两个集合互不相交
var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "wonderful": {}, "love": {}, "loved": {},
	"helpful": {}, "thanks": {}, "thank": {}, "appreciate": {}, "awesome": {},
	"excellent": {}, "amazing": {}, "happy": {}, "perfect": {}, "nice": {},
	"best": {}, "fantastic": {}, "glad": {}, "kind": {}, "works": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "hate": {}, "hated": {},
	"useless": {}, "worst": {}, "horrible": {}, "annoying": {}, "angry": {},
	"sad": {}, "disappointed": {}, "stupid": {}, "wrong": {}, "broken": {},
	"waste": {}, "poor": {}, "never": {}, "fail": {}, "failed": {},
}

// Scorer 词表情感分析器，确定性启发式，不是NLP模型
type Scorer struct{}

// NewScorer 创建情感分析器
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score 按空白分词、小写化、去首尾标点后统计正负情感词
func (s *Scorer) Score(content string) SentimentResult {
	tokens := strings.Fields(content)
	if len(tokens) == 0 {
		return SentimentResult{}
	}

	var positive, negative int
	for _, token := range tokens {
		word := strings.Trim(strings.ToLower(token), ".,!?;:'\"()[]")
		if word == "" {
			continue
		}
		if _, ok := positiveWords[word]; ok {
			positive++
		} else if _, ok := negativeWords[word]; ok {
			negative++
		}
	}

	total := positive + negative
	result := SentimentResult{}
	if total > 0 {
		result.Score = float64(positive-negative) / float64(total)
	}

	confidence := float64(total) / float64(len(tokens)) * 4
	if confidence > 1 {
		confidence = 1
	}
	result.Confidence = confidence

	return result
}
