package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombineSeverityTakesHigher(t *testing.T) {
	assert.Equal(t, SeverityCritical, CombineSeverity(SeverityLow, SeverityCritical))
	assert.Equal(t, SeverityHigh, CombineSeverity(SeverityHigh, SeverityMedium))
	assert.Equal(t, SeverityLow, CombineSeverity(SeverityNone, SeverityLow))
}

func TestCombineSeverityCommutative(t *testing.T) {
	severities := []string{SeverityNone, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for _, a := range severities {
		for _, b := range severities {
			assert.Equal(t, CombineSeverity(a, b), CombineSeverity(b, a))
		}
	}
}

func TestCombineSeverityIdempotent(t *testing.T) {
	severities := []string{SeverityNone, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for _, s := range severities {
		assert.Equal(t, s, CombineSeverity(s, s))
	}
}

func TestValidSubjectType(t *testing.T) {
	assert.True(t, ValidSubjectType(SubjectTypeArticle))
	assert.True(t, ValidSubjectType(SubjectTypeTutorial))
	assert.True(t, ValidSubjectType(SubjectTypeEvent))
	assert.False(t, ValidSubjectType("podcast"))
	assert.False(t, ValidSubjectType(""))
}

func TestValidReportReason(t *testing.T) {
	assert.True(t, ValidReportReason(ReportReasonSpam))
	assert.True(t, ValidReportReason(ReportReasonOther))
	assert.False(t, ValidReportReason("disagree"))
}

func TestCanEdit(t *testing.T) {
	comment := &Comment{AuthorID: 7, Status: StatusApproved}

	assert.True(t, comment.CanEdit(7))
	assert.False(t, comment.CanEdit(8))

	comment.Status = StatusDeleted
	assert.False(t, comment.CanEdit(7))
}

func TestCanDelete(t *testing.T) {
	comment := &Comment{AuthorID: 7, Status: StatusApproved}

	assert.True(t, comment.CanDelete(7, false))
	assert.False(t, comment.CanDelete(8, false))
	assert.True(t, comment.CanDelete(8, true))
}
