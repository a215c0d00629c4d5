package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"famnest/apps/community-service/model"
	"famnest/pkg/httpx"
)

func newTestContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	return c
}

func TestSetCommentErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"comment not found", model.ErrCommentNotFound, http.StatusNotFound},
		{"parent not found", model.ErrParentNotFound, http.StatusNotFound},
		{"not author", model.ErrNotCommentAuthor, http.StatusForbidden},
		{"content too long", model.ErrContentTooLong, http.StatusBadRequest},
		{"depth exceeded", model.ErrDepthExceeded, http.StatusBadRequest},
		{"invalid author", model.ErrInvalidAuthor, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext()
			msg := setCommentErrorStatus(c, tc.err)
			assert.Equal(t, tc.status, httpx.StatusFromError(c, tc.err))
			// 业务错误的文案原样返回
			assert.Equal(t, tc.err.Error(), msg)
		})
	}
}

func TestInternalErrorsGetGenericMessage(t *testing.T) {
	c := newTestContext()

	// 包装过的存储错误不能把内部细节带给客户端
	err := fmt.Errorf("创建评论失败: %w", fmt.Errorf("connection refused"))
	msg := setCommentErrorStatus(c, err)

	assert.Equal(t, http.StatusInternalServerError, httpx.StatusFromError(c, err))
	assert.Equal(t, internalErrorMessage, msg)
	assert.NotContains(t, msg, "connection refused")
}
