package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WriteObject 统一响应输出，出错时返回调用方提供的状态码
func WriteObject(c *gin.Context, obj interface{}, err error) {
	status := http.StatusOK
	if err != nil {
		status = StatusFromError(c, err)
	}
	c.JSON(status, obj)
}

// StatusFromError 从gin上下文取出handler标注的状态码，默认400
func StatusFromError(c *gin.Context, err error) int {
	if status, exists := c.Get("errorStatus"); exists {
		if code, ok := status.(int); ok {
			return code
		}
	}
	return http.StatusBadRequest
}

// SetErrorStatus 标注当前请求的错误状态码
func SetErrorStatus(c *gin.Context, status int) {
	c.Set("errorStatus", status)
}
