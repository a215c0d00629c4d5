package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	kratoslog "github.com/go-kratos/kratos/v2/log"

	"famnest/pkg/auth"
	tracecontext "famnest/pkg/context"
)

// AuthMiddleware 认证中间件配置
type AuthMiddleware struct {
	logger kratoslog.Logger
	jwtKey string
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(logger kratoslog.Logger, jwtKey string) *AuthMiddleware {
	return &AuthMiddleware{
		logger: logger,
		jwtKey: jwtKey,
	}
}

// GinAuth Gin认证中间件
func (am *AuthMiddleware) GinAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 跳过健康检查和公开接口
		if am.shouldSkipAuth(c.Request.URL.Path) {
			c.Next()
			return
		}

		token := am.extractTokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			am.logger.Log(kratoslog.LevelWarn, "msg", "Missing authorization token", "path", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization token"})
			c.Abort()
			return
		}

		// 验证JWT token
		claims, err := auth.ValidateToken(token, am.jwtKey)
		if err != nil {
			am.logger.Log(kratoslog.LevelWarn, "msg", "Invalid token", "error", err, "path", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// 将用户信息存储到上下文
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("userRole", claims.Role)

		ctx := tracecontext.WithUserID(c.Request.Context(), claims.UserID)
		ctx = tracecontext.WithUserRole(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		am.logger.Log(kratoslog.LevelDebug, "msg", "User authenticated", "userID", claims.UserID, "path", c.Request.URL.Path)
		c.Next()
	}
}

// RequireModerator 审核员权限中间件，需在GinAuth之后使用
func (am *AuthMiddleware) RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("userRole")
		if role != auth.RoleModerator && role != auth.RoleAdmin {
			am.logger.Log(kratoslog.LevelWarn, "msg", "Moderator permission denied",
				"userID", c.GetInt64("userID"), "role", role, "path", c.Request.URL.Path)
			c.JSON(http.StatusForbidden, gin.H{"error": "Moderator permission required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractTokenFromHeader 从Authorization头中提取token
func (am *AuthMiddleware) extractTokenFromHeader(authHeader string) string {
	if authHeader == "" {
		return ""
	}

	// 支持 "Bearer token" 和直接的 "token" 格式
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return authHeader
}

// shouldSkipAuth 判断是否跳过认证
func (am *AuthMiddleware) shouldSkipAuth(path string) bool {
	skipPaths := []string{
		"/health",
		"/metrics",
	}

	for _, skipPath := range skipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}

	return false
}

// GetCurrentUserID 从Gin上下文获取当前用户ID
func GetCurrentUserID(c *gin.Context) int64 {
	if v, exists := c.Get("userID"); exists {
		if userID, ok := v.(int64); ok {
			return userID
		}
	}
	return 0
}

// GetCurrentUsername 从Gin上下文获取当前用户名
func GetCurrentUsername(c *gin.Context) string {
	return c.GetString("username")
}
