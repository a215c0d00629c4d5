package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	kratoslog "github.com/go-kratos/kratos/v2/log"

	"famnest/pkg/redis"
)

// RateLimitMiddleware 基于Redis的固定窗口限流中间件
type RateLimitMiddleware struct {
	logger kratoslog.Logger
	redis  *redis.RedisClient
	limit  int64
	window time.Duration
}

// NewRateLimitMiddleware 创建限流中间件
func NewRateLimitMiddleware(logger kratoslog.Logger, redisClient *redis.RedisClient, limit int64, window time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		logger: logger,
		redis:  redisClient,
		limit:  limit,
		window: window,
	}
}

// GinRateLimit Gin限流中间件，按用户限流，未认证请求按IP限流
func (rl *RateLimitMiddleware) GinRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redis == nil {
			c.Next()
			return
		}

		key := rl.buildKey(c)
		ctx := c.Request.Context()

		count, err := rl.redis.Incr(ctx, key)
		if err != nil {
			// Redis不可用时放行，避免限流器成为单点
			rl.logger.Log(kratoslog.LevelWarn, "msg", "Rate limit check failed", "error", err)
			c.Next()
			return
		}

		// 窗口内首次请求时设置过期时间
		if count == 1 {
			if err := rl.redis.Expire(ctx, key, rl.window); err != nil {
				rl.logger.Log(kratoslog.LevelWarn, "msg", "Failed to set rate limit window", "error", err)
			}
		}

		if count > rl.limit {
			rl.logger.Log(kratoslog.LevelWarn, "msg", "Rate limit exceeded",
				"key", key, "count", count, "limit", rl.limit, "path", c.Request.URL.Path)
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// buildKey 构建限流key
func (rl *RateLimitMiddleware) buildKey(c *gin.Context) string {
	window := time.Now().Unix() / int64(rl.window.Seconds())
	if userID := GetCurrentUserID(c); userID > 0 {
		return fmt.Sprintf("ratelimit:user:%d:%d", userID, window)
	}
	return fmt.Sprintf("ratelimit:ip:%s:%d", c.ClientIP(), window)
}
