package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	tracecontext "famnest/pkg/context"
	"famnest/pkg/logger"
)

// OTelMiddleware OpenTelemetry中间件配置
type OTelMiddleware struct {
	serviceName string
	logger      logger.Logger
}

// NewOTelMiddleware 创建OpenTelemetry中间件
func NewOTelMiddleware(serviceName string, logger logger.Logger) *OTelMiddleware {
	return &OTelMiddleware{
		serviceName: serviceName,
		logger:      logger,
	}
}

// GinMiddleware 返回官方otelgin追踪中间件，负责创建HTTP span
func (m *OTelMiddleware) GinMiddleware() gin.HandlerFunc {
	return otelgin.Middleware(m.serviceName)
}

// ContextEnhancer 返回业务上下文中间件，必须注册在GinMiddleware之后
func (m *OTelMiddleware) ContextEnhancer() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := m.enhanceContext(c.Request.Context(), c)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// enhanceContext 把追踪标识和业务信息注入context与当前span
func (m *OTelMiddleware) enhanceContext(ctx context.Context, c *gin.Context) context.Context {
	traceID := c.GetHeader("X-Trace-ID")
	if traceID == "" {
		if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		}
	}
	if traceID == "" {
		traceID = tracecontext.GenerateTraceID()
	}
	ctx = tracecontext.WithTraceID(ctx, traceID)

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = tracecontext.GenerateRequestID()
	}
	ctx = tracecontext.WithRequestID(ctx, requestID)

	// userID由认证中间件写入，未登录请求没有
	if userIDVal, exists := c.Get("userID"); exists {
		if userID, ok := userIDVal.(int64); ok {
			ctx = tracecontext.WithUserID(ctx, userID)
		}
	}

	ctx = tracecontext.WithServiceName(ctx, m.serviceName)
	ctx = tracecontext.WithClientInfo(ctx, c.ClientIP(), c.GetHeader("User-Agent"))

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("http.route", c.FullPath()),
			attribute.String("http.client_ip", c.ClientIP()),
			attribute.String("request.id", requestID),
		)
		if userID := tracecontext.GetUserID(ctx); userID > 0 {
			span.SetAttributes(attribute.Int64("user.id", userID))
		}
	}

	return ctx
}
