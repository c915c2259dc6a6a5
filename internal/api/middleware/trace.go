package middleware

import (
	"Lokiz/internal/pkg/logger"
	"context"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// 外部传入的 trace id 只接受有限长度的安全字符，避免污染日志
var validTraceID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

func incomingTraceID(c *gin.Context) string {
	for _, h := range []string{traceHeader, "X-Request-ID"} {
		if id := c.GetHeader(h); validTraceID.MatchString(id) {
			return id
		}
	}
	return ""
}

// TraceMiddleware 为每个请求注入 trace id 并回写到响应头
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := incomingTraceID(c)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(logger.TraceIDKey, traceID)
		ctx := context.WithValue(c.Request.Context(), logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(traceHeader, traceID)
		c.Next()
	}
}
