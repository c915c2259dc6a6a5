package middleware

import (
	"Lokiz/internal/pkg/logger"
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const auditBodyLimit = 4096

// 探活与长连接不记审计日志
var auditSkipPaths = []string{"/health", "/api/v1/ping", "/api/v1/notifications/ws"}

// 登录注册等请求体中的口令字段不落日志
var secretField = regexp.MustCompile(`"(password|new_password|token)"\s*:\s*"[^"]*"`)

func redact(body []byte) string {
	return logger.Truncate(secretField.ReplaceAllString(string(body), `"$1":"***"`), auditBodyLimit)
}

// cappedWriter 只保留响应体前 auditBodyLimit 字节
type cappedWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *cappedWriter) Write(b []byte) (int, error) {
	if room := auditBodyLimit + 1 - w.buf.Len(); room > 0 {
		w.buf.Write(b[:min(room, len(b))])
	}
	return w.ResponseWriter.Write(b)
}

func (w *cappedWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func skipAudit(path string) bool {
	for _, p := range auditSkipPaths {
		if path == p {
			return true
		}
	}
	return false
}

func readBody(c *gin.Context) []byte {
	if c.Request.Body == nil || strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return body
}

// AuditMiddleware 记录请求与响应摘要
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipAudit(c.Request.URL.Path) {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		reqBody := readBody(c)

		query, err := url.QueryUnescape(c.Request.URL.RawQuery)
		if err != nil {
			query = c.Request.URL.RawQuery
		}
		log.InfoContext(ctx, "Recv Request",
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("query", query),
			log.String("client_ip", c.ClientIP()),
			log.String("req_body", redact(reqBody)),
		)

		w := &cappedWriter{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = w
		start := time.Now()

		c.Next()

		attrs := []any{
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(start)),
			log.String("res_body", redact(w.buf.Bytes())),
		}
		// 鉴权中间件在 c.Next 期间写入
		if uid := c.GetUint64("user_id"); uid != 0 {
			attrs = append(attrs, log.Uint64("user_id", uid))
		}
		log.InfoContext(ctx, "Send Response", attrs...)
	}
}
