package logger

import (
	"Lokiz/internal/api/config"
	"encoding/json"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultIndex = "logstash-lokiz"

// accessLine 与 slog JSON 输出字段保持一致，Logstash 按 target_index 分流
type accessLine struct {
	Time        string `json:"time"`
	Level       string `json:"level"`
	Msg         string `json:"msg"`
	TraceID     string `json:"trace_id,omitempty"`
	TargetIndex string `json:"target_index"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Status      int    `json:"status"`
	LatencyMs   int64  `json:"latency_ms"`
	ClientIP    string `json:"client_ip"`
	UserID      uint64 `json:"user_id,omitempty"`
}

func accessIndex() string {
	if config.Cfg != nil && config.Cfg.Logstash.Index != "" {
		return config.Cfg.Logstash.Index
	}
	return defaultIndex
}

func formatAccess(index string) gin.LogFormatter {
	return func(p gin.LogFormatterParams) string {
		traceID, _ := p.Keys[TraceIDKey].(string)
		if traceID == "" && p.Request != nil {
			traceID, _ = p.Request.Context().Value(TraceIDKey).(string)
		}
		uid, _ := p.Keys["user_id"].(uint64)

		level := "INFO"
		if p.StatusCode >= http.StatusInternalServerError {
			level = "ERROR"
		}
		b, err := json.Marshal(accessLine{
			Time:        p.TimeStamp.Format(time.RFC3339),
			Level:       level,
			Msg:         "GIN_ACCESS",
			TraceID:     traceID,
			TargetIndex: index,
			Method:      p.Method,
			Path:        p.Path,
			Status:      p.StatusCode,
			LatencyMs:   p.Latency.Milliseconds(),
			ClientIP:    p.ClientIP,
			UserID:      uid,
		})
		if err != nil {
			return ""
		}
		return string(b) + "\n"
	}
}

// SetupGin 注册访问日志与 panic 恢复
func SetupGin(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		Formatter: formatAccess(accessIndex()),
		SkipPaths: []string{"/health"},
	}))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.ErrorContext(c.Request.Context(), "panic recovered",
			log.String("path", c.Request.URL.Path),
			log.Any("panic", recovered),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
