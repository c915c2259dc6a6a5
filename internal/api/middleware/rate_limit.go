package middleware

import (
	"Lokiz/internal/pkg/response"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按调用方限流
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	lastGC   time.Time
	now      func() time.Time
}

// NewRateLimiter 每分钟 perMinute 次，闲置超过 ttl 的调用方被回收；perMinute<=0 表示不限流
func NewRateLimiter(perMinute, burst int, ttl time.Duration) *RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (l *RateLimiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	if now.Sub(l.lastGC) > l.ttl {
		for k, item := range l.visitors {
			if now.Sub(item.lastSeen) > l.ttl {
				delete(l.visitors, k)
			}
		}
		l.lastGC = now
	}
	l.mu.Unlock()
	return v.limiter.AllowN(now, 1)
}

// callerKey 登录用户按 ID，匿名按 IP
func callerKey(c *gin.Context) string {
	if uid := c.GetUint64("user_id"); uid != 0 {
		return "u:" + strconv.FormatUint(uid, 10)
	}
	return "ip:" + c.ClientIP()
}

// RateLimitMiddleware 需放在鉴权之后才能按用户区分；limiter 为 nil 时直接放行
func RateLimitMiddleware(l *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.Allow(callerKey(c)) {
			c.Next()
			return
		}
		c.Header("Retry-After", "60")
		response.Fail(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
		c.Abort()
	}
}
