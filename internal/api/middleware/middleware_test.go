package middleware

import (
	"Lokiz/internal/api/config"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/redis"
	"Lokiz/internal/pkg/security"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

func setup(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	gin.SetMode(gin.TestMode)
	security.Init(config.JWTConfig{Secret: "middleware-test", ExpireMinutes: 10, Issuer: "lokiz-test"})
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })
	return mr
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.String(http.StatusOK, "%d|%s", c.GetUint64("user_id"), c.GetString("role"))
	})
	r.GET("/t", handlers...)
	return r
}

func do(r http.Handler, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	setup(t)
	r := newEngine(AuthMiddleware())

	if w := do(r, "/t", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", w.Code)
	}
	if w := do(r, "/t", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", w.Code)
	}

	token, _ := security.GenerateToken(9, "user")
	w := do(r, "/t", token)
	if w.Code != http.StatusOK || w.Body.String() != "9|user" {
		t.Fatalf("valid token: %d %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	mr := setup(t)
	r := newEngine(AuthMiddleware())

	token, _ := security.GenerateToken(9, "user")
	sig, _ := security.ExtractSignature(token)
	_ = mr.Set(consts.TokenBlacklistKey+sig, "1")

	if w := do(r, "/t", token); w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token accepted: %d", w.Code)
	}
}

func TestAuthOptionalMiddleware(t *testing.T) {
	setup(t)
	r := newEngine(AuthOptionalMiddleware())

	if w := do(r, "/t", ""); w.Body.String() != "0|" {
		t.Fatalf("anonymous: %s", w.Body.String())
	}
	if w := do(r, "/t", "garbage"); w.Code != http.StatusOK || w.Body.String() != "0|" {
		t.Fatalf("invalid token must degrade to anonymous: %d %s", w.Code, w.Body.String())
	}
	token, _ := security.GenerateToken(3, "user")
	if w := do(r, "/t", token); w.Body.String() != "3|user" {
		t.Fatalf("valid: %s", w.Body.String())
	}
}

func TestQueryAuthMiddleware(t *testing.T) {
	setup(t)
	r := newEngine(QueryAuthMiddleware())

	token, _ := security.GenerateToken(5, "user")
	if w := do(r, "/t?token="+token, ""); w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "5|") {
		t.Fatalf("query token: %d %s", w.Code, w.Body.String())
	}
	if w := do(r, "/t", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", w.Code)
	}
}

func TestCheckRoles(t *testing.T) {
	setup(t)
	r := newEngine(AuthMiddleware(), CheckRoles("admin"))

	user, _ := security.GenerateToken(1, "user")
	if w := do(r, "/t", user); w.Code != http.StatusForbidden {
		t.Fatalf("user reached admin route: %d", w.Code)
	}
	admin, _ := security.GenerateToken(2, "admin")
	if w := do(r, "/t", admin); w.Code != http.StatusOK {
		t.Fatalf("admin rejected: %d", w.Code)
	}
}

func TestRedact(t *testing.T) {
	got := redact([]byte(`{"email":"a@b.c","password": "hunter2"}`))
	if strings.Contains(got, "hunter2") || !strings.Contains(got, `"password":"***"`) {
		t.Fatalf("password leaked: %s", got)
	}
}

func TestTraceMiddlewareEchoesHeader(t *testing.T) {
	setup(t)
	r := newEngine(TraceMiddleware())
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("X-Trace-ID", "trace-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Trace-ID") != "trace-1" {
		t.Fatalf("trace id = %q", w.Header().Get("X-Trace-ID"))
	}
}

func TestTraceMiddlewareRejectsUnsafeID(t *testing.T) {
	setup(t)
	r := newEngine(TraceMiddleware())
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("X-Trace-ID", "bad id\ninjected")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Trace-ID"); got == "" || strings.Contains(got, "injected") {
		t.Fatalf("trace id = %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	setup(t)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.PATCH("/t", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/t", nil)
	req.Header.Set("Origin", "https://app.lokiz.dev")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "https://app.lokiz.dev" {
		t.Fatalf("preflight: %d %v", w.Code, w.Header())
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "PATCH") {
		t.Fatal("PATCH must be allowed")
	}
}

func TestAuditKeepsRequestBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuditMiddleware())
	var seen string
	r.POST("/t", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		seen = string(b)
		c.String(http.StatusOK, strings.Repeat("x", auditBodyLimit*2))
	})
	body := `{"email":"a@b.c","password":"hunter2"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/t", strings.NewReader(body)))
	if seen != body {
		t.Fatalf("handler body = %q", seen)
	}
	if w.Body.Len() != auditBodyLimit*2 {
		t.Fatalf("response truncated for client: %d", w.Body.Len())
	}
}

func TestSkipAudit(t *testing.T) {
	if !skipAudit("/api/v1/notifications/ws") || skipAudit("/api/v1/videos") {
		t.Fatal("skip list mismatch")
	}
}

func TestRateLimiterPerCaller(t *testing.T) {
	l := NewRateLimiter(1, 2, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	if !l.Allow("u:1") || !l.Allow("u:1") {
		t.Fatal("burst of 2 must pass")
	}
	if l.Allow("u:1") {
		t.Fatal("third call within the minute must be limited")
	}
	if !l.Allow("u:2") {
		t.Fatal("other caller must not share the bucket")
	}
	now = now.Add(time.Minute)
	if !l.Allow("u:1") {
		t.Fatal("token must refill after a minute")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newEngine(RateLimitMiddleware(NewRateLimiter(1, 1, 0)))
	if w := do(r, "/t", ""); w.Code != http.StatusOK {
		t.Fatalf("first call: %d", w.Code)
	}
	w := do(r, "/t", "")
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
		t.Fatalf("second call: %d", w.Code)
	}

	if NewRateLimiter(0, 1, 0) != nil {
		t.Fatal("zero rate disables limiting")
	}
	open := newEngine(RateLimitMiddleware(nil))
	for i := 0; i < 3; i++ {
		if w := do(open, "/t", ""); w.Code != http.StatusOK {
			t.Fatalf("nil limiter blocked: %d", w.Code)
		}
	}
}
