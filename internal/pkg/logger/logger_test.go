package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRemoteFilterHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &RemoteFilterHandler{next: log.NewJSONHandler(&buf, nil)}
	l := log.New(h)

	l.Info("background info")
	if buf.Len() != 0 {
		t.Fatalf("untraced info forwarded: %s", buf.String())
	}
	l.Warn("background warn")
	if !strings.Contains(buf.String(), "background warn") {
		t.Fatal("warn must be forwarded")
	}
	buf.Reset()

	l.With(TraceIDKey, "abc").Info("bound trace")
	if !strings.Contains(buf.String(), "bound trace") {
		t.Fatal("trace bound via With must be forwarded")
	}
	buf.Reset()

	l.Info("inline trace", TraceIDKey, "def")
	if !strings.Contains(buf.String(), "inline trace") {
		t.Fatal("inline trace must be forwarded")
	}
}

func TestTruncate(t *testing.T) {
	if Truncate("short", 10) != "short" {
		t.Fatal("short string changed")
	}
	if got := Truncate("0123456789", 4); got != "0123...[truncated]" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatAccessEscapesPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), TraceIDKey, "t-1"))
	line := formatAccess("idx")(gin.LogFormatterParams{
		Request:    req,
		Method:     "GET",
		Path:       `/api/v1/search?q="x"`,
		StatusCode: 500,
	})
	for _, want := range []string{`"level":"ERROR"`, `"trace_id":"t-1"`, `"target_index":"idx"`, `\"x\"`} {
		if !strings.Contains(line, want) {
			t.Errorf("missing %s in %s", want, line)
		}
	}
}
