package replicate

import (
	"Lokiz/internal/api/config"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(config.ReplicateConfig{BaseURL: srv.URL, APIToken: "tok", RetryCount: 0})
	c.pollInterval = time.Millisecond
	return c
}

func TestClientRunPollsUntilSucceeded(t *testing.T) {
	var polls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/models/owner/model/predictions":
			var body map[string]map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["input"]["image"] != "img" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"id":"p1","status":"starting"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/predictions/p1":
			if polls.Add(1) < 2 {
				_, _ = w.Write([]byte(`{"id":"p1","status":"processing"}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":"p1","status":"succeeded","output":["https://cdn/out.mp4","https://cdn/b.mp4"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	g := NewGenerator(c, config.ModelsConfig{Template: "owner/model"})
	res, err := g.I2VTemplate(context.Background(), "img", "hug", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OutputURL != "https://cdn/out.mp4" || res.Model != "owner/model" || res.PredictionID != "p1" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestClientRunFailedPrediction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"p2","status":"failed","error":"nsfw"}`))
	})

	_, err := c.Run(context.Background(), "owner/model", map[string]any{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestClientRunHonorsContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"p3","status":"processing"}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Run(ctx, "owner/model", nil); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestFirstOutput(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{"https://a", "https://a", true},
		{[]any{"https://b", "https://c"}, "https://b", true},
		{[]string{"https://d"}, "https://d", true},
		{[]any{}, "", false},
		{nil, "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := FirstOutput(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("FirstOutput(%v) = %q, %v", tc.in, got, err)
		}
	}
}
