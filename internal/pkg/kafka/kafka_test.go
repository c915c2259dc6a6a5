package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
)

func TestToAIJobMessage(t *testing.T) {
	ok := &sarama.ConsumerMessage{Value: []byte(`{"job_id":7,"user_id":3,"job_type":"music"}`)}
	m, err := ToAIJobMessage(ok)
	if err != nil || m.JobID != 7 || m.UserID != 3 || m.JobType != "music" {
		t.Fatalf("got %+v, %v", m, err)
	}

	for _, raw := range []string{`not json`, `{"user_id":3}`} {
		if _, err = ToAIJobMessage(&sarama.ConsumerMessage{Value: []byte(raw)}); err == nil {
			t.Errorf("expected error for %s", raw)
		}
	}
}

func TestAIJobProducerDispatch(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var m AIJobMessage
		if err := json.Unmarshal(val, &m); err != nil {
			return err
		}
		if m.JobID != 42 || m.JobType != "glitch_animate" {
			t.Errorf("unexpected message %+v", m)
		}
		return nil
	})

	p := NewAIJobProducerWith(sp, "lokiz-ai-jobs")
	if err := p.Dispatch(context.Background(), 42, 1, "glitch_animate"); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAIJobHandlerDropsInvalidMessage(t *testing.T) {
	called := false
	h := NewAIJobHandler(func(ctx context.Context, jobID uint64) error {
		called = true
		return nil
	})
	if err := h.handle(context.Background(), &sarama.ConsumerMessage{Value: []byte("{}")}); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Fatal("processor must not run for invalid message")
	}

	var got uint64
	h = NewAIJobHandler(func(ctx context.Context, jobID uint64) error {
		got = jobID
		return nil
	})
	if err := h.handle(context.Background(), &sarama.ConsumerMessage{Value: []byte(`{"job_id":9}`)}); err != nil {
		t.Fatal(err)
	}
	if got != 9 {
		t.Fatalf("processed job %d", got)
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	retryBackoff = time.Millisecond
	calls := 0
	ok := withRetry(context.Background(), &sarama.ConsumerMessage{}, func(context.Context, *sarama.ConsumerMessage) error {
		calls++
		return errors.New("provider down")
	})
	if !ok || calls != maxAttempts {
		t.Fatalf("ok=%v calls=%d", ok, calls)
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	retryBackoff = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	ok := withRetry(ctx, &sarama.ConsumerMessage{}, func(context.Context, *sarama.ConsumerMessage) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	if ok || calls != 1 {
		t.Fatalf("ok=%v calls=%d", ok, calls)
	}
}
