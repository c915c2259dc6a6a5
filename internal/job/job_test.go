package job

import (
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/redis"
	"Lokiz/internal/repository"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })
	return mr
}

func TestWorkerPoolProcessesAndRetries(t *testing.T) {
	setupRedis(t)
	var calls atomic.Int32
	done := make(chan uint64, 4)
	pool := NewAIWorkerPool(func(ctx context.Context, jobID uint64) error {
		if calls.Add(1) == 1 {
			return errors.New("db down")
		}
		done <- jobID
		return nil
	}, 1, 4)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = pool.Start(ctx)
		close(stopped)
	}()

	if err := pool.Dispatch(context.Background(), 42, 7, model.JobTypeMusic); err != nil {
		t.Fatal(err)
	}
	select {
	case id := <-done:
		if id != 42 {
			t.Fatalf("processed job %d", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job not processed")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}

	cancel()
	<-stopped
}

func TestWorkerPoolQueueFull(t *testing.T) {
	pool := NewAIWorkerPool(func(context.Context, uint64) error { return nil }, 1, 1)
	ctx := context.Background()
	if err := pool.Dispatch(ctx, 1, 1, model.JobTypeMusic); err != nil {
		t.Fatal(err)
	}
	if err := pool.Dispatch(ctx, 2, 1, model.JobTypeMusic); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("got %v", err)
	}
}

func TestExclusiveSkipsRunningJob(t *testing.T) {
	mr := setupRedis(t)
	var calls int
	process := Exclusive(func(context.Context, uint64) error {
		calls++
		return nil
	}, time.Minute)

	_ = mr.Set(consts.AIJobRunLock+"5", "other")
	if err := process(context.Background(), 5); err != nil || calls != 0 {
		t.Fatalf("locked job ran: err %v calls %d", err, calls)
	}

	if err := process(context.Background(), 6); err != nil || calls != 1 {
		t.Fatalf("free job not run: err %v calls %d", err, calls)
	}
	if mr.Exists(consts.AIJobRunLock + "6") {
		t.Fatal("run lock must be released")
	}
}

type fakeJobRepo struct {
	repository.AIJobRepo
	before  time.Time
	message string
}

func (f *fakeJobRepo) FailStaleJobs(_ context.Context, before time.Time, message string) (int64, error) {
	f.before, f.message = before, message
	return 2, nil
}

func TestStaleJobSweep(t *testing.T) {
	setupRedis(t)
	repo := &fakeJobRepo{}
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	j := NewStaleJobSweepJob(repo, 20*time.Minute)
	j.now = func() time.Time { return now }

	j.Run()
	if !repo.before.Equal(now.Add(-20*time.Minute)) || repo.message != staleJobMessage {
		t.Fatalf("unexpected sweep args %v %q", repo.before, repo.message)
	}
}

func TestCronLockSkipsWhenHeld(t *testing.T) {
	mr := setupRedis(t)
	repo := &fakeJobRepo{}
	_ = mr.Set(consts.CronJobLock+"stale_job_sweep", "other")

	NewStaleJobSweepJob(repo, time.Minute).Run()
	if !repo.before.IsZero() {
		t.Fatal("sweep must not run while another instance holds the lock")
	}
}

type fakeNotificationRepo struct {
	repository.NotificationRepo
	before time.Time
}

func (f *fakeNotificationRepo) DeleteReadBefore(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return 3, nil
}

func TestNotificationPrune(t *testing.T) {
	setupRedis(t)
	repo := &fakeNotificationRepo{}
	now := time.Date(2025, 5, 1, 3, 30, 0, 0, time.UTC)
	j := NewNotificationPruneJob(repo, 90)
	j.now = func() time.Time { return now }

	j.Run()
	if want := now.AddDate(0, 0, -90); !repo.before.Equal(want) {
		t.Fatalf("before = %v, want %v", repo.before, want)
	}
}
