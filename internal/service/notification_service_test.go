package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

type fakeNotificationRepo struct {
	repository.NotificationRepo
	items      map[uint64]*model.Notification
	countCalls int
}

func (f *fakeNotificationRepo) GetNotificationById(_ context.Context, id uint64) (*model.Notification, error) {
	return f.items[id], nil
}

func (f *fakeNotificationRepo) CountNotifications(_ context.Context, userID uint64, unreadOnly bool) (int64, error) {
	f.countCalls++
	var n int64
	for _, it := range f.items {
		if it.UserID == userID && (!unreadOnly || !it.IsRead) {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, userID uint64, ids []uint64) (int64, error) {
	var n int64
	for _, id := range ids {
		if it, ok := f.items[id]; ok && it.UserID == userID && !it.IsRead {
			it.IsRead = true
			n++
		}
	}
	return n, nil
}

func newNotificationFixture() (*NotificationServiceImpl, *fakeNotificationRepo) {
	repo := &fakeNotificationRepo{items: map[uint64]*model.Notification{
		1: {ID: 1, UserID: 7, ActorID: 8, Type: model.NotificationLike},
		2: {ID: 2, UserID: 7, ActorID: 9, Type: model.NotificationFollow},
		3: {ID: 3, UserID: 8, ActorID: 7, Type: model.NotificationComment},
	}}
	svc := NewNotificationService(repo, &fakeUserRepo{users: map[uint64]*model.User{}})
	return svc.(*NotificationServiceImpl), repo
}

func TestUnreadCountCached(t *testing.T) {
	setupRedis(t)
	svc, repo := newNotificationFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		out, err := svc.UnreadCount(ctx, 7)
		if err != nil {
			t.Fatal(err)
		}
		if out.UnreadCount != 2 {
			t.Fatalf("unread = %d", out.UnreadCount)
		}
	}
	if repo.countCalls != 1 {
		t.Fatalf("expected one db count, got %d", repo.countCalls)
	}

	if _, err := svc.MarkRead(ctx, 7, 1); err != nil {
		t.Fatal(err)
	}
	out, err := svc.UnreadCount(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if out.UnreadCount != 1 || repo.countCalls != 2 {
		t.Fatalf("cache not invalidated: unread %d, calls %d", out.UnreadCount, repo.countCalls)
	}
}

func TestMarkReadForeignNotification(t *testing.T) {
	setupRedis(t)
	svc, _ := newNotificationFixture()
	if _, err := svc.MarkRead(context.Background(), 7, 3); err != ErrNotificationNotFound {
		t.Fatalf("got %v", err)
	}
}

func TestPushNotificationPublishes(t *testing.T) {
	mr := setupRedis(t)
	svc, _ := newNotificationFixture()
	ctx := context.Background()

	sub := svc.Subscribe(ctx, 7)
	defer func() { _ = sub.Close() }()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatal(err)
	}

	_ = mr.Set(unreadKey(7), "5")
	target := uint64(42)
	pushNotification(ctx, &model.Notification{ID: 11, UserID: 7, ActorID: 8, Type: model.NotificationLike, TargetID: &target})

	if mr.Exists(unreadKey(7)) {
		t.Fatal("unread cache must be dropped")
	}
	select {
	case msg := <-sub.Channel():
		ev := &dto.NotificationEvent{}
		if err := json.Unmarshal([]byte(msg.Payload), ev); err != nil {
			t.Fatal(err)
		}
		if ev.ID != 11 || ev.Type != model.NotificationLike || *ev.TargetID != 42 {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}
}
