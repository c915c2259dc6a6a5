package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/redis"
	"Lokiz/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
)

const unreadCacheTTL = 5 * time.Minute

type NotificationService interface {
	List(ctx context.Context, userID uint64, q *dto.NotificationQuery) (*dto.NotificationListDTO, error)
	UnreadCount(ctx context.Context, userID uint64) (*dto.UnreadCountDTO, error)
	MarkRead(ctx context.Context, userID, notificationID uint64) (*dto.MarkReadDTO, error)
	MarkAllRead(ctx context.Context, userID uint64) (*dto.MarkReadDTO, error)
	MarkBatchRead(ctx context.Context, userID uint64, ids []uint64) (*dto.MarkReadDTO, error)
	// Subscribe 订阅用户的实时通知频道，调用方负责关闭
	Subscribe(ctx context.Context, userID uint64) *goredis.PubSub
}

type NotificationServiceImpl struct {
	notificationRepo repository.NotificationRepo
	assembler        *videoAssembler
}

func NewNotificationService(notificationRepo repository.NotificationRepo, userRepo repository.UserRepo) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		assembler:        &videoAssembler{userRepo: userRepo},
	}
}

func unreadKey(userID uint64) string {
	return consts.NotificationUnreadKey + fmt.Sprint(userID)
}

func channelKey(userID uint64) string {
	return consts.NotificationChannelKey + fmt.Sprint(userID)
}

// pushNotification 通知落库后调用：清理未读缓存并推送到用户频道
func pushNotification(ctx context.Context, n *model.Notification) {
	if n == nil {
		return
	}
	if err := redis.DeleteKey(ctx, unreadKey(n.UserID)); err != nil {
		log.WarnContext(ctx, "invalidate unread count error", "user_id", n.UserID, "err", err)
	}
	payload, err := json.Marshal(&dto.NotificationEvent{
		ID:        n.ID,
		Type:      n.Type,
		ActorID:   n.ActorID,
		TargetID:  n.TargetID,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return
	}
	if err = redis.Publish(ctx, channelKey(n.UserID), payload); err != nil {
		log.WarnContext(ctx, "publish notification error", "user_id", n.UserID, "err", err)
	}
}

func (s *NotificationServiceImpl) List(ctx context.Context, userID uint64, q *dto.NotificationQuery) (*dto.NotificationListDTO, error) {
	limit, offset := q.Normalize(consts.DefaultPageSize)
	items, err := s.notificationRepo.ListNotifications(ctx, userID, q.UnreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.notificationRepo.CountNotifications(ctx, userID, q.UnreadOnly)
	if err != nil {
		return nil, err
	}
	unread, err := s.unreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	actorIDs := make([]uint64, len(items))
	for i, n := range items {
		actorIDs[i] = n.ActorID
	}
	actors, err := s.assembler.userMap(ctx, actorIDs)
	if err != nil {
		return nil, err
	}

	out := &dto.NotificationListDTO{
		Notifications: make([]*dto.NotificationDTO, 0, len(items)),
		Total:         total,
		UnreadCount:   unread,
		Page:          q.Page,
		PageSize:      q.PageSize,
	}
	for _, n := range items {
		out.Notifications = append(out.Notifications, &dto.NotificationDTO{
			ID:        n.ID,
			Type:      n.Type,
			Actor:     toUserBasic(actors[n.ActorID]),
			TargetID:  n.TargetID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return out, nil
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, userID uint64) (*dto.UnreadCountDTO, error) {
	count, err := s.unreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountDTO{UnreadCount: count}, nil
}

func (s *NotificationServiceImpl) unreadCount(ctx context.Context, userID uint64) (int64, error) {
	key := unreadKey(userID)
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, goredis.Nil) {
		log.WarnContext(ctx, "read unread count cache error", "user_id", userID, "err", err)
	}

	count, err = s.notificationRepo.CountNotifications(ctx, userID, true)
	if err != nil {
		return 0, err
	}
	if err = redis.SetWithExpiration(ctx, key, count, unreadCacheTTL); err != nil {
		log.WarnContext(ctx, "write unread count cache error", "user_id", userID, "err", err)
	}
	return count, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID uint64) (*dto.MarkReadDTO, error) {
	n, err := s.notificationRepo.GetNotificationById(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n == nil || n.UserID != userID {
		return nil, ErrNotificationNotFound
	}
	return s.markRead(ctx, userID, []uint64{notificationID})
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) (*dto.MarkReadDTO, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, err
	}
	_ = redis.DeleteKey(ctx, unreadKey(userID))
	return &dto.MarkReadDTO{MarkedCount: count, Success: true}, nil
}

// MarkBatchRead 不属于当前用户的 id 被忽略
func (s *NotificationServiceImpl) MarkBatchRead(ctx context.Context, userID uint64, ids []uint64) (*dto.MarkReadDTO, error) {
	if err := checkBatch(len(ids), consts.MaxBatchSize); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &dto.MarkReadDTO{Success: true}, nil
	}
	return s.markRead(ctx, userID, ids)
}

func (s *NotificationServiceImpl) markRead(ctx context.Context, userID uint64, ids []uint64) (*dto.MarkReadDTO, error) {
	count, err := s.notificationRepo.MarkRead(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	_ = redis.DeleteKey(ctx, unreadKey(userID))
	return &dto.MarkReadDTO{MarkedCount: count, Success: true}, nil
}

func (s *NotificationServiceImpl) Subscribe(ctx context.Context, userID uint64) *goredis.PubSub {
	return redis.Subscribe(ctx, channelKey(userID))
}
