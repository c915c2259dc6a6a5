package repository

import (
	"Lokiz/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	GetNotificationById(ctx context.Context, id uint64) (*model.Notification, error)
	ListNotifications(ctx context.Context, userID uint64, unreadOnly bool, limit, offset int) ([]*model.Notification, error)
	CountNotifications(ctx context.Context, userID uint64, unreadOnly bool) (int64, error)
	MarkRead(ctx context.Context, userID uint64, ids []uint64) (int64, error)
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}

type NotificationRepoImpl struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepo {
	return &NotificationRepoImpl{db: db}
}

func (s *NotificationRepoImpl) CreateNotification(ctx context.Context, n *model.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *NotificationRepoImpl) GetNotificationById(ctx context.Context, id uint64) (*model.Notification, error) {
	n := &model.Notification{}
	result := s.db.WithContext(ctx).First(n, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return n, nil
}

func (s *NotificationRepoImpl) listQuery(ctx context.Context, userID uint64, unreadOnly bool) *gorm.DB {
	db := s.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		db = db.Where("is_read = ?", false)
	}
	return db
}

func (s *NotificationRepoImpl) ListNotifications(ctx context.Context, userID uint64, unreadOnly bool, limit, offset int) ([]*model.Notification, error) {
	list := make([]*model.Notification, 0, limit)
	err := s.listQuery(ctx, userID, unreadOnly).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *NotificationRepoImpl) CountNotifications(ctx context.Context, userID uint64, unreadOnly bool) (int64, error) {
	var count int64
	err := s.listQuery(ctx, userID, unreadOnly).Count(&count).Error
	return count, err
}

// MarkRead 只会更新属于 userID 的未读通知
func (s *NotificationRepoImpl) MarkRead(ctx context.Context, userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND id IN ? AND is_read = ?", userID, ids, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (s *NotificationRepoImpl) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (s *NotificationRepoImpl) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, before).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}
