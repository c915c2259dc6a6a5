package repository

import (
	"Lokiz/internal/model"
	"context"

	"gorm.io/gorm"
)

type VideoActionRepo interface {
	CreateLike(ctx context.Context, like *model.Like, n *model.Notification) error
	DeleteLike(ctx context.Context, userID, videoID uint64) (bool, error)
	CheckLikeExists(ctx context.Context, userID, videoID uint64) (bool, error)
	GetLikedVideoIDs(ctx context.Context, userID uint64, videoIDs []uint64) ([]uint64, error)

	CreateBookmark(ctx context.Context, bookmark *model.Bookmark) error
	DeleteBookmark(ctx context.Context, userID, videoID uint64) (bool, error)
	CheckBookmarkExists(ctx context.Context, userID, videoID uint64) (bool, error)

	CreateShare(ctx context.Context, videoID uint64, share *model.VideoShare) error
}

type VideoActionRepoImpl struct {
	db *gorm.DB
}

func NewVideoActionRepo(db *gorm.DB) VideoActionRepo {
	return &VideoActionRepoImpl{db}
}

// CreateLike 点赞、计数与通知同一事务，重复点赞返回主键冲突
func (s *VideoActionRepoImpl) CreateLike(ctx context.Context, like *model.Like, n *model.Notification) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Video{}).Where("id = ?", like.VideoID).
			UpdateColumn("like_count", incr("like_count")).Error; err != nil {
			return err
		}
		return createNotification(tx, n)
	})
}

func (s *VideoActionRepoImpl) DeleteLike(ctx context.Context, userID, videoID uint64) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND video_id = ?", userID, videoID).Delete(&model.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Model(&model.Video{}).Where("id = ?", videoID).
			UpdateColumn("like_count", decr("like_count")).Error
	})
	return deleted, err
}

func (s *VideoActionRepoImpl) CheckLikeExists(ctx context.Context, userID, videoID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	return count > 0, err
}

func (s *VideoActionRepoImpl) GetLikedVideoIDs(ctx context.Context, userID uint64, videoIDs []uint64) ([]uint64, error) {
	liked := make([]uint64, 0)
	if len(videoIDs) == 0 {
		return liked, nil
	}
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND video_id IN ?", userID, videoIDs).
		Pluck("video_id", &liked).Error
	return liked, err
}

func (s *VideoActionRepoImpl) CreateBookmark(ctx context.Context, bookmark *model.Bookmark) error {
	return s.db.WithContext(ctx).Create(bookmark).Error
}

func (s *VideoActionRepoImpl) DeleteBookmark(ctx context.Context, userID, videoID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&model.Bookmark{})
	return result.RowsAffected > 0, result.Error
}

func (s *VideoActionRepoImpl) CheckBookmarkExists(ctx context.Context, userID, videoID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Bookmark{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	return count > 0, err
}

// CreateShare 匿名分享只累加计数，不落分享记录
func (s *VideoActionRepoImpl) CreateShare(ctx context.Context, videoID uint64, share *model.VideoShare) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if share != nil {
			if err := tx.Create(share).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Video{}).Where("id = ?", videoID).
			UpdateColumn("share_count", incr("share_count")).Error
	})
}
