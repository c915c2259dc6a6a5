package repository

import (
	"Lokiz/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// VideoListFilter 个人视频列表过滤条件
type VideoListFilter struct {
	UserID     uint64
	Status     string
	IncludeAll bool // 作者本人：包含未完成与私密视频
	Cursor     uint64
	Limit      int
}

type VideoRepo interface {
	GetVideoById(ctx context.Context, id uint64) (*model.Video, error)
	GetVideoByIds(ctx context.Context, ids []uint64) ([]*model.Video, error)
	ListPublicVideos(ctx context.Context, cursor uint64, limit int) ([]*model.Video, error)
	ListUserVideos(ctx context.Context, filter VideoListFilter) ([]*model.Video, error)
	CountUserVideos(ctx context.Context, filter VideoListFilter) (int64, error)
	ListLikedVideos(ctx context.Context, userID, viewerID, cursor uint64, limit int) ([]*model.Video, error)
	ListBookmarkedVideos(ctx context.Context, userID, cursor uint64, limit int) ([]*model.Video, error)
	SearchVideos(ctx context.Context, keyword string, viewerID uint64, limit int) ([]*model.Video, error)
	CreateVideo(ctx context.Context, video *model.Video, tags []string) error
	UpdateVideo(ctx context.Context, id uint64, updates map[string]any, addTags, removeTags []string) error
	IncrViewCount(ctx context.Context, id uint64) error
	SoftDeleteVideo(ctx context.Context, id uint64, at time.Time) error
	GetVideoTags(ctx context.Context, id uint64) ([]string, error)
}

type VideoRepoImpl struct {
	db *gorm.DB
}

func NewVideoRepo(db *gorm.DB) VideoRepo {
	return &VideoRepoImpl{db: db}
}

func (s *VideoRepoImpl) GetVideoById(ctx context.Context, id uint64) (*model.Video, error) {
	video := &model.Video{}
	result := s.db.WithContext(ctx).First(video, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return video, nil
}

func (s *VideoRepoImpl) GetVideoByIds(ctx context.Context, ids []uint64) ([]*model.Video, error) {
	videos := make([]*model.Video, 0, len(ids))
	if len(ids) == 0 {
		return videos, nil
	}
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos)
	if result.Error != nil {
		return nil, result.Error
	}
	return videos, nil
}

// ListPublicVideos 发现页：已完成的公开视频
func (s *VideoRepoImpl) ListPublicVideos(ctx context.Context, cursor uint64, limit int) ([]*model.Video, error) {
	videos := make([]*model.Video, 0, limit)
	result := s.db.WithContext(ctx).
		Scopes(visibleTo(0), beforeID("videos.id", cursor)).
		Order("videos.id DESC").
		Limit(limit).
		Find(&videos)
	if result.Error != nil {
		return nil, result.Error
	}
	return videos, nil
}

func (s *VideoRepoImpl) userVideosQuery(ctx context.Context, filter VideoListFilter) *gorm.DB {
	db := s.db.WithContext(ctx).Model(&model.Video{}).Where("videos.user_id = ?", filter.UserID)
	if filter.IncludeAll {
		db = db.Where("videos.deleted_at IS NULL")
		if filter.Status != "" {
			db = db.Where("videos.status = ?", filter.Status)
		}
		return db
	}
	return db.Scopes(visibleTo(0))
}

func (s *VideoRepoImpl) ListUserVideos(ctx context.Context, filter VideoListFilter) ([]*model.Video, error) {
	videos := make([]*model.Video, 0, filter.Limit)
	result := s.userVideosQuery(ctx, filter).
		Scopes(beforeID("videos.id", filter.Cursor)).
		Order("videos.id DESC").
		Limit(filter.Limit).
		Find(&videos)
	if result.Error != nil {
		return nil, result.Error
	}
	return videos, nil
}

func (s *VideoRepoImpl) CountUserVideos(ctx context.Context, filter VideoListFilter) (int64, error) {
	var count int64
	err := s.userVideosQuery(ctx, filter).Count(&count).Error
	return count, err
}

// ListLikedVideos 按视频 id 倒序，游标为上一页最后的视频 id
func (s *VideoRepoImpl) ListLikedVideos(ctx context.Context, userID, viewerID, cursor uint64, limit int) ([]*model.Video, error) {
	videos := make([]*model.Video, 0, limit)
	result := s.db.WithContext(ctx).
		Joins("JOIN likes ON likes.video_id = videos.id AND likes.user_id = ?", userID).
		Scopes(visibleTo(viewerID), beforeID("videos.id", cursor)).
		Order("videos.id DESC").
		Limit(limit).
		Find(&videos)
	if result.Error != nil {
		return nil, result.Error
	}
	return videos, nil
}

func (s *VideoRepoImpl) ListBookmarkedVideos(ctx context.Context, userID, cursor uint64, limit int) ([]*model.Video, error) {
	videos := make([]*model.Video, 0, limit)
	result := s.db.WithContext(ctx).
		Joins("JOIN bookmarks ON bookmarks.video_id = videos.id AND bookmarks.user_id = ?", userID).
		Scopes(visibleTo(userID), beforeID("videos.id", cursor)).
		Order("videos.id DESC").
		Limit(limit).
		Find(&videos)
	if result.Error != nil {
		return nil, result.Error
	}
	return videos, nil
}

func (s *VideoRepoImpl) SearchVideos(ctx context.Context, keyword string, viewerID uint64, limit int) ([]*model.Video, error) {
	videos := make([]*model.Video, 0, limit)
	like := "%" + keyword + "%"
	result := s.db.WithContext(ctx).
		Scopes(visibleTo(viewerID)).
		Where("videos.caption LIKE ? OR videos.title LIKE ?", like, like).
		Order("videos.id DESC").
		Limit(limit).
		Find(&videos)
	if result.Error != nil {
		return nil, result.Error
	}
	return videos, nil
}

// CreateVideo 创建视频并关联话题
func (s *VideoRepoImpl) CreateVideo(ctx context.Context, video *model.Video, tags []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(video).Error; err != nil {
			return err
		}
		return attachTags(tx, video.ID, tags)
	})
}

// UpdateVideo 更新字段并按差集调整话题
func (s *VideoRepoImpl) UpdateVideo(ctx context.Context, id uint64, updates map[string]any, addTags, removeTags []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&model.Video{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if err := detachTags(tx, id, removeTags); err != nil {
			return err
		}
		return attachTags(tx, id, addTags)
	})
}

func (s *VideoRepoImpl) IncrViewCount(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", id).
		UpdateColumn("view_count", incr("view_count")).Error
}

// SoftDeleteVideo 标记删除并转为私密，话题计数同步扣减，衍生关系保留
func (s *VideoRepoImpl) SoftDeleteVideo(ctx context.Context, id uint64, at time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Video{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(map[string]any{"deleted_at": at, "is_public": false})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&model.Hashtag{}).
			Where("id IN (?)", tx.Model(&model.VideoHashtag{}).Select("hashtag_id").Where("video_id = ?", id)).
			UpdateColumn("use_count", decr("use_count")).Error
	})
}

func (s *VideoRepoImpl) GetVideoTags(ctx context.Context, id uint64) ([]string, error) {
	names := make([]string, 0)
	err := s.db.WithContext(ctx).
		Model(&model.Hashtag{}).
		Joins("JOIN video_hashtags ON video_hashtags.hashtag_id = hashtags.id").
		Where("video_hashtags.video_id = ?", id).
		Order("hashtags.name").
		Pluck("hashtags.name", &names).Error
	return names, err
}
