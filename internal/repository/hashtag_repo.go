package repository

import (
	"Lokiz/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HashtagStats 话题统计
type HashtagStats struct {
	Name            string
	UseCount        int
	VideoCount      int64
	TotalViews      int64
	LatestThumbnail *string
}

type HashtagRepo interface {
	GetTrending(ctx context.Context, limit int) ([]*model.Hashtag, error)
	GetHashtagByName(ctx context.Context, name string) (*model.Hashtag, error)
	ListVideosByHashtag(ctx context.Context, hashtagID uint64, limit, offset int) ([]*model.Video, error)
	CountVideosByHashtag(ctx context.Context, hashtagID uint64) (int64, error)
	GetStatsByNames(ctx context.Context, names []string) ([]*HashtagStats, error)
}

type HashtagRepoImpl struct {
	db *gorm.DB
}

func NewHashtagRepo(db *gorm.DB) HashtagRepo {
	return &HashtagRepoImpl{db: db}
}

func (s *HashtagRepoImpl) GetTrending(ctx context.Context, limit int) ([]*model.Hashtag, error) {
	tags := make([]*model.Hashtag, 0, limit)
	result := s.db.WithContext(ctx).
		Where("use_count > 0").
		Order("use_count DESC, id ASC").
		Limit(limit).
		Find(&tags)
	if result.Error != nil {
		return nil, result.Error
	}
	return tags, nil
}

func (s *HashtagRepoImpl) GetHashtagByName(ctx context.Context, name string) (*model.Hashtag, error) {
	tag := &model.Hashtag{}
	result := s.db.WithContext(ctx).Where("name = ?", name).First(tag)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return tag, nil
}

func (s *HashtagRepoImpl) taggedVideos(ctx context.Context, hashtagID uint64) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Video{}).
		Joins("JOIN video_hashtags ON video_hashtags.video_id = videos.id").
		Where("video_hashtags.hashtag_id = ?", hashtagID).
		Scopes(visibleTo(0))
}

func (s *HashtagRepoImpl) ListVideosByHashtag(ctx context.Context, hashtagID uint64, limit, offset int) ([]*model.Video, error) {
	videos := make([]*model.Video, 0, limit)
	result := s.taggedVideos(ctx, hashtagID).
		Order("videos.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos)
	if result.Error != nil {
		return nil, result.Error
	}
	return videos, nil
}

func (s *HashtagRepoImpl) CountVideosByHashtag(ctx context.Context, hashtagID uint64) (int64, error) {
	var count int64
	err := s.taggedVideos(ctx, hashtagID).Count(&count).Error
	return count, err
}

// GetStatsByNames 单条聚合查询，不存在的话题不返回
func (s *HashtagRepoImpl) GetStatsByNames(ctx context.Context, names []string) ([]*HashtagStats, error) {
	stats := make([]*HashtagStats, 0, len(names))
	if len(names) == 0 {
		return stats, nil
	}

	latestThumb := s.db.Model(&model.Video{}).
		Select("v2.thumbnail_url").
		Table("videos AS v2").
		Joins("JOIN video_hashtags AS vh2 ON vh2.video_id = v2.id").
		Where("vh2.hashtag_id = hashtags.id AND v2.deleted_at IS NULL AND v2.status = ? AND v2.is_public = ?", model.VideoStatusCompleted, true).
		Order("v2.id DESC").
		Limit(1)

	err := s.db.WithContext(ctx).
		Model(&model.Hashtag{}).
		Select("hashtags.name AS name, hashtags.use_count AS use_count, "+
			"COUNT(videos.id) AS video_count, COALESCE(SUM(videos.view_count), 0) AS total_views, "+
			"(?) AS latest_thumbnail", latestThumb).
		Joins("LEFT JOIN video_hashtags ON video_hashtags.hashtag_id = hashtags.id").
		Joins("LEFT JOIN videos ON videos.id = video_hashtags.video_id AND videos.deleted_at IS NULL AND videos.status = ? AND videos.is_public = ?",
			model.VideoStatusCompleted, true).
		Where("hashtags.name IN ?", names).
		Group("hashtags.id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// attachTags 关联话题，仅新建立的关联会增加 use_count
func attachTags(tx *gorm.DB, videoID uint64, names []string) error {
	for _, name := range names {
		tag := &model.Hashtag{Name: name}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(tag).Error; err != nil {
			return err
		}
		if tag.ID == 0 {
			if err := tx.Where("name = ?", name).First(tag).Error; err != nil {
				return err
			}
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.VideoHashtag{VideoID: videoID, HashtagID: tag.ID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			continue
		}
		if err := tx.Model(&model.Hashtag{}).Where("id = ?", tag.ID).
			UpdateColumn("use_count", incr("use_count")).Error; err != nil {
			return err
		}
	}
	return nil
}

// detachTags 解除关联并扣减 use_count
func detachTags(tx *gorm.DB, videoID uint64, names []string) error {
	if len(names) == 0 {
		return nil
	}
	var ids []uint64
	if err := tx.Model(&model.Hashtag{}).Where("name IN ?", names).Pluck("id", &ids).Error; err != nil {
		return err
	}
	for _, id := range ids {
		result := tx.Where("video_id = ? AND hashtag_id = ?", videoID, id).Delete(&model.VideoHashtag{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			continue
		}
		if err := tx.Model(&model.Hashtag{}).Where("id = ?", id).
			UpdateColumn("use_count", decr("use_count")).Error; err != nil {
			return err
		}
	}
	return nil
}
