package repository

import (
	"Lokiz/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forYouOrder 互动分：点赞 1，评论 2，衍生 3
const forYouOrder = "(videos.like_count + videos.comment_count * 2 + videos.glitch_count * 3) DESC, videos.created_at DESC, videos.id DESC"

type FeedRepo interface {
	GetForYouCandidates(ctx context.Context, following, excluded []uint64, cursor uint64, limit int) ([]*model.Video, error)
	GetFollowingCandidates(ctx context.Context, following, excluded []uint64, cursor uint64, limit int) ([]*model.Video, error)
}

type FeedRepoImpl struct {
	db *gorm.DB
}

func NewFeedRepo(db *gorm.DB) FeedRepo {
	return &FeedRepoImpl{db: db}
}

func (s *FeedRepoImpl) candidates(ctx context.Context, excluded []uint64, cursor uint64) *gorm.DB {
	db := s.db.WithContext(ctx).Scopes(visibleTo(0), beforeID("videos.id", cursor))
	if len(excluded) > 0 {
		db = db.Where("videos.user_id NOT IN ?", excluded)
	}
	return db
}

// GetForYouCandidates 候选池：关注作者优先，其次互动分，最后按时间
func (s *FeedRepoImpl) GetForYouCandidates(ctx context.Context, following, excluded []uint64, cursor uint64, limit int) ([]*model.Video, error) {
	videos := make([]*model.Video, 0, limit)
	order := clause.OrderBy{Expression: gorm.Expr(forYouOrder)}
	if len(following) > 0 {
		order = clause.OrderBy{Expression: gorm.Expr("videos.user_id IN ? DESC, "+forYouOrder, following)}
	}
	err := s.candidates(ctx, excluded, cursor).
		Order(order).
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// GetFollowingCandidates 仅关注作者，按时间倒序
func (s *FeedRepoImpl) GetFollowingCandidates(ctx context.Context, following, excluded []uint64, cursor uint64, limit int) ([]*model.Video, error) {
	videos := make([]*model.Video, 0, limit)
	if len(following) == 0 {
		return videos, nil
	}
	err := s.candidates(ctx, excluded, cursor).
		Where("videos.user_id IN ?", following).
		Order("videos.created_at DESC").
		Order("videos.id DESC").
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}
