package repository

import (
	"context"

	"gorm.io/gorm"
)

// CounterRepo 冗余计数按关系表重算
type CounterRepo interface {
	ReconcileVideoCounters(ctx context.Context) (int64, error)
	ReconcileCommentLikes(ctx context.Context) (int64, error)
	ReconcileHashtagUseCounts(ctx context.Context) (int64, error)
}

type CounterRepoImpl struct {
	db *gorm.DB
}

func NewCounterRepo(db *gorm.DB) CounterRepo {
	return &CounterRepoImpl{db: db}
}

func (s *CounterRepoImpl) ReconcileVideoCounters(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Exec(`
UPDATE videos v
SET v.like_count    = (SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id),
    v.comment_count = (SELECT COUNT(*) FROM comments c WHERE c.video_id = v.id),
    v.glitch_count  = (SELECT COUNT(*) FROM video_glitches g WHERE g.original_video_id = v.id)
WHERE v.like_count    <> (SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id)
   OR v.comment_count <> (SELECT COUNT(*) FROM comments c WHERE c.video_id = v.id)
   OR v.glitch_count  <> (SELECT COUNT(*) FROM video_glitches g WHERE g.original_video_id = v.id)`)
	return result.RowsAffected, result.Error
}

func (s *CounterRepoImpl) ReconcileCommentLikes(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Exec(`
UPDATE comments c
SET c.like_count = (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id)
WHERE c.like_count <> (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id)`)
	return result.RowsAffected, result.Error
}

// ReconcileHashtagUseCounts use_count 只统计未删除的视频
func (s *CounterRepoImpl) ReconcileHashtagUseCounts(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Exec(`
UPDATE hashtags h
SET h.use_count = (
    SELECT COUNT(*) FROM video_hashtags vh JOIN videos v ON v.id = vh.video_id
    WHERE vh.hashtag_id = h.id AND v.deleted_at IS NULL)
WHERE h.use_count <> (
    SELECT COUNT(*) FROM video_hashtags vh JOIN videos v ON v.id = vh.video_id
    WHERE vh.hashtag_id = h.id AND v.deleted_at IS NULL)`)
	return result.RowsAffected, result.Error
}
