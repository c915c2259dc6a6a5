package repository

import (
	"Lokiz/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.Comment, n *model.Notification) error
	GetCommentById(ctx context.Context, id uint64) (*model.Comment, error)
	GetCommentByIds(ctx context.Context, ids []uint64) ([]*model.Comment, error)
	ListByVideo(ctx context.Context, videoID uint64, limit, offset int) ([]*model.Comment, error)
	CountByVideo(ctx context.Context, videoID uint64) (int64, error)
	UpdateContent(ctx context.Context, id uint64, content string) error
	DeleteComment(ctx context.Context, comment *model.Comment) error

	CreateCommentLike(ctx context.Context, like *model.CommentLike, n *model.Notification) error
	DeleteCommentLike(ctx context.Context, userID, commentID uint64) (bool, error)
	CheckCommentLikeExists(ctx context.Context, userID, commentID uint64) (bool, error)
}

type CommentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &CommentRepoImpl{db: db}
}

func (s *CommentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment, n *model.Notification) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Video{}).Where("id = ?", comment.VideoID).
			UpdateColumn("comment_count", incr("comment_count")).Error; err != nil {
			return err
		}
		if n != nil {
			n.TargetID = &comment.VideoID
		}
		return createNotification(tx, n)
	})
}

func (s *CommentRepoImpl) GetCommentById(ctx context.Context, id uint64) (*model.Comment, error) {
	comment := &model.Comment{}
	result := s.db.WithContext(ctx).First(comment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return comment, nil
}

func (s *CommentRepoImpl) GetCommentByIds(ctx context.Context, ids []uint64) ([]*model.Comment, error) {
	comments := make([]*model.Comment, 0, len(ids))
	if len(ids) == 0 {
		return comments, nil
	}
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}
	return comments, nil
}

func (s *CommentRepoImpl) ListByVideo(ctx context.Context, videoID uint64, limit, offset int) ([]*model.Comment, error) {
	comments := make([]*model.Comment, 0, limit)
	result := s.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}
	return comments, nil
}

func (s *CommentRepoImpl) CountByVideo(ctx context.Context, videoID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}

func (s *CommentRepoImpl) UpdateContent(ctx context.Context, id uint64, content string) error {
	return s.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("content", content).Error
}

// DeleteComment 连带删除评论点赞，视频评论数不低于 0
func (s *CommentRepoImpl) DeleteComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Comment{}, comment.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&model.Video{}).Where("id = ?", comment.VideoID).
			UpdateColumn("comment_count", decr("comment_count")).Error
	})
}

func (s *CommentRepoImpl) CreateCommentLike(ctx context.Context, like *model.CommentLike, n *model.Notification) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Comment{}).Where("id = ?", like.CommentID).
			UpdateColumn("like_count", incr("like_count")).Error; err != nil {
			return err
		}
		return createNotification(tx, n)
	})
}

func (s *CommentRepoImpl) DeleteCommentLike(ctx context.Context, userID, commentID uint64) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).Delete(&model.CommentLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Model(&model.Comment{}).Where("id = ?", commentID).
			UpdateColumn("like_count", decr("like_count")).Error
	})
	return deleted, err
}

func (s *CommentRepoImpl) CheckCommentLikeExists(ctx context.Context, userID, commentID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error
	return count > 0, err
}
