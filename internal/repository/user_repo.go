package repository

import (
	"Lokiz/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// UserStats 主页统计
type UserStats struct {
	FollowerCount  int64
	FollowingCount int64
	VideoCount     int64
	TotalLikes     int64
}

type UserRepo interface {
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserStats(ctx context.Context, id uint64) (*UserStats, error)
	SearchUsers(ctx context.Context, keyword string, limit int) ([]*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, id uint64, updates map[string]any) error
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).First(user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	result := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *UserRepoImpl) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *UserRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *UserRepoImpl) first(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).Where(query, arg).First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

// GetUserStats 粉丝、关注、视频数与获赞总数
func (s *UserRepoImpl) GetUserStats(ctx context.Context, id uint64) (*UserStats, error) {
	stats := &UserStats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.UserFollow{}).Where("following_id = ?", id).Count(&stats.FollowerCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.UserFollow{}).Where("follower_id = ?", id).Count(&stats.FollowingCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Video{}).Where("user_id = ? AND deleted_at IS NULL", id).Count(&stats.VideoCount).Error; err != nil {
		return nil, err
	}
	err := db.Model(&model.Video{}).
		Select("COALESCE(SUM(like_count), 0)").
		Where("user_id = ? AND deleted_at IS NULL", id).
		Scan(&stats.TotalLikes).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *UserRepoImpl) SearchUsers(ctx context.Context, keyword string, limit int) ([]*model.User, error) {
	users := make([]*model.User, 0)
	like := "%" + keyword + "%"
	result := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("username LIKE ? OR display_name LIKE ?", like, like).
		Order("id DESC").
		Limit(limit).
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserRepoImpl) UpdateUser(ctx context.Context, id uint64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}
