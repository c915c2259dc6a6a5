package dto

import "time"

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserUpdateDTO 只更新非空字段
type UserUpdateDTO struct {
	DisplayName     *string `json:"display_name" validate:"omitempty,max=100"`
	Bio             *string `json:"bio" validate:"omitempty,max=500"`
	ProfileImageURL *string `json:"profile_image_url" validate:"omitempty,max=500"`
}

type UserDTO struct {
	ID              uint64    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	DisplayName     *string   `json:"display_name"`
	Bio             *string   `json:"bio"`
	ProfileImageURL *string   `json:"profile_image_url"`
	Credits         int       `json:"credits"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserBasicDTO 嵌入在视频、评论、通知中的作者信息
type UserBasicDTO struct {
	ID              uint64  `json:"id"`
	Username        string  `json:"username"`
	DisplayName     *string `json:"display_name"`
	ProfileImageURL *string `json:"profile_image_url"`
}

type UserProfileDTO struct {
	ID              uint64    `json:"id"`
	Username        string    `json:"username"`
	DisplayName     *string   `json:"display_name"`
	Bio             *string   `json:"bio"`
	ProfileImageURL *string   `json:"profile_image_url"`
	FollowerCount   int64     `json:"follower_count"`
	FollowingCount  int64     `json:"following_count"`
	VideoCount      int64     `json:"video_count"`
	TotalLikes      int64     `json:"total_likes"`
	IsFollowing     bool      `json:"is_following"`
	CreatedAt       time.Time `json:"created_at"`
}

type TokenDTO struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        *UserDTO `json:"user"`
}

type UserBatchReq struct {
	UserIDs []uint64 `json:"user_ids"`
}

// UserBatchInfoDTO 批量用户信息，键为用户 id
type UserBatchInfoDTO struct {
	Users map[uint64]*UserProfileDTO `json:"users"`
}
