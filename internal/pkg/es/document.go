package es

import "time"

// UserES 用户索引文档
type UserES struct {
	ID              uint64  `json:"id"`
	Username        string  `json:"username"`
	DisplayName     *string `json:"display_name,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	IsActive        bool    `json:"is_active"`
}

// VideoES 视频索引文档
type VideoES struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Caption   string    `json:"caption"`
	Hashtags  []string  `json:"hashtags"`
	Status    string    `json:"status"`
	IsPublic  bool      `json:"is_public"`
	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
}
