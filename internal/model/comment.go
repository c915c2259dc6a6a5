package model

import (
	"time"
)

type Comment struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index:idx_user_id"`
	VideoID   uint64 `gorm:"not null;index:idx_video_id"`
	Content   string `gorm:"type:varchar(1000);not null"`
	LikeCount int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Comment) TableName() string {
	return "comments"
}
