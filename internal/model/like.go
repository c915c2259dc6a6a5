package model

import (
	"time"
)

type Like struct {
	UserID    uint64 `gorm:"primaryKey"`
	VideoID   uint64 `gorm:"primaryKey;index:idx_video_id"`
	CreatedAt time.Time
}

func (Like) TableName() string {
	return "likes"
}
