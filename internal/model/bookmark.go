package model

import (
	"time"
)

type Bookmark struct {
	UserID    uint64 `gorm:"primaryKey"`
	VideoID   uint64 `gorm:"primaryKey;index:idx_video_id"`
	CreatedAt time.Time
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
