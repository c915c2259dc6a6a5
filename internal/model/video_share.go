package model

import "time"

type VideoShare struct {
	ID            uint64  `gorm:"primaryKey"`
	UserID        uint64  `gorm:"not null;index:idx_user_id"`
	VideoID       uint64  `gorm:"not null;index:idx_video_id"`
	SharePlatform *string `gorm:"type:varchar(50)"`
	CreatedAt     time.Time
}

func (VideoShare) TableName() string {
	return "video_shares"
}
