package model

import "time"

type Hashtag struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(100);not null;uniqueIndex:idx_name"`
	UseCount  int    `gorm:"not null;default:0;index:idx_use_count"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Hashtag) TableName() string {
	return "hashtags"
}

type VideoHashtag struct {
	VideoID   uint64 `gorm:"primaryKey"`
	HashtagID uint64 `gorm:"primaryKey;index:idx_hashtag_id"`
	CreatedAt time.Time
}

func (VideoHashtag) TableName() string {
	return "video_hashtags"
}
