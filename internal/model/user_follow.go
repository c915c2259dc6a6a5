package model

import "time"

type UserFollow struct {
	FollowerID  uint64 `gorm:"primaryKey"`
	FollowingID uint64 `gorm:"primaryKey;index:idx_following_id"`
	CreatedAt   time.Time
}

func (UserFollow) TableName() string {
	return "follows"
}
