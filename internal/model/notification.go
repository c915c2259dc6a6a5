package model

import "time"

const (
	NotificationLike        = "like"
	NotificationComment     = "comment"
	NotificationCommentLike = "comment_like"
	NotificationFollow      = "follow"
	NotificationGlitch      = "glitch"
)

type Notification struct {
	ID        uint64  `gorm:"primaryKey"`
	UserID    uint64  `gorm:"not null;index:idx_user_read,priority:1"`
	ActorID   uint64  `gorm:"not null"`
	Type      string  `gorm:"type:varchar(20);not null"`
	TargetID  *uint64
	IsRead    bool    `gorm:"type:tinyint(1);not null;default:0;index:idx_user_read,priority:2"`
	CreatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
