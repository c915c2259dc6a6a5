package model

import (
	"time"
)

type CommentLike struct {
	UserID    uint64 `gorm:"primaryKey"`
	CommentID uint64 `gorm:"primaryKey;index:idx_comment_id"`
	CreatedAt time.Time
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
