package model

import (
	"time"
)

const (
	VideoStatusProcessing = "processing"
	VideoStatusCompleted  = "completed"
	VideoStatusFailed     = "failed"
)

type Video struct {
	ID              uint64     `gorm:"primaryKey"`
	UserID          uint64     `gorm:"not null;index:idx_user_id"`
	Title           *string    `gorm:"type:varchar(255)"`
	Caption         string     `gorm:"type:varchar(2200);not null;default:''"`
	VideoURL        string     `gorm:"type:varchar(1024);not null"`
	ThumbnailURL    string     `gorm:"type:varchar(1024);not null;default:''"`
	S3Key           *string    `gorm:"type:varchar(512)"`
	DurationSeconds int        `gorm:"not null;default:0"`
	Width           *int
	Height          *int
	Status          string     `gorm:"type:varchar(20);not null;default:'processing';index:idx_status"`
	IsPublic        bool       `gorm:"type:tinyint(1);not null;default:1"`
	ViewCount       int        `gorm:"not null;default:0"`
	LikeCount       int        `gorm:"not null;default:0"`
	CommentCount    int        `gorm:"not null;default:0"`
	GlitchCount     int        `gorm:"not null;default:0"`
	ShareCount      int        `gorm:"not null;default:0"`
	OriginalVideoID *uint64    `gorm:"index:idx_original_video_id"`
	DeletedAt       *time.Time `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Video) TableName() string {
	return "videos"
}

// Visible 对非作者可见：已发布、公开且未删除
func (v *Video) Visible() bool {
	return v.Status == VideoStatusCompleted && v.IsPublic && v.DeletedAt == nil
}
