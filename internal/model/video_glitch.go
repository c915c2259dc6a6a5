package model

import "time"

const (
	GlitchTypeAnimate = "animate"
	GlitchTypeReplace = "replace"
	GlitchTypeSticker = "sticker_to_reality"
)

// VideoGlitch 衍生关系：original -> glitch，一个衍生视频只有一个来源
type VideoGlitch struct {
	ID              uint64 `gorm:"primaryKey"`
	OriginalVideoID uint64 `gorm:"not null;index:idx_original_video_id"`
	GlitchVideoID   uint64 `gorm:"not null;uniqueIndex:idx_glitch_video_id"`
	GlitchType      string `gorm:"type:varchar(30);not null"`
	CreatedAt       time.Time
}

func (VideoGlitch) TableName() string {
	return "video_glitches"
}
