package model

import (
	"time"
)

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

const (
	JobTypeTemplate         = "i2v_template"
	JobTypeGlitchAnimate    = "glitch_animate"
	JobTypeGlitchReplace    = "glitch_replace"
	JobTypeMusic            = "music"
	JobTypeStickerToReality = "sticker_to_reality"
)

type AIJob struct {
	ID            uint64         `gorm:"primaryKey"`
	UserID        uint64         `gorm:"not null;index:idx_user_id"`
	JobType       string         `gorm:"type:varchar(50);not null"`
	Status        string         `gorm:"type:varchar(20);not null;default:'pending';index:idx_status"`
	InputData     map[string]any `gorm:"type:json;serializer:json"`
	OutputData    map[string]any `gorm:"type:json;serializer:json"`
	OutputURL     *string        `gorm:"type:varchar(1024)"`
	CreditsUsed   int            `gorm:"not null;default:0"`
	ErrorMessage  *string        `gorm:"type:text"`
	ReplicateID   *string        `gorm:"type:varchar(100)"`
	ResultVideoID *uint64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

func (AIJob) TableName() string {
	return "ai_jobs"
}

// Terminal 任务已完成或失败，之后不再变更
func (j *AIJob) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
