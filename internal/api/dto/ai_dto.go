package dto

import "time"

// I2VTemplateReq 图片按模板生成视频
type I2VTemplateReq struct {
	ImageURL string `json:"image_url" binding:"required,url,max=1024"`
	Template string `json:"template" binding:"required,max=100"`
	Prompt   string `json:"prompt" binding:"required,max=2000"`
	Duration int    `json:"duration" validate:"min=5,max=10"`
}

// GlitchReq animate 与 replace 共用
type GlitchReq struct {
	TemplateVideoID uint64  `json:"template_video_id" binding:"required"`
	UserImageURL    string  `json:"user_image_url" binding:"required,url,max=1024"`
	Prompt          *string `json:"prompt" binding:"omitempty,max=2000"`
}

type MusicReq struct {
	Prompt   string `json:"prompt" binding:"required,max=2000"`
	Duration int    `json:"duration" validate:"min=1,max=300"`
}

type StickerToRealityReq struct {
	VideoID      uint64  `json:"video_id" binding:"required"`
	UserImageURL string  `json:"user_image_url" binding:"required,url,max=1024"`
	StartTime    float64 `json:"start_time" binding:"min=0"`
	EndTime      float64 `json:"end_time" binding:"required,gtfield=StartTime"`
	Prompt       string  `json:"prompt" binding:"required,max=2000"`
	IsGlitch     bool    `json:"is_glitch"`
}

type FrameCaptureReq struct {
	VideoID   uint64  `json:"video_id" binding:"required"`
	Timestamp float64 `json:"timestamp" binding:"min=0"`
}

type FrameCaptureDTO struct {
	ImageURL  string  `json:"image_url"`
	Timestamp float64 `json:"timestamp"`
	VideoID   uint64  `json:"video_id"`
}

type AIJobDTO struct {
	ID           uint64         `json:"id"`
	UserID       uint64         `json:"user_id"`
	JobType      string         `json:"job_type"`
	Status       string         `json:"status"`
	InputData    map[string]any `json:"input_data"`
	OutputData   map[string]any `json:"output_data"`
	ErrorMessage *string        `json:"error_message"`
	CreditsUsed  int            `json:"credits_used"`
	CreatedAt    time.Time      `json:"created_at"`
	CompletedAt  *time.Time     `json:"completed_at"`
}

type AIJobListDTO struct {
	Jobs       []*AIJobDTO `json:"jobs"`
	HasMore    bool        `json:"has_more"`
	NextCursor *string     `json:"next_cursor"`
}

type AIJobBatchReq struct {
	JobIDs []uint64 `json:"job_ids"`
}

type AIJobStatusDTO struct {
	Status    string  `json:"status"`
	ResultURL *string `json:"result_url"`
	Error     *string `json:"error"`
}

type AIJobBatchStatusDTO struct {
	Jobs map[uint64]*AIJobStatusDTO `json:"jobs"`
}
