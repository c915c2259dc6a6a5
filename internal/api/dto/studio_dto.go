package dto

import "time"

type TimelineInfoDTO struct {
	TotalDuration int `json:"total_duration"`
	FrameRate     int `json:"frame_rate"`
	TotalFrames   int `json:"total_frames"`
}

type StudioTimelineDTO struct {
	VideoID   uint64          `json:"video_id"`
	Title     *string         `json:"title"`
	URL       string          `json:"url"`
	Duration  int             `json:"duration"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Timeline  TimelineInfoDTO `json:"timeline"`
}

type PreviewQuery struct {
	Timestamp float64 `form:"timestamp" binding:"min=0"`
}

type StudioPreviewDTO struct {
	VideoID    uint64  `json:"video_id"`
	URL        string  `json:"url"`
	Timestamp  float64 `json:"timestamp"`
	Duration   int     `json:"duration"`
	PreviewURL string  `json:"preview_url"`
}

type SelectRangeReq struct {
	StartTime float64 `form:"start_time" json:"start_time" binding:"min=0"`
	EndTime   float64 `form:"end_time" json:"end_time" binding:"min=0"`
}

type StudioRangeDTO struct {
	VideoID   uint64  `json:"video_id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Duration  float64 `json:"duration"`
	URL       string  `json:"url"`
	RangeURL  string  `json:"range_url"`
}

type ImageUploadReq struct {
	FileType string `json:"file_type" binding:"required"`
}

type ImageUploadDTO struct {
	UploadURL string `json:"upload_url"`
	FileKey   string `json:"file_key"`
	FileURL   string `json:"file_url"`
}
