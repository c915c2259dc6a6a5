package dto

import "time"

type VideoUploadReq struct {
	Filename        string  `json:"filename" binding:"required,max=255"`
	Caption         *string `json:"caption" binding:"omitempty,max=2200"`
	DurationSeconds int     `json:"duration_seconds" binding:"required,min=1,max=600"`
}

type VideoUploadDTO struct {
	VideoID            uint64 `json:"video_id"`
	VideoUploadURL     string `json:"video_upload_url"`
	ThumbnailUploadURL string `json:"thumbnail_upload_url"`
}

type VideoUpdateReq struct {
	Caption *string `json:"caption" validate:"omitempty,max=2200"`
	Width   *int    `json:"width" validate:"omitempty,min=1"`
	Height  *int    `json:"height" validate:"omitempty,min=1"`
}

type VideoCompleteReq struct {
	Width          *int `json:"width" binding:"omitempty,min=1"`
	Height         *int `json:"height" binding:"omitempty,min=1"`
	ActualDuration *int `json:"actual_duration" binding:"omitempty,min=1"`
}

// VideoListQuery 个人视频列表
type VideoListQuery struct {
	CursorQuery
	Status string `form:"status" binding:"omitempty,oneof=processing completed failed"`
}

type VideoDTO struct {
	ID              uint64        `json:"id"`
	User            *UserBasicDTO `json:"user"`
	Title           *string       `json:"title"`
	VideoURL        string        `json:"video_url"`
	ThumbnailURL    string        `json:"thumbnail_url"`
	DurationSeconds int           `json:"duration_seconds"`
	Width           *int          `json:"width"`
	Height          *int          `json:"height"`
	Caption         string        `json:"caption"`
	Status          string        `json:"status"`
	IsPublic        bool          `json:"is_public"`
	ViewCount       int           `json:"view_count"`
	LikeCount       int           `json:"like_count"`
	CommentCount    int           `json:"comment_count"`
	GlitchCount     int           `json:"glitch_count"`
	ShareCount      int           `json:"share_count"`
	OriginalVideoID *uint64       `json:"original_video_id"`
	CreatedAt       time.Time     `json:"created_at"`
}

type VideoListDTO struct {
	Videos     []*VideoDTO `json:"videos"`
	Total      *int64      `json:"total,omitempty"`
	PageSize   int         `json:"page_size"`
	HasMore    bool        `json:"has_more"`
	NextCursor *string     `json:"next_cursor"`
}

type VideoDeleteDTO struct {
	VideoID     uint64    `json:"video_id"`
	GlitchCount int       `json:"glitch_count"`
	DeletedAt   time.Time `json:"deleted_at"`
}

type VideoViewDTO struct {
	VideoID   uint64 `json:"video_id"`
	ViewCount int    `json:"view_count"`
	Counted   bool   `json:"counted"`
}

type VideoBatchReq struct {
	VideoIDs []uint64 `json:"video_ids"`
}

type VideoMetricDTO struct {
	ViewCount    int `json:"view_count"`
	LikeCount    int `json:"like_count"`
	CommentCount int `json:"comment_count"`
	GlitchCount  int `json:"glitch_count"`
}

type VideoBatchMetadataDTO struct {
	Videos map[uint64]*VideoMetricDTO `json:"videos"`
}
