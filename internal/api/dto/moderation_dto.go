package dto

import "time"

type BlockReq struct {
	BlockedUserID uint64 `json:"blocked_user_id" binding:"required"`
}

type BlockDTO struct {
	BlockedUser *UserBasicDTO `json:"blocked_user"`
	CreatedAt   time.Time     `json:"created_at"`
}

type BlockListDTO struct {
	Blocks []*BlockDTO `json:"blocks"`
	Total  int         `json:"total"`
}

type BlockStatusDTO struct {
	IsBlocked bool `json:"is_blocked"`
	BlockedBy bool `json:"blocked_by"`
}

type ReportReq struct {
	ReportedUserID    *uint64 `json:"reported_user_id"`
	ReportedVideoID   *uint64 `json:"reported_video_id"`
	ReportedCommentID *uint64 `json:"reported_comment_id"`
	ReportType        string  `json:"report_type" binding:"required,oneof=spam harassment inappropriate copyright other"`
	Reason            *string `json:"reason" binding:"omitempty,max=500"`
}

type ReportDTO struct {
	ID                uint64    `json:"id"`
	ReporterID        uint64    `json:"reporter_id"`
	ReportedUserID    *uint64   `json:"reported_user_id"`
	ReportedVideoID   *uint64   `json:"reported_video_id"`
	ReportedCommentID *uint64   `json:"reported_comment_id"`
	ReportType        string    `json:"report_type"`
	Reason            *string   `json:"reason"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ReportListDTO struct {
	Reports []*ReportDTO `json:"reports"`
	Total   int64        `json:"total"`
}

type ReportAdminQuery struct {
	PageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending reviewed resolved dismissed"`
}

type ReportReviewReq struct {
	Status string `json:"status" binding:"required,oneof=reviewed resolved dismissed"`
}
