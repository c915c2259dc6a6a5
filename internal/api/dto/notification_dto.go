package dto

import "time"

type NotificationQuery struct {
	PageQuery
	UnreadOnly bool `form:"unread_only"`
}

type NotificationDTO struct {
	ID        uint64        `json:"id"`
	Type      string        `json:"type"`
	Actor     *UserBasicDTO `json:"actor"`
	TargetID  *uint64       `json:"target_id"`
	IsRead    bool          `json:"is_read"`
	CreatedAt time.Time     `json:"created_at"`
}

type NotificationListDTO struct {
	Notifications []*NotificationDTO `json:"notifications"`
	Total         int64              `json:"total"`
	UnreadCount   int64              `json:"unread_count"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
}

type UnreadCountDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

type NotificationBatchReq struct {
	NotificationIDs []uint64 `json:"notification_ids"`
}

type MarkReadDTO struct {
	MarkedCount int64 `json:"marked_count"`
	Success     bool  `json:"success"`
}

// NotificationEvent 通过 websocket 推送的新通知
type NotificationEvent struct {
	ID        uint64    `json:"id"`
	Type      string    `json:"type"`
	ActorID   uint64    `json:"actor_id"`
	TargetID  *uint64   `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}
