package dto

import "time"

type CommentCreateReq struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

type CommentUpdateReq struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

type CommentDTO struct {
	ID        uint64        `json:"id"`
	User      *UserBasicDTO `json:"user"`
	VideoID   uint64        `json:"video_id"`
	Content   string        `json:"content"`
	LikeCount int           `json:"like_count"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type CommentListDTO struct {
	Comments []*CommentDTO `json:"comments"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type CommentBatchReq struct {
	CommentIDs []uint64 `json:"comment_ids"`
}

type CommentAuthorDTO struct {
	UserBasicDTO
	IsFollowing bool `json:"is_following"`
}

type CommentInfoDTO struct {
	User      *CommentAuthorDTO `json:"user"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type CommentBatchInfoDTO struct {
	Comments map[uint64]*CommentInfoDTO `json:"comments"`
}

type LikeBatchReq struct {
	VideoIDs []uint64 `json:"video_ids"`
}

type LikeBatchDTO struct {
	LikedVideos map[uint64]bool `json:"liked_videos"`
}

type FollowDTO struct {
	Follower  *UserBasicDTO `json:"follower"`
	Following *UserBasicDTO `json:"following"`
	CreatedAt time.Time     `json:"created_at"`
}

type FollowListDTO struct {
	Follows  []*FollowDTO `json:"follows"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

type FollowBatchReq struct {
	UserIDs []uint64 `json:"user_ids"`
}

type FollowBatchDTO struct {
	FollowingUsers map[uint64]bool `json:"following_users"`
}

type ShareReq struct {
	SharePlatform *string `json:"share_platform" binding:"omitempty,max=50"`
}

type ShareDTO struct {
	Success    bool `json:"success"`
	ShareCount int  `json:"share_count"`
}

type ShareCountDTO struct {
	VideoID    uint64 `json:"video_id"`
	ShareCount int    `json:"share_count"`
}

type LikeCheckDTO struct {
	IsLiked bool `json:"is_liked"`
}

type BookmarkCheckDTO struct {
	IsBookmarked bool `json:"is_bookmarked"`
}

type FollowCheckDTO struct {
	IsFollowing bool `json:"is_following"`
}
