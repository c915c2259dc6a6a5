package dto

type SearchQuery struct {
	Q     string `form:"q" binding:"required,min=1,max=100"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type UnifiedSearchQuery struct {
	Q          string `form:"q" binding:"required,min=1,max=100"`
	UserLimit  int    `form:"user_limit" binding:"omitempty,min=1,max=20"`
	VideoLimit int    `form:"video_limit" binding:"omitempty,min=1,max=50"`
}

type UserSearchDTO struct {
	Users []*UserBasicDTO `json:"users"`
	Total int             `json:"total"`
}

type VideoSearchDTO struct {
	Videos []*VideoDTO `json:"videos"`
	Total  int         `json:"total"`
}

type UnifiedSearchDTO struct {
	Users      []*UserBasicDTO `json:"users"`
	Videos     []*VideoDTO     `json:"videos"`
	UserCount  int             `json:"user_count"`
	VideoCount int             `json:"video_count"`
}
