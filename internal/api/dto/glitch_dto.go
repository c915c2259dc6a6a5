package dto

type GlitchListQuery struct {
	Sort     string `form:"sort" binding:"omitempty,oneof=latest popular"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type GlitchItemDTO struct {
	*VideoDTO
	GlitchType string `json:"glitch_type"`
}

type GlitchChainDTO struct {
	OriginalVideoID uint64           `json:"original_video_id"`
	GlitchCount     int64            `json:"glitch_count"`
	Glitches        []*GlitchItemDTO `json:"glitches"`
	Page            int              `json:"page"`
	PageSize        int              `json:"page_size"`
}

type GlitchSourceDTO struct {
	GlitchVideoID   uint64    `json:"glitch_video_id"`
	OriginalVideoID *uint64   `json:"original_video_id"`
	OriginalVideo   *VideoDTO `json:"original_video"`
	GlitchType      *string   `json:"glitch_type"`
}
