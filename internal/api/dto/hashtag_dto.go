package dto

import "time"

type HashtagDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	UseCount  int       `json:"use_count"`
	CreatedAt time.Time `json:"created_at"`
}

type TrendingHashtagsDTO struct {
	Hashtags []*HashtagDTO `json:"hashtags"`
	Total    int           `json:"total"`
}

type HashtagVideosDTO struct {
	Hashtag  *HashtagDTO `json:"hashtag"`
	Videos   []*VideoDTO `json:"videos"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

type HashtagBatchReq struct {
	HashtagNames []string `json:"hashtag_names"`
}

type HashtagStatsDTO struct {
	VideoCount      int64   `json:"video_count"`
	TotalViews      int64   `json:"total_views"`
	LatestThumbnail *string `json:"latest_thumbnail"`
	UseCount        int     `json:"use_count"`
	TrendingScore   float64 `json:"trending_score"`
}

type HashtagBatchStatsDTO struct {
	Hashtags map[string]*HashtagStatsDTO `json:"hashtags"`
}
