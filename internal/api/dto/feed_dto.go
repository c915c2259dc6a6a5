package dto

const (
	FeedForYou    = "for_you"
	FeedFollowing = "following"
)

type FeedDTO struct {
	Videos     []*VideoDTO `json:"videos"`
	Total      int         `json:"total"`
	PageSize   int         `json:"page_size"`
	HasMore    bool        `json:"has_more"`
	NextCursor *string     `json:"next_cursor"`
	FeedType   string      `json:"feed_type"`
}
