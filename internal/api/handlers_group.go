package api

import "Lokiz/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	VideoHandler        *handler.VideoHandler
	AIHandler           *handler.AIHandler
	GlitchHandler       *handler.GlitchHandler
	StudioHandler       *handler.StudioHandler
	ActionHandler       *handler.ActionHandler
	CommentHandler      *handler.CommentHandler
	FollowHandler       *handler.FollowHandler
	NotificationHandler *handler.NotificationHandler
	SearchHandler       *handler.SearchHandler
	HashtagHandler      *handler.HashtagHandler
	CreditHandler       *handler.CreditHandler
	ModerationHandler   *handler.ModerationHandler
	FeedHandler         *handler.FeedHandler
}
