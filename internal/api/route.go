package api

import (
	"Lokiz/internal/api/config"
	"Lokiz/internal/api/middleware"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, limits config.RateLimitConfig) *gin.Engine {
	authLimiter := middleware.NewRateLimiter(limits.AuthPerMinute, limits.Burst, 0)
	aiLimiter := middleware.NewRateLimiter(limits.AIPerMinute, limits.Burst, 0)

	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	apiGroup := r.Group("/api/v1")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", middleware.RateLimitMiddleware(authLimiter), group.UserHandler.Register)
			authGroup.POST("/login", middleware.RateLimitMiddleware(authLimiter), group.UserHandler.Login)

			loginGroup := authGroup.Group("")
			loginGroup.Use(middleware.AuthMiddleware())
			{
				loginGroup.POST("/logout", group.UserHandler.Logout)
				loginGroup.GET("/me", group.UserHandler.GetMe)
				loginGroup.PATCH("/me", group.UserHandler.UpdateMe)
			}
		}

		userGroup := apiGroup.Group("/users")
		userGroup.Use(middleware.AuthOptionalMiddleware())
		{
			userGroup.POST("/batch-info", group.UserHandler.BatchInfo)
			userGroup.GET("/:user_id", group.UserHandler.GetProfile)
			userGroup.GET("/:user_id/videos", group.VideoHandler.ListUserVideos)
			userGroup.GET("/:user_id/liked-videos", group.VideoHandler.ListLikedVideos)
		}

		videoGroup := apiGroup.Group("/videos")
		{
			videoGroup.GET("", group.VideoHandler.ListPublic)
			videoGroup.POST("/batch-metadata", group.VideoHandler.BatchMetadata)

			optGroup := videoGroup.Group("")
			optGroup.Use(middleware.AuthOptionalMiddleware())
			{
				optGroup.GET("/:video_id", group.VideoHandler.GetVideo)
				optGroup.POST("/:video_id/view", group.VideoHandler.RecordView)
			}

			loginGroup := videoGroup.Group("")
			loginGroup.Use(middleware.AuthMiddleware())
			{
				loginGroup.POST("/upload-url", group.VideoHandler.CreateUpload)
				loginGroup.GET("/me", group.VideoHandler.ListMine)
				loginGroup.PATCH("/:video_id", group.VideoHandler.UpdateVideo)
				loginGroup.POST("/:video_id/complete", group.VideoHandler.CompleteVideo)
				loginGroup.DELETE("/:video_id", group.VideoHandler.DeleteVideo)
			}
		}

		aiGroup := apiGroup.Group("/ai")
		aiGroup.Use(middleware.AuthMiddleware())
		{
			// 生成类接口按用户限流
			genGroup := aiGroup.Group("")
			genGroup.Use(middleware.RateLimitMiddleware(aiLimiter))
			{
				genGroup.POST("/template", group.AIHandler.Template)
				genGroup.POST("/glitch/animate", group.AIHandler.GlitchAnimate)
				genGroup.POST("/glitch/replace", group.AIHandler.GlitchReplace)
				genGroup.POST("/music", group.AIHandler.Music)
				genGroup.POST("/sticker-to-reality", group.AIHandler.StickerToReality)
				genGroup.POST("/capture-frame", group.AIHandler.CaptureFrame)
			}
			aiGroup.GET("/jobs", group.AIHandler.ListJobs)
			aiGroup.GET("/jobs/:job_id", group.AIHandler.GetJob)
			aiGroup.POST("/jobs/batch-status", group.AIHandler.BatchStatus)
		}

		glitchGroup := apiGroup.Group("/glitch")
		glitchGroup.Use(middleware.AuthOptionalMiddleware())
		{
			glitchGroup.GET("/videos/:video_id/glitches", group.GlitchHandler.ListGlitches)
			glitchGroup.GET("/videos/:video_id/source", group.GlitchHandler.GetSource)
		}

		studioGroup := apiGroup.Group("/studio")
		studioGroup.Use(middleware.AuthMiddleware())
		{
			studioGroup.GET("/videos/:video_id/timeline", group.StudioHandler.Timeline)
			studioGroup.GET("/videos/:video_id/preview", group.StudioHandler.Preview)
			studioGroup.POST("/videos/:video_id/select-range", group.StudioHandler.SelectRange)
		}

		imageGroup := apiGroup.Group("/images")
		imageGroup.Use(middleware.AuthMiddleware())
		{
			imageGroup.POST("/upload-url", group.StudioHandler.ImageUploadURL)
		}

		likeGroup := apiGroup.Group("/likes")
		likeGroup.Use(middleware.AuthMiddleware())
		{
			likeGroup.POST("/videos/:video_id", group.ActionHandler.Like)
			likeGroup.DELETE("/videos/:video_id", group.ActionHandler.Unlike)
			likeGroup.GET("/videos/:video_id/check", group.ActionHandler.CheckLike)
			likeGroup.POST("/check-batch", group.ActionHandler.CheckLikeBatch)
		}

		commentGroup := apiGroup.Group("/comments")
		{
			optGroup := commentGroup.Group("")
			optGroup.Use(middleware.AuthOptionalMiddleware())
			{
				optGroup.GET("/videos/:video_id", group.CommentHandler.List)
				optGroup.POST("/batch-info", group.CommentHandler.BatchInfo)
			}

			loginGroup := commentGroup.Group("")
			loginGroup.Use(middleware.AuthMiddleware())
			{
				loginGroup.POST("/videos/:video_id", group.CommentHandler.Create)
				loginGroup.PATCH("/:comment_id", group.CommentHandler.Update)
				loginGroup.DELETE("/:comment_id", group.CommentHandler.Delete)
				loginGroup.POST("/:comment_id/like", group.CommentHandler.Like)
				loginGroup.DELETE("/:comment_id/like", group.CommentHandler.Unlike)
				loginGroup.GET("/:comment_id/like/check", group.CommentHandler.CheckLike)
			}
		}

		followGroup := apiGroup.Group("/follows")
		{
			followGroup.GET("/users/:user_id/followers", group.FollowHandler.Followers)
			followGroup.GET("/users/:user_id/following", group.FollowHandler.Following)

			loginGroup := followGroup.Group("")
			loginGroup.Use(middleware.AuthMiddleware())
			{
				loginGroup.POST("/users/:user_id", group.FollowHandler.Follow)
				loginGroup.DELETE("/users/:user_id", group.FollowHandler.Unfollow)
				loginGroup.GET("/users/:user_id/check", group.FollowHandler.Check)
				loginGroup.POST("/check-batch", group.FollowHandler.CheckBatch)
			}
		}

		notificationGroup := apiGroup.Group("/notifications")
		{
			// websocket 握手通过 token 查询参数鉴权
			notificationGroup.GET("/ws", middleware.QueryAuthMiddleware(), group.NotificationHandler.Stream)

			loginGroup := notificationGroup.Group("")
			loginGroup.Use(middleware.AuthMiddleware())
			{
				loginGroup.GET("", group.NotificationHandler.List)
				loginGroup.GET("/unread-count", group.NotificationHandler.UnreadCount)
				loginGroup.PATCH("/read-all", group.NotificationHandler.MarkAllRead)
				loginGroup.PATCH("/:notification_id/read", group.NotificationHandler.MarkRead)
				loginGroup.POST("/batch-mark-read", group.NotificationHandler.MarkBatchRead)
			}
		}

		searchGroup := apiGroup.Group("/search")
		searchGroup.Use(middleware.AuthOptionalMiddleware())
		{
			searchGroup.GET("", group.SearchHandler.Search)
			searchGroup.GET("/users", group.SearchHandler.Users)
			searchGroup.GET("/videos", group.SearchHandler.Videos)
		}

		hashtagGroup := apiGroup.Group("/hashtags")
		{
			hashtagGroup.GET("/trending", group.HashtagHandler.Trending)
			hashtagGroup.GET("/:name/videos", group.HashtagHandler.Videos)
			hashtagGroup.POST("/batch-stats", group.HashtagHandler.BatchStats)
		}

		creditGroup := apiGroup.Group("/credits")
		{
			creditGroup.GET("/packages", group.CreditHandler.Packages)

			loginGroup := creditGroup.Group("")
			loginGroup.Use(middleware.AuthMiddleware())
			{
				loginGroup.POST("/purchase", group.CreditHandler.Purchase)
				loginGroup.GET("/balance", group.CreditHandler.Balance)
				loginGroup.GET("/history", group.CreditHandler.History)
				loginGroup.GET("/daily-status", group.CreditHandler.DailyStatus)
				loginGroup.POST("/daily-claim", group.CreditHandler.DailyClaim)
			}
		}

		shareGroup := apiGroup.Group("/shares")
		{
			shareGroup.GET("/videos/:video_id/count", group.ActionHandler.ShareCount)
			shareGroup.POST("/videos/:video_id", middleware.AuthOptionalMiddleware(), group.ActionHandler.Share)
		}

		bookmarkGroup := apiGroup.Group("/bookmarks")
		bookmarkGroup.Use(middleware.AuthMiddleware())
		{
			bookmarkGroup.GET("", group.ActionHandler.ListBookmarks)
			bookmarkGroup.POST("/videos/:video_id", group.ActionHandler.Bookmark)
			bookmarkGroup.DELETE("/videos/:video_id", group.ActionHandler.Unbookmark)
			bookmarkGroup.GET("/videos/:video_id/check", group.ActionHandler.CheckBookmark)
		}

		moderationGroup := apiGroup.Group("/moderation")
		moderationGroup.Use(middleware.AuthMiddleware())
		{
			moderationGroup.POST("/block", group.ModerationHandler.Block)
			moderationGroup.DELETE("/block/:user_id", group.ModerationHandler.Unblock)
			moderationGroup.GET("/blocks", group.ModerationHandler.ListBlocks)
			moderationGroup.GET("/is-blocked/:user_id", group.ModerationHandler.IsBlocked)
			moderationGroup.POST("/report", group.ModerationHandler.Report)
			moderationGroup.GET("/reports", group.ModerationHandler.MyReports)

			// 需要登录 & 拥有 admin 角色
			adminGroup := moderationGroup.Group("/admin")
			adminGroup.Use(middleware.CheckRoles(model.RoleAdmin))
			{
				adminGroup.GET("/reports", group.ModerationHandler.AdminReports)
				adminGroup.PATCH("/reports/:report_id", group.ModerationHandler.ReviewReport)
			}
		}

		feedGroup := apiGroup.Group("/feed")
		{
			feedGroup.GET("/for-you", middleware.AuthOptionalMiddleware(), group.FeedHandler.ForYou)
			feedGroup.GET("/following", middleware.AuthMiddleware(), group.FeedHandler.Following)
		}
	}

	return r
}
