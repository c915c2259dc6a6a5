package wire

import (
	"Lokiz/internal/api"
	"Lokiz/internal/api/config"
	"Lokiz/internal/api/handler"
	"Lokiz/internal/job"
	"Lokiz/internal/pkg/cron"
	"Lokiz/internal/pkg/es"
	"Lokiz/internal/pkg/kafka"
	"Lokiz/internal/pkg/replicate"
	"Lokiz/internal/pkg/storage"
	"Lokiz/internal/repository"
	"Lokiz/internal/service"
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AIRunner 消费 AI 任务的后台组件，阻塞至 ctx 结束
type AIRunner interface {
	Start(ctx context.Context) error
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router   *gin.Engine
	DB       *gorm.DB
	CronMgr  *cron.Manager
	AIRunner AIRunner
	closers  []func() error
}

// Close 释放生产者等外部连接
func (a *ApplicationContainer) Close() {
	for _, c := range a.closers {
		_ = c()
	}
}

func BuildApplication(ctx context.Context, db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 未启用 ES 时保持接口值为 nil，搜索回退到数据库
	var searchRepo es.SearchRepo
	esClient, err := es.NewClient(ctx, cfg.Elastic)
	if err != nil {
		return nil, err
	}
	if esClient != nil {
		searchRepo = es.NewSearchRepo(esClient, cfg.Elastic.Indices.UserIndex, cfg.Elastic.Indices.VideoIndex)
	}

	userRepo := repository.NewUserRepo(db)
	followRepo := repository.NewUserFollowRepo(db)
	videoRepo := repository.NewVideoRepo(db)
	glitchRepo := repository.NewGlitchRepo(db)
	actionRepo := repository.NewVideoActionRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	moderationRepo := repository.NewModerationRepo(db)
	hashtagRepo := repository.NewHashtagRepo(db)
	creditRepo := repository.NewCreditRepo(db)
	jobRepo := repository.NewAIJobRepo(db)
	feedRepo := repository.NewFeedRepo(db)
	counterRepo := repository.NewCounterRepo(db)

	jobTimeout := time.Duration(cfg.AI.JobTimeout) * time.Second
	generator := replicate.NewGenerator(replicate.NewClient(cfg.Replicate), cfg.Replicate.Models)

	// 任务执行闭包在 aiService 构造后才可用
	var aiService service.AIService
	process := job.Exclusive(func(ctx context.Context, jobID uint64) error {
		return aiService.ProcessJob(ctx, jobID)
	}, jobTimeout+time.Minute)

	app := &ApplicationContainer{DB: db}
	var dispatcher service.Dispatcher
	if cfg.AI.Dispatcher == "kafka" {
		producer, err := kafka.NewAIJobProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, producer.Close)
		consumer, err := kafka.NewConsumerManager(cfg, kafka.JobProcessor(process))
		if err != nil {
			return nil, err
		}
		dispatcher, app.AIRunner = producer, consumer
	} else {
		pool := job.NewAIWorkerPool(process, cfg.AI.Workers, cfg.AI.QueueSize)
		dispatcher, app.AIRunner = pool, pool
	}
	aiService = service.NewAIService(jobRepo, userRepo, videoRepo, generator, store, dispatcher, cfg.LibPath.FFmpeg, jobTimeout)

	userService := service.NewUserService(userRepo, followRepo, searchRepo, cfg.Credit.Initial)
	videoService := service.NewVideoService(videoRepo, userRepo, glitchRepo, store, searchRepo)
	glitchService := service.NewGlitchService(glitchRepo, videoRepo, userRepo)
	studioService := service.NewStudioService(videoRepo, store)
	actionService := service.NewActionService(actionRepo, videoRepo, userRepo, glitchRepo)
	commentService := service.NewCommentService(commentRepo, videoRepo, userRepo, followRepo)
	followService := service.NewFollowService(followRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	searchService := service.NewSearchService(userRepo, videoRepo, glitchRepo, searchRepo)
	hashtagService := service.NewHashtagService(hashtagRepo, userRepo, glitchRepo)
	creditService := service.NewCreditService(creditRepo, userRepo, cfg.Credit.DailyAmount)
	moderationService := service.NewModerationService(moderationRepo, userRepo, videoRepo, commentRepo)
	feedService := service.NewFeedService(feedRepo, followRepo, moderationRepo, userRepo, glitchRepo)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		VideoHandler:        handler.NewVideoHandler(videoService),
		AIHandler:           handler.NewAIHandler(aiService),
		GlitchHandler:       handler.NewGlitchHandler(glitchService),
		StudioHandler:       handler.NewStudioHandler(studioService),
		ActionHandler:       handler.NewActionHandler(actionService),
		CommentHandler:      handler.NewCommentHandler(commentService),
		FollowHandler:       handler.NewFollowHandler(followService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		SearchHandler:       handler.NewSearchHandler(searchService),
		HashtagHandler:      handler.NewHashtagHandler(hashtagService),
		CreditHandler:       handler.NewCreditHandler(creditService),
		ModerationHandler:   handler.NewModerationHandler(moderationService),
		FeedHandler:         handler.NewFeedHandler(feedService),
	}
	app.Router = api.SetupRouter(handlers, cfg.RateLimit)

	app.CronMgr = cron.NewCronManager(cfg.Cron,
		job.NewCounterReconcileJob(counterRepo),
		job.NewStaleJobSweepJob(jobRepo, 2*jobTimeout),
		job.NewNotificationPruneJob(notificationRepo, cfg.Cron.NotificationKeepDays),
	)

	return app, nil
}
