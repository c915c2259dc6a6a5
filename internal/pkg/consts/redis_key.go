package consts

const (
	TokenBlacklistKey       = "auth:blacklist:"
	NotificationUnreadKey   = "notification:unread:"
	NotificationChannelKey  = "notification:channel:"
	UserProfileKey          = "user:profile:"
	HashtagTrendingKey      = "hashtag:trending:"
	CounterReconcileDoneKey = "job:counter:last"
)

const (
	DailyClaimLock = "credit:daily:lock:"
	AISpendLock    = "credit:ai:lock:"
	AIJobRunLock   = "ai:job:run:"
	CronJobLock    = "cron:lock:"
	ReportLock     = "report:lock:"
)
