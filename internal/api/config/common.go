package config

// Config 配置主体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Storage   StorageConfig   `mapstructure:"storage"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Replicate ReplicateConfig `mapstructure:"replicate"`
	AI        AIConfig        `mapstructure:"ai"`
	Credit    CreditConfig    `mapstructure:"credit"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Elastic   ElasticConfig   `mapstructure:"elastic"`
	Logstash  LogstashConfig  `mapstructure:"logstash"`
	LibPath   LibPathConfig   `mapstructure:"lib_path"`
	Cron      CronConfig      `mapstructure:"cron"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
	Issuer        string `mapstructure:"issuer"`
}

// StorageConfig 对象存储选择，driver 为 mock 或 minio
type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	MockBaseURL   string `mapstructure:"mock_base_url"`
	MockBucket    string `mapstructure:"mock_bucket"`
	MockDir       string `mapstructure:"mock_dir"`
	PresignExpire int    `mapstructure:"presign_expire"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	TempBucket       string `mapstructure:"temp_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	ExternalUseSSL   bool   `mapstructure:"external_use_ssl"`
}

// ReplicateConfig 视频生成服务配置
type ReplicateConfig struct {
	BaseURL      string       `mapstructure:"base_url"`
	APIToken     string       `mapstructure:"api_token"`
	Timeout      int          `mapstructure:"timeout"`
	PollInterval int          `mapstructure:"poll_interval"`
	RetryCount   int          `mapstructure:"retry_count"`
	Models       ModelsConfig `mapstructure:"models"`
}

type ModelsConfig struct {
	Template string `mapstructure:"template"`
	Animate  string `mapstructure:"animate"`
	Replace  string `mapstructure:"replace"`
	Sticker  string `mapstructure:"sticker"`
	Music    string `mapstructure:"music"`
}

// AIConfig 任务调度配置，dispatcher 为 local 或 kafka
type AIConfig struct {
	Dispatcher string `mapstructure:"dispatcher"`
	Workers    int    `mapstructure:"workers"`
	QueueSize  int    `mapstructure:"queue_size"`
	JobTimeout int    `mapstructure:"job_timeout"`
}

type CreditConfig struct {
	Initial     int `mapstructure:"initial"`
	DailyAmount int `mapstructure:"daily_amount"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
	AIJob    TopicConfig    `mapstructure:"ai_job"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type TopicConfig struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	UserIndex  string `mapstructure:"user_index"`
	VideoIndex string `mapstructure:"video_index"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// LibPathConfig 库路径
type LibPathConfig struct {
	FFmpeg string `mapstructure:"ffmpeg"`
}

type CronConfig struct {
	CounterReconcile     string `mapstructure:"counter_reconcile"`
	StaleJobSweep        string `mapstructure:"stale_job_sweep"`
	NotificationPrune    string `mapstructure:"notification_prune"`
	NotificationKeepDays int    `mapstructure:"notification_keep_days"`
}

// RateLimitConfig 每分钟次数，0 为不限
type RateLimitConfig struct {
	AuthPerMinute int `mapstructure:"auth_per_minute"`
	AIPerMinute   int `mapstructure:"ai_per_minute"`
	Burst         int `mapstructure:"burst"`
}
