package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量 LOKIZ_* 可覆盖文件中的值
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("LOKIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("jwt.expire_minutes", 10080)
	v.SetDefault("jwt.issuer", "lokiz")
	v.SetDefault("storage.driver", "mock")
	v.SetDefault("storage.mock_base_url", "https://mock-s3.lokiz.dev")
	v.SetDefault("storage.mock_bucket", "lokiz-videos-mock")
	v.SetDefault("storage.mock_dir", "./data/mock-s3")
	v.SetDefault("storage.presign_expire", 3600)
	v.SetDefault("replicate.base_url", "https://api.replicate.com/v1")
	v.SetDefault("replicate.timeout", 600)
	v.SetDefault("replicate.poll_interval", 2)
	v.SetDefault("replicate.retry_count", 2)
	v.SetDefault("replicate.models.template", "google/veo-3-fast")
	v.SetDefault("replicate.models.animate", "wan-video/wan-2.2-animate-animation")
	v.SetDefault("replicate.models.replace", "wan-video/wan-2.2-animate-replace")
	v.SetDefault("replicate.models.sticker", "luma/modify-video")
	v.SetDefault("replicate.models.music", "suno-ai/bark")
	v.SetDefault("ai.dispatcher", "local")
	v.SetDefault("ai.workers", 4)
	v.SetDefault("ai.queue_size", 256)
	v.SetDefault("ai.job_timeout", 600)
	v.SetDefault("credit.initial", 100)
	v.SetDefault("credit.daily_amount", 10)
	v.SetDefault("lib_path.ffmpeg", "ffmpeg")
	v.SetDefault("cron.counter_reconcile", "0 */30 * * * *")
	v.SetDefault("cron.stale_job_sweep", "0 */5 * * * *")
	v.SetDefault("cron.notification_prune", "0 30 3 * * *")
	v.SetDefault("cron.notification_keep_days", 90)
	v.SetDefault("rate_limit.auth_per_minute", 20)
	v.SetDefault("rate_limit.ai_per_minute", 10)
	v.SetDefault("rate_limit.burst", 5)
}
