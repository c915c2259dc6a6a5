package database

import (
	"Lokiz/internal/model"
	log "log/slog"

	"gorm.io/gorm"
)

// AutoMigrate 按依赖顺序建表
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.AIJob{},
		&model.Like{},
		&model.Bookmark{},
		&model.Comment{},
		&model.CommentLike{},
		&model.UserFollow{},
		&model.Block{},
		&model.Report{},
		&model.VideoGlitch{},
		&model.VideoShare{},
		&model.Notification{},
		&model.Hashtag{},
		&model.VideoHashtag{},
		&model.CreditTransaction{},
	)
	if err != nil {
		return err
	}
	log.Info("Database schema migrated.")
	return nil
}
