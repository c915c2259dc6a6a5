package repository

import (
	"Lokiz/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// incr 计数器原子自增
func incr(col string) clause.Expr {
	return gorm.Expr(col + " + 1")
}

// decr 计数器原子自减，不低于 0
func decr(col string) clause.Expr {
	return gorm.Expr("GREATEST(" + col + " - 1, 0)")
}

// beforeID 游标分页：id 严格递减
func beforeID(col string, cursor uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if cursor == 0 {
			return db
		}
		return db.Where(col+" < ?", cursor)
	}
}

// visibleTo 已完成、公开、未删除；viewer 为作者时可见自己的私密视频
func visibleTo(viewerID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("videos.deleted_at IS NULL AND videos.status = ?", model.VideoStatusCompleted)
		if viewerID == 0 {
			return db.Where("videos.is_public = ?", true)
		}
		return db.Where("(videos.is_public = ? OR videos.user_id = ?)", true, viewerID)
	}
}

// createNotification 与业务写入同一事务，n 为空表示无需通知
func createNotification(tx *gorm.DB, n *model.Notification) error {
	if n == nil {
		return nil
	}
	return tx.Create(n).Error
}
