package model

import "time"

type Block struct {
	BlockerID uint64 `gorm:"primaryKey"`
	BlockedID uint64 `gorm:"primaryKey;index:idx_blocked_id"`
	CreatedAt time.Time
}

func (Block) TableName() string {
	return "blocks"
}
