package model

import "time"

const (
	TransactionPurchase = "purchase"
	TransactionUsage    = "usage"
	TransactionRefund   = "refund"
	TransactionBonus    = "bonus"
)

// CreditTransaction 只追加，balance_after 为写入时用户余额
type CreditTransaction struct {
	ID              uint64         `gorm:"primaryKey"`
	UserID          uint64         `gorm:"not null;index:idx_user_id"`
	TransactionType string         `gorm:"type:varchar(20);not null"`
	Credits         int            `gorm:"not null"`
	BalanceAfter    int            `gorm:"not null"`
	Description     *string        `gorm:"type:varchar(255)"`
	ExtraData       map[string]any `gorm:"type:json;serializer:json"`
	CreatedAt       time.Time
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
