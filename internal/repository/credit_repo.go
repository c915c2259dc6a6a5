package repository

import (
	"Lokiz/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrDailyNotReady 条件更新未命中：本周期已领取
var ErrDailyNotReady = errors.New("daily credits not ready")

// CreditTotals 累计获得与消费
type CreditTotals struct {
	TotalEarned int64
	TotalSpent  int64
}

type CreditRepo interface {
	ApplyDelta(ctx context.Context, txn *model.CreditTransaction) (int, error)
	ClaimDaily(ctx context.Context, txn *model.CreditTransaction, now, boundary time.Time) (int, error)
	ListTransactions(ctx context.Context, userID uint64, txType string, limit, offset int) ([]*model.CreditTransaction, error)
	CountTransactions(ctx context.Context, userID uint64, txType string) (int64, error)
	GetTotals(ctx context.Context, userID uint64) (*CreditTotals, error)
}

type CreditRepoImpl struct {
	db *gorm.DB
}

func NewCreditRepo(db *gorm.DB) CreditRepo {
	return &CreditRepoImpl{db: db}
}

// applyCreditDelta 条件更新余额并读回新余额，扣减后不得为负
func applyCreditDelta(tx *gorm.DB, userID uint64, delta int) (int, error) {
	result := tx.Model(&model.User{}).
		Where("id = ? AND credits + ? >= 0", userID, delta).
		UpdateColumn("credits", gorm.Expr("credits + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, gorm.ErrRecordNotFound
		}
		return 0, ErrInsufficientCredits
	}

	var balance int
	if err := tx.Model(&model.User{}).Select("credits").Where("id = ?", userID).Scan(&balance).Error; err != nil {
		return 0, err
	}
	return balance, nil
}

// ApplyDelta 余额变更与流水写入同一事务，返回变更后余额
func (s *CreditRepoImpl) ApplyDelta(ctx context.Context, txn *model.CreditTransaction) (int, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := applyCreditDelta(tx, txn.UserID, txn.Credits)
		if err != nil {
			return err
		}
		txn.BalanceAfter = balance
		return tx.Create(txn).Error
	})
	if err != nil {
		return 0, err
	}
	return txn.BalanceAfter, nil
}

// ClaimDaily 上次领取早于 boundary（当日零点）才可领取，两次并发领取只有一次成功
func (s *CreditRepoImpl) ClaimDaily(ctx context.Context, txn *model.CreditTransaction, now, boundary time.Time) (int, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.User{}).
			Where("id = ? AND (last_daily_credit_claim IS NULL OR last_daily_credit_claim < ?)", txn.UserID, boundary).
			UpdateColumns(map[string]any{
				"credits":                 gorm.Expr("credits + ?", txn.Credits),
				"last_daily_credit_claim": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDailyNotReady
		}

		var balance int
		if err := tx.Model(&model.User{}).Select("credits").Where("id = ?", txn.UserID).Scan(&balance).Error; err != nil {
			return err
		}
		txn.BalanceAfter = balance
		return tx.Create(txn).Error
	})
	if err != nil {
		return 0, err
	}
	return txn.BalanceAfter, nil
}

func (s *CreditRepoImpl) transactionsQuery(ctx context.Context, userID uint64, txType string) *gorm.DB {
	db := s.db.WithContext(ctx).Model(&model.CreditTransaction{}).Where("user_id = ?", userID)
	if txType != "" {
		db = db.Where("transaction_type = ?", txType)
	}
	return db
}

func (s *CreditRepoImpl) ListTransactions(ctx context.Context, userID uint64, txType string, limit, offset int) ([]*model.CreditTransaction, error) {
	txns := make([]*model.CreditTransaction, 0, limit)
	err := s.transactionsQuery(ctx, userID, txType).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *CreditRepoImpl) CountTransactions(ctx context.Context, userID uint64, txType string) (int64, error) {
	var count int64
	err := s.transactionsQuery(ctx, userID, txType).Count(&count).Error
	return count, err
}

func (s *CreditRepoImpl) GetTotals(ctx context.Context, userID uint64) (*CreditTotals, error) {
	totals := &CreditTotals{}
	err := s.db.WithContext(ctx).
		Model(&model.CreditTransaction{}).
		Select("COALESCE(SUM(CASE WHEN credits > 0 THEN credits ELSE 0 END), 0) AS total_earned, "+
			"COALESCE(SUM(CASE WHEN transaction_type = 'usage' AND credits < 0 THEN -credits ELSE 0 END), 0) AS total_spent").
		Where("user_id = ?", userID).
		Scan(totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
