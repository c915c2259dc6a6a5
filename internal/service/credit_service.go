package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/redis"
	"Lokiz/internal/repository"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

const dailyLockTTL = 5 * time.Second

// CreditPackage 充值套餐
type CreditPackage struct {
	ID      string
	Name    string
	Credits int
	Price   float64
}

// PricePerCredit 单价，保留 4 位小数
func (p CreditPackage) PricePerCredit() float64 {
	return math.Round(p.Price/float64(p.Credits)*10000) / 10000
}

var creditPackages = []CreditPackage{
	{ID: "starter_100", Name: "Starter Pack", Credits: 100, Price: 4.99},
	{ID: "basic_500", Name: "Basic Pack", Credits: 500, Price: 19.99},
	{ID: "pro_2000", Name: "Pro Pack", Credits: 2000, Price: 69.99},
	{ID: "premium_5000", Name: "Premium Pack", Credits: 5000, Price: 149.99},
}

func findPackage(id string) (CreditPackage, bool) {
	for _, p := range creditPackages {
		if p.ID == id {
			return p, true
		}
	}
	return CreditPackage{}, false
}

// floorToMidnight UTC 零点
func floorToMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nextDailyClaim 上次领取所在 UTC 日期的次日零点
func nextDailyClaim(last time.Time) time.Time {
	return floorToMidnight(last).Add(24 * time.Hour)
}

// canClaimDaily 从未领取，或 now 已到达上次领取次日零点
func canClaimDaily(last *time.Time, now time.Time) bool {
	return last == nil || !now.Before(nextDailyClaim(*last))
}

type CreditService interface {
	GetPackages() *dto.CreditPackagesDTO
	Purchase(ctx context.Context, userID uint64, req *dto.PurchaseReq) (*dto.PurchaseDTO, error)
	GetBalance(ctx context.Context, userID uint64) (*dto.CreditBalanceDTO, error)
	GetHistory(ctx context.Context, userID uint64, q *dto.CreditHistoryQuery) (*dto.CreditHistoryDTO, error)
	GetDailyStatus(ctx context.Context, userID uint64) (*dto.DailyStatusDTO, error)
	ClaimDaily(ctx context.Context, userID uint64) (*dto.DailyClaimDTO, error)
}

type CreditServiceImpl struct {
	creditRepo  repository.CreditRepo
	userRepo    repository.UserRepo
	dailyAmount int
	now         func() time.Time
}

func NewCreditService(creditRepo repository.CreditRepo, userRepo repository.UserRepo, dailyAmount int) CreditService {
	return &CreditServiceImpl{
		creditRepo:  creditRepo,
		userRepo:    userRepo,
		dailyAmount: dailyAmount,
		now:         time.Now,
	}
}

func (s *CreditServiceImpl) GetPackages() *dto.CreditPackagesDTO {
	out := &dto.CreditPackagesDTO{Packages: make([]*dto.CreditPackageDTO, 0, len(creditPackages))}
	for _, p := range creditPackages {
		out.Packages = append(out.Packages, &dto.CreditPackageDTO{
			ID:             p.ID,
			Name:           p.Name,
			Credits:        p.Credits,
			Price:          p.Price,
			PricePerCredit: p.PricePerCredit(),
		})
	}
	return out
}

// Purchase 支付为模拟实现，套餐合法即入账
func (s *CreditServiceImpl) Purchase(ctx context.Context, userID uint64, req *dto.PurchaseReq) (*dto.PurchaseDTO, error) {
	pkg, ok := findPackage(req.PackageID)
	if !ok {
		return nil, ErrPackageNotFound
	}
	desc := fmt.Sprintf("Purchased %s (%d credits)", pkg.Name, pkg.Credits)
	txn := &model.CreditTransaction{
		UserID:          userID,
		TransactionType: model.TransactionPurchase,
		Credits:         pkg.Credits,
		Description:     &desc,
		ExtraData: map[string]any{
			"package_id":     pkg.ID,
			"payment_method": req.PaymentMethod,
			"amount_paid":    pkg.Price,
			"currency":       "USD",
		},
	}
	balance, err := s.creditRepo.ApplyDelta(ctx, txn)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	return &dto.PurchaseDTO{
		TransactionID: txn.ID,
		CreditsAdded:  pkg.Credits,
		NewBalance:    balance,
		AmountPaid:    pkg.Price,
		Currency:      "USD",
	}, nil
}

func (s *CreditServiceImpl) GetBalance(ctx context.Context, userID uint64) (*dto.CreditBalanceDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	totals, err := s.creditRepo.GetTotals(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.CreditBalanceDTO{
		Balance:     user.Credits,
		TotalEarned: totals.TotalEarned,
		TotalSpent:  totals.TotalSpent,
	}, nil
}

func (s *CreditServiceImpl) GetHistory(ctx context.Context, userID uint64, q *dto.CreditHistoryQuery) (*dto.CreditHistoryDTO, error) {
	limit, offset := q.Normalize(consts.DefaultPageSize)
	txns, err := s.creditRepo.ListTransactions(ctx, userID, q.TransactionType, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.creditRepo.CountTransactions(ctx, userID, q.TransactionType)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.CreditTransactionDTO, 0, len(txns))
	if err = copier.Copy(&items, &txns); err != nil {
		return nil, err
	}
	return &dto.CreditHistoryDTO{
		Transactions: items,
		Total:        total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		HasMore:      int64(offset+len(txns)) < total,
	}, nil
}

func (s *CreditServiceImpl) GetDailyStatus(ctx context.Context, userID uint64) (*dto.DailyStatusDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	now := s.now()
	status := &dto.DailyStatusDTO{
		CanClaim:      canClaimDaily(user.LastDailyCreditClaim, now),
		LastClaimedAt: user.LastDailyCreditClaim,
	}
	if user.LastDailyCreditClaim != nil {
		next := now
		if !status.CanClaim {
			next = nextDailyClaim(*user.LastDailyCreditClaim)
		}
		status.NextClaimAt = &next
	}
	return status, nil
}

// ClaimDaily 锁只拦截并发重复请求，最终以数据库条件更新为准
func (s *CreditServiceImpl) ClaimDaily(ctx context.Context, userID uint64) (*dto.DailyClaimDTO, error) {
	lockKey := consts.DailyClaimLock + strconv.FormatUint(userID, 10)
	lockValue := uuid.NewString()
	ok, err := redis.TryLock(ctx, lockKey, lockValue, dailyLockTTL, 1)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrActionDuplicate
	}
	defer redis.UnLock(ctx, lockKey, lockValue)

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	now := s.now()
	if !canClaimDaily(user.LastDailyCreditClaim, now) {
		return nil, NewDailyClaimError(now, nextDailyClaim(*user.LastDailyCreditClaim))
	}

	desc := "Daily free credits"
	txn := &model.CreditTransaction{
		UserID:          userID,
		TransactionType: model.TransactionBonus,
		Credits:         s.dailyAmount,
		Description:     &desc,
		ExtraData:       map[string]any{"claim_type": "daily", "claimed_at": now.UTC().Format(time.RFC3339)},
	}
	balance, err := s.creditRepo.ClaimDaily(ctx, txn, now, floorToMidnight(now))
	if err != nil {
		if errors.Is(err, repository.ErrDailyNotReady) {
			return nil, NewDailyClaimError(now, nextDailyClaim(now))
		}
		return nil, s.mapRepoErr(err)
	}
	return &dto.DailyClaimDTO{
		Claimed:     true,
		Amount:      s.dailyAmount,
		NextClaimAt: nextDailyClaim(now),
		NewBalance:  balance,
	}, nil
}

func (s *CreditServiceImpl) mapRepoErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrInsufficientCredits):
		return ErrInsufficientCredits
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrUserNotFound
	}
	return err
}
