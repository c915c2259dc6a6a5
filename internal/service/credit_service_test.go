package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/repository"
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCreditRepo struct {
	repository.CreditRepo
	balance  int
	txns     []*model.CreditTransaction
	claimErr error
}

func (f *fakeCreditRepo) ApplyDelta(_ context.Context, txn *model.CreditTransaction) (int, error) {
	if f.balance+txn.Credits < 0 {
		return 0, repository.ErrInsufficientCredits
	}
	f.balance += txn.Credits
	txn.ID = uint64(len(f.txns) + 1)
	txn.BalanceAfter = f.balance
	f.txns = append(f.txns, txn)
	return f.balance, nil
}

func (f *fakeCreditRepo) ClaimDaily(ctx context.Context, txn *model.CreditTransaction, _, _ time.Time) (int, error) {
	if f.claimErr != nil {
		return 0, f.claimErr
	}
	return f.ApplyDelta(ctx, txn)
}

func newCreditService(repo *fakeCreditRepo, user *model.User, now time.Time) *CreditServiceImpl {
	s := NewCreditService(repo, &fakeUserRepo{users: map[uint64]*model.User{user.ID: user}}, 10).(*CreditServiceImpl)
	s.now = func() time.Time { return now }
	return s
}

func TestPurchaseUnknownPackage(t *testing.T) {
	s := newCreditService(&fakeCreditRepo{}, &model.User{ID: 1}, time.Now())
	if _, err := s.Purchase(context.Background(), 1, &dto.PurchaseReq{PackageID: "gold", PaymentMethod: "card"}); !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestPurchaseCredits(t *testing.T) {
	repo := &fakeCreditRepo{balance: 7}
	s := newCreditService(repo, &model.User{ID: 1}, time.Now())
	out, err := s.Purchase(context.Background(), 1, &dto.PurchaseReq{PackageID: "basic_500", PaymentMethod: "card"})
	if err != nil {
		t.Fatal(err)
	}
	if out.NewBalance != 507 || out.CreditsAdded != 500 || out.AmountPaid != 19.99 {
		t.Fatalf("purchase = %+v", out)
	}
	txn := repo.txns[0]
	if txn.TransactionType != model.TransactionPurchase || txn.ExtraData["package_id"] != "basic_500" {
		t.Fatalf("txn = %+v", txn)
	}
}

func TestClaimDailyTooEarly(t *testing.T) {
	setupRedis(t)
	last := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	repo := &fakeCreditRepo{}
	s := newCreditService(repo, &model.User{ID: 1, LastDailyCreditClaim: &last}, now)

	_, err := s.ClaimDaily(context.Background(), 1)
	var claimErr *DailyClaimError
	if !errors.As(err, &claimErr) || !errors.Is(err, ErrDailyAlreadyClaimed) {
		t.Fatalf("err = %v", err)
	}
	if claimErr.HoursRemaining != 9 || !claimErr.NextClaimAt.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("detail = %+v", claimErr)
	}
	if len(repo.txns) != 0 {
		t.Fatal("no credits may be granted")
	}
}

func TestClaimDailyAwards(t *testing.T) {
	setupRedis(t)
	last := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC)
	repo := &fakeCreditRepo{balance: 3}
	s := newCreditService(repo, &model.User{ID: 1, LastDailyCreditClaim: &last}, now)

	out, err := s.ClaimDaily(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Claimed || out.Amount != 10 || out.NewBalance != 13 {
		t.Fatalf("claim = %+v", out)
	}
	if repo.txns[0].TransactionType != model.TransactionBonus {
		t.Fatalf("type = %s", repo.txns[0].TransactionType)
	}
}

func TestClaimDailyRaceLost(t *testing.T) {
	setupRedis(t)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	repo := &fakeCreditRepo{claimErr: repository.ErrDailyNotReady}
	s := newCreditService(repo, &model.User{ID: 1}, now)
	if _, err := s.ClaimDaily(context.Background(), 1); !errors.Is(err, ErrDailyAlreadyClaimed) {
		t.Fatalf("err = %v", err)
	}
}

func TestClaimDailyLockHeld(t *testing.T) {
	mr := setupRedis(t)
	_ = mr.Set(consts.DailyClaimLock+"1", "other")
	s := newCreditService(&fakeCreditRepo{}, &model.User{ID: 1}, time.Now())
	if _, err := s.ClaimDaily(context.Background(), 1); !errors.Is(err, ErrActionDuplicate) {
		t.Fatalf("err = %v", err)
	}
}
