package repository

import (
	"Lokiz/internal/model"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/gorm"
)

const (
	sqlApplyDelta  = "UPDATE `users` SET `credits`=credits + ? WHERE id = ? AND credits + ? >= 0"
	sqlReadBalance = "SELECT credits FROM `users` WHERE id = ?"
	sqlCountUser   = "SELECT count(*) FROM `users` WHERE id = ?"
	sqlInsertTxn   = "INSERT INTO `credit_transactions`"
	sqlClaimDaily  = "WHERE id = ? AND (last_daily_credit_claim IS NULL OR last_daily_credit_claim < ?)"
)

func TestApplyDeltaReadsBalanceBack(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqlApplyDelta)).
		WithArgs(500, 3, 500).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(sqlReadBalance)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(507))
	mock.ExpectExec(regexp.QuoteMeta(sqlInsertTxn)).
		WithArgs(3, model.TransactionPurchase, 500, 507, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectCommit()

	txn := &model.CreditTransaction{UserID: 3, TransactionType: model.TransactionPurchase, Credits: 500}
	balance, err := NewCreditRepo(db).ApplyDelta(context.Background(), txn)
	if err != nil {
		t.Fatal(err)
	}
	if balance != 507 || txn.BalanceAfter != 507 || txn.ID != 41 {
		t.Fatalf("balance = %d, txn = %+v", balance, txn)
	}
}

func TestApplyDeltaInsufficient(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqlApplyDelta)).
		WithArgs(-30, 3, -30).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(sqlCountUser)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	txn := &model.CreditTransaction{UserID: 3, TransactionType: model.TransactionUsage, Credits: -30}
	if _, err := NewCreditRepo(db).ApplyDelta(context.Background(), txn); !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyDeltaUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqlApplyDelta)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(sqlCountUser)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	txn := &model.CreditTransaction{UserID: 99, TransactionType: model.TransactionBonus, Credits: 10}
	if _, err := NewCreditRepo(db).ApplyDelta(context.Background(), txn); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestClaimDaily(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	boundary := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("claimed", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE `users` SET `credits`=credits + ?,`last_daily_credit_claim`=? "+sqlClaimDaily)).
			WithArgs(10, now, 3, boundary).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(sqlReadBalance)).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(60))
		mock.ExpectExec(regexp.QuoteMeta(sqlInsertTxn)).
			WithArgs(3, model.TransactionBonus, 10, 60, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectCommit()

		txn := &model.CreditTransaction{UserID: 3, TransactionType: model.TransactionBonus, Credits: 10}
		balance, err := NewCreditRepo(db).ClaimDaily(context.Background(), txn, now, boundary)
		if err != nil {
			t.Fatal(err)
		}
		if balance != 60 || txn.BalanceAfter != 60 {
			t.Fatalf("balance = %d, txn = %+v", balance, txn)
		}
	})

	t.Run("already claimed since boundary", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(sqlClaimDaily)).
			WithArgs(10, now, 3, boundary).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		txn := &model.CreditTransaction{UserID: 3, TransactionType: model.TransactionBonus, Credits: 10}
		if _, err := NewCreditRepo(db).ClaimDaily(context.Background(), txn, now, boundary); !errors.Is(err, ErrDailyNotReady) {
			t.Fatalf("err = %v", err)
		}
		if txn.BalanceAfter != 0 {
			t.Fatalf("balance_after = %d", txn.BalanceAfter)
		}
	})
}
