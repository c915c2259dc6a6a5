package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	sqlDeleteLike    = "DELETE FROM `likes` WHERE user_id = ? AND video_id = ?"
	sqlDecrLikeCount = "UPDATE `videos` SET `like_count`=GREATEST(like_count - 1, 0) WHERE id = ?"
)

func TestDeleteLike(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqlDeleteLike)).
		WithArgs(2, 8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(sqlDecrLikeCount)).
		WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := NewVideoActionRepo(db).DeleteLike(context.Background(), 2, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Fatal("like should be deleted")
	}
}

func TestDeleteAbsentLikeKeepsCounter(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqlDeleteLike)).
		WithArgs(2, 8).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// 没有删除任何行时不应出现 like_count 更新
	mock.ExpectCommit()

	deleted, err := NewVideoActionRepo(db).DeleteLike(context.Background(), 2, 8)
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Fatal("absent like reported as deleted")
	}
}
