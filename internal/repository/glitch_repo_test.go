package repository

import (
	"Lokiz/internal/model"
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	sqlGlitchPublished = "videos.deleted_at IS NULL AND videos.is_public = ? AND videos.status = ?"
	sqlGlitchOwner     = sqlGlitchPublished + ") OR videos.user_id = ?"
)

func TestCountGlitchesAnonymousSeesPublishedOnly(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("video_glitches.original_video_id = ?") + ".*" + regexp.QuoteMeta(sqlGlitchPublished)).
		WithArgs(1, true, model.VideoStatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := NewGlitchRepo(db).CountGlitches(context.Background(), 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("count = %d", n)
	}
}

func TestCountGlitchesOwnerSeesOwnUnpublished(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(sqlGlitchOwner)).
		WithArgs(1, true, model.VideoStatusCompleted, 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := NewGlitchRepo(db).CountGlitches(context.Background(), 1, 7)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("count = %d", n)
	}
}

func TestListGlitchesForOtherViewer(t *testing.T) {
	db, mock := newMockDB(t)
	// 其他登录用户与匿名一致，处理中的衍生视频只有作者本人可见
	mock.ExpectQuery(regexp.QuoteMeta(sqlGlitchOwner)).
		WithArgs(1, true, model.VideoStatusCompleted, 9, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "original_video_id", "glitch_video_id", "glitch_type"}).
			AddRow(5, 1, 900, model.GlitchTypeAnimate))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `videos` WHERE id IN (?)")).
		WithArgs(900).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status", "is_public"}).
			AddRow(900, 4, model.VideoStatusCompleted, true))

	out, err := NewGlitchRepo(db).ListGlitches(context.Background(), 1, 9, GlitchSortLatest, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Video.ID != 900 || out[0].Edge.GlitchVideoID != 900 {
		t.Fatalf("glitches = %+v", out)
	}
}
