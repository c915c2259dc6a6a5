package repository

import (
	"Lokiz/internal/model"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func glitchJobSuccess() *JobSuccess {
	return &JobSuccess{
		Job:         &model.AIJob{ID: 21, UserID: 7, JobType: model.JobTypeGlitchAnimate, Status: model.JobStatusProcessing, CreditsUsed: 30},
		OutputURL:   "https://cdn.example.com/ai/out.mp4",
		ReplicateID: "pred-1",
		Video:       &model.Video{UserID: 7, VideoURL: "https://cdn.example.com/ai/out.mp4", Status: model.VideoStatusProcessing, IsPublic: true},
		Glitch:      &model.VideoGlitch{OriginalVideoID: 1, GlitchType: model.GlitchTypeAnimate},
		Notification: &model.Notification{
			UserID: 4, ActorID: 7, Type: model.NotificationGlitch,
		},
		Transaction: &model.CreditTransaction{UserID: 7, TransactionType: model.TransactionUsage, Credits: -30},
		CompletedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestCompleteGlitchJob(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqlApplyDelta)).
		WithArgs(-30, 7, -30).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(sqlReadBalance)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(170))
	mock.ExpectExec(regexp.QuoteMeta(sqlInsertTxn)).
		WithArgs(7, model.TransactionUsage, -30, 170, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `videos`")).
		WillReturnResult(sqlmock.NewResult(900, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `video_glitches`")).
		WithArgs(1, 900, model.GlitchTypeAnimate, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `videos` SET `glitch_count`=glitch_count + 1 WHERE id = ?")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `notifications`")).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `ai_jobs` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	js := glitchJobSuccess()
	if err := NewAIJobRepo(db).CompleteJob(context.Background(), js); err != nil {
		t.Fatal(err)
	}
	if js.Transaction.BalanceAfter != 170 {
		t.Fatalf("balance_after = %d", js.Transaction.BalanceAfter)
	}
	if js.Video.ID != 900 || js.Glitch.GlitchVideoID != 900 {
		t.Fatalf("video = %d, glitch edge = %+v", js.Video.ID, js.Glitch)
	}
	if js.OutputData["video_id"] != uint64(900) {
		t.Fatalf("output_data = %v", js.OutputData)
	}
}

func TestCompleteJobNoLongerProcessing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqlApplyDelta)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(sqlReadBalance)).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(170))
	mock.ExpectExec(regexp.QuoteMeta(sqlInsertTxn)).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `ai_jobs` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// 音乐任务没有视频与衍生关系
	js := glitchJobSuccess()
	js.Job.JobType = model.JobTypeMusic
	js.Video, js.Glitch, js.Notification = nil, nil, nil
	if err := NewAIJobRepo(db).CompleteJob(context.Background(), js); !errors.Is(err, ErrJobNotProcessing) {
		t.Fatalf("err = %v", err)
	}
}
