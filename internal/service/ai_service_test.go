package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/redis"
	"Lokiz/internal/pkg/replicate"
	"Lokiz/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })
	return mr
}

type fakeJobRepo struct {
	repository.AIJobRepo
	jobs        map[uint64]*model.AIJob
	nextID      uint64
	completed   *repository.JobSuccess
	failMsg     string
	completeErr error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uint64]*model.AIJob{}, nextID: 1}
}

func (f *fakeJobRepo) CreateJob(_ context.Context, job *model.AIJob) error {
	job.ID = f.nextID
	f.nextID++
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) GetJobById(_ context.Context, id uint64) (*model.AIJob, error) {
	return f.jobs[id], nil
}

func (f *fakeJobRepo) GetUserJobsByIds(_ context.Context, userID uint64, ids []uint64) ([]*model.AIJob, error) {
	var out []*model.AIJob
	for _, id := range ids {
		if j, ok := f.jobs[id]; ok && j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) MarkProcessing(_ context.Context, id uint64) (bool, error) {
	j := f.jobs[id]
	if j == nil || j.Status != model.JobStatusPending {
		return false, nil
	}
	j.Status = model.JobStatusProcessing
	return true, nil
}

func (f *fakeJobRepo) CompleteJob(_ context.Context, js *repository.JobSuccess) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completed = js
	f.jobs[js.Job.ID].Status = model.JobStatusCompleted
	return nil
}

func (f *fakeJobRepo) FailJob(_ context.Context, id uint64, message string, _ time.Time) (bool, error) {
	f.failMsg = message
	f.jobs[id].Status = model.JobStatusFailed
	return true, nil
}

type fakeUserRepo struct {
	repository.UserRepo
	users map[uint64]*model.User
}

func (f *fakeUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetUserByIds(_ context.Context, ids []uint64) ([]*model.User, error) {
	var out []*model.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeVideoRepo struct {
	repository.VideoRepo
	videos map[uint64]*model.Video
}

func (f *fakeVideoRepo) GetVideoById(_ context.Context, id uint64) (*model.Video, error) {
	return f.videos[id], nil
}

type fakeGenerator struct {
	err   error
	calls []string
}

func (g *fakeGenerator) result(kind string) (*replicate.Result, error) {
	g.calls = append(g.calls, kind)
	if g.err != nil {
		return nil, g.err
	}
	return &replicate.Result{OutputURL: "https://replicate.delivery/" + kind + ".mp4", Model: "model/" + kind, PredictionID: "pred-" + kind}, nil
}

func (g *fakeGenerator) I2VTemplate(context.Context, string, string, int) (*replicate.Result, error) {
	return g.result("template")
}

func (g *fakeGenerator) GlitchAnimate(context.Context, string, string, string) (*replicate.Result, error) {
	return g.result("animate")
}

func (g *fakeGenerator) GlitchReplace(context.Context, string, string, string) (*replicate.Result, error) {
	return g.result("replace")
}

func (g *fakeGenerator) StickerToReality(context.Context, string, string, float64, float64, string) (*replicate.Result, error) {
	return g.result("sticker")
}

func (g *fakeGenerator) Music(context.Context, string, int) (*replicate.Result, error) {
	return g.result("music")
}

type fakeDispatcher struct {
	jobs []uint64
	err  error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, jobID, _ uint64, _ string) error {
	d.jobs = append(d.jobs, jobID)
	return d.err
}

type aiFixture struct {
	svc        *AIServiceImpl
	jobs       *fakeJobRepo
	users      *fakeUserRepo
	gen        *fakeGenerator
	dispatcher *fakeDispatcher
}

func newAIFixture(t *testing.T) *aiFixture {
	setupRedis(t)
	title := "Dance"
	f := &aiFixture{
		jobs: newFakeJobRepo(),
		users: &fakeUserRepo{users: map[uint64]*model.User{
			1: {ID: 1, Credits: 100, IsActive: true},
			2: {ID: 2, Credits: 10, IsActive: true},
		}},
		gen:        &fakeGenerator{},
		dispatcher: &fakeDispatcher{},
	}
	videos := &fakeVideoRepo{videos: map[uint64]*model.Video{
		50: {ID: 50, UserID: 2, Title: &title, VideoURL: "https://cdn/50.mp4", DurationSeconds: 30, Status: model.VideoStatusCompleted, IsPublic: true},
		51: {ID: 51, UserID: 2, VideoURL: "https://cdn/51.mp4", DurationSeconds: 30, Status: model.VideoStatusCompleted, IsPublic: false},
	}}
	svc := NewAIService(f.jobs, f.users, videos, f.gen, nil, f.dispatcher, "ffmpeg", time.Minute)
	f.svc = svc.(*AIServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestSubmitGlitchDispatches(t *testing.T) {
	f := newAIFixture(t)
	ctx := context.Background()

	job, err := f.svc.SubmitGlitch(ctx, 1, model.JobTypeGlitchAnimate, &dto.GlitchReq{TemplateVideoID: 50, UserImageURL: "https://img/me.png"})
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != model.JobStatusPending || job.CreditsUsed != 30 {
		t.Fatalf("unexpected job %+v", job)
	}
	if len(f.dispatcher.jobs) != 1 || f.dispatcher.jobs[0] != job.ID {
		t.Fatalf("dispatched %v", f.dispatcher.jobs)
	}
	if job.InputData["template_video_url"] != "https://cdn/50.mp4" {
		t.Fatalf("input data %v", job.InputData)
	}
}

func TestSubmitRejectsInsufficientCredits(t *testing.T) {
	f := newAIFixture(t)
	_, err := f.svc.SubmitTemplate(context.Background(), 2, &dto.I2VTemplateReq{ImageURL: "https://img/a.png", Template: "zoom", Prompt: "p", Duration: 5})
	var ice *InsufficientCreditsError
	if !errors.As(err, &ice) || ice.Required != 20 || ice.Available != 10 {
		t.Fatalf("unexpected error %v", err)
	}
	if code, _ := CodeOf(err); code != PaymentRequired {
		t.Fatalf("code = %d", code)
	}
	if len(f.jobs.jobs) != 0 {
		t.Fatal("no job should be created")
	}
}

func TestSubmitHiddenSourceVideo(t *testing.T) {
	f := newAIFixture(t)
	_, err := f.svc.SubmitGlitch(context.Background(), 1, model.JobTypeGlitchReplace, &dto.GlitchReq{TemplateVideoID: 51, UserImageURL: "https://img/me.png"})
	if !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("private video of another user must be hidden, got %v", err)
	}
}

func TestStickerRequiresOwnershipWithoutGlitch(t *testing.T) {
	f := newAIFixture(t)
	req := &dto.StickerToRealityReq{VideoID: 50, UserImageURL: "https://img/s.png", StartTime: 1, EndTime: 4, Prompt: "sticker"}
	if _, err := f.svc.SubmitStickerToReality(context.Background(), 1, req); !errors.Is(err, ErrVideoForbidden) {
		t.Fatalf("got %v", err)
	}
	req.IsGlitch = true
	if _, err := f.svc.SubmitStickerToReality(context.Background(), 1, req); err != nil {
		t.Fatal(err)
	}
}

func TestProcessGlitchJob(t *testing.T) {
	f := newAIFixture(t)
	ctx := context.Background()
	job, err := f.svc.SubmitGlitch(ctx, 1, model.JobTypeGlitchAnimate, &dto.GlitchReq{TemplateVideoID: 50, UserImageURL: "https://img/me.png"})
	if err != nil {
		t.Fatal(err)
	}
	// 模拟入库后的 JSON 往返
	f.jobs.jobs[job.ID].InputData["template_video_id"] = float64(50)

	if err = f.svc.ProcessJob(ctx, job.ID); err != nil {
		t.Fatal(err)
	}
	js := f.jobs.completed
	if js == nil {
		t.Fatalf("job not completed, fail message %q", f.jobs.failMsg)
	}
	if js.Video == nil || *js.Video.Title != "Glitch from Dance" || *js.Video.S3Key != "glitch/1.mp4" || js.Video.DurationSeconds != 5 {
		t.Fatalf("unexpected video %+v", js.Video)
	}
	if js.Glitch == nil || js.Glitch.OriginalVideoID != 50 || js.Glitch.GlitchType != model.GlitchTypeAnimate {
		t.Fatalf("unexpected edge %+v", js.Glitch)
	}
	if js.Notification == nil || js.Notification.UserID != 2 || *js.Notification.TargetID != 50 {
		t.Fatalf("unexpected notification %+v", js.Notification)
	}
	if js.Transaction.Credits != -30 || js.Transaction.TransactionType != model.TransactionUsage {
		t.Fatalf("unexpected transaction %+v", js.Transaction)
	}

	// 已完成的任务重复投递直接忽略
	f.jobs.completed = nil
	if err = f.svc.ProcessJob(ctx, job.ID); err != nil || f.jobs.completed != nil {
		t.Fatal("terminal job must not be reprocessed")
	}
}

func TestProcessMusicJobHasNoVideo(t *testing.T) {
	f := newAIFixture(t)
	ctx := context.Background()
	job, err := f.svc.SubmitMusic(ctx, 1, &dto.MusicReq{Prompt: "lofi", Duration: 60})
	if err != nil {
		t.Fatal(err)
	}
	if err = f.svc.ProcessJob(ctx, job.ID); err != nil {
		t.Fatal(err)
	}
	js := f.jobs.completed
	if js == nil || js.Video != nil || js.Glitch != nil {
		t.Fatalf("unexpected success %+v", js)
	}
	if js.OutputData["audio_url"] != "https://replicate.delivery/music.mp4" {
		t.Fatalf("output data %v", js.OutputData)
	}
}

func TestProcessJobGenerationFailure(t *testing.T) {
	f := newAIFixture(t)
	ctx := context.Background()
	f.gen.err = errors.New("prediction failed: NSFW")
	job, err := f.svc.SubmitTemplate(ctx, 1, &dto.I2VTemplateReq{ImageURL: "https://img/a.png", Template: "zoom", Prompt: "p", Duration: 5})
	if err != nil {
		t.Fatal(err)
	}
	if err = f.svc.ProcessJob(ctx, job.ID); err != nil {
		t.Fatal("business failure must not ask for redelivery")
	}
	if f.jobs.jobs[job.ID].Status != model.JobStatusFailed || f.jobs.failMsg != "prediction failed: NSFW" {
		t.Fatalf("status %s, message %q", f.jobs.jobs[job.ID].Status, f.jobs.failMsg)
	}
	if f.jobs.completed != nil {
		t.Fatal("failed job must not be charged")
	}
}

func TestProcessJobInsufficientAtCompletion(t *testing.T) {
	f := newAIFixture(t)
	ctx := context.Background()
	job, err := f.svc.SubmitTemplate(ctx, 1, &dto.I2VTemplateReq{ImageURL: "https://img/a.png", Template: "zoom", Prompt: "p", Duration: 5})
	if err != nil {
		t.Fatal(err)
	}
	f.users.users[1].Credits = 3
	f.jobs.completeErr = repository.ErrInsufficientCredits
	if err = f.svc.ProcessJob(ctx, job.ID); err != nil {
		t.Fatal(err)
	}
	if f.jobs.failMsg != "Insufficient credits. Required: 20, Available: 3" {
		t.Fatalf("fail message %q", f.jobs.failMsg)
	}
}

func TestBatchStatusUnknownIDs(t *testing.T) {
	f := newAIFixture(t)
	ctx := context.Background()
	job, err := f.svc.SubmitMusic(ctx, 1, &dto.MusicReq{Prompt: "lofi", Duration: 30})
	if err != nil {
		t.Fatal(err)
	}
	out, err := f.svc.BatchStatus(ctx, 1, []uint64{job.ID, 999})
	if err != nil {
		t.Fatal(err)
	}
	if out.Jobs[job.ID].Status != model.JobStatusPending {
		t.Fatalf("status %+v", out.Jobs[job.ID])
	}
	if out.Jobs[999].Status != "not_found" || *out.Jobs[999].Error != "Job not found" {
		t.Fatalf("unknown id %+v", out.Jobs[999])
	}
	// 他人的任务同样视为不存在
	other, err := f.svc.BatchStatus(ctx, 2, []uint64{job.ID})
	if err != nil || other.Jobs[job.ID].Status != "not_found" {
		t.Fatalf("foreign job leaked: %+v", other.Jobs[job.ID])
	}
}
