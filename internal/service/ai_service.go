package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/redis"
	"Lokiz/internal/pkg/replicate"
	"Lokiz/internal/pkg/storage"
	"Lokiz/internal/pkg/util"
	"Lokiz/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// 各任务类型的积分消耗
var jobCosts = map[string]int{
	model.JobTypeTemplate:         20,
	model.JobTypeGlitchAnimate:    30,
	model.JobTypeGlitchReplace:    30,
	model.JobTypeMusic:            5,
	model.JobTypeStickerToReality: 45,
}

// JobCost 返回任务类型的积分消耗
func JobCost(jobType string) int {
	return jobCosts[jobType]
}

// Dispatcher 将已创建的任务交给执行方：本地协程池或 Kafka
type Dispatcher interface {
	Dispatch(ctx context.Context, jobID, userID uint64, jobType string) error
}

// VideoGenerator 外部生成服务
type VideoGenerator interface {
	I2VTemplate(ctx context.Context, imageURL, prompt string, duration int) (*replicate.Result, error)
	GlitchAnimate(ctx context.Context, videoURL, imageURL, prompt string) (*replicate.Result, error)
	GlitchReplace(ctx context.Context, videoURL, imageURL, prompt string) (*replicate.Result, error)
	StickerToReality(ctx context.Context, videoURL, imageURL string, start, end float64, prompt string) (*replicate.Result, error)
	Music(ctx context.Context, prompt string, duration int) (*replicate.Result, error)
}

type AIService interface {
	SubmitTemplate(ctx context.Context, userID uint64, req *dto.I2VTemplateReq) (*dto.AIJobDTO, error)
	SubmitGlitch(ctx context.Context, userID uint64, jobType string, req *dto.GlitchReq) (*dto.AIJobDTO, error)
	SubmitMusic(ctx context.Context, userID uint64, req *dto.MusicReq) (*dto.AIJobDTO, error)
	SubmitStickerToReality(ctx context.Context, userID uint64, req *dto.StickerToRealityReq) (*dto.AIJobDTO, error)
	CaptureFrame(ctx context.Context, userID uint64, req *dto.FrameCaptureReq) (*dto.FrameCaptureDTO, error)
	ListJobs(ctx context.Context, userID uint64, q *dto.CursorQuery) (*dto.AIJobListDTO, error)
	GetJob(ctx context.Context, userID, jobID uint64) (*dto.AIJobDTO, error)
	BatchStatus(ctx context.Context, userID uint64, ids []uint64) (*dto.AIJobBatchStatusDTO, error)
	// ProcessJob 执行任务；仅在需要重新投递时返回错误
	ProcessJob(ctx context.Context, jobID uint64) error
}

type AIServiceImpl struct {
	jobRepo    repository.AIJobRepo
	userRepo   repository.UserRepo
	videoRepo  repository.VideoRepo
	generator  VideoGenerator
	store      storage.Storage
	dispatcher Dispatcher
	ffmpegPath string
	jobTimeout time.Duration
	now        func() time.Time
}

func NewAIService(jobRepo repository.AIJobRepo, userRepo repository.UserRepo, videoRepo repository.VideoRepo,
	generator VideoGenerator, store storage.Storage, dispatcher Dispatcher, ffmpegPath string, jobTimeout time.Duration) AIService {
	return &AIServiceImpl{
		jobRepo:    jobRepo,
		userRepo:   userRepo,
		videoRepo:  videoRepo,
		generator:  generator,
		store:      store,
		dispatcher: dispatcher,
		ffmpegPath: ffmpegPath,
		jobTimeout: jobTimeout,
		now:        time.Now,
	}
}

// jobInput 执行时从 input_data 解回的任务入参
type jobInput struct {
	ImageURL         string  `json:"image_url"`
	Template         string  `json:"template"`
	Prompt           *string `json:"prompt"`
	Duration         int     `json:"duration"`
	TemplateVideoID  uint64  `json:"template_video_id"`
	TemplateVideoURL string  `json:"template_video_url"`
	UserImageURL     string  `json:"user_image_url"`
	VideoID          uint64  `json:"video_id"`
	VideoURL         string  `json:"video_url"`
	StartTime        float64 `json:"start_time"`
	EndTime          float64 `json:"end_time"`
	IsGlitch         bool    `json:"is_glitch"`
}

func parseJobInput(m map[string]any) (*jobInput, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	in := &jobInput{}
	if err = json.Unmarshal(data, in); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *AIServiceImpl) SubmitTemplate(ctx context.Context, userID uint64, req *dto.I2VTemplateReq) (*dto.AIJobDTO, error) {
	return s.submit(ctx, userID, model.JobTypeTemplate, map[string]any{
		"image_url": req.ImageURL,
		"template":  req.Template,
		"prompt":    req.Prompt,
		"duration":  req.Duration,
	})
}

func (s *AIServiceImpl) SubmitGlitch(ctx context.Context, userID uint64, jobType string, req *dto.GlitchReq) (*dto.AIJobDTO, error) {
	if jobType != model.JobTypeGlitchAnimate && jobType != model.JobTypeGlitchReplace {
		return nil, ErrParamInvalid
	}
	source, err := s.sourceVideo(ctx, userID, req.TemplateVideoID)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, userID, jobType, map[string]any{
		"template_video_id":  source.ID,
		"template_video_url": source.VideoURL,
		"user_image_url":     req.UserImageURL,
		"prompt":             req.Prompt,
	})
}

func (s *AIServiceImpl) SubmitMusic(ctx context.Context, userID uint64, req *dto.MusicReq) (*dto.AIJobDTO, error) {
	return s.submit(ctx, userID, model.JobTypeMusic, map[string]any{
		"prompt":   req.Prompt,
		"duration": req.Duration,
	})
}

func (s *AIServiceImpl) SubmitStickerToReality(ctx context.Context, userID uint64, req *dto.StickerToRealityReq) (*dto.AIJobDTO, error) {
	source, err := s.sourceVideo(ctx, userID, req.VideoID)
	if err != nil {
		return nil, err
	}
	if err = checkRange(req.StartTime, req.EndTime, source.DurationSeconds); err != nil {
		return nil, err
	}
	// 非 glitch 模式只能处理自己的视频
	if !req.IsGlitch && source.UserID != userID {
		return nil, ErrVideoForbidden
	}
	return s.submit(ctx, userID, model.JobTypeStickerToReality, map[string]any{
		"video_id":       source.ID,
		"video_url":      source.VideoURL,
		"user_image_url": req.UserImageURL,
		"start_time":     req.StartTime,
		"end_time":       req.EndTime,
		"prompt":         req.Prompt,
		"is_glitch":      req.IsGlitch,
	})
}

// sourceVideo 来源视频需对当前用户可见
func (s *AIServiceImpl) sourceVideo(ctx context.Context, userID, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil || video.DeletedAt != nil {
		return nil, ErrVideoNotFound
	}
	if video.UserID != userID && !video.Visible() {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (s *AIServiceImpl) submit(ctx context.Context, userID uint64, jobType string, inputData map[string]any) (*dto.AIJobDTO, error) {
	cost := JobCost(jobType)

	// 同一用户的提交串行化，避免并发余额检查同时通过
	lockKey := consts.AISpendLock + fmt.Sprint(userID)
	lockVal := uuid.NewString()
	ok, err := redis.TryLock(ctx, lockKey, lockVal, 5*time.Second, 3)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrActionDuplicate
	}
	defer redis.UnLock(ctx, lockKey, lockVal)

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Credits < cost {
		return nil, &InsufficientCreditsError{Required: cost, Available: user.Credits}
	}

	job := &model.AIJob{
		UserID:      userID,
		JobType:     jobType,
		Status:      model.JobStatusPending,
		InputData:   inputData,
		CreditsUsed: cost,
	}
	if err = s.jobRepo.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	if err = s.dispatcher.Dispatch(ctx, job.ID, userID, jobType); err != nil {
		log.ErrorContext(ctx, "dispatch ai job error", "job_id", job.ID, "err", err)
		_, _ = s.jobRepo.FailJob(ctx, job.ID, "Failed to queue job", s.now())
		return nil, ErrUpstreamFailure
	}
	return toJobDTO(job), nil
}

func (s *AIServiceImpl) ProcessJob(ctx context.Context, jobID uint64) error {
	job, err := s.jobRepo.GetJobById(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil || job.Terminal() {
		return nil
	}
	started, err := s.jobRepo.MarkProcessing(ctx, jobID)
	if err != nil {
		return err
	}
	if !started {
		return nil
	}
	job.Status = model.JobStatusProcessing

	input, err := parseJobInput(job.InputData)
	if err != nil {
		s.failJob(ctx, job, "Invalid job input")
		return nil
	}

	genCtx := ctx
	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}
	result, err := s.generate(genCtx, job.JobType, input)
	if err != nil {
		log.WarnContext(ctx, "ai generation failed", "job_id", job.ID, "type", job.JobType, "err", err)
		s.failJob(ctx, job, err.Error())
		return nil
	}

	success, err := s.buildSuccess(ctx, job, input, result)
	if err != nil {
		s.failJob(ctx, job, err.Error())
		return nil
	}
	if err = s.jobRepo.CompleteJob(ctx, success); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientCredits):
			user, _ := s.userRepo.GetUserById(ctx, job.UserID)
			available := 0
			if user != nil {
				available = user.Credits
			}
			s.failJob(ctx, job, (&InsufficientCreditsError{Required: job.CreditsUsed, Available: available}).Error())
		case errors.Is(err, repository.ErrJobNotProcessing):
			log.WarnContext(ctx, "ai job finished elsewhere", "job_id", job.ID)
		default:
			log.ErrorContext(ctx, "complete ai job error", "job_id", job.ID, "err", err)
			s.failJob(ctx, job, "Failed to save job result")
		}
		return nil
	}

	if success.Notification != nil {
		pushNotification(ctx, success.Notification)
	}
	log.InfoContext(ctx, "ai job completed", "job_id", job.ID, "type", job.JobType)
	return nil
}

func (s *AIServiceImpl) failJob(ctx context.Context, job *model.AIJob, message string) {
	if _, err := s.jobRepo.FailJob(ctx, job.ID, message, s.now()); err != nil {
		log.ErrorContext(ctx, "fail ai job error", "job_id", job.ID, "err", err)
	}
}

func (s *AIServiceImpl) generate(ctx context.Context, jobType string, in *jobInput) (*replicate.Result, error) {
	prompt := util.Deref(in.Prompt)
	switch jobType {
	case model.JobTypeTemplate:
		return s.generator.I2VTemplate(ctx, in.ImageURL, prompt, in.Duration)
	case model.JobTypeGlitchAnimate:
		return s.generator.GlitchAnimate(ctx, in.TemplateVideoURL, in.UserImageURL, prompt)
	case model.JobTypeGlitchReplace:
		return s.generator.GlitchReplace(ctx, in.TemplateVideoURL, in.UserImageURL, prompt)
	case model.JobTypeStickerToReality:
		return s.generator.StickerToReality(ctx, in.VideoURL, in.UserImageURL, in.StartTime, in.EndTime, prompt)
	case model.JobTypeMusic:
		return s.generator.Music(ctx, prompt, in.Duration)
	}
	return nil, fmt.Errorf("unknown job type %q", jobType)
}

func (s *AIServiceImpl) buildSuccess(ctx context.Context, job *model.AIJob, in *jobInput, result *replicate.Result) (*repository.JobSuccess, error) {
	now := s.now()
	js := &repository.JobSuccess{
		Job:         job,
		OutputURL:   result.OutputURL,
		ReplicateID: result.PredictionID,
		CompletedAt: now,
		Transaction: &model.CreditTransaction{
			UserID:          job.UserID,
			TransactionType: model.TransactionUsage,
			Credits:         -job.CreditsUsed,
			Description:     util.Ptr("AI generation: " + job.JobType),
			ExtraData:       map[string]any{"job_id": job.ID, "job_type": job.JobType},
		},
	}

	if job.JobType == model.JobTypeMusic {
		js.OutputData = map[string]any{"audio_url": result.OutputURL, "model": result.Model}
		return js, nil
	}
	js.OutputData = map[string]any{"video_url": result.OutputURL, "model": result.Model}

	// 生成结果由作者确认后通过 complete 回调发布
	video := &model.Video{
		UserID:       job.UserID,
		VideoURL:     result.OutputURL,
		ThumbnailURL: result.OutputURL,
		Status:       model.VideoStatusProcessing,
		IsPublic:     true,
	}
	js.Video = video

	switch job.JobType {
	case model.JobTypeTemplate:
		video.Title = util.Ptr("Template: " + in.Template)
		video.S3Key = util.Ptr(path.Join(consts.FolderTemplates, fmt.Sprintf("%d.mp4", job.ID)))
		video.DurationSeconds = in.Duration
		return js, nil
	case model.JobTypeGlitchAnimate, model.JobTypeGlitchReplace:
		source, err := s.videoRepo.GetVideoById(ctx, in.TemplateVideoID)
		if err != nil {
			return nil, err
		}
		if source == nil {
			return nil, errors.New("template video not found")
		}
		glitchType := model.GlitchTypeAnimate
		if job.JobType == model.JobTypeGlitchReplace {
			glitchType = model.GlitchTypeReplace
		}
		video.Title = util.Ptr("Glitch from " + titleOr(source, "video"))
		video.S3Key = util.Ptr(path.Join(consts.FolderGlitch, fmt.Sprintf("%d.mp4", job.ID)))
		video.DurationSeconds = 5
		video.OriginalVideoID = &source.ID
		js.Glitch = &model.VideoGlitch{OriginalVideoID: source.ID, GlitchType: glitchType}
		js.Notification = notifyOf(source.UserID, job.UserID, model.NotificationGlitch, &source.ID)
		return js, nil
	case model.JobTypeStickerToReality:
		source, err := s.videoRepo.GetVideoById(ctx, in.VideoID)
		if err != nil {
			return nil, err
		}
		if source == nil {
			return nil, errors.New("source video not found")
		}
		video.S3Key = util.Ptr(path.Join(consts.FolderSticker, fmt.Sprintf("%d.mp4", job.ID)))
		video.DurationSeconds = int(in.EndTime - in.StartTime)
		if in.IsGlitch {
			video.Title = util.Ptr("Sticker to Reality from " + titleOr(source, "video"))
			video.OriginalVideoID = &source.ID
			js.Glitch = &model.VideoGlitch{OriginalVideoID: source.ID, GlitchType: model.GlitchTypeSticker}
			js.Notification = notifyOf(source.UserID, job.UserID, model.NotificationGlitch, &source.ID)
		} else {
			video.Title = util.Ptr("Sticker to Reality - " + titleOr(source, "My Video"))
		}
		return js, nil
	}
	return nil, fmt.Errorf("unknown job type %q", job.JobType)
}

func titleOr(v *model.Video, def string) string {
	if v.Title != nil && *v.Title != "" {
		return *v.Title
	}
	return def
}

func (s *AIServiceImpl) CaptureFrame(ctx context.Context, userID uint64, req *dto.FrameCaptureReq) (*dto.FrameCaptureDTO, error) {
	video, err := s.videoRepo.GetVideoById(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}
	if video == nil || video.DeletedAt != nil || video.UserID != userID {
		return nil, ErrVideoNotFound
	}
	if video.DurationSeconds > 0 && req.Timestamp > float64(video.DurationSeconds) {
		return nil, ErrTimestampOutOfRange
	}

	key := util.Deref(video.S3Key)
	if key == "" {
		var ok bool
		if key, ok = s.store.KeyFromURL(video.VideoURL); !ok {
			return nil, ErrFrameCaptureFailed
		}
	}

	dir, err := os.MkdirTemp("", "lokiz-frame-*")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	localPath := filepath.Join(dir, filepath.Base(key))
	if err = s.store.DownloadFile(ctx, key, localPath); err != nil {
		log.ErrorContext(ctx, "download video for frame error", "video_id", video.ID, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrFrameCaptureFailed, err)
	}

	frame, err := util.CaptureFrame(ctx, s.ffmpegPath, localPath, req.Timestamp)
	if err != nil {
		log.ErrorContext(ctx, "capture frame error", "video_id", video.ID, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrFrameCaptureFailed, err)
	}

	frameKey := path.Join(consts.FolderFrames, fmt.Sprint(userID), uuid.NewString()+".jpg")
	url, err := s.store.UploadBytes(ctx, frame, frameKey, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameCaptureFailed, err)
	}
	return &dto.FrameCaptureDTO{ImageURL: url, Timestamp: req.Timestamp, VideoID: video.ID}, nil
}

func (s *AIServiceImpl) ListJobs(ctx context.Context, userID uint64, q *dto.CursorQuery) (*dto.AIJobListDTO, error) {
	cursor, err := decodeCursor(q.Cursor)
	if err != nil {
		return nil, err
	}
	size := pageSizeOr(q.PageSize, consts.DefaultPageSize)
	jobs, err := s.jobRepo.ListUserJobs(ctx, userID, cursor, size+1)
	if err != nil {
		return nil, err
	}
	hasMore := len(jobs) > size
	if hasMore {
		jobs = jobs[:size]
	}
	out := &dto.AIJobListDTO{Jobs: make([]*dto.AIJobDTO, 0, len(jobs)), HasMore: hasMore}
	for _, j := range jobs {
		out.Jobs = append(out.Jobs, toJobDTO(j))
	}
	if hasMore {
		out.NextCursor = util.Ptr(util.EncodeCursor(jobs[len(jobs)-1].ID))
	}
	return out, nil
}

func (s *AIServiceImpl) GetJob(ctx context.Context, userID, jobID uint64) (*dto.AIJobDTO, error) {
	job, err := s.jobRepo.GetJobById(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.UserID != userID {
		return nil, ErrJobNotFound
	}
	return toJobDTO(job), nil
}

func (s *AIServiceImpl) BatchStatus(ctx context.Context, userID uint64, ids []uint64) (*dto.AIJobBatchStatusDTO, error) {
	if err := checkBatch(len(ids), consts.MaxJobBatchSize); err != nil {
		return nil, err
	}
	out := &dto.AIJobBatchStatusDTO{Jobs: make(map[uint64]*dto.AIJobStatusDTO, len(ids))}
	if len(ids) == 0 {
		return out, nil
	}
	jobs, err := s.jobRepo.GetUserJobsByIds(ctx, userID, util.UniqueUint64(ids))
	if err != nil {
		return nil, err
	}
	for _, j := range jobs {
		out.Jobs[j.ID] = &dto.AIJobStatusDTO{Status: j.Status, ResultURL: j.OutputURL, Error: j.ErrorMessage}
	}
	for _, id := range ids {
		if _, ok := out.Jobs[id]; !ok {
			out.Jobs[id] = &dto.AIJobStatusDTO{Status: "not_found", Error: util.Ptr("Job not found")}
		}
	}
	return out, nil
}

func toJobDTO(job *model.AIJob) *dto.AIJobDTO {
	out := &dto.AIJobDTO{}
	_ = copier.Copy(out, job)
	return out
}
