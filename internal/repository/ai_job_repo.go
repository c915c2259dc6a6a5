package repository

import (
	"Lokiz/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrInsufficientCredits 条件扣减未命中：余额不足
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrJobNotProcessing 完成时任务已不在 processing 状态
var ErrJobNotProcessing = errors.New("job is no longer processing")

// JobSuccess 任务成功后需在同一事务内落库的内容
type JobSuccess struct {
	Job         *model.AIJob
	OutputURL   string
	OutputData  map[string]any
	ReplicateID string
	Video       *model.Video
	// Glitch 非空时写入衍生关系并增加来源视频的 glitch_count
	Glitch       *model.VideoGlitch
	Notification *model.Notification
	Transaction  *model.CreditTransaction
	CompletedAt  time.Time
}

type AIJobRepo interface {
	CreateJob(ctx context.Context, job *model.AIJob) error
	GetJobById(ctx context.Context, id uint64) (*model.AIJob, error)
	GetUserJobsByIds(ctx context.Context, userID uint64, ids []uint64) ([]*model.AIJob, error)
	ListUserJobs(ctx context.Context, userID, cursor uint64, limit int) ([]*model.AIJob, error)
	MarkProcessing(ctx context.Context, id uint64) (bool, error)
	CompleteJob(ctx context.Context, s *JobSuccess) error
	FailJob(ctx context.Context, id uint64, message string, at time.Time) (bool, error)
	FailStaleJobs(ctx context.Context, before time.Time, message string) (int64, error)
}

type AIJobRepoImpl struct {
	db *gorm.DB
}

func NewAIJobRepo(db *gorm.DB) AIJobRepo {
	return &AIJobRepoImpl{db: db}
}

func (s *AIJobRepoImpl) CreateJob(ctx context.Context, job *model.AIJob) error {
	return s.db.WithContext(ctx).Create(job).Error
}

func (s *AIJobRepoImpl) GetJobById(ctx context.Context, id uint64) (*model.AIJob, error) {
	job := &model.AIJob{}
	result := s.db.WithContext(ctx).First(job, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return job, nil
}

func (s *AIJobRepoImpl) GetUserJobsByIds(ctx context.Context, userID uint64, ids []uint64) ([]*model.AIJob, error) {
	jobs := make([]*model.AIJob, 0, len(ids))
	if len(ids) == 0 {
		return jobs, nil
	}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

func (s *AIJobRepoImpl) ListUserJobs(ctx context.Context, userID, cursor uint64, limit int) ([]*model.AIJob, error) {
	jobs := make([]*model.AIJob, 0, limit)
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(beforeID("id", cursor)).
		Order("id DESC").
		Limit(limit).
		Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

// MarkProcessing pending -> processing，返回 false 表示任务已被其他 worker 领取或已结束
func (s *AIJobRepoImpl) MarkProcessing(ctx context.Context, id uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.AIJob{}).
		Where("id = ? AND status = ?", id, model.JobStatusPending).
		Update("status", model.JobStatusProcessing)
	return result.RowsAffected == 1, result.Error
}

// CompleteJob 扣费、记账、创建视频、衍生关系、通知与任务完成在同一事务
func (s *AIJobRepoImpl) CompleteJob(ctx context.Context, js *JobSuccess) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job := js.Job
		balance, err := applyCreditDelta(tx, job.UserID, -job.CreditsUsed)
		if err != nil {
			return err
		}
		js.Transaction.BalanceAfter = balance
		if err = tx.Create(js.Transaction).Error; err != nil {
			return err
		}

		// 音乐任务不产生视频
		if js.Video != nil {
			if err = tx.Create(js.Video).Error; err != nil {
				return err
			}
			if js.OutputData == nil {
				js.OutputData = map[string]any{}
			}
			js.OutputData["video_id"] = js.Video.ID
		}

		if js.Glitch != nil && js.Video != nil {
			js.Glitch.GlitchVideoID = js.Video.ID
			if err = tx.Create(js.Glitch).Error; err != nil {
				return err
			}
			if err = tx.Model(&model.Video{}).Where("id = ?", js.Glitch.OriginalVideoID).
				UpdateColumn("glitch_count", incr("glitch_count")).Error; err != nil {
				return err
			}
		}
		if err = createNotification(tx, js.Notification); err != nil {
			return err
		}

		// 结构体更新以走 json 序列化
		updates := &model.AIJob{
			Status:      model.JobStatusCompleted,
			OutputURL:   &js.OutputURL,
			OutputData:  js.OutputData,
			CompletedAt: &js.CompletedAt,
		}
		if js.Video != nil {
			updates.ResultVideoID = &js.Video.ID
		}
		if js.ReplicateID != "" {
			updates.ReplicateID = &js.ReplicateID
		}
		result := tx.Model(&model.AIJob{ID: job.ID}).
			Where("status = ?", model.JobStatusProcessing).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrJobNotProcessing
		}
		return nil
	})
}

// FailJob 未结束的任务标记失败，不涉及积分
func (s *AIJobRepoImpl) FailJob(ctx context.Context, id uint64, message string, at time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.AIJob{}).
		Where("id = ? AND status IN ?", id, []string{model.JobStatusPending, model.JobStatusProcessing}).
		Updates(map[string]any{
			"status":        model.JobStatusFailed,
			"error_message": message,
			"completed_at":  at,
		})
	return result.RowsAffected == 1, result.Error
}

func (s *AIJobRepoImpl) FailStaleJobs(ctx context.Context, before time.Time, message string) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.AIJob{}).
		Where("status IN ? AND updated_at < ?", []string{model.JobStatusPending, model.JobStatusProcessing}, before).
		Updates(map[string]any{
			"status":        model.JobStatusFailed,
			"error_message": message,
			"completed_at":  time.Now(),
		})
	return result.RowsAffected, result.Error
}
