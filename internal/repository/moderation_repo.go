package repository

import (
	"Lokiz/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ModerationRepo interface {
	CreateBlock(ctx context.Context, block *model.Block) error
	DeleteBlock(ctx context.Context, blockerID, blockedID uint64) (bool, error)
	GetBlock(ctx context.Context, blockerID, blockedID uint64) (*model.Block, error)
	ListBlocks(ctx context.Context, blockerID uint64, limit int) ([]*model.Block, error)
	GetExcludedUserIDs(ctx context.Context, userID uint64) ([]uint64, error)

	CreateReport(ctx context.Context, report *model.Report) error
	GetReportById(ctx context.Context, id uint64) (*model.Report, error)
	ListReportsByReporter(ctx context.Context, reporterID uint64, limit, offset int) ([]*model.Report, error)
	ListReports(ctx context.Context, status string, limit, offset int) ([]*model.Report, error)
	CountReports(ctx context.Context, status string) (int64, error)
	UpdateReportStatus(ctx context.Context, id uint64, status string) error
}

type ModerationRepoImpl struct {
	db *gorm.DB
}

func NewModerationRepo(db *gorm.DB) ModerationRepo {
	return &ModerationRepoImpl{db: db}
}

// CreateBlock 拉黑同时解除双向关注
func (s *ModerationRepoImpl) CreateBlock(ctx context.Context, block *model.Block) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(block).Error; err != nil {
			return err
		}
		return tx.Where("(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)",
			block.BlockerID, block.BlockedID, block.BlockedID, block.BlockerID).
			Delete(&model.UserFollow{}).Error
	})
}

func (s *ModerationRepoImpl) DeleteBlock(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.Block{})
	return result.RowsAffected > 0, result.Error
}

func (s *ModerationRepoImpl) GetBlock(ctx context.Context, blockerID, blockedID uint64) (*model.Block, error) {
	block := &model.Block{}
	result := s.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		First(block)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return block, nil
}

func (s *ModerationRepoImpl) ListBlocks(ctx context.Context, blockerID uint64, limit int) ([]*model.Block, error) {
	blocks := make([]*model.Block, 0, limit)
	result := s.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&blocks)
	if result.Error != nil {
		return nil, result.Error
	}
	return blocks, nil
}

// GetExcludedUserIDs 双向拉黑集合：我拉黑的与拉黑我的
func (s *ModerationRepoImpl) GetExcludedUserIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var blocked, blockedBy []uint64
	db := s.db.WithContext(ctx).Model(&model.Block{})
	if err := db.Where("blocker_id = ?", userID).Pluck("blocked_id", &blocked).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Block{}).
		Where("blocked_id = ?", userID).Pluck("blocker_id", &blockedBy).Error; err != nil {
		return nil, err
	}
	return append(blocked, blockedBy...), nil
}

func (s *ModerationRepoImpl) CreateReport(ctx context.Context, report *model.Report) error {
	return s.db.WithContext(ctx).Create(report).Error
}

func (s *ModerationRepoImpl) GetReportById(ctx context.Context, id uint64) (*model.Report, error) {
	report := &model.Report{}
	result := s.db.WithContext(ctx).First(report, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return report, nil
}

func (s *ModerationRepoImpl) ListReportsByReporter(ctx context.Context, reporterID uint64, limit, offset int) ([]*model.Report, error) {
	reports := make([]*model.Report, 0, limit)
	result := s.db.WithContext(ctx).
		Where("reporter_id = ?", reporterID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports)
	if result.Error != nil {
		return nil, result.Error
	}
	return reports, nil
}

func (s *ModerationRepoImpl) reportsQuery(ctx context.Context, status string) *gorm.DB {
	db := s.db.WithContext(ctx).Model(&model.Report{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	return db
}

func (s *ModerationRepoImpl) ListReports(ctx context.Context, status string, limit, offset int) ([]*model.Report, error) {
	reports := make([]*model.Report, 0, limit)
	err := s.reportsQuery(ctx, status).Order("id DESC").Limit(limit).Offset(offset).Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *ModerationRepoImpl) CountReports(ctx context.Context, status string) (int64, error) {
	var count int64
	err := s.reportsQuery(ctx, status).Count(&count).Error
	return count, err
}

func (s *ModerationRepoImpl) UpdateReportStatus(ctx context.Context, id uint64, status string) error {
	return s.db.WithContext(ctx).Model(&model.Report{}).Where("id = ?", id).Update("status", status).Error
}
