package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/redis"
	"Lokiz/internal/repository"
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
)

const (
	defaultBlockLimit = 50
	// 同一用户两次举报的最小间隔
	reportInterval = 3 * time.Second
)

type ModerationService interface {
	Block(ctx context.Context, userID, targetID uint64) (*dto.BlockDTO, error)
	Unblock(ctx context.Context, userID, targetID uint64) error
	ListBlocks(ctx context.Context, userID uint64, limit int) (*dto.BlockListDTO, error)
	IsBlocked(ctx context.Context, userID, targetID uint64) (*dto.BlockStatusDTO, error)

	Report(ctx context.Context, userID uint64, req *dto.ReportReq) (*dto.ReportDTO, error)
	MyReports(ctx context.Context, userID uint64, q *dto.PageQuery) (*dto.ReportListDTO, error)
	AdminReports(ctx context.Context, q *dto.ReportAdminQuery) (*dto.ReportListDTO, error)
	ReviewReport(ctx context.Context, reportID uint64, req *dto.ReportReviewReq) (*dto.ReportDTO, error)
}

type ModerationServiceImpl struct {
	moderationRepo repository.ModerationRepo
	userRepo       repository.UserRepo
	videoRepo      repository.VideoRepo
	commentRepo    repository.CommentRepo
	assembler      *videoAssembler
}

func NewModerationService(moderationRepo repository.ModerationRepo, userRepo repository.UserRepo,
	videoRepo repository.VideoRepo, commentRepo repository.CommentRepo) ModerationService {
	return &ModerationServiceImpl{
		moderationRepo: moderationRepo,
		userRepo:       userRepo,
		videoRepo:      videoRepo,
		commentRepo:    commentRepo,
		assembler:      &videoAssembler{userRepo: userRepo},
	}
}

func (s *ModerationServiceImpl) Block(ctx context.Context, userID, targetID uint64) (*dto.BlockDTO, error) {
	var target *model.User
	block := &model.Block{BlockerID: userID, BlockedID: targetID}
	err := performAction(
		func() error {
			if userID == targetID {
				return ErrBlockSelf
			}
			var err error
			if target, err = s.userRepo.GetUserById(ctx, targetID); err != nil {
				return err
			}
			if target == nil {
				return ErrUserNotFound
			}
			return nil
		},
		func() error { return s.moderationRepo.CreateBlock(ctx, block) },
		ErrAlreadyBlocked,
	)
	if err != nil {
		return nil, err
	}
	return &dto.BlockDTO{BlockedUser: toUserBasic(target), CreatedAt: block.CreatedAt}, nil
}

func (s *ModerationServiceImpl) Unblock(ctx context.Context, userID, targetID uint64) error {
	return revokeAction(
		func() error { return nil },
		func() (bool, error) { return s.moderationRepo.DeleteBlock(ctx, userID, targetID) },
		ErrBlockNotFound,
	)
}

func (s *ModerationServiceImpl) ListBlocks(ctx context.Context, userID uint64, limit int) (*dto.BlockListDTO, error) {
	blocks, err := s.moderationRepo.ListBlocks(ctx, userID, pageSizeOr(limit, defaultBlockLimit))
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, len(blocks))
	for i, b := range blocks {
		ids[i] = b.BlockedID
	}
	users, err := s.assembler.userMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := &dto.BlockListDTO{Blocks: make([]*dto.BlockDTO, 0, len(blocks)), Total: len(blocks)}
	for _, b := range blocks {
		out.Blocks = append(out.Blocks, &dto.BlockDTO{BlockedUser: toUserBasic(users[b.BlockedID]), CreatedAt: b.CreatedAt})
	}
	return out, nil
}

func (s *ModerationServiceImpl) IsBlocked(ctx context.Context, userID, targetID uint64) (*dto.BlockStatusDTO, error) {
	blocked, err := s.moderationRepo.GetBlock(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	blockedBy, err := s.moderationRepo.GetBlock(ctx, targetID, userID)
	if err != nil {
		return nil, err
	}
	return &dto.BlockStatusDTO{IsBlocked: blocked != nil, BlockedBy: blockedBy != nil}, nil
}

func (s *ModerationServiceImpl) Report(ctx context.Context, userID uint64, req *dto.ReportReq) (*dto.ReportDTO, error) {
	if err := s.checkReportTarget(ctx, userID, req); err != nil {
		return nil, err
	}

	ok, err := redis.TryLock(ctx, consts.ReportLock+fmt.Sprint(userID), 1, reportInterval, 1)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrActionDuplicate
	}

	report := &model.Report{
		ReporterID:        userID,
		ReportedUserID:    req.ReportedUserID,
		ReportedVideoID:   req.ReportedVideoID,
		ReportedCommentID: req.ReportedCommentID,
		ReportType:        req.ReportType,
		Reason:            req.Reason,
		Status:            model.ReportStatusPending,
	}
	if err = s.moderationRepo.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return toReportDTO(report), nil
}

// checkReportTarget 恰好一个目标且目标存在，不能举报自己
func (s *ModerationServiceImpl) checkReportTarget(ctx context.Context, userID uint64, req *dto.ReportReq) error {
	targets := 0
	for _, id := range []*uint64{req.ReportedUserID, req.ReportedVideoID, req.ReportedCommentID} {
		if id != nil {
			targets++
		}
	}
	if targets != 1 {
		return ErrReportTarget
	}

	switch {
	case req.ReportedUserID != nil:
		if *req.ReportedUserID == userID {
			return ErrReportSelf
		}
		user, err := s.userRepo.GetUserById(ctx, *req.ReportedUserID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
	case req.ReportedVideoID != nil:
		video, err := s.videoRepo.GetVideoById(ctx, *req.ReportedVideoID)
		if err != nil {
			return err
		}
		if video == nil || video.DeletedAt != nil {
			return ErrVideoNotFound
		}
	default:
		comment, err := s.commentRepo.GetCommentById(ctx, *req.ReportedCommentID)
		if err != nil {
			return err
		}
		if comment == nil {
			return ErrCommentNotFound
		}
	}
	return nil
}

func (s *ModerationServiceImpl) MyReports(ctx context.Context, userID uint64, q *dto.PageQuery) (*dto.ReportListDTO, error) {
	limit, offset := q.Normalize(consts.DefaultPageSize)
	reports, err := s.moderationRepo.ListReportsByReporter(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toReportList(reports, int64(len(reports))), nil
}

func (s *ModerationServiceImpl) AdminReports(ctx context.Context, q *dto.ReportAdminQuery) (*dto.ReportListDTO, error) {
	limit, offset := q.Normalize(consts.DefaultPageSize)
	reports, err := s.moderationRepo.ListReports(ctx, q.Status, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.moderationRepo.CountReports(ctx, q.Status)
	if err != nil {
		return nil, err
	}
	return toReportList(reports, total), nil
}

func (s *ModerationServiceImpl) ReviewReport(ctx context.Context, reportID uint64, req *dto.ReportReviewReq) (*dto.ReportDTO, error) {
	report, err := s.moderationRepo.GetReportById(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	if err = s.moderationRepo.UpdateReportStatus(ctx, reportID, req.Status); err != nil {
		return nil, err
	}
	report.Status = req.Status
	report.UpdatedAt = time.Now()
	return toReportDTO(report), nil
}

func toReportDTO(report *model.Report) *dto.ReportDTO {
	out := &dto.ReportDTO{}
	_ = copier.Copy(out, report)
	return out
}

func toReportList(reports []*model.Report, total int64) *dto.ReportListDTO {
	out := &dto.ReportListDTO{Reports: make([]*dto.ReportDTO, 0, len(reports)), Total: total}
	for _, r := range reports {
		out.Reports = append(out.Reports, toReportDTO(r))
	}
	return out
}
