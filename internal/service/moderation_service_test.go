package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/repository"
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
)

type fakeModerationRepo struct {
	repository.ModerationRepo
	blocks  map[[2]uint64]*model.Block
	reports []*model.Report
}

func newFakeModerationRepo() *fakeModerationRepo {
	return &fakeModerationRepo{blocks: map[[2]uint64]*model.Block{}}
}

func (f *fakeModerationRepo) CreateBlock(_ context.Context, b *model.Block) error {
	key := [2]uint64{b.BlockerID, b.BlockedID}
	if _, ok := f.blocks[key]; ok {
		return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	f.blocks[key] = b
	return nil
}

func (f *fakeModerationRepo) DeleteBlock(_ context.Context, blockerID, blockedID uint64) (bool, error) {
	key := [2]uint64{blockerID, blockedID}
	_, ok := f.blocks[key]
	delete(f.blocks, key)
	return ok, nil
}

func (f *fakeModerationRepo) GetBlock(_ context.Context, blockerID, blockedID uint64) (*model.Block, error) {
	return f.blocks[[2]uint64{blockerID, blockedID}], nil
}

func (f *fakeModerationRepo) CreateReport(_ context.Context, r *model.Report) error {
	r.ID = uint64(len(f.reports) + 1)
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeModerationRepo) GetReportById(_ context.Context, id uint64) (*model.Report, error) {
	for _, r := range f.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeModerationRepo) UpdateReportStatus(_ context.Context, id uint64, status string) error {
	for _, r := range f.reports {
		if r.ID == id {
			r.Status = status
		}
	}
	return nil
}

func newModerationService(repo *fakeModerationRepo) ModerationService {
	users := &fakeUserRepo{users: map[uint64]*model.User{1: {ID: 1}, 2: {ID: 2}}}
	videos := &fakeVideoRepo{videos: map[uint64]*model.Video{}}
	return NewModerationService(repo, users, videos, nil)
}

func TestBlockRules(t *testing.T) {
	ctx := context.Background()
	repo := newFakeModerationRepo()
	s := newModerationService(repo)

	if _, err := s.Block(ctx, 1, 1); !errors.Is(err, ErrBlockSelf) {
		t.Fatalf("self: %v", err)
	}
	if _, err := s.Block(ctx, 1, 99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing: %v", err)
	}
	if _, err := s.Block(ctx, 1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Block(ctx, 1, 2); !errors.Is(err, ErrAlreadyBlocked) {
		t.Fatalf("duplicate: %v", err)
	}

	status, err := s.IsBlocked(ctx, 2, 1)
	if err != nil || status.IsBlocked || !status.BlockedBy {
		t.Fatalf("status = %+v, %v", status, err)
	}

	if err = s.Unblock(ctx, 1, 2); err != nil {
		t.Fatal(err)
	}
	if err = s.Unblock(ctx, 1, 2); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("unblock twice: %v", err)
	}
}

func TestReportTargets(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()
	s := newModerationService(newFakeModerationRepo())
	one, two, vid := uint64(1), uint64(2), uint64(5)

	cases := []struct {
		name string
		req  dto.ReportReq
		want error
	}{
		{"no target", dto.ReportReq{ReportType: "spam"}, ErrReportTarget},
		{"two targets", dto.ReportReq{ReportedUserID: &two, ReportedVideoID: &vid, ReportType: "spam"}, ErrReportTarget},
		{"self", dto.ReportReq{ReportedUserID: &one, ReportType: "spam"}, ErrReportSelf},
		{"missing video", dto.ReportReq{ReportedVideoID: &vid, ReportType: "other"}, ErrVideoNotFound},
	}
	for _, tc := range cases {
		if _, err := s.Report(ctx, 1, &tc.req); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestReportThrottleAndReview(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()
	repo := newFakeModerationRepo()
	s := newModerationService(repo)
	two := uint64(2)

	out, err := s.Report(ctx, 1, &dto.ReportReq{ReportedUserID: &two, ReportType: "harassment"})
	if err != nil {
		t.Fatal(err)
	}
	if repo.reports[0].Status != model.ReportStatusPending {
		t.Fatalf("status = %s", repo.reports[0].Status)
	}
	if _, err = s.Report(ctx, 1, &dto.ReportReq{ReportedUserID: &two, ReportType: "spam"}); !errors.Is(err, ErrActionDuplicate) {
		t.Fatalf("second report inside the window: %v", err)
	}

	reviewed, err := s.ReviewReport(ctx, out.ID, &dto.ReportReviewReq{Status: "resolved"})
	if err != nil || reviewed.Status != "resolved" {
		t.Fatalf("review = %+v, %v", reviewed, err)
	}
	if _, err = s.ReviewReport(ctx, 404, &dto.ReportReviewReq{Status: "dismissed"}); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("missing report: %v", err)
	}
}
