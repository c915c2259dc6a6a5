package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/repository"
	"context"

	"golang.org/x/sync/errgroup"
)

type FollowService interface {
	Follow(ctx context.Context, userID, targetID uint64) error
	Unfollow(ctx context.Context, userID, targetID uint64) error
	Followers(ctx context.Context, userID uint64, q *dto.PageQuery) (*dto.FollowListDTO, error)
	Following(ctx context.Context, userID uint64, q *dto.PageQuery) (*dto.FollowListDTO, error)
	Check(ctx context.Context, userID, targetID uint64) (*dto.FollowCheckDTO, error)
	CheckBatch(ctx context.Context, userID uint64, ids []uint64) (*dto.FollowBatchDTO, error)
}

type FollowServiceImpl struct {
	followRepo repository.UserFollowRepo
	userRepo   repository.UserRepo
	assembler  *videoAssembler
}

func NewFollowService(followRepo repository.UserFollowRepo, userRepo repository.UserRepo) FollowService {
	return &FollowServiceImpl{
		followRepo: followRepo,
		userRepo:   userRepo,
		assembler:  &videoAssembler{userRepo: userRepo},
	}
}

func (s *FollowServiceImpl) Follow(ctx context.Context, userID, targetID uint64) error {
	n := notifyOf(targetID, userID, model.NotificationFollow, &userID)
	err := performAction(
		func() error {
			if userID == targetID {
				return ErrFollowSelf
			}
			target, err := s.userRepo.GetUserById(ctx, targetID)
			if err != nil {
				return err
			}
			if target == nil {
				return ErrUserNotFound
			}
			return nil
		},
		func() error {
			return s.followRepo.CreateUserFollow(ctx, &model.UserFollow{FollowerID: userID, FollowingID: targetID}, n)
		},
		ErrAlreadyFollowing,
	)
	if err != nil {
		return err
	}
	pushNotification(ctx, n)
	return nil
}

func (s *FollowServiceImpl) Unfollow(ctx context.Context, userID, targetID uint64) error {
	return revokeAction(
		func() error { return nil },
		func() (bool, error) { return s.followRepo.DeleteUserFollow(ctx, userID, targetID) },
		ErrFollowNotFound,
	)
}

func (s *FollowServiceImpl) Followers(ctx context.Context, userID uint64, q *dto.PageQuery) (*dto.FollowListDTO, error) {
	return s.list(ctx, userID, q, s.followRepo.GetUserFollowers, s.followRepo.GetUserFollowerCount)
}

func (s *FollowServiceImpl) Following(ctx context.Context, userID uint64, q *dto.PageQuery) (*dto.FollowListDTO, error) {
	return s.list(ctx, userID, q, s.followRepo.GetUserFollowing, s.followRepo.GetUserFollowingCount)
}

func (s *FollowServiceImpl) list(ctx context.Context, userID uint64, q *dto.PageQuery,
	listFunc func(context.Context, uint64, int, int) ([]*model.UserFollow, error),
	countFunc func(context.Context, uint64) (int64, error)) (*dto.FollowListDTO, error) {
	limit, offset := q.Normalize(consts.DefaultPageSize)

	var (
		edges []*model.UserFollow
		total int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		edges, err = listFunc(gCtx, userID, limit, offset)
		return err
	})
	g.Go(func() (err error) {
		total, err = countFunc(gCtx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(edges)*2)
	for _, e := range edges {
		ids = append(ids, e.FollowerID, e.FollowingID)
	}
	users, err := s.assembler.userMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := &dto.FollowListDTO{Follows: make([]*dto.FollowDTO, 0, len(edges)), Total: total, Page: q.Page, PageSize: q.PageSize}
	for _, e := range edges {
		out.Follows = append(out.Follows, &dto.FollowDTO{
			Follower:  toUserBasic(users[e.FollowerID]),
			Following: toUserBasic(users[e.FollowingID]),
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}

func (s *FollowServiceImpl) Check(ctx context.Context, userID, targetID uint64) (*dto.FollowCheckDTO, error) {
	follow, err := s.followRepo.GetUserFollow(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	return &dto.FollowCheckDTO{IsFollowing: follow != nil}, nil
}

func (s *FollowServiceImpl) CheckBatch(ctx context.Context, userID uint64, ids []uint64) (*dto.FollowBatchDTO, error) {
	if err := checkBatch(len(ids), consts.MaxBatchSize); err != nil {
		return nil, err
	}
	followed, err := s.followRepo.GetFollowingAmong(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	out := &dto.FollowBatchDTO{FollowingUsers: make(map[uint64]bool, len(ids))}
	for _, id := range ids {
		out.FollowingUsers[id] = false
	}
	for _, id := range followed {
		out.FollowingUsers[id] = true
	}
	return out, nil
}
