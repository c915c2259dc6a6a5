package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/util"
	"Lokiz/internal/repository"
	"context"

	"golang.org/x/sync/errgroup"
)

// 候选池为页大小的倍数
const feedPoolFactor = 3

type FeedService interface {
	ForYou(ctx context.Context, viewerID uint64, q *dto.CursorQuery) (*dto.FeedDTO, error)
	Following(ctx context.Context, viewerID uint64, q *dto.CursorQuery) (*dto.FeedDTO, error)
}

type FeedServiceImpl struct {
	feedRepo       repository.FeedRepo
	followRepo     repository.UserFollowRepo
	moderationRepo repository.ModerationRepo
	assembler      *videoAssembler
}

func NewFeedService(feedRepo repository.FeedRepo, followRepo repository.UserFollowRepo, moderationRepo repository.ModerationRepo,
	userRepo repository.UserRepo, glitchRepo repository.GlitchRepo) FeedService {
	return &FeedServiceImpl{
		feedRepo:       feedRepo,
		followRepo:     followRepo,
		moderationRepo: moderationRepo,
		assembler:      &videoAssembler{userRepo: userRepo, glitchRepo: glitchRepo},
	}
}

// diversify 相邻视频尽量不同作者，不足一页时按原顺序从跳过的视频中补齐
func diversify(pool []*model.Video, pageSize int) []*model.Video {
	kept := make([]*model.Video, 0, pageSize)
	skipped := make([]*model.Video, 0)
	for _, v := range pool {
		if len(kept) >= pageSize {
			break
		}
		if len(kept) > 0 && kept[len(kept)-1].UserID == v.UserID {
			skipped = append(skipped, v)
			continue
		}
		kept = append(kept, v)
	}
	for _, v := range skipped {
		if len(kept) >= pageSize {
			break
		}
		kept = append(kept, v)
	}
	return kept
}

// relations 关注集合与双向拉黑集合，匿名用户均为空
func (s *FeedServiceImpl) relations(ctx context.Context, viewerID uint64) (following, excluded []uint64, err error) {
	if viewerID == 0 {
		return nil, nil, nil
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		following, err = s.followRepo.GetFollowingIDs(gCtx, viewerID)
		return err
	})
	g.Go(func() (err error) {
		excluded, err = s.moderationRepo.GetExcludedUserIDs(gCtx, viewerID)
		return err
	})
	err = g.Wait()
	return following, excluded, err
}

func (s *FeedServiceImpl) ForYou(ctx context.Context, viewerID uint64, q *dto.CursorQuery) (*dto.FeedDTO, error) {
	cursor, err := decodeCursor(q.Cursor)
	if err != nil {
		return nil, err
	}
	size := pageSizeOr(q.PageSize, consts.DefaultPageSize)
	following, excluded, err := s.relations(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	pool, err := s.feedRepo.GetForYouCandidates(ctx, following, excluded, cursor, size*feedPoolFactor)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, diversify(pool, size), size, dto.FeedForYou)
}

func (s *FeedServiceImpl) Following(ctx context.Context, viewerID uint64, q *dto.CursorQuery) (*dto.FeedDTO, error) {
	cursor, err := decodeCursor(q.Cursor)
	if err != nil {
		return nil, err
	}
	size := pageSizeOr(q.PageSize, consts.DefaultPageSize)
	following, excluded, err := s.relations(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return s.page(ctx, nil, size, dto.FeedFollowing)
	}
	videos, err := s.feedRepo.GetFollowingCandidates(ctx, following, excluded, cursor, size)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, videos, size, dto.FeedFollowing)
}

// page has_more 以是否填满一页近似
func (s *FeedServiceImpl) page(ctx context.Context, videos []*model.Video, size int, feedType string) (*dto.FeedDTO, error) {
	items, err := s.assembler.buildVideos(ctx, videos)
	if err != nil {
		return nil, err
	}
	out := &dto.FeedDTO{
		Videos:   items,
		Total:    len(items),
		PageSize: size,
		HasMore:  len(items) == size,
		FeedType: feedType,
	}
	if out.HasMore {
		out.NextCursor = util.Ptr(util.EncodeCursor(videos[len(videos)-1].ID))
	}
	return out, nil
}
