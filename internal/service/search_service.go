package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/es"
	"Lokiz/internal/repository"
	"context"
	log "log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	defaultSearchLimit = 20
	defaultUserLimit   = 5
	defaultVideoLimit  = 10
)

type SearchService interface {
	SearchUsers(ctx context.Context, q *dto.SearchQuery) (*dto.UserSearchDTO, error)
	SearchVideos(ctx context.Context, viewerID uint64, q *dto.SearchQuery) (*dto.VideoSearchDTO, error)
	Search(ctx context.Context, viewerID uint64, q *dto.UnifiedSearchQuery) (*dto.UnifiedSearchDTO, error)
}

// SearchServiceImpl 优先走 Elasticsearch，未启用或出错时回退到数据库模糊查询
type SearchServiceImpl struct {
	userRepo   repository.UserRepo
	videoRepo  repository.VideoRepo
	searchRepo es.SearchRepo
	assembler  *videoAssembler
}

func NewSearchService(userRepo repository.UserRepo, videoRepo repository.VideoRepo,
	glitchRepo repository.GlitchRepo, searchRepo es.SearchRepo) SearchService {
	return &SearchServiceImpl{
		userRepo:   userRepo,
		videoRepo:  videoRepo,
		searchRepo: searchRepo,
		assembler:  &videoAssembler{userRepo: userRepo, glitchRepo: glitchRepo},
	}
}

func (s *SearchServiceImpl) SearchUsers(ctx context.Context, q *dto.SearchQuery) (*dto.UserSearchDTO, error) {
	users, err := s.users(ctx, strings.TrimSpace(q.Q), pageSizeOr(q.Limit, defaultSearchLimit))
	if err != nil {
		return nil, err
	}
	return &dto.UserSearchDTO{Users: users, Total: len(users)}, nil
}

func (s *SearchServiceImpl) SearchVideos(ctx context.Context, viewerID uint64, q *dto.SearchQuery) (*dto.VideoSearchDTO, error) {
	videos, err := s.videos(ctx, strings.TrimSpace(q.Q), viewerID, pageSizeOr(q.Limit, defaultSearchLimit))
	if err != nil {
		return nil, err
	}
	return &dto.VideoSearchDTO{Videos: videos, Total: len(videos)}, nil
}

func (s *SearchServiceImpl) Search(ctx context.Context, viewerID uint64, q *dto.UnifiedSearchQuery) (*dto.UnifiedSearchDTO, error) {
	keyword := strings.TrimSpace(q.Q)
	var (
		users  []*dto.UserBasicDTO
		videos []*dto.VideoDTO
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users(gCtx, keyword, pageSizeOr(q.UserLimit, defaultUserLimit))
		return err
	})
	g.Go(func() (err error) {
		videos, err = s.videos(gCtx, keyword, viewerID, pageSizeOr(q.VideoLimit, defaultVideoLimit))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dto.UnifiedSearchDTO{Users: users, Videos: videos, UserCount: len(users), VideoCount: len(videos)}, nil
}

func (s *SearchServiceImpl) users(ctx context.Context, keyword string, limit int) ([]*dto.UserBasicDTO, error) {
	var users []*model.User
	ids, ok := s.esIDs(ctx, func() ([]uint64, error) { return s.searchRepo.SearchUserIDs(ctx, keyword, limit) })
	if ok {
		found, err := s.userRepo.GetUserByIds(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[uint64]*model.User, len(found))
		for _, u := range found {
			byID[u.ID] = u
		}
		for _, id := range ids {
			if u, exists := byID[id]; exists && u.IsActive {
				users = append(users, u)
			}
		}
	} else {
		var err error
		if users, err = s.userRepo.SearchUsers(ctx, keyword, limit); err != nil {
			return nil, err
		}
	}

	out := make([]*dto.UserBasicDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserBasic(u))
	}
	return out, nil
}

func (s *SearchServiceImpl) videos(ctx context.Context, keyword string, viewerID uint64, limit int) ([]*dto.VideoDTO, error) {
	var videos []*model.Video
	ids, ok := s.esIDs(ctx, func() ([]uint64, error) { return s.searchRepo.SearchVideoIDs(ctx, keyword, viewerID, limit) })
	if ok {
		found, err := s.videoRepo.GetVideoByIds(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[uint64]*model.Video, len(found))
		for _, v := range found {
			byID[v.ID] = v
		}
		// 索引可能滞后，按数据库状态再过滤一次
		for _, id := range ids {
			v, exists := byID[id]
			if !exists || v.DeletedAt != nil || v.Status != model.VideoStatusCompleted {
				continue
			}
			if v.IsPublic || v.UserID == viewerID {
				videos = append(videos, v)
			}
		}
	} else {
		var err error
		if videos, err = s.videoRepo.SearchVideos(ctx, keyword, viewerID, limit); err != nil {
			return nil, err
		}
	}
	return s.assembler.buildVideos(ctx, videos)
}

// esIDs ok 为 false 表示需要回退到数据库
func (s *SearchServiceImpl) esIDs(ctx context.Context, query func() ([]uint64, error)) ([]uint64, bool) {
	if s.searchRepo == nil {
		return nil, false
	}
	ids, err := query()
	if err != nil {
		log.WarnContext(ctx, "elasticsearch query failed, fallback to db", "err", err)
		return nil, false
	}
	return ids, true
}
