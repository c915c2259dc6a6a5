package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/redis"
	"Lokiz/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

const (
	defaultTrendingLimit = 20
	trendingCacheTTL     = time.Minute
)

type HashtagService interface {
	Trending(ctx context.Context, limit int) (*dto.TrendingHashtagsDTO, error)
	Videos(ctx context.Context, name string, q *dto.PageQuery) (*dto.HashtagVideosDTO, error)
	BatchStats(ctx context.Context, names []string) (*dto.HashtagBatchStatsDTO, error)
}

type HashtagServiceImpl struct {
	hashtagRepo repository.HashtagRepo
	assembler   *videoAssembler
}

func NewHashtagService(hashtagRepo repository.HashtagRepo, userRepo repository.UserRepo, glitchRepo repository.GlitchRepo) HashtagService {
	return &HashtagServiceImpl{
		hashtagRepo: hashtagRepo,
		assembler:   &videoAssembler{userRepo: userRepo, glitchRepo: glitchRepo},
	}
}

// normalizeTag 与文案解析一致：去掉 # 并转小写
func normalizeTag(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "#"))
}

// trendingScore use_count 与视频数加权，保留两位小数
func trendingScore(useCount int, videoCount int64) float64 {
	return math.Round((float64(useCount)*0.7+float64(videoCount)*0.3)*100) / 100
}

func (s *HashtagServiceImpl) Trending(ctx context.Context, limit int) (*dto.TrendingHashtagsDTO, error) {
	limit = pageSizeOr(limit, defaultTrendingLimit)
	if limit > consts.MaxSearchLimit {
		limit = consts.MaxSearchLimit
	}

	key := consts.HashtagTrendingKey + fmt.Sprint(limit)
	if cached, err := redis.GetValue(ctx, key); err == nil && cached != "" {
		out := &dto.TrendingHashtagsDTO{}
		if err = json.Unmarshal([]byte(cached), out); err == nil {
			return out, nil
		}
	}

	tags, err := s.hashtagRepo.GetTrending(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := &dto.TrendingHashtagsDTO{Hashtags: make([]*dto.HashtagDTO, 0, len(tags)), Total: len(tags)}
	if err = copier.Copy(&out.Hashtags, &tags); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(out); err == nil {
		if err = redis.SetWithExpiration(ctx, key, data, trendingCacheTTL); err != nil {
			log.WarnContext(ctx, "cache trending hashtags error", "err", err)
		}
	}
	return out, nil
}

func (s *HashtagServiceImpl) Videos(ctx context.Context, name string, q *dto.PageQuery) (*dto.HashtagVideosDTO, error) {
	tag, err := s.hashtagRepo.GetHashtagByName(ctx, normalizeTag(name))
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrHashtagNotFound
	}

	limit, offset := q.Normalize(consts.DefaultPageSize)
	videos, err := s.hashtagRepo.ListVideosByHashtag(ctx, tag.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.hashtagRepo.CountVideosByHashtag(ctx, tag.ID)
	if err != nil {
		return nil, err
	}
	items, err := s.assembler.buildVideos(ctx, videos)
	if err != nil {
		return nil, err
	}

	hashtag := &dto.HashtagDTO{}
	_ = copier.Copy(hashtag, tag)
	return &dto.HashtagVideosDTO{Hashtag: hashtag, Videos: items, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// BatchStats 不存在的话题返回零值
func (s *HashtagServiceImpl) BatchStats(ctx context.Context, names []string) (*dto.HashtagBatchStatsDTO, error) {
	if err := checkBatch(len(names), consts.MaxHashtagBatch); err != nil {
		return nil, err
	}
	normalized := make([]string, 0, len(names))
	out := &dto.HashtagBatchStatsDTO{Hashtags: make(map[string]*dto.HashtagStatsDTO, len(names))}
	for _, n := range names {
		tag := normalizeTag(n)
		if tag == "" {
			continue
		}
		if _, ok := out.Hashtags[tag]; !ok {
			out.Hashtags[tag] = &dto.HashtagStatsDTO{}
			normalized = append(normalized, tag)
		}
	}

	stats, err := s.hashtagRepo.GetStatsByNames(ctx, normalized)
	if err != nil {
		return nil, err
	}
	for _, st := range stats {
		out.Hashtags[st.Name] = &dto.HashtagStatsDTO{
			VideoCount:      st.VideoCount,
			TotalViews:      st.TotalViews,
			LatestThumbnail: st.LatestThumbnail,
			UseCount:        st.UseCount,
			TrendingScore:   trendingScore(st.UseCount, st.VideoCount),
		}
	}
	return out, nil
}
