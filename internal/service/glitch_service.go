package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/repository"
	"context"
)

// GlitchService 衍生链查询
type GlitchService interface {
	ListGlitches(ctx context.Context, viewerID, videoID uint64, q *dto.GlitchListQuery) (*dto.GlitchChainDTO, error)
	GetSource(ctx context.Context, viewerID, videoID uint64) (*dto.GlitchSourceDTO, error)
}

type GlitchServiceImpl struct {
	glitchRepo repository.GlitchRepo
	videoRepo  repository.VideoRepo
	assembler  *videoAssembler
}

func NewGlitchService(glitchRepo repository.GlitchRepo, videoRepo repository.VideoRepo, userRepo repository.UserRepo) GlitchService {
	return &GlitchServiceImpl{
		glitchRepo: glitchRepo,
		videoRepo:  videoRepo,
		assembler:  &videoAssembler{userRepo: userRepo, glitchRepo: glitchRepo},
	}
}

func viewableBy(video *model.Video, viewerID uint64) bool {
	if video == nil || video.DeletedAt != nil {
		return false
	}
	return video.UserID == viewerID || video.Visible()
}

func (s *GlitchServiceImpl) ListGlitches(ctx context.Context, viewerID, videoID uint64, q *dto.GlitchListQuery) (*dto.GlitchChainDTO, error) {
	original, err := s.videoRepo.GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !viewableBy(original, viewerID) {
		return nil, ErrVideoNotFound
	}

	page := &dto.PageQuery{Page: q.Page, PageSize: q.PageSize}
	limit, offset := page.Normalize(consts.DefaultPageSize)
	sort := q.Sort
	if sort == "" {
		sort = repository.GlitchSortLatest
	}

	items, err := s.glitchRepo.ListGlitches(ctx, videoID, viewerID, sort, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.glitchRepo.CountGlitches(ctx, videoID, viewerID)
	if err != nil {
		return nil, err
	}

	videos := make([]*model.Video, len(items))
	for i, it := range items {
		videos[i] = it.Video
	}
	built, err := s.assembler.buildVideos(ctx, videos)
	if err != nil {
		return nil, err
	}
	out := &dto.GlitchChainDTO{
		OriginalVideoID: videoID,
		GlitchCount:     total,
		Glitches:        make([]*dto.GlitchItemDTO, 0, len(items)),
		Page:            page.Page,
		PageSize:        page.PageSize,
	}
	for i, it := range items {
		out.Glitches = append(out.Glitches, &dto.GlitchItemDTO{VideoDTO: built[i], GlitchType: it.Edge.GlitchType})
	}
	return out, nil
}

// GetSource 来源不可见时只返回 id 与类型
func (s *GlitchServiceImpl) GetSource(ctx context.Context, viewerID, videoID uint64) (*dto.GlitchSourceDTO, error) {
	video, err := s.videoRepo.GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !viewableBy(video, viewerID) {
		return nil, ErrVideoNotFound
	}

	out := &dto.GlitchSourceDTO{GlitchVideoID: videoID}
	edge, err := s.glitchRepo.GetSourceEdge(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if edge == nil {
		return out, nil
	}
	out.OriginalVideoID = &edge.OriginalVideoID
	out.GlitchType = &edge.GlitchType

	original, err := s.videoRepo.GetVideoById(ctx, edge.OriginalVideoID)
	if err != nil {
		return nil, err
	}
	if viewableBy(original, viewerID) {
		if out.OriginalVideo, err = s.assembler.buildVideo(ctx, original); err != nil {
			return nil, err
		}
	}
	return out, nil
}
