package repository

import (
	"Lokiz/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

const (
	GlitchSortLatest  = "latest"
	GlitchSortPopular = "popular"
)

// GlitchVideo 衍生关系与衍生视频
type GlitchVideo struct {
	Edge  *model.VideoGlitch
	Video *model.Video
}

type GlitchRepo interface {
	ListGlitches(ctx context.Context, originalID, viewerID uint64, sort string, limit, offset int) ([]*GlitchVideo, error)
	CountGlitches(ctx context.Context, originalID, viewerID uint64) (int64, error)
	GetSourceEdge(ctx context.Context, glitchVideoID uint64) (*model.VideoGlitch, error)
	CountByOriginalIds(ctx context.Context, ids []uint64) (map[uint64]int, error)
	GetSourceEdgesByGlitchIds(ctx context.Context, ids []uint64) (map[uint64]*model.VideoGlitch, error)
}

type GlitchRepoImpl struct {
	db *gorm.DB
}

func NewGlitchRepo(db *gorm.DB) GlitchRepo {
	return &GlitchRepoImpl{db: db}
}

// glitchVisibleTo 他人只能看到已发布、公开且未删除的衍生视频，作者可见自己的全部衍生视频
func glitchVisibleTo(viewerID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewerID == 0 {
			return db.Where("videos.deleted_at IS NULL AND videos.is_public = ? AND videos.status = ?",
				true, model.VideoStatusCompleted)
		}
		return db.Where("((videos.deleted_at IS NULL AND videos.is_public = ? AND videos.status = ?) OR videos.user_id = ?)",
			true, model.VideoStatusCompleted, viewerID)
	}
}

func (s *GlitchRepoImpl) glitchesQuery(ctx context.Context, originalID, viewerID uint64) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.VideoGlitch{}).
		Joins("JOIN videos ON videos.id = video_glitches.glitch_video_id").
		Where("video_glitches.original_video_id = ?", originalID).
		Scopes(glitchVisibleTo(viewerID))
}

func (s *GlitchRepoImpl) ListGlitches(ctx context.Context, originalID, viewerID uint64, sort string, limit, offset int) ([]*GlitchVideo, error) {
	order := "video_glitches.created_at DESC, video_glitches.id DESC"
	if sort == GlitchSortPopular {
		order = "videos.like_count DESC, video_glitches.id DESC"
	}

	var edges []*model.VideoGlitch
	err := s.glitchesQuery(ctx, originalID, viewerID).
		Select("video_glitches.*").
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&edges).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.GlitchVideoID)
	}
	videos := make([]*model.Video, 0, len(ids))
	if len(ids) > 0 {
		if err = s.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[uint64]*model.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	out := make([]*GlitchVideo, 0, len(edges))
	for _, e := range edges {
		if v, ok := byID[e.GlitchVideoID]; ok {
			out = append(out, &GlitchVideo{Edge: e, Video: v})
		}
	}
	return out, nil
}

func (s *GlitchRepoImpl) CountGlitches(ctx context.Context, originalID, viewerID uint64) (int64, error) {
	var count int64
	err := s.glitchesQuery(ctx, originalID, viewerID).Count(&count).Error
	return count, err
}

func (s *GlitchRepoImpl) GetSourceEdge(ctx context.Context, glitchVideoID uint64) (*model.VideoGlitch, error) {
	edge := &model.VideoGlitch{}
	result := s.db.WithContext(ctx).Where("glitch_video_id = ?", glitchVideoID).First(edge)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return edge, nil
}

// CountByOriginalIds 按来源视频批量统计衍生数
func (s *GlitchRepoImpl) CountByOriginalIds(ctx context.Context, ids []uint64) (map[uint64]int, error) {
	counts := make(map[uint64]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		OriginalVideoID uint64
		Cnt             int
	}
	err := s.db.WithContext(ctx).
		Model(&model.VideoGlitch{}).
		Select("original_video_id, COUNT(*) AS cnt").
		Where("original_video_id IN ?", ids).
		Group("original_video_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.OriginalVideoID] = r.Cnt
	}
	return counts, nil
}

func (s *GlitchRepoImpl) GetSourceEdgesByGlitchIds(ctx context.Context, ids []uint64) (map[uint64]*model.VideoGlitch, error) {
	out := make(map[uint64]*model.VideoGlitch, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var edges []*model.VideoGlitch
	if err := s.db.WithContext(ctx).Where("glitch_video_id IN ?", ids).Find(&edges).Error; err != nil {
		return nil, err
	}
	for _, e := range edges {
		out[e.GlitchVideoID] = e
	}
	return out, nil
}
