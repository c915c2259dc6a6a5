package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/storage"
	"Lokiz/internal/repository"
	"context"
	"strconv"
	"strings"
)

// StudioService 时间轴、预览与片段选择，以及图片上传地址
type StudioService interface {
	Timeline(ctx context.Context, userID, videoID uint64) (*dto.StudioTimelineDTO, error)
	Preview(ctx context.Context, userID, videoID uint64, timestamp float64) (*dto.StudioPreviewDTO, error)
	SelectRange(ctx context.Context, userID, videoID uint64, req *dto.SelectRangeReq) (*dto.StudioRangeDTO, error)
	ImageUploadURL(ctx context.Context, userID uint64, req *dto.ImageUploadReq) (*dto.ImageUploadDTO, error)
}

type StudioServiceImpl struct {
	videoRepo repository.VideoRepo
	store     storage.Storage
}

func NewStudioService(videoRepo repository.VideoRepo, store storage.Storage) StudioService {
	return &StudioServiceImpl{videoRepo: videoRepo, store: store}
}

// studioVideo 公开视频任何人可编辑取材，私密视频仅作者
func (s *StudioServiceImpl) studioVideo(ctx context.Context, userID, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil || video.DeletedAt != nil {
		return nil, ErrVideoNotFound
	}
	if !video.IsPublic && video.UserID != userID {
		return nil, ErrVideoForbidden
	}
	return video, nil
}

func (s *StudioServiceImpl) Timeline(ctx context.Context, userID, videoID uint64) (*dto.StudioTimelineDTO, error) {
	video, err := s.studioVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	return &dto.StudioTimelineDTO{
		VideoID:   video.ID,
		Title:     video.Title,
		URL:       video.VideoURL,
		Duration:  video.DurationSeconds,
		Status:    video.Status,
		CreatedAt: video.CreatedAt,
		Timeline: dto.TimelineInfoDTO{
			TotalDuration: video.DurationSeconds,
			FrameRate:     consts.StudioFrameRate,
			TotalFrames:   video.DurationSeconds * consts.StudioFrameRate,
		},
	}, nil
}

func (s *StudioServiceImpl) Preview(ctx context.Context, userID, videoID uint64, timestamp float64) (*dto.StudioPreviewDTO, error) {
	video, err := s.studioVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	if timestamp < 0 || (video.DurationSeconds > 0 && timestamp > float64(video.DurationSeconds)) {
		return nil, ErrTimestampOutOfRange
	}
	return &dto.StudioPreviewDTO{
		VideoID:    video.ID,
		URL:        video.VideoURL,
		Timestamp:  timestamp,
		Duration:   video.DurationSeconds,
		PreviewURL: mediaFragment(video.VideoURL, timestamp),
	}, nil
}

func (s *StudioServiceImpl) SelectRange(ctx context.Context, userID, videoID uint64, req *dto.SelectRangeReq) (*dto.StudioRangeDTO, error) {
	video, err := s.studioVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	if err = checkRange(req.StartTime, req.EndTime, video.DurationSeconds); err != nil {
		return nil, err
	}
	return &dto.StudioRangeDTO{
		VideoID:   video.ID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Duration:  req.EndTime - req.StartTime,
		URL:       video.VideoURL,
		RangeURL:  mediaFragment(video.VideoURL, req.StartTime, req.EndTime),
	}, nil
}

// checkRange 0 <= start < end <= duration，且区间不超过 AI 处理上限；duration 为 0 时不校验终点
func checkRange(start, end float64, duration int) error {
	if start < 0 || end < 0 || start >= end {
		return ErrRangeInvalid
	}
	if duration > 0 && end > float64(duration) {
		return ErrTimestampOutOfRange
	}
	if end-start > consts.MaxGlitchRangeSecs {
		return ErrRangeInvalid
	}
	return nil
}

// mediaFragment 生成 url#t=a[,b] 形式的媒体片段地址
func mediaFragment(url string, points ...float64) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = strconv.FormatFloat(p, 'f', -1, 64)
	}
	return url + "#t=" + strings.Join(parts, ",")
}

func (s *StudioServiceImpl) ImageUploadURL(ctx context.Context, _ uint64, req *dto.ImageUploadReq) (*dto.ImageUploadDTO, error) {
	if !strings.HasPrefix(req.FileType, consts.MimePrefixImage+"/") || !storage.SupportedMime(req.FileType) {
		return nil, ErrFileNotSupported
	}
	upload, err := s.store.GeneratePresignedUpload(ctx, req.FileType, consts.FolderImages)
	if err != nil {
		return nil, err
	}
	return &dto.ImageUploadDTO{UploadURL: upload.UploadURL, FileKey: upload.FileKey, FileURL: upload.FileURL}, nil
}
