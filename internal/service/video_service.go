package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/es"
	"Lokiz/internal/pkg/storage"
	"Lokiz/internal/pkg/util"
	"Lokiz/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const myVideosPageSize = 50

type VideoService interface {
	CreateUpload(ctx context.Context, userID uint64, req *dto.VideoUploadReq) (*dto.VideoUploadDTO, error)
	ListPublic(ctx context.Context, q *dto.CursorQuery) (*dto.VideoListDTO, error)
	ListMine(ctx context.Context, userID uint64, q *dto.VideoListQuery) (*dto.VideoListDTO, error)
	ListUserVideos(ctx context.Context, viewerID, userID uint64, q *dto.CursorQuery) (*dto.VideoListDTO, error)
	ListLikedVideos(ctx context.Context, viewerID, userID uint64, q *dto.CursorQuery) (*dto.VideoListDTO, error)
	GetVideo(ctx context.Context, viewerID, videoID uint64) (*dto.VideoDTO, error)
	UpdateVideo(ctx context.Context, userID, videoID uint64, req *dto.VideoUpdateReq) (*dto.VideoDTO, error)
	CompleteVideo(ctx context.Context, userID, videoID uint64, req *dto.VideoCompleteReq) (*dto.VideoDTO, error)
	RecordView(ctx context.Context, viewerID, videoID uint64) (*dto.VideoViewDTO, error)
	DeleteVideo(ctx context.Context, userID, videoID uint64) (*dto.VideoDeleteDTO, error)
	BatchMetadata(ctx context.Context, ids []uint64) (*dto.VideoBatchMetadataDTO, error)
}

type VideoServiceImpl struct {
	videoAssembler
	videoRepo  repository.VideoRepo
	storage    storage.Storage
	searchRepo es.SearchRepo
}

func NewVideoService(
	videoRepo repository.VideoRepo,
	userRepo repository.UserRepo,
	glitchRepo repository.GlitchRepo,
	store storage.Storage,
	searchRepo es.SearchRepo,
) VideoService {
	return &VideoServiceImpl{
		videoAssembler: videoAssembler{userRepo: userRepo, glitchRepo: glitchRepo},
		videoRepo:      videoRepo,
		storage:        store,
		searchRepo:     searchRepo,
	}
}

// CreateUpload 先落库视频行，再返回视频与封面的直传地址
func (s *VideoServiceImpl) CreateUpload(ctx context.Context, userID uint64, req *dto.VideoUploadReq) (*dto.VideoUploadDTO, error) {
	filename := path.Base(strings.ReplaceAll(req.Filename, "\\", "/"))
	if filename == "." || filename == "/" {
		return nil, ErrParamInvalid
	}
	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "video/mp4"
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixVideo) {
		return nil, ErrFileNotSupported
	}

	// 同名文件多次上传各自独立
	objectID := uuid.NewString()
	videoKey := fmt.Sprintf("%s/%d/%s%s", consts.FolderVideos, userID, objectID, strings.ToLower(path.Ext(filename)))
	thumbKey := fmt.Sprintf("%s/%d/%s.jpg", consts.FolderThumbnails, userID, objectID)
	videoUpload, err := s.storage.PresignKey(ctx, videoKey, contentType)
	if err != nil {
		return nil, err
	}
	thumbUpload, err := s.storage.PresignKey(ctx, thumbKey, "image/jpeg")
	if err != nil {
		return nil, err
	}

	caption := util.Deref(req.Caption)
	video := &model.Video{
		UserID:          userID,
		Caption:         caption,
		VideoURL:        videoUpload.FileURL,
		ThumbnailURL:    thumbUpload.FileURL,
		S3Key:           &videoKey,
		DurationSeconds: req.DurationSeconds,
		Status:          model.VideoStatusProcessing,
		IsPublic:        true,
	}
	if err = s.videoRepo.CreateVideo(ctx, video, util.ExtractHashtags(caption)); err != nil {
		return nil, err
	}

	return &dto.VideoUploadDTO{
		VideoID:            video.ID,
		VideoUploadURL:     videoUpload.UploadURL,
		ThumbnailUploadURL: thumbUpload.UploadURL,
	}, nil
}

func (s *VideoServiceImpl) ListPublic(ctx context.Context, q *dto.CursorQuery) (*dto.VideoListDTO, error) {
	cursor, err := decodeCursor(q.Cursor)
	if err != nil {
		return nil, err
	}
	size := pageSizeOr(q.PageSize, consts.DefaultPageSize)
	videos, err := s.videoRepo.ListPublicVideos(ctx, cursor, size+1)
	if err != nil {
		return nil, err
	}
	return s.videoPage(ctx, videos, size)
}

func (s *VideoServiceImpl) ListMine(ctx context.Context, userID uint64, q *dto.VideoListQuery) (*dto.VideoListDTO, error) {
	cursor, err := decodeCursor(q.Cursor)
	if err != nil {
		return nil, err
	}
	size := pageSizeOr(q.PageSize, myVideosPageSize)
	filter := repository.VideoListFilter{UserID: userID, Status: q.Status, IncludeAll: true, Cursor: cursor, Limit: size + 1}
	videos, err := s.videoRepo.ListUserVideos(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.videoRepo.CountUserVideos(ctx, filter)
	if err != nil {
		return nil, err
	}
	page, err := s.videoPage(ctx, videos, size)
	if err != nil {
		return nil, err
	}
	page.Total = &total
	return page, nil
}

// ListUserVideos 作者本人可见全部未删除视频，其他人只看已发布的公开视频
func (s *VideoServiceImpl) ListUserVideos(ctx context.Context, viewerID, userID uint64, q *dto.CursorQuery) (*dto.VideoListDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	cursor, err := decodeCursor(q.Cursor)
	if err != nil {
		return nil, err
	}
	size := pageSizeOr(q.PageSize, consts.DefaultPageSize)
	filter := repository.VideoListFilter{UserID: userID, IncludeAll: viewerID == userID, Cursor: cursor, Limit: size + 1}
	videos, err := s.videoRepo.ListUserVideos(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.videoPage(ctx, videos, size)
}

func (s *VideoServiceImpl) ListLikedVideos(ctx context.Context, viewerID, userID uint64, q *dto.CursorQuery) (*dto.VideoListDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	cursor, err := decodeCursor(q.Cursor)
	if err != nil {
		return nil, err
	}
	size := pageSizeOr(q.PageSize, consts.DefaultPageSize)
	videos, err := s.videoRepo.ListLikedVideos(ctx, userID, viewerID, cursor, size+1)
	if err != nil {
		return nil, err
	}
	return s.videoPage(ctx, videos, size)
}

func (s *VideoServiceImpl) GetVideo(ctx context.Context, viewerID, videoID uint64) (*dto.VideoDTO, error) {
	video, err := s.visibleVideo(ctx, viewerID, videoID)
	if err != nil {
		return nil, err
	}
	return s.buildVideo(ctx, video)
}

// visibleVideo 已删除或未公开的视频对非作者表现为不存在
func (s *VideoServiceImpl) visibleVideo(ctx context.Context, viewerID, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	if video.UserID == viewerID && video.DeletedAt == nil {
		return video, nil
	}
	if !video.Visible() {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (s *VideoServiceImpl) ownedVideo(ctx context.Context, userID, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil || video.DeletedAt != nil {
		return nil, ErrVideoNotFound
	}
	if video.UserID != userID {
		return nil, ErrVideoForbidden
	}
	return video, nil
}

func (s *VideoServiceImpl) UpdateVideo(ctx context.Context, userID, videoID uint64, req *dto.VideoUpdateReq) (*dto.VideoDTO, error) {
	video, err := s.ownedVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any, 3)
	if req.Width != nil {
		updates["width"] = *req.Width
	}
	if req.Height != nil {
		updates["height"] = *req.Height
	}
	var added, removed []string
	if req.Caption != nil {
		updates["caption"] = *req.Caption
		oldTags, err := s.videoRepo.GetVideoTags(ctx, videoID)
		if err != nil {
			return nil, err
		}
		added, removed = util.DiffTags(oldTags, util.ExtractHashtags(*req.Caption))
	}
	if err = s.videoRepo.UpdateVideo(ctx, video.ID, updates, added, removed); err != nil {
		return nil, err
	}

	return s.reloadAndIndex(ctx, videoID)
}

func (s *VideoServiceImpl) CompleteVideo(ctx context.Context, userID, videoID uint64, req *dto.VideoCompleteReq) (*dto.VideoDTO, error) {
	video, err := s.ownedVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{"status": model.VideoStatusCompleted}
	if req.Width != nil {
		updates["width"] = *req.Width
	}
	if req.Height != nil {
		updates["height"] = *req.Height
	}
	if req.ActualDuration != nil {
		updates["duration_seconds"] = *req.ActualDuration
	}
	if err = s.videoRepo.UpdateVideo(ctx, video.ID, updates, nil, nil); err != nil {
		return nil, err
	}
	return s.reloadAndIndex(ctx, videoID)
}

func (s *VideoServiceImpl) reloadAndIndex(ctx context.Context, videoID uint64) (*dto.VideoDTO, error) {
	video, err := s.videoRepo.GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	s.indexVideo(ctx, video)
	return s.buildVideo(ctx, video)
}

// RecordView 作者本人观看不计数
func (s *VideoServiceImpl) RecordView(ctx context.Context, viewerID, videoID uint64) (*dto.VideoViewDTO, error) {
	video, err := s.visibleVideo(ctx, viewerID, videoID)
	if err != nil {
		return nil, err
	}
	out := &dto.VideoViewDTO{VideoID: video.ID, ViewCount: video.ViewCount}
	if viewerID != 0 && viewerID == video.UserID {
		return out, nil
	}
	if err = s.videoRepo.IncrViewCount(ctx, video.ID); err != nil {
		return nil, err
	}
	out.ViewCount++
	out.Counted = true
	return out, nil
}

func (s *VideoServiceImpl) DeleteVideo(ctx context.Context, userID, videoID uint64) (*dto.VideoDeleteDTO, error) {
	video, err := s.ownedVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err = s.videoRepo.SoftDeleteVideo(ctx, video.ID, now); err != nil {
		return nil, err
	}
	counts, err := s.glitchRepo.CountByOriginalIds(ctx, []uint64{video.ID})
	if err != nil {
		return nil, err
	}
	if s.searchRepo != nil {
		if err = s.searchRepo.DeleteVideo(ctx, video.ID); err != nil {
			log.WarnContext(ctx, "delete video index failed", "video_id", video.ID, "err", err)
		}
	}
	return &dto.VideoDeleteDTO{VideoID: video.ID, GlitchCount: counts[video.ID], DeletedAt: now}, nil
}

// BatchMetadata 不存在或已删除的视频返回全零计数
func (s *VideoServiceImpl) BatchMetadata(ctx context.Context, ids []uint64) (*dto.VideoBatchMetadataDTO, error) {
	if err := checkBatch(len(ids), consts.MaxBatchSize); err != nil {
		return nil, err
	}
	result := &dto.VideoBatchMetadataDTO{Videos: make(map[uint64]*dto.VideoMetricDTO, len(ids))}
	if len(ids) == 0 {
		return result, nil
	}
	videos, err := s.videoRepo.GetVideoByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.glitchRepo.CountByOriginalIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, v := range videos {
		if v.DeletedAt != nil {
			continue
		}
		result.Videos[v.ID] = &dto.VideoMetricDTO{
			ViewCount:    v.ViewCount,
			LikeCount:    v.LikeCount,
			CommentCount: v.CommentCount,
			GlitchCount:  counts[v.ID],
		}
	}
	for _, id := range ids {
		if _, ok := result.Videos[id]; !ok {
			result.Videos[id] = &dto.VideoMetricDTO{}
		}
	}
	return result, nil
}

func (s *VideoServiceImpl) indexVideo(ctx context.Context, video *model.Video) {
	if s.searchRepo == nil || video.Status != model.VideoStatusCompleted {
		return
	}
	tags, err := s.videoRepo.GetVideoTags(ctx, video.ID)
	if err != nil {
		log.WarnContext(ctx, "load video tags failed", "video_id", video.ID, "err", err)
	}
	doc := &es.VideoES{
		ID:        video.ID,
		UserID:    video.UserID,
		Caption:   video.Caption,
		Hashtags:  tags,
		Status:    video.Status,
		IsPublic:  video.IsPublic,
		ViewCount: int64(video.ViewCount),
		CreatedAt: video.CreatedAt,
	}
	if err = s.searchRepo.IndexVideo(ctx, doc, video.UpdatedAt.UnixNano()); err != nil {
		log.WarnContext(ctx, "index video failed", "video_id", video.ID, "err", err)
	}
}
