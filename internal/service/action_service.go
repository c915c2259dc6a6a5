package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/repository"
	"context"
)

// ActionService 点赞、收藏与分享
type ActionService interface {
	Like(ctx context.Context, userID, videoID uint64) error
	Unlike(ctx context.Context, userID, videoID uint64) error
	CheckLike(ctx context.Context, userID, videoID uint64) (*dto.LikeCheckDTO, error)
	CheckLikeBatch(ctx context.Context, userID uint64, videoIDs []uint64) (*dto.LikeBatchDTO, error)

	Bookmark(ctx context.Context, userID, videoID uint64) error
	Unbookmark(ctx context.Context, userID, videoID uint64) error
	CheckBookmark(ctx context.Context, userID, videoID uint64) (*dto.BookmarkCheckDTO, error)
	ListBookmarks(ctx context.Context, userID uint64, q *dto.CursorQuery) (*dto.VideoListDTO, error)

	Share(ctx context.Context, userID, videoID uint64, req *dto.ShareReq) (*dto.ShareDTO, error)
	ShareCount(ctx context.Context, videoID uint64) (*dto.ShareCountDTO, error)
}

type ActionServiceImpl struct {
	actionRepo repository.VideoActionRepo
	videoRepo  repository.VideoRepo
	assembler  *videoAssembler
}

func NewActionService(actionRepo repository.VideoActionRepo, videoRepo repository.VideoRepo,
	userRepo repository.UserRepo, glitchRepo repository.GlitchRepo) ActionService {
	return &ActionServiceImpl{
		actionRepo: actionRepo,
		videoRepo:  videoRepo,
		assembler:  &videoAssembler{userRepo: userRepo, glitchRepo: glitchRepo},
	}
}

// targetVideo 互动目标需对当前用户可见
func (s *ActionServiceImpl) targetVideo(ctx context.Context, userID, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil || video.DeletedAt != nil {
		return nil, ErrVideoNotFound
	}
	if video.UserID != userID && !video.Visible() {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (s *ActionServiceImpl) Like(ctx context.Context, userID, videoID uint64) error {
	var n *model.Notification
	err := performAction(
		func() error {
			video, err := s.targetVideo(ctx, userID, videoID)
			if err != nil {
				return err
			}
			n = notifyOf(video.UserID, userID, model.NotificationLike, &video.ID)
			return nil
		},
		func() error {
			return s.actionRepo.CreateLike(ctx, &model.Like{UserID: userID, VideoID: videoID}, n)
		},
		ErrAlreadyLiked,
	)
	if err != nil {
		return err
	}
	pushNotification(ctx, n)
	return nil
}

func (s *ActionServiceImpl) Unlike(ctx context.Context, userID, videoID uint64) error {
	return revokeAction(
		func() error { return nil },
		func() (bool, error) { return s.actionRepo.DeleteLike(ctx, userID, videoID) },
		ErrLikeNotFound,
	)
}

func (s *ActionServiceImpl) CheckLike(ctx context.Context, userID, videoID uint64) (*dto.LikeCheckDTO, error) {
	liked, err := s.actionRepo.CheckLikeExists(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeCheckDTO{IsLiked: liked}, nil
}

func (s *ActionServiceImpl) CheckLikeBatch(ctx context.Context, userID uint64, videoIDs []uint64) (*dto.LikeBatchDTO, error) {
	if err := checkBatch(len(videoIDs), consts.MaxBatchSize); err != nil {
		return nil, err
	}
	liked, err := s.actionRepo.GetLikedVideoIDs(ctx, userID, videoIDs)
	if err != nil {
		return nil, err
	}
	out := &dto.LikeBatchDTO{LikedVideos: make(map[uint64]bool, len(videoIDs))}
	for _, id := range videoIDs {
		out.LikedVideos[id] = false
	}
	for _, id := range liked {
		out.LikedVideos[id] = true
	}
	return out, nil
}

func (s *ActionServiceImpl) Bookmark(ctx context.Context, userID, videoID uint64) error {
	return performAction(
		func() error {
			_, err := s.targetVideo(ctx, userID, videoID)
			return err
		},
		func() error {
			return s.actionRepo.CreateBookmark(ctx, &model.Bookmark{UserID: userID, VideoID: videoID})
		},
		ErrAlreadyBookmarked,
	)
}

func (s *ActionServiceImpl) Unbookmark(ctx context.Context, userID, videoID uint64) error {
	return revokeAction(
		func() error { return nil },
		func() (bool, error) { return s.actionRepo.DeleteBookmark(ctx, userID, videoID) },
		ErrBookmarkNotFound,
	)
}

func (s *ActionServiceImpl) CheckBookmark(ctx context.Context, userID, videoID uint64) (*dto.BookmarkCheckDTO, error) {
	exists, err := s.actionRepo.CheckBookmarkExists(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	return &dto.BookmarkCheckDTO{IsBookmarked: exists}, nil
}

func (s *ActionServiceImpl) ListBookmarks(ctx context.Context, userID uint64, q *dto.CursorQuery) (*dto.VideoListDTO, error) {
	cursor, err := decodeCursor(q.Cursor)
	if err != nil {
		return nil, err
	}
	size := pageSizeOr(q.PageSize, consts.DefaultPageSize)
	videos, err := s.videoRepo.ListBookmarkedVideos(ctx, userID, cursor, size+1)
	if err != nil {
		return nil, err
	}
	return s.assembler.videoPage(ctx, videos, size)
}

// Share 匿名分享只计数
func (s *ActionServiceImpl) Share(ctx context.Context, userID, videoID uint64, req *dto.ShareReq) (*dto.ShareDTO, error) {
	video, err := s.targetVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	var share *model.VideoShare
	if userID != 0 {
		share = &model.VideoShare{UserID: userID, VideoID: videoID, SharePlatform: req.SharePlatform}
	}
	if err = s.actionRepo.CreateShare(ctx, videoID, share); err != nil {
		return nil, err
	}
	return &dto.ShareDTO{Success: true, ShareCount: video.ShareCount + 1}, nil
}

func (s *ActionServiceImpl) ShareCount(ctx context.Context, videoID uint64) (*dto.ShareCountDTO, error) {
	video, err := s.videoRepo.GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil || video.DeletedAt != nil {
		return nil, ErrVideoNotFound
	}
	return &dto.ShareCountDTO{VideoID: video.ID, ShareCount: video.ShareCount}, nil
}
