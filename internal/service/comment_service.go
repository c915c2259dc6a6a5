package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/util"
	"Lokiz/internal/repository"
	"context"
)

type CommentService interface {
	Create(ctx context.Context, userID, videoID uint64, req *dto.CommentCreateReq) (*dto.CommentDTO, error)
	List(ctx context.Context, viewerID, videoID uint64, q *dto.PageQuery) (*dto.CommentListDTO, error)
	Update(ctx context.Context, userID, commentID uint64, req *dto.CommentUpdateReq) (*dto.CommentDTO, error)
	Delete(ctx context.Context, userID, commentID uint64) error
	BatchInfo(ctx context.Context, viewerID uint64, ids []uint64) (*dto.CommentBatchInfoDTO, error)

	Like(ctx context.Context, userID, commentID uint64) error
	Unlike(ctx context.Context, userID, commentID uint64) error
	CheckLike(ctx context.Context, userID, commentID uint64) (*dto.LikeCheckDTO, error)
}

type CommentServiceImpl struct {
	commentRepo repository.CommentRepo
	videoRepo   repository.VideoRepo
	followRepo  repository.UserFollowRepo
	assembler   *videoAssembler
}

func NewCommentService(commentRepo repository.CommentRepo, videoRepo repository.VideoRepo,
	userRepo repository.UserRepo, followRepo repository.UserFollowRepo) CommentService {
	return &CommentServiceImpl{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		followRepo:  followRepo,
		assembler:   &videoAssembler{userRepo: userRepo},
	}
}

func (s *CommentServiceImpl) visibleVideo(ctx context.Context, viewerID, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil || video.DeletedAt != nil || (video.UserID != viewerID && !video.Visible()) {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (s *CommentServiceImpl) Create(ctx context.Context, userID, videoID uint64, req *dto.CommentCreateReq) (*dto.CommentDTO, error) {
	video, err := s.visibleVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	comment := &model.Comment{UserID: userID, VideoID: videoID, Content: req.Content}
	n := notifyOf(video.UserID, userID, model.NotificationComment, &video.ID)
	if err = s.commentRepo.CreateComment(ctx, comment, n); err != nil {
		return nil, err
	}
	pushNotification(ctx, n)

	items, err := s.buildComments(ctx, []*model.Comment{comment})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *CommentServiceImpl) List(ctx context.Context, viewerID, videoID uint64, q *dto.PageQuery) (*dto.CommentListDTO, error) {
	if _, err := s.visibleVideo(ctx, viewerID, videoID); err != nil {
		return nil, err
	}
	limit, offset := q.Normalize(consts.DefaultPageSize)
	comments, err := s.commentRepo.ListByVideo(ctx, videoID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.commentRepo.CountByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	items, err := s.buildComments(ctx, comments)
	if err != nil {
		return nil, err
	}
	return &dto.CommentListDTO{Comments: items, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// ownedComment 评论不存在 404，非作者 403
func (s *CommentServiceImpl) ownedComment(ctx context.Context, userID, commentID uint64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetCommentById(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != userID {
		return nil, ErrCommentForbidden
	}
	return comment, nil
}

func (s *CommentServiceImpl) Update(ctx context.Context, userID, commentID uint64, req *dto.CommentUpdateReq) (*dto.CommentDTO, error) {
	comment, err := s.ownedComment(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	if err = s.commentRepo.UpdateContent(ctx, commentID, req.Content); err != nil {
		return nil, err
	}
	if comment, err = s.commentRepo.GetCommentById(ctx, commentID); err != nil {
		return nil, err
	}
	items, err := s.buildComments(ctx, []*model.Comment{comment})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *CommentServiceImpl) Delete(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.ownedComment(ctx, userID, commentID)
	if err != nil {
		return err
	}
	return s.commentRepo.DeleteComment(ctx, comment)
}

func (s *CommentServiceImpl) BatchInfo(ctx context.Context, viewerID uint64, ids []uint64) (*dto.CommentBatchInfoDTO, error) {
	if err := checkBatch(len(ids), consts.MaxBatchSize); err != nil {
		return nil, err
	}
	out := &dto.CommentBatchInfoDTO{Comments: make(map[uint64]*dto.CommentInfoDTO, len(ids))}
	if len(ids) == 0 {
		return out, nil
	}
	comments, err := s.commentRepo.GetCommentByIds(ctx, util.UniqueUint64(ids))
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uint64, len(comments))
	for i, c := range comments {
		authorIDs[i] = c.UserID
	}
	authors, err := s.assembler.userMap(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	following := map[uint64]bool{}
	if viewerID != 0 {
		followed, err := s.followRepo.GetFollowingAmong(ctx, viewerID, util.UniqueUint64(authorIDs))
		if err != nil {
			return nil, err
		}
		for _, id := range followed {
			following[id] = true
		}
	}

	for _, c := range comments {
		info := &dto.CommentInfoDTO{Content: c.Content, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
		if basic := toUserBasic(authors[c.UserID]); basic != nil {
			info.User = &dto.CommentAuthorDTO{UserBasicDTO: *basic, IsFollowing: following[c.UserID]}
		}
		out.Comments[c.ID] = info
	}
	return out, nil
}

func (s *CommentServiceImpl) Like(ctx context.Context, userID, commentID uint64) error {
	var n *model.Notification
	err := performAction(
		func() error {
			comment, err := s.commentRepo.GetCommentById(ctx, commentID)
			if err != nil {
				return err
			}
			if comment == nil {
				return ErrCommentNotFound
			}
			n = notifyOf(comment.UserID, userID, model.NotificationCommentLike, &comment.ID)
			return nil
		},
		func() error {
			return s.commentRepo.CreateCommentLike(ctx, &model.CommentLike{UserID: userID, CommentID: commentID}, n)
		},
		ErrAlreadyLiked,
	)
	if err != nil {
		return err
	}
	pushNotification(ctx, n)
	return nil
}

func (s *CommentServiceImpl) Unlike(ctx context.Context, userID, commentID uint64) error {
	return revokeAction(
		func() error { return nil },
		func() (bool, error) { return s.commentRepo.DeleteCommentLike(ctx, userID, commentID) },
		ErrLikeNotFound,
	)
}

func (s *CommentServiceImpl) CheckLike(ctx context.Context, userID, commentID uint64) (*dto.LikeCheckDTO, error) {
	liked, err := s.commentRepo.CheckCommentLikeExists(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeCheckDTO{IsLiked: liked}, nil
}

func (s *CommentServiceImpl) buildComments(ctx context.Context, comments []*model.Comment) ([]*dto.CommentDTO, error) {
	ids := make([]uint64, len(comments))
	for i, c := range comments {
		ids[i] = c.UserID
	}
	users, err := s.assembler.userMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, &dto.CommentDTO{
			ID:        c.ID,
			User:      toUserBasic(users[c.UserID]),
			VideoID:   c.VideoID,
			Content:   c.Content,
			LikeCount: c.LikeCount,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return out, nil
}
