package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/util"
	"Lokiz/internal/repository"
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}

// performAction 建立关系边，唯一键冲突映射为 conflict
func performAction(checkFunc func() error, repoFunc func() error, conflict error) error {
	if err := checkFunc(); err != nil {
		return err
	}
	if err := repoFunc(); err != nil {
		if isDuplicateError(err) {
			return conflict
		}
		return err
	}
	return nil
}

// revokeAction 删除关系边，不存在时返回 notFound
func revokeAction(checkFunc func() error, repoFunc func() (bool, error), notFound error) error {
	if err := checkFunc(); err != nil {
		return err
	}
	deleted, err := repoFunc()
	if err != nil {
		return err
	}
	if !deleted {
		return notFound
	}
	return nil
}

// checkBatch 校验批量请求的 id 数量
func checkBatch(n, limit int) error {
	if n > limit {
		return BatchLimitError(limit)
	}
	return nil
}

func decodeCursor(cursor string) (uint64, error) {
	id, err := util.DecodeCursor(cursor)
	if err != nil {
		return 0, ErrParamInvalid
	}
	return id, nil
}

func pageSizeOr(size, def int) int {
	if size <= 0 {
		return def
	}
	return size
}

// notifyOf 构造通知，接收者与触发者相同时返回 nil
func notifyOf(recipient, actor uint64, typ string, target *uint64) *model.Notification {
	if recipient == actor {
		return nil
	}
	return &model.Notification{UserID: recipient, ActorID: actor, Type: typ, TargetID: target}
}

func toUserBasic(user *model.User) *dto.UserBasicDTO {
	if user == nil {
		return nil
	}
	basic := &dto.UserBasicDTO{}
	_ = copier.Copy(basic, user)
	return basic
}

func toUserDTO(user *model.User) *dto.UserDTO {
	out := &dto.UserDTO{}
	_ = copier.Copy(out, user)
	return out
}

// videoAssembler 视频响应组装：作者、衍生数、来源均为批量查询
type videoAssembler struct {
	userRepo   repository.UserRepo
	glitchRepo repository.GlitchRepo
}

func (s *videoAssembler) userMap(ctx context.Context, ids []uint64) (map[uint64]*model.User, error) {
	users, err := s.userRepo.GetUserByIds(ctx, util.UniqueUint64(ids))
	if err != nil {
		return nil, err
	}
	m := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m, nil
}

func (s *videoAssembler) buildVideos(ctx context.Context, videos []*model.Video) ([]*dto.VideoDTO, error) {
	out := make([]*dto.VideoDTO, 0, len(videos))
	if len(videos) == 0 {
		return out, nil
	}

	videoIDs := make([]uint64, len(videos))
	userIDs := make([]uint64, len(videos))
	for i, v := range videos {
		videoIDs[i] = v.ID
		userIDs[i] = v.UserID
	}

	var (
		users   map[uint64]*model.User
		counts  map[uint64]int
		sources map[uint64]*model.VideoGlitch
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.userMap(gCtx, userIDs)
		return err
	})
	g.Go(func() (err error) {
		counts, err = s.glitchRepo.CountByOriginalIds(gCtx, videoIDs)
		return err
	})
	g.Go(func() (err error) {
		sources, err = s.glitchRepo.GetSourceEdgesByGlitchIds(gCtx, videoIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, v := range videos {
		item := &dto.VideoDTO{}
		if err := copier.Copy(item, v); err != nil {
			return nil, err
		}
		item.User = toUserBasic(users[v.UserID])
		item.GlitchCount = counts[v.ID]
		if edge, ok := sources[v.ID]; ok {
			item.OriginalVideoID = &edge.OriginalVideoID
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *videoAssembler) buildVideo(ctx context.Context, video *model.Video) (*dto.VideoDTO, error) {
	list, err := s.buildVideos(ctx, []*model.Video{video})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

// videoPage 多取一条判断是否还有下一页
func (s *videoAssembler) videoPage(ctx context.Context, videos []*model.Video, pageSize int) (*dto.VideoListDTO, error) {
	hasMore := len(videos) > pageSize
	if hasMore {
		videos = videos[:pageSize]
	}
	items, err := s.buildVideos(ctx, videos)
	if err != nil {
		return nil, err
	}
	page := &dto.VideoListDTO{Videos: items, PageSize: pageSize, HasMore: hasMore}
	if hasMore {
		page.NextCursor = util.Ptr(util.EncodeCursor(videos[len(videos)-1].ID))
	}
	return page, nil
}
