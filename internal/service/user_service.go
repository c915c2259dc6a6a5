package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/es"
	"Lokiz/internal/pkg/redis"
	"Lokiz/internal/pkg/security"
	"Lokiz/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

const profileCacheTTL = time.Minute

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (*dto.TokenDTO, error)
	Login(ctx context.Context, req *dto.LoginDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	GetMe(ctx context.Context, userID uint64) (*dto.UserDTO, error)
	UpdateMe(ctx context.Context, userID uint64, req *dto.UserUpdateDTO) (*dto.UserDTO, error)
	GetProfile(ctx context.Context, viewerID, userID uint64) (*dto.UserProfileDTO, error)
	GetBatchInfo(ctx context.Context, viewerID uint64, ids []uint64) (*dto.UserBatchInfoDTO, error)
}

type UserServiceImpl struct {
	userRepo       repository.UserRepo
	followRepo     repository.UserFollowRepo
	searchRepo     es.SearchRepo
	initialCredits int
}

// NewUserService searchRepo 为 nil 时不同步索引
func NewUserService(userRepo repository.UserRepo, followRepo repository.UserFollowRepo, searchRepo es.SearchRepo, initialCredits int) UserService {
	return &UserServiceImpl{
		userRepo:       userRepo,
		followRepo:     followRepo,
		searchRepo:     searchRepo,
		initialCredits: initialCredits,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.TokenDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exist, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExist
	}
	exist, err = s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrUsernameExist
	}

	passwordHash, err := security.HashPassword(req.Password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return nil, ErrParamInvalid
	}
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:       req.Username,
		Email:          email,
		HashedPassword: passwordHash,
		DisplayName:    &req.Username,
		Credits:        s.initialCredits,
		IsActive:       true,
		Role:           model.RoleUser,
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		// 并发注册由唯一索引兜底
		if isDuplicateError(err) {
			return nil, ErrUsernameExist
		}
		return nil, err
	}
	s.indexUser(ctx, user)

	return s.issueToken(user)
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (*dto.TokenDTO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(req.Password, user.HashedPassword); err != nil {
		return nil, ErrPasswordIncorrect
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return s.issueToken(user)
}

func (s *UserServiceImpl) issueToken(user *model.User) (*dto.TokenDTO, error) {
	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenDTO{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toUserDTO(user),
	}, nil
}

// Logout 签名加入黑名单直到 Token 过期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return UnauthorizedError
	}
	ttl := security.TokenTTL()
	if claims, err := security.ValidateToken(token); err == nil && claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, 1, ttl)
}

func (s *UserServiceImpl) GetMe(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user), nil
}

func (s *UserServiceImpl) UpdateMe(ctx context.Context, userID uint64, req *dto.UserUpdateDTO) (*dto.UserDTO, error) {
	updates := make(map[string]any, 3)
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.ProfileImageURL != nil {
		updates["profile_image_url"] = *req.ProfileImageURL
	}
	if len(updates) > 0 {
		if err := s.userRepo.UpdateUser(ctx, userID, updates); err != nil {
			return nil, err
		}
		_ = redis.DeleteKey(ctx, consts.UserProfileKey+strconv.FormatUint(userID, 10))
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	s.indexUser(ctx, user)
	return toUserDTO(user), nil
}

// GetProfile 主页信息与统计，统计部分短暂缓存
func (s *UserServiceImpl) GetProfile(ctx context.Context, viewerID, userID uint64) (*dto.UserProfileDTO, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if viewerID != 0 && viewerID != userID {
		follow, err := s.followRepo.GetUserFollow(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = follow != nil
	}
	return profile, nil
}

func (s *UserServiceImpl) loadProfile(ctx context.Context, userID uint64) (*dto.UserProfileDTO, error) {
	key := consts.UserProfileKey + strconv.FormatUint(userID, 10)
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "profile cache read failed", "user_id", userID, "err", err)
	}
	if value != "" {
		profile := &dto.UserProfileDTO{}
		if err = json.Unmarshal([]byte(value), profile); err == nil {
			return profile, nil
		}
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	stats, err := s.userRepo.GetUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &dto.UserProfileDTO{}
	if err = copier.Copy(profile, user); err != nil {
		return nil, err
	}
	if err = copier.Copy(profile, stats); err != nil {
		return nil, err
	}

	if jsonStr, err := json.Marshal(profile); err == nil {
		_ = redis.SetWithExpiration(ctx, key, string(jsonStr), profileCacheTTL)
	}
	return profile, nil
}

func (s *UserServiceImpl) GetBatchInfo(ctx context.Context, viewerID uint64, ids []uint64) (*dto.UserBatchInfoDTO, error) {
	if err := checkBatch(len(ids), consts.MaxBatchSize); err != nil {
		return nil, err
	}
	result := &dto.UserBatchInfoDTO{Users: make(map[uint64]*dto.UserProfileDTO, len(ids))}
	if len(ids) == 0 {
		return result, nil
	}

	users, err := s.userRepo.GetUserByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	following := map[uint64]struct{}{}
	if viewerID != 0 {
		followed, err := s.followRepo.GetFollowingAmong(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range followed {
			following[id] = struct{}{}
		}
	}

	profiles := make([]*dto.UserProfileDTO, len(users))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, user := range users {
		g.Go(func() error {
			stats, err := s.userRepo.GetUserStats(gCtx, user.ID)
			if err != nil {
				return err
			}
			p := &dto.UserProfileDTO{}
			_ = copier.Copy(p, user)
			_ = copier.Copy(p, stats)
			_, p.IsFollowing = following[user.ID]
			profiles[i] = p
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	for _, p := range profiles {
		result.Users[p.ID] = p
	}
	return result, nil
}

func (s *UserServiceImpl) indexUser(ctx context.Context, user *model.User) {
	if s.searchRepo == nil {
		return
	}
	doc := &es.UserES{}
	_ = copier.Copy(doc, user)
	if err := s.searchRepo.IndexUser(ctx, doc, user.UpdatedAt.UnixNano()); err != nil {
		log.WarnContext(ctx, "index user failed", "user_id", user.ID, "err", err)
	}
}
