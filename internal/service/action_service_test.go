package service

import (
	"Lokiz/internal/model"
	"Lokiz/internal/repository"
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
)

type fakeActionRepo struct {
	repository.VideoActionRepo
	likes map[[2]uint64]bool
}

func (f *fakeActionRepo) CreateLike(_ context.Context, like *model.Like, _ *model.Notification) error {
	key := [2]uint64{like.UserID, like.VideoID}
	if f.likes[key] {
		return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	f.likes[key] = true
	return nil
}

func (f *fakeActionRepo) DeleteLike(_ context.Context, userID, videoID uint64) (bool, error) {
	key := [2]uint64{userID, videoID}
	if !f.likes[key] {
		return false, nil
	}
	delete(f.likes, key)
	return true, nil
}

func newActionService(likes map[[2]uint64]bool, videos ...*model.Video) (*ActionServiceImpl, *fakeActionRepo) {
	repo := &fakeActionRepo{likes: likes}
	vr := &fakeVideoRepo{videos: map[uint64]*model.Video{}}
	for _, v := range videos {
		vr.videos[v.ID] = v
	}
	return NewActionService(repo, vr, &fakeUserRepo{}, nil).(*ActionServiceImpl), repo
}

func TestUnlikeAbsentLike(t *testing.T) {
	s, _ := newActionService(map[[2]uint64]bool{})
	if err := s.Unlike(context.Background(), 2, 8); !errors.Is(err, ErrLikeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestUnlike(t *testing.T) {
	s, repo := newActionService(map[[2]uint64]bool{{2, 8}: true})
	if err := s.Unlike(context.Background(), 2, 8); err != nil {
		t.Fatal(err)
	}
	if repo.likes[[2]uint64{2, 8}] {
		t.Fatal("like still present")
	}
	if err := s.Unlike(context.Background(), 2, 8); !errors.Is(err, ErrLikeNotFound) {
		t.Fatalf("second unlike err = %v", err)
	}
}

func TestLikeDuplicateIsConflict(t *testing.T) {
	video := &model.Video{ID: 8, UserID: 4, Status: model.VideoStatusCompleted, IsPublic: true}
	s, _ := newActionService(map[[2]uint64]bool{{2, 8}: true}, video)
	if err := s.Like(context.Background(), 2, 8); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("err = %v", err)
	}
}

func TestLikePrivateVideoOfOtherUser(t *testing.T) {
	video := &model.Video{ID: 8, UserID: 4, Status: model.VideoStatusCompleted}
	s, repo := newActionService(map[[2]uint64]bool{}, video)
	if err := s.Like(context.Background(), 2, 8); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("err = %v", err)
	}
	if len(repo.likes) != 0 {
		t.Fatalf("likes = %v", repo.likes)
	}
}
