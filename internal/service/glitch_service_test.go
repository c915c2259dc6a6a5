package service

import (
	"Lokiz/internal/model"
	"Lokiz/internal/repository"
	"context"
	"errors"
	"testing"
	"time"
)

type fakeGlitchRepo struct {
	repository.GlitchRepo
	edges []*model.VideoGlitch
}

func (f *fakeGlitchRepo) GetSourceEdge(_ context.Context, glitchVideoID uint64) (*model.VideoGlitch, error) {
	for _, e := range f.edges {
		if e.GlitchVideoID == glitchVideoID {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeGlitchRepo) CountByOriginalIds(_ context.Context, ids []uint64) (map[uint64]int, error) {
	counts := make(map[uint64]int, len(ids))
	for _, e := range f.edges {
		counts[e.OriginalVideoID]++
	}
	return counts, nil
}

func (f *fakeGlitchRepo) GetSourceEdgesByGlitchIds(_ context.Context, ids []uint64) (map[uint64]*model.VideoGlitch, error) {
	out := make(map[uint64]*model.VideoGlitch, len(ids))
	for _, e := range f.edges {
		out[e.GlitchVideoID] = e
	}
	return out, nil
}

func newGlitchService(original *model.Video) *GlitchServiceImpl {
	derived := &model.Video{ID: 20, UserID: 7, Status: model.VideoStatusCompleted, IsPublic: true}
	videos := &fakeVideoRepo{videos: map[uint64]*model.Video{derived.ID: derived, original.ID: original}}
	glitches := &fakeGlitchRepo{edges: []*model.VideoGlitch{
		{ID: 1, OriginalVideoID: original.ID, GlitchVideoID: derived.ID, GlitchType: model.GlitchTypeAnimate},
	}}
	users := &fakeUserRepo{users: map[uint64]*model.User{
		4: {ID: 4, Username: "author"},
		7: {ID: 7, Username: "remixer"},
	}}
	return NewGlitchService(glitches, videos, users).(*GlitchServiceImpl)
}

func TestGetSourceVisibleOriginal(t *testing.T) {
	s := newGlitchService(&model.Video{ID: 10, UserID: 4, Status: model.VideoStatusCompleted, IsPublic: true})
	out, err := s.GetSource(context.Background(), 9, 20)
	if err != nil {
		t.Fatal(err)
	}
	if out.OriginalVideoID == nil || *out.OriginalVideoID != 10 || *out.GlitchType != model.GlitchTypeAnimate {
		t.Fatalf("source = %+v", out)
	}
	if out.OriginalVideo == nil || out.OriginalVideo.ID != 10 || out.OriginalVideo.GlitchCount != 1 {
		t.Fatalf("original video = %+v", out.OriginalVideo)
	}
}

func TestGetSourceRedactsHiddenOriginal(t *testing.T) {
	deletedAt := time.Now()
	cases := map[string]*model.Video{
		"private": {ID: 10, UserID: 4, Status: model.VideoStatusCompleted},
		"deleted": {ID: 10, UserID: 4, Status: model.VideoStatusCompleted, IsPublic: true, DeletedAt: &deletedAt},
	}
	for name, original := range cases {
		t.Run(name, func(t *testing.T) {
			s := newGlitchService(original)
			out, err := s.GetSource(context.Background(), 9, 20)
			if err != nil {
				t.Fatal(err)
			}
			if out.OriginalVideo != nil {
				t.Fatalf("original video leaked: %+v", out.OriginalVideo)
			}
			if out.OriginalVideoID == nil || *out.OriginalVideoID != 10 {
				t.Fatalf("original_video_id = %v", out.OriginalVideoID)
			}
		})
	}
}

func TestGetSourceOwnerSeesPrivateOriginal(t *testing.T) {
	s := newGlitchService(&model.Video{ID: 10, UserID: 4, Status: model.VideoStatusCompleted})
	out, err := s.GetSource(context.Background(), 4, 20)
	if err != nil {
		t.Fatal(err)
	}
	if out.OriginalVideo == nil || out.OriginalVideo.ID != 10 {
		t.Fatalf("source = %+v", out)
	}
}

func TestGetSourceWithoutEdge(t *testing.T) {
	s := newGlitchService(&model.Video{ID: 10, UserID: 4, Status: model.VideoStatusCompleted, IsPublic: true})
	out, err := s.GetSource(context.Background(), 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if out.GlitchVideoID != 10 || out.OriginalVideoID != nil || out.OriginalVideo != nil {
		t.Fatalf("source = %+v", out)
	}
	if _, err = s.GetSource(context.Background(), 0, 99); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("missing video err = %v", err)
	}
}
