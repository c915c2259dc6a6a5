package service

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/util"
	"context"
	"testing"
)

func TestFeedPageCursorOnlyWhenMore(t *testing.T) {
	s := NewFeedService(nil, nil, nil, &fakeUserRepo{}, &fakeGlitchRepo{}).(*FeedServiceImpl)
	videos := []*model.Video{{ID: 30, UserID: 1}, {ID: 20, UserID: 2}, {ID: 10, UserID: 3}}

	full, err := s.page(context.Background(), videos, 3, dto.FeedForYou)
	if err != nil {
		t.Fatal(err)
	}
	if !full.HasMore || full.NextCursor == nil || *full.NextCursor != util.EncodeCursor(10) {
		t.Fatalf("full page = %+v", full)
	}

	short, err := s.page(context.Background(), videos[:2], 3, dto.FeedForYou)
	if err != nil {
		t.Fatal(err)
	}
	if short.HasMore || short.NextCursor != nil || short.Total != 2 {
		t.Fatalf("short page = %+v", short)
	}

	empty, err := s.page(context.Background(), nil, 3, dto.FeedFollowing)
	if err != nil {
		t.Fatal(err)
	}
	if empty.HasMore || empty.NextCursor != nil || len(empty.Videos) != 0 {
		t.Fatalf("empty page = %+v", empty)
	}
}
