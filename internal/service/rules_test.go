package service

import (
	"Lokiz/internal/model"
	"errors"
	"testing"
	"time"
)

func videosBy(authors ...uint64) []*model.Video {
	out := make([]*model.Video, len(authors))
	for i, a := range authors {
		out[i] = &model.Video{ID: uint64(100 - i), UserID: a}
	}
	return out
}

func authorsOf(videos []*model.Video) []uint64 {
	out := make([]uint64, len(videos))
	for i, v := range videos {
		out[i] = v.UserID
	}
	return out
}

func equalIDs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDiversify(t *testing.T) {
	cases := []struct {
		name string
		pool []uint64
		size int
		want []uint64
	}{
		{"alternating kept", []uint64{1, 1, 2, 2, 3}, 3, []uint64{1, 2, 3}},
		{"backfill from skipped", []uint64{1, 1, 1, 2}, 4, []uint64{1, 2, 1, 1}},
		{"single author", []uint64{7, 7, 7}, 2, []uint64{7, 7}},
		{"pool smaller than page", []uint64{1, 2}, 5, []uint64{1, 2}},
		{"empty", nil, 3, []uint64{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := authorsOf(diversify(videosBy(c.pool...), c.size))
			if !equalIDs(got, c.want) {
				t.Fatalf("diversify(%v, %d) = %v, want %v", c.pool, c.size, got, c.want)
			}
		})
	}
}

func TestDiversifyNoAdjacentAuthors(t *testing.T) {
	pool := videosBy(1, 1, 1, 2, 2, 3, 3, 3, 4)
	kept := diversify(pool, 4)
	for i := 1; i < len(kept); i++ {
		if kept[i].UserID == kept[i-1].UserID {
			t.Fatalf("adjacent videos by author %d: %v", kept[i].UserID, authorsOf(kept))
		}
	}
}

func TestCanClaimDaily(t *testing.T) {
	last := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	cases := []struct {
		now  time.Time
		want bool
	}{
		{time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC), false},
		{time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC), true},
	}
	for _, c := range cases {
		if got := canClaimDaily(&last, c.now); got != c.want {
			t.Errorf("canClaimDaily(%v, %v) = %v, want %v", last, c.now, got, c.want)
		}
	}
	if !canClaimDaily(nil, last) {
		t.Fatal("first claim must be allowed")
	}
}

func TestDailyClaimError(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	err := NewDailyClaimError(now, nextDailyClaim(now))
	if !errors.Is(err, ErrDailyAlreadyClaimed) {
		t.Fatalf("unexpected error chain: %v", err)
	}
	var dce *DailyClaimError
	if !errors.As(err, &dce) || dce.HoursRemaining != 9 {
		t.Fatalf("hours remaining = %+v", dce)
	}
	if code, ok := CodeOf(err); !ok || code != BadRequest {
		t.Fatalf("code = %d", code)
	}
}

func TestPackages(t *testing.T) {
	p, ok := findPackage("basic_500")
	if !ok || p.Credits != 500 {
		t.Fatalf("findPackage = %+v, %v", p, ok)
	}
	if got := p.PricePerCredit(); got != 0.04 {
		t.Fatalf("price per credit = %v", got)
	}
	if _, ok = findPackage("free_lunch"); ok {
		t.Fatal("unknown package must not resolve")
	}
}

func TestTrendingScore(t *testing.T) {
	if got := trendingScore(10, 3); got != 7.9 {
		t.Fatalf("trendingScore = %v", got)
	}
	if got := trendingScore(1, 1); got != 1 {
		t.Fatalf("trendingScore = %v", got)
	}
}

func TestCheckRange(t *testing.T) {
	cases := []struct {
		start, end float64
		duration   int
		want       error
	}{
		{0, 10, 30, nil},
		{2.5, 4, 0, nil},
		{5, 5, 30, ErrRangeInvalid},
		{-1, 3, 30, ErrRangeInvalid},
		{0, 10.5, 30, ErrRangeInvalid},
		{25, 31, 30, ErrTimestampOutOfRange},
	}
	for _, c := range cases {
		if got := checkRange(c.start, c.end, c.duration); got != c.want {
			t.Errorf("checkRange(%v, %v, %d) = %v, want %v", c.start, c.end, c.duration, got, c.want)
		}
	}
}

func TestMediaFragment(t *testing.T) {
	if got := mediaFragment("https://cdn/v.mp4", 2.5); got != "https://cdn/v.mp4#t=2.5" {
		t.Fatalf("got %q", got)
	}
	if got := mediaFragment("https://cdn/v.mp4", 1, 4.25); got != "https://cdn/v.mp4#t=1,4.25" {
		t.Fatalf("got %q", got)
	}
}

func TestNotifyOfSelf(t *testing.T) {
	target := uint64(9)
	if n := notifyOf(1, 1, model.NotificationLike, &target); n != nil {
		t.Fatal("self notification must be suppressed")
	}
	n := notifyOf(2, 1, model.NotificationLike, &target)
	if n == nil || n.UserID != 2 || n.ActorID != 1 || *n.TargetID != 9 {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestBatchLimit(t *testing.T) {
	if err := checkBatch(100, 100); err != nil {
		t.Fatal(err)
	}
	err := checkBatch(101, 100)
	code, _ := CodeOf(err)
	if !errors.Is(err, ErrBatchTooLarge) || code != BadRequest {
		t.Fatalf("unexpected %v", err)
	}
}
