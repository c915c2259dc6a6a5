package util

import (
	"bytes"
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/disintegration/imaging"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    []string
	}{
		{"empty", "", []string{}},
		{"lowercase and dedup", "Hello #Dance and #dance #Fun", []string{"dance", "fun"}},
		{"word chars only", "#glitch_art! #2024, #a-b", []string{"glitch_art", "2024", "a"}},
		{"no tags", "just words", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractHashtags(tt.caption)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExtractHashtags(%q) = %v, want %v", tt.caption, got, tt.want)
			}
		})
	}
}

func TestDiffTags(t *testing.T) {
	added, removed := DiffTags([]string{"a", "b", "c"}, []string{"b", "d"})
	if !reflect.DeepEqual(added, []string{"d"}) {
		t.Fatalf("added = %v", added)
	}
	if !reflect.DeepEqual(removed, []string{"a", "c"}) {
		t.Fatalf("removed = %v", removed)
	}

	added, removed = DiffTags(nil, nil)
	if len(added) != 0 || len(removed) != 0 {
		t.Fatalf("empty diff expected, got %v %v", added, removed)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	if EncodeCursor(0) != "" {
		t.Fatal("zero id must encode to empty cursor")
	}
	c := EncodeCursor(981)
	id, err := DecodeCursor(c)
	if err != nil || id != 981 {
		t.Fatalf("DecodeCursor(%q) = %d, %v", c, id, err)
	}

	id, err = DecodeCursor("")
	if err != nil || id != 0 {
		t.Fatalf("empty cursor = %d, %v", id, err)
	}
	id, err = DecodeCursor("77")
	if err != nil || id != 77 {
		t.Fatalf("decimal cursor = %d, %v", id, err)
	}
	if _, err = DecodeCursor("%%%"); err == nil {
		t.Fatal("garbage cursor must fail")
	}
}

func TestUniqueUint64(t *testing.T) {
	got := UniqueUint64([]uint64{3, 1, 3, 2, 1})
	if !reflect.DeepEqual(got, []uint64{3, 1, 2}) {
		t.Fatalf("UniqueUint64 = %v", got)
	}
}

func TestParseUint64(t *testing.T) {
	if _, ok := ParseUint64("0"); ok {
		t.Fatal("0 must be rejected")
	}
	if _, ok := ParseUint64("abc"); ok {
		t.Fatal("non-numeric must be rejected")
	}
	if id, ok := ParseUint64("12"); !ok || id != 12 {
		t.Fatalf("ParseUint64(12) = %d, %v", id, ok)
	}
}

func TestEncodeFrameFitsLongEdge(t *testing.T) {
	src := imaging.New(2160, 1080, color.NRGBA{R: 200, A: 255})
	out, err := EncodeFrame(src)
	if err != nil {
		t.Fatal(err)
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 1080 || b.Dy() != 540 {
		t.Fatalf("frame size = %dx%d, want 1080x540", b.Dx(), b.Dy())
	}
}
