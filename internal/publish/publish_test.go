package publish

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/artemshloyda/printvariants/internal/config"
	"github.com/artemshloyda/printvariants/internal/product"
)

var files = []string{
	"/out/01-01-2025/aurora-7-8228x6260.jpg",
	"/out/01-01-2025/aurora-7-6840x5400.jpg",
	"/out/01-01-2025/aurora-7-mockup-826x1063.jpg",
	"/out/01-01-2025/aurora-7-mockup-cropped-1200x1600.jpg",
}

func TestFindRendition(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
		ok     bool
	}{
		{"8228x6260", files[0], true},
		{"mockup-cropped-1200x1600", files[3], true},
		{"1200x1600", "", false},
		{"4500x3600", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			got, ok := FindRendition(files, tt.suffix)
			if got != tt.want || ok != tt.ok {
				t.Errorf("FindRendition(%q) = %q, %v; want %q, %v", tt.suffix, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPrimaryAndMockups(t *testing.T) {
	if got, ok := PrimaryRendition(product.Blanket, files); !ok || got != files[0] {
		t.Errorf("PrimaryRendition() = %q, %v", got, ok)
	}

	want := []string{files[2], files[3]}
	if got := Mockups(product.Blanket, false, files); !reflect.DeepEqual(got, want) {
		t.Errorf("Mockups() = %v, want %v", got, want)
	}
}

func TestObjectKey(t *testing.T) {
	got := ObjectKey(product.WovenBlanket, "01-01-2025", "aurora-7-9000x7500.jpg")
	if want := "woven-blanket/01-01-2025/aurora-7-9000x7500.jpg"; got != want {
		t.Errorf("ObjectKey() = %q, want %q", got, want)
	}
}

func TestNewMirror(t *testing.T) {
	if _, err := NewMirror(config.MinIOConfig{}, zerolog.Nop()); !errors.Is(err, ErrDisabled) {
		t.Errorf("NewMirror(empty) error = %v, want ErrDisabled", err)
	}

	m, err := NewMirror(config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "renders"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewMirror() error = %v", err)
	}
	if m.bucket != "renders" {
		t.Errorf("bucket = %q", m.bucket)
	}
}
