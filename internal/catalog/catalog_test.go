package catalog

import (
	"reflect"
	"testing"

	"github.com/artemshloyda/printvariants/internal/product"
)

func names(s Set) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		out = append(out, v.Name)
	}
	return out
}

func TestEveryProductHasValidStandardSet(t *testing.T) {
	for _, pt := range product.All() {
		t.Run(string(pt), func(t *testing.T) {
			set := VariantsFor(pt, false)
			if err := set.Validate(); err != nil {
				t.Fatalf("standard set invalid: %v", err)
			}
			if HasPortrait(pt) != pt.Info().HasPortrait {
				t.Errorf("HasPortrait = %v, product info says %v", HasPortrait(pt), pt.Info().HasPortrait)
			}
		})
	}
}

func TestPortraitBranches(t *testing.T) {
	for _, pt := range []product.Type{product.Blanket, product.WovenBlanket} {
		t.Run(string(pt), func(t *testing.T) {
			std := VariantsFor(pt, false)
			por := VariantsFor(pt, true)
			if err := std.Validate(); err != nil {
				t.Errorf("standard: %v", err)
			}
			if err := por.Validate(); err != nil {
				t.Errorf("portrait: %v", err)
			}
			if reflect.DeepEqual(std, por) {
				t.Error("portrait branch must differ from standard")
			}
		})
	}
}

func TestVariantsFor_NoPortraitFallsBack(t *testing.T) {
	if !reflect.DeepEqual(VariantsFor(product.DeskMat, true), VariantsFor(product.DeskMat, false)) {
		t.Error("desk mat portrait request should return the standard set")
	}
	if VariantsFor(product.Type("mug"), false) != nil {
		t.Error("unknown product should return nil")
	}
}

func TestVariantsFor_ReturnsCopy(t *testing.T) {
	a := VariantsFor(product.Blanket, false)
	a[0].Width = 1
	a[4].Extract.Left = 1

	b := VariantsFor(product.Blanket, false)
	if b[0].Width != 8228 {
		t.Errorf("catalogue mutated through returned slice: width = %d", b[0].Width)
	}
	if b[4].Extract.Left != 600 {
		t.Errorf("catalogue mutated through returned extract: left = %d", b[4].Extract.Left)
	}
}

func TestSuffixVocabulary(t *testing.T) {
	tests := []struct {
		product  product.Type
		portrait bool
		want     []string
	}{
		{product.DeskMat, false, []string{"9450x4650", "1500x1500", "1000x1000", "570x570"}},
		{product.Pillow, false, []string{"4050x4050", "mockup-1000x1000"}},
		{product.Blanket, false, []string{
			"8228x6260", "6840x5400", "4500x3600", "mockup-826x1063", "mockup-cropped-1200x1600",
		}},
		{product.Blanket, true, []string{
			"8228x6260", "6840x5400", "4500x3600", "mockup-826x1063",
			"mockup-rotated-1063x826", "mockup-cropped-1200x1600",
		}},
		{product.WovenBlanket, false, []string{
			"9000x7500", "6000x5000", "3600x3000",
			"mockup-1000x1000", "mockup-1500x1500", "mockup-2000x2000",
			"mockup-rotated-1250x1000", "mockup-cropped-1800x2400", "mockup-cropped-2400x1800",
		}},
		{product.WovenBlanket, true, []string{
			"9000x7500", "6000x5000", "3600x3000",
			"mockup-1000x1000", "mockup-1500x1500", "mockup-2000x2000",
			"mockup-rotated-1000x1250", "mockup-cropped-1800x2400", "mockup-cropped-2400x1800",
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.product), func(t *testing.T) {
			got := names(VariantsFor(tt.product, tt.portrait))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("suffixes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlanketPortraitTransposesPrintSizes(t *testing.T) {
	std := VariantsFor(product.Blanket, false)[0]
	por := VariantsFor(product.Blanket, true)[0]

	if std.Name != por.Name {
		t.Fatalf("primary suffix differs: %s vs %s", std.Name, por.Name)
	}
	if std.Width != por.Height || std.Height != por.Width {
		t.Errorf("portrait %dx%d is not the transpose of %dx%d", por.Width, por.Height, std.Width, std.Height)
	}
	if std.Rotate != 0 || por.Rotate != 270 {
		t.Errorf("rotate: standard %d, portrait %d; want 0 and 270", std.Rotate, por.Rotate)
	}
}

// Смещения вырезки тканого пледа асимметричны; тест фиксирует текущие значения.
func TestWovenCroppedOffsetsPinned(t *testing.T) {
	tests := []struct {
		portrait bool
		canvasW  int
		canvasH  int
		left     int
		top      int
	}{
		{false, 12000, 9000, 7200, 3000},
		{true, 14800, 12000, 11000, 4000},
	}

	for _, tt := range tests {
		for _, v := range VariantsFor(product.WovenBlanket, tt.portrait) {
			if v.Extract == nil {
				continue
			}
			if v.Width != tt.canvasW || v.Height != tt.canvasH {
				t.Errorf("portrait=%v %s canvas %dx%d, want %dx%d", tt.portrait, v.Name, v.Width, v.Height, tt.canvasW, tt.canvasH)
			}
			if v.Extract.Left != tt.left || v.Extract.Top != tt.top {
				t.Errorf("portrait=%v %s offset (%d,%d), want (%d,%d)", tt.portrait, v.Name, v.Extract.Left, v.Extract.Top, tt.left, tt.top)
			}
		}
	}
}

func TestPrimaryAndMockupSuffixes(t *testing.T) {
	if got := PrimarySuffix(product.DeskMat); got != "9450x4650" {
		t.Errorf("PrimarySuffix(desk-mat) = %q", got)
	}
	if got := PrimarySuffix(product.Blanket); got != "8228x6260" {
		t.Errorf("PrimarySuffix(blanket) = %q", got)
	}
	if got := MockupSuffixes(product.DeskMat, false); len(got) != 0 {
		t.Errorf("desk mat has no mockups, got %v", got)
	}
	if got := MockupSuffixes(product.WovenBlanket, true); len(got) != 6 {
		t.Errorf("woven portrait mockups = %d, want 6", len(got))
	}
}

func TestSet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		set     Set
		wantErr bool
	}{
		{"empty", Set{}, true},
		{"duplicate", Set{contain("a", 10, 10), contain("a", 20, 20)}, true},
		{"zero size", Set{contain("a", 0, 10)}, true},
		{"odd rotation", Set{{Name: "a", Width: 10, Height: 10, Rotate: 45}}, true},
		{"extract outside", Set{cropped("a", 100, 100, Rect{Left: 50, Top: 0, Width: 60, Height: 10})}, true},
		{"ok", Set{contain("a", 10, 10), cropped("b", 100, 100, Rect{Left: 40, Top: 0, Width: 60, Height: 100})}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOutputSize(t *testing.T) {
	v := cropped("c", 2400, 1800, Rect{Left: 600, Top: 100, Width: 1200, Height: 1600})
	if w, h := v.OutputSize(); w != 1200 || h != 1600 {
		t.Errorf("OutputSize() = %dx%d, want 1200x1600", w, h)
	}
	v = contain("p", 570, 570)
	if w, h := v.OutputSize(); w != 570 || h != 570 {
		t.Errorf("OutputSize() = %dx%d, want 570x570", w, h)
	}
}
