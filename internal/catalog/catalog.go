// Package catalog содержит статический каталог вариантов изображений по типам товаров.
package catalog

import (
	"fmt"
	"strings"

	"github.com/artemshloyda/printvariants/internal/product"
)

// Fit определяет поведение resize при несовпадении пропорций.
type Fit string

const (
	// FitNone - режим не задан, используется crop-to-fill (как FitCover).
	FitNone Fit = "none"
	// FitCover - заполнить холст целиком, обрезав лишнее вокруг Position.
	FitCover Fit = "cover"
	// FitContain - вписать в холст с сохранением пропорций, дополнив фоном.
	FitContain Fit = "contain"
)

// Position - точка привязки при обрезке или вписывании.
type Position string

const (
	PositionCenter    Position = "center"
	PositionNorth     Position = "north"
	PositionSouth     Position = "south"
	PositionEast      Position = "east"
	PositionWest      Position = "west"
	PositionNorthEast Position = "northeast"
	PositionNorthWest Position = "northwest"
	PositionSouthEast Position = "southeast"
	PositionSouthWest Position = "southwest"
)

// Rect - прямоугольник вырезки относительно холста после resize.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// VariantSpec описывает одно именованное правило преобразования.
type VariantSpec struct {
	// Name - суффикс имени выходного файла (например, "9450x4650").
	Name string

	// Width - ширина холста после resize.
	Width int

	// Height - высота холста после resize.
	Height int

	// Rotate - поворот по часовой стрелке в градусах, применяется до resize.
	Rotate int

	// Fit - режим resize.
	Fit Fit

	// Position - точка привязки (по умолчанию center).
	Position Position

	// Extract - вырезка из холста после resize (nil - без вырезки).
	Extract *Rect

	// Group - варианты с одинаковой непустой группой, идущие подряд,
	// обрабатываются одним параллельным пакетом.
	Group string
}

// OutputSize возвращает итоговые размеры выходного изображения.
func (v VariantSpec) OutputSize() (width, height int) {
	if v.Extract != nil {
		return v.Extract.Width, v.Extract.Height
	}
	return v.Width, v.Height
}

// IsMockup возвращает true для вариантов-мокапов.
func (v VariantSpec) IsMockup() bool {
	return strings.HasPrefix(v.Name, "mockup")
}

// Set - упорядоченный набор вариантов для одной ветки товара.
type Set []VariantSpec

// Entry - стандартная и портретная ветки каталога для товара.
type Entry struct {
	Standard Set
	Portrait Set
}

// VariantsFor возвращает копию набора вариантов для товара и ориентации.
// Если у товара нет портретной ветки, возвращается стандартная.
func VariantsFor(t product.Type, portrait bool) Set {
	e, ok := entries[t]
	if !ok {
		return nil
	}
	src := e.Standard
	if portrait && len(e.Portrait) > 0 {
		src = e.Portrait
	}
	out := make(Set, len(src))
	for i, v := range src {
		if v.Extract != nil {
			r := *v.Extract
			v.Extract = &r
		}
		out[i] = v
	}
	return out
}

// HasPortrait проверяет наличие портретной ветки.
func HasPortrait(t product.Type) bool {
	return len(entries[t].Portrait) > 0
}

// PrimarySuffix возвращает суффикс самого большого full-bleed варианта.
// По нему загрузка на маркетплейс находит печатный файл.
func PrimarySuffix(t product.Type) string {
	set := VariantsFor(t, false)
	if len(set) == 0 {
		return ""
	}
	return set[0].Name
}

// MockupSuffixes возвращает суффиксы мокапов ветки.
func MockupSuffixes(t product.Type, portrait bool) []string {
	var out []string
	for _, v := range VariantsFor(t, portrait) {
		if v.IsMockup() {
			out = append(out, v.Name)
		}
	}
	return out
}

// Validate проверяет инварианты набора.
func (s Set) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("пустой набор вариантов")
	}
	seen := make(map[string]bool, len(s))
	for _, v := range s {
		if v.Name == "" {
			return fmt.Errorf("вариант без имени")
		}
		if seen[v.Name] {
			return fmt.Errorf("дублирующийся суффикс %q", v.Name)
		}
		seen[v.Name] = true

		if v.Width <= 0 || v.Height <= 0 {
			return fmt.Errorf("%s: некорректный размер %dx%d", v.Name, v.Width, v.Height)
		}
		if v.Rotate%90 != 0 {
			return fmt.Errorf("%s: поворот должен быть кратен 90, получено %d", v.Name, v.Rotate)
		}
		if r := v.Extract; r != nil {
			if r.Left < 0 || r.Top < 0 || r.Width <= 0 || r.Height <= 0 ||
				r.Left+r.Width > v.Width || r.Top+r.Height > v.Height {
				return fmt.Errorf("%s: вырезка %+v выходит за холст %dx%d", v.Name, *r, v.Width, v.Height)
			}
		}
	}
	return nil
}
