// Package product описывает типы товаров и их ориентации.
package product

import (
	"fmt"
	"sort"
	"strings"
)

// Type определяет тип товара.
type Type string

const (
	// DeskMat - коврик для стола.
	DeskMat Type = "desk-mat"
	// Pillow - подушка.
	Pillow Type = "pillow"
	// Blanket - плед.
	Blanket Type = "blanket"
	// WovenBlanket - тканый плед.
	WovenBlanket Type = "woven-blanket"
)

// Orientation определяет ветку каталога: стандартная или портретная.
type Orientation string

const (
	// OrientationAuto - определить ориентацию по имени файла.
	OrientationAuto Orientation = ""
	// OrientationStandard - стандартная (альбомная) ветка.
	OrientationStandard Orientation = "standard"
	// OrientationPortrait - портретная ветка.
	OrientationPortrait Orientation = "portrait"
)

// PortraitMarker - подстрока в имени файла, помечающая портретный исходник.
const PortraitMarker = "_portrait"

// Info содержит метаданные типа товара.
type Info struct {
	// Title - человекочитаемое название.
	Title string

	// Dir - имя директории товара относительно корня.
	Dir string

	// Description - описание листинга по умолчанию.
	Description string

	// HasPortrait - есть ли у товара портретная ветка каталога.
	HasPortrait bool
}

// table - единственный источник метаданных по типам товаров.
var table = map[Type]Info{
	DeskMat: {
		Title:       "Desk Mat",
		Dir:         "desk-mats",
		Description: "Large desk mat with a smooth cloth surface and non-slip rubber base.",
	},
	Pillow: {
		Title:       "Pillow",
		Dir:         "pillows",
		Description: "Soft square throw pillow, printed on both sides.",
	},
	Blanket: {
		Title:       "Blanket",
		Dir:         "blankets",
		Description: "Cozy velveteen plush blanket with an all-over print.",
		HasPortrait: true,
	},
	WovenBlanket: {
		Title:       "Woven Blanket",
		Dir:         "woven-blankets",
		Description: "Jacquard woven cotton blanket with fringed edges.",
		HasPortrait: true,
	},
}

// All возвращает все известные типы товаров в стабильном порядке.
func All() []Type {
	types := make([]Type, 0, len(table))
	for t := range table {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Parse преобразует строку из CLI или конфигурации в Type.
// Допускаются подчёркивания и регистр: "Desk_Mat" -> desk-mat.
func Parse(s string) (Type, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", "-")
	norm = strings.ReplaceAll(norm, " ", "-")
	t := Type(norm)
	if _, ok := table[t]; !ok {
		return "", fmt.Errorf("неизвестный тип товара: %q (доступны: %s)", s, strings.Join(Names(), ", "))
	}
	return t, nil
}

// Names возвращает имена всех типов товаров.
func Names() []string {
	var names []string
	for _, t := range All() {
		names = append(names, string(t))
	}
	return names
}

// Valid проверяет, известен ли тип товара.
func (t Type) Valid() bool {
	_, ok := table[t]
	return ok
}

// Info возвращает метаданные типа товара.
func (t Type) Info() Info {
	return table[t]
}

// String реализует fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// ParseOrientation преобразует строку в Orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case OrientationAuto, OrientationStandard, OrientationPortrait:
		return o, nil
	case "auto":
		return OrientationAuto, nil
	default:
		return "", fmt.Errorf("неизвестная ориентация: %q (доступны: auto, standard, portrait)", s)
	}
}

// OrientationOf определяет ориентацию по имени файла.
// Оставлено для совместимости со старыми именами вида "sunset_portrait".
func OrientationOf(name string) Orientation {
	if strings.Contains(name, PortraitMarker) {
		return OrientationPortrait
	}
	return OrientationStandard
}

// Resolve возвращает явную ориентацию, а для OrientationAuto - ориентацию по имени.
func (o Orientation) Resolve(name string) Orientation {
	if o == OrientationAuto {
		return OrientationOf(name)
	}
	return o
}

// IsPortrait возвращает true для портретной ветки.
func (o Orientation) IsPortrait() bool {
	return o == OrientationPortrait
}
