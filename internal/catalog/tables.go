package catalog

import "github.com/artemshloyda/printvariants/internal/product"

// groupPrint - печатные full-bleed варианты, которые генерируются одним пакетом.
const groupPrint = "print"

func contain(name string, w, h int) VariantSpec {
	return VariantSpec{Name: name, Width: w, Height: h, Fit: FitContain, Position: PositionCenter}
}

func cover(name string, w, h int) VariantSpec {
	return VariantSpec{Name: name, Width: w, Height: h, Fit: FitCover, Position: PositionCenter}
}

func printVariant(name string, w, h, rotate int) VariantSpec {
	v := cover(name, w, h)
	v.Rotate = rotate
	v.Group = groupPrint
	return v
}

func rotated(name string, w, h int) VariantSpec {
	v := contain(name, w, h)
	v.Rotate = 90
	return v
}

func cropped(name string, canvasW, canvasH int, r Rect) VariantSpec {
	v := cover(name, canvasW, canvasH)
	v.Extract = &r
	return v
}

// entries - таблица каталога. Суффиксы являются контрактом с кодом загрузки
// листингов, который ищет файлы по подстроке имени.
var entries = map[product.Type]Entry{
	product.DeskMat: {
		Standard: Set{
			cover("9450x4650", 9450, 4650),
			contain("1500x1500", 1500, 1500),
			contain("1000x1000", 1000, 1000),
			contain("570x570", 570, 570),
		},
	},

	product.Pillow: {
		Standard: Set{
			contain("4050x4050", 4050, 4050),
			contain("mockup-1000x1000", 1000, 1000),
		},
	},

	product.Blanket: {
		Standard: Set{
			printVariant("8228x6260", 8228, 6260, 0),
			printVariant("6840x5400", 6840, 5400, 0),
			printVariant("4500x3600", 4500, 3600, 0),
			contain("mockup-826x1063", 826, 1063),
			cropped("mockup-cropped-1200x1600", 2400, 1800, Rect{Left: 600, Top: 100, Width: 1200, Height: 1600}),
		},
		// Портретный исходник приходит уже повёрнутым, поэтому печатные
		// варианты доворачиваются на 270 и получают транспонированные размеры.
		Portrait: Set{
			printVariant("8228x6260", 6260, 8228, 270),
			printVariant("6840x5400", 5400, 6840, 270),
			printVariant("4500x3600", 3600, 4500, 270),
			contain("mockup-826x1063", 826, 1063),
			rotated("mockup-rotated-1063x826", 1063, 826),
			cropped("mockup-cropped-1200x1600", 1800, 2400, Rect{Left: 300, Top: 400, Width: 1200, Height: 1600}),
		},
	},

	// Смещения вырезки у веток отличаются (7200 и 11000 на разных холстах):
	// дизайн лежит на разных сторонах холста. Значения взяты как есть.
	product.WovenBlanket: {
		Standard: Set{
			printVariant("9000x7500", 9000, 7500, 0),
			printVariant("6000x5000", 6000, 5000, 0),
			printVariant("3600x3000", 3600, 3000, 0),
			contain("mockup-1000x1000", 1000, 1000),
			contain("mockup-1500x1500", 1500, 1500),
			contain("mockup-2000x2000", 2000, 2000),
			rotated("mockup-rotated-1250x1000", 1250, 1000),
			cropped("mockup-cropped-1800x2400", 12000, 9000, Rect{Left: 7200, Top: 3000, Width: 1800, Height: 2400}),
			cropped("mockup-cropped-2400x1800", 12000, 9000, Rect{Left: 7200, Top: 3000, Width: 2400, Height: 1800}),
		},
		Portrait: Set{
			printVariant("9000x7500", 7500, 9000, 270),
			printVariant("6000x5000", 5000, 6000, 270),
			printVariant("3600x3000", 3000, 3600, 270),
			contain("mockup-1000x1000", 1000, 1000),
			contain("mockup-1500x1500", 1500, 1500),
			contain("mockup-2000x2000", 2000, 2000),
			rotated("mockup-rotated-1000x1250", 1000, 1250),
			cropped("mockup-cropped-1800x2400", 14800, 12000, Rect{Left: 11000, Top: 4000, Width: 1800, Height: 2400}),
			cropped("mockup-cropped-2400x1800", 14800, 12000, Rect{Left: 11000, Top: 4000, Width: 2400, Height: 1800}),
		},
	},
}
