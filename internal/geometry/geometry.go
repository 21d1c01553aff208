// Package geometry содержит чистые преобразования изображений: поворот, resize, вырезку и кодирование в JPEG.
package geometry

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/artemshloyda/printvariants/internal/catalog"
)

// ErrProcessing - ошибка декодирования, преобразования или кодирования.
// Такие ошибки не повторяются.
var ErrProcessing = errors.New("ошибка обработки изображения")

// Options содержит параметры кодирования и ресемплинга.
type Options struct {
	// Quality - качество JPEG (1-100).
	Quality int

	// Filter - имя фильтра ресемплинга (lanczos, catmullrom, linear, box, nearest).
	Filter string

	// Background - цвет полей для режима contain.
	Background color.Color
}

// DefaultOptions возвращает параметры по умолчанию.
func DefaultOptions() Options {
	return Options{
		Quality:    90,
		Filter:     "lanczos",
		Background: color.Black,
	}
}

// Processor выполняет преобразования по VariantSpec.
type Processor struct {
	opts   Options
	filter imaging.ResampleFilter
}

// New создаёт новый Processor. Незаданные поля берутся из DefaultOptions.
func New(opts Options) (*Processor, error) {
	def := DefaultOptions()
	if opts.Quality == 0 {
		opts.Quality = def.Quality
	}
	if opts.Quality < 1 || opts.Quality > 100 {
		return nil, fmt.Errorf("качество должно быть от 1 до 100, получено: %d", opts.Quality)
	}
	if opts.Filter == "" {
		opts.Filter = def.Filter
	}
	if opts.Background == nil {
		opts.Background = def.Background
	}

	filter, err := ParseFilter(opts.Filter)
	if err != nil {
		return nil, err
	}

	return &Processor{opts: opts, filter: filter}, nil
}

// Options возвращает действующие параметры.
func (p *Processor) Options() Options {
	return p.opts
}

// Process преобразует исходный буфер по спецификации варианта.
// Порядок фиксирован: rotate -> resize -> extract -> encode.
func (p *Processor) Process(buf []byte, spec catalog.VariantSpec) ([]byte, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("%w: некорректный размер %dx%d", ErrProcessing, spec.Width, spec.Height)
	}

	src, err := Decode(buf)
	if err != nil {
		return nil, err
	}

	img, err := p.Transform(src, spec)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.JPEG, imaging.JPEGQuality(p.opts.Quality)); err != nil {
		return nil, fmt.Errorf("%w: кодирование JPEG: %w", ErrProcessing, err)
	}
	return out.Bytes(), nil
}

// Transform применяет геометрию варианта к уже декодированному изображению.
func (p *Processor) Transform(src image.Image, spec catalog.VariantSpec) (image.Image, error) {
	img, err := rotateClockwise(src, spec.Rotate)
	if err != nil {
		return nil, err
	}

	switch spec.Fit {
	case catalog.FitContain:
		img = p.contain(img, spec.Width, spec.Height, spec.Position)
	case catalog.FitCover, catalog.FitNone, "":
		img = imaging.Fill(img, spec.Width, spec.Height, anchorOf(spec.Position), p.filter)
	default:
		return nil, fmt.Errorf("%w: неизвестный режим fit %q", ErrProcessing, spec.Fit)
	}

	if r := spec.Extract; r != nil {
		b := img.Bounds()
		rect := image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height)
		if r.Width <= 0 || r.Height <= 0 || !rect.In(image.Rect(0, 0, b.Dx(), b.Dy())) {
			return nil, fmt.Errorf("%w: вырезка %+v выходит за холст %dx%d", ErrProcessing, *r, b.Dx(), b.Dy())
		}
		img = imaging.Crop(img, rect)
	}

	return img, nil
}

// contain вписывает изображение в холст w x h с сохранением пропорций.
// В отличие от imaging.Fit допускает увеличение.
func (p *Processor) contain(img image.Image, w, h int, pos catalog.Position) image.Image {
	sw, sh := img.Bounds().Dx(), img.Bounds().Dy()

	nw, nh := w, h
	if sw*h > sh*w {
		nh = roundDiv(sh*w, sw)
	} else {
		nw = roundDiv(sw*h, sh)
	}
	nw = clamp(nw, 1, w)
	nh = clamp(nh, 1, h)

	resized := imaging.Resize(img, nw, nh, p.filter)
	if nw == w && nh == h {
		return resized
	}

	canvas := imaging.New(w, h, p.opts.Background)
	return imaging.Paste(canvas, resized, offset(w, h, nw, nh, pos))
}

// rotateClockwise поворачивает изображение по часовой стрелке.
// imaging поворачивает против часовой, поэтому 90 и 270 меняются местами.
func rotateClockwise(img image.Image, degrees int) (image.Image, error) {
	switch ((degrees % 360) + 360) % 360 {
	case 0:
		return img, nil
	case 90:
		return imaging.Rotate270(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate90(img), nil
	default:
		return nil, fmt.Errorf("%w: поворот на %d градусов не поддерживается", ErrProcessing, degrees)
	}
}

func anchorOf(pos catalog.Position) imaging.Anchor {
	switch pos {
	case catalog.PositionNorth:
		return imaging.Top
	case catalog.PositionSouth:
		return imaging.Bottom
	case catalog.PositionEast:
		return imaging.Right
	case catalog.PositionWest:
		return imaging.Left
	case catalog.PositionNorthEast:
		return imaging.TopRight
	case catalog.PositionNorthWest:
		return imaging.TopLeft
	case catalog.PositionSouthEast:
		return imaging.BottomRight
	case catalog.PositionSouthWest:
		return imaging.BottomLeft
	default:
		return imaging.Center
	}
}

// offset возвращает точку вставки изображения nw x nh в холст w x h.
func offset(w, h, nw, nh int, pos catalog.Position) image.Point {
	x, y := (w-nw)/2, (h-nh)/2
	switch anchorOf(pos) {
	case imaging.Top:
		y = 0
	case imaging.Bottom:
		y = h - nh
	case imaging.Left:
		x = 0
	case imaging.Right:
		x = w - nw
	case imaging.TopLeft:
		x, y = 0, 0
	case imaging.TopRight:
		x, y = w-nw, 0
	case imaging.BottomLeft:
		x, y = 0, h-nh
	case imaging.BottomRight:
		x, y = w-nw, h-nh
	}
	return image.Pt(x, y)
}

func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Decode декодирует буфер без учёта EXIF-ориентации, чтобы результат
// зависел только от пикселей.
func Decode(buf []byte) (image.Image, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: пустой буфер", ErrProcessing)
	}
	img, err := imaging.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: декодирование: %w", ErrProcessing, err)
	}
	return img, nil
}

// Dimensions возвращает размеры изображения без полного декодирования.
func Dimensions(buf []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: чтение заголовка: %w", ErrProcessing, err)
	}
	return cfg.Width, cfg.Height, nil
}

// ParseFilter возвращает фильтр ресемплинга по имени.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lanczos":
		return imaging.Lanczos, nil
	case "catmullrom":
		return imaging.CatmullRom, nil
	case "linear":
		return imaging.Linear, nil
	case "box":
		return imaging.Box, nil
	case "nearest":
		return imaging.NearestNeighbor, nil
	default:
		return imaging.ResampleFilter{}, fmt.Errorf("неизвестный фильтр: %s (доступны: lanczos, catmullrom, linear, box, nearest)", name)
	}
}

/*
Возможные расширения:
- Добавить потоковую обработку больших холстов без полной материализации
- Добавить встраивание ICC профиля в выходной JPEG
*/
