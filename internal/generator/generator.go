// Package generator генерирует полный набор вариантов изображения для одного исходника.
package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/artemshloyda/printvariants/internal/catalog"
	"github.com/artemshloyda/printvariants/internal/geometry"
	"github.com/artemshloyda/printvariants/internal/memlimit"
	"github.com/artemshloyda/printvariants/internal/output"
	"github.com/artemshloyda/printvariants/internal/product"
)

// VariantSource возвращает набор вариантов для товара и ветки.
type VariantSource func(t product.Type, portrait bool) catalog.Set

// Request описывает один запуск генерации.
type Request struct {
	// Source - байты исходного изображения.
	Source []byte

	// BaseName - базовое имя выходных файлов.
	BaseName string

	// FileID - положительный идентификатор (id записи листинга).
	FileID int64

	// BaseDir - абсолютный путь к директории товара.
	BaseDir string

	// Date - имя директории с датой (DD-MM-YYYY).
	Date string

	// Product - тип товара.
	Product product.Type

	// Orientation - явная ориентация; OrientationAuto - по маркеру в BaseName.
	Orientation product.Orientation
}

// VariantResult - итог по одному варианту.
type VariantResult struct {
	// Name - суффикс варианта.
	Name string

	// Path - путь к выходному файлу.
	Path string

	// Bytes - размер записанного файла.
	Bytes int

	// Duration - время обработки и записи.
	Duration time.Duration

	// Err - ошибка (если есть).
	Err error
}

// Result содержит итог запуска генерации.
type Result struct {
	// Dir - директория с датой, куда записаны файлы.
	Dir string

	// Orientation - выбранная ветка каталога.
	Orientation product.Orientation

	// Variants - результаты в порядке каталога.
	Variants []VariantResult

	// Duration - общее время запуска.
	Duration time.Duration
}

// Files возвращает пути успешно записанных вариантов.
func (r *Result) Files() []string {
	var files []string
	for _, v := range r.Variants {
		if v.Err == nil {
			files = append(files, v.Path)
		}
	}
	return files
}

// Generator связывает каталог, геометрию и запись на диск.
type Generator struct {
	proc     *geometry.Processor
	limiter  *memlimit.Limiter
	variants VariantSource
	logger   zerolog.Logger
}

// New создаёт новый Generator.
func New(proc *geometry.Processor, logger zerolog.Logger) *Generator {
	return &Generator{
		proc:     proc,
		variants: catalog.VariantsFor,
		logger:   logger,
	}
}

// SetLimiter устанавливает ограничитель памяти для параллельных пакетов.
func (g *Generator) SetLimiter(l *memlimit.Limiter) {
	g.limiter = l
}

// SetVariantSource подменяет каталог вариантов.
func (g *Generator) SetVariantSource(src VariantSource) {
	g.variants = src
}

// Generate создаёт все варианты для одного исходника.
// Каждый вариант пытается выполниться независимо от остальных; если хотя бы
// один не удался, возвращается *RunError после попытки всех вариантов.
// Запуск не отменяется: начатая генерация всегда доходит до конца.
func (g *Generator) Generate(req Request) (*Result, error) {
	start := time.Now()

	if err := validate(req); err != nil {
		return nil, err
	}

	dir, err := output.DateDir(req.BaseDir, req.Date)
	if err != nil {
		return nil, fmt.Errorf("не удалось подготовить директорию для %s: %w", req.BaseName, err)
	}

	orientation := req.Orientation.Resolve(req.BaseName)
	set := g.variants(req.Product, orientation.IsPortrait())
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("%w: каталог %s/%s: %v", ErrInvalidRequest, req.Product, orientation, err)
	}

	log := g.logger.With().
		Str("product", string(req.Product)).
		Str("base_name", req.BaseName).
		Int64("file_id", req.FileID).
		Str("orientation", string(orientation)).
		Logger()

	result := &Result{
		Dir:         dir,
		Orientation: orientation,
		Variants:    make([]VariantResult, len(set)),
	}

	for _, batch := range batches(set) {
		if len(batch) == 1 {
			i := batch[0]
			result.Variants[i] = g.produce(req, dir, set[i])
			continue
		}

		// Пакет независимых вариантов: ждём всех, ошибки собираем по индексам.
		var eg errgroup.Group
		for _, i := range batch {
			i := i
			eg.Go(func() error {
				result.Variants[i] = g.produce(req, dir, set[i])
				return result.Variants[i].Err
			})
		}
		if err := eg.Wait(); err != nil {
			log.Debug().Err(err).Str("group", set[batch[0]].Group).Msg("пакет завершён с ошибками")
		}
	}

	result.Duration = time.Since(start)

	var failures []*VariantError
	for _, v := range result.Variants {
		if v.Err != nil {
			log.Error().Err(v.Err).Str("variant", v.Name).Msg("вариант не создан")
			failures = append(failures, &VariantError{Variant: v.Name, Path: v.Path, Err: v.Err})
		} else {
			log.Debug().Str("variant", v.Name).Dur("took", v.Duration).Int("bytes", v.Bytes).Msg("вариант записан")
		}
	}

	if len(failures) > 0 {
		return result, &RunError{BaseName: req.BaseName, Total: len(set), Failures: failures}
	}

	log.Info().Int("variants", len(set)).Dur("took", result.Duration).Str("dir", dir).Msg("генерация завершена")
	return result, nil
}

// produce обрабатывает и записывает один вариант.
func (g *Generator) produce(req Request, dir string, spec catalog.VariantSpec) VariantResult {
	start := time.Now()
	name := output.FileName(req.BaseName, req.FileID, spec.Name)
	res := VariantResult{Name: spec.Name, Path: filepath.Join(dir, name)}

	// Отмены внутри запуска нет, поэтому Background.
	release, err := g.limiter.Acquire(context.Background(), memlimit.EstimateRaster(spec.Width, spec.Height))
	if err != nil {
		res.Err = err
		return res
	}
	defer release()

	data, err := g.proc.Process(req.Source, spec)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	path, err := output.Write(dir, name, data)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}

	res.Path = path
	res.Bytes = len(data)
	return res
}

// batches разбивает набор на пакеты: подряд идущие варианты с одной
// непустой группой попадают в один пакет, остальные - по одному.
func batches(set catalog.Set) [][]int {
	var out [][]int
	for i := 0; i < len(set); i++ {
		group := set[i].Group
		batch := []int{i}
		for group != "" && i+1 < len(set) && set[i+1].Group == group {
			i++
			batch = append(batch, i)
		}
		out = append(out, batch)
	}
	return out
}

func validate(req Request) error {
	switch {
	case len(req.Source) == 0:
		return fmt.Errorf("%w: пустой исходный буфер", ErrInvalidRequest)
	case strings.TrimSpace(req.BaseName) == "":
		return fmt.Errorf("%w: не указано базовое имя", ErrInvalidRequest)
	case strings.ContainsAny(req.BaseName, `/\`):
		return fmt.Errorf("%w: базовое имя %q содержит разделитель пути", ErrInvalidRequest, req.BaseName)
	case req.FileID <= 0:
		return fmt.Errorf("%w: file id должен быть положительным, получено %d", ErrInvalidRequest, req.FileID)
	case !filepath.IsAbs(req.BaseDir):
		return fmt.Errorf("%w: директория %q должна быть абсолютной", ErrInvalidRequest, req.BaseDir)
	case !req.Product.Valid():
		return fmt.Errorf("%w: неизвестный тип товара %q", ErrInvalidRequest, req.Product)
	}
	if _, err := output.ParseDate(req.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

/*
Возможные расширения:
- Декодировать исходник один раз на запуск и переиспользовать между вариантами
- Добавить dry-run режим, возвращающий план без записи
*/
