// Package worker прогоняет исходники одного товара через генерацию:
// запись листинга, варианты, журнал запуска, архивирование и зеркалирование.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/artemshloyda/printvariants/internal/catalog"
	"github.com/artemshloyda/printvariants/internal/config"
	"github.com/artemshloyda/printvariants/internal/generator"
	"github.com/artemshloyda/printvariants/internal/index"
	"github.com/artemshloyda/printvariants/internal/output"
	"github.com/artemshloyda/printvariants/internal/product"
	"github.com/artemshloyda/printvariants/internal/progress"
	"github.com/artemshloyda/printvariants/internal/publish"
	"github.com/artemshloyda/printvariants/internal/relocate"
	"github.com/artemshloyda/printvariants/internal/scanner"
	"github.com/artemshloyda/printvariants/internal/storage"
)

// Publisher загружает записанные варианты во внешнее хранилище.
type Publisher interface {
	Publish(ctx context.Context, t product.Type, date string, files []string) (int, error)
}

// Stats содержит статистику обработки.
type Stats struct {
	// Processed - исходники, для которых записаны все варианты.
	Processed int64

	// Skipped - исходники с уже готовым основным вариантом.
	Skipped int64

	// Failed - исходники с ошибкой (полной или частичной).
	Failed int64

	// Total - все встреченные исходники.
	Total int64

	// Variants - записанные варианты.
	Variants int64

	// OutputBytes - общий размер записанных вариантов.
	OutputBytes int64

	// Archived - исходники, перенесённые в completed.
	Archived int64

	// Published - варианты, загруженные в MinIO.
	Published int64
}

// FormatBytes форматирует байты в человекочитаемый формат.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Deps - зависимости пула. Storage, Relocator и Publisher опциональны.
type Deps struct {
	Generator *generator.Generator
	Storage   *storage.Storage
	Relocator *relocate.Relocator
	Publisher Publisher
	Logger    zerolog.Logger
}

// Pool обрабатывает исходники одного товара на cfg.Workers горутинах.
type Pool struct {
	cfg     *config.Config
	product product.Type
	date    string
	deps    Deps

	// idx строится один раз на пакетный запуск.
	idx   *index.Index
	idxMu sync.Mutex

	stats    Stats
	progress *progress.Bar
}

// New создаёт новый пул для товара t.
func New(cfg *config.Config, t product.Type, deps Deps) *Pool {
	date := cfg.Date
	if date == "" {
		date = output.DateString(time.Now())
	}
	return &Pool{
		cfg:     cfg,
		product: t,
		date:    date,
		deps:    deps,
	}
}

// SetProgressBar устанавливает прогресс-бар для отображения прогресса.
func (p *Pool) SetProgressBar(bar *progress.Bar) {
	p.progress = bar
}

// Date возвращает директорию с датой, в которую пишет пул.
func (p *Pool) Date() string {
	return p.date
}

// BuildIndex строит индекс готовых исходников по дереву output.
// Без вызова BuildIndex пропуск по индексу не выполняется.
func (p *Pool) BuildIndex() error {
	idx, err := index.Build(p.cfg.OutputDir(p.product), catalog.PrimarySuffix(p.product))
	if err != nil {
		return fmt.Errorf("не удалось построить индекс %s: %w", p.product, err)
	}
	p.idxMu.Lock()
	p.idx = idx
	p.idxMu.Unlock()
	p.deps.Logger.Debug().Str("product", string(p.product)).Int("processed", idx.Len()).Msg("индекс построен")
	return nil
}

// Process обрабатывает исходники из канала, пока он не закроется или ctx не отменится.
// Отмена проверяется между исходниками, начатая генерация доходит до конца.
func (p *Pool) Process(ctx context.Context, files <-chan scanner.File) Stats {
	var wg sync.WaitGroup

	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, files)
		}()
	}

	wg.Wait()
	return p.GetStats()
}

// ProcessList обрабатывает список с учётом cfg.Limit.
func (p *Pool) ProcessList(ctx context.Context, list []scanner.File) Stats {
	if p.cfg.Limit > 0 && len(list) > p.cfg.Limit {
		list = list[:p.cfg.Limit]
	}

	files := make(chan scanner.File)
	go func() {
		defer close(files)
		for _, f := range list {
			select {
			case files <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	return p.Process(ctx, files)
}

// worker обрабатывает файлы из канала.
func (p *Pool) worker(ctx context.Context, files <-chan scanner.File) {
	for {
		select {
		case <-ctx.Done():
			return
		case file, ok := <-files:
			if !ok {
				return
			}
			_ = p.Handle(ctx, file, 0)
		}
	}
}

// Outcome - итог обработки одного исходника.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Handle обрабатывает один исходник. fileID > 0 задаёт идентификатор явно,
// иначе он берётся из записи листинга в Storage.
// Ошибки логируются и отражаются в статистике, обработка остальных не прерывается.
func (p *Pool) Handle(ctx context.Context, file scanner.File, fileID int64) Outcome {
	atomic.AddInt64(&p.stats.Total, 1)
	log := p.deps.Logger.With().Str("product", string(p.product)).Str("base_name", file.BaseName).Logger()

	if e, ok := p.processed(file.BaseName); ok && !p.cfg.Force {
		if p.cfg.Verbose {
			p.progress.Message("⏭️  Пропущен: %s (основной вариант от %s, id %d)\n", file.BaseName, e.Date, e.FileID)
		}
		log.Debug().Str("primary", e.Path).Msg("основной вариант уже есть, пропуск")
		p.progress.Skipped()
		atomic.AddInt64(&p.stats.Skipped, 1)
		return OutcomeSkipped
	}

	if p.cfg.DryRun {
		orientation := p.cfg.Orientation.Resolve(file.BaseName)
		set := catalog.VariantsFor(p.product, orientation.IsPortrait())
		p.progress.Message("🔄 [dry-run] %s -> %d вариантов (%s) в %s\n",
			file.BaseName, len(set), orientation, p.cfg.OutputDir(p.product))
		p.progress.Done(0)
		atomic.AddInt64(&p.stats.Processed, 1)
		return OutcomeProcessed
	}

	src, err := os.ReadFile(file.Path)
	if err != nil {
		return p.fail(log, file, 0, fmt.Errorf("не удалось прочитать исходник: %w", err))
	}

	if fileID <= 0 {
		if p.deps.Storage == nil {
			return p.fail(log, file, 0, errors.New("не задан file id и нет хранилища записей"))
		}
		art, created, err := p.deps.Storage.EnsureArtwork(storage.ArtworkInput{
			Product:     string(p.product),
			FileName:    file.BaseName,
			SourcePath:  file.Path,
			Description: p.product.Info().Description,
			SrcSize:     file.Size,
			SrcMtime:    file.Mtime,
		})
		if err != nil {
			return p.fail(log, file, 0, fmt.Errorf("ошибка БД: %w", err))
		}
		fileID = art.ID
		log.Debug().Int64("file_id", fileID).Bool("created", created).Msg("запись листинга")
	}

	runID := p.startRun(log, fileID, file.BaseName)

	res, genErr := p.deps.Generator.Generate(generator.Request{
		Source:      src,
		BaseName:    file.BaseName,
		FileID:      fileID,
		BaseDir:     p.cfg.OutputDir(p.product),
		Date:        p.date,
		Product:     p.product,
		Orientation: p.cfg.Orientation,
	})

	written := p.account(res)
	p.finishRun(log, runID, res, genErr)

	if genErr != nil {
		return p.fail(log, file, written, genErr)
	}

	files := res.Files()
	if primary, ok := publish.PrimaryRendition(p.product, files); ok {
		p.markProcessed(file.BaseName, index.Entry{FileID: fileID, Date: p.date, Path: primary})
	}
	mockups := publish.Mockups(p.product, res.Orientation.IsPortrait(), files)
	log.Debug().Int("mockups", len(mockups)).Msg("мокапы готовы к загрузке")

	if p.cfg.Archive && p.deps.Relocator != nil {
		moved, err := p.deps.Relocator.Relocate(p.product, file.BaseName)
		if err != nil {
			log.Warn().Err(err).Msg("не удалось перенести исходник в архив")
		} else if len(moved.Moves) > 0 {
			atomic.AddInt64(&p.stats.Archived, 1)
		}
	}

	if p.deps.Publisher != nil {
		n, err := p.deps.Publisher.Publish(ctx, p.product, p.date, files)
		atomic.AddInt64(&p.stats.Published, int64(n))
		if err != nil {
			log.Warn().Err(err).Int("uploaded", n).Msg("зеркалирование выполнено не полностью")
		}
	}

	if p.cfg.Verbose {
		p.progress.Message("✅ %s -> %d вариантов, мокапов %d (%.2fs)\n", file.BaseName, written, len(mockups), res.Duration.Seconds())
	}
	p.progress.Done(written)
	atomic.AddInt64(&p.stats.Processed, 1)
	return OutcomeProcessed
}

// account добавляет записанные варианты в статистику.
func (p *Pool) account(res *generator.Result) int {
	if res == nil {
		return 0
	}
	written := 0
	for _, v := range res.Variants {
		if v.Err == nil && v.Bytes > 0 {
			written++
			atomic.AddInt64(&p.stats.OutputBytes, int64(v.Bytes))
		}
	}
	atomic.AddInt64(&p.stats.Variants, int64(written))
	return written
}

func (p *Pool) startRun(log zerolog.Logger, fileID int64, baseName string) string {
	if p.deps.Storage == nil {
		return ""
	}
	// Явный fileID может не иметь записи листинга.
	if _, err := p.deps.Storage.GetArtwork(fileID); err != nil {
		return ""
	}
	id, err := p.deps.Storage.StartRun(fileID, string(p.product), baseName, p.date, p.cfg.RenderParamsHash())
	if err != nil {
		log.Warn().Err(err).Msg("не удалось записать начало запуска")
		return ""
	}
	return id
}

func (p *Pool) finishRun(log zerolog.Logger, runID string, res *generator.Result, genErr error) {
	if runID == "" {
		return
	}

	out := storage.RunOutcome{Status: storage.StatusOK}
	if res != nil {
		out.Orientation = string(res.Orientation)
		for _, v := range res.Variants {
			if v.Err != nil {
				out.VariantsFailed++
			} else {
				out.VariantsOK++
			}
		}
	}

	var runErr *generator.RunError
	switch {
	case genErr == nil:
	case errors.As(genErr, &runErr):
		out.Status = storage.StatusPartial
		out.Error = genErr.Error()
	default:
		out.Status = storage.StatusFailed
		out.Error = genErr.Error()
	}

	if err := p.deps.Storage.FinishRun(runID, out); err != nil {
		log.Warn().Err(err).Msg("не удалось записать итог запуска")
	}
}

func (p *Pool) fail(log zerolog.Logger, file scanner.File, written int, err error) Outcome {
	log.Error().Err(err).Str("path", file.Path).Msg("исходник не обработан")
	p.progress.Message("❌ %s: %v\n", file.Path, err)
	p.progress.Failed(written)
	atomic.AddInt64(&p.stats.Failed, 1)
	return OutcomeFailed
}

func (p *Pool) processed(baseName string) (index.Entry, bool) {
	p.idxMu.Lock()
	defer p.idxMu.Unlock()
	return p.idx.Lookup(baseName)
}

func (p *Pool) markProcessed(baseName string, e index.Entry) {
	p.idxMu.Lock()
	defer p.idxMu.Unlock()
	if p.idx != nil {
		p.idx.Add(baseName, e)
	}
}

// GetStats возвращает текущую статистику.
func (p *Pool) GetStats() Stats {
	return Stats{
		Processed:   atomic.LoadInt64(&p.stats.Processed),
		Skipped:     atomic.LoadInt64(&p.stats.Skipped),
		Failed:      atomic.LoadInt64(&p.stats.Failed),
		Total:       atomic.LoadInt64(&p.stats.Total),
		Variants:    atomic.LoadInt64(&p.stats.Variants),
		OutputBytes: atomic.LoadInt64(&p.stats.OutputBytes),
		Archived:    atomic.LoadInt64(&p.stats.Archived),
		Published:   atomic.LoadInt64(&p.stats.Published),
	}
}

/*
Возможные расширения:
- Повторять исходники со статусом partial при следующем запуске
- Ограничивать скорость загрузки в MinIO
*/
