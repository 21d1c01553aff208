package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artemshloyda/printvariants/internal/config"
	"github.com/artemshloyda/printvariants/internal/generator"
	"github.com/artemshloyda/printvariants/internal/geometry"
	"github.com/artemshloyda/printvariants/internal/memlimit"
	"github.com/artemshloyda/printvariants/internal/product"
	"github.com/artemshloyda/printvariants/internal/progress"
	"github.com/artemshloyda/printvariants/internal/publish"
	"github.com/artemshloyda/printvariants/internal/relocate"
	"github.com/artemshloyda/printvariants/internal/scanner"
	"github.com/artemshloyda/printvariants/internal/storage"
	"github.com/artemshloyda/printvariants/internal/watcher"
	"github.com/artemshloyda/printvariants/internal/worker"
)

// newGenerateCmd создаёт команду generate.
func newGenerateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Сгенерировать варианты для исходников из rescale",
		Long: `Генерирует полный набор вариантов для каждого исходника в {root}/{товар}/rescale.

Для каждого исходника создаётся (или находится) запись листинга, её id становится
fileId в именах файлов. Исходники, у которых уже есть основной печатный вариант,
пропускаются, если не указан --force. Имя с "_portrait" выбирает портретную ветку
каталога (для пледов), --orientation задаёт ветку явно.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	flags := cmd.Flags()

	flags.StringVarP(&opts.product, "product", "p", "", "Тип товара: desk-mat, pillow, blanket, woven-blanket (пусто - все)")
	flags.StringVar(&opts.orientation, "orientation", "auto", "Ветка каталога: auto, standard, portrait")

	flags.StringVar(&opts.preset, "preset", "", "Профиль качества: print, web, draft")
	flags.IntVar(&opts.quality, "quality", 0, "Качество JPEG (1-100)")
	flags.StringVar(&opts.filter, "filter", "", "Фильтр ресемплинга: lanczos, catmullrom, linear, box, nearest")

	flags.IntVar(&opts.workers, "workers", 1, "Количество исходников, обрабатываемых одновременно")
	flags.IntVar(&opts.maxMemoryMB, "max-memory", 0, "Ограничение памяти на растры в МБ (0 = без ограничения)")

	flags.StringVar(&opts.date, "date", "", "Директория с датой DD-MM-YYYY (по умолчанию сегодня)")
	flags.IntVar(&opts.limit, "limit", 0, "Максимум исходников за запуск (0 = без ограничения)")
	flags.BoolVar(&opts.archive, "archive", false, "Переносить исходники в completed после успешной генерации")
	flags.BoolVar(&opts.force, "force", false, "Генерировать заново, даже если основной вариант уже есть")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Показать план без записи")
	flags.BoolVar(&opts.watch, "watch", false, "Следить за rescale и обрабатывать новые исходники")

	flags.StringVar(&opts.file, "file", "", "Сгенерировать варианты для одного файла")
	flags.Int64Var(&opts.fileID, "id", 0, "Явный id листинга для --file (по умолчанию из БД)")

	return cmd
}

// runGenerate выполняет основную логику генерации.
func runGenerate(cmd *cobra.Command, opts *options) error {
	startTime := time.Now()

	cfg, err := opts.loadValid(cmd)
	if err != nil {
		return err
	}
	if cfg.Watch || opts.file != "" {
		if cfg.Product == "" {
			return fmt.Errorf("для --watch и --file нужно указать --product")
		}
	}
	if opts.fileID < 0 {
		return fmt.Errorf("id должен быть положительным, получено: %d", opts.fileID)
	}
	if cfg.Watch {
		cfg.NoProgress = true
	}

	logger := newLogger(cfg)

	// Отмена по сигналу действует между исходниками.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	products := product.All()
	if cfg.Product != "" {
		products = []product.Type{cfg.Product}
	}

	fmt.Printf("🚀 Запуск генерации:\n")
	fmt.Printf("   Корень: %s\n", cfg.RootDir)
	fmt.Printf("   Товары: %v\n", products)
	fmt.Printf("   Качество: %d (фильтр: %s)\n", cfg.Quality, cfg.Filter)
	fmt.Printf("   Воркеров: %d\n", cfg.Workers)
	if cfg.DryRun {
		fmt.Println("   ⚠️  Dry-run режим (без записи)")
	}
	if deps.Publisher != nil {
		fmt.Printf("   Зеркало: %s/%s\n", cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
	}
	fmt.Println()

	var total worker.Stats
	switch {
	case opts.file != "":
		total = generateFile(ctx, cfg, deps, opts)
	case cfg.Watch:
		total, err = watch(ctx, cfg, deps)
		if err != nil {
			return err
		}
	default:
		for _, t := range products {
			if ctx.Err() != nil {
				break
			}
			s, err := generateProduct(ctx, cfg, t, deps)
			if err != nil {
				return err
			}
			total = add(total, s)
		}
	}

	if ctx.Err() != nil {
		fmt.Println("\n⚠️  Получен сигнал завершения, оставшиеся исходники не обработаны")
	}
	printSummary(total, time.Since(startTime))

	if total.Failed > 0 {
		return fmt.Errorf("завершено с %d ошибками", total.Failed)
	}
	return nil
}

// buildDeps собирает зависимости пула. cleanup закрывает БД.
func buildDeps(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (worker.Deps, func(), error) {
	deps := worker.Deps{Logger: logger}
	cleanup := func() {}

	proc, err := geometry.New(cfg.GeometryOptions())
	if err != nil {
		return deps, cleanup, err
	}
	gen := generator.New(proc, logger)
	limiter := memlimit.New(cfg.MaxMemoryMB)
	if limiter.IsEnabled() {
		fmt.Printf("🧠 Лимит памяти на растры: %s\n", worker.FormatBytes(int64(limiter.MaxMemory())))
	}
	gen.SetLimiter(limiter)
	deps.Generator = gen

	deps.Relocator = relocate.New(cfg.RootDir, logger)

	if cfg.DryRun {
		return deps, cleanup, nil
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return deps, cleanup, fmt.Errorf("не удалось инициализировать БД: %w", err)
	}
	cleanup = func() { _ = store.Close() }
	deps.Storage = store

	// Очищаем прерванные запуски
	cleaned, err := store.CleanupInProgress()
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Не удалось очистить in_progress: %v\n", err)
	} else if cleaned > 0 {
		fmt.Printf("🧹 Очищено %d прерванных запусков\n", cleaned)
	}

	if cfg.MinIO.Enabled() {
		mirror, err := publish.NewMirror(cfg.MinIO, logger)
		if err != nil {
			cleanup()
			return deps, func() {}, err
		}
		if err := mirror.EnsureBucket(ctx); err != nil {
			cleanup()
			return deps, func() {}, err
		}
		deps.Publisher = mirror
	}

	return deps, cleanup, nil
}

// generateProduct обрабатывает директорию rescale одного товара.
func generateProduct(ctx context.Context, cfg *config.Config, t product.Type, deps worker.Deps) (worker.Stats, error) {
	files, err := scanner.New(cfg.RescaleDir(t)).List()
	if err != nil {
		return worker.Stats{}, err
	}
	if len(files) == 0 {
		if cfg.Verbose {
			fmt.Printf("📭 %s: нет исходников в %s\n", t, cfg.RescaleDir(t))
		}
		return worker.Stats{}, nil
	}

	count := len(files)
	if cfg.Limit > 0 && count > cfg.Limit {
		count = cfg.Limit
	}
	fmt.Printf("📁 %s: исходников для обработки: %d\n", t.Info().Title, count)

	pool := worker.New(cfg, t, deps)
	if err := pool.BuildIndex(); err != nil {
		return worker.Stats{}, err
	}

	bar := progress.New(progress.Options{
		Total:       int64(count),
		Description: t.Info().Title,
		Disabled:    cfg.NoProgress,
	})
	pool.SetProgressBar(bar)

	stats := pool.ProcessList(ctx, files)
	bar.Finish()
	return stats, nil
}

// generateFile обрабатывает один файл из --file.
func generateFile(ctx context.Context, cfg *config.Config, deps worker.Deps, opts *options) worker.Stats {
	pool := worker.New(cfg, cfg.Product, deps)
	f, err := scanner.Stat(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return worker.Stats{Total: 1, Failed: 1}
	}
	// Одиночный файл генерируется всегда, индекс не строится.
	pool.Handle(ctx, f, opts.fileID)
	return pool.GetStats()
}

// watch обрабатывает текущие исходники, затем следит за rescale до сигнала.
func watch(ctx context.Context, cfg *config.Config, deps worker.Deps) (worker.Stats, error) {
	t := cfg.Product
	dir := cfg.RescaleDir(t)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return worker.Stats{}, fmt.Errorf("не удалось создать %s: %w", dir, err)
	}

	pool := worker.New(cfg, t, deps)
	if err := pool.BuildIndex(); err != nil {
		return worker.Stats{}, err
	}

	existing, err := scanner.New(dir).List()
	if err != nil {
		return worker.Stats{}, err
	}
	pool.ProcessList(ctx, existing)

	w, err := watcher.New(dir, deps.Logger)
	if err != nil {
		return pool.GetStats(), err
	}
	files, err := w.Watch(ctx)
	if err != nil {
		return pool.GetStats(), err
	}

	fmt.Printf("👀 Слежение за %s (Ctrl+C для остановки)\n", dir)
	return pool.Process(ctx, files), nil
}

func add(a, b worker.Stats) worker.Stats {
	return worker.Stats{
		Processed:   a.Processed + b.Processed,
		Skipped:     a.Skipped + b.Skipped,
		Failed:      a.Failed + b.Failed,
		Total:       a.Total + b.Total,
		Variants:    a.Variants + b.Variants,
		OutputBytes: a.OutputBytes + b.OutputBytes,
		Archived:    a.Archived + b.Archived,
		Published:   a.Published + b.Published,
	}
}

func printSummary(stats worker.Stats, duration time.Duration) {
	fmt.Println()
	fmt.Printf("📊 Результаты:\n")
	fmt.Printf("   Обработано: %d\n", stats.Processed)
	fmt.Printf("   Пропущено: %d\n", stats.Skipped)
	fmt.Printf("   Ошибок: %d\n", stats.Failed)
	fmt.Printf("   Вариантов записано: %d (%s)\n", stats.Variants, worker.FormatBytes(stats.OutputBytes))
	if stats.Archived > 0 {
		fmt.Printf("   Перенесено в completed: %d\n", stats.Archived)
	}
	if stats.Published > 0 {
		fmt.Printf("   Загружено в MinIO: %d\n", stats.Published)
	}
	fmt.Printf("   Время: %s\n", duration.Round(time.Millisecond))
}
