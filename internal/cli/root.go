// Package cli содержит CLI интерфейс приложения.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artemshloyda/printvariants/internal/config"
	"github.com/artemshloyda/printvariants/internal/logging"
	"github.com/artemshloyda/printvariants/internal/product"
)

var (
	// Version будет установлена при сборке.
	Version = "dev"

	// BuildTime будет установлена при сборке.
	BuildTime = "unknown"
)

// options - значения флагов. В конфигурацию попадают только явно заданные флаги,
// поэтому приоритет: флаги > окружение > файл > значения по умолчанию.
type options struct {
	configPath string
	root       string
	db         string
	logLevel   string
	verbose    bool
	noProgress bool

	product     string
	orientation string
	preset      string
	quality     int
	filter      string
	workers     int
	maxMemoryMB int
	date        string
	limit       int
	archive     bool
	force       bool
	dryRun      bool
	watch       bool
	file        string
	fileID      int64
}

// NewRootCmd создаёт корневую команду CLI.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "printvariants",
		Short: "Генерация печатных файлов и мокапов для товаров print-on-demand",
		Long: `PrintVariants - CLI утилита, которая из одного исходника делает полный набор
файлов для товара: печатные файлы нужного размера, мокапы, повёрнутые и обрезанные варианты.

Раскладка на диске:
  {root}/{товар}/rescale    - исходники, ожидающие генерации
  {root}/{товар}/output/DD-MM-YYYY/{имя}-{id}-{суффикс}.jpg
  {root}/{товар}/completed  - архив обработанных исходников

Примеры:
  # Сгенерировать варианты для всех пледов из rescale
  printvariants generate --root ./products --product blanket

  # Сгенерировать и перенести исходники в completed
  printvariants generate --product desk-mat --archive

  # Один файл с заданным id листинга
  printvariants generate --product pillow --file ./art/tile.png --id 1234

  # Посмотреть каталог вариантов портретного тканого пледа
  printvariants catalog --product woven-blanket --orientation portrait`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Путь к файлу конфигурации (по умолчанию ./printvariants.yaml)")
	pf.StringVar(&opts.root, "root", "", "Корневая директория с товарами ("+config.EnvRoot+")")
	pf.StringVar(&opts.db, "db", "", "Путь к SQLite базе данных ("+config.EnvDB+")")
	pf.StringVar(&opts.logLevel, "log-level", "", "Уровень логирования: debug, info, warn, error")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Подробный вывод")
	pf.BoolVar(&opts.noProgress, "no-progress", false, "Отключить прогресс-бар")

	generateCmd := newGenerateCmd(opts)
	rootCmd.RunE = generateCmd.RunE
	rootCmd.Flags().AddFlagSet(generateCmd.Flags())

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(newRelocateCmd(opts))
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// load собирает конфигурацию без проверки: значения по умолчанию, файл, .env и окружение, флаги.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	config.LoadDotEnv()

	fc, path, err := config.FindAndLoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if fc != nil {
		fc.ApplyToConfig(cfg)
		if o.verbose {
			fmt.Printf("📄 Конфигурация: %s\n", path)
		}
	}

	config.ApplyEnv(cfg)

	flags := cmd.Flags()
	changed := flags.Changed

	if changed("root") {
		cfg.RootDir = o.root
	}
	if changed("db") {
		cfg.DBPath = o.db
	}
	if changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if changed("verbose") {
		cfg.Verbose = o.verbose
	}
	if changed("no-progress") {
		cfg.NoProgress = o.noProgress
	}

	if changed("product") {
		t, err := product.Parse(o.product)
		if err != nil {
			return nil, err
		}
		cfg.Product = t
	}
	if changed("orientation") {
		orient, err := product.ParseOrientation(o.orientation)
		if err != nil {
			return nil, err
		}
		cfg.Orientation = orient
	}
	// Пресет применяется раньше явных quality/filter.
	if changed("preset") {
		if !cfg.ApplyPreset(o.preset) {
			return nil, fmt.Errorf("неизвестный пресет %q (доступны: %v)", o.preset, config.ValidPresets())
		}
	}
	if changed("quality") {
		cfg.Quality = o.quality
	}
	if changed("filter") {
		cfg.Filter = o.filter
	}
	if changed("workers") {
		cfg.Workers = o.workers
	}
	if changed("max-memory") {
		cfg.MaxMemoryMB = o.maxMemoryMB
	}
	if changed("date") {
		cfg.Date = o.date
	}
	if changed("limit") {
		cfg.Limit = o.limit
	}
	if changed("archive") {
		cfg.Archive = o.archive
	}
	if changed("force") {
		cfg.Force = o.force
	}
	if changed("dry-run") {
		cfg.DryRun = o.dryRun
	}
	if changed("watch") {
		cfg.Watch = o.watch
	}

	return cfg, nil
}

// loadValid загружает конфигурацию и проверяет её.
func (o *options) loadValid(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := o.load(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}
	return cfg, nil
}

// newLogger создаёт логгер по конфигурации.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := cfg.LogLevel
	if cfg.Verbose && level == "info" {
		level = "debug"
	}
	return logging.New(level, logging.IsTerminal())
}

// newVersionCmd создаёт команду version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "printvariants %s (built %s)\n", Version, BuildTime)
		},
	}
}

// newConfigCmd создаёт команду config, печатающую пример файла конфигурации.
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Показать пример файла конфигурации",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateExampleConfig())
		},
	}
}

// Execute запускает CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		// Не выводим ошибку, cobra уже вывела
		os.Exit(1)
	}
}

/*
Возможные расширения:
- Добавить команду retry для повторной генерации запусков со статусом partial
- Добавить команду export для выгрузки журнала запусков в JSON
*/
