package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/artemshloyda/printvariants/internal/product"
)

// FileConfig представляет структуру конфигурационного файла YAML.
// Все поля опциональны - если не указаны, используются значения по умолчанию.
type FileConfig struct {
	// Root - корневая директория с товарами.
	Root string `yaml:"root,omitempty"`

	// Render - настройки рендеринга.
	Render *RenderConfig `yaml:"render,omitempty"`

	// Processing - настройки обработки.
	Processing *ProcessingConfig `yaml:"processing,omitempty"`

	// Paths - настройки путей.
	Paths *PathsConfig `yaml:"paths,omitempty"`

	// MinIO - зеркалирование в объектное хранилище.
	MinIO *MinIOFileConfig `yaml:"minio,omitempty"`
}

// RenderConfig содержит настройки рендеринга.
type RenderConfig struct {
	// Preset - профиль качества (print, web, draft).
	Preset string `yaml:"preset,omitempty"`

	// Quality - качество JPEG (1-100).
	Quality int `yaml:"quality,omitempty"`

	// Filter - фильтр ресемплинга.
	Filter string `yaml:"filter,omitempty"`
}

// ProcessingConfig содержит настройки обработки.
type ProcessingConfig struct {
	// Product - тип товара по умолчанию.
	Product string `yaml:"product,omitempty"`

	// Workers - количество параллельных воркеров.
	Workers int `yaml:"workers,omitempty"`

	// MaxMemoryMB - ограничение памяти в мегабайтах.
	MaxMemoryMB int `yaml:"max_memory_mb,omitempty"`

	// Archive - переносить исходники в completed.
	Archive bool `yaml:"archive,omitempty"`

	// DryRun - режим симуляции.
	DryRun bool `yaml:"dry_run,omitempty"`

	// Verbose - подробный вывод.
	Verbose bool `yaml:"verbose,omitempty"`

	// NoProgress - отключить прогресс-бар.
	NoProgress bool `yaml:"no_progress,omitempty"`

	// LogLevel - уровень логирования.
	LogLevel string `yaml:"log_level,omitempty"`
}

// PathsConfig содержит настройки путей.
type PathsConfig struct {
	// DB - путь к SQLite базе данных.
	DB string `yaml:"db,omitempty"`
}

// MinIOFileConfig содержит настройки MinIO из файла.
type MinIOFileConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	UseSSL    bool   `yaml:"use_ssl,omitempty"`
}

// DefaultConfigPaths возвращает список путей для поиска конфигурационного файла.
// Поиск выполняется в следующем порядке:
// 1. ./printvariants.yaml (текущая директория)
// 2. ./printvariants.yml
// 3. ~/.config/printvariants/config.yaml
// 4. ~/.config/printvariants/config.yml
func DefaultConfigPaths() []string {
	paths := []string{
		"printvariants.yaml",
		"printvariants.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "printvariants", "config.yaml"),
			filepath.Join(home, ".config", "printvariants", "config.yml"),
		)
	}

	return paths
}

// LoadFromFile загружает конфигурацию из указанного файла.
// Возвращает nil, nil если файл не существует.
func LoadFromFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("не удалось прочитать файл конфигурации %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML в %s: %w", path, err)
	}

	return &fc, nil
}

// FindAndLoadConfig ищет и загружает конфигурационный файл из стандартных путей.
// Если configPath указан явно, использует только его.
// Возвращает nil, nil если файл не найден.
func FindAndLoadConfig(configPath string) (*FileConfig, string, error) {
	if configPath != "" {
		fc, err := LoadFromFile(configPath)
		if err != nil {
			return nil, "", err
		}
		if fc == nil {
			return nil, "", fmt.Errorf("файл конфигурации не найден: %s", configPath)
		}
		return fc, configPath, nil
	}

	for _, path := range DefaultConfigPaths() {
		fc, err := LoadFromFile(path)
		if err != nil {
			return nil, "", err
		}
		if fc != nil {
			return fc, path, nil
		}
	}

	return nil, "", nil
}

// ApplyToConfig применяет настройки из файла к основной конфигурации.
// Порядок приоритетов: флаги > окружение > файл, поэтому
// эта функция должна вызываться первой.
func (fc *FileConfig) ApplyToConfig(cfg *Config) {
	if fc == nil {
		return
	}

	if fc.Root != "" {
		cfg.RootDir = fc.Root
	}

	if fc.Render != nil {
		// Пресет задаёт базу, явные поля его уточняют.
		if fc.Render.Preset != "" {
			cfg.ApplyPreset(fc.Render.Preset)
		}
		if fc.Render.Quality > 0 {
			cfg.Quality = fc.Render.Quality
		}
		if fc.Render.Filter != "" {
			cfg.Filter = fc.Render.Filter
		}
	}

	if fc.Processing != nil {
		if fc.Processing.Product != "" {
			if t, err := product.Parse(fc.Processing.Product); err == nil {
				cfg.Product = t
			} else {
				cfg.Product = product.Type(fc.Processing.Product)
			}
		}
		if fc.Processing.Workers > 0 {
			cfg.Workers = fc.Processing.Workers
		}
		if fc.Processing.MaxMemoryMB > 0 {
			cfg.MaxMemoryMB = fc.Processing.MaxMemoryMB
		}
		if fc.Processing.Archive {
			cfg.Archive = true
		}
		if fc.Processing.DryRun {
			cfg.DryRun = true
		}
		if fc.Processing.Verbose {
			cfg.Verbose = true
		}
		if fc.Processing.NoProgress {
			cfg.NoProgress = true
		}
		if fc.Processing.LogLevel != "" {
			cfg.LogLevel = fc.Processing.LogLevel
		}
	}

	if fc.Paths != nil && fc.Paths.DB != "" {
		cfg.DBPath = fc.Paths.DB
	}

	if fc.MinIO != nil {
		cfg.MinIO = MinIOConfig{
			Endpoint:  fc.MinIO.Endpoint,
			AccessKey: fc.MinIO.AccessKey,
			SecretKey: fc.MinIO.SecretKey,
			Bucket:    fc.MinIO.Bucket,
			UseSSL:    fc.MinIO.UseSSL,
		}
	}
}

// GenerateExampleConfig генерирует пример конфигурационного файла.
func GenerateExampleConfig() string {
	return `# PrintVariants Configuration File
# Все параметры опциональны - если не указаны, используются значения по умолчанию.
# Приоритет: флаги CLI > переменные окружения (.env) > этот файл.

# Корень с директориями товаров (desk-mats, pillows, blankets, woven-blankets)
root: "./products"

render:
  # Профиль качества: print, web, draft
  preset: print
  # Качество JPEG (1-100), перекрывает пресет
  quality: 0
  # Фильтр ресемплинга: lanczos, catmullrom, linear, box, nearest
  filter: ""

processing:
  # Тип товара по умолчанию: desk-mat, pillow, blanket, woven-blanket
  product: ""
  # Количество исходников, обрабатываемых одновременно
  workers: 1
  # Ограничение памяти на растры (МБ, 0 = без ограничения)
  max_memory_mb: 0
  # Переносить исходники в completed после успешной генерации
  archive: false
  # Симуляция без записи
  dry_run: false
  verbose: false
  no_progress: false
  # debug, info, warn, error
  log_level: info

paths:
  # Путь к SQLite базе данных (по умолчанию {root}/.printvariants/state.sqlite)
  db: ""

minio:
  # Пустой endpoint выключает зеркалирование
  endpoint: ""
  access_key: ""
  secret_key: ""
  bucket: ""
  use_ssl: false
`
}

/*
Возможные расширения:
- Добавить валидацию значений в файле конфигурации
- Добавить команду 'config init' для записи примера на диск
*/
