// Package config содержит конфигурацию приложения.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/artemshloyda/printvariants/internal/geometry"
	"github.com/artemshloyda/printvariants/internal/product"
)

// Имена поддиректорий внутри директории товара.
const (
	// RescaleDirName - исходники, ожидающие генерации.
	RescaleDirName = "rescale"
	// CompletedDirName - архив обработанных исходников.
	CompletedDirName = "completed"
	// OutputDirName - корень для директорий с датой.
	OutputDirName = "output"
)

// MinIOConfig содержит настройки зеркалирования в объектное хранилище.
type MinIOConfig struct {
	// Endpoint - адрес сервера (host:port). Пустой - зеркалирование выключено.
	Endpoint string

	// AccessKey - ключ доступа.
	AccessKey string

	// SecretKey - секретный ключ.
	SecretKey string

	// Bucket - имя бакета.
	Bucket string

	// UseSSL - использовать HTTPS.
	UseSSL bool
}

// Enabled сообщает, настроено ли зеркалирование.
func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != "" && m.Bucket != ""
}

// Config содержит все настройки генерации.
type Config struct {
	// RootDir - корневая директория со всеми товарами.
	RootDir string

	// Product - тип товара для пакетной генерации (пусто - все товары).
	Product product.Type

	// Orientation - явная ориентация (пусто - по имени файла).
	Orientation product.Orientation

	// DBPath - путь к SQLite базе данных.
	DBPath string

	// Preset - профиль качества (print, web, draft).
	Preset string

	// Quality - качество JPEG (1-100).
	Quality int

	// Filter - фильтр ресемплинга (lanczos, catmullrom, linear, box, nearest).
	Filter string

	// Workers - количество параллельно обрабатываемых исходников.
	Workers int

	// MaxMemoryMB - ограничение памяти на растры в мегабайтах (0 = без ограничения).
	MaxMemoryMB int

	// Date - имя директории с датой (пусто - сегодняшняя дата).
	Date string

	// Limit - максимальное количество исходников за запуск (0 = без ограничения).
	Limit int

	// Archive - переносить исходник в completed после успешной генерации.
	Archive bool

	// Force - генерировать заново, даже если основной вариант уже есть.
	Force bool

	// DryRun - режим симуляции без записи.
	DryRun bool

	// Watch - режим слежения за директорией rescale.
	Watch bool

	// Verbose - подробный вывод.
	Verbose bool

	// NoProgress - отключить прогресс-бар.
	NoProgress bool

	// LogLevel - уровень логирования (debug, info, warn, error).
	LogLevel string

	// MinIO - настройки зеркалирования результатов.
	MinIO MinIOConfig
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() *Config {
	opts := geometry.DefaultOptions()
	return &Config{
		Quality:  opts.Quality,
		Filter:   opts.Filter,
		Workers:  1,
		LogLevel: "info",
	}
}

// Validate проверяет корректность конфигурации.
func (c *Config) Validate() error {
	if c.RootDir == "" {
		return fmt.Errorf("корневая директория не указана (--root или PRINTVARIANTS_ROOT)")
	}
	if c.Product != "" && !c.Product.Valid() {
		return fmt.Errorf("неизвестный тип товара %q (доступны: %s)", c.Product, strings.Join(product.Names(), ", "))
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("качество должно быть от 1 до 100, получено: %d", c.Quality)
	}
	if _, err := geometry.ParseFilter(c.Filter); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("количество воркеров должно быть >= 1, получено: %d", c.Workers)
	}
	if c.Limit < 0 {
		return fmt.Errorf("лимит не может быть отрицательным, получено: %d", c.Limit)
	}
	if c.MaxMemoryMB < 0 {
		return fmt.Errorf("лимит памяти не может быть отрицательным, получено: %d", c.MaxMemoryMB)
	}

	abs, err := filepath.Abs(c.RootDir)
	if err != nil {
		return fmt.Errorf("не удалось получить абсолютный путь %s: %w", c.RootDir, err)
	}
	c.RootDir = abs

	// Устанавливаем путь к БД по умолчанию
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.RootDir, ".printvariants", "state.sqlite")
	}

	return nil
}

// GeometryOptions возвращает параметры кодирования для geometry.New.
func (c *Config) GeometryOptions() geometry.Options {
	return geometry.Options{Quality: c.Quality, Filter: c.Filter}
}

// ProductDir возвращает {root}/{dir товара}.
func (c *Config) ProductDir(t product.Type) string {
	return filepath.Join(c.RootDir, t.Info().Dir)
}

// RescaleDir возвращает директорию исходников, ожидающих генерации.
func (c *Config) RescaleDir(t product.Type) string {
	return filepath.Join(c.ProductDir(t), RescaleDirName)
}

// CompletedDir возвращает директорию архива исходников.
func (c *Config) CompletedDir(t product.Type) string {
	return filepath.Join(c.ProductDir(t), CompletedDirName)
}

// OutputDir возвращает корень для директорий с датой.
func (c *Config) OutputDir(t product.Type) string {
	return filepath.Join(c.ProductDir(t), OutputDirName)
}

// RenderParams возвращает параметры рендеринга в виде JSON.
func (c *Config) RenderParams() string {
	params := map[string]interface{}{
		"quality": c.Quality,
		"filter":  c.Filter,
	}
	b, _ := json.Marshal(params)
	return string(b)
}

// RenderParamsHash возвращает sha256 хэш параметров рендеринга.
// Сохраняется в журнале запусков, чтобы отличать прогоны с разными настройками.
func (c *Config) RenderParamsHash() string {
	h := sha256.Sum256([]byte(c.RenderParams()))
	return hex.EncodeToString(h[:])
}

/*
Возможные расширения:
- Поддержать несколько корней (по одному на магазин)
- Хранить дату запуска в часовом поясе магазина
*/
