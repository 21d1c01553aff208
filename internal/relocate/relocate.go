// Package relocate переносит обработанные исходники из rescale в архив completed.
package relocate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/artemshloyda/printvariants/internal/config"
	"github.com/artemshloyda/printvariants/internal/output"
	"github.com/artemshloyda/printvariants/internal/product"
)

// Extensions - расширения исходников в порядке проверки.
var Extensions = []string{".png", ".jpg"}

// Move описывает один перенесённый файл.
type Move struct {
	// From - исходный путь в rescale.
	From string

	// To - путь в архиве.
	To string

	// Backup - куда был переименован прежний файл архива (пусто, если коллизии не было).
	Backup string
}

// Result содержит итог переноса.
type Result struct {
	Moves []Move
}

// Relocator переносит исходники одного корня.
type Relocator struct {
	root   string
	logger zerolog.Logger

	// Now возвращает текущее время для имён резервных копий.
	Now func() time.Time
}

// New создаёт Relocator для корневой директории с товарами.
func New(rootDir string, logger zerolog.Logger) *Relocator {
	return &Relocator{
		root:   rootDir,
		logger: logger,
		Now:    time.Now,
	}
}

// Relocate переносит {baseFileName}.png и {baseFileName}.jpg из rescale в completed.
// Если в архиве уже есть файл с таким именем, он сначала переименовывается
// в резервную копию. Отсутствие обоих файлов - не ошибка, а предупреждение в лог.
func (r *Relocator) Relocate(t product.Type, baseFileName string) (*Result, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("неизвестный тип товара %q", t)
	}
	if baseFileName == "" || strings.ContainsAny(baseFileName, `/\`) {
		return nil, fmt.Errorf("некорректное имя исходника %q", baseFileName)
	}

	pending := filepath.Join(r.root, t.Info().Dir, config.RescaleDirName)
	archive := filepath.Join(r.root, t.Info().Dir, config.CompletedDirName)
	log := r.logger.With().Str("product", string(t)).Str("base_name", baseFileName).Logger()

	result := &Result{}
	for _, ext := range Extensions {
		src := filepath.Join(pending, baseFileName+ext)
		if _, err := os.Stat(src); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return result, fmt.Errorf("%w: не удалось проверить %s: %w", output.ErrIO, src, err)
		}

		if err := output.EnsureDir(archive); err != nil {
			return result, err
		}

		dst := filepath.Join(archive, baseFileName+ext)
		move := Move{From: src, To: dst}

		backup, err := r.backup(dst)
		if err != nil {
			return result, err
		}
		move.Backup = backup

		if err := os.Rename(src, dst); err != nil {
			return result, fmt.Errorf("%w: не удалось перенести %s -> %s: %w", output.ErrIO, src, dst, err)
		}

		log.Debug().Str("from", src).Str("to", dst).Str("backup", backup).Msg("исходник перенесён в архив")
		result.Moves = append(result.Moves, move)
	}

	if len(result.Moves) == 0 {
		log.Warn().Str("dir", pending).Msg("исходник не найден, переносить нечего")
	}
	return result, nil
}

// backup переименовывает существующий path в {stem}-{unixnano}{ext}.
// Возвращает пустую строку, если path не существует.
func (r *Relocator) backup(path string) (string, error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("%w: не удалось проверить %s: %w", output.ErrIO, path, err)
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	ts := r.Now().UnixNano()

	candidate := fmt.Sprintf("%s-%d%s", stem, ts, ext)
	for i := 1; ; i++ {
		_, err := os.Lstat(candidate)
		if os.IsNotExist(err) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: не удалось проверить %s: %w", output.ErrIO, candidate, err)
		}
		candidate = fmt.Sprintf("%s-%d-%d%s", stem, ts, i, ext)
	}

	if err := os.Rename(path, candidate); err != nil {
		return "", fmt.Errorf("%w: не удалось сохранить резервную копию %s: %w", output.ErrIO, path, err)
	}
	return candidate, nil
}
