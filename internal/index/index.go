// Package index строит индекс уже сгенерированных исходников по дереву output.
// Индекс создаётся на один пакетный запуск и не разделяется между запусками.
package index

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/artemshloyda/printvariants/internal/output"
)

// Entry описывает найденный основной вариант.
type Entry struct {
	// FileID - идентификатор из имени файла.
	FileID int64

	// Date - директория с датой.
	Date string

	// Path - путь к основному варианту.
	Path string
}

// Index - множество базовых имён с готовым основным вариантом.
type Index struct {
	suffix  string
	entries map[string]Entry
}

// Build обходит {outputDir}/{DD-MM-YYYY}/ и собирает файлы вида
// {base}-{id}-{suffix}.jpg. Отсутствующий outputDir даёт пустой индекс.
func Build(outputDir, suffix string) (*Index, error) {
	idx := &Index{suffix: suffix, entries: make(map[string]Entry)}

	dates, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("не удалось прочитать %s: %w", outputDir, err)
	}

	for _, d := range dates {
		if !d.IsDir() {
			continue
		}
		if _, err := output.ParseDate(d.Name()); err != nil {
			continue
		}

		dir := filepath.Join(outputDir, d.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("не удалось прочитать %s: %w", dir, err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			base, id, ok := output.ParseFileName(f.Name(), suffix)
			if !ok {
				continue
			}
			idx.entries[base] = Entry{FileID: id, Date: d.Name(), Path: filepath.Join(dir, f.Name())}
		}
	}

	return idx, nil
}

// Lookup возвращает запись для базового имени.
func (i *Index) Lookup(baseName string) (Entry, bool) {
	if i == nil {
		return Entry{}, false
	}
	e, ok := i.entries[baseName]
	return e, ok
}

// Add отмечает базовое имя как обработанное в рамках текущего запуска.
func (i *Index) Add(baseName string, e Entry) {
	i.entries[baseName] = e
}

// Len возвращает количество записей.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}
