// Package scanner находит исходники, ожидающие генерации.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions - поддерживаемые расширения исходников (lowercase, с точкой).
var Extensions = []string{".png", ".jpg", ".jpeg"}

// File представляет исходник для обработки.
type File struct {
	// Path - абсолютный путь к файлу.
	Path string

	// BaseName - имя файла без расширения; становится базовым именем вариантов.
	BaseName string

	// Ext - расширение в нижнем регистре.
	Ext string

	// Size - размер файла в байтах.
	Size int64

	// Mtime - время модификации (unix timestamp).
	Mtime int64
}

// Scanner сканирует одну директорию rescale.
type Scanner struct {
	dir string
}

// New создаёт новый Scanner для директории.
func New(dir string) *Scanner {
	return &Scanner{dir: dir}
}

// Dir возвращает сканируемую директорию.
func (s *Scanner) Dir() string {
	return s.dir
}

// List возвращает исходники в директории, отсортированные по имени.
// Поддиректории не обходятся. Отсутствующая директория - пустой список.
func (s *Scanner) List() ([]File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("не удалось прочитать директорию %s: %w", s.dir, err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Предупреждение: не удалось получить info %s: %v\n", e.Name(), err)
			continue
		}

		files = append(files, fileOf(filepath.Join(s.dir, e.Name()), info))
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Count возвращает количество исходников (для progress bar).
func (s *Scanner) Count() (int64, error) {
	files, err := s.List()
	return int64(len(files)), err
}

// Stat строит File для одного пути.
func Stat(path string) (File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return File{}, fmt.Errorf("не удалось получить info %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s - директория", path)
	}
	if !Supported(abs) {
		return File{}, fmt.Errorf("неподдерживаемое расширение %s (доступны: %s)", path, strings.Join(Extensions, ", "))
	}
	return fileOf(abs, info), nil
}

// Supported проверяет имя файла: расширение из Extensions,
// без скрытых файлов и macOS metadata (._*).
func Supported(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func fileOf(path string, info os.FileInfo) File {
	ext := filepath.Ext(path)
	return File{
		Path:     path,
		BaseName: strings.TrimSuffix(filepath.Base(path), ext),
		Ext:      strings.ToLower(ext),
		Size:     info.Size(),
		Mtime:    info.ModTime().Unix(),
	}
}

/*
Возможные расширения:
- Добавить exclude-паттерны
- Сортировать по времени модификации
*/
