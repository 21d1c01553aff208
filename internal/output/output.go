// Package output отвечает за размещение сгенерированных файлов на диске.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DateLayout - формат директории с датой (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// Ext - расширение всех сгенерированных вариантов.
const Ext = ".jpg"

// ErrIO - ошибка файловой системы (нет прав, нет места, не удалось создать директорию).
var ErrIO = errors.New("ошибка записи на диск")

// DateString форматирует дату в имя директории.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate проверяет строку даты формата DD-MM-YYYY.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректная дата %q, ожидается DD-MM-YYYY: %w", s, err)
	}
	return t, nil
}

// FileName строит имя выходного файла {baseName}-{fileID}-{suffix}.jpg.
func FileName(baseName string, fileID int64, suffix string) string {
	return fmt.Sprintf("%s-%d-%s%s", baseName, fileID, suffix, Ext)
}

// ParseFileName разбирает имя {baseName}-{fileID}-{suffix}.jpg для заданного суффикса.
func ParseFileName(name, suffix string) (baseName string, fileID int64, ok bool) {
	tail := "-" + suffix + Ext
	if !strings.HasSuffix(name, tail) {
		return "", 0, false
	}
	rest := strings.TrimSuffix(name, tail)

	cut := strings.LastIndexByte(rest, '-')
	if cut <= 0 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(rest[cut+1:], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return rest[:cut], id, true
}

// EnsureDir создаёт директорию, если её ещё нет.
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%w: %s существует и не является директорией", ErrIO, path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("%w: не удалось проверить %s: %w", ErrIO, path, err)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("%w: не удалось создать директорию %s: %w", ErrIO, path, err)
	}
	return nil
}

// DateDir создаёт (при необходимости) и возвращает {baseDir}/{date}.
func DateDir(baseDir, date string) (string, error) {
	if _, err := ParseDate(date); err != nil {
		return "", err
	}
	dir := filepath.Join(baseDir, date)
	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// Write записывает данные в dir/filename и возвращает полный путь.
// Существование файла заранее не проверяется: файл перезаписывается.
// Запись атомарная: временный файл в той же директории, затем rename.
func Write(dir, filename string, data []byte) (string, error) {
	if filename == "" || strings.ContainsRune(filename, os.PathSeparator) || filename == "." || filename == ".." {
		return "", fmt.Errorf("%w: некорректное имя файла %q", ErrIO, filename)
	}
	dstPath := filepath.Join(dir, filename)

	tmp, err := os.CreateTemp(dir, ".writing-*"+filepath.Ext(filename))
	if err != nil {
		return "", fmt.Errorf("%w: не удалось создать временный файл в %s: %w", ErrIO, dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: не удалось записать %s: %w", ErrIO, dstPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: не удалось записать %s: %w", ErrIO, dstPath, err)
	}
	_ = os.Chmod(tmpPath, 0644)

	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: не удалось переименовать %s -> %s: %w", ErrIO, tmpPath, dstPath, err)
	}

	return dstPath, nil
}
