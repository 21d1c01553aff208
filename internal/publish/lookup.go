package publish

import (
	"path/filepath"

	"github.com/artemshloyda/printvariants/internal/catalog"
	"github.com/artemshloyda/printvariants/internal/output"
	"github.com/artemshloyda/printvariants/internal/product"
)

// FindRendition возвращает файл вида {base}-{id}-{suffix}.jpg.
func FindRendition(files []string, suffix string) (string, bool) {
	for _, f := range files {
		if _, _, ok := output.ParseFileName(filepath.Base(f), suffix); ok {
			return f, true
		}
	}
	return "", false
}

// PrimaryRendition возвращает основной печатный вариант товара.
func PrimaryRendition(t product.Type, files []string) (string, bool) {
	return FindRendition(files, catalog.PrimarySuffix(t))
}

// Mockups возвращает мокапы в порядке каталога; отсутствующие пропускаются.
func Mockups(t product.Type, portrait bool, files []string) []string {
	var out []string
	for _, s := range catalog.MockupSuffixes(t, portrait) {
		if f, ok := FindRendition(files, s); ok {
			out = append(out, f)
		}
	}
	return out
}
