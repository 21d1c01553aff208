package generator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest - запрос на генерацию не прошёл проверку.
var ErrInvalidRequest = errors.New("некорректный запрос на генерацию")

// VariantError - ошибка генерации одного варианта.
type VariantError struct {
	// Variant - суффикс варианта из каталога.
	Variant string

	// Path - путь, по которому вариант должен был быть записан.
	Path string

	// Err - исходная ошибка (geometry.ErrProcessing или output.ErrIO в цепочке).
	Err error
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("вариант %s: %v", e.Variant, e.Err)
}

func (e *VariantError) Unwrap() error {
	return e.Err
}

// RunError - сводная ошибка запуска: хотя бы один вариант не получен.
// Успешно записанные варианты при этом остаются на диске.
type RunError struct {
	// BaseName - имя исходника.
	BaseName string

	// Total - количество вариантов в наборе.
	Total int

	// Failures - ошибки в порядке каталога.
	Failures []*VariantError
}

func (e *RunError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("генерация %s: %d из %d вариантов с ошибкой: %s",
		e.BaseName, len(e.Failures), e.Total, strings.Join(parts, "; "))
}

// Unwrap позволяет errors.Is/As добраться до ошибок отдельных вариантов.
func (e *RunError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Failed возвращает суффиксы вариантов с ошибкой.
func (e *RunError) Failed() []string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Variant)
	}
	return names
}
