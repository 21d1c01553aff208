// Package progress показывает прогресс пакетной генерации.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Bar - прогресс-бар по исходникам со счётчиками итогов.
// Нулевой указатель допустим: методы становятся no-op, а Message пишет в stdout.
type Bar struct {
	bar *progressbar.ProgressBar

	// mu защищает счётчики и вывод.
	mu sync.Mutex

	disabled bool

	done      int64
	skipped   int64
	failed    int64
	variants  int64
	startTime time.Time

	writer io.Writer
}

// Options содержит настройки для прогресс-бара.
type Options struct {
	// Total - количество исходников.
	Total int64

	// Description - подпись слева от бара.
	Description string

	// Disabled - только текстовый вывод.
	Disabled bool

	// Writer - куда выводить (по умолчанию os.Stderr).
	Writer io.Writer
}

// New создаёт новый прогресс-бар.
func New(opts Options) *Bar {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	b := &Bar{
		disabled:  opts.Disabled,
		startTime: time.Now(),
		writer:    writer,
	}

	if !opts.Disabled && opts.Total > 0 {
		description := opts.Description
		if description == "" {
			description = "Генерация"
		}

		b.bar = progressbar.NewOptions64(
			opts.Total,
			progressbar.OptionSetWriter(writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[cyan]█[reset]",
				SaucerHead:    "[cyan]▓[reset]",
				SaucerPadding: "░",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(writer)
			}),
			progressbar.OptionSetPredictTime(true),
		)
	}

	return b
}

// Done отмечает исходник как обработанный и добавляет записанные варианты.
func (b *Bar) Done(variants int) {
	b.step(func() {
		b.done++
		b.variants += int64(variants)
	})
}

// Skipped отмечает исходник как пропущенный.
func (b *Bar) Skipped() {
	b.step(func() { b.skipped++ })
}

// Failed отмечает исходник как не обработанный.
// variants - сколько вариантов всё же записано.
func (b *Bar) Failed(variants int) {
	b.step(func() {
		b.failed++
		b.variants += int64(variants)
	})
}

func (b *Bar) step(update func()) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	update()
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

// Grow увеличивает ожидаемое количество исходников (режим слежения).
func (b *Bar) Grow(n int64) {
	if b == nil || n <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		b.bar.ChangeMax64(b.bar.GetMax64() + n)
	}
}

// Finish завершает прогресс-бар.
func (b *Bar) Finish() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		_ = b.bar.Finish()
	}
}

// Counts возвращает счётчики: обработано, пропущено, с ошибкой, вариантов записано.
func (b *Bar) Counts() (done, skipped, failed, variants int64) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done, b.skipped, b.failed, b.variants
}

// Duration возвращает время с начала обработки.
func (b *Bar) Duration() time.Duration {
	if b == nil {
		return 0
	}
	return time.Since(b.startTime)
}

// IsDisabled возвращает true, если прогресс-бар отключён.
func (b *Bar) IsDisabled() bool {
	return b == nil || b.disabled
}

// Message выводит строку, не ломая отрисовку бара.
func (b *Bar) Message(format string, args ...interface{}) {
	if b == nil {
		fmt.Printf(format, args...)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		_ = b.bar.Clear()
	}

	fmt.Fprintf(b.writer, format, args...)

	if b.bar != nil {
		_ = b.bar.RenderBlank()
	}
}
