// Package memlimit ограничивает суммарную память, резервируемую под одновременную обработку изображений.
package memlimit

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// Limiter ограничивает использование памяти при параллельной генерации вариантов.
type Limiter struct {
	// maxBytes - максимальное использование памяти в байтах.
	maxBytes uint64

	// mu защищает доступ к текущему использованию.
	mu sync.Mutex

	// reserved - текущее зарезервированное использование памяти.
	reserved uint64

	// enabled - включено ли ограничение.
	enabled bool

	// pollInterval - пауза между попытками резервирования.
	pollInterval time.Duration
}

// New создаёт новый Limiter.
// maxMemoryMB - ограничение в мегабайтах (0 = без ограничения).
func New(maxMemoryMB int) *Limiter {
	if maxMemoryMB <= 0 {
		return &Limiter{enabled: false}
	}

	return &Limiter{
		maxBytes:     uint64(maxMemoryMB) * 1024 * 1024,
		enabled:      true,
		pollInterval: 100 * time.Millisecond,
	}
}

// EstimateRaster оценивает память под растр w x h в формате NRGBA
// с учётом промежуточного буфера resize.
func EstimateRaster(width, height int) uint64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	return uint64(width) * uint64(height) * 4 * 2
}

// Acquire резервирует size байт и блокируется, пока их не хватает.
// Если ничего не зарезервировано, запрос проходит даже сверх лимита,
// иначе одиночный большой вариант ждал бы бесконечно.
// Возвращает функцию для освобождения памяти.
func (l *Limiter) Acquire(ctx context.Context, size uint64) (release func(), err error) {
	if l == nil || !l.enabled {
		return func() {}, nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		l.mu.Lock()
		if l.reserved == 0 || l.reserved+size <= l.maxBytes {
			l.reserved += size
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					l.reserved -= size
					l.mu.Unlock()
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.pollInterval):
			// Пробуем освободить память
			runtime.GC()
		}
	}
}

// IsEnabled возвращает true если ограничение включено.
func (l *Limiter) IsEnabled() bool {
	return l != nil && l.enabled
}

// Reserved возвращает текущее зарезервированное использование памяти.
func (l *Limiter) Reserved() uint64 {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reserved
}

// MaxMemory возвращает максимальное ограничение памяти.
func (l *Limiter) MaxMemory() uint64 {
	if l == nil {
		return 0
	}
	return l.maxBytes
}
