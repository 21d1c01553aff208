// Package watcher следит за директорией rescale и выдаёт новые исходники.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/artemshloyda/printvariants/internal/scanner"
)

// DefaultDebounce - пауза после последнего события, чтобы файл успел дописаться.
const DefaultDebounce = 500 * time.Millisecond

// Watcher следит за одной директорией (без поддиректорий).
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	debounce time.Duration
	tick     time.Duration

	// pending - путь -> время последнего события.
	pending map[string]time.Time
}

// New создаёт новый Watcher для директории dir.
func New(dir string, logger zerolog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("не удалось создать watcher: %w", err)
	}

	return &Watcher{
		dir:      dir,
		watcher:  w,
		logger:   logger,
		debounce: DefaultDebounce,
		tick:     100 * time.Millisecond,
		pending:  make(map[string]time.Time),
	}, nil
}

// SetDebounceTime устанавливает время debounce.
func (w *Watcher) SetDebounceTime(d time.Duration) {
	w.debounce = d
	if d/5 < w.tick {
		w.tick = max(d/5, time.Millisecond)
	}
}

// Watch запускает слежение и возвращает канал с исходниками.
// Канал закрывается при отмене ctx; fsnotify watcher при этом освобождается.
func (w *Watcher) Watch(ctx context.Context) (<-chan scanner.File, error) {
	if err := w.watcher.Add(w.dir); err != nil {
		_ = w.watcher.Close()
		return nil, fmt.Errorf("не удалось добавить директорию %s: %w", w.dir, err)
	}

	files := make(chan scanner.File, 100)
	go w.loop(ctx, files)

	return files, nil
}

// loop обрабатывает события и отдаёт файлы после debounce.
// Отправка и закрытие канала происходят в одной горутине.
func (w *Watcher) loop(ctx context.Context, files chan<- scanner.File) {
	defer close(files)
	defer w.watcher.Close()

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Только создание, запись и переименование в директорию.
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !scanner.Supported(event.Name) {
				continue
			}
			w.pending[event.Name] = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Str("dir", w.dir).Msg("ошибка watcher")

		case now := <-ticker.C:
			for _, f := range w.ready(now) {
				select {
				case files <- f:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// ready возвращает файлы, по которым не было событий дольше debounce.
func (w *Watcher) ready(now time.Time) []scanner.File {
	var out []scanner.File
	for path, last := range w.pending {
		if now.Sub(last) < w.debounce {
			continue
		}
		delete(w.pending, path)

		// Файл мог быть удалён или перенесён до истечения debounce.
		f, err := scanner.Stat(path)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Close закрывает watcher, если Watch не был вызван.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

/*
Возможные расширения:
- Следить за несколькими товарами одновременно
*/
