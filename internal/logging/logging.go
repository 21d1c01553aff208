// Package logging настраивает zerolog для утилиты.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New создаёт логгер с указанным уровнем.
// console=true включает человекочитаемый вывод, иначе JSON построчно.
func New(level string, console bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, console)
}

// NewWithWriter создаёт логгер, пишущий в w.
func NewWithWriter(w io.Writer, level string, console bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel преобразует строку в уровень; неизвестные значения дают info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// IsTerminal сообщает, подключён ли stderr к терминалу.
func IsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
