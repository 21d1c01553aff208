package storage

import "time"

// RunStatus определяет статус запуска генерации.
type RunStatus string

const (
	// StatusInProgress - запуск выполняется.
	StatusInProgress RunStatus = "in_progress"
	// StatusOK - все варианты записаны.
	StatusOK RunStatus = "ok"
	// StatusPartial - часть вариантов не удалась.
	StatusPartial RunStatus = "partial"
	// StatusFailed - запуск не состоялся.
	StatusFailed RunStatus = "failed"
)

// Artwork - запись листинга для одного исходника.
type Artwork struct {
	// ID - идентификатор записи, он же fileId в именах файлов.
	ID int64

	// Product - тип товара.
	Product string

	// FileName - базовое имя исходника без расширения.
	FileName string

	// SourcePath - путь к исходнику на момент создания записи.
	SourcePath string

	// Description - описание листинга.
	Description string

	// SrcSize - размер исходника в байтах.
	SrcSize int64

	// SrcMtime - время модификации исходника (unix timestamp).
	SrcMtime int64

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// DeletedAt - время мягкого удаления (nil - запись активна).
	DeletedAt *time.Time
}

// ArtworkInput содержит поля для создания записи.
type ArtworkInput struct {
	Product     string
	FileName    string
	SourcePath  string
	Description string
	SrcSize     int64
	SrcMtime    int64
}

// Run - запись журнала запусков.
type Run struct {
	// ID - UUID запуска.
	ID string

	// ArtworkID - запись листинга.
	ArtworkID int64

	// Product - тип товара.
	Product string

	// BaseName - базовое имя выходных файлов.
	BaseName string

	// DateDir - директория с датой.
	DateDir string

	// Orientation - выбранная ветка каталога.
	Orientation string

	// ParamsHash - хэш параметров рендеринга.
	ParamsHash string

	// Status - статус запуска.
	Status RunStatus

	// Error - сообщение об ошибке (если есть).
	Error *string

	// VariantsOK - количество записанных вариантов.
	VariantsOK int

	// VariantsFailed - количество вариантов с ошибкой.
	VariantsFailed int

	// StartedAt - время начала.
	StartedAt time.Time

	// FinishedAt - время завершения.
	FinishedAt *time.Time
}

// RunOutcome содержит итог запуска для FinishRun.
type RunOutcome struct {
	Status         RunStatus
	Orientation    string
	VariantsOK     int
	VariantsFailed int
	Error          string
}

// Stats содержит сводную статистику.
type Stats struct {
	Artworks        int64
	DeletedArtworks int64
	Runs            int64
	RunsOK          int64
	RunsPartial     int64
	RunsFailed      int64
	RunsInProgress  int64
}

/*
Возможные расширения:
- Хранить результат по каждому варианту отдельной таблицей
- Хранить идентификатор листинга на маркетплейсе
*/
