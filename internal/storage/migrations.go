package storage

// migrations содержит SQL-миграции в порядке выполнения.
var migrations = []string{
	// Миграция 1: записи листингов, по одной на исходник.
	// id записи используется как fileId в именах файлов.
	`CREATE TABLE IF NOT EXISTS artworks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product TEXT NOT NULL,
		file_name TEXT NOT NULL,
		source_path TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		src_size INTEGER NOT NULL DEFAULT 0,
		src_mtime INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		deleted_at INTEGER
	);`,

	// Миграция 2: одна активная запись на (товар, имя файла).
	// Повторная генерация того же исходника получает тот же fileId.
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_artworks_active
	ON artworks (product, file_name) WHERE deleted_at IS NULL;`,

	// Миграция 3: журнал запусков генерации.
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		artwork_id INTEGER NOT NULL REFERENCES artworks(id),
		product TEXT NOT NULL,
		base_name TEXT NOT NULL,
		date_dir TEXT NOT NULL,
		orientation TEXT NOT NULL DEFAULT '',
		params_hash TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		error TEXT,
		variants_ok INTEGER NOT NULL DEFAULT 0,
		variants_failed INTEGER NOT NULL DEFAULT 0,
		started_at INTEGER NOT NULL,
		finished_at INTEGER
	);`,

	// Миграция 4: индексы для статистики и поиска запусков по записи.
	`CREATE INDEX IF NOT EXISTS ix_runs_status ON runs (status);`,
	`CREATE INDEX IF NOT EXISTS ix_runs_artwork ON runs (artwork_id);`,

	// Миграция 5: таблица метаданных для версионирования схемы
	`CREATE TABLE IF NOT EXISTS schema_info (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`,

	// Миграция 6: запись версии схемы
	`INSERT OR REPLACE INTO schema_info (key, value) VALUES ('version', '1');`,
}

// GetMigrations возвращает список SQL-миграций.
func GetMigrations() []string {
	return migrations
}
