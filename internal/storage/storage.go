// Package storage хранит записи листингов и журнал запусков в SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// ErrNotFound - запись не найдена или мягко удалена.
var ErrNotFound = errors.New("запись не найдена")

// Storage предоставляет методы для работы с базой данных.
type Storage struct {
	db  *sql.DB
	now func() time.Time
}

// New создаёт новое подключение к SQLite и выполняет миграции.
func New(dbPath string) (*Storage, error) {
	// Создаём директорию для БД, если не существует
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию для БД: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_foreign_keys=on", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть БД: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}

	// SQLite не поддерживает concurrent writes
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Storage{db: db, now: time.Now}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("не удалось выполнить миграции: %w", err)
	}

	return s, nil
}

// migrate выполняет все SQL-миграции.
func (s *Storage) migrate() error {
	for i, m := range GetMigrations() {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("миграция %d: %w", i+1, err)
		}
	}
	return nil
}

// Close закрывает подключение к БД.
func (s *Storage) Close() error {
	return s.db.Close()
}

// EnsureArtwork возвращает активную запись для (product, file_name),
// создавая её при отсутствии. created=true, если запись новая.
func (s *Storage) EnsureArtwork(in ArtworkInput) (a *Artwork, created bool, err error) {
	if in.Product == "" || in.FileName == "" {
		return nil, false, fmt.Errorf("не указан товар или имя файла")
	}

	res, err := s.db.Exec(`
		INSERT INTO artworks (product, file_name, source_path, description, src_size, src_mtime, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Product, in.FileName, in.SourcePath, in.Description, in.SrcSize, in.SrcMtime, s.now().Unix(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			a, err := s.FindArtwork(in.Product, in.FileName)
			return a, false, err
		}
		return nil, false, fmt.Errorf("не удалось создать запись %s/%s: %w", in.Product, in.FileName, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("не удалось получить ID записи: %w", err)
	}

	a, err = s.GetArtwork(id)
	return a, true, err
}

const artworkColumns = `id, product, file_name, source_path, description, src_size, src_mtime, created_at, deleted_at`

// GetArtwork возвращает активную запись по id.
func (s *Storage) GetArtwork(id int64) (*Artwork, error) {
	row := s.db.QueryRow(`SELECT `+artworkColumns+` FROM artworks WHERE id = ? AND deleted_at IS NULL`, id)
	return scanArtwork(row)
}

// FindArtwork возвращает активную запись по товару и имени файла.
func (s *Storage) FindArtwork(product, fileName string) (*Artwork, error) {
	row := s.db.QueryRow(`SELECT `+artworkColumns+` FROM artworks
		WHERE product = ? AND file_name = ? AND deleted_at IS NULL`, product, fileName)
	return scanArtwork(row)
}

// ListArtworks возвращает активные записи товара (все товары при пустом product).
func (s *Storage) ListArtworks(product string) ([]*Artwork, error) {
	query := `SELECT ` + artworkColumns + ` FROM artworks WHERE deleted_at IS NULL`
	var args []interface{}
	if product != "" {
		query += ` AND product = ?`
		args = append(args, product)
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить список записей: %w", err)
	}
	defer rows.Close()

	var out []*Artwork
	for rows.Next() {
		a, err := scanArtwork(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SoftDeleteArtwork помечает запись удалённой. Файлы на диске не трогаются.
func (s *Storage) SoftDeleteArtwork(id int64) error {
	res, err := s.db.Exec(`UPDATE artworks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, s.now().Unix(), id)
	if err != nil {
		return fmt.Errorf("не удалось удалить запись %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("запись %d: %w", id, ErrNotFound)
	}
	return nil
}

// StartRun создаёт запись о запуске со статусом in_progress и возвращает её UUID.
func (s *Storage) StartRun(artworkID int64, product, baseName, dateDir, paramsHash string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO runs (id, artwork_id, product, base_name, date_dir, params_hash, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, artworkID, product, baseName, dateDir, paramsHash, StatusInProgress, s.now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("не удалось создать запуск для %s: %w", baseName, err)
	}
	return id, nil
}

// FinishRun фиксирует итог запуска.
func (s *Storage) FinishRun(id string, out RunOutcome) error {
	var errMsg *string
	if out.Error != "" {
		errMsg = &out.Error
	}
	res, err := s.db.Exec(`
		UPDATE runs SET status = ?, orientation = ?, variants_ok = ?, variants_failed = ?, error = ?, finished_at = ?
		WHERE id = ?`,
		out.Status, out.Orientation, out.VariantsOK, out.VariantsFailed, errMsg, s.now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("не удалось обновить запуск %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("запуск %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetRun возвращает запуск по UUID.
func (s *Storage) GetRun(id string) (*Run, error) {
	var (
		r          Run
		status     string
		startedAt  int64
		finishedAt sql.NullInt64
	)
	err := s.db.QueryRow(`
		SELECT id, artwork_id, product, base_name, date_dir, orientation, params_hash, status, error,
		       variants_ok, variants_failed, started_at, finished_at
		FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.ArtworkID, &r.Product, &r.BaseName, &r.DateDir, &r.Orientation, &r.ParamsHash,
			&status, &r.Error, &r.VariantsOK, &r.VariantsFailed, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("запуск %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать запуск %s: %w", id, err)
	}
	r.Status = RunStatus(status)
	r.StartedAt = time.Unix(startedAt, 0)
	if finishedAt.Valid {
		t := time.Unix(finishedAt.Int64, 0)
		r.FinishedAt = &t
	}
	return &r, nil
}

// GetStats возвращает статистику по записям и запускам.
func (s *Storage) GetStats() (*Stats, error) {
	var st Stats
	if err := s.db.QueryRow("SELECT COUNT(*) FROM artworks WHERE deleted_at IS NULL").Scan(&st.Artworks); err != nil {
		return nil, fmt.Errorf("не удалось получить статистику: %w", err)
	}
	_ = s.db.QueryRow("SELECT COUNT(*) FROM artworks WHERE deleted_at IS NOT NULL").Scan(&st.DeletedArtworks)
	_ = s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&st.Runs)
	_ = s.db.QueryRow("SELECT COUNT(*) FROM runs WHERE status = ?", StatusOK).Scan(&st.RunsOK)
	_ = s.db.QueryRow("SELECT COUNT(*) FROM runs WHERE status = ?", StatusPartial).Scan(&st.RunsPartial)
	_ = s.db.QueryRow("SELECT COUNT(*) FROM runs WHERE status = ?", StatusFailed).Scan(&st.RunsFailed)
	_ = s.db.QueryRow("SELECT COUNT(*) FROM runs WHERE status = ?", StatusInProgress).Scan(&st.RunsInProgress)
	return &st, nil
}

// CleanupInProgress переводит незавершённые запуски в failed.
// Вызывается при старте для очистки после аварийного завершения.
func (s *Storage) CleanupInProgress() (int64, error) {
	result, err := s.db.Exec(
		"UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE status = ?",
		StatusFailed, "прервано при предыдущем запуске", s.now().Unix(), StatusInProgress,
	)
	if err != nil {
		return 0, fmt.Errorf("не удалось очистить in_progress: %w", err)
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanArtwork(row scanner) (*Artwork, error) {
	var (
		a         Artwork
		createdAt int64
		deletedAt sql.NullInt64
	)
	err := row.Scan(&a.ID, &a.Product, &a.FileName, &a.SourcePath, &a.Description,
		&a.SrcSize, &a.SrcMtime, &createdAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать запись: %w", err)
	}
	a.CreatedAt = time.Unix(createdAt, 0)
	if deletedAt.Valid {
		t := time.Unix(deletedAt.Int64, 0)
		a.DeletedAt = &t
	}
	return &a, nil
}

// isUniqueConstraintError проверяет, является ли ошибка нарушением уникальности.
func isUniqueConstraintError(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

/*
Возможные расширения:
- Добавить метод для экспорта статистики в JSON
- Добавить метод для очистки старых запусков
*/
