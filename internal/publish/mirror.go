// Package publish отдаёт сгенерированные варианты внешним потребителям:
// зеркалирует их в MinIO и находит нужные рендеры для выгрузки на маркетплейс.
package publish

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/artemshloyda/printvariants/internal/config"
	"github.com/artemshloyda/printvariants/internal/product"
)

// ErrDisabled - зеркалирование не настроено.
var ErrDisabled = errors.New("зеркалирование в MinIO не настроено")

// ContentType - MIME-тип всех вариантов.
const ContentType = "image/jpeg"

// Mirror загружает варианты в бакет MinIO.
type Mirror struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

// NewMirror создаёт клиент MinIO по настройкам.
func NewMirror(cfg config.MinIOConfig, logger zerolog.Logger) (*Mirror, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать клиент MinIO: %w", err)
	}

	return &Mirror{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// EnsureBucket создаёт бакет, если его нет.
func (m *Mirror) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("не удалось проверить бакет %s: %w", m.bucket, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("не удалось создать бакет %s: %w", m.bucket, err)
		}
	}
	return nil
}

// Publish загружает файлы под ключами {product}/{date}/{filename}.
// Загружаются все файлы; возвращается количество загруженных и первая ошибка.
func (m *Mirror) Publish(ctx context.Context, t product.Type, date string, files []string) (int, error) {
	var (
		uploaded int
		firstErr error
	)
	for _, f := range files {
		key := ObjectKey(t, date, filepath.Base(f))
		info, err := m.client.FPutObject(ctx, m.bucket, key, f, minio.PutObjectOptions{ContentType: ContentType})
		if err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("не удалось загрузить вариант")
			if firstErr == nil {
				firstErr = fmt.Errorf("не удалось загрузить %s в %s: %w", f, m.bucket, err)
			}
			continue
		}
		m.logger.Debug().Str("key", key).Int64("bytes", info.Size).Msg("вариант загружен")
		uploaded++
	}
	return uploaded, firstErr
}

// ObjectKey строит ключ объекта для варианта.
func ObjectKey(t product.Type, date, filename string) string {
	return path.Join(string(t), date, filename)
}
