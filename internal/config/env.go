package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Переменные окружения, которые читает утилита.
const (
	EnvRoot           = "PRINTVARIANTS_ROOT"
	EnvDB             = "PRINTVARIANTS_DB"
	EnvLogLevel       = "PRINTVARIANTS_LOG_LEVEL"
	EnvMinIOEndpoint  = "MINIO_ENDPOINT"
	EnvMinIOAccessKey = "MINIO_ACCESS_KEY"
	EnvMinIOSecretKey = "MINIO_SECRET_KEY"
	EnvMinIOBucket    = "MINIO_BUCKET"
	EnvMinIOUseSSL    = "MINIO_USE_SSL"
)

// LoadDotEnv читает .env и .env.local в окружение процесса.
// Отсутствие файлов не ошибка; уже заданные переменные не перезаписываются.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ApplyEnv применяет переменные окружения поверх файла конфигурации.
func ApplyEnv(cfg *Config) {
	applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvRoot); ok {
		cfg.RootDir = v
	}
	if v, ok := get(EnvDB); ok {
		cfg.DBPath = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := get(EnvMinIOEndpoint); ok {
		cfg.MinIO.Endpoint = v
	}
	if v, ok := get(EnvMinIOAccessKey); ok {
		cfg.MinIO.AccessKey = v
	}
	if v, ok := get(EnvMinIOSecretKey); ok {
		cfg.MinIO.SecretKey = v
	}
	if v, ok := get(EnvMinIOBucket); ok {
		cfg.MinIO.Bucket = v
	}
	if v, ok := get(EnvMinIOUseSSL); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MinIO.UseSSL = b
		}
	}
}
