package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/artemshloyda/printvariants/internal/product"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Quality != 90 {
		t.Errorf("Quality = %d, want 90", cfg.Quality)
	}

	if cfg.Filter != "lanczos" {
		t.Errorf("Filter = %q, want lanczos", cfg.Filter)
	}

	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}

	if cfg.MinIO.Enabled() {
		t.Error("MinIO mirror should be disabled by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.RootDir = "/products"
		cfg.Product = product.DeskMat
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"all products", func(c *Config) { c.Product = "" }, false},
		{"missing root", func(c *Config) { c.RootDir = "" }, true},
		{"unknown product", func(c *Config) { c.Product = "mug" }, true},
		{"invalid quality low", func(c *Config) { c.Quality = 0 }, true},
		{"invalid quality high", func(c *Config) { c.Quality = 101 }, true},
		{"unknown filter", func(c *Config) { c.Filter = "bicubic" }, true},
		{"invalid workers", func(c *Config) { c.Workers = 0 }, true},
		{"negative limit", func(c *Config) { c.Limit = -1 }, true},
		{"negative memory", func(c *Config) { c.MaxMemoryMB = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateDefaultsDBPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootDir = "/products"

	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	want := filepath.Join("/products", ".printvariants", "state.sqlite")
	if cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}
}

func TestConfig_ProductDirs(t *testing.T) {
	cfg := &Config{RootDir: "/products"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"rescale", cfg.RescaleDir(product.Blanket), "/products/blankets/rescale"},
		{"completed", cfg.CompletedDir(product.WovenBlanket), "/products/woven-blankets/completed"},
		{"output", cfg.OutputDir(product.DeskMat), "/products/desk-mats/output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != filepath.FromSlash(tt.want) {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestConfig_RenderParamsHash(t *testing.T) {
	a := &Config{Quality: 90, Filter: "lanczos"}
	b := &Config{Quality: 90, Filter: "lanczos"}
	c := &Config{Quality: 60, Filter: "lanczos"}

	if a.RenderParamsHash() != b.RenderParamsHash() {
		t.Error("equal params should produce equal hashes")
	}
	if a.RenderParamsHash() == c.RenderParamsHash() {
		t.Error("different quality should change the hash")
	}
}

func TestFileConfig_ApplyToConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printvariants.yaml")
	data := `
root: /srv/products
render:
  preset: web
  quality: 88
processing:
  product: woven_blanket
  workers: 2
  archive: true
paths:
  db: /tmp/state.sqlite
minio:
  endpoint: localhost:9000
  bucket: renders
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	fc, found, err := FindAndLoadConfig(path)
	if err != nil {
		t.Fatalf("FindAndLoadConfig() error = %v", err)
	}
	if found != path {
		t.Errorf("found = %q, want %q", found, path)
	}

	cfg := DefaultConfig()
	fc.ApplyToConfig(cfg)

	if cfg.RootDir != "/srv/products" {
		t.Errorf("RootDir = %q", cfg.RootDir)
	}
	// Явное качество перекрывает пресет, фильтр остаётся от пресета.
	if cfg.Quality != 88 || cfg.Filter != "catmullrom" {
		t.Errorf("Quality/Filter = %d/%s, want 88/catmullrom", cfg.Quality, cfg.Filter)
	}
	if cfg.Product != product.WovenBlanket {
		t.Errorf("Product = %q, want %q", cfg.Product, product.WovenBlanket)
	}
	if cfg.Workers != 2 || !cfg.Archive {
		t.Errorf("Workers/Archive = %d/%v", cfg.Workers, cfg.Archive)
	}
	if cfg.DBPath != "/tmp/state.sqlite" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if !cfg.MinIO.Enabled() {
		t.Error("MinIO should be enabled")
	}
}

func TestFindAndLoadConfig_MissingExplicit(t *testing.T) {
	if _, _, err := FindAndLoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvRoot:        "/env/root",
		EnvLogLevel:    "debug",
		EnvMinIOBucket: "renders",
		EnvMinIOUseSSL: "true",
		EnvDB:          "   ",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	cfg.DBPath = "/from/file.sqlite"
	applyEnv(cfg, lookup)

	if cfg.RootDir != "/env/root" || cfg.LogLevel != "debug" {
		t.Errorf("RootDir/LogLevel = %q/%q", cfg.RootDir, cfg.LogLevel)
	}
	if cfg.MinIO.Bucket != "renders" || !cfg.MinIO.UseSSL {
		t.Errorf("MinIO = %+v", cfg.MinIO)
	}
	if cfg.DBPath != "/from/file.sqlite" {
		t.Errorf("blank env value should not override DBPath, got %q", cfg.DBPath)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PRINTVARIANTS_ROOT=/dotenv/root\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvRoot, "")
	os.Unsetenv(EnvRoot)

	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))

	cfg := DefaultConfig()
	ApplyEnv(cfg)
	if cfg.RootDir != "/dotenv/root" {
		t.Errorf("RootDir = %q, want /dotenv/root", cfg.RootDir)
	}
}
