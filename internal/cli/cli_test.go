package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artemshloyda/printvariants/internal/catalog"
	"github.com/artemshloyda/printvariants/internal/config"
	"github.com/artemshloyda/printvariants/internal/product"
)

// isolate уводит поиск .env и printvariants.yaml во временные директории.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvRoot, "")
	t.Setenv(config.EnvDB, "")
	t.Setenv(config.EnvLogLevel, "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	yaml := "root: /from-file\nrender:\n  quality: 80\n  filter: box\nprocessing:\n  workers: 3\n"
	if err := os.WriteFile(filepath.Join(dir, "printvariants.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvRoot, "/from-env")

	opts := &options{}
	cmd := newGenerateCmd(opts)
	if err := cmd.Flags().Parse([]string{"--preset", "draft", "--quality", "70", "--product", "Woven_Blanket"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := opts.load(cmd)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.RootDir != "/from-env" {
		t.Errorf("RootDir = %q, ожидалось значение из окружения", cfg.RootDir)
	}
	if cfg.Quality != 70 {
		t.Errorf("Quality = %d, флаг должен перекрывать пресет и файл", cfg.Quality)
	}
	if cfg.Filter != "linear" {
		t.Errorf("Filter = %q, ожидался фильтр пресета draft", cfg.Filter)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, ожидалось значение из файла", cfg.Workers)
	}
	if cfg.Product != product.WovenBlanket {
		t.Errorf("Product = %q", cfg.Product)
	}
}

func TestLoadRejectsUnknownPreset(t *testing.T) {
	isolate(t)

	opts := &options{}
	cmd := newGenerateCmd(opts)
	if err := cmd.Flags().Parse([]string{"--preset", "poster"}); err != nil {
		t.Fatal(err)
	}
	if _, err := opts.load(cmd); err == nil {
		t.Error("ожидалась ошибка для неизвестного пресета")
	}
}

func TestCatalogCommand(t *testing.T) {
	isolate(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
		absent   []string
	}{
		{
			name:     "один товар",
			args:     []string{"catalog", "--product", "pillow"},
			contains: []string{"NAME", "OUTPUT", catalog.PrimarySuffix(product.Pillow), "standard"},
			absent:   []string{"Desk Mat"},
		},
		{
			name:     "портретная ветка",
			args:     []string{"catalog", "--product", "blanket", "--orientation", "portrait"},
			contains: []string{"portrait"},
		},
		{
			name:     "все товары",
			args:     []string{"catalog"},
			contains: []string{"Desk Mat", "Pillow", "Blanket", "Woven Blanket"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("catalog: %v\n%s", err, out)
			}
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("вывод не содержит %q:\n%s", s, out)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out, s) {
					t.Errorf("вывод не должен содержать %q", s)
				}
			}
		})
	}
}

func TestCatalogUnknownProduct(t *testing.T) {
	isolate(t)

	if _, err := run(t, "catalog", "--product", "mug"); err == nil {
		t.Error("ожидалась ошибка для неизвестного товара")
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "printvariants "+Version) {
		t.Errorf("неожиданный вывод: %q", out)
	}
}

func TestRelocateCommand(t *testing.T) {
	root := isolate(t)

	rescale := filepath.Join(root, product.Pillow.Info().Dir, config.RescaleDirName)
	if err := os.MkdirAll(rescale, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rescale, "tile.png"), []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "relocate", "--root", root, "--product", "pillow", "tile.png", "missing")
	if err != nil {
		t.Fatalf("relocate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Перенесено файлов: 1") {
		t.Errorf("неожиданный вывод:\n%s", out)
	}
	if !strings.Contains(out, "missing: не найден") {
		t.Errorf("нет предупреждения о missing:\n%s", out)
	}

	archived := filepath.Join(root, product.Pillow.Info().Dir, config.CompletedDirName, "tile.png")
	if _, err := os.Stat(archived); err != nil {
		t.Errorf("файл не перенесён в архив: %v", err)
	}
}

func TestRelocateRequiresProduct(t *testing.T) {
	root := isolate(t)

	if _, err := run(t, "relocate", "--root", root, "tile"); err == nil {
		t.Error("ожидалась ошибка без --product")
	}
}

func TestStatsCommand(t *testing.T) {
	isolate(t)
	db := filepath.Join(t.TempDir(), "state.sqlite")

	out, err := run(t, "stats", "--db", db, "--list")
	if err != nil {
		t.Fatalf("stats: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Листингов: 0") || !strings.Contains(out, "ID") {
		t.Errorf("неожиданный вывод:\n%s", out)
	}
}
