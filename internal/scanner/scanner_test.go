package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanner_List(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "c.jpeg", "notes.txt", ".hidden.png", "._a.jpg"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := New(dir).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, f.BaseName+f.Ext)
	}
	want := []string{"a.jpg", "b.png", "c.jpeg"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
	if files[0].Size != 1 || !filepath.IsAbs(files[0].Path) {
		t.Errorf("file info = %+v", files[0])
	}
}

func TestScanner_MissingDir(t *testing.T) {
	files, err := New(filepath.Join(t.TempDir(), "missing")).List()
	if err != nil || len(files) != 0 {
		t.Errorf("List() = %v, %v; want empty, nil", files, err)
	}
}

func TestStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sunset_portrait.png")
	touch(t, path)

	f, err := Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if f.BaseName != "sunset_portrait" || f.Ext != ".png" {
		t.Errorf("Stat() = %+v", f)
	}

	txt := filepath.Join(dir, "x.txt")
	touch(t, txt)
	if _, err := Stat(txt); err == nil {
		t.Error("Stat() on unsupported extension expected error")
	}
	if _, err := Stat(dir); err == nil {
		t.Error("Stat() on directory expected error")
	}
}
