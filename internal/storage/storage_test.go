package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "db", "state.sqlite"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEnsureArtwork_StableID(t *testing.T) {
	s := newTestStorage(t)
	in := ArtworkInput{Product: "blanket", FileName: "aurora", SourcePath: "/r/aurora.png", SrcSize: 10}

	first, created, err := s.EnsureArtwork(in)
	if err != nil {
		t.Fatalf("EnsureArtwork() error = %v", err)
	}
	if !created || first.ID <= 0 {
		t.Fatalf("first call: created=%v id=%d", created, first.ID)
	}

	second, created, err := s.EnsureArtwork(in)
	if err != nil {
		t.Fatal(err)
	}
	if created || second.ID != first.ID {
		t.Errorf("second call: created=%v id=%d, want existing id %d", created, second.ID, first.ID)
	}

	other, _, err := s.EnsureArtwork(ArtworkInput{Product: "pillow", FileName: "aurora", SourcePath: "/p/aurora.png"})
	if err != nil {
		t.Fatal(err)
	}
	if other.ID == first.ID {
		t.Error("different product must get its own record")
	}
}

func TestSoftDeleteArtwork(t *testing.T) {
	s := newTestStorage(t)
	in := ArtworkInput{Product: "pillow", FileName: "tile", SourcePath: "/x/tile.png"}

	a, _, err := s.EnsureArtwork(in)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SoftDeleteArtwork(a.ID); err != nil {
		t.Fatalf("SoftDeleteArtwork() error = %v", err)
	}
	if _, err := s.GetArtwork(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetArtwork() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.SoftDeleteArtwork(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}

	// После удаления тот же исходник получает новую запись.
	b, created, err := s.EnsureArtwork(in)
	if err != nil {
		t.Fatal(err)
	}
	if !created || b.ID == a.ID {
		t.Errorf("recreated: created=%v id=%d (old %d)", created, b.ID, a.ID)
	}

	st, err := s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Artworks != 1 || st.DeletedArtworks != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestRuns(t *testing.T) {
	s := newTestStorage(t)
	a, _, err := s.EnsureArtwork(ArtworkInput{Product: "desk-mat", FileName: "sunset", SourcePath: "/x"})
	if err != nil {
		t.Fatal(err)
	}

	okID, err := s.StartRun(a.ID, "desk-mat", "sunset", "01-01-2025", "hash")
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	partialID, _ := s.StartRun(a.ID, "desk-mat", "sunset", "02-01-2025", "hash")
	_, _ = s.StartRun(a.ID, "desk-mat", "sunset", "03-01-2025", "hash")

	if err := s.FinishRun(okID, RunOutcome{Status: StatusOK, Orientation: "standard", VariantsOK: 4}); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}
	if err := s.FinishRun(partialID, RunOutcome{Status: StatusPartial, VariantsOK: 3, VariantsFailed: 1, Error: "boom"}); err != nil {
		t.Fatal(err)
	}
	if err := s.FinishRun("missing", RunOutcome{Status: StatusOK}); !errors.Is(err, ErrNotFound) {
		t.Errorf("FinishRun(missing) error = %v, want ErrNotFound", err)
	}

	run, err := s.GetRun(partialID)
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != StatusPartial || run.Error == nil || *run.Error != "boom" || run.FinishedAt == nil {
		t.Errorf("run = %+v", run)
	}

	n, err := s.CleanupInProgress()
	if err != nil || n != 1 {
		t.Errorf("CleanupInProgress() = %d, %v; want 1", n, err)
	}

	st, err := s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{Artworks: 1, Runs: 3, RunsOK: 1, RunsPartial: 1, RunsFailed: 1}
	if *st != want {
		t.Errorf("stats = %+v, want %+v", *st, want)
	}
}

func TestListArtworks(t *testing.T) {
	s := newTestStorage(t)
	for _, in := range []ArtworkInput{
		{Product: "pillow", FileName: "a", SourcePath: "/a"},
		{Product: "pillow", FileName: "b", SourcePath: "/b"},
		{Product: "blanket", FileName: "c", SourcePath: "/c"},
	} {
		if _, _, err := s.EnsureArtwork(in); err != nil {
			t.Fatal(err)
		}
	}

	pillows, err := s.ListArtworks("pillow")
	if err != nil {
		t.Fatal(err)
	}
	if len(pillows) != 2 || pillows[0].FileName != "a" {
		t.Errorf("ListArtworks(pillow) = %d records", len(pillows))
	}

	all, _ := s.ListArtworks("")
	if len(all) != 3 {
		t.Errorf("ListArtworks(\"\") = %d records, want 3", len(all))
	}
}
