package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cyberpills/avisos/internal/schedule"
)

func sampleIndex() *schedule.Index {
	row := schedule.RowContext{Date: "10/02/2026", Day: "Martes", Time: "09:00"}
	return schedule.BuildIndex([]schedule.Visit{
		{Row: row, Group: "1º ESO A", PillTitle: "PAU: el mensaje", Teachers: []string{"Laura Gil"}},
		{Row: row, Group: "1º ESO B", Teachers: []string{"Laura Gil", "Pedro Núñez"}, Position: 1},
	})
}

func TestNew_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("data directory not created: %v", err)
	}
	if got := store.SnapshotPath(); got != filepath.Join(dir, SnapshotFile) {
		t.Errorf("SnapshotPath() = %q", got)
	}
}

func TestLoadSnapshot_Missing(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	snap, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot() error: %v", err)
	}
	if snap == nil || snap.Teachers == nil || len(snap.Teachers) != 0 {
		t.Errorf("LoadSnapshot() = %+v, want empty snapshot", snap)
	}
}

func TestSaveAndLoadIndex(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ix := sampleIndex()
	if err := store.SaveIndex(ix); err != nil {
		t.Fatalf("SaveIndex() error: %v", err)
	}

	snap, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot() error: %v", err)
	}
	if snap.UpdatedAt == "" {
		t.Error("UpdatedAt not set")
	}

	diff := schedule.Diff(snap, ix)
	if len(diff.Teachers) != 0 {
		t.Errorf("Diff against saved snapshot reported new teachers: %v", diff.Teachers)
	}

	if got := len(snap.Teachers["Laura Gil"]); got != 2 {
		t.Errorf("Laura Gil has %d entries, want 2", got)
	}
}

func TestLoadSnapshot_Corrupt(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := os.WriteFile(store.SnapshotPath(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.LoadSnapshot(); err == nil {
		t.Error("LoadSnapshot() expected error for corrupt file, got nil")
	}
}
