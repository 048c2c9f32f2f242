package lockfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	h1 := Hash([]byte("hello world"))
	h2 := Hash([]byte("hello world"))
	if h1 != h2 {
		t.Errorf("Hash not deterministic: %s != %s", h1, h2)
	}
	h3 := Hash([]byte("different"))
	if h1 == h3 {
		t.Errorf("Hash collision: %s == %s", h1, h3)
	}
	if h1 != "5eb63bbbe01eeed093cb22bb8f5acdc3" {
		t.Errorf("Hash = %s, want md5 hex", h1)
	}
}

func TestLoadNonExistent(t *testing.T) {
	lf, err := Load(filepath.Join(t.TempDir(), LockFileName))
	if err != nil {
		t.Fatalf("Load returned error for non-existent file: %v", err)
	}
	if lf.Version != Version {
		t.Errorf("Version = %d, want %d", lf.Version, Version)
	}
	if len(lf.Checksums) != 0 {
		t.Errorf("Checksums not empty: %v", lf.Checksums)
	}
	if lf.Summary() != "empty" {
		t.Errorf("Summary = %q, want empty", lf.Summary())
	}
}

func TestRecordChanges(t *testing.T) {
	lf, err := Load(filepath.Join(t.TempDir(), LockFileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := lf.Record("en", "language/records.html", []byte("v1")); got != Added {
		t.Errorf("first Record = %v, want added", got)
	}
	if got := lf.Record("en", "language/records.html", []byte("v1")); got != Unchanged {
		t.Errorf("same content Record = %v, want unchanged", got)
	}
	if got := lf.Record("en", "language/records.html", []byte("v2")); got != Modified {
		t.Errorf("new content Record = %v, want modified", got)
	}
	if got := lf.Record("de", "language/records.html", []byte("v2")); got != Added {
		t.Errorf("other locale Record = %v, want added", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", LockFileName)

	lf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	lf.Record("en", "index.html", []byte("index"))
	lf.Record("en", filepath.Join("data", "snippets.json"), []byte("[]"))
	lf.Record("de", filepath.Join("de", "index.html"), []byte("index"))

	if err := lf.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Lock file not created at %s", path)
	}

	lf2, err := Load(path)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if got := lf2.Record("en", "data/snippets.json", []byte("[]")); got != Unchanged {
		t.Errorf("reloaded Record = %v, want unchanged", got)
	}
	locales, outputs := lf2.Stats()
	if locales != 2 || outputs != 3 {
		t.Errorf("Stats = (%d, %d), want (2, 3)", locales, outputs)
	}
	if want := "2 locales, 3 files (de: 1 files, en: 2 files)"; lf2.Summary() != want {
		t.Errorf("Summary = %q, want %q", lf2.Summary(), want)
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockFileName)
	if err := os.WriteFile(path, []byte("version: 7\nchecksums: {}\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected version error")
	}
}

func TestClean(t *testing.T) {
	lf, _ := Load(filepath.Join(t.TempDir(), LockFileName))
	lf.Record("en", "a.html", []byte("a"))
	lf.Record("en", "b.html", []byte("b"))
	lf.Record("en", "c.html", []byte("c"))

	stale := lf.Clean("en", []string{"b.html"})
	if !reflect.DeepEqual(stale, []string{"a.html", "c.html"}) {
		t.Errorf("Clean = %v, want [a.html c.html]", stale)
	}
	if lf.Count("en") != 1 {
		t.Errorf("Count = %d, want 1", lf.Count("en"))
	}
	if got := lf.Clean("fr", nil); got != nil {
		t.Errorf("Clean(unknown) = %v, want nil", got)
	}

	lf.RemoveLocale("en")
	if len(lf.Locales()) != 0 {
		t.Errorf("Locales = %v, want none", lf.Locales())
	}
}
