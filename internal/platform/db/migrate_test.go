package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMigrationsSortsByVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "010_add_indexes.sql", "CREATE INDEX x ON t (a);")
	writeFile(t, dir, "001_init.sql", "CREATE TABLE t (a INT);")
	writeFile(t, dir, "002_seed.sql", "INSERT INTO t VALUES (1);")

	migs, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatal(err)
	}

	if len(migs) != 3 {
		t.Fatalf("len = %d, want 3", len(migs))
	}
	wantVersions := []int{1, 2, 10}
	for i, want := range wantVersions {
		if migs[i].Version != want {
			t.Errorf("migs[%d].Version = %d, want %d", i, migs[i].Version, want)
		}
	}
	if migs[0].Name != "001_init.sql" || migs[0].SQL != "CREATE TABLE t (a INT);" {
		t.Fatalf("first migration = %+v", migs[0])
	}
}

func TestLoadMigrationsSkipsNonMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "001_init.sql", "SELECT 1;")
	writeFile(t, dir, "README.md", "docs")
	writeFile(t, dir, "notes.sql", "no version prefix")
	writeFile(t, dir, "abc_bad.sql", "non-numeric prefix")
	if err := os.Mkdir(filepath.Join(dir, "002_subdir.sql"), 0o755); err != nil {
		t.Fatal(err)
	}

	migs, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatal(err)
	}
	if len(migs) != 1 || migs[0].Name != "001_init.sql" {
		t.Fatalf("migs = %+v, want only 001_init.sql", migs)
	}
}

func TestLoadMigrationsMissingDir(t *testing.T) {
	_, err := NewMigrator(nil, filepath.Join(t.TempDir(), "nope")).LoadMigrations()
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
