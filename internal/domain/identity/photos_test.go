package identity

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskPhotoStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskPhotoStore(dir, "/api/v1/uploads/profile_photos")
	if err != nil {
		t.Fatal(err)
	}

	url, err := store.Save(context.Background(), "1_abcd1234.jpg", strings.NewReader("jpeg bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if url != "/api/v1/uploads/profile_photos/1_abcd1234.jpg" {
		t.Fatalf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "1_abcd1234.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "jpeg bytes" {
		t.Fatalf("stored bytes = %q", data)
	}

	if err := store.Remove(context.Background(), url); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "1_abcd1234.jpg")); !os.IsNotExist(err) {
		t.Fatal("file not removed")
	}
}

func TestDiskPhotoStoreSaveStripsPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskPhotoStore(dir, "/uploads")
	if err != nil {
		t.Fatal(err)
	}

	// A hostile filename must not escape the photo directory.
	url, err := store.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if url != "/uploads/passwd" {
		t.Fatalf("url = %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "passwd")); err != nil {
		t.Fatalf("sanitized file missing: %v", err)
	}
}

func TestDiskPhotoStoreRemoveMissingIsNoError(t *testing.T) {
	store, err := NewDiskPhotoStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(context.Background(), "/uploads/never-existed.png"); err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
}
