package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pethub-backend/internal/shared/storage/blob"
)

func TestSaveThenOpen(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	n, err := store.Save(ctx, "ab/key-1", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != int64(len("payload")) {
		t.Fatalf("expected %d bytes written, got %d", len("payload"), n)
	}

	rc, err := store.Open(ctx, "ab/key-1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "payload" {
		t.Fatalf("expected payload round trip, got %q", data)
	}
}

func TestSaveLeavesNoPartialFileOnReadError(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	reader := io.MultiReader(strings.NewReader("partial"), failingReader{})
	if _, err := store.Save(ctx, "ab/key-1", reader); err == nil {
		t.Fatalf("expected save error")
	}

	// Neither the key nor a temp leftover may exist.
	if _, err := store.Open(ctx, "ab/key-1"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, ".tmp"))
	if err == nil && len(entries) != 0 {
		t.Fatalf("expected no temp leftovers, found %d", len(entries))
	}
}

func TestOpenMissingKey(t *testing.T) {
	store := New(t.TempDir())

	if _, err := store.Open(context.Background(), "ab/missing"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteToleratesMissingKey(t *testing.T) {
	store := New(t.TempDir())

	if err := store.Delete(context.Background(), "ab/missing"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../outside", "/abs/path", "a/../../outside"} {
		if _, err := store.Save(ctx, key, strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stream broke")
}
