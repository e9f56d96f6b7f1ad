package storage_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Skryldev/asset-generator/adapters/storage"
)

func TestLocal_EnsureDir_ConcurrentCreate(t *testing.T) {
	fs := storage.NewLocal(0)
	dir := filepath.Join(t.TempDir(), "res", "mipmap-hdpi")

	const goroutines = 16
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = fs.EnsureDir(context.Background(), dir)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d: %v", i, err)
		}
	}
	ok, err := fs.Exists(context.Background(), dir)
	if err != nil || !ok {
		t.Fatalf("Exists(%s) = %v, %v", dir, ok, err)
	}
}

func TestLocal_WriteFile_Replaces(t *testing.T) {
	fs := storage.NewLocal(0o600)
	path := filepath.Join(t.TempDir(), "ic_launcher.xml")
	ctx := context.Background()

	if err := fs.WriteFile(ctx, path, []byte("first version, longer")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := fs.WriteFile(ctx, path, []byte("second")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, []byte("second")) {
		t.Errorf("content: got %q", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestLocal_Exists_Missing(t *testing.T) {
	ok, err := storage.NewLocal(0).Exists(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestLocal_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := storage.NewLocal(0).EnsureDir(ctx, t.TempDir()); err == nil {
		t.Error("expected context error")
	}
}
