package filelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewFileLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock := NewFileLock(lockPath)
	if lock == nil {
		t.Fatal("NewFileLock should not return nil")
	}
	if lock.Path() != lockPath {
		t.Errorf("Expected lock path %s, got %s", lockPath, lock.Path())
	}
}

func TestLockUnlock(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "test.lock"))

	if err := lock.Lock(); err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}
}

func TestTryLockHeldElsewhere(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	holder := NewFileLock(lockPath)
	if err := holder.Lock(); err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	defer holder.Unlock()

	acquired, err := NewFileLock(lockPath).TryLock()
	if err != nil {
		t.Fatalf("TryLock error: %v", err)
	}
	if acquired {
		t.Error("TryLock should fail while another handle holds the lock")
	}
}

func TestLockContextTimeout(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	holder := NewFileLock(lockPath)
	if err := holder.Lock(); err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := NewFileLock(lockPath).LockContext(ctx)
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
}

func TestLockContextAcquiresAfterRelease(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	holder := NewFileLock(lockPath)
	if err := holder.Lock(); err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	go func() {
		time.Sleep(100 * time.Millisecond)
		holder.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	waiter := NewFileLock(lockPath)
	if err := waiter.LockContext(ctx); err != nil {
		t.Fatalf("LockContext should succeed once released: %v", err)
	}
	waiter.Unlock()
}

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "teragon poi list.txt")
	content := []byte("Prefabs\n\tCities\n")

	if err := AtomicWrite(path, content); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("Content mismatch. Expected %q, got %q", content, data)
	}
}

func TestAtomicWritePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh.txt")
	if err := AtomicWrite(fresh, []byte("x")); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	info, err := os.Stat(fresh)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("new file mode = %o, want 644", info.Mode().Perm())
	}

	existing := filepath.Join(dir, "existing.txt")
	if err := os.WriteFile(existing, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(existing, 0600); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWrite(existing, []byte("new")); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	info, err = os.Stat(existing)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("existing file mode = %o, want 600", info.Mode().Perm())
	}
}

func TestAtomicWriteNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	for i := 0; i < 3; i++ {
		if err := AtomicWrite(path, []byte(fmt.Sprintf("run %d", i))); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestAtomicWriteTargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWrite(target, []byte("x")); err == nil {
		t.Error("expected error writing over a directory")
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teragon poi list.txt")

	if err := WriteManifest(context.Background(), path, []byte("first")); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}
	if err := WriteManifest(context.Background(), path, []byte("second")); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("expected manifest to be replaced, got %q", data)
	}
	if _, err := os.Stat(path + ".lock"); err != nil {
		t.Errorf("lock file should exist next to the manifest: %v", err)
	}
}

func TestConcurrentWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.txt")

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			payload := strings.Repeat(fmt.Sprintf("%d", n), 4096)
			errs <- WriteManifest(ctx, path, []byte(payload))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("WriteManifest failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 4096 {
		t.Fatalf("expected 4096 bytes, got %d", len(data))
	}
	if strings.Trim(string(data), string(data[:1])) != "" {
		t.Error("manifest contains bytes from more than one writer")
	}
}
