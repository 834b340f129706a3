package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/storage"
)

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) add(c Change) {
	r.mu.Lock()
	r.changes = append(r.changes, c)
	r.mu.Unlock()
}

func (r *recorder) has(want Change) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.changes {
		if c == want {
			return true
		}
	}
	return false
}

func (r *recorder) paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.changes {
		out = append(out, c.Path)
	}
	return out
}

func startWatcher(t *testing.T) (string, *recorder) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rec := &recorder{}
	go Watch(ctx, store, root, logger, rec.add)
	time.Sleep(100 * time.Millisecond)
	return root, rec
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_CreateReportsChecksum(t *testing.T) {
	root, rec := startWatcher(t)

	content := []byte("ASAP2_VERSION 1 71")
	_ = os.WriteFile(filepath.Join(root, "ecu.a2l"), content, 0o644)
	_ = os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644)

	want := Change{Kind: Created, Path: "ecu.a2l", Checksum: storage.Checksum(content)}
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool { return rec.has(want) },
		"expected created change for ecu.a2l")

	for _, p := range rec.paths() {
		if p == "notes.txt" {
			t.Error("non-A2L file reported")
		}
	}
}

func TestWatcher_UpdateAndDelete(t *testing.T) {
	root, rec := startWatcher(t)
	path := filepath.Join(root, "ecu.a2l")
	_ = os.WriteFile(path, []byte("v1"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has(Change{Kind: Created, Path: "ecu.a2l", Checksum: storage.Checksum([]byte("v1"))})
	}, "expected create")

	_ = os.WriteFile(path, []byte("v2"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has(Change{Kind: Updated, Path: "ecu.a2l", Checksum: storage.Checksum([]byte("v2"))})
	}, "expected update with new checksum")

	_ = os.Remove(path)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has(Change{Kind: Deleted, Path: "ecu.a2l"})
	}, "expected delete")
}

func TestWatcher_NewDirWatched(t *testing.T) {
	root, rec := startWatcher(t)

	subDir := filepath.Join(root, "variants")
	_ = os.MkdirAll(subDir, 0o755)
	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(subDir, "deep.a2l"), []byte("deep"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has(Change{Kind: Created, Path: "variants/deep.a2l", Checksum: storage.Checksum([]byte("deep"))})
	}, "file in new subdir not reported")
}
