package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestRunReportsChangedFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	watched := filepath.Join(dir, "summary.json")
	other := filepath.Join(dir, "other.json")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := New([]string{watched})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, 20*time.Millisecond, func(changed []string) { calls <- changed })
	}()

	if err := os.WriteFile(other, []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(watched, []byte(`{"problems":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case changed := <-calls:
		if len(changed) != 1 || changed[0] != watched {
			t.Fatalf("changed = %v, want [%s]", changed, watched)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestNewRequiresFiles(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for empty path list")
	}
	if _, err := New([]string{filepath.Join(t.TempDir(), "missing-dir", "x.json")}); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestRunReturnsWithoutEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "schema.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New([]string{path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, time.Millisecond, func([]string) { t.Error("unexpected change notification") })
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run blocked before watching")
	}
}
