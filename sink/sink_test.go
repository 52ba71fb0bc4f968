package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		errMsg string
	}{
		{"simple", "client.json", ""},
		{"nested", "META-INF/apischema/client.json", ""},
		{"dots in name", "a..b/client.json", ""},
		{"empty", "", "empty"},
		{"absolute", "/etc/client.json", "absolute paths not allowed"},
		{"drive letter", "C:client.json", "absolute paths not allowed"},
		{"parent", "../client.json", "path traversal not allowed"},
		{"inner parent", "a/../client.json", "path traversal not allowed"},
		{"only parent", "..", "path traversal not allowed"},
		{"current dir", "./client.json", "not clean"},
		{"double slash", "a//client.json", "not clean"},
		{"trailing slash", "a/", "not clean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("ValidatePath(%q) error = %v", tt.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ValidatePath(%q) error = %v, want %q", tt.path, err, tt.errMsg)
			}
		})
	}
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()
	sink := NewMemorySink()

	content := []byte("first")
	if err := sink.WriteFile(ctx, "a.json", content); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	content[0] = 'X'
	if got := string(sink.Get("a.json")); got != "first" {
		t.Errorf("Get() = %q, the sink should keep its own copy", got)
	}
	if sink.Get("missing.json") != nil {
		t.Error("Get() of a missing path should be nil")
	}

	if err := sink.WriteFile(ctx, "a.json", []byte("second")); err != nil {
		t.Fatal(err)
	}
	files := sink.Files()
	if len(files) != 1 || string(files["a.json"]) != "second" {
		t.Errorf("Files() = %q", files)
	}

	if err := sink.WriteFile(ctx, "../escape.json", nil); err == nil {
		t.Error("WriteFile() with an invalid path should fail")
	}
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := sink.WriteFile(canceled, "b.json", nil); err == nil {
		t.Error("WriteFile() with a canceled context should fail")
	}

	sink.Reset()
	if len(sink.Files()) != 0 {
		t.Error("Reset() should remove every artifact")
	}
}

func TestMemorySinkConcurrent(t *testing.T) {
	ctx := context.Background()
	sink := NewMemorySink()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := sink.WriteFile(ctx, fmt.Sprintf("out/%d.json", i), []byte("{}")); err != nil {
				t.Errorf("WriteFile() error = %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			_ = sink.Files()
			_ = sink.Get("out/0.json")
		}()
	}
	wg.Wait()

	if got := len(sink.Files()); got != 50 {
		t.Errorf("got %d artifacts, want 50", got)
	}
}

func TestFilesystemSink(t *testing.T) {
	ctx := context.Background()

	t.Run("creates parent directories", func(t *testing.T) {
		root := t.TempDir()
		if err := NewFilesystemSink(root).WriteFile(ctx, "a/b/client.json", []byte("{}")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		got, err := os.ReadFile(filepath.Join(root, "a", "b", "client.json"))
		if err != nil || string(got) != "{}" {
			t.Errorf("ReadFile() = %q, %v", got, err)
		}
	})

	t.Run("mode", func(t *testing.T) {
		root := t.TempDir()
		sink := NewFilesystemSink(root)
		sink.Mode = 0600
		if err := sink.WriteFile(ctx, "client.json", []byte("{}")); err != nil {
			t.Fatal(err)
		}
		info, err := os.Stat(filepath.Join(root, "client.json"))
		if err != nil {
			t.Fatal(err)
		}
		if mode := info.Mode().Perm(); mode != 0600 {
			t.Errorf("mode = %o, want 600", mode)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		root := t.TempDir()
		sink := NewFilesystemSink(root)
		for _, content := range []string{"first", "second"} {
			if err := sink.WriteFile(ctx, "client.json", []byte(content)); err != nil {
				t.Fatal(err)
			}
		}
		got, _ := os.ReadFile(filepath.Join(root, "client.json"))
		if string(got) != "second" {
			t.Errorf("content = %q, want second", got)
		}
	})

	t.Run("no overwrite", func(t *testing.T) {
		root := t.TempDir()
		sink := NewFilesystemSink(root)
		sink.Overwrite = false
		if err := sink.WriteFile(ctx, "client.json", []byte("first")); err != nil {
			t.Fatal(err)
		}
		err := sink.WriteFile(ctx, "client.json", []byte("second"))
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("WriteFile() error = %v, want already exists", err)
		}
		got, _ := os.ReadFile(filepath.Join(root, "client.json"))
		if string(got) != "first" {
			t.Errorf("content = %q, want first", got)
		}
		entries, _ := os.ReadDir(root)
		if len(entries) != 1 {
			t.Errorf("temp files left behind: %v", entries)
		}
	})

	t.Run("invalid path", func(t *testing.T) {
		if err := NewFilesystemSink(t.TempDir()).WriteFile(ctx, "../client.json", nil); err == nil {
			t.Error("WriteFile() should reject paths outside the root")
		}
	})
}
