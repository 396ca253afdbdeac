package backfill

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeThreadFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunner_DryRun(t *testing.T) {
	dir := t.TempDir()
	writeThreadFile(t, dir, "t1.json",
		`{"storeState":{"messages":[{"role":"user","contents":[{"text":"hola"}]},{"role":"assistant","contents":[{"text":"Buenas."}]}]}}`)
	writeThreadFile(t, dir, "t2.json", `{broken`)
	writeThreadFile(t, dir, "notes.txt", "not a thread")

	cfg := Config{
		ThreadsDir:  dir,
		StatePath:   filepath.Join(dir, "state.json"),
		DryRun:      true,
		MinMessages: 1,
	}
	r := NewRunner(cfg, nil, slog.Default())

	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.FilesSeen != 2 {
		t.Errorf("filesSeen = %d, want 2 (txt file ignored)", summary.FilesSeen)
	}
	if summary.Conversations != 1 {
		t.Errorf("conversations = %d, want 1", summary.Conversations)
	}
	if summary.Messages != 2 {
		t.Errorf("messages = %d, want 2", summary.Messages)
	}
	if len(summary.Errors) != 1 {
		t.Errorf("errors = %v, want the broken file reported", summary.Errors)
	}
}

func TestRunner_MinMessagesGate(t *testing.T) {
	dir := t.TempDir()
	writeThreadFile(t, dir, "short.json",
		`{"storeState":{"messages":[{"role":"user","contents":[{"text":"hola"}]}]}}`)

	cfg := Config{
		ThreadsDir:  dir,
		StatePath:   filepath.Join(dir, "state.json"),
		DryRun:      true,
		MinMessages: 2,
	}
	r := NewRunner(cfg, nil, slog.Default())

	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Conversations != 0 {
		t.Errorf("conversations = %d, want 0 (below gate)", summary.Conversations)
	}
	if summary.FilesSkipped != 1 {
		t.Errorf("filesSkipped = %d, want 1", summary.FilesSkipped)
	}
}

func TestRunner_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeThreadFile(t, dir, "only.json",
		`{"storeState":{"messages":[{"role":"user","contents":[{"text":"hola"}]}]}}`)
	writeThreadFile(t, dir, "ignored.json",
		`{"storeState":{"messages":[{"role":"user","contents":[{"text":"otro"}]}]}}`)

	cfg := Config{
		SingleFile:  path,
		StatePath:   filepath.Join(dir, "state.json"),
		DryRun:      true,
		MinMessages: 1,
	}
	r := NewRunner(cfg, nil, slog.Default())

	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.FilesSeen != 1 || summary.Conversations != 1 {
		t.Errorf("summary = %+v, want exactly the single file", summary)
	}
}

func TestThreadRefForFile(t *testing.T) {
	got := threadRefForFile("/data/threads/2026-08-20-marta.json")
	if got != "export:2026-08-20-marta" {
		t.Errorf("threadRefForFile = %q", got)
	}
}
