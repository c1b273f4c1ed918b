package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadFileWithLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.txt")

	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := ReadFileWithLimit(path)
	if err != nil {
		t.Fatalf("ReadFileWithLimit() error: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("data = %q", data)
	}
}

func TestReadFileWithLimit_Missing(t *testing.T) {
	if _, err := ReadFileWithLimit(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing file")
	}
}
