package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAssistantPaths(t *testing.T) {
	home := "/home/alice"

	dir := AssistantDir(home)
	if dir != filepath.Join(home, ".claude") {
		t.Errorf("AssistantDir() = %q", dir)
	}
	if got := PolicyPath(dir); got != filepath.Join(home, ".claude", "CLAUDE.md") {
		t.Errorf("PolicyPath() = %q", got)
	}
	if got := SettingsPath(dir); got != filepath.Join(home, ".claude", "settings.json") {
		t.Errorf("SettingsPath() = %q", got)
	}

	// An overridden target directory flows straight through
	if got := PolicyPath("/etc/assistant"); got != filepath.Join("/etc/assistant", "CLAUDE.md") {
		t.Errorf("PolicyPath() = %q", got)
	}
}

func TestRCCandidates_Order(t *testing.T) {
	home := "/home/alice"
	got := RCCandidates(home)

	want := []string{
		filepath.Join(home, ".bashrc"),
		filepath.Join(home, ".zshrc"),
		filepath.Join(home, ".profile"),
	}

	if len(got) != len(want) {
		t.Fatalf("RCCandidates() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RCCandidates()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}

	// Idempotent on existing directory
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("EnsureDir() second call error: %v", err)
	}
}

func TestResolveHome(t *testing.T) {
	home, err := ResolveHome()
	if err != nil {
		t.Fatalf("ResolveHome() error: %v", err)
	}
	if home == "" {
		t.Error("expected non-empty home")
	}
}
