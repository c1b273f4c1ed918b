package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeCheck(t *testing.T) {
	t.Run("resolvable home passes", func(t *testing.T) {
		r := NewHomeCheck(t.TempDir()).Run()
		assert.Equal(t, SeverityPass, r.Status)
	})

	t.Run("empty home is fatal", func(t *testing.T) {
		r := NewHomeCheck("").Run()
		assert.Equal(t, SeverityError, r.Status)
		assert.NotEmpty(t, r.FixHint)
	})

	t.Run("missing directory is fatal", func(t *testing.T) {
		r := NewHomeCheck(filepath.Join(t.TempDir(), "absent")).Run()
		assert.Equal(t, SeverityError, r.Status)
	})
}

func TestTargetDirCheck(t *testing.T) {
	t.Run("absent dir with writable parent passes", func(t *testing.T) {
		r := NewTargetDirCheck(filepath.Join(t.TempDir(), ".claude")).Run()
		assert.Equal(t, SeverityPass, r.Status)
	})

	t.Run("deeply nested absent dir probes nearest ancestor", func(t *testing.T) {
		r := NewTargetDirCheck(filepath.Join(t.TempDir(), "a", "b", ".claude")).Run()
		assert.Equal(t, SeverityPass, r.Status, "setup creates missing parents")
	})

	t.Run("existing writable dir passes", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), ".claude")
		require.NoError(t, os.Mkdir(dir, 0o700))
		r := NewTargetDirCheck(dir).Run()
		assert.Equal(t, SeverityPass, r.Status)
	})

	t.Run("file in place of dir is fatal", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), ".claude")
		require.NoError(t, os.WriteFile(dir, []byte("x"), 0o644))
		r := NewTargetDirCheck(dir).Run()
		assert.Equal(t, SeverityError, r.Status)
	})

	t.Run("empty dir is fatal", func(t *testing.T) {
		r := NewTargetDirCheck("").Run()
		assert.Equal(t, SeverityError, r.Status)
	})

	t.Run("probe leaves nothing behind", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), ".claude")
		require.NoError(t, os.Mkdir(dir, 0o700))
		NewTargetDirCheck(dir).Run()

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestSettingsCheck(t *testing.T) {
	t.Run("missing settings document passes", func(t *testing.T) {
		r := NewSettingsCheck(t.TempDir()).Run()
		assert.Equal(t, SeverityPass, r.Status)
	})

	t.Run("valid JSON passes", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "settings.json"), []byte(`{"features": {}}`), 0o644))
		r := NewSettingsCheck(dir).Run()
		assert.Equal(t, SeverityPass, r.Status)
	})

	t.Run("invalid JSON warns but never aborts", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "settings.json"), []byte("{broken"), 0o644))
		r := NewSettingsCheck(dir).Run()
		assert.Equal(t, SeverityWarning, r.Status)
		assert.NotEmpty(t, r.FixHint)
	})
}

func TestRuntimeCheck(t *testing.T) {
	t.Run("missing binary warns", func(t *testing.T) {
		r := NewRuntimeCheck("definitely-not-a-real-binary-xyz", "testing").Run()
		assert.Equal(t, SeverityWarning, r.Status, "optional deps never abort")
	})

	t.Run("present binary passes", func(t *testing.T) {
		// `go` must exist wherever the tests run
		r := NewRuntimeCheck("go", "testing").Run()
		assert.Equal(t, SeverityPass, r.Status)
	})
}

func TestRunAllAndSummarize(t *testing.T) {
	home := t.TempDir()
	checks := []Check{
		NewHomeCheck(home),
		NewTargetDirCheck(filepath.Join(home, ".claude")),
		NewRuntimeCheck("definitely-not-a-real-binary-xyz", "testing"),
	}

	results := RunAll(checks)
	require.Len(t, results, 3)

	s := Summarize(results)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Warnings)
	assert.Equal(t, 0, s.Errors)
	assert.False(t, HasErrors(results))
}

func TestHasErrors(t *testing.T) {
	results := []CheckResult{
		{Status: SeverityPass},
		{Status: SeverityError},
	}
	assert.True(t, HasErrors(results))
}
