package doctor

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/mhoffman/clawstrap/internal/paths"
	"github.com/mhoffman/clawstrap/pkg/fileutil"
)

// HomeCheck verifies that the operator's home directory is resolvable.
// Every path the installer writes hangs off it, so failure is fatal.
type HomeCheck struct {
	home string
}

var _ Check = (*HomeCheck)(nil)

// NewHomeCheck creates a home directory check. An empty home means
// resolution already failed.
func NewHomeCheck(home string) *HomeCheck {
	return &HomeCheck{home: home}
}

// Name returns the unique identifier for this check.
func (c *HomeCheck) Name() string { return "home-directory" }

// Category returns the grouping for this check.
func (c *HomeCheck) Category() string { return "filesystem" }

// Run executes the check.
func (c *HomeCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.home == "" {
		result.Status = SeverityError
		result.Message = "home directory could not be determined"
		result.FixHint = "Set the HOME environment variable"
		return result
	}

	info, err := os.Stat(c.home)
	if err != nil || !info.IsDir() {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("home directory %s is not accessible", c.home)
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("home directory resolved to %s", c.home)
	return result
}

// TargetDirCheck verifies the resolved target config directory can be
// created, or is writable if it already exists. Failure is fatal: the
// installer aborts before any mutation.
type TargetDirCheck struct {
	dir string
}

var _ Check = (*TargetDirCheck)(nil)

// NewTargetDirCheck creates a check for the resolved target directory.
func NewTargetDirCheck(dir string) *TargetDirCheck {
	return &TargetDirCheck{dir: dir}
}

// Name returns the unique identifier for this check.
func (c *TargetDirCheck) Name() string { return "target-directory" }

// Category returns the grouping for this check.
func (c *TargetDirCheck) Category() string { return "filesystem" }

// Run executes the check.
func (c *TargetDirCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.dir == "" {
		result.Status = SeverityError
		result.Message = "no target directory resolved"
		return result
	}

	info, err := os.Stat(c.dir)
	switch {
	case err == nil && !info.IsDir():
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s exists but is not a directory", c.dir)
		result.FixHint = "Move the file aside and re-run"
		return result

	case err == nil:
		// Directory exists; probe writability without leaving anything behind.
		probe, err := os.CreateTemp(c.dir, ".clawstrap-probe-*")
		if err != nil {
			result.Status = SeverityError
			result.Message = fmt.Sprintf("%s is not writable", c.dir)
			result.FixHint = "Check directory ownership and permissions"
			return result
		}
		probe.Close()
		os.Remove(probe.Name())

	default:
		// Directory absent; setup creates missing parents, so probe the
		// nearest ancestor that actually exists.
		parent := filepath.Dir(c.dir)
		for {
			if _, statErr := os.Stat(parent); statErr == nil {
				break
			}
			next := filepath.Dir(parent)
			if next == parent {
				break
			}
			parent = next
		}
		probe, err := os.CreateTemp(parent, ".clawstrap-probe-*")
		if err != nil {
			result.Status = SeverityError
			result.Message = fmt.Sprintf("cannot create %s: %s is not writable", c.dir, parent)
			result.FixHint = "Check directory ownership and permissions"
			return result
		}
		probe.Close()
		os.Remove(probe.Name())
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("target directory %s is writable", c.dir)
	return result
}

// SettingsCheck inspects a pre-existing settings document in the target
// directory. An unreadable or unparsable file is only a warning: the
// installer backs the file up and replaces it either way, but the operator
// may want to know their hand edits were not valid JSON before the swap.
type SettingsCheck struct {
	dir string
}

var _ Check = (*SettingsCheck)(nil)

// NewSettingsCheck creates a settings document check for the resolved
// target directory.
func NewSettingsCheck(dir string) *SettingsCheck {
	return &SettingsCheck{dir: dir}
}

// Name returns the unique identifier for this check.
func (c *SettingsCheck) Name() string { return "settings-document" }

// Category returns the grouping for this check.
func (c *SettingsCheck) Category() string { return "filesystem" }

// Run executes the check.
func (c *SettingsCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.dir == "" {
		result.Status = SeverityInfo
		result.Message = "no target directory resolved"
		return result
	}

	path := paths.SettingsPath(c.dir)
	data, err := fileutil.ReadFileWithLimit(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		result.Status = SeverityPass
		result.Message = "no existing settings document"

	case err != nil:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("could not read %s: %v", path, err)

	case !json.Valid(data):
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%s is not valid JSON", path)
		result.FixHint = "The file will be backed up and replaced; review the backup if you had local edits"

	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("existing %s parses as JSON", path)
	}
	return result
}

// RuntimeCheck looks for an optional downstream runtime dependency on PATH.
// These are consumed by the provisioned tool, not by the installer, so a
// missing binary is a warning and never aborts the run.
type RuntimeCheck struct {
	binary string
	reason string
}

var _ Check = (*RuntimeCheck)(nil)

// NewRuntimeCheck creates a check for an optional binary.
func NewRuntimeCheck(binary, reason string) *RuntimeCheck {
	return &RuntimeCheck{binary: binary, reason: reason}
}

// Name returns the unique identifier for this check.
func (c *RuntimeCheck) Name() string { return "runtime-" + c.binary }

// Category returns the grouping for this check.
func (c *RuntimeCheck) Category() string { return "runtime" }

// Run executes the check.
func (c *RuntimeCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	path, err := exec.LookPath(c.binary)
	if err != nil {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%s not found on PATH (%s)", c.binary, c.reason)
		result.FixHint = "Install " + c.binary
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s found at %s", c.binary, path)
	return result
}
