package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// File names written into the assistant config directory.
const (
	// PolicyFileName is the policy document emitted into the assistant directory.
	PolicyFileName = "CLAUDE.md"

	// SettingsFileName is the settings document emitted into the assistant directory.
	SettingsFileName = "settings.json"
)

// assistantDirName is the assistant config directory under the user's home.
const assistantDirName = ".claude"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// Note: It returns an empty string on error.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// StateHome returns the XDG state home directory, used for run manifests.
// On Linux: ~/.local/state
func StateHome() string {
	return xdg.StateHome
}

// AssistantDir returns the assistant config directory under the given home.
// Returns: <home>/.claude
func AssistantDir(home string) string {
	return filepath.Join(home, assistantDirName)
}

// PolicyPath returns the policy document path under the given target directory.
func PolicyPath(targetDir string) string {
	return filepath.Join(targetDir, PolicyFileName)
}

// SettingsPath returns the settings document path under the given target directory.
func SettingsPath(targetDir string) string {
	return filepath.Join(targetDir, SettingsFileName)
}

// RCCandidates returns the ordered list of shell startup files considered
// for secret persistence. The first existing entry is suggested; if none
// exists the first entry is the fallback default.
func RCCandidates(home string) []string {
	return []string{
		filepath.Join(home, ".bashrc"),
		filepath.Join(home, ".zshrc"),
		filepath.Join(home, ".profile"),
	}
}
