package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/cockroachdb/errors"
)

// TimestampFormat is the second-resolution suffix appended to backup names.
const TimestampFormat = "20060102-150405"

// Record describes a single timestamped copy of a file.
type Record struct {
	// OriginalPath is the absolute path of the file that was backed up.
	OriginalPath string `json:"original_path" yaml:"original_path"`

	// BackupPath is the sibling copy: OriginalPath + ".bak." + timestamp.
	BackupPath string `json:"backup_path" yaml:"backup_path"`

	// SHA256Hash is the hex-encoded hash of the copied contents.
	SHA256Hash string `json:"sha256_hash" yaml:"sha256_hash"`

	// Mode is the original file's permission bits, preserved on the copy.
	Mode fs.FileMode `json:"mode" yaml:"mode"`

	// CreatedAt is when the backup was created.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Manager creates timestamped sibling backups of files about to be overwritten.
type Manager struct {
	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source. Used by tests that need a fixed
// timestamp suffix.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BackupIfExists copies the file at path aside before it is overwritten.
//
// If nothing exists at path, it returns (nil, nil) with no side effect.
// If the file exists, it is copied to path + ".bak." + timestamp with
// permissions preserved. The timestamp is captured fresh at call time, so
// two backups in the same run get independent suffixes.
//
// A failed copy is an error; the caller must not overwrite a file that
// could not be backed up.
func (m *Manager) BackupIfExists(path string) (*Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.Newf("refusing to back up directory %s", path)
	}

	createdAt := m.now()
	backupPath := path + ".bak." + createdAt.Format(TimestampFormat)

	hash, mode, err := copyFile(path, backupPath)
	if err != nil {
		return nil, errors.Wrapf(err, "backing up %s", path)
	}

	return &Record{
		OriginalPath: path,
		BackupPath:   backupPath,
		SHA256Hash:   hash,
		Mode:         mode,
		CreatedAt:    createdAt,
	}, nil
}

// copyFile copies a file from src to dst, returning the SHA256 hash and mode.
// The destination file is created with 0644 permissions initially,
// then updated to match the source file's permissions.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode()

	// Create destination file
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	// Compute hash while copying
	h := sha256.New()
	w := io.MultiWriter(dstFile, h)

	if _, err := io.Copy(w, srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}

	// Set permissions to match source
	if err := os.Chmod(dst, mode); err != nil {
		return "", 0, errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}
