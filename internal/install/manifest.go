package install

import (
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/mhoffman/clawstrap/internal/backup"
	"github.com/mhoffman/clawstrap/internal/paths"
	"github.com/mhoffman/clawstrap/internal/rcfile"
	"github.com/mhoffman/clawstrap/internal/secrets"
	"github.com/mhoffman/clawstrap/pkg/fileutil"
)

// RunManifest records what a completed run did. It holds secret names only,
// never values.
type RunManifest struct {
	CompletedAt       time.Time       `yaml:"completed_at"`
	TargetDir         string          `yaml:"target_dir"`
	FilesWritten      []string        `yaml:"files_written"`
	Backups           []backup.Record `yaml:"backups,omitempty"`
	SecretNames       []string        `yaml:"secret_names"`
	PersistenceTarget string          `yaml:"persistence_target,omitempty"`
}

// writeManifest records the run outcome under the XDG state home.
func (ins *Installer) writeManifest(targetDir string, written []string, records []backup.Record, store *secrets.Store, target *rcfile.Target) error {
	if ins.manifestPath == "" {
		return nil
	}

	names := make([]string, 0, store.Len())
	for _, e := range store.Entries() {
		names = append(names, e.Name)
	}

	m := RunManifest{
		CompletedAt:  time.Now().UTC(),
		TargetDir:    targetDir,
		FilesWritten: written,
		Backups:      records,
		SecretNames:  names,
	}
	if target != nil {
		m.PersistenceTarget = target.Path
	}

	if err := paths.EnsureDir(filepath.Dir(ins.manifestPath), 0); err != nil {
		return errors.Wrap(err, "creating state directory")
	}
	// Written 0600: paths, not secrets, but there is no reason to share it.
	return fileutil.AtomicWriteYAMLWithPerm(ins.manifestPath, &m, 0o600)
}
