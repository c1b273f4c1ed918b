// Package emit writes the fixed-content target documents to their
// well-known locations.
package emit

import (
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/mhoffman/clawstrap/internal/paths"
	"github.com/mhoffman/clawstrap/pkg/fileutil"
)

// TargetFile pairs a destination path with the full content to write there.
type TargetFile struct {
	// Path is the absolute destination of the document.
	Path string

	// Content is the complete document body, written verbatim.
	Content []byte
}

// Emitter writes target documents atomically. Parent directories are
// created private (0700), files operator-readable (0644).
type Emitter struct{}

// NewEmitter creates an Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// WriteTarget writes the document in one pass via a temp file and rename,
// creating parent directories first. Interrupted writes leave either the
// old file or the new file, never a partial one.
//
// The caller is responsible for backing up a pre-existing file at
// t.Path before calling WriteTarget.
func (e *Emitter) WriteTarget(t TargetFile) error {
	if t.Path == "" {
		return errors.New("target path is required")
	}
	if len(t.Content) == 0 {
		return errors.Newf("refusing to write empty content to %s", t.Path)
	}

	if err := paths.EnsureDir(filepath.Dir(t.Path), 0); err != nil {
		return errors.Wrapf(err, "creating directory for %s", t.Path)
	}

	if err := fileutil.AtomicWriteFile(t.Path, t.Content, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", t.Path)
	}

	return nil
}
