// Package fsops performs file operations confined to sandbox roots.
package fsops

import (
	"path/filepath"
	"strings"

	"github.com/petasbytes/csv-agent/internal/safety"
)

// FS reads under ReadRoot and writes under WriteRoot. Both are absolute and
// symlink-resolved.
type FS struct {
	ReadRoot  string
	WriteRoot string
}

// New resolves the sandbox roots. An empty readRoot means the working
// directory; an empty writeRoot means readRoot.
func New(readRoot, writeRoot string) (*FS, error) {
	r, w, err := safety.InitSandboxRoot(readRoot, writeRoot)
	if err != nil {
		return nil, err
	}
	return &FS{ReadRoot: r, WriteRoot: w}, nil
}

// Rel converts an absolute path (e.g. from a watcher event) to a path relative
// to the read root. It reports false when the path is outside the root.
func (f *FS) Rel(absPath string) (string, bool) {
	if r, err := filepath.EvalSymlinks(filepath.Dir(absPath)); err == nil {
		absPath = filepath.Join(r, filepath.Base(absPath))
	}
	rel, err := filepath.Rel(f.ReadRoot, absPath)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
