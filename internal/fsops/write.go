package fsops

import (
	"os"
	"path/filepath"

	"github.com/petasbytes/csv-agent/internal/safety"
)

// WriteFile writes content to a file addressed by a relative path under the
// write root, creating parent directories as needed.
func (f *FS) WriteFile(relPath, content string) error {
	absPath, err := safety.ValidateWritePath(f.WriteRoot, relPath)
	if err != nil {
		return err // propagate PolicyError unchanged
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(absPath, []byte(content), 0o644)
}

// AppendFile appends content to a file under the write root. When the file is
// empty or absent, header is written first.
func (f *FS) AppendFile(relPath, header, content string) error {
	absPath, err := safety.ValidateWritePath(f.WriteRoot, relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return err
	}

	fh, err := os.OpenFile(absPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	fi, err := fh.Stat()
	if err != nil {
		fh.Close()
		return err
	}
	if fi.Size() == 0 {
		content = header + content
	}
	if _, err := fh.WriteString(content); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
