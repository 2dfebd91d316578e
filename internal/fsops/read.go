package fsops

import (
	"os"

	"github.com/petasbytes/csv-agent/internal/safety"
)

// ReadFile reads a file addressed by a relative path under the read root.
func (f *FS) ReadFile(relPath string) ([]byte, error) {
	absPath, err := safety.ValidateRelPath(f.ReadRoot, relPath)
	if err != nil {
		return nil, err // propagate PolicyError
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, safety.PolicyError{Code: safety.CodeNotAFile, Message: "path is a directory"}
	}
	return os.ReadFile(absPath)
}
