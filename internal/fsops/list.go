package fsops

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/petasbytes/csv-agent/internal/safety"
)

// ListFiles lists the regular files directly under relDir whose names end in
// ext (case-insensitive). Names are returned sorted, relative to the read root.
func (f *FS) ListFiles(relDir, ext string) ([]string, error) {
	if relDir == "" {
		relDir = "."
	}
	absDir, err := safety.ValidateRelPath(f.ReadRoot, relDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if ext != "" && !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		names = append(names, filepath.Join(relDir, e.Name()))
	}
	sort.Strings(names)
	return names, nil
}
