package ingest

import (
	"encoding/csv"
	"strings"
	"sync"
	"time"

	"github.com/petasbytes/csv-agent/internal/fsops"
)

// Status of a processed input.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusTimeout = "timeout"
	StatusError   = "error"
)

var resultHeader = []string{"file", "agent_response", "status", "time"}

// Record is one row of the results file.
type Record struct {
	File     string
	Response string
	Status   string
	Time     time.Time
}

// ResultWriter appends records to a CSV file under the sandbox write root.
// The header is written once, when the file is first created. Safe for
// concurrent use.
type ResultWriter struct {
	fs   *fsops.FS
	path string
	mu   sync.Mutex
}

func NewResultWriter(fs *fsops.FS, relPath string) *ResultWriter {
	return &ResultWriter{fs: fs, path: relPath}
}

func (w *ResultWriter) Path() string { return w.path }

func (w *ResultWriter) Write(r Record) error {
	header, err := encodeRow(resultHeader)
	if err != nil {
		return err
	}
	row, err := encodeRow([]string{r.File, r.Response, r.Status, r.Time.UTC().Format(time.RFC3339)})
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fs.AppendFile(w.path, header, row)
}

func encodeRow(fields []string) (string, error) {
	var b strings.Builder
	cw := csv.NewWriter(&b)
	if err := cw.Write(fields); err != nil {
		return "", err
	}
	cw.Flush()
	return b.String(), cw.Error()
}
