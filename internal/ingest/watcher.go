package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/petasbytes/csv-agent/internal/fsops"
	"github.com/petasbytes/csv-agent/internal/logging"
)

const csvExt = ".csv"

// DefaultSettle is how long a file must stay quiet before it is read.
const DefaultSettle = 500 * time.Millisecond

// Watcher discovers CSV inputs in the sandbox read root: the files present at
// start, then every file created or rewritten afterwards.
type Watcher struct {
	FS     *fsops.FS
	Settle time.Duration
	// Ignore holds paths (relative to the read root) never reported, such as
	// the results file when it lives in the input directory.
	Ignore map[string]bool
	Logger *slog.Logger
}

// Scan lists the CSV files currently in the read root, sorted.
func (w *Watcher) Scan() ([]string, error) {
	names, err := w.FS.ListFiles(".", csvExt)
	if err != nil {
		return nil, fmt.Errorf("ingest: scan: %w", err)
	}
	out := names[:0]
	for _, n := range names {
		if !w.Ignore[n] {
			out = append(out, n)
		}
	}
	return out, nil
}

// Watch reports existing files, then each created or written CSV file once it
// has been quiet for Settle. emit runs on the watch goroutine and should not
// block. Watch returns when ctx ends.
func (w *Watcher) Watch(ctx context.Context, emit func(rel string)) error {
	log := w.Logger
	if log == nil {
		log = logging.Nop()
	}
	settle := w.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("ingest: watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.FS.ReadRoot); err != nil {
		return fmt.Errorf("ingest: watch %s: %w", w.FS.ReadRoot, err)
	}

	existing, err := w.Scan()
	if err != nil {
		return err
	}
	for _, rel := range existing {
		emit(rel)
	}
	log.Info("watching for CSV files", "dir", w.FS.ReadRoot, "existing", len(existing))

	timers := map[string]*time.Timer{}
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()
	settled := make(chan string)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			rel, ok := w.FS.Rel(ev.Name)
			if !ok || w.Ignore[rel] || !strings.EqualFold(filepath.Ext(rel), csvExt) {
				continue
			}
			log.Debug("file event", "file", rel, "op", ev.Op.String())
			if t, ok := timers[rel]; ok {
				t.Reset(settle)
				continue
			}
			timers[rel] = time.AfterFunc(settle, func() {
				select {
				case settled <- rel:
				case <-ctx.Done():
				}
			})
		case rel := <-settled:
			delete(timers, rel)
			emit(rel)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		}
	}
}
