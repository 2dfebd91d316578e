package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/petasbytes/csv-agent/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	logging.New(&buf, false).Debug("hidden")
	logging.New(&buf, false).Info("shown", "file", "a.csv")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("debug record written at info level")
	}
	if !strings.Contains(buf.String(), "msg=shown file=a.csv") {
		t.Fatalf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	logging.New(&buf, true).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatal("debug record missing at debug level")
	}
}

func TestTruncate(t *testing.T) {
	if got := logging.Truncate("héllo", 3); got != "hél…" {
		t.Fatalf("got %q", got)
	}
	if got := logging.Truncate("abc", 3); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := logging.Truncate("abc", 0); got != "abc" {
		t.Fatalf("got %q", got)
	}
}

func TestNop(t *testing.T) {
	logging.Nop().Info("discarded")
}
