package safety_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/petasbytes/csv-agent/internal/safety"
)

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var pe safety.PolicyError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PolicyError, got %T: %v", err, err)
	}
	return pe.Code
}

// sandbox returns a temp root with symlinks resolved (macOS /var vs /private/var).
func sandbox(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	return root
}

func TestInitSandboxRoot_Defaults(t *testing.T) {
	root := sandbox(t)
	r, w, err := safety.InitSandboxRoot(root, "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r != root || w != root {
		t.Fatalf("want both roots %q, got %q %q", root, r, w)
	}
}

func TestValidateRelPath_BasicRejections(t *testing.T) {
	root := sandbox(t)

	abs, err := filepath.Abs(".")
	if err != nil {
		t.Skipf("cannot compute absolute path: %v", err)
	}
	if _, err := safety.ValidateRelPath(root, abs); codeOf(t, err) != safety.CodeOutsideSandbox {
		t.Fatalf("absolute path: %v", err)
	}
	if _, err := safety.ValidateRelPath(root, "../../x"); codeOf(t, err) != safety.CodeOutsideSandbox {
		t.Fatalf("parent traversal: %v", err)
	}
}

func TestValidateRelPath_ReadDenylist(t *testing.T) {
	root := sandbox(t)
	_ = os.Mkdir(filepath.Join(root, ".agent"), 0o755)
	_ = os.Mkdir(filepath.Join(root, ".git"), 0o755)

	for _, p := range []string{".agent/events.jsonl", ".git/HEAD", ".agent"} {
		if _, err := safety.ValidateRelPath(root, p); codeOf(t, err) != safety.CodeDeniedRead {
			t.Fatalf("%s: expected deny, got %v", p, err)
		}
	}
	// Names that only share a prefix are allowed.
	if _, err := safety.ValidateRelPath(root, ".agentx/data.csv"); err != nil {
		t.Fatalf("unexpected deny: %v", err)
	}
}

func TestValidateRelPath_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test skipped on Windows")
	}
	root := sandbox(t)
	outside := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(root, "out")); err != nil {
		t.Skipf("symlink not allowed on this FS: %v", err)
	}

	if _, err := safety.ValidateRelPath(root, "out/escape.csv"); codeOf(t, err) != safety.CodeOutsideSandbox {
		t.Fatalf("expected reject for symlink escape, got %v", err)
	}
	if _, err := safety.ValidateWritePath(root, "out/newfile.csv"); codeOf(t, err) != safety.CodeOutsideSandbox {
		t.Fatalf("expected write reject for symlink escape, got %v", err)
	}
}

func TestValidateWritePath_DenyList(t *testing.T) {
	root := sandbox(t)
	_ = os.Mkdir(filepath.Join(root, ".git"), 0o755)
	_ = os.MkdirAll(filepath.Join(root, ".agent", "sub"), 0o755)

	cases := []struct {
		name string
		rel  string
	}{
		{"git head", ".git/HEAD"},
		{"agent events", ".agent/events.jsonl"},
		{"agent subdir", ".agent/sub/state.json"},
		{"go.mod at root", "go.mod"},
		{"go.sum deep", "sub/dir/go.sum"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := safety.ValidateWritePath(root, tc.rel)
			if codeOf(t, err) != safety.CodeDeniedWrite {
				t.Fatalf("expected deny for %q, got %v", tc.rel, err)
			}
			if !strings.Contains(err.Error(), safety.CodeDeniedWrite) {
				t.Fatalf("code missing from message: %v", err)
			}
		})
	}
}

func TestValidateWritePath_AllowNormal(t *testing.T) {
	root := sandbox(t)
	_ = os.MkdirAll(filepath.Join(root, "sub", "dir"), 0o755)

	p, err := safety.ValidateWritePath(root, "sub/dir/agent_summary.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(p, root+string(filepath.Separator)) {
		t.Fatalf("resolved path %q not under root %q", p, root)
	}
}
