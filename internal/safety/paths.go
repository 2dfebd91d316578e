// Package safety confines file access to sandbox roots.
package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PolicyError is a sandbox violation with a stable, machine-readable code.
type PolicyError struct {
	Code    string
	Message string
}

func (e PolicyError) Error() string {
	return e.Code + ": " + e.Message
}

const (
	CodeOutsideSandbox = "ERR_PATH_OUTSIDE_SANDBOX"
	CodeDeniedRead     = "ERR_DENIED_READ"
	CodeDeniedWrite    = "ERR_DENIED_WRITE"
	CodeNotAFile       = "ERR_NOT_A_FILE"
)

// InitSandboxRoot resolves absolute sandbox roots for read and write operations.
func InitSandboxRoot(readRoot, writeRoot string) (absRead string, absWrite string, err error) {
	// Default readRoot to CWD when empty
	if readRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("getwd: %w", err)
		}
		readRoot = cwd
	}
	if writeRoot == "" {
		writeRoot = readRoot
	}

	readRoot, err = filepath.Abs(readRoot)
	if err != nil {
		return "", "", fmt.Errorf("abs(readRoot): %w", err)
	}
	writeRoot, err = filepath.Abs(writeRoot)
	if err != nil {
		return "", "", fmt.Errorf("abs(writeRoot): %w", err)
	}

	// Resolve symlinks where possible so boundary checks are reliable.
	// Non-existent roots keep their absolute form.
	if r, err := filepath.EvalSymlinks(readRoot); err == nil {
		readRoot = r
	}
	if w, err := filepath.EvalSymlinks(writeRoot); err == nil {
		writeRoot = w
	}
	return readRoot, writeRoot, nil
}

// ValidateRelPath resolves relPath against absRoot for reading and returns an
// absolute path inside the sandbox. It rejects absolute inputs, parent
// traversal, and symlink escapes, and denies reads under .git/ and .agent/.
func ValidateRelPath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolveInside(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underDir(rel, ".git") || underDir(rel, ".agent") {
		return "", PolicyError{Code: CodeDeniedRead, Message: "reads under .git/ or .agent/ are not allowed"}
	}
	return candidate, nil
}

// ValidateWritePath applies the read checks plus the write denylist:
// nothing under .git/ or .agent/, and no go.mod or go.sum at any depth.
func ValidateWritePath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolveInside(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underDir(rel, ".git") || underDir(rel, ".agent") {
		return "", PolicyError{Code: CodeDeniedWrite, Message: "writes under .git/ or .agent/ are not allowed"}
	}
	switch filepath.Base(rel) {
	case "go.mod", "go.sum":
		return "", PolicyError{Code: CodeDeniedWrite, Message: "writes to go.mod or go.sum are not allowed"}
	}
	return candidate, nil
}

// resolveInside joins relPath to absRoot, resolves symlinks best-effort, and
// returns the candidate with its slash-separated path relative to the root.
func resolveInside(absRoot, relPath string) (string, string, error) {
	if filepath.IsAbs(relPath) {
		return "", "", PolicyError{Code: CodeOutsideSandbox, Message: "absolute paths are not allowed"}
	}
	cleaned := filepath.Clean(relPath)
	candidate := filepath.Join(absRoot, cleaned)

	// Resolve the whole candidate if it exists. Otherwise resolve the parent and
	// rejoin the leaf, which reveals escapes via a symlinked parent.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else if resolvedParent, err2 := filepath.EvalSymlinks(filepath.Dir(candidate)); err2 == nil {
		candidate = filepath.Join(resolvedParent, filepath.Base(candidate))
	}

	// filepath.Rel is robust against partial prefix matches.
	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", "", PolicyError{Code: CodeOutsideSandbox, Message: "requested path resolves outside the sandbox root"}
	}
	return candidate, filepath.ToSlash(rel), nil
}

func underDir(rel, dir string) bool {
	return rel == dir || strings.HasPrefix(rel, dir+"/")
}
