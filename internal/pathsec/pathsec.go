// Package pathsec guards every filesystem-touching operation in the
// kernel against path traversal and access to sensitive system
// locations. No component reads or writes a path until it has passed
// through Validate.
package pathsec

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
)

// blockedPrefixes is checked on both platforms regardless of the host
// OS, since the kernel may be asked to validate a path copied from a
// different platform (e.g. a project opened from a mounted drive).
var blockedPrefixes = []string{
	"/etc", "/sys", "/proc", "/dev", "/boot", "/root/.ssh",
	`C:\Windows`, `C:\Program Files`, `C:\Program Files (x86)`,
}

// Validate canonicalizes path and rejects it if it contains a literal
// traversal segment or resolves underneath a blocked system prefix.
// It returns the canonical absolute path on success.
func Validate(path string) (string, error) {
	if path == "" {
		return "", kernelerrors.New(kernelerrors.Validation, kernelerrors.CodeValidationFailed, "empty path")
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", kernelerrors.New(kernelerrors.Permission, kernelerrors.CodePathTraversal, "path traversal rejected").WithPath(path)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", kernelerrors.Wrap(kernelerrors.Filesystem, kernelerrors.CodeNotFound, "cannot resolve absolute path", err).WithPath(path)
	}

	canonical, err := canonicalize(abs)
	if err != nil {
		return "", kernelerrors.Wrap(kernelerrors.Filesystem, kernelerrors.CodeNotFound, "cannot canonicalize path", err).WithPath(path)
	}

	if blocked(canonical) {
		return "", kernelerrors.New(kernelerrors.Permission, kernelerrors.CodeSystemPath, "path under a protected system location").WithPath(canonical)
	}

	return canonical, nil
}

// canonicalize resolves symlinks on the longest existing prefix of
// abs, so a not-yet-created file under a symlinked directory still
// canonicalizes correctly.
func canonicalize(abs string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	dir := filepath.Dir(abs)
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, strings.TrimPrefix(abs, dir)), nil
		}
		if _, err := os.Stat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return filepath.Clean(abs), nil
}

func blocked(path string) bool {
	cmp := path
	if runtime.GOOS == "windows" {
		cmp = strings.ToLower(path)
	}
	for _, prefix := range blockedPrefixes {
		p := prefix
		if runtime.GOOS == "windows" {
			p = strings.ToLower(p)
		}
		if strings.HasPrefix(cmp, p) {
			return true
		}
	}
	return false
}
