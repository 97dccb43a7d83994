// Package ignore centralizes .gitignore-style exclusion rules shared
// by the directory scanner, search engine, and filesystem watcher's
// known-files seed scan.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultSkipNames is the process-level skip list applied regardless
// of .gitignore contents.
var DefaultSkipNames = []string{".git", "node_modules", "target", ".next", "dist", "build"}

// Matcher answers whether a relative path should be skipped during a
// walk rooted at root. It layers .gitignore, .git/info/exclude, and a
// best-effort global gitignore on top of the process skip list.
type Matcher struct {
	root        string
	skipNames   map[string]bool
	gitignore   *gitignore.GitIgnore
	excludeFile *gitignore.GitIgnore
	global      *gitignore.GitIgnore
}

// NewMatcher builds a Matcher for root, loading any .gitignore,
// .git/info/exclude, and global gitignore it can find. Missing files
// are not an error; the matcher simply has nothing extra to apply.
func NewMatcher(root string, extraSkipNames []string) *Matcher {
	m := &Matcher{root: root, skipNames: make(map[string]bool)}
	for _, n := range DefaultSkipNames {
		m.skipNames[n] = true
	}
	for _, n := range extraSkipNames {
		m.skipNames[n] = true
	}

	if gi, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		m.gitignore = gi
	}
	if gi, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".git", "info", "exclude")); err == nil {
		m.excludeFile = gi
	}
	if home, err := os.UserHomeDir(); err == nil {
		for _, candidate := range []string{
			filepath.Join(home, ".gitignore_global"),
			filepath.Join(home, ".config", "git", "ignore"),
		} {
			if gi, err := gitignore.CompileIgnoreFile(candidate); err == nil {
				m.global = gi
				break
			}
		}
	}
	return m
}

// ShouldSkip reports whether leaf (a single path component) should be
// pruned during a walk, independent of any gitignore pattern.
func (m *Matcher) ShouldSkip(leaf string) bool {
	return m.skipNames[leaf]
}

// Ignored reports whether relPath (relative to root, slash-separated)
// matches any loaded ignore source.
func (m *Matcher) Ignored(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	if m.gitignore != nil && m.gitignore.MatchesPath(relPath) {
		return true
	}
	if m.excludeFile != nil && m.excludeFile.MatchesPath(relPath) {
		return true
	}
	if m.global != nil && m.global.MatchesPath(relPath) {
		return true
	}
	for _, part := range strings.Split(relPath, "/") {
		if m.skipNames[part] {
			return true
		}
	}
	return false
}
