package dispatch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"

	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
	"github.com/ternarybob/syntari-kernel/internal/pathsec"
	"github.com/ternarybob/syntari-kernel/internal/state"
)

// wellKnownEntryFiles are pre-loaded into the project context if
// present at the root; the UI shows these immediately without a
// separate read_file round trip.
var wellKnownEntryFiles = []string{
	"package.json", "go.mod", "Cargo.toml", "pyproject.toml", "requirements.txt",
	"README.md", "tsconfig.json",
}

// OpenProject validates path, detects a project type and optional
// framework by simple content sniffing (the heuristics themselves are
// intentionally naive; the kernel only commits to the interface: a
// type tag and an optional framework tag), reads the git branch if
// the directory is a repository, pre-loads well-known entry files,
// and stores the resulting context as the kernel's current project.
func (d *Dispatcher) OpenProject(path string) (state.ProjectContext, error) {
	root, err := pathsec.Validate(path)
	if err != nil {
		return state.ProjectContext{}, err
	}
	info, statErr := os.Stat(root)
	if statErr != nil {
		return state.ProjectContext{}, kernelerrors.Wrap(kernelerrors.Project, "PROJECT_LOAD_FAILED", "cannot stat project root", statErr).WithPath(root)
	}
	if !info.IsDir() {
		return state.ProjectContext{}, kernelerrors.New(kernelerrors.Project, "PROJECT_LOAD_FAILED", "project root is not a directory").WithPath(root)
	}

	projectType, framework, deps := detectProjectType(root)

	ctx := state.ProjectContext{
		RootPath:     root,
		ProjectType:  projectType,
		Framework:    framework,
		Dependencies: deps,
		EntryFiles:   loadEntryFiles(root),
		OpenedAt:     time.Now(),
	}
	if branch, ok := detectGitBranch(root); ok {
		ctx.GitBranch = branch
	}
	d.Kernel.CurrentProject.Set(ctx)
	return ctx, nil
}

func loadEntryFiles(root string) map[string]string {
	out := make(map[string]string)
	for _, name := range wellKnownEntryFiles {
		full := filepath.Join(root, name)
		data, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		out[name] = string(data)
	}
	return out
}

func detectGitBranch(root string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}
	head, err := repo.Head()
	if err != nil {
		return "", false
	}
	return head.Name().Short(), true
}

// detectProjectType is deliberately simple content sniffing: the spec
// treats the detection rules themselves as out of scope and commits
// only to the shape of the result (a type tag, an optional framework
// tag, a dependency list).
func detectProjectType(root string) (projectType, framework string, deps []string) {
	if data, err := os.ReadFile(filepath.Join(root, "package.json")); err == nil {
		projectType = "node"
		var pkg struct {
			Dependencies    map[string]string `json:"dependencies"`
			DevDependencies map[string]string `json:"devDependencies"`
		}
		if json.Unmarshal(data, &pkg) == nil {
			for name := range pkg.Dependencies {
				deps = append(deps, name)
				switch name {
				case "react":
					framework = "react"
				case "vue":
					framework = "vue"
				case "@angular/core":
					framework = "angular"
				case "next":
					framework = "next"
				}
			}
		}
		return
	}
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
		projectType = "go"
		deps = parseGoModRequires(filepath.Join(root, "go.mod"))
		return
	}
	if _, err := os.Stat(filepath.Join(root, "Cargo.toml")); err == nil {
		return "rust", "", nil
	}
	if _, err := os.Stat(filepath.Join(root, "pyproject.toml")); err == nil {
		return "python", "", nil
	}
	if _, err := os.Stat(filepath.Join(root, "requirements.txt")); err == nil {
		return "python", "", nil
	}
	return "unknown", "", nil
}

// parseGoModRequires extracts module paths from both single-line and
// block require directives, ignoring versions and comments.
func parseGoModRequires(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var deps []string
	inBlock := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "require ("):
			inBlock = true
		case inBlock && line == ")":
			inBlock = false
		case inBlock:
			if fields := strings.Fields(line); len(fields) >= 1 {
				deps = append(deps, fields[0])
			}
		case strings.HasPrefix(line, "require "):
			if fields := strings.Fields(strings.TrimPrefix(line, "require ")); len(fields) >= 1 {
				deps = append(deps, fields[0])
			}
		}
	}
	return deps
}
