//go:build git_adapter

// Package adapters, under this build tag, adds a concrete Git
// adapter over go-git. The core kernel never imports this file; the
// dispatcher only wires it in when built with -tags git_adapter.
package adapters

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
)

// RepositoryInfo mirrors git_initialize_repo's payload.
type RepositoryInfo struct {
	IsGitRepo      bool
	CurrentBranch  string
	RemoteURL      string
	UpstreamBranch string
}

// FileStatus mirrors one entry of git_get_status.
type FileStatus struct {
	Path              string
	IndexStatus       string
	WorkingTreeStatus string
}

// BranchInfo mirrors one entry of git_get_branches.
type BranchInfo struct {
	Name      string
	IsCurrent bool
	IsDefault bool
}

// Commit mirrors one entry of git_get_commits.
type Commit struct {
	Hash      string
	ShortHash string
	Author    string
	Timestamp time.Time
	Message   string
}

// GitAdapter implements the optional git_* command surface.
type GitAdapter struct{}

func NewGitAdapter() *GitAdapter {
	return &GitAdapter{}
}

func (g *GitAdapter) open(repoPath string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Project, "REPO_NOT_FOUND", "repository not found", err).WithPath(repoPath)
	}
	return repo, nil
}

func (g *GitAdapter) InitializeRepo(repoPath string) (RepositoryInfo, error) {
	repo, err := g.open(repoPath)
	if err != nil {
		return RepositoryInfo{IsGitRepo: false}, nil
	}
	head, err := repo.Head()
	if err != nil {
		return RepositoryInfo{IsGitRepo: true}, nil
	}
	info := RepositoryInfo{IsGitRepo: true, CurrentBranch: head.Name().Short()}
	if remote, err := repo.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
		info.RemoteURL = remote.Config().URLs[0]
	}
	return info, nil
}

func (g *GitAdapter) GetStatus(repoPath string) ([]FileStatus, error) {
	repo, err := g.open(repoPath)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Project, "STATUS_ERROR", "cannot open worktree", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Project, "STATUS_ERROR", "failed to get status", err)
	}
	out := make([]FileStatus, 0, len(status))
	for path, s := range status {
		out = append(out, FileStatus{
			Path:              path,
			IndexStatus:       string(s.Staging),
			WorkingTreeStatus: string(s.Worktree),
		})
	}
	return out, nil
}

func (g *GitAdapter) GetBranches(repoPath string) ([]BranchInfo, error) {
	repo, err := g.open(repoPath)
	if err != nil {
		return nil, err
	}
	head, _ := repo.Head()
	var currentName string
	if head != nil {
		currentName = head.Name().Short()
	}

	refs, err := repo.Branches()
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Project, "BRANCH_ERROR", "failed to list branches", err)
	}
	var out []BranchInfo
	_ = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		out = append(out, BranchInfo{
			Name:      name,
			IsCurrent: name == currentName,
			IsDefault: name == "main" || name == "master",
		})
		return nil
	})
	return out, nil
}

func (g *GitAdapter) StageFile(repoPath, filePath string) error {
	repo, err := g.open(repoPath)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return kernelerrors.Wrap(kernelerrors.Project, "STAGE_ERROR", "cannot open worktree", err)
	}
	if _, err := wt.Add(filePath); err != nil {
		return kernelerrors.Wrap(kernelerrors.Project, "STAGE_ERROR", "failed to stage file", err).WithPath(filePath)
	}
	return nil
}

func (g *GitAdapter) UnstageFile(repoPath, filePath string) error {
	repo, err := g.open(repoPath)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return kernelerrors.Wrap(kernelerrors.Project, "UNSTAGE_ERROR", "cannot open worktree", err)
	}
	head, err := repo.Head()
	if err != nil {
		return kernelerrors.Wrap(kernelerrors.Project, "UNSTAGE_ERROR", "no HEAD commit to reset against", err)
	}
	if err := wt.RestoreStaged(&git.RestoreStagedOptions{Files: []string{filePath}, Commit: head.Hash()}); err != nil {
		return kernelerrors.Wrap(kernelerrors.Project, "UNSTAGE_ERROR", "failed to unstage file", err).WithPath(filePath)
	}
	return nil
}

func (g *GitAdapter) DiscardChanges(repoPath, filePath string) error {
	repo, err := g.open(repoPath)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return kernelerrors.Wrap(kernelerrors.Project, "DISCARD_ERROR", "cannot open worktree", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Force: true}); err != nil {
		return kernelerrors.Wrap(kernelerrors.Project, "DISCARD_ERROR", "failed to discard changes", err).WithPath(filePath)
	}
	return nil
}

func (g *GitAdapter) SwitchBranch(repoPath, branchName string) error {
	repo, err := g.open(repoPath)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return kernelerrors.Wrap(kernelerrors.Project, "SWITCH_ERROR", "cannot open worktree", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branchName)}); err != nil {
		return kernelerrors.Wrap(kernelerrors.Project, "SWITCH_ERROR", "failed to switch branch", err)
	}
	return nil
}

func (g *GitAdapter) CreateBranch(repoPath, branchName, fromBranch string) error {
	repo, err := g.open(repoPath)
	if err != nil {
		return err
	}
	head, err := repo.Head()
	if err != nil {
		return kernelerrors.Wrap(kernelerrors.Project, "CREATE_BRANCH_ERROR", "no HEAD to branch from", err)
	}
	hash := head.Hash()
	if fromBranch != "" {
		ref, err := repo.Reference(plumbing.NewBranchReferenceName(fromBranch), true)
		if err == nil {
			hash = ref.Hash()
		}
	}
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branchName), hash)
	if err := repo.Storer.SetReference(ref); err != nil {
		return kernelerrors.Wrap(kernelerrors.Project, "CREATE_BRANCH_ERROR", "failed to create branch", err)
	}
	return nil
}

func (g *GitAdapter) Commit(repoPath, message string, files []string) (string, error) {
	repo, err := g.open(repoPath)
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", kernelerrors.Wrap(kernelerrors.Project, "COMMIT_ERROR", "cannot open worktree", err)
	}
	for _, f := range files {
		if _, err := wt.Add(f); err != nil {
			return "", kernelerrors.Wrap(kernelerrors.Project, "COMMIT_ERROR", "failed to stage file before commit", err).WithPath(f)
		}
	}
	hash, err := wt.Commit(message, &git.CommitOptions{})
	if err != nil {
		return "", kernelerrors.Wrap(kernelerrors.Project, "COMMIT_ERROR", "commit failed", err)
	}
	return hash.String(), nil
}

func (g *GitAdapter) GetCommits(repoPath string, limit int) ([]Commit, error) {
	repo, err := g.open(repoPath)
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Project, "HISTORY_ERROR", "no HEAD", err)
	}
	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Project, "HISTORY_ERROR", "failed to read history", err)
	}
	if limit <= 0 {
		limit = 50
	}
	var out []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if len(out) >= limit {
			return nil
		}
		out = append(out, Commit{
			Hash:      c.Hash.String(),
			ShortHash: c.Hash.String()[:7],
			Author:    c.Author.Name,
			Timestamp: c.Author.When,
			Message:   c.Message,
		})
		return nil
	})
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Project, "HISTORY_ERROR", "failed to walk history", err)
	}
	return out, nil
}

func (g *GitAdapter) GetDiff(repoPath, filePath string, staged bool) (string, error) {
	repo, err := g.open(repoPath)
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", kernelerrors.Wrap(kernelerrors.Project, "DIFF_ERROR", "cannot open worktree", err)
	}
	status, err := wt.Status()
	if err != nil {
		return "", kernelerrors.Wrap(kernelerrors.Project, "DIFF_ERROR", "failed to get status", err)
	}
	s, ok := status[filePath]
	if !ok {
		return "", nil
	}
	return fmt.Sprintf("staging=%c worktree=%c (byte-level diff requires shelling to git; not computed here)", s.Staging, s.Worktree), nil
}
