//go:build git_adapter

package dispatch

import "github.com/ternarybob/syntari-kernel/internal/adapters"

// Git command handlers are only compiled with -tags git_adapter; the
// core dispatcher has no field for this, each call opens a fresh
// stateless adapter over the given repository path.

func (d *Dispatcher) GitInitializeRepo(path string) (adapters.RepositoryInfo, error) {
	return adapters.NewGitAdapter().InitializeRepo(path)
}

func (d *Dispatcher) GitGetStatus(path string) ([]adapters.FileStatus, error) {
	return adapters.NewGitAdapter().GetStatus(path)
}

func (d *Dispatcher) GitGetBranches(path string) ([]adapters.BranchInfo, error) {
	return adapters.NewGitAdapter().GetBranches(path)
}

func (d *Dispatcher) GitStageFile(repoPath, filePath string) (struct{}, error) {
	return struct{}{}, adapters.NewGitAdapter().StageFile(repoPath, filePath)
}

func (d *Dispatcher) GitUnstageFile(repoPath, filePath string) (struct{}, error) {
	return struct{}{}, adapters.NewGitAdapter().UnstageFile(repoPath, filePath)
}

func (d *Dispatcher) GitDiscardChanges(repoPath, filePath string) (struct{}, error) {
	return struct{}{}, adapters.NewGitAdapter().DiscardChanges(repoPath, filePath)
}

func (d *Dispatcher) GitSwitchBranch(repoPath, branchName string) (struct{}, error) {
	return struct{}{}, adapters.NewGitAdapter().SwitchBranch(repoPath, branchName)
}

func (d *Dispatcher) GitCreateBranch(repoPath, branchName, fromBranch string) (struct{}, error) {
	return struct{}{}, adapters.NewGitAdapter().CreateBranch(repoPath, branchName, fromBranch)
}

func (d *Dispatcher) GitCommit(repoPath, message string, files []string) (string, error) {
	return adapters.NewGitAdapter().Commit(repoPath, message, files)
}

func (d *Dispatcher) GitGetCommits(repoPath string, limit int) ([]adapters.Commit, error) {
	return adapters.NewGitAdapter().GetCommits(repoPath, limit)
}

func (d *Dispatcher) GitGetDiff(repoPath, filePath string, staged bool) (string, error) {
	return adapters.NewGitAdapter().GetDiff(repoPath, filePath, staged)
}
