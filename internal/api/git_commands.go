//go:build git_adapter

package api

import (
	"encoding/json"

	"github.com/ternarybob/syntari-kernel/internal/dispatch"
)

// dispatchGitCommand handles the optional git_* command group; only
// compiled with -tags git_adapter alongside internal/adapters' GitAdapter.
func dispatchGitCommand(d *dispatch.Dispatcher, command string, raw json.RawMessage) (dispatch.Envelope, bool) {
	switch command {
	case "git_initialize_repo":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err), true
		}
		return dispatch.From(d.GitInitializeRepo(p.Path)), true
	case "git_get_status":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err), true
		}
		return dispatch.From(d.GitGetStatus(p.Path)), true
	case "git_get_branches":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err), true
		}
		return dispatch.From(d.GitGetBranches(p.Path)), true
	case "git_stage_file":
		p, err := decodePayload[struct{ RepoPath, FilePath string }](raw)
		if err != nil {
			return dispatch.Fail(err), true
		}
		return dispatch.From(d.GitStageFile(p.RepoPath, p.FilePath)), true
	case "git_unstage_file":
		p, err := decodePayload[struct{ RepoPath, FilePath string }](raw)
		if err != nil {
			return dispatch.Fail(err), true
		}
		return dispatch.From(d.GitUnstageFile(p.RepoPath, p.FilePath)), true
	case "git_discard_changes":
		p, err := decodePayload[struct{ RepoPath, FilePath string }](raw)
		if err != nil {
			return dispatch.Fail(err), true
		}
		return dispatch.From(d.GitDiscardChanges(p.RepoPath, p.FilePath)), true
	case "git_switch_branch":
		p, err := decodePayload[struct{ RepoPath, BranchName string }](raw)
		if err != nil {
			return dispatch.Fail(err), true
		}
		return dispatch.From(d.GitSwitchBranch(p.RepoPath, p.BranchName)), true
	case "git_create_branch":
		p, err := decodePayload[struct{ RepoPath, BranchName, FromBranch string }](raw)
		if err != nil {
			return dispatch.Fail(err), true
		}
		return dispatch.From(d.GitCreateBranch(p.RepoPath, p.BranchName, p.FromBranch)), true
	case "git_commit":
		p, err := decodePayload[struct {
			RepoPath string
			Message  string
			Files    []string
		}](raw)
		if err != nil {
			return dispatch.Fail(err), true
		}
		return dispatch.From(d.GitCommit(p.RepoPath, p.Message, p.Files)), true
	case "git_get_commits":
		p, err := decodePayload[struct {
			RepoPath string
			Limit    int
		}](raw)
		if err != nil {
			return dispatch.Fail(err), true
		}
		return dispatch.From(d.GitGetCommits(p.RepoPath, p.Limit)), true
	case "git_get_diff":
		p, err := decodePayload[struct {
			RepoPath string
			FilePath string
			Staged   bool
		}](raw)
		if err != nil {
			return dispatch.Fail(err), true
		}
		return dispatch.From(d.GitGetDiff(p.RepoPath, p.FilePath, p.Staged)), true
	default:
		return dispatch.Envelope{}, false
	}
}
