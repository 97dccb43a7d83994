//go:build !git_adapter

package api

import (
	"encoding/json"

	"github.com/ternarybob/syntari-kernel/internal/dispatch"
)

// dispatchGitCommand is a no-op stub when built without -tags
// git_adapter; git_* commands fall through to the unknown-command error.
func dispatchGitCommand(d *dispatch.Dispatcher, command string, raw json.RawMessage) (dispatch.Envelope, bool) {
	return dispatch.Envelope{}, false
}
