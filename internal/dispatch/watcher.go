package dispatch

import (
	"github.com/ternarybob/syntari-kernel/internal/watcher"
)

// StartWatcherResult is the payload for start_file_watcher. Starting a
// watch also emits a project-watch-notification event on
// d.Watcher.Notifications(), describing the same id/strategy.
type StartWatcherResult struct {
	ID       string `json:"id"`
	Strategy string `json:"strategy"`
}

func (d *Dispatcher) StartFileWatcher(path string) (StartWatcherResult, error) {
	id, strategy, err := d.Watcher.Start(path)
	if err != nil {
		return StartWatcherResult{}, err
	}
	return StartWatcherResult{ID: id, Strategy: string(strategy)}, nil
}

func (d *Dispatcher) StopFileWatcher(id string) (struct{}, error) {
	return struct{}{}, d.Watcher.Stop(id)
}

func (d *Dispatcher) GetFileWatcherStats() (watcher.Stats, error) {
	return d.Watcher.Stats(), nil
}
