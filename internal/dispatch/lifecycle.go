package dispatch

import (
	"time"

	"github.com/ternarybob/syntari-kernel/internal/fsio"
	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
	"github.com/ternarybob/syntari-kernel/internal/state"
)

// InitializeAppResult is the payload for initialize_app.
type InitializeAppResult struct {
	DataDir   string    `json:"data_dir"`
	StartedAt time.Time `json:"started_at"`
}

// InitializeApp ensures the app data directory exists and reports it.
// The kernel itself needs no further setup: all sub-collections are
// already seeded by Kernel construction.
func (d *Dispatcher) InitializeApp() (InitializeAppResult, error) {
	dir, err := fsio.AppDataDir()
	if err != nil {
		return InitializeAppResult{}, err
	}
	return InitializeAppResult{DataDir: dir, StartedAt: time.Now()}, nil
}

// GetAppStats returns the state kernel's get_stats payload.
func (d *Dispatcher) GetAppStats() (state.Stats, error) {
	return d.Kernel.Stats(), nil
}

// GetUserPreferences returns the full preferences map.
func (d *Dispatcher) GetUserPreferences() (map[string]any, error) {
	return d.Kernel.Preferences.GetAll(), nil
}

// SetUserPreference sets a single preference key.
func (d *Dispatcher) SetUserPreference(key string, value any) (struct{}, error) {
	if key == "" {
		return struct{}{}, kernelerrors.New(kernelerrors.Validation, kernelerrors.CodeValidationFailed, "preference key must not be empty")
	}
	d.Kernel.Preferences.Set(key, value)
	return struct{}{}, nil
}
