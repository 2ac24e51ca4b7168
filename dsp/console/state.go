package console

import (
	"encoding/json"
	"errors"
	"fmt"
)

// stateVersion is the current saved-state format version.
const stateVersion = 1

// ErrStateVersion is returned when loading state written by a newer format
// version than this package understands.
var ErrStateVersion = errors.New("unsupported desk state version")

type deskState struct {
	Version int                `json:"version"`
	Params  map[string]float64 `json:"params"`
}

// SaveState serializes the published parameter targets as JSON.
func (d *Desk) SaveState() ([]byte, error) {
	state := deskState{
		Version: stateVersion,
		Params:  d.params.Snapshot(),
	}

	return json.MarshalIndent(state, "", "  ")
}

// LoadState publishes parameter targets from JSON produced by SaveState.
// Unknown parameter names are ignored, missing names keep their current
// targets, and values clamp into each parameter's range.
func (d *Desk) LoadState(data []byte) error {
	var state deskState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("invalid desk state json: %w", err)
	}

	if state.Version > stateVersion {
		return fmt.Errorf("%w: %d", ErrStateVersion, state.Version)
	}

	d.params.Restore(state.Params)

	return nil
}
