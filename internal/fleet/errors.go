package fleet

import "errors"

// Sentinel errors surfaced by user-visible FleetRuntime operations
// (spec §7). Tick-internal faults never reach this layer.
var (
	// ErrNotFound covers an unknown miner_id, model_id, or scenario_id.
	ErrNotFound = errors.New("fleet: not found")

	// ErrFleetBusy is returned by create when the configured capacity is
	// exhausted (spec §7 FleetBusy, reserved/optional bounded-resource
	// rejection).
	ErrFleetBusy = errors.New("fleet: at capacity")
)
