package fleet

import "github.com/asicfleet/simulator/internal/telemetry"

// Recorder receives a batch of fresh snapshots after each tick. It is
// called outside any fleet or per-miner lock, so an implementation that
// does I/O (e.g. internal/history's sqlite-backed recorder) never blocks
// the simulation (spec §5: no lock held across I/O). A nil Recorder
// disables recording entirely.
type Recorder interface {
	Record(batch []telemetry.Snapshot)
}
