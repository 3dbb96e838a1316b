// Package fleet implements FleetRuntime (spec §4.4): it owns every
// simulated miner, drives the shared tick loop, and serializes mutation
// behind a fleet-wide lock (protecting the id->miner map) plus one lock
// per miner (protecting that miner's state). Lock discipline follows
// spec §5 exactly: the fleet lock is only ever held briefly to resolve an
// id, never across a per-miner lock or any I/O.
package fleet

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asicfleet/simulator/internal/clock"
	"github.com/asicfleet/simulator/internal/configsurface"
	"github.com/asicfleet/simulator/internal/preset"
	"github.com/asicfleet/simulator/internal/prng"
	"github.com/asicfleet/simulator/internal/simulation"
	"github.com/asicfleet/simulator/internal/telemetry"
)

const defaultRestartDurationS = 5.0

// entry bundles one miner's state with the per-miner lock spec §5
// requires and the immutable preset pair it was created with.
type entry struct {
	mu       sync.Mutex
	state    *simulation.State
	model    preset.Model
	scenario preset.Scenario
}

// Summary is the flat record listMiners() returns (spec §6).
type Summary struct {
	MinerID    string `json:"miner_id"`
	ModelID    string `json:"model_id"`
	ScenarioID string `json:"scenario_id"`
}

// Runtime owns all simulated miners (spec §4.4 FleetRuntime).
type Runtime struct {
	mu      sync.RWMutex // fleet lock: protects the id -> entry map only
	miners  map[string]*entry
	nextID  uint64

	catalog  *preset.Catalog
	clock    clock.Clock
	recorder Recorder
	maxCap   int // 0 = unbounded
	log      *slog.Logger
}

// Option configures a Runtime at construction.
type Option func(*Runtime)

// WithRecorder attaches a post-tick telemetry recorder (spec §4.6,
// additive and optional).
func WithRecorder(r Recorder) Option {
	return func(rt *Runtime) { rt.recorder = r }
}

// WithCapacity bounds the number of miners create() will allow, returning
// ErrFleetBusy once reached (spec §7 FleetBusy, optional).
func WithCapacity(max int) Option {
	return func(rt *Runtime) { rt.maxCap = max }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) { rt.log = l }
}

// New constructs a Runtime backed by the given preset catalog and clock.
func New(catalog *preset.Catalog, clk clock.Clock, opts ...Option) *Runtime {
	rt := &Runtime{
		miners:  make(map[string]*entry),
		catalog: catalog,
		clock:   clk,
		log:     slog.Default().With("component", "fleet"),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// List returns a snapshot of every known miner's identity (spec §6
// listMiners).
func (rt *Runtime) List() []Summary {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	out := make([]Summary, 0, len(rt.miners))
	for id, e := range rt.miners {
		out = append(out, Summary{MinerID: id, ModelID: e.model.ModelID, ScenarioID: e.scenario.ScenarioID})
	}
	return out
}

// ListModels exposes the catalog's public model views (spec §6 listModels).
func (rt *Runtime) ListModels() []preset.PublicView {
	return rt.catalog.ListModels()
}

// ListScenarios exposes the catalog's known scenario ids (spec §6
// listScenarios).
func (rt *Runtime) ListScenarios() []preset.PublicListEntry {
	return rt.catalog.ListScenarios()
}

// Create builds a new miner from a model/scenario pair (spec §4.4 create,
// §6 createMiner). Ids are minted m_NNN, zero-padded to at least 3 digits,
// monotonic, never reused.
func (rt *Runtime) Create(modelID, scenarioID string) (string, error) {
	model, ok := rt.catalog.Model(modelID)
	if !ok {
		return "", fmt.Errorf("%w: model %q", ErrNotFound, modelID)
	}
	scenario, ok := rt.catalog.Scenario(scenarioID)
	if !ok {
		return "", fmt.Errorf("%w: scenario %q", ErrNotFound, scenarioID)
	}

	rt.mu.Lock()

	if rt.maxCap > 0 && len(rt.miners) >= rt.maxCap {
		rt.mu.Unlock()
		return "", ErrFleetBusy
	}

	rt.nextID++
	id := fmt.Sprintf("m_%03d", rt.nextID)

	now := rt.clock.Now()
	ambient := model.AmbientCDefault
	if scenario.AmbientOverrideC != nil {
		ambient = *scenario.AmbientOverrideC
	}

	saltBytes := uuid.New()
	salt := binary.BigEndian.Uint64(saltBytes[:8])
	stream := prng.New(prng.Seed(id, now.UnixNano(), salt))
	connectDelay := stream.Float64()*(scenario.ConnectDelayS.MaxS-scenario.ConnectDelayS.MinS) + scenario.ConnectDelayS.MinS
	if scenario.ConnectDelayS.MaxS <= scenario.ConnectDelayS.MinS {
		connectDelay = scenario.ConnectDelayS.MinS
	}

	cfg := configsurface.DefaultFor(model)
	state := simulation.New(id, modelID, scenarioID, ambient, cfg, now, stream, connectDelay)

	rt.miners[id] = &entry{state: state, model: model, scenario: scenario}
	rt.mu.Unlock()

	rt.log.Info("miner created", "miner_id", id, "model_id", modelID, "scenario_id", scenarioID)
	return id, nil
}

// Delete removes a miner from the fleet (spec §4.4 delete, §6
// deleteMiner). Any tick already in flight for this id completes against
// its orphaned entry without resurrecting it; any subsequent operation on
// the id fails with ErrNotFound.
func (rt *Runtime) Delete(minerID string) error {
	rt.mu.Lock()
	if _, ok := rt.miners[minerID]; !ok {
		rt.mu.Unlock()
		return fmt.Errorf("%w: miner %q", ErrNotFound, minerID)
	}
	delete(rt.miners, minerID)
	rt.mu.Unlock()

	rt.log.Info("miner deleted", "miner_id", minerID)
	return nil
}

// resolve takes the fleet read lock briefly to find a miner's entry.
func (rt *Runtime) resolve(minerID string) (*entry, error) {
	rt.mu.RLock()
	e, ok := rt.miners[minerID]
	rt.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: miner %q", ErrNotFound, minerID)
	}
	return e, nil
}

// Snapshot returns a read-only, internally-consistent telemetry
// projection of one miner's current state (spec §4.4 snapshot, §6
// getTelemetry). The per-miner lock is held for the duration of the
// projection so no field is torn across a concurrent tick.
func (rt *Runtime) Snapshot(minerID string) (telemetry.Snapshot, error) {
	e, err := rt.resolve(minerID)
	if err != nil {
		return telemetry.Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := rt.clock.Now()
	return telemetry.FromState(e.state, e.model, float64(now.UnixNano())/1e9), nil
}

// PatchConfig validates then enqueues a config patch (spec §4.4
// patchConfig, §6). It never blocks on tick progress beyond acquiring the
// per-miner lock briefly; application happens at the start of the next
// tick (spec §5 ordering guarantee).
func (rt *Runtime) PatchConfig(minerID string, raw configsurface.RawPatch) ([]configsurface.Violation, error) {
	e, err := rt.resolve(minerID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	normalized, violations := configsurface.Validate(e.model, raw)
	e.state.PendingConfig = e.state.PendingConfig.Merge(normalized)
	return violations, nil
}

// Restart sets a scenario-dependent restart countdown and transitions the
// miner to restarting (spec §4.4 restart, §6 restartMiner).
func (rt *Runtime) Restart(minerID string) error {
	e, err := rt.resolve(minerID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dur := e.scenario.RestartDurationS
	if dur <= 0 {
		dur = defaultRestartDurationS
	}
	e.state.RestartRemainingS = dur
	e.state.PoolState = simulation.PoolRestarting
	return nil
}

// TickAll advances every miner by the elapsed time since its last tick
// (spec §4.4 tickAll). Miners deleted between the initial snapshot and
// their lock acquisition are skipped rather than resurrected.
func (rt *Runtime) TickAll(now time.Time) {
	rt.mu.RLock()
	ids := make([]string, 0, len(rt.miners))
	for id := range rt.miners {
		ids = append(ids, id)
	}
	rt.mu.RUnlock()

	var batch []telemetry.Snapshot
	if rt.recorder != nil {
		batch = make([]telemetry.Snapshot, 0, len(ids))
	}

	for _, id := range ids {
		rt.mu.RLock()
		e, ok := rt.miners[id]
		rt.mu.RUnlock()
		if !ok {
			continue
		}

		e.mu.Lock()
		dt := now.Sub(e.state.LastTickAt).Seconds()
		func() {
			defer func() {
				if r := recover(); r != nil {
					rt.log.Error("tick panic recovered", "miner_id", id, "panic", r)
				}
			}()
			simulation.Advance(e.state, dt, e.model, e.scenario)
		}()
		e.state.LastTickAt = now
		var snap telemetry.Snapshot
		if rt.recorder != nil {
			snap = telemetry.FromState(e.state, e.model, float64(now.UnixNano())/1e9)
		}
		e.mu.Unlock()

		if rt.recorder != nil {
			batch = append(batch, snap)
		}
	}

	if rt.recorder != nil && len(batch) > 0 {
		rt.recorder.Record(batch)
	}
}

// Run drives TickAll at a fixed cadence until ctx is cancelled. It honors
// the shutdown signal by letting the in-flight TickAll call finish before
// exiting (spec §5 Cancellation/timeouts).
func (rt *Runtime) Run(ctx context.Context, cadence time.Duration) {
	if cadence <= 0 {
		cadence = time.Second
	}
	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	rt.log.Info("tick loop started", "cadence", cadence)
	for {
		select {
		case <-ctx.Done():
			rt.log.Info("tick loop stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			rt.TickAll(rt.clock.Now())
		}
	}
}
