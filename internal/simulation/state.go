// Package simulation implements the per-miner physical/behavioral model:
// SimulationEngine.advance turns (model preset, scenario, live config) into
// a continuously evolving telemetry stream (spec §4.3).
package simulation

import (
	"time"

	"github.com/asicfleet/simulator/internal/configsurface"
	"github.com/asicfleet/simulator/internal/prng"
)

// PoolState is the miner's logical connection state to a mining pool
// (spec §3).
type PoolState string

const (
	PoolConnecting  PoolState = "connecting"
	PoolConnected   PoolState = "connected"
	PoolReconnect   PoolState = "reconnecting"
	PoolMining      PoolState = "mining"
	PoolRestarting  PoolState = "restarting"
)

// State is the mutable physical/operational state of one simulated miner
// (spec §3 MinerState). It is owned exclusively by its slot in the fleet
// map; all mutation goes through the owning miner's lock.
type State struct {
	MinerID    string
	ModelID    string
	ScenarioID string
	CreatedAt  time.Time

	PoolState      PoolState
	UptimeSeconds  float64
	SharesAccepted uint64
	SharesRejected uint64
	BestDifficulty float64

	ChipTempC       float64
	VRTempC         float64
	AmbientC        float64
	FanPercent      float64
	FanRPM          float64
	HashRateGhs     float64
	PowerW          float64
	ErrorPercentage float64

	RampProgress float64
	Config       configsurface.Config
	PendingConfig configsurface.Patch
	LastTickAt   time.Time

	RestartRemainingS   float64
	connectRemainingS   float64
	reconnectRemainingS float64
	fanIntegral         float64
	errorEWMA           float64

	PRNG *prng.Stream
}

// New builds the initial state for a freshly created miner, seeded from the
// model's nominal operating point (spec §3 Lifecycle): hashrate 0,
// rampProgress 0, temp = ambient, poolState = connecting.
func New(minerID, modelID, scenarioID string, ambientC float64, cfg configsurface.Config, createdAt time.Time, stream *prng.Stream, connectDelayS float64) *State {
	startFanPercent := float64(cfg.ManualFanPercent)
	if cfg.AutoFanSpeed == 1 {
		startFanPercent = 30
	}
	return &State{
		MinerID:           minerID,
		ModelID:           modelID,
		ScenarioID:        scenarioID,
		CreatedAt:         createdAt,
		PoolState:         PoolConnecting,
		ChipTempC:         ambientC,
		VRTempC:           ambientC,
		AmbientC:          ambientC,
		FanPercent:        startFanPercent,
		Config:            cfg,
		LastTickAt:        createdAt,
		connectRemainingS: connectDelayS,
		PRNG:              stream,
	}
}
