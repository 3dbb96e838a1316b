// Package telemetry defines the read-only projection of a miner's
// simulated state exposed to API callers (spec §4.5), using exactly the
// field names spec §6 promises the HTTP layer must surface verbatim.
package telemetry

import (
	"github.com/asicfleet/simulator/internal/preset"
	"github.com/asicfleet/simulator/internal/simulation"
)

// Snapshot is a flat, by-value record safe to hand to callers without
// holding any lock.
type Snapshot struct {
	MinerID         string  `json:"miner_id"`
	ModelID         string  `json:"model_id"`
	ScenarioID      string  `json:"scenario_id"`
	HashRate        float64 `json:"hashRate"`
	Temp            float64 `json:"temp"`
	VRTemp          float64 `json:"vrTemp"`
	Power           float64 `json:"power"`
	FanSpeed        float64 `json:"fanspeed"`
	FanRPM          float64 `json:"fanrpm"`
	CoreVoltage     int     `json:"coreVoltage"`
	Frequency       int     `json:"frequency"`
	ErrorPercentage float64 `json:"errorPercentage"`
	SharesAccepted  uint64  `json:"sharesAccepted"`
	SharesRejected  uint64  `json:"sharesRejected"`
	PoolState       string  `json:"poolState"`
	UptimeSeconds   float64 `json:"uptimeSeconds"`
	Voltage         int     `json:"voltage"`
	TargetTemp      float64 `json:"targettemp"`
	AutoFanSpeed    int     `json:"autofanspeed"`
	Timestamp       float64 `json:"timestamp"`
}

// FromState projects a simulation.State plus the model it was built from
// into a Snapshot. nowUnix is the caller-supplied current time (unix
// seconds, float) so the projection stays a pure function of its inputs.
func FromState(state *simulation.State, model preset.Model, nowUnix float64) Snapshot {
	return Snapshot{
		MinerID:         state.MinerID,
		ModelID:         state.ModelID,
		ScenarioID:      state.ScenarioID,
		HashRate:        state.HashRateGhs,
		Temp:            state.ChipTempC,
		VRTemp:          state.VRTempC,
		Power:           state.PowerW,
		FanSpeed:        state.FanPercent,
		FanRPM:          state.FanRPM,
		CoreVoltage:     state.Config.CoreVoltageMV,
		Frequency:       state.Config.FrequencyMHz,
		ErrorPercentage: state.ErrorPercentage,
		SharesAccepted:  state.SharesAccepted,
		SharesRejected:  state.SharesRejected,
		PoolState:       string(state.PoolState),
		UptimeSeconds:   state.UptimeSeconds,
		Voltage:         model.InputVoltageV,
		TargetTemp:      state.Config.TargetTempC,
		AutoFanSpeed:    state.Config.AutoFanSpeed,
		Timestamp:       nowUnix,
	}
}
