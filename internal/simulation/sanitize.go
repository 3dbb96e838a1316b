package simulation

import (
	"log/slog"
	"math"

	"github.com/asicfleet/simulator/internal/preset"
)

// sanitizeState implements spec §4.3 Failure semantics / §7
// SimulationFault: any numerical blow-up (NaN/Inf) in an intermediate
// value is caught and the offending field is re-initialized to its
// nominal, without aborting the tick for the whole fleet. This is the last
// line of defense after a tick; it never returns an error, only logs.
func sanitizeState(state *State, model preset.Model, scenario preset.Scenario) {
	ambient := model.AmbientCDefault
	if scenario.AmbientOverrideC != nil {
		ambient = *scenario.AmbientOverrideC
	}

	fault := false
	fault = fixIfInvalid(&state.ChipTempC, ambient, state.MinerID, "chipTempC") || fault
	fault = fixIfInvalid(&state.VRTempC, ambient+model.VROffsetC, state.MinerID, "vrTempC") || fault
	fault = fixIfInvalid(&state.HashRateGhs, 0, state.MinerID, "hashRateGhs") || fault
	fault = fixIfInvalid(&state.PowerW, model.PIdle(), state.MinerID, "powerW") || fault
	fault = fixIfInvalid(&state.FanPercent, fanBaselinePct, state.MinerID, "fanPercent") || fault
	fault = fixIfInvalid(&state.FanRPM, 0, state.MinerID, "fanRpm") || fault
	fault = fixIfInvalid(&state.ErrorPercentage, scenario.ErrorFloorPct, state.MinerID, "errorPercentage") || fault
	fault = fixIfInvalid(&state.RampProgress, 0, state.MinerID, "rampProgress") || fault

	if state.HashRateGhs < 0 {
		state.HashRateGhs = 0
	}
	if state.ErrorPercentage < 0 {
		state.ErrorPercentage = 0
	}
	if state.ErrorPercentage > 100 {
		state.ErrorPercentage = 100
	}
	if state.FanPercent < 0 {
		state.FanPercent = 0
	}
	if state.FanPercent > 100 {
		state.FanPercent = 100
	}

	if fault {
		slog.Warn("simulation fault recovered", "miner_id", state.MinerID)
	}
}

func fixIfInvalid(v *float64, nominal float64, minerID, field string) bool {
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		*v = nominal
		return true
	}
	return false
}
