package simulation

import (
	"math"

	"github.com/asicfleet/simulator/internal/configsurface"
	"github.com/asicfleet/simulator/internal/preset"
)

const (
	maxDtSeconds = 5.0

	rampUpTauS   = 30.0
	rampDownTauS = 3.0

	fanMinPercent     = 10.0
	fanMaxPercent     = 100.0
	fanBaselinePct    = 30.0
	fanKp             = 4.0
	fanKi             = 0.15
	fanIntegralClamp  = 40.0
	fanHardCeilingOff = 15.0 // targettemp + this => fan forced to 100

	kFanCooling = 0.015 // fan-cooling coefficient, spec §4.3 step 6
)

// Advance mutates state in place over an elapsed dt (already clamped by the
// caller or here) using model + scenario as the immutable parameter
// bundles (spec §4.3). It never returns an error: any internal numerical
// fault is caught and the offending field reset to nominal, isolated to
// this miner (spec §4.3 Failure semantics, §7 SimulationFault).
func Advance(state *State, dt float64, model preset.Model, scenario preset.Scenario) {
	if dt < 0 {
		dt = 0
	}
	if dt > maxDtSeconds {
		dt = maxDtSeconds
	}

	applyPendingConfig(state, model)
	handleRestart(state, dt, scenario)
	advancePoolState(state, dt, scenario)
	advanceHashrate(state, dt, model, scenario)
	advancePower(state, model)
	advanceThermal(state, dt, model, scenario)
	advanceFan(state, model)
	advanceShares(state, dt, scenario)
	advanceUptime(state, dt)

	sanitizeState(state, model, scenario)
}

// applyPendingConfig merges state.PendingConfig into the live Config and
// clears it (spec §4.3 step 1), clamping frequency/voltage back into the
// model's supported band in case the catalog changed underneath a stale
// patch.
func applyPendingConfig(state *State, model preset.Model) {
	if state.PendingConfig.IsEmpty() {
		return
	}
	state.Config = state.PendingConfig.ApplyTo(state.Config)
	state.Config.CoreVoltageMV = model.CoreVoltageMV.Clamp(state.Config.CoreVoltageMV)
	state.Config.FrequencyMHz = model.FrequencyMHz.Clamp(state.Config.FrequencyMHz)
	state.PendingConfig = configsurface.Patch{}
}

func handleRestart(state *State, dt float64, scenario preset.Scenario) {
	if state.RestartRemainingS <= 0 {
		return
	}
	state.PoolState = PoolRestarting
	state.RestartRemainingS -= dt
	if state.RestartRemainingS <= 0 {
		state.RestartRemainingS = 0
		state.PoolState = PoolConnecting
		state.connectRemainingS = drawConnectDelay(state, scenario)
	}
}

// advancePoolState runs the tick-driven pool connection state machine
// (spec §4.3 step 3). Restarting is only entered via the restart action,
// handled above in handleRestart.
func advancePoolState(state *State, dt float64, scenario preset.Scenario) {
	if state.PoolState == PoolRestarting {
		return
	}

	switch state.PoolState {
	case PoolConnecting:
		state.connectRemainingS -= dt
		if state.connectRemainingS <= 0 {
			state.connectRemainingS = 0
			state.PoolState = PoolMining
		}
	case PoolMining:
		if state.PRNG.Bernoulli(scenario.DisconnectRate * dt) {
			state.PoolState = PoolReconnect
			state.reconnectRemainingS = state.PRNG.Exponential(scenario.MTTRSeconds)
		}
	case PoolReconnect:
		state.reconnectRemainingS -= dt
		if state.reconnectRemainingS <= 0 {
			state.reconnectRemainingS = 0
			state.PoolState = PoolMining
		}
	case PoolConnected:
		// Not produced by this tick model; treat as mining-equivalent for
		// ramp purposes if ever set externally.
		state.PoolState = PoolMining
	}
}

func drawConnectDelay(state *State, scenario preset.Scenario) float64 {
	lo, hi := scenario.ConnectDelayS.MinS, scenario.ConnectDelayS.MaxS
	if hi <= lo {
		return lo
	}
	return lo + state.PRNG.Float64()*(hi-lo)
}

// advanceHashrate implements spec §4.3 step 4.
func advanceHashrate(state *State, dt float64, model preset.Model, scenario preset.Scenario) {
	mining := state.PoolState == PoolMining

	tau := rampDownTauS
	target := 0.0
	if mining {
		tau = rampUpTauS
		target = 1.0
	}
	alpha := 1 - math.Exp(-dt/tau)
	state.RampProgress += (target - state.RampProgress) * alpha
	if state.RampProgress < 0 {
		state.RampProgress = 0
	}
	if state.RampProgress > 1 {
		state.RampProgress = 1
	}

	if !mining && isHashrateZeroState(state.PoolState) {
		state.HashRateGhs = 0
		return
	}

	hStar := targetHashrateGhs(model, state.Config.FrequencyMHz, state.Config.CoreVoltageMV)
	jitter := state.PRNG.Normal(0, scenario.HashrateJitterSigma)
	rate := hStar * state.RampProgress * (1 + jitter)
	if rate < 0 {
		rate = 0
	}
	state.HashRateGhs = rate
}

// isHashrateZeroState reports whether spec §3's invariant
// "hashRateGhs == 0 while poolState in {restarting, connecting,
// reconnecting}" applies.
func isHashrateZeroState(s PoolState) bool {
	return s == PoolRestarting || s == PoolConnecting || s == PoolReconnect
}

// advancePower implements spec §4.3 step 5.
func advancePower(state *State, model preset.Model) {
	state.PowerW = instantaneousPowerW(model, state.Config.FrequencyMHz, state.Config.CoreVoltageMV, state.RampProgress)
}

// advanceThermal implements spec §4.3 step 6 via Euler integration.
func advanceThermal(state *State, dt float64, model preset.Model, scenario preset.Scenario) {
	ambient := model.AmbientCDefault
	if scenario.AmbientOverrideC != nil {
		ambient = *scenario.AmbientOverrideC
	}
	state.AmbientC = ambient

	heatIn := state.PowerW
	passiveLoss := (state.ChipTempC - ambient) / model.ThermalResistanceCPerW
	fanLoss := kFanCooling * (state.FanPercent / 100) * (state.ChipTempC - ambient)
	heatOut := passiveLoss + fanLoss

	noise := state.PRNG.Normal(0, scenario.ThermalNoiseSigma)
	state.ChipTempC += dt*(heatIn-heatOut)/model.ThermalMassJPerC + noise

	vrNoise := state.PRNG.Normal(0, scenario.ThermalNoiseSigma*0.2)
	state.VRTempC = state.ChipTempC + model.VROffsetC + vrNoise
}

// advanceFan implements spec §4.3 step 7: a PI controller in auto mode,
// direct passthrough in manual mode.
func advanceFan(state *State, model preset.Model) {
	if state.Config.AutoFanSpeed == 1 {
		errC := state.ChipTempC - state.Config.TargetTempC

		state.fanIntegral += errC
		if state.fanIntegral > fanIntegralClamp {
			state.fanIntegral = fanIntegralClamp
		}
		if state.fanIntegral < -fanIntegralClamp {
			state.fanIntegral = -fanIntegralClamp
		}

		fan := fanBaselinePct + fanKp*errC + fanKi*state.fanIntegral
		if fan < fanMinPercent {
			fan = fanMinPercent
		}
		if fan > fanMaxPercent {
			fan = fanMaxPercent
		}
		if state.ChipTempC > state.Config.TargetTempC+fanHardCeilingOff {
			fan = fanMaxPercent
		}
		state.FanPercent = fan
	} else {
		state.fanIntegral = 0
		p := float64(state.Config.ManualFanPercent)
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		state.FanPercent = p
	}

	state.FanRPM = state.FanPercent / 100 * float64(model.FanMaxRPM)
}

// advanceShares implements spec §4.3 step 8: Poisson-sampled accepted and
// rejected shares while mining, plus an EWMA error percentage floored by
// the scenario.
func advanceShares(state *State, dt float64, scenario preset.Scenario) {
	if state.PoolState != PoolMining {
		return
	}

	const sharesPerGhsPerSecond = 0.002
	lambda := state.HashRateGhs * sharesPerGhsPerSecond * dt
	if lambda < 0 {
		lambda = 0
	}

	acceptBias := scenario.AcceptBias
	if acceptBias <= 0 {
		acceptBias = 1
	}
	rejectBias := 1 - acceptBias
	if rejectBias < 0 {
		rejectBias = 0
	}

	accepted := state.PRNG.Poisson(lambda * acceptBias)
	rejected := state.PRNG.Poisson(lambda * rejectBias)

	state.SharesAccepted += uint64(accepted)
	state.SharesRejected += uint64(rejected)

	total := accepted + rejected
	sampleErrorPct := 0.0
	if total > 0 {
		sampleErrorPct = float64(rejected) / float64(total) * 100
	}

	const ewmaAlpha = 0.2
	state.errorEWMA += ewmaAlpha * (sampleErrorPct - state.errorEWMA)

	errPct := state.errorEWMA
	if errPct < scenario.ErrorFloorPct {
		errPct = scenario.ErrorFloorPct
	}
	if errPct > 100 {
		errPct = 100
	}
	if errPct < 0 {
		errPct = 0
	}
	state.ErrorPercentage = errPct

	if state.HashRateGhs > 0 {
		difficulty := state.HashRateGhs * (1 + state.PRNG.Float64()*0.05)
		if difficulty > state.BestDifficulty {
			state.BestDifficulty = difficulty
		}
	}
}

// advanceUptime implements spec §4.3 step 9: uptime stalls during restart
// (SPEC_FULL.md §12 Open question decision), does not reset.
func advanceUptime(state *State, dt float64) {
	if state.PoolState == PoolRestarting {
		return
	}
	state.UptimeSeconds += dt
}
