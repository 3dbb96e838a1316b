package simulation

import (
	"math"

	"github.com/asicfleet/simulator/internal/preset"
)

// frequencyVoltageFactor is the hashrate/power scaling function f(freq,
// coreV) spec §4.3 step 4 leaves as a preset-supplied hook (open question,
// resolved in SPEC_FULL.md §12): linear in frequency, sub-linear (square
// root) in voltage, normalized so f(nominal, nominal) == 1 exactly.
func frequencyVoltageFactor(model preset.Model, freqMHz, coreVMV int) float64 {
	freqRatio := float64(freqMHz) / float64(model.FrequencyMHz.Nominal)
	voltRatio := float64(coreVMV) / float64(model.CoreVoltageMV.Nominal)
	return freqRatio * (0.5 + 0.5*math.Sqrt(voltRatio))
}

// targetHashrateGhs computes H* = asic_count * hashrate_per_chip * f(freq,coreV).
func targetHashrateGhs(model preset.Model, freqMHz, coreVMV int) float64 {
	return float64(model.ASICCount) * model.HashratePerChipGhsAtNominal * frequencyVoltageFactor(model, freqMHz, coreVMV)
}

// instantaneousPowerW computes P = P_idle + k_dyn * (freq/nominalFreq) *
// (coreV/nominalCoreV)^2 * rampProgress (spec §4.3 step 5), with k_dyn
// calibrated at catalog load time so nominal config + rampProgress=1
// reproduces model.PowerWAtNominal exactly.
func instantaneousPowerW(model preset.Model, freqMHz, coreVMV int, rampProgress float64) float64 {
	freqRatio := float64(freqMHz) / float64(model.FrequencyMHz.Nominal)
	voltRatio := float64(coreVMV) / float64(model.CoreVoltageMV.Nominal)
	return model.PIdle() + model.KDyn()*freqRatio*voltRatio*voltRatio*rampProgress
}
