// Package configsurface validates and applies live PATCH-style changes to
// a miner's configuration (spec §4.2). Validation is per-field: a patch
// that fails on one key still has its other, valid keys enqueued.
package configsurface

import (
	"github.com/asicfleet/simulator/internal/preset"
)

// Config is the live, mutable set of user-controlled knobs (spec §3
// MinerConfig).
type Config struct {
	CoreVoltageMV    int     `json:"coreVoltage"`
	FrequencyMHz     int     `json:"frequency"`
	AutoFanSpeed     int     `json:"autofanspeed"`
	TargetTempC      float64 `json:"targettemp"`
	ManualFanPercent int     `json:"manualFanPercent"`
}

// Patch is a partial update: nil fields are left untouched.
type Patch struct {
	CoreVoltageMV    *int     `json:"coreVoltage,omitempty"`
	FrequencyMHz     *int     `json:"frequency,omitempty"`
	AutoFanSpeed     *int     `json:"autofanspeed,omitempty"`
	TargetTempC      *float64 `json:"targettemp,omitempty"`
	ManualFanPercent *int     `json:"manualFanPercent,omitempty"`
}

// IsEmpty reports whether the patch has no fields set.
func (p Patch) IsEmpty() bool {
	return p.CoreVoltageMV == nil && p.FrequencyMHz == nil && p.AutoFanSpeed == nil &&
		p.TargetTempC == nil && p.ManualFanPercent == nil
}

// Merge overlays non-nil fields of other onto p, other winning on overlap.
// Used when two patches land on the same miner before the next tick applies
// them (spec §5 ordering guarantee: later fields overwrite earlier ones
// per-field within one tick).
func (p Patch) Merge(other Patch) Patch {
	out := p
	if other.CoreVoltageMV != nil {
		out.CoreVoltageMV = other.CoreVoltageMV
	}
	if other.FrequencyMHz != nil {
		out.FrequencyMHz = other.FrequencyMHz
	}
	if other.AutoFanSpeed != nil {
		out.AutoFanSpeed = other.AutoFanSpeed
	}
	if other.TargetTempC != nil {
		out.TargetTempC = other.TargetTempC
	}
	if other.ManualFanPercent != nil {
		out.ManualFanPercent = other.ManualFanPercent
	}
	return out
}

// ApplyTo merges non-nil fields of p into live, returning the updated value.
func (p Patch) ApplyTo(live Config) Config {
	if p.CoreVoltageMV != nil {
		live.CoreVoltageMV = *p.CoreVoltageMV
	}
	if p.FrequencyMHz != nil {
		live.FrequencyMHz = *p.FrequencyMHz
	}
	if p.AutoFanSpeed != nil {
		live.AutoFanSpeed = *p.AutoFanSpeed
	}
	if p.TargetTempC != nil {
		live.TargetTempC = *p.TargetTempC
	}
	if p.ManualFanPercent != nil {
		live.ManualFanPercent = *p.ManualFanPercent
	}
	return live
}

// Violation describes a single rejected field within a patch (spec §7
// InvalidConfig).
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

const (
	minTargetTempC = 30.0
	maxTargetTempC = 90.0
)

// RawPatch is the wire shape accepted from API callers: every field is
// optional and unknown keys are silently dropped by the caller before
// reaching here (spec §6).
type RawPatch struct {
	CoreVoltageMV    *int     `json:"coreVoltage"`
	FrequencyMHz     *int     `json:"frequency"`
	AutoFanSpeed     *int     `json:"autofanspeed"`
	TargetTempC      *float64 `json:"targettemp"`
	ManualFanPercent *int     `json:"manualFanPercent"`
}

// Validate independently checks every field of raw against model-defined
// bounds, returning a sanitized Patch containing only the fields that
// passed and a list of violations for the fields that didn't (spec §4.2).
// Policy is per-field acceptance: a violation on one field never drops the
// others.
func Validate(model preset.Model, raw RawPatch) (Patch, []Violation) {
	var out Patch
	var violations []Violation

	if raw.CoreVoltageMV != nil {
		v := *raw.CoreVoltageMV
		if v < model.CoreVoltageMV.Min || v > model.CoreVoltageMV.Max {
			violations = append(violations, Violation{
				Field:  "coreVoltage",
				Reason: "out_of_range",
			})
		} else {
			out.CoreVoltageMV = &v
		}
	}

	if raw.FrequencyMHz != nil {
		v := *raw.FrequencyMHz
		if v < model.FrequencyMHz.Min || v > model.FrequencyMHz.Max {
			violations = append(violations, Violation{
				Field:  "frequency",
				Reason: "out_of_range",
			})
		} else {
			out.FrequencyMHz = &v
		}
	}

	if raw.AutoFanSpeed != nil {
		v := *raw.AutoFanSpeed
		if v != 0 && v != 1 {
			violations = append(violations, Violation{
				Field:  "autofanspeed",
				Reason: "must_be_0_or_1",
			})
		} else {
			out.AutoFanSpeed = &v
		}
	}

	if raw.TargetTempC != nil {
		v := *raw.TargetTempC
		if v < minTargetTempC || v > maxTargetTempC {
			violations = append(violations, Violation{
				Field:  "targettemp",
				Reason: "out_of_range",
			})
		} else {
			out.TargetTempC = &v
		}
	}

	if raw.ManualFanPercent != nil {
		v := *raw.ManualFanPercent
		if v < 0 || v > 100 {
			violations = append(violations, Violation{
				Field:  "manualFanPercent",
				Reason: "out_of_range",
			})
		} else {
			out.ManualFanPercent = &v
		}
	}

	return out, violations
}

// DefaultFor returns the live config seeded from a model's nominal
// operating point, used when a miner is first created.
func DefaultFor(model preset.Model) Config {
	return Config{
		CoreVoltageMV:    model.CoreVoltageMV.Nominal,
		FrequencyMHz:     model.FrequencyMHz.Nominal,
		AutoFanSpeed:     1,
		TargetTempC:      65,
		ManualFanPercent: 50,
	}
}
