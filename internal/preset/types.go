// Package preset defines the immutable parameter bundles the simulation
// engine consumes: ModelPreset (hardware archetype) and ScenarioPreset
// (behavioral overlay), plus the default built-in catalog and optional
// on-disk overlay loading.
package preset

// Range describes a [min, max] band with a nominal operating point inside
// it, used for frequency and core voltage.
type Range struct {
	Nominal int `json:"nominal"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// Clamp restricts v to [r.Min, r.Max].
func (r Range) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Model is an immutable hardware archetype (spec §3 ModelPreset).
type Model struct {
	ModelID                    string `json:"model_id"`
	DisplayName                string `json:"display_name"`
	ASICCount                  int    `json:"asic_count"`
	InputVoltageV              int    `json:"input_voltage_v"`
	FrequencyMHz               Range  `json:"frequency_mhz"`
	CoreVoltageMV              Range  `json:"core_voltage_mv"`
	HashratePerChipGhsAtNominal float64 `json:"hashrate_per_chip_ghs_at_nominal"`
	PowerWAtNominal            float64 `json:"power_w_at_nominal"`
	ThermalMassJPerC           float64 `json:"thermal_mass_j_per_c"`
	ThermalResistanceCPerW     float64 `json:"thermal_resistance_c_per_w"`
	VROffsetC                  float64 `json:"vr_offset_c"`
	FanMaxRPM                  int     `json:"fan_max_rpm"`
	AmbientCDefault            float64 `json:"ambient_c_default"`

	// kDyn is the calibrated dynamic-power coefficient solved at load time
	// so that nominal config reproduces PowerWAtNominal exactly (spec §4.3
	// step 5, open question in spec §9 — see SPEC_FULL.md §12).
	kDyn    float64
	pIdle   float64
}

// PublicView is what listModels() exposes externally (spec §6).
type PublicView struct {
	ModelID         string `json:"model_id"`
	DisplayName     string `json:"display_name"`
	ASICCount       int    `json:"asic_count"`
	InputVoltageV   int    `json:"input_voltage_v"`
	FrequencyMHz    Range  `json:"frequency_mhz"`
	CoreVoltageMV   Range  `json:"core_voltage_mv"`
	FanMaxRPM       int    `json:"fan_max_rpm"`
	AmbientCDefault float64 `json:"ambient_c_default"`
}

// PublicView projects the fields safe to expose to API callers.
func (m Model) PublicView() PublicView {
	return PublicView{
		ModelID:         m.ModelID,
		DisplayName:     m.DisplayName,
		ASICCount:       m.ASICCount,
		InputVoltageV:   m.InputVoltageV,
		FrequencyMHz:    m.FrequencyMHz,
		CoreVoltageMV:   m.CoreVoltageMV,
		FanMaxRPM:       m.FanMaxRPM,
		AmbientCDefault: m.AmbientCDefault,
	}
}

// KDyn returns the calibrated dynamic-power coefficient.
func (m Model) KDyn() float64 { return m.kDyn }

// PIdle returns the calibrated idle-power floor.
func (m Model) PIdle() float64 { return m.pIdle }

// calibrate solves kDyn/pIdle from PowerWAtNominal. Called once at catalog
// load time for every model (SPEC_FULL.md §12).
func (m *Model) calibrate() {
	m.pIdle = m.PowerWAtNominal * 0.08
	m.kDyn = m.PowerWAtNominal - m.pIdle
}

// DurationRange describes a [min,max] band of seconds for stochastic delays.
type DurationRange struct {
	MinS float64 `json:"min"`
	MaxS float64 `json:"max"`
}

// Scenario is an immutable behavioral overlay (spec §3 ScenarioPreset).
type Scenario struct {
	ScenarioID          string        `json:"scenario_id"`
	AmbientOverrideC    *float64      `json:"ambient_override_c"`
	AcceptBias          float64       `json:"accept_bias"`
	DisconnectRate      float64       `json:"disconnect_rate"`
	MTTRSeconds         float64       `json:"mttr_s"`
	ErrorFloorPct       float64       `json:"error_floor_pct"`
	HashrateJitterSigma float64       `json:"hashrate_jitter_sigma"`
	ThermalNoiseSigma   float64       `json:"thermal_noise_sigma"`
	ConnectDelayS       DurationRange `json:"connect_delay_s"`
	RestartDurationS    float64       `json:"restart_duration_s"`
}

// PublicListEntry is what listScenarios() exposes externally (spec §6).
type PublicListEntry struct {
	ScenarioID string `json:"scenario_id"`
}
