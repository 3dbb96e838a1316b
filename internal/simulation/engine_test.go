package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/asicfleet/simulator/internal/configsurface"
	"github.com/asicfleet/simulator/internal/preset"
	"github.com/asicfleet/simulator/internal/prng"
)

// testModelFor returns a fully calibrated model by loading it through the
// real preset catalog constructor, since Model.kDyn/pIdle are only set by
// the unexported calibrate() step Default() runs.
func testModelFor(t *testing.T) preset.Model {
	t.Helper()
	catalog, err := preset.Default()
	if err != nil {
		t.Fatalf("preset.Default(): %v", err)
	}
	model, ok := catalog.Model("bm1370_4chip")
	if !ok {
		t.Fatal("bm1370_4chip missing from default catalog")
	}
	return model
}

func healthyScenario() preset.Scenario {
	catalog, err := preset.Default()
	if err != nil {
		panic(err)
	}
	scenario, ok := catalog.Scenario("healthy")
	if !ok {
		panic("healthy scenario missing from default catalog")
	}
	return scenario
}

func newState(model preset.Model, scenario preset.Scenario) *State {
	cfg := configsurface.DefaultFor(model)
	now := time.Unix(0, 0)
	stream := prng.New(prng.Seed("m_test", now.UnixNano(), 1))
	return New("m_test", model.ModelID, scenario.ScenarioID, model.AmbientCDefault, cfg, now, stream, scenario.ConnectDelayS.MinS)
}

func TestAdvanceNeverProducesNaNOrInf(t *testing.T) {
	model := testModelFor(t)
	scenario := healthyScenario()
	state := newState(model, scenario)

	for i := 0; i < 2000; i++ {
		Advance(state, 1.0, model, scenario)

		if math.IsNaN(state.ChipTempC) || math.IsInf(state.ChipTempC, 0) {
			t.Fatalf("tick %d: chipTemp is %v", i, state.ChipTempC)
		}
		if math.IsNaN(state.HashRateGhs) || math.IsInf(state.HashRateGhs, 0) {
			t.Fatalf("tick %d: hashRate is %v", i, state.HashRateGhs)
		}
		if state.HashRateGhs < 0 {
			t.Fatalf("tick %d: hashRate went negative: %v", i, state.HashRateGhs)
		}
		if state.ErrorPercentage < 0 || state.ErrorPercentage > 100 {
			t.Fatalf("tick %d: errorPercentage out of bounds: %v", i, state.ErrorPercentage)
		}
		if state.FanPercent < 0 || state.FanPercent > 100 {
			t.Fatalf("tick %d: fanPercent out of bounds: %v", i, state.FanPercent)
		}
	}
}

func TestHashrateZeroDuringNonMiningStates(t *testing.T) {
	model := testModelFor(t)
	scenario := healthyScenario()
	state := newState(model, scenario)

	// Still connecting: hashrate must be zero.
	Advance(state, 0.1, model, scenario)
	if state.PoolState != PoolConnecting {
		t.Fatalf("expected still connecting, got %s", state.PoolState)
	}
	if state.HashRateGhs != 0 {
		t.Fatalf("hashRate must be 0 while connecting, got %v", state.HashRateGhs)
	}
}

func TestRestartStallsUptimeButDoesNotReset(t *testing.T) {
	model := testModelFor(t)
	scenario := healthyScenario()
	state := newState(model, scenario)

	// Drive to mining state and accumulate uptime.
	for i := 0; i < 5; i++ {
		Advance(state, 1.0, model, scenario)
	}
	uptimeBeforeRestart := state.UptimeSeconds
	if uptimeBeforeRestart <= 0 {
		t.Fatal("expected uptime to have accumulated before restart")
	}

	state.RestartRemainingS = 3
	state.PoolState = PoolRestarting

	Advance(state, 1.0, model, scenario)
	if state.UptimeSeconds != uptimeBeforeRestart {
		t.Fatalf("uptime must stall during restart: before=%v after=%v", uptimeBeforeRestart, state.UptimeSeconds)
	}
	if state.HashRateGhs != 0 {
		t.Fatal("hashrate must be 0 while restarting")
	}

	for state.PoolState == PoolRestarting {
		Advance(state, 1.0, model, scenario)
	}
	if state.UptimeSeconds < uptimeBeforeRestart {
		t.Fatalf("uptime must never drop below its pre-restart value: before=%v after=%v", uptimeBeforeRestart, state.UptimeSeconds)
	}
}

func TestDeterministicReplayWithFixedSeed(t *testing.T) {
	model := testModelFor(t)
	scenario := healthyScenario()

	run := func() (float64, float64, uint64) {
		state := newState(model, scenario)
		for i := 0; i < 500; i++ {
			Advance(state, 1.0, model, scenario)
		}
		return state.HashRateGhs, state.ChipTempC, state.SharesAccepted
	}

	h1, t1, s1 := run()
	h2, t2, s2 := run()
	if h1 != h2 || t1 != t2 || s1 != s2 {
		t.Fatalf("replay diverged: (%v,%v,%v) != (%v,%v,%v)", h1, t1, s1, h2, t2, s2)
	}
}

// TestAutoFanSpeedConvergesToEquilibrium drives the engine long enough for
// the thermal and fan-PI loops to settle and checks the fan has ramped up
// in response to running above its target (rather than sitting at
// baseline) and that the chip temperature has stopped climbing. Per-tick
// thermal noise keeps the settled temperature wandering by about a degree,
// so "settled" means it moved by no more than 3 °C over the last 100 ticks.
func TestAutoFanSpeedConvergesToEquilibrium(t *testing.T) {
	model := testModelFor(t)
	scenario := healthyScenario()
	state := newState(model, scenario)
	state.Config.AutoFanSpeed = 1
	state.Config.TargetTempC = 60

	var prevTemp float64
	for i := 0; i < 1000; i++ {
		Advance(state, 1.0, model, scenario)
		if i == 900 {
			prevTemp = state.ChipTempC
		}
	}

	if state.FanPercent <= fanBaselinePct {
		t.Fatalf("fan should have ramped above baseline while running hot, got %v", state.FanPercent)
	}
	if math.Abs(state.ChipTempC-prevTemp) > 3.0 {
		t.Fatalf("chip temperature should have settled by tick 1000, moved %v in the last 100 ticks", state.ChipTempC-prevTemp)
	}
}

func TestManualFanPercentIsDirectPassthrough(t *testing.T) {
	model := testModelFor(t)
	scenario := healthyScenario()
	state := newState(model, scenario)
	state.Config.AutoFanSpeed = 0
	state.Config.ManualFanPercent = 77

	Advance(state, 1.0, model, scenario)
	if state.FanPercent != 77 {
		t.Fatalf("manual fan percent should pass through directly, got %v", state.FanPercent)
	}
}

func TestConfigPatchAppliesAtNextTick(t *testing.T) {
	model := testModelFor(t)
	scenario := healthyScenario()
	state := newState(model, scenario)

	newFreq := 600
	state.PendingConfig = configsurface.Patch{FrequencyMHz: &newFreq}

	Advance(state, 1.0, model, scenario)
	if state.Config.FrequencyMHz != newFreq {
		t.Fatalf("pending frequency patch should have applied, got %v", state.Config.FrequencyMHz)
	}
	if !state.PendingConfig.IsEmpty() {
		t.Fatal("pending config must be cleared after application")
	}
}

func TestSanitizeRecoversNaNFields(t *testing.T) {
	model := testModelFor(t)
	scenario := healthyScenario()
	state := newState(model, scenario)

	state.ChipTempC = math.NaN()
	state.HashRateGhs = math.Inf(1)

	sanitizeState(state, model, scenario)

	if math.IsNaN(state.ChipTempC) {
		t.Fatal("chipTempC should have been recovered from NaN")
	}
	if math.IsInf(state.HashRateGhs, 0) {
		t.Fatal("hashRateGhs should have been recovered from Inf")
	}
}
