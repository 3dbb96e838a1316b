package configsurface

import (
	"testing"

	"github.com/asicfleet/simulator/internal/preset"
)

func testModel() preset.Model {
	return preset.Model{
		ModelID:       "test_model",
		FrequencyMHz:  preset.Range{Nominal: 500, Min: 400, Max: 600},
		CoreVoltageMV: preset.Range{Nominal: 1150, Min: 1000, Max: 1300},
	}
}

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestValidateAcceptsAllFieldsInRange(t *testing.T) {
	model := testModel()
	raw := RawPatch{
		CoreVoltageMV:    intPtr(1200),
		FrequencyMHz:     intPtr(550),
		AutoFanSpeed:     intPtr(0),
		TargetTempC:      floatPtr(70),
		ManualFanPercent: intPtr(80),
	}

	patch, violations := Validate(model, raw)
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
	if patch.CoreVoltageMV == nil || *patch.CoreVoltageMV != 1200 {
		t.Fatal("coreVoltage not accepted")
	}
	if patch.FrequencyMHz == nil || *patch.FrequencyMHz != 550 {
		t.Fatal("frequency not accepted")
	}
}

func TestValidatePerFieldIndependence(t *testing.T) {
	model := testModel()
	raw := RawPatch{
		CoreVoltageMV: intPtr(9999), // out of range
		FrequencyMHz:  intPtr(550),  // valid
	}

	patch, violations := Validate(model, raw)
	if len(violations) != 1 || violations[0].Field != "coreVoltage" {
		t.Fatalf("expected single coreVoltage violation, got %v", violations)
	}
	if patch.CoreVoltageMV != nil {
		t.Fatal("rejected field must not appear in the sanitized patch")
	}
	if patch.FrequencyMHz == nil || *patch.FrequencyMHz != 550 {
		t.Fatal("valid sibling field must still be accepted")
	}
}

func TestValidateAutoFanSpeedMustBeZeroOrOne(t *testing.T) {
	model := testModel()
	raw := RawPatch{AutoFanSpeed: intPtr(2)}

	_, violations := Validate(model, raw)
	if len(violations) != 1 || violations[0].Reason != "must_be_0_or_1" {
		t.Fatalf("expected must_be_0_or_1 violation, got %v", violations)
	}
}

func TestValidateTargetTempBounds(t *testing.T) {
	model := testModel()

	if _, violations := Validate(model, RawPatch{TargetTempC: floatPtr(10)}); len(violations) != 1 {
		t.Fatal("expected violation for target temp below minimum")
	}
	if _, violations := Validate(model, RawPatch{TargetTempC: floatPtr(95)}); len(violations) != 1 {
		t.Fatal("expected violation for target temp above maximum")
	}
	if _, violations := Validate(model, RawPatch{TargetTempC: floatPtr(65)}); len(violations) != 0 {
		t.Fatal("65C should be within bounds")
	}
}

func TestPatchMergeOtherWins(t *testing.T) {
	a := Patch{CoreVoltageMV: intPtr(1100), FrequencyMHz: intPtr(500)}
	b := Patch{FrequencyMHz: intPtr(600)}

	merged := a.Merge(b)
	if merged.CoreVoltageMV == nil || *merged.CoreVoltageMV != 1100 {
		t.Fatal("field only set in a should survive the merge")
	}
	if merged.FrequencyMHz == nil || *merged.FrequencyMHz != 600 {
		t.Fatal("field set in both should take b's value")
	}
}

func TestPatchIsEmpty(t *testing.T) {
	if !(Patch{}).IsEmpty() {
		t.Fatal("zero-value patch must be empty")
	}
	if (Patch{FrequencyMHz: intPtr(1)}).IsEmpty() {
		t.Fatal("patch with a set field must not be empty")
	}
}

func TestApplyToOverwritesOnlySetFields(t *testing.T) {
	live := Config{CoreVoltageMV: 1100, FrequencyMHz: 500, AutoFanSpeed: 1, TargetTempC: 65, ManualFanPercent: 50}
	patch := Patch{FrequencyMHz: intPtr(600)}

	out := patch.ApplyTo(live)
	if out.FrequencyMHz != 600 {
		t.Fatal("frequency should be updated")
	}
	if out.CoreVoltageMV != 1100 {
		t.Fatal("untouched fields must be preserved")
	}
}

func TestDefaultForSeedsFromNominal(t *testing.T) {
	model := testModel()
	cfg := DefaultFor(model)
	if cfg.CoreVoltageMV != model.CoreVoltageMV.Nominal {
		t.Fatal("default coreVoltage must start at nominal")
	}
	if cfg.FrequencyMHz != model.FrequencyMHz.Nominal {
		t.Fatal("default frequency must start at nominal")
	}
	if cfg.AutoFanSpeed != 1 {
		t.Fatal("default autofanspeed should start enabled")
	}
}
