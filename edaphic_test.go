package swesoc

import (
	"math"
	"testing"
)

// TestClayModifier verifies the linear texture reduction and its domain.
func TestClayModifier(t *testing.T) {
	f := DefaultClayModifier()

	coarse, _ := f.Eval(0).Float()
	if coarse != 1 {
		t.Errorf("clay(0) = %g, want 1 for a sand", coarse)
	}

	loam, _ := f.Eval(0.2).Float()
	if math.Abs(loam-0.85) > 1e-12 {
		t.Errorf("clay(0.2) = %g, want 0.85", loam)
	}

	// Slope 1 at pure clay bottoms out at zero, never below.
	steep := ClayModifier{Slope: 1}
	if v, _ := steep.Eval(1).Float(); v != 0 {
		t.Errorf("clay(1) with slope 1 = %g, want 0", v)
	}

	for _, clay := range []float64{-0.01, 1.01} {
		if v := f.Eval(clay); v.IsDefined() {
			t.Errorf("clay(%g) = %s, want no value outside [0, 1]", clay, v)
		}
	}

	for _, slope := range []float64{-0.1, 1.3} {
		if err := (ClayModifier{Slope: slope}).Validate(); err == nil {
			t.Errorf("Validate accepted slope %g", slope)
		}
	}
	t.Logf("✓ clay modifier: 1 at sand, %.2f at 20%% clay", loam)
}

// TestConstantScaling verifies the multiplier is driver-independent.
func TestConstantScaling(t *testing.T) {
	f := ConstantScaling{Factor: 1.3}

	for _, driver := range []float64{-40, 0, 7.5, 1e6} {
		v, ok := f.Eval(driver).Float()
		if !ok || v != 1.3 {
			t.Errorf("constant(%g) = %v, want 1.3 regardless of driver", driver, f.Eval(driver))
		}
	}

	if v, _ := DefaultConstantScaling().Eval(0).Float(); v != 1 {
		t.Errorf("default constant = %g, want the identity 1", v)
	}

	if err := (ConstantScaling{Factor: -0.5}).Validate(); err == nil {
		t.Error("Validate accepted a negative multiplier")
	}
	t.Logf("✓ constant factor 1.3 returned for every driver value")
}
