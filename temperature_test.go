package swesoc

import (
	"math"
	"math/rand"
	"testing"
)

// TestArrhenius_ReferenceTriple verifies the formula is reproduced exactly
// for the reference parameterization A=1000, Ea=75000 at 20 °C.
func TestArrhenius_ReferenceTriple(t *testing.T) {
	f := ArrheniusTemperature{A: 1000, Ea: 75000}

	got, ok := f.Eval(20).Float()
	if !ok {
		t.Fatal("20 °C is inside the domain, got no value")
	}

	tempC := 20.0
	tk := tempC + KelvinOffset
	want := 1000 * math.Exp(-75000/(GasConstant*tk))
	if got != want {
		t.Errorf("Arrhenius(20 °C) = %.17g, want %.17g", got, want)
	}

	// The 273.16 offset is load-bearing: the 273.15 variant is a
	// different model and must not match.
	wrong := 1000 * math.Exp(-75000/(GasConstant*(tempC+273.15)))
	if got == wrong {
		t.Error("Arrhenius evaluated with the 273.15 offset")
	}

	t.Logf("✓ Arrhenius(20 °C) = %.6g with T_K = T + 273.16", got)
}

// TestArrhenius_BelowAbsoluteZero verifies unphysical temperatures are a
// gap, not a number.
func TestArrhenius_BelowAbsoluteZero(t *testing.T) {
	f := DefaultArrheniusTemperature()

	if v := f.Eval(-280); v.IsDefined() {
		t.Errorf("Arrhenius(-280 °C) = %s, want no value", v)
	}
	if v := f.Eval(-KelvinOffset); v.IsDefined() {
		t.Errorf("Arrhenius at absolute zero = %s, want no value", v)
	}
}

// TestRothC_DomainBound verifies the historical −18.3 °C bound: no value at
// and below it, a finite positive multiplier just above it.
func TestRothC_DomainBound(t *testing.T) {
	f := RothCTemperature{}

	for _, temp := range []float64{-18.3, -18.31, -20, -100} {
		if v := f.Eval(temp); v.IsDefined() {
			t.Errorf("RothC(%g °C) = %s, want no value", temp, v)
		}
	}

	got, ok := f.Eval(-18).Float()
	if !ok {
		t.Fatal("RothC(-18 °C) must be defined")
	}
	if math.IsNaN(got) || math.IsInf(got, 0) || got < 0 {
		t.Errorf("RothC(-18 °C) = %g, want finite non-negative", got)
	}
	t.Logf("✓ RothC(-18 °C) = %g, no value at and below -18.3 °C", got)
}

// TestRothC_ReferenceShape verifies the modifier is ≈1 near 9.3 °C (the
// published normalization) and rises with temperature.
func TestRothC_ReferenceShape(t *testing.T) {
	f := RothCTemperature{}

	ref, _ := f.Eval(9.25).Float()
	if ref < 0.9 || ref > 1.1 {
		t.Errorf("RothC(9.25 °C) = %g, want ≈1", ref)
	}

	prev := -1.0
	for _, temp := range []float64{0, 5, 10, 20, 30, 40} {
		v, ok := f.Eval(temp).Float()
		if !ok {
			t.Fatalf("RothC(%g °C) unexpectedly undefined", temp)
		}
		if v <= prev {
			t.Errorf("RothC not rising at %g °C: %g after %g", temp, v, prev)
		}
		prev = v
	}
	t.Logf("✓ RothC(9.25 °C) = %.4f, monotone rising on 0..40 °C", ref)
}

// TestCentury_OptimumAndCeiling verifies the CENTURY response is exactly 1
// at the optimum and undefined at and above Tmax.
func TestCentury_OptimumAndCeiling(t *testing.T) {
	f := DefaultCenturyTemperature()

	got, ok := f.Eval(f.Topt).Float()
	if !ok {
		t.Fatal("Century at the optimum must be defined")
	}
	if got != 1 {
		t.Errorf("Century(Topt) = %.17g, want exactly 1", got)
	}

	for _, temp := range []float64{45, 45.0001, 60, 100} {
		if v := f.Eval(temp); v.IsDefined() {
			t.Errorf("Century(%g °C) = %s, want no value at T ≥ Tmax", temp, v)
		}
	}

	cool, _ := f.Eval(20).Float()
	if cool >= got {
		t.Errorf("Century(20 °C) = %g, want below the optimum value", cool)
	}
	t.Logf("✓ Century: f(Topt)=1, f(20 °C)=%.4f, no value from %g °C", cool, f.Tmax)
}

// TestCentury_ShapeValidation rejects Tmax ≤ Topt.
func TestCentury_ShapeValidation(t *testing.T) {
	bad := CenturyTemperature{Tmax: 30, Topt: 35}
	if err := bad.Validate(); err == nil {
		t.Error("Validate accepted Tmax < Topt")
	}
	if v := bad.Eval(10); v.IsDefined() {
		t.Errorf("malformed shape evaluated to %s, want no value", v)
	}
}

// TestTwoRegime_NeverExceedsOne is the ceiling property: over randomly
// sampled temperatures the response stays inside [0, 1] in both regimes.
func TestTwoRegime_NeverExceedsOne(t *testing.T) {
	f := DefaultTwoRegimeTemperature()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 10000; i++ {
		temp := -60 + 140*rng.Float64()
		v, ok := f.Eval(temp).Float()
		if !ok {
			t.Fatalf("two-regime undefined at %g °C", temp)
		}
		if v < 0 || v > 1 {
			t.Fatalf("two-regime(%g °C) = %g outside [0, 1]", temp, v)
		}
	}
	t.Logf("✓ two-regime within [0, 1] over 10000 sampled temperatures")
}

// TestTwoRegime_Regimes walks the response across its pieces: biological
// zero below Tmin, quadratic rise, capped plateau, linear decline.
func TestTwoRegime_Regimes(t *testing.T) {
	f := DefaultTwoRegimeTemperature()

	for _, temp := range []float64{-10, f.Tmin} {
		v, ok := f.Eval(temp).Float()
		if !ok || v != 0 {
			t.Errorf("two-regime(%g °C) = %v, want the defined biological zero", temp, f.Eval(temp))
		}
	}

	rising, _ := f.Eval(0).Float()
	if rising <= 0 || rising >= 1 {
		t.Errorf("two-regime(0 °C) = %g, want inside (0, 1)", rising)
	}

	// Between Tref and Topt the raw quadratic exceeds 1; the cap holds.
	atRef, _ := f.Eval(f.Tref).Float()
	if atRef != 1 {
		t.Errorf("two-regime(Tref) = %.17g, want exactly 1", atRef)
	}
	plateau, _ := f.Eval(20).Float()
	if plateau != 1 {
		t.Errorf("two-regime(20 °C) = %.17g, want capped at 1", plateau)
	}

	decline, _ := f.Eval(40).Float()
	want := 1 - f.Decline*10
	if math.Abs(decline-want) > 1e-9 {
		t.Errorf("two-regime(40 °C) = %g, want %g (linear decline)", decline, want)
	}

	floor, _ := f.Eval(80).Float()
	if floor != 0 {
		t.Errorf("two-regime(80 °C) = %g, want clipped to 0", floor)
	}

	t.Logf("✓ regimes: 0 below %g °C, rise %.4f at 0 °C, plateau 1, decline %.2f at 40 °C",
		f.Tmin, rising, decline)
}

// TestQ10_Ratios verifies the defining ratios of the Q10 family.
func TestQ10_Ratios(t *testing.T) {
	f := DefaultQ10Temperature()

	atRef, _ := f.Eval(f.Tref).Float()
	if atRef != 1 {
		t.Errorf("Q10(Tref) = %g, want exactly 1", atRef)
	}
	warm, _ := f.Eval(f.Tref + 10).Float()
	if warm != f.Q10 {
		t.Errorf("Q10(Tref+10) = %g, want %g", warm, f.Q10)
	}
	cool, _ := f.Eval(f.Tref - 10).Float()
	if math.Abs(cool-1/f.Q10) > 1e-15 {
		t.Errorf("Q10(Tref-10) = %g, want %g", cool, 1/f.Q10)
	}

	if err := (Q10Temperature{Q10: 0, Tref: 10}).Validate(); err == nil {
		t.Error("Validate accepted Q10 = 0")
	}
}
