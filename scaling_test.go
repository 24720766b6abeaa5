package swesoc

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"
)

// TestValue_Marker verifies the out-of-domain marker is distinguishable from
// a defined zero.
func TestValue_Marker(t *testing.T) {
	gap := NoValue()
	if gap.IsDefined() {
		t.Error("NoValue reports defined")
	}
	if x, ok := gap.Float(); ok || x != 0 {
		t.Errorf("NoValue().Float() = (%g, %t), want (0, false)", x, ok)
	}
	if gap.String() != "no value" {
		t.Errorf("NoValue().String() = %q", gap.String())
	}

	zero := Defined(0)
	if !zero.IsDefined() {
		t.Error("Defined(0) reports undefined; a biological zero is a value")
	}
	if Defined(1.5).String() != "1.5" {
		t.Errorf("Defined(1.5).String() = %q", Defined(1.5).String())
	}
}

// TestEvalSeries verifies index alignment and the empty-series case.
func TestEvalSeries(t *testing.T) {
	out := EvalSeries(RothCTemperature{}, nil)
	if out == nil || len(out) != 0 {
		t.Fatalf("EvalSeries(nil) = %v, want empty non-nil", out)
	}

	series := []float64{10, -100, 20}
	out = EvalSeries(RothCTemperature{}, series)
	if len(out) != len(series) {
		t.Fatalf("got %d values for %d observations", len(out), len(series))
	}
	if !out[0].IsDefined() || out[1].IsDefined() || !out[2].IsDefined() {
		t.Errorf("alignment broken: %v", out)
	}
}

// TestBuild_Registry verifies name lookup, parameter override, and rejection
// of typos at both levels.
func TestBuild_Registry(t *testing.T) {
	if _, err := Build("sigmoid", nil); err == nil {
		t.Error("Build accepted an unregistered name")
	}

	if _, err := Build("q10", map[string]float64{"qten": 3}); err == nil {
		t.Error("Build accepted an unknown parameter name")
	}

	// Shape validation runs inside Build.
	if _, err := Build("century", map[string]float64{"tmax": 20}); err == nil {
		t.Error("Build accepted Tmax below the default Topt")
	}

	fn, err := Build("q10", map[string]float64{"q10": 3, "tref": 15})
	if err != nil {
		t.Fatalf("Build(q10) failed: %v", err)
	}
	got, _ := fn.Eval(25).Float()
	if got != 3 {
		t.Errorf("built q10(25 °C) = %g, want 3 (one decade above tref)", got)
	}

	// A build with no overrides equals the default constructor.
	def, err := Build("two-regime", nil)
	if err != nil {
		t.Fatalf("Build(two-regime) failed: %v", err)
	}
	want := DefaultTwoRegimeTemperature()
	for _, temp := range []float64{-5, 0, 5.4, 20, 40} {
		if def.Eval(temp) != want.Eval(temp) {
			t.Errorf("built two-regime differs from default at %g °C", temp)
		}
	}
	t.Logf("✓ registry builds %d functions with parameter override and typo rejection", len(FunctionNames()))
}

// TestFunctionNames lists the full registry, sorted for stable CLI output.
func TestFunctionNames(t *testing.T) {
	names := FunctionNames()
	if !sort.StringsAreSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}

	want := []string{
		"arrhenius", "century", "clay-linear", "constant",
		"moisture-optimum", "moisture-power", "q10", "rothc", "two-regime",
	}
	if len(names) != len(want) {
		t.Fatalf("registry has %d functions, want %d: %v", len(names), len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("names[%d] = %q, want %q", i, names[i], name)
		}
	}
}

// TestBuildFactors verifies channel lookup, horizon checks, and binding
// order.
func TestBuildFactors(t *testing.T) {
	bindings := []Binding{
		{Channel: "temperature", Function: "two-regime"},
		{Channel: "moisture", Function: "moisture-optimum"},
	}
	drivers := map[string][]float64{
		"temperature": {2, 8, 15},
		"moisture":    {0.2, 0.3, 0.25},
	}

	factors, err := BuildFactors(bindings, drivers, 3)
	if err != nil {
		t.Fatalf("BuildFactors failed: %v", err)
	}
	if len(factors) != 2 || len(factors[0]) != 3 || len(factors[1]) != 3 {
		t.Fatalf("factor shape wrong: %d series", len(factors))
	}

	// Binding order is preserved: the first series is the temperature one.
	wantTemp := DefaultTwoRegimeTemperature().Eval(2)
	if factors[0][0] != wantTemp {
		t.Errorf("factors[0][0] = %v, want the temperature response %v", factors[0][0], wantTemp)
	}

	if _, err := BuildFactors(bindings, map[string][]float64{"temperature": {2, 8, 15}}, 3); err == nil {
		t.Error("BuildFactors accepted a binding with no driver series")
	}

	var confErr *ConfigurationError
	_, err = BuildFactors(bindings, drivers, 4)
	if !errors.As(err, &confErr) {
		t.Fatalf("short driver series: got %v, want a configuration error", err)
	}
	t.Logf("✓ horizon mismatch reported: %v", confErr)
}

// TestScaling_FiniteNonNegative is the shared contract of the whole
// registry: wherever a function is defined, the multiplier is finite and
// non-negative, for any input.
func TestScaling_FiniteNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, name := range FunctionNames() {
		fn, err := Build(name, nil)
		if err != nil {
			t.Fatalf("Build(%s) failed: %v", name, err)
		}
		defined := 0
		for i := 0; i < 2000; i++ {
			driver := -50 + 110*rng.Float64()
			v, ok := fn.Eval(driver).Float()
			if !ok {
				continue
			}
			defined++
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				t.Fatalf("%s(%g) = %g, want finite non-negative", name, driver, v)
			}
		}
		t.Logf("✓ %-16s defined on %4d/2000 sampled inputs, all finite ≥ 0", name, defined)
	}
}
